package repository

import (
	"context"
	"sort"
	"strings"

	"github.com/ManuelReschke/AuthorsHaven/app/models"
	"gorm.io/gorm"
)

type articleRepository struct {
	db *gorm.DB
}

func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

func (r *articleRepository) Create(ctx context.Context, article *models.Article) error {
	return r.db.WithContext(ctx).Omit("Author").Create(article).Error
}

func (r *articleRepository) GetByID(ctx context.Context, id string) (*models.Article, error) {
	var article models.Article
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&article).Error; err != nil {
		return nil, err
	}
	return &article, nil
}

// GetByIDWithAuthor loads the article and only the author's public name fields.
func (r *articleRepository) GetByIDWithAuthor(ctx context.Context, id string) (*models.Article, error) {
	var article models.Article
	err := r.db.WithContext(ctx).
		Preload("Author", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "first_name", "last_name", "username")
		}).
		Where("id = ?", id).
		First(&article).Error
	if err != nil {
		return nil, err
	}
	return &article, nil
}

func (r *articleRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Article{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// AddViewCounts increments view_count for many articles with a single UPDATE.
func (r *articleRepository) AddViewCounts(ctx context.Context, deltas map[string]int64) error {
	if len(deltas) == 0 {
		return nil
	}

	ids := make([]string, 0, len(deltas))
	for id := range deltas {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var sb strings.Builder
	args := make([]interface{}, 0, len(ids)*2+len(ids))
	sb.WriteString("UPDATE articles SET view_count = view_count + CASE id ")
	for _, id := range ids {
		sb.WriteString("WHEN ? THEN ? ")
		args = append(args, id, deltas[id])
	}
	sb.WriteString("ELSE 0 END WHERE id IN (?")
	sb.WriteString(strings.Repeat(",?", len(ids)-1))
	sb.WriteString(")")
	for _, id := range ids {
		args = append(args, id)
	}

	return r.db.WithContext(ctx).Exec(sb.String(), args...).Error
}
