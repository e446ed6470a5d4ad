package repository

import (
	"context"

	"github.com/ManuelReschke/AuthorsHaven/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type likeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

// Add is idempotent: liking twice leaves a single row.
func (r *likeRepository) Add(ctx context.Context, userID, articleID string) error {
	like := models.Like{UserID: userID, ArticleID: articleID}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&like).Error
}

func (r *likeRepository) Remove(ctx context.Context, userID, articleID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND article_id = ?", userID, articleID).
		Delete(&models.Like{}).Error
}

func (r *likeRepository) ListForUser(ctx context.Context, userID string) ([]models.Article, error) {
	var articles []models.Article
	err := r.db.WithContext(ctx).
		Select("articles.id", "articles.title", "articles.slug").
		Joins("JOIN likes ON likes.article_id = articles.id").
		Where("likes.user_id = ?", userID).
		Order("likes.created_at ASC").
		Find(&articles).Error
	return articles, err
}
