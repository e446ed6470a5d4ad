package repository

import (
	"context"

	"github.com/ManuelReschke/AuthorsHaven/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ratingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

// FindOrCreate relies on the (article_id, user_id) unique index: a concurrent
// insert for the same pair is ignored and the winner's row is re-read.
func (r *ratingRepository) FindOrCreate(ctx context.Context, rating *models.Rating) (*models.Rating, bool, error) {
	db := r.db.WithContext(ctx)

	res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(rating)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 1 {
		return rating, true, nil
	}

	var stored models.Rating
	err := db.Where("article_id = ? AND user_id = ?", rating.ArticleID, rating.UserID).First(&stored).Error
	if err != nil {
		return nil, false, err
	}
	return &stored, false, nil
}

func (r *ratingRepository) UpdateValue(ctx context.Context, id string, value int) error {
	return r.db.WithContext(ctx).Model(&models.Rating{}).Where("id = ?", id).Update("rating", value).Error
}

func (r *ratingRepository) ListValues(ctx context.Context, articleID string) ([]int, error) {
	var values []int
	err := r.db.WithContext(ctx).Model(&models.Rating{}).
		Where("article_id = ?", articleID).
		Pluck("rating", &values).Error
	return values, err
}
