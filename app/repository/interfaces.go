package repository

import (
	"context"

	"github.com/ManuelReschke/AuthorsHaven/app/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetBySocial(ctx context.Context, provider, socialID string) (*models.User, error)
	ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error)
	SetEmailVerified(ctx context.Context, id string) error
	UpdatePassword(ctx context.Context, id, hash string) error
}

// ArticleRepository defines the interface for article-related database operations
type ArticleRepository interface {
	Create(ctx context.Context, article *models.Article) error
	GetByID(ctx context.Context, id string) (*models.Article, error)
	GetByIDWithAuthor(ctx context.Context, id string) (*models.Article, error)
	Exists(ctx context.Context, id string) (bool, error)
	AddViewCounts(ctx context.Context, deltas map[string]int64) error
}

// RatingRepository stores one rating per (article, user).
type RatingRepository interface {
	// FindOrCreate inserts r unless a rating for the same article and user exists,
	// in which case the stored row is returned with created=false.
	FindOrCreate(ctx context.Context, r *models.Rating) (stored *models.Rating, created bool, err error)
	UpdateValue(ctx context.Context, id string, value int) error
	ListValues(ctx context.Context, articleID string) ([]int, error)
}

// LikeRepository manages the user/article like relation.
type LikeRepository interface {
	Add(ctx context.Context, userID, articleID string) error
	Remove(ctx context.Context, userID, articleID string) error
	ListForUser(ctx context.Context, userID string) ([]models.Article, error)
}

// CommentRepository defines the interface for comment-related database operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	ListByArticle(ctx context.Context, articleID string) ([]models.Comment, error)
}

// Repositories struct holds all repository instances
type Repositories struct {
	User    UserRepository
	Article ArticleRepository
	Rating  RatingRepository
	Like    LikeRepository
	Comment CommentRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:    NewUserRepository(db),
		Article: NewArticleRepository(db),
		Rating:  NewRatingRepository(db),
		Like:    NewLikeRepository(db),
		Comment: NewCommentRepository(db),
	}
}
