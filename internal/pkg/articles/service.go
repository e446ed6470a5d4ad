// Package articles implements article creation, retrieval, rating and likes.
package articles

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/ManuelReschke/AuthorsHaven/app/models"
	"github.com/ManuelReschke/AuthorsHaven/app/repository"
	"github.com/ManuelReschke/AuthorsHaven/internal/pkg/apperror"
	"github.com/ManuelReschke/AuthorsHaven/internal/pkg/rating"
	"github.com/ManuelReschke/AuthorsHaven/internal/pkg/readtime"
	"github.com/ManuelReschke/AuthorsHaven/internal/pkg/shortener"
	"github.com/ManuelReschke/AuthorsHaven/internal/pkg/validation"
)

const (
	MsgMissingFields   = "invalid/empty input. all fields must be specified."
	MsgArticleNotFound = "Article does not exist"
	MsgRateNotFound    = "This article was not found"
	MsgServerError     = "An error occurred"
)

// ViewRecorder counts article reads.
type ViewRecorder interface {
	Add(ctx context.Context, articleID string) error
}

// Service provides the article operations on top of the repositories.
type Service struct {
	articles repository.ArticleRepository
	ratings  repository.RatingRepository
	likes    repository.LikeRepository
	users    repository.UserRepository
	views    ViewRecorder
}

// NewService creates an article service. views may be nil.
func NewService(repos *repository.Repositories, views ViewRecorder) *Service {
	return &Service{
		articles: repos.Article,
		ratings:  repos.Rating,
		likes:    repos.Like,
		users:    repos.User,
		views:    views,
	}
}

type CreateInput struct {
	Title       string            `json:"title" validate:"required"`
	Description string            `json:"description" validate:"required"`
	Body        string            `json:"body" validate:"required"`
	Images      models.StringList `json:"images"`
	Tags        models.StringList `json:"tags"`
}

// RatedArticle is the article projection returned after rating.
type RatedArticle struct {
	models.PublicArticle
	AverageRating float64 `json:"averageRating"`
}

// UserLikes is the user projection returned after like and unlike.
type UserLikes struct {
	models.PublicUser
	Likes []models.LikeSummary `json:"likes"`
}

// Create stores a new draft article owned by authorID.
func (s *Service) Create(ctx context.Context, authorID string, in CreateInput) (*models.Article, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Body = strings.TrimSpace(in.Body)
	if details := validation.Struct(in); details != nil {
		return nil, apperror.NewValidationError(MsgMissingFields, details...)
	}
	if authorID == "" {
		return nil, apperror.NewAuthError("jwt must be provided", nil)
	}

	slug, err := shortener.ArticleSlug(in.Title)
	if err != nil {
		return nil, apperror.NewInternalError(MsgServerError, err)
	}

	seconds := readtime.Estimate(readtime.Content{
		Images: in.Images,
		Words:  in.Body,
	}).Seconds()

	article := &models.Article{
		UserID:           authorID,
		Title:            in.Title,
		Slug:             slug,
		Description:      in.Description,
		Body:             in.Body,
		ImageList:        in.Images,
		TagList:          in.Tags,
		ReadTime:         int(seconds),
		SubscriptionType: models.SUBSCRIPTION_FREE,
		Status:           models.ARTICLE_STATUS_DRAFT,
	}
	if err := s.articles.Create(ctx, article); err != nil {
		return nil, apperror.NewInternalError(MsgServerError, fmt.Errorf("create article: %w", err))
	}
	return article, nil
}

// Get returns the public projection of an article and records a view.
func (s *Service) Get(ctx context.Context, articleID string) (*models.PublicArticle, error) {
	article, err := s.articles.GetByIDWithAuthor(ctx, articleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NewNotFoundError(MsgArticleNotFound)
		}
		return nil, apperror.NewInternalError(MsgServerError, fmt.Errorf("get article %s: %w", articleID, err))
	}

	if s.views != nil {
		if err := s.views.Add(ctx, article.ID); err != nil {
			log.Warnf("[Articles] failed to record view for %s: %v", article.ID, err)
		}
	}

	p := article.Public()
	return &p, nil
}

// Rate records userID's rating for an article and returns the new average.
func (s *Service) Rate(ctx context.Context, articleID, userID string, value int) (*RatedArticle, error) {
	if value < rating.MinValue || value > rating.MaxValue {
		return nil, apperror.NewValidationError("validation error",
			fmt.Sprintf("rating must be between %d and %d", rating.MinValue, rating.MaxValue))
	}

	exists, err := s.articles.Exists(ctx, articleID)
	if err != nil {
		return nil, apperror.NewInternalError(MsgServerError, err)
	}
	if !exists {
		return nil, apperror.NewNotFoundError(MsgRateNotFound)
	}

	stored, created, err := s.ratings.FindOrCreate(ctx, &models.Rating{
		ArticleID: articleID,
		UserID:    userID,
		Rating:    value,
	})
	if err != nil {
		return nil, apperror.NewInternalError(MsgServerError, fmt.Errorf("store rating: %w", err))
	}
	if !created && stored.Rating != value {
		if err := s.ratings.UpdateValue(ctx, stored.ID, value); err != nil {
			return nil, apperror.NewInternalError(MsgServerError, fmt.Errorf("update rating: %w", err))
		}
	}

	values, err := s.ratings.ListValues(ctx, articleID)
	if err != nil {
		return nil, apperror.NewInternalError(MsgServerError, err)
	}

	article, err := s.articles.GetByIDWithAuthor(ctx, articleID)
	if err != nil {
		return nil, apperror.NewInternalError(MsgServerError, err)
	}

	return &RatedArticle{
		PublicArticle: article.Public(),
		AverageRating: rating.ComputeAverage(values),
	}, nil
}

// Like adds articleID to the user's likes. Liking twice is a no-op.
func (s *Service) Like(ctx context.Context, userID, articleID string) (*UserLikes, error) {
	user, err := s.requireLikeParties(ctx, userID, articleID)
	if err != nil {
		return nil, err
	}
	if err := s.likes.Add(ctx, userID, articleID); err != nil {
		return nil, apperror.NewInternalError(MsgServerError, fmt.Errorf("add like: %w", err))
	}
	return s.userLikes(ctx, user)
}

// Unlike removes articleID from the user's likes. Unliking an unliked article is a no-op.
func (s *Service) Unlike(ctx context.Context, userID, articleID string) (*UserLikes, error) {
	user, err := s.requireLikeParties(ctx, userID, articleID)
	if err != nil {
		return nil, err
	}
	if err := s.likes.Remove(ctx, userID, articleID); err != nil {
		return nil, apperror.NewInternalError(MsgServerError, fmt.Errorf("remove like: %w", err))
	}
	return s.userLikes(ctx, user)
}

// requireLikeParties loads the user and checks the article. Either one
// missing is reported as an internal error, not as not found.
func (s *Service) requireLikeParties(ctx context.Context, userID, articleID string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, apperror.NewInternalError(MsgServerError, fmt.Errorf("load user %s: %w", userID, err))
	}
	exists, err := s.articles.Exists(ctx, articleID)
	if err != nil {
		return nil, apperror.NewInternalError(MsgServerError, err)
	}
	if !exists {
		return nil, apperror.NewInternalError(MsgServerError, fmt.Errorf("article %s: %w", articleID, gorm.ErrRecordNotFound))
	}
	return user, nil
}

func (s *Service) userLikes(ctx context.Context, user *models.User) (*UserLikes, error) {
	liked, err := s.likes.ListForUser(ctx, user.ID)
	if err != nil {
		return nil, apperror.NewInternalError(MsgServerError, fmt.Errorf("list likes: %w", err))
	}
	summaries := make([]models.LikeSummary, 0, len(liked))
	for i := range liked {
		summaries = append(summaries, liked[i].LikeSummary())
	}
	return &UserLikes{PublicUser: user.Public(), Likes: summaries}, nil
}
