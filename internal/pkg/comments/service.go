// Package comments implements top-level comments and threaded replies on articles.
package comments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/ManuelReschke/AuthorsHaven/app/models"
	"github.com/ManuelReschke/AuthorsHaven/app/repository"
	"github.com/ManuelReschke/AuthorsHaven/internal/pkg/apperror"
	"github.com/ManuelReschke/AuthorsHaven/internal/pkg/validation"
)

const (
	MsgArticleNotFound = "Article does not exist"
	MsgCommentNotFound = "Comment does not exist"
)

type Service struct {
	comments repository.CommentRepository
	articles repository.ArticleRepository
}

func NewService(repos *repository.Repositories) *Service {
	return &Service{comments: repos.Comment, articles: repos.Article}
}

type Input struct {
	Body string `json:"body" validate:"required,max=5000"`
}

// Create adds a top-level comment to an article.
func (s *Service) Create(ctx context.Context, articleID, userID string, in Input) (*models.Comment, error) {
	if err := s.prepare(ctx, articleID, &in); err != nil {
		return nil, err
	}
	comment := &models.Comment{ArticleID: articleID, UserID: userID, Body: in.Body}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperror.NewInternalError("An error occurred", fmt.Errorf("create comment: %w", err))
	}
	return comment, nil
}

// Reply threads a comment under parentID, which must belong to the same article.
func (s *Service) Reply(ctx context.Context, articleID, parentID, userID string, in Input) (*models.Comment, error) {
	if err := s.prepare(ctx, articleID, &in); err != nil {
		return nil, err
	}

	parent, err := s.comments.GetByID(ctx, parentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NewNotFoundError(MsgCommentNotFound)
		}
		return nil, apperror.NewInternalError("An error occurred", err)
	}
	if parent.ArticleID != articleID {
		return nil, apperror.NewNotFoundError(MsgCommentNotFound)
	}

	comment := &models.Comment{ArticleID: articleID, UserID: userID, ParentID: &parent.ID, Body: in.Body}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperror.NewInternalError("An error occurred", fmt.Errorf("create reply: %w", err))
	}
	return comment, nil
}

func (s *Service) prepare(ctx context.Context, articleID string, in *Input) error {
	in.Body = strings.TrimSpace(in.Body)
	if details := validation.Struct(in); details != nil {
		return apperror.NewValidationError("validation error", details...)
	}
	exists, err := s.articles.Exists(ctx, articleID)
	if err != nil {
		return apperror.NewInternalError("An error occurred", err)
	}
	if !exists {
		return apperror.NewNotFoundError(MsgArticleNotFound)
	}
	return nil
}
