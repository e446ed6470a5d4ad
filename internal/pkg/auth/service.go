// Package auth implements account signup, login, email confirmation,
// password reset and social login.
package auth

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
	"github.com/ManuelReschke/AuthorsHaven/internal/pkg/mail"
	"github.com/ManuelReschke/AuthorsHaven/internal/pkg/security"
	"github.com/ManuelReschke/AuthorsHaven/internal/pkg/shortener"
	"github.com/ManuelReschke/AuthorsHaven/internal/pkg/utils"
	"github.com/ManuelReschke/AuthorsHaven/internal/pkg/validation"
)

const (
	MsgValidation        = "validation error"
	MsgDuplicateUser     = "Username/Email in use already"
	MsgUserNotFound      = "Not found"
	MsgIncorrectPassword = "Incorrect Password"
	MsgInvalidToken      = "Invalid or expired token"
	MsgResetUserNotFound = "User does not exist"
	MsgTokenMalformed    = "Token Malformed"
	MsgServerError       = "An error occurred"
)

// Tokens issues and verifies signed tokens.
type Tokens interface {
	Issue(userID, email, purpose string) (string, error)
	Verify(token, purpose string) (*security.Claims, error)
}

// Config holds the public links placed in outgoing emails. The token is appended as a path segment.
type Config struct {
	VerifyURL string
	ResetURL  string
}

type Service struct {
	users  repository.UserRepository
	tokens Tokens
	mailer mail.Mailer
	cfg    Config
}

func NewService(users repository.UserRepository, tokens Tokens, mailer mail.Mailer, cfg Config) *Service {
	return &Service{users: users, tokens: tokens, mailer: mailer, cfg: cfg}
}

type SignupInput struct {
	Email     string `json:"email" validate:"required,email,max=200"`
	Username  string `json:"username" validate:"required,alphanum,min=3,max=100"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
	FirstName string `json:"firstName" validate:"max=100"`
	LastName  string `json:"lastName" validate:"max=100"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ForgotPasswordInput struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordInput struct {
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// Session is returned on successful login.
type Session struct {
	User  models.PublicUser `json:"user"`
	Token string            `json:"token"`
}

// Signup creates an unverified account, mails a verification link and returns an access token.
func (s *Service) Signup(ctx context.Context, in SignupInput) (string, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Username = strings.TrimSpace(in.Username)
	if details := validation.Struct(in); details != nil {
		return "", apperror.NewValidationError(MsgValidation, details...)
	}

	taken, err := s.users.ExistsByEmailOrUsername(ctx, in.Email, in.Username)
	if err != nil {
		return "", apperror.NewInternalError(MsgServerError, err)
	}
	if taken {
		return "", apperror.NewConflictError(MsgValidation, MsgDuplicateUser)
	}

	user := &models.User{
		Email:     in.Email,
		Username:  in.Username,
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Image:     utils.GravatarURL(in.Email, utils.DefaultAvatarSize),
	}
	if err := user.SetPassword(in.Password); err != nil {
		return "", apperror.NewInternalError(MsgServerError, err)
	}
	if err := s.users.Create(ctx, user); err != nil {
		return "", apperror.NewInternalError(MsgServerError, fmt.Errorf("create user: %w", err))
	}

	s.sendVerification(ctx, user)

	token, err := s.tokens.Issue(user.ID, user.Email, security.PurposeAccess)
	if err != nil {
		return "", apperror.NewInternalError(MsgServerError, err)
	}
	return token, nil
}

// Login checks the credentials and returns the user with a fresh access token.
func (s *Service) Login(ctx context.Context, in LoginInput) (*Session, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if details := validation.Struct(in); details != nil {
		return nil, apperror.NewValidationError(MsgValidation, details...)
	}

	user, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NewNotFoundError(MsgUserNotFound)
		}
		return nil, apperror.NewInternalError(MsgServerError, err)
	}
	if !user.CheckPassword(in.Password) {
		return nil, apperror.NewBadRequestError(MsgIncorrectPassword, nil)
	}
	return s.session(user)
}

// Confirm marks the account behind a verification token as verified.
func (s *Service) Confirm(ctx context.Context, token string) (bool, error) {
	claims, err := s.tokens.Verify(token, security.PurposeVerifyEmail)
	if err != nil {
		return false, apperror.NewAuthError(MsgInvalidToken, err)
	}
	if err := s.users.SetEmailVerified(ctx, claims.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, apperror.NewAuthError(MsgInvalidToken, err)
		}
		return false, apperror.NewInternalError(MsgServerError, err)
	}
	return true, nil
}

// ForgotPassword mails a reset link and returns the reset token.
func (s *Service) ForgotPassword(ctx context.Context, in ForgotPasswordInput) (string, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if details := validation.Struct(in); details != nil {
		return "", apperror.NewValidationError(MsgValidation, details...)
	}

	user, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperror.NewNotFoundError(MsgResetUserNotFound)
		}
		return "", apperror.NewInternalError(MsgServerError, err)
	}

	token, err := s.tokens.Issue(user.ID, user.Email, security.PurposePasswordReset)
	if err != nil {
		return "", apperror.NewInternalError(MsgServerError, err)
	}

	msg, err := mail.PasswordResetMessage(user.Email, displayName(user), link(s.cfg.ResetURL, token))
	if err != nil {
		return "", apperror.NewInternalError(MsgServerError, err)
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return "", apperror.NewInternalError(MsgServerError, fmt.Errorf("send reset mail: %w", err))
	}
	return token, nil
}

// ResetPassword replaces the password of the account behind a reset token.
func (s *Service) ResetPassword(ctx context.Context, token string, in ResetPasswordInput) error {
	claims, err := s.tokens.Verify(token, security.PurposePasswordReset)
	if err != nil {
		return apperror.NewBadRequestError(MsgTokenMalformed, err)
	}
	if details := validation.Struct(in); details != nil {
		return apperror.NewValidationError(MsgValidation, details...)
	}

	hash, err := models.HashPassword(in.Password)
	if err != nil {
		return apperror.NewInternalError(MsgServerError, err)
	}
	if err := s.users.UpdatePassword(ctx, claims.UserID, hash); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NewBadRequestError(MsgTokenMalformed, err)
		}
		return apperror.NewInternalError(MsgServerError, err)
	}
	return nil
}

// SocialProfile is the identity returned by an OAuth provider.
type SocialProfile struct {
	Provider  string
	ID        string
	Email     string
	FirstName string
	LastName  string
	NickName  string
	AvatarURL string
}

// SocialLogin finds or creates the account linked to profile. created reports
// whether a new account was registered.
func (s *Service) SocialLogin(ctx context.Context, p SocialProfile) (sess *Session, created bool, err error) {
	if p.Provider == "" || p.ID == "" {
		return nil, false, apperror.NewBadRequestError("incomplete social profile", nil)
	}

	user, err := s.users.GetBySocial(ctx, p.Provider, p.ID)
	switch {
	case err == nil:
		sess, err = s.session(user)
		return sess, false, err
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, false, apperror.NewInternalError(MsgServerError, err)
	}

	user, err = s.newSocialUser(ctx, p)
	if err != nil {
		return nil, false, err
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, false, apperror.NewInternalError(MsgServerError, fmt.Errorf("create social user: %w", err))
	}
	s.sendVerification(ctx, user)

	sess, err = s.session(user)
	return sess, true, err
}

func (s *Service) newSocialUser(ctx context.Context, p SocialProfile) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(p.Email))
	if email == "" {
		// Some providers (twitter) do not share an email address
		email = fmt.Sprintf("%s-%s@users.noreply.authorshaven", p.Provider, p.ID)
	}

	suffix, err := shortener.GenerateSecureSlug(6)
	if err != nil {
		return nil, apperror.NewInternalError(MsgServerError, err)
	}
	base := usernameBase(p, email)
	username := base + strings.ToLower(suffix)

	taken, err := s.users.ExistsByEmailOrUsername(ctx, email, username)
	if err != nil {
		return nil, apperror.NewInternalError(MsgServerError, err)
	}
	if taken {
		return nil, apperror.NewConflictError(MsgValidation, MsgDuplicateUser)
	}

	image := p.AvatarURL
	if image == "" {
		image = utils.GravatarURL(email, utils.DefaultAvatarSize)
	}

	provider, socialID := p.Provider, p.ID
	return &models.User{
		Email:          email,
		Username:       username,
		FirstName:      p.FirstName,
		LastName:       p.LastName,
		Image:          image,
		SocialProvider: &provider,
		SocialID:       &socialID,
	}, nil
}

func usernameBase(p SocialProfile, email string) string {
	candidate := p.NickName
	if candidate == "" {
		candidate = strings.SplitN(email, "@", 2)[0]
	}
	var b strings.Builder
	for _, r := range strings.ToLower(candidate) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
		if b.Len() >= 40 {
			break
		}
	}
	if b.Len() == 0 {
		return "user"
	}
	return b.String()
}

func (s *Service) session(user *models.User) (*Session, error) {
	token, err := s.tokens.Issue(user.ID, user.Email, security.PurposeAccess)
	if err != nil {
		return nil, apperror.NewInternalError(MsgServerError, err)
	}
	return &Session{User: user.Public(), Token: token}, nil
}

// sendVerification mails the confirmation link. Failures are logged, the account stays usable.
func (s *Service) sendVerification(ctx context.Context, user *models.User) {
	token, err := s.tokens.Issue(user.ID, user.Email, security.PurposeVerifyEmail)
	if err != nil {
		log.Errorf("[Auth] failed to issue verification token for %s: %v", user.ID, err)
		return
	}
	msg, err := mail.VerificationMessage(user.Email, displayName(user), link(s.cfg.VerifyURL, token))
	if err != nil {
		log.Errorf("[Auth] failed to render verification mail: %v", err)
		return
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		log.Errorf("[Auth] failed to send verification mail to %s: %v", user.Email, err)
	}
}

func displayName(u *models.User) string {
	if u.FirstName != "" {
		return u.FirstName
	}
	return u.Username
}

func link(base, token string) string {
	return strings.TrimRight(base, "/") + "/" + token
}
