package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	PurposeAccess        = "access"
	PurposeVerifyEmail   = "verify_email"
	PurposePasswordReset = "password_reset"

	issuer = "authorshaven"
)

var (
	ErrMissingSecret = errors.New("secret is required for token signing")
	ErrWrongPurpose  = errors.New("token purpose mismatch")
)

// Claims is the JWT payload for every token the API hands out.
type Claims struct {
	UserID  string `json:"userId"`
	Email   string `json:"email"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 tokens.
type TokenIssuer struct {
	secret []byte
	ttl    map[string]time.Duration
	now    func() time.Time
}

// NewTokenIssuer returns an issuer. ttl is used for access and verification
// tokens, resetTTL for password reset tokens.
func NewTokenIssuer(secret string, ttl, resetTTL time.Duration) (*TokenIssuer, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	return &TokenIssuer{
		secret: []byte(secret),
		ttl: map[string]time.Duration{
			PurposeAccess:        ttl,
			PurposeVerifyEmail:   ttl,
			PurposePasswordReset: resetTTL,
		},
		now: time.Now,
	}, nil
}

func (i *TokenIssuer) Issue(userID, email, purpose string) (string, error) {
	ttl, ok := i.ttl[purpose]
	if !ok {
		return "", fmt.Errorf("unknown token purpose %q", purpose)
	}
	now := i.now()
	claims := Claims{
		UserID:  userID,
		Email:   email,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   userID,
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

// Verify parses token and checks signature, expiry and purpose.
func (i *TokenIssuer) Verify(token, purpose string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(i.now))
	if err != nil {
		return nil, err
	}
	if claims.Purpose != purpose {
		return nil, ErrWrongPurpose
	}
	if claims.UserID == "" {
		return nil, errors.New("token has no subject")
	}
	return claims, nil
}
