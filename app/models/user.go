package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

const (
	PROVIDER_FACEBOOK = "facebook"
	PROVIDER_TWITTER  = "twitter"
	PROVIDER_GOOGLE   = "google"
)

type User struct {
	ID              string    `gorm:"primaryKey;type:char(36)" json:"id"`
	FirstName       string    `gorm:"type:varchar(100)" json:"firstName"`
	LastName        string    `gorm:"type:varchar(100)" json:"lastName"`
	Username        string    `gorm:"uniqueIndex;type:varchar(100)" json:"username"`
	Email           string    `gorm:"uniqueIndex;type:varchar(200)" json:"email"`
	Password        string    `gorm:"type:text" json:"-"`
	IsEmailVerified bool      `gorm:"default:false" json:"isEmailVerified"`
	SocialProvider  *string   `gorm:"uniqueIndex:idx_users_social;type:varchar(50)" json:"socialProvider,omitempty"`
	SocialID        *string   `gorm:"uniqueIndex:idx_users_social;type:varchar(191)" json:"socialId,omitempty"`
	Bio             string    `gorm:"type:text" json:"bio"`
	Image           string    `gorm:"type:varchar(255)" json:"image"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	return string(bytes), err
}

// CheckPasswordHash compares the given password with the stored hash.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))

	return err == nil
}

// CheckPassword verifies if the provided password matches the user's stored password
func (u *User) CheckPassword(password string) bool {
	return CheckPasswordHash(password, u.Password)
}

// SetPassword hashes and sets a new password for the user
func (u *User) SetPassword(password string) error {
	hashedPassword, err := HashPassword(password)
	if err != nil {
		return err
	}
	u.Password = hashedPassword
	return nil
}

// IsSocial reports whether the account was created through an OAuth provider.
func (u *User) IsSocial() bool {
	return u.SocialProvider != nil && *u.SocialProvider != ""
}

// PublicUser is the user shape returned to clients.
type PublicUser struct {
	ID              string    `json:"id"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	IsEmailVerified bool      `json:"isEmailVerified"`
	Bio             string    `json:"bio"`
	Image           string    `json:"image"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:              u.ID,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		Username:        u.Username,
		Email:           u.Email,
		IsEmailVerified: u.IsEmailVerified,
		Bio:             u.Bio,
		Image:           u.Image,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}
