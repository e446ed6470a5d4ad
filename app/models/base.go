package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func newID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

// BeforeCreate hooks assign UUID primary keys on insert.

func (u *User) BeforeCreate(_ *gorm.DB) error {
	newID(&u.ID)
	return nil
}

func (a *Article) BeforeCreate(_ *gorm.DB) error {
	newID(&a.ID)
	return nil
}

func (r *Rating) BeforeCreate(_ *gorm.DB) error {
	newID(&r.ID)
	return nil
}

func (c *Comment) BeforeCreate(_ *gorm.DB) error {
	newID(&c.ID)
	return nil
}
