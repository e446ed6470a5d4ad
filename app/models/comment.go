package models

import (
	"time"
)

type Comment struct {
	ID        string    `gorm:"primaryKey;type:char(36)" json:"id"`
	ArticleID string    `gorm:"index;type:char(36)" json:"articleId"`
	UserID    string    `gorm:"index;type:char(36)" json:"userId"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
	ParentID  *string   `gorm:"index;type:char(36)" json:"parentId"`
	Body      string    `gorm:"type:text" json:"body"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// IsReply reports whether the comment belongs to a thread.
func (c *Comment) IsReply() bool {
	return c.ParentID != nil
}
