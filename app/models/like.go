package models

import "time"

// Like is the join row between a user and an article they liked.
type Like struct {
	UserID    string    `gorm:"primaryKey;type:char(36)" json:"userId"`
	ArticleID string    `gorm:"primaryKey;type:char(36)" json:"articleId"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (Like) TableName() string {
	return "likes"
}
