package models

import "time"

type Rating struct {
	ID        string    `gorm:"primaryKey;type:char(36)" json:"id"`
	ArticleID string    `gorm:"uniqueIndex:idx_ratings_article_user;type:char(36)" json:"articleId"`
	UserID    string    `gorm:"uniqueIndex:idx_ratings_article_user;type:char(36)" json:"userId"`
	Rating    int       `gorm:"not null" json:"rating"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}
