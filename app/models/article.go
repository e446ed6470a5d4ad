package models

import (
	"time"
)

const (
	SUBSCRIPTION_FREE = "free"
	SUBSCRIPTION_PAID = "paid"

	ARTICLE_STATUS_DRAFT     = "draft"
	ARTICLE_STATUS_PUBLISHED = "published"
)

type Article struct {
	ID               string     `gorm:"primaryKey;type:char(36)" json:"id"`
	UserID           string     `gorm:"index;type:char(36)" json:"userId"`
	Author           User       `gorm:"foreignKey:UserID" json:"-"`
	Title            string     `gorm:"type:varchar(255)" json:"title"`
	Slug             string     `gorm:"uniqueIndex;type:varchar(255)" json:"slug"`
	Description      string     `gorm:"type:text" json:"description"`
	Body             string     `gorm:"type:text" json:"body"`
	ImageList        StringList `gorm:"type:text" json:"imageList"`
	TagList          StringList `gorm:"type:text" json:"tagList"`
	ReadTime         int        `gorm:"default:0" json:"readTime"`
	SubscriptionType string     `gorm:"type:varchar(20);default:'free'" json:"subscriptionType"`
	Status           string     `gorm:"type:varchar(20);default:'draft'" json:"status"`
	ViewCount        int64      `gorm:"default:0" json:"viewCount"`
	Ratings          []Rating   `gorm:"foreignKey:ArticleID" json:"-"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt        time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

// ArticleAuthor is the author projection embedded in article responses.
type ArticleAuthor struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Username  string `json:"username"`
}

// PublicArticle omits id, userId, subscriptionType and readTime.
type PublicArticle struct {
	Title       string         `json:"title"`
	Slug        string         `json:"slug"`
	Description string         `json:"description"`
	Body        string         `json:"body"`
	ImageList   StringList     `json:"imageList"`
	TagList     StringList     `json:"tagList"`
	Status      string         `json:"status"`
	ViewCount   int64          `json:"viewCount"`
	Author      *ArticleAuthor `json:"author,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// Public builds the client projection. The author is included when it was loaded.
func (a *Article) Public() PublicArticle {
	p := PublicArticle{
		Title:       a.Title,
		Slug:        a.Slug,
		Description: a.Description,
		Body:        a.Body,
		ImageList:   a.ImageList,
		TagList:     a.TagList,
		Status:      a.Status,
		ViewCount:   a.ViewCount,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
	if a.Author.ID != "" {
		p.Author = &ArticleAuthor{
			FirstName: a.Author.FirstName,
			LastName:  a.Author.LastName,
			Username:  a.Author.Username,
		}
	}
	return p
}

// LikeSummary is the entry shape of a user's like list.
type LikeSummary struct {
	Title string `json:"title"`
	ID    string `json:"id"`
	Slug  string `json:"slug"`
}

func (a *Article) LikeSummary() LikeSummary {
	return LikeSummary{Title: a.Title, ID: a.ID, Slug: a.Slug}
}
