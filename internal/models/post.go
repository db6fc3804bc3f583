package models

import (
	"time"
)

type Post struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Title     string    `json:"title" gorm:"not null;size:255"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	AuthorID  uint      `json:"author_id" gorm:"not null;index"`
	CreatedAt time.Time `json:"created_at"`

	// Denormalized counters, only written by the interaction service
	Likes    int `json:"likes" gorm:"not null;default:0"`
	Dislikes int `json:"dislikes" gorm:"not null;default:0"`

	Author        User   `json:"author" gorm:"foreignKey:AuthorID"`
	References    []URL  `json:"references" gorm:"many2many:post_references;"`
	RecommendedBy []User `json:"recommended_by" gorm:"many2many:post_recommendations;"`
}

func (Post) TableName() string {
	return "posts"
}

type URL struct {
	ID  uint   `json:"id" gorm:"primaryKey"`
	URL string `json:"url" gorm:"uniqueIndex;not null;size:500"`
}

func (URL) TableName() string {
	return "urls"
}

// PostRecommendation is the join row behind Post.RecommendedBy.
type PostRecommendation struct {
	PostID    uint `gorm:"primaryKey"`
	UserID    uint `gorm:"primaryKey"`
	CreatedAt time.Time
}

func (PostRecommendation) TableName() string {
	return "post_recommendations"
}
