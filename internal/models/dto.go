package models

import (
	"time"

	"github.com/samber/lo"
)

// UserProfile is the public shape of a user returned by auth and profile endpoints.
type UserProfile struct {
	ID    uint     `json:"id"`
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Role  UserRole `json:"role"`
	Prodi *string  `json:"prodi"`
	NIM   *string  `json:"nim"`
}

func NewUserProfile(u *User) UserProfile {
	return UserProfile{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
		Prodi: u.Prodi,
		NIM:   u.NIM,
	}
}

type PostView struct {
	ID            uint      `json:"id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	CreatedAt     time.Time `json:"createdAt"`
	AuthorID      uint      `json:"author_id"`
	Author        string    `json:"author"`
	Likes         int       `json:"likes"`
	Dislikes      int       `json:"dislikes"`
	References    []string  `json:"references"`
	RecommendedBy []string  `json:"recommendedBy"`

	// Populated only by the single-post endpoint
	RecommendedByCurrentUser *bool `json:"is_recommended_by_current_user,omitempty"`
}

// NewPostView flattens a post loaded with Author, References and RecommendedBy.
func NewPostView(p *Post) PostView {
	return PostView{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		CreatedAt: p.CreatedAt,
		AuthorID:  p.AuthorID,
		Author:    p.Author.Name,
		Likes:     p.Likes,
		Dislikes:  p.Dislikes,
		References: lo.Map(p.References, func(ref URL, _ int) string {
			return ref.URL
		}),
		RecommendedBy: lo.Map(p.RecommendedBy, func(u User, _ int) string {
			return u.Name
		}),
	}
}

type CommentView struct {
	ID        uint      `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	PostID    uint      `json:"post_id"`
	UserID    uint      `json:"user_id"`
	Username  string    `json:"username"`
}

func NewCommentView(c *Comment) CommentView {
	return CommentView{
		ID:        c.ID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		PostID:    c.PostID,
		UserID:    c.UserID,
		Username:  c.User.Name,
	}
}

// Pagination describes one page of a listing. The total is exposed by the
// listing-specific wrappers below.
type Pagination struct {
	Total       int64 `json:"-"`
	PerPage     int   `json:"per_page"`
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
	HasNext     bool  `json:"has_next"`
	HasPrev     bool  `json:"has_prev"`
}

func NewPagination(total int64, page, perPage int) Pagination {
	totalPages := 0
	if perPage > 0 {
		totalPages = int((total + int64(perPage) - 1) / int64(perPage))
	}
	return Pagination{
		Total:       total,
		PerPage:     perPage,
		CurrentPage: page,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrev:     page > 1,
	}
}

type PostPagination struct {
	TotalPosts int64 `json:"total_posts"`
	Pagination
}

type CommentPagination struct {
	TotalComments int64 `json:"total_comments"`
	Pagination
}
