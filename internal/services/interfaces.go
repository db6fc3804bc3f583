package services

import (
	"bytes"
	"context"

	"github.com/boboboiiiw/backend-edutrack/internal/auth"
	"github.com/boboboiiiw/backend-edutrack/internal/models"
	"github.com/boboboiiiw/backend-edutrack/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

type RegisterRequest = validator.RegisterRequest
type LoginRequest = validator.LoginRequest
type ChangePasswordRequest = validator.ChangePasswordRequest
type CreatePostRequest = validator.CreatePostRequest
type CreateCommentRequest = validator.CreateCommentRequest

type RegisterResponse struct {
	Message string          `json:"message"`
	Role    models.UserRole `json:"role"`
}

type LoginResponse struct {
	Message string             `json:"message"`
	Token   string             `json:"token"`
	User    models.UserProfile `json:"user"`
}

type ListPostsQuery struct {
	Page       int
	PerPage    int
	AuthorSelf bool
}

type PostListResponse struct {
	Posts      []models.PostView     `json:"posts"`
	Pagination models.PostPagination `json:"pagination"`
}

type ListCommentsQuery struct {
	PostID  uint
	Page    int
	PerPage int
}

type CommentListResponse struct {
	Comments   []models.CommentView     `json:"comments"`
	Pagination models.CommentPagination `json:"pagination"`
}

// InteractionResult is returned by like and dislike with the post's counters
// after the transition.
type InteractionResult struct {
	Message  string `json:"message"`
	Likes    int    `json:"likes"`
	Dislikes int    `json:"dislikes"`
}

// RecommendationResult carries the post's recommenders after the call. Changed
// is false when the membership already matched the request.
type RecommendationResult struct {
	Message       string `json:"message"`
	RecommendedBy []uint `json:"recommended_by"`
	Changed       bool   `json:"-"`
}

// ===== SERVICES =====

type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest) (*RegisterResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error)
	GetProfile(ctx context.Context, caller auth.Identity) (*models.UserProfile, error)
	// UpdateProfile runs payload through the profile guard before persisting.
	UpdateProfile(ctx context.Context, caller auth.Identity, payload map[string]any) (*models.UserProfile, error)
	ChangePassword(ctx context.Context, caller auth.Identity, req *ChangePasswordRequest) error
}

type PostService interface {
	Create(ctx context.Context, caller auth.Identity, req *CreatePostRequest) (*models.PostView, error)
	List(ctx context.Context, caller auth.Identity, query ListPostsQuery) (*PostListResponse, error)
	Get(ctx context.Context, caller auth.Identity, postID uint) (*models.PostView, error)
	Recommend(ctx context.Context, caller auth.Identity, postID uint) (*RecommendationResult, error)
	Unrecommend(ctx context.Context, caller auth.Identity, postID uint) (*RecommendationResult, error)
}

// InteractionService owns every write to a post's like and dislike counters.
type InteractionService interface {
	Like(ctx context.Context, caller auth.Identity, postID uint) (*InteractionResult, error)
	Dislike(ctx context.Context, caller auth.Identity, postID uint) (*InteractionResult, error)
}

type CommentService interface {
	Create(ctx context.Context, caller auth.Identity, req *CreateCommentRequest) (*models.CommentView, error)
	ListByPost(ctx context.Context, query ListCommentsQuery) (*CommentListResponse, error)
}

type ExportService interface {
	// ExportPosts renders the interaction report as an xlsx workbook.
	ExportPosts(ctx context.Context, caller auth.Identity) (*bytes.Buffer, error)
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	Auth() AuthService
	Post() PostService
	Interaction() InteractionService
	Comment() CommentService
	Export() ExportService

	// Health and lifecycle
	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
