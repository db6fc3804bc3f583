package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/boboboiiiw/backend-edutrack/internal/auth"
	"github.com/boboboiiiw/backend-edutrack/internal/models"
	"github.com/boboboiiiw/backend-edutrack/internal/services"
	"github.com/boboboiiiw/backend-edutrack/internal/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type PostHandler struct {
	BaseHandler
	posts        services.PostService
	interactions services.InteractionService
	export       services.ExportService
}

func NewPostHandler(posts services.PostService, interactions services.InteractionService, export services.ExportService, logger utils.Logger) *PostHandler {
	return &PostHandler{
		BaseHandler:  NewBaseHandler(logger),
		posts:        posts,
		interactions: interactions,
		export:       export,
	}
}

type CreatePostResponse struct {
	Message string          `json:"message"`
	Post    models.PostView `json:"post"`
}

// CreatePost creates a post
// @Summary Create post
// @Description Students only. References are URLs, blanks are skipped
// @Tags posts
// @Accept json
// @Produce json
// @Param request body services.CreatePostRequest true "Post data"
// @Success 201 {object} CreatePostResponse
// @Failure 400 {object} ErrorResponse "Missing title or content"
// @Failure 403 {object} ErrorResponse "Caller is not a student"
// @Router /api/posts [post]
func (h *PostHandler) CreatePost(c *gin.Context) {
	var req services.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Judul dan konten harus diisi."})
		return
	}

	h.LogRequest(c, "Creating post", "title", req.Title)

	post, err := h.posts.Create(c.Request.Context(), callerIdentity(c), &req)
	if err != nil {
		h.handleServiceError(c, err, "Terjadi kesalahan server tidak terduga.")
		return
	}

	c.JSON(http.StatusCreated, CreatePostResponse{Message: "Post berhasil dibuat", Post: *post})
}

// ListPosts lists posts, newest first
// @Summary List posts
// @Tags posts
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param per_page query int false "Page size (default: 10, max: 100)"
// @Param author query string false "'self' for the caller's own posts"
// @Success 200 {object} services.PostListResponse
// @Failure 400 {object} ErrorResponse "Invalid paging parameters"
// @Router /api/posts/all [get]
func (h *PostHandler) ListPosts(c *gin.Context) {
	page, perPage, ok := parsePaging(c, 10)
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Parameter 'page' atau 'per_page' tidak valid."})
		return
	}

	query := services.ListPostsQuery{
		Page:       page,
		PerPage:    perPage,
		AuthorSelf: c.Query("author") == "self",
	}

	h.LogRequest(c, "Listing posts", "page", page, "per_page", perPage, "author_self", query.AuthorSelf)

	resp, err := h.posts.List(c.Request.Context(), callerIdentity(c), query)
	if err != nil {
		h.handleServiceError(c, err, "Terjadi kesalahan server tidak terduga.")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetPost returns one post
// @Summary Get post
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} models.PostView
// @Failure 400 {object} ErrorResponse "Invalid ID"
// @Failure 404 {object} ErrorResponse "Post not found"
// @Router /api/posts/{id} [get]
func (h *PostHandler) GetPost(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "ID Post tidak valid."})
		return
	}

	h.LogRequest(c, "Getting post", "post_id", id)

	post, err := h.posts.Get(c.Request.Context(), callerIdentity(c), id)
	if err != nil {
		h.handleServiceError(c, err, "Terjadi kesalahan server tidak terduga.")
		return
	}

	c.JSON(http.StatusOK, post)
}

// LikePost toggles the caller's like
// @Summary Like post
// @Description Like, undo a like, or turn a dislike into a like
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} services.InteractionResult
// @Failure 404 {object} ErrorResponse "Post not found"
// @Failure 409 {object} ErrorResponse "Concurrent interaction"
// @Router /api/posts/{id}/like [post]
func (h *PostHandler) LikePost(c *gin.Context) {
	h.interact(c, models.InteractionLike)
}

// DislikePost toggles the caller's dislike
// @Summary Dislike post
// @Description Dislike, undo a dislike, or turn a like into a dislike
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} services.InteractionResult
// @Failure 404 {object} ErrorResponse "Post not found"
// @Failure 409 {object} ErrorResponse "Concurrent interaction"
// @Router /api/posts/{id}/dislike [post]
func (h *PostHandler) DislikePost(c *gin.Context) {
	h.interact(c, models.InteractionDislike)
}

func (h *PostHandler) interact(c *gin.Context, action models.InteractionType) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "ID Post tidak valid."})
		return
	}

	h.LogRequest(c, "Applying interaction", "post_id", id, "action", action)

	apply := h.interactions.Like
	if action == models.InteractionDislike {
		apply = h.interactions.Dislike
	}

	result, err := apply(c.Request.Context(), callerIdentity(c), id)
	if err != nil {
		h.handleServiceError(c, err, "Terjadi kesalahan server tidak terduga.")
		return
	}

	c.JSON(http.StatusOK, result)
}

// RecommendPost adds the caller to the post's recommenders
// @Summary Recommend post
// @Description Lecturers only. Recommending twice is a no-op
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} services.RecommendationResult
// @Failure 403 {object} ErrorResponse "Caller is not a lecturer"
// @Failure 404 {object} ErrorResponse "Post not found"
// @Router /api/posts/{id}/recommend [post]
func (h *PostHandler) RecommendPost(c *gin.Context) {
	h.recommend(c, h.posts.Recommend)
}

// UnrecommendPost removes the caller from the post's recommenders
// @Summary Unrecommend post
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} services.RecommendationResult
// @Failure 403 {object} ErrorResponse "Caller is not a lecturer"
// @Failure 404 {object} ErrorResponse "Post not found"
// @Router /api/posts/{id}/unrecommend [post]
func (h *PostHandler) UnrecommendPost(c *gin.Context) {
	h.recommend(c, h.posts.Unrecommend)
}

type recommendFunc func(ctx context.Context, caller auth.Identity, postID uint) (*services.RecommendationResult, error)

func (h *PostHandler) recommend(c *gin.Context, change recommendFunc) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "ID Post tidak valid."})
		return
	}

	h.LogRequest(c, "Changing recommendation", "post_id", id)

	result, err := change(c.Request.Context(), callerIdentity(c), id)
	if err != nil {
		h.handleServiceError(c, err, "Terjadi kesalahan tidak terduga.")
		return
	}

	// An unchanged membership only reports why nothing happened.
	if !result.Changed {
		c.JSON(http.StatusOK, MessageResponse{Message: result.Message})
		return
	}
	c.JSON(http.StatusOK, result)
}

// ExportPosts downloads the interaction report
// @Summary Export posts
// @Description Lecturers only. One row per post with its counters
// @Tags posts
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Failure 403 {object} ErrorResponse "Caller is not a lecturer"
// @Router /api/posts/export [get]
func (h *PostHandler) ExportPosts(c *gin.Context) {
	h.LogRequest(c, "Exporting posts")

	buf, err := h.export.ExportPosts(c.Request.Context(), callerIdentity(c))
	if err != nil {
		h.handleServiceError(c, err, "Gagal membuat laporan.")
		return
	}

	filename := fmt.Sprintf("laporan-post-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
