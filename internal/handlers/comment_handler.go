package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/boboboiiiw/backend-edutrack/internal/models"
	"github.com/boboboiiiw/backend-edutrack/internal/services"
	"github.com/boboboiiiw/backend-edutrack/internal/utils"
)

type CommentHandler struct {
	BaseHandler
	service services.CommentService
}

func NewCommentHandler(service services.CommentService, logger utils.Logger) *CommentHandler {
	return &CommentHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

type CreateCommentResponse struct {
	Message string             `json:"message"`
	Comment models.CommentView `json:"comment"`
}

// CreateComment adds a comment to a post
// @Summary Add comment
// @Tags comments
// @Accept json
// @Produce json
// @Param request body services.CreateCommentRequest true "Comment data"
// @Success 201 {object} CreateCommentResponse
// @Failure 400 {object} ErrorResponse "Missing post ID or content"
// @Failure 404 {object} ErrorResponse "Post not found"
// @Router /api/comments [post]
func (h *CommentHandler) CreateComment(c *gin.Context) {
	var req services.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Post ID dan konten komentar wajib diisi."})
		return
	}

	h.LogRequest(c, "Adding comment", "post_id", req.PostID)

	comment, err := h.service.Create(c.Request.Context(), callerIdentity(c), &req)
	if err != nil {
		h.handleServiceError(c, err, "Terjadi kesalahan server tidak terduga.")
		return
	}

	c.JSON(http.StatusCreated, CreateCommentResponse{Message: "Komentar berhasil ditambahkan", Comment: *comment})
}

// ListComments lists a post's comments, oldest first
// @Summary List comments of a post
// @Tags comments
// @Produce json
// @Param post_id path int true "Post ID"
// @Param page query int false "Page number (default: 1)"
// @Param per_page query int false "Page size (default: 5, max: 100)"
// @Success 200 {object} services.CommentListResponse
// @Failure 400 {object} ErrorResponse "Invalid post ID or paging parameters"
// @Failure 404 {object} ErrorResponse "Post not found"
// @Router /api/comments/post/{post_id} [get]
func (h *CommentHandler) ListComments(c *gin.Context) {
	postID, ok := parseIDParam(c, "post_id")
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Post ID tidak valid."})
		return
	}

	page, perPage, ok := parsePaging(c, 5)
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Parameter 'page' atau 'per_page' tidak valid."})
		return
	}

	h.LogRequest(c, "Listing comments", "post_id", postID, "page", page)

	resp, err := h.service.ListByPost(c.Request.Context(), services.ListCommentsQuery{
		PostID:  postID,
		Page:    page,
		PerPage: perPage,
	})
	if err != nil {
		h.handleServiceError(c, err, "Terjadi kesalahan server tidak terduga.")
		return
	}

	c.JSON(http.StatusOK, resp)
}
