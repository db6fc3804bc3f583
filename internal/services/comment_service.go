package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/boboboiiiw/backend-edutrack/internal/auth"
	"github.com/boboboiiiw/backend-edutrack/internal/models"
	"github.com/boboboiiiw/backend-edutrack/internal/repositories"
	"github.com/boboboiiiw/backend-edutrack/internal/validator"
)

type commentService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewCommentService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) CommentService {
	return &commentService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

func (s *commentService) Create(ctx context.Context, caller auth.Identity, req *CreateCommentRequest) (*models.CommentView, error) {
	if caller.ID == 0 {
		return nil, NewUnauthorizedError("Autentikasi diperlukan untuk menambah komentar.")
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, NewValidationError("Post ID dan konten komentar wajib diisi.")
	}

	if err := s.ensurePostExists(ctx, req.PostID); err != nil {
		return nil, err
	}
	if _, err := s.repo.User().GetByID(ctx, caller.ID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewUnauthorizedError("Pengguna tidak valid atau tidak ditemukan.")
		}
		return nil, fmt.Errorf("failed to get comment author: %w", err)
	}

	comment := &models.Comment{
		PostID:  req.PostID,
		UserID:  caller.ID,
		Content: req.Content,
	}
	if err := s.repo.Comment().Create(ctx, comment); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, NewConflictError("Terjadi konflik data saat menambah komentar.", err)
		}
		s.logger.Error("Failed to create comment", "post_id", req.PostID, "user_id", caller.ID, "error", err)
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	s.logger.Info("Comment created", "comment_id", comment.ID, "post_id", comment.PostID, "user_id", caller.ID)

	view := models.NewCommentView(comment)
	return &view, nil
}

func (s *commentService) ListByPost(ctx context.Context, query ListCommentsQuery) (*CommentListResponse, error) {
	if query.PostID == 0 {
		return nil, NewValidationError("Post ID tidak valid.")
	}
	if err := s.ensurePostExists(ctx, query.PostID); err != nil {
		return nil, err
	}

	page, perPage := normalizePaging(query.Page, query.PerPage)
	comments, total, err := s.repo.Comment().ListByPost(ctx, repositories.CommentFilters{
		PostID: query.PostID,
		Limit:  perPage,
		Offset: (page - 1) * perPage,
	})
	if err != nil {
		s.logger.Error("Failed to list comments", "post_id", query.PostID, "error", err)
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	views := make([]models.CommentView, 0, len(comments))
	for _, c := range comments {
		views = append(views, models.NewCommentView(c))
	}

	return &CommentListResponse{
		Comments: views,
		Pagination: models.CommentPagination{
			TotalComments: total,
			Pagination:    models.NewPagination(total, page, perPage),
		},
	}, nil
}

func (s *commentService) ensurePostExists(ctx context.Context, postID uint) error {
	exists, err := s.repo.Post().ExistsByID(ctx, postID)
	if err != nil {
		return fmt.Errorf("failed to check post: %w", err)
	}
	if !exists {
		return NewNotFoundError("Post tidak ditemukan.")
	}
	return nil
}
