package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/boboboiiiw/backend-edutrack/internal/models"
	"github.com/boboboiiiw/backend-edutrack/internal/repositories"
)

type CommentPostgreSQL struct {
	db *gorm.DB
}

func NewCommentPostgreSQL(db *gorm.DB) repositories.CommentRepository {
	return &CommentPostgreSQL{db: db}
}

func (r *CommentPostgreSQL) Create(ctx context.Context, comment *models.Comment) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit("User").Create(comment).Error; err != nil {
		return handleDBError(err, "create comment")
	}
	if err := db.First(&comment.User, comment.UserID).Error; err != nil {
		return handleDBError(err, "load comment author")
	}
	return nil
}

func (r *CommentPostgreSQL) ListByPost(ctx context.Context, filters repositories.CommentFilters) ([]*models.Comment, int64, error) {
	var comments []*models.Comment
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Comment{}).Where("post_id = ?", filters.PostID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, handleDBError(err, "count comments")
	}

	query = applyPagination(query.Preload("User"), filters.Limit, filters.Offset)
	if err := query.Order("created_at ASC").Order("id ASC").Find(&comments).Error; err != nil {
		return nil, 0, handleDBError(err, "list comments")
	}

	return comments, total, nil
}
