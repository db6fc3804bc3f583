package repositories

import (
	"context"

	"github.com/boboboiiiw/backend-edutrack/internal/models"
)

type CommentRepository interface {
	// Create inserts comment and loads its author.
	Create(ctx context.Context, comment *models.Comment) error
	ListByPost(ctx context.Context, filters CommentFilters) ([]*models.Comment, int64, error)
}
