package repositories

import (
	"context"

	"github.com/boboboiiiw/backend-edutrack/internal/models"
)

type InteractionRepository interface {
	GetByUserAndPost(ctx context.Context, userID, postID uint) (*models.PostInteraction, error)
	// Create fails with ErrDuplicate when the user already holds an interaction on the post.
	Create(ctx context.Context, interaction *models.PostInteraction) error
	UpdateType(ctx context.Context, id uint, from, to models.InteractionType) error
	Delete(ctx context.Context, id uint, current models.InteractionType) error
	CountByType(ctx context.Context, postID uint, interactionType models.InteractionType) (int64, error)
}
