package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/boboboiiiw/backend-edutrack/internal/models"
	"github.com/boboboiiiw/backend-edutrack/internal/repositories"
)

type InteractionPostgreSQL struct {
	db *gorm.DB
}

func NewInteractionPostgreSQL(db *gorm.DB) repositories.InteractionRepository {
	return &InteractionPostgreSQL{db: db}
}

func (r *InteractionPostgreSQL) GetByUserAndPost(ctx context.Context, userID, postID uint) (*models.PostInteraction, error) {
	var interaction models.PostInteraction
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		First(&interaction).Error; err != nil {
		return nil, handleDBError(err, "get post interaction")
	}
	return &interaction, nil
}

func (r *InteractionPostgreSQL) Create(ctx context.Context, interaction *models.PostInteraction) error {
	if err := r.db.WithContext(ctx).Create(interaction).Error; err != nil {
		return handleDBError(err, "create post interaction")
	}
	return nil
}

// UpdateType flips the row only while it still holds the type the caller read.
func (r *InteractionPostgreSQL) UpdateType(ctx context.Context, id uint, from, to models.InteractionType) error {
	result := r.db.WithContext(ctx).
		Model(&models.PostInteraction{}).
		Where("id = ? AND interaction_type = ?", id, from).
		Update("interaction_type", to)
	if result.Error != nil {
		return handleDBError(result.Error, "update post interaction")
	}
	if result.RowsAffected == 0 {
		return handleDBError(gorm.ErrRecordNotFound, "update post interaction")
	}
	return nil
}

func (r *InteractionPostgreSQL) Delete(ctx context.Context, id uint, current models.InteractionType) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND interaction_type = ?", id, current).
		Delete(&models.PostInteraction{})
	if result.Error != nil {
		return handleDBError(result.Error, "delete post interaction")
	}
	if result.RowsAffected == 0 {
		return handleDBError(gorm.ErrRecordNotFound, "delete post interaction")
	}
	return nil
}

func (r *InteractionPostgreSQL) CountByType(ctx context.Context, postID uint, interactionType models.InteractionType) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.PostInteraction{}).
		Where("post_id = ? AND interaction_type = ?", postID, interactionType).
		Count(&count).Error; err != nil {
		return 0, handleDBError(err, "count post interactions")
	}
	return count, nil
}
