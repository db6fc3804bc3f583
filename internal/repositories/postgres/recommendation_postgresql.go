package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/boboboiiiw/backend-edutrack/internal/models"
	"github.com/boboboiiiw/backend-edutrack/internal/repositories"
)

type RecommendationPostgreSQL struct {
	db *gorm.DB
}

func NewRecommendationPostgreSQL(db *gorm.DB) repositories.RecommendationRepository {
	return &RecommendationPostgreSQL{db: db}
}

func (r *RecommendationPostgreSQL) Exists(ctx context.Context, postID, userID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.PostRecommendation{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&count).Error; err != nil {
		return false, handleDBError(err, "check recommendation")
	}
	return count > 0, nil
}

func (r *RecommendationPostgreSQL) Add(ctx context.Context, postID, userID uint) error {
	rec := &models.PostRecommendation{PostID: postID, UserID: userID}
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return handleDBError(err, "add recommendation")
	}
	return nil
}

func (r *RecommendationPostgreSQL) Remove(ctx context.Context, postID, userID uint) error {
	result := r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&models.PostRecommendation{})
	if result.Error != nil {
		return handleDBError(result.Error, "remove recommendation")
	}
	if result.RowsAffected == 0 {
		return handleDBError(gorm.ErrRecordNotFound, "remove recommendation")
	}
	return nil
}

func (r *RecommendationPostgreSQL) ListUserIDs(ctx context.Context, postID uint) ([]uint, error) {
	ids := []uint{}
	if err := r.db.WithContext(ctx).
		Model(&models.PostRecommendation{}).
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Order("user_id ASC").
		Pluck("user_id", &ids).Error; err != nil {
		return nil, handleDBError(err, "list recommenders")
	}
	return ids, nil
}

func (r *RecommendationPostgreSQL) CountByPosts(ctx context.Context, postIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(postIDs))
	if len(postIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		PostID uint
		Total  int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.PostRecommendation{}).
		Select("post_id, COUNT(*) AS total").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error; err != nil {
		return nil, handleDBError(err, "count recommendations")
	}

	for _, row := range rows {
		counts[row.PostID] = row.Total
	}
	return counts, nil
}
