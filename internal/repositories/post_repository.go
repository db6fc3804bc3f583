package repositories

import (
	"context"

	"github.com/boboboiiiw/backend-edutrack/internal/models"
)

type PostRepository interface {
	// Create inserts post and links references, creating missing URLs.
	Create(ctx context.Context, post *models.Post, references []string) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	// GetWithDetails preloads Author, References and RecommendedBy.
	GetWithDetails(ctx context.Context, id uint) (*models.Post, error)
	List(ctx context.Context, filters PostFilters) ([]*models.Post, int64, error)
	ExistsByID(ctx context.Context, id uint) (bool, error)

	// ApplyCounterDelta adds the deltas to the likes and dislikes counters and
	// returns the stored values afterwards.
	ApplyCounterDelta(ctx context.Context, id uint, likesDelta, dislikesDelta int) (likes, dislikes int, err error)
}

type RecommendationRepository interface {
	Exists(ctx context.Context, postID, userID uint) (bool, error)
	Add(ctx context.Context, postID, userID uint) error
	Remove(ctx context.Context, postID, userID uint) error
	ListUserIDs(ctx context.Context, postID uint) ([]uint, error)
	CountByPosts(ctx context.Context, postIDs []uint) (map[uint]int64, error)
}
