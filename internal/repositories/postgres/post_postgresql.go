package postgres

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/boboboiiiw/backend-edutrack/internal/models"
	"github.com/boboboiiiw/backend-edutrack/internal/repositories"
)

type PostPostgreSQL struct {
	db *gorm.DB
}

func NewPostPostgreSQL(db *gorm.DB) repositories.PostRepository {
	return &PostPostgreSQL{db: db}
}

// Create inserts the post and links every non-blank reference URL. Callers
// wanting atomicity run it inside WithTransaction.
func (r *PostPostgreSQL) Create(ctx context.Context, post *models.Post, references []string) error {
	db := r.db.WithContext(ctx)

	urls, err := r.findOrCreateURLs(db, references)
	if err != nil {
		return err
	}
	post.References = urls

	if err := db.Omit("Author", "RecommendedBy", "References.*").Create(post).Error; err != nil {
		return handleDBError(err, "create post")
	}
	return nil
}

func (r *PostPostgreSQL) findOrCreateURLs(db *gorm.DB, references []string) ([]models.URL, error) {
	seen := make(map[string]bool, len(references))
	urls := make([]models.URL, 0, len(references))

	for _, raw := range references {
		ref := strings.TrimSpace(raw)
		if ref == "" || seen[ref] {
			continue
		}
		seen[ref] = true

		var url models.URL
		err := db.Where("url = ?", ref).First(&url).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			url = models.URL{URL: ref}
			if err := db.Create(&url).Error; err != nil {
				return nil, handleDBError(err, "create reference url")
			}
		case err != nil:
			return nil, handleDBError(err, "get reference url")
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func (r *PostPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		return nil, handleDBError(err, "get post by id")
	}
	return &post, nil
}

func (r *PostPostgreSQL) GetWithDetails(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.withDetails(r.db.WithContext(ctx)).First(&post, id).Error; err != nil {
		return nil, handleDBError(err, "get post with details")
	}
	return &post, nil
}

func (r *PostPostgreSQL) List(ctx context.Context, filters repositories.PostFilters) ([]*models.Post, int64, error) {
	var posts []*models.Post
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Post{})
	if filters.AuthorID != nil {
		query = query.Where("author_id = ?", *filters.AuthorID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, handleDBError(err, "count posts")
	}

	query = applyPagination(r.withDetails(query), filters.Limit, filters.Offset)
	if err := query.Order("created_at DESC").Order("id DESC").Find(&posts).Error; err != nil {
		return nil, 0, handleDBError(err, "list posts")
	}

	return posts, total, nil
}

func (r *PostPostgreSQL) ExistsByID(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, handleDBError(err, "check post exists")
	}
	return count > 0, nil
}

func (r *PostPostgreSQL) ApplyCounterDelta(ctx context.Context, id uint, likesDelta, dislikesDelta int) (int, int, error) {
	db := r.db.WithContext(ctx)

	if likesDelta != 0 || dislikesDelta != 0 {
		result := db.Model(&models.Post{}).
			Where("id = ?", id).
			UpdateColumns(map[string]interface{}{
				"likes":    gorm.Expr("likes + ?", likesDelta),
				"dislikes": gorm.Expr("dislikes + ?", dislikesDelta),
			})
		if result.Error != nil {
			return 0, 0, handleDBError(result.Error, "apply post counter delta")
		}
		if result.RowsAffected == 0 {
			return 0, 0, handleDBError(gorm.ErrRecordNotFound, "apply post counter delta")
		}
	}

	var post models.Post
	if err := db.Select("id", "likes", "dislikes").First(&post, id).Error; err != nil {
		return 0, 0, handleDBError(err, "read post counters")
	}
	return post.Likes, post.Dislikes, nil
}

func (r *PostPostgreSQL) withDetails(query *gorm.DB) *gorm.DB {
	return query.
		Preload("Author").
		Preload("References").
		Preload("RecommendedBy")
}
