package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/boboboiiiw/backend-edutrack/internal/auth"
	"github.com/boboboiiiw/backend-edutrack/internal/cache"
	"github.com/boboboiiiw/backend-edutrack/internal/events"
	"github.com/boboboiiiw/backend-edutrack/internal/metrics"
	"github.com/boboboiiiw/backend-edutrack/internal/models"
	"github.com/boboboiiiw/backend-edutrack/internal/repositories"
	"github.com/boboboiiiw/backend-edutrack/internal/validator"
)

// errMembershipUnchanged marks a recommend or unrecommend that lost a race
// with an identical request.
var errMembershipUnchanged = errors.New("recommendation membership unchanged")

type recommendationMessages struct {
	forbidden string
	unchanged string
	changed   string
}

var (
	recommendMessages = recommendationMessages{
		forbidden: "Hanya dosen yang dapat merekomendasikan.",
		unchanged: "Anda sudah merekomendasikan post ini.",
		changed:   "Post berhasil direkomendasikan.",
	}
	unrecommendMessages = recommendationMessages{
		forbidden: "Hanya dosen yang dapat membatalkan rekomendasi.",
		unchanged: "Anda belum merekomendasikan post ini.",
		changed:   "Rekomendasi berhasil dibatalkan.",
	}
)

type postService struct {
	repo      repositories.Repository
	cache     *cache.CacheManager
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
}

func NewPostService(repo repositories.Repository, cacheManager *cache.CacheManager, publisher events.EventPublisher, logger *slog.Logger, validator *validator.Validator) PostService {
	return &postService{
		repo:      repo,
		cache:     cacheManager,
		publisher: publisher,
		logger:    logger,
		validator: validator,
	}
}

// ===== POSTS =====

func (s *postService) Create(ctx context.Context, caller auth.Identity, req *CreatePostRequest) (*models.PostView, error) {
	if caller.ID == 0 {
		return nil, NewUnauthorizedError("Autentikasi diperlukan untuk membuat post.")
	}
	if caller.Role != models.RoleMahasiswa {
		return nil, NewForbiddenError("Hanya mahasiswa yang diizinkan membuat post.")
	}
	if err := s.validator.Validate(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && !verrs.HasField("Title") && !verrs.HasField("Content") {
			return nil, NewValidationError("Referensi tidak valid.")
		}
		return nil, NewValidationError("Judul dan konten harus diisi.")
	}

	s.logger.Info("Creating post", "author_id", caller.ID, "title", req.Title, "references", len(req.References))

	post := &models.Post{
		Title:    req.Title,
		Content:  req.Content,
		AuthorID: caller.ID,
	}
	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		return tx.Post().Create(ctx, post, req.References)
	})
	if err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, NewConflictError("Terjadi konflik data. Mungkin ada duplikat.", err)
		}
		s.logger.Error("Failed to create post", "author_id", caller.ID, "error", err)
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	created, err := s.repo.Post().GetWithDetails(ctx, post.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load created post: %w", err)
	}

	s.logger.Info("Post created", "post_id", created.ID, "author_id", caller.ID)

	view := models.NewPostView(created)
	return &view, nil
}

func (s *postService) List(ctx context.Context, caller auth.Identity, query ListPostsQuery) (*PostListResponse, error) {
	page, perPage := normalizePaging(query.Page, query.PerPage)

	filters := repositories.PostFilters{
		Limit:  perPage,
		Offset: (page - 1) * perPage,
	}
	if query.AuthorSelf {
		if caller.ID == 0 {
			return nil, NewUnauthorizedError("Autentikasi diperlukan untuk melihat postingan Anda.")
		}
		authorID := caller.ID
		filters.AuthorID = &authorID
	}

	posts, total, err := s.repo.Post().List(ctx, filters)
	if err != nil {
		s.logger.Error("Failed to list posts", "page", page, "per_page", perPage, "error", err)
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	views := make([]models.PostView, 0, len(posts))
	for _, p := range posts {
		views = append(views, models.NewPostView(p))
	}

	return &PostListResponse{
		Posts: views,
		Pagination: models.PostPagination{
			TotalPosts: total,
			Pagination: models.NewPagination(total, page, perPage),
		},
	}, nil
}

// Get serves the shared post view from cache and adds the caller's own
// recommendation flag on every call.
func (s *postService) Get(ctx context.Context, caller auth.Identity, postID uint) (*models.PostView, error) {
	if postID == 0 {
		return nil, NewValidationError("ID Post tidak valid.")
	}

	var view models.PostView
	err := s.cache.Post.CacheOrExecute(ctx, cache.PostViewKey(postID), &view, s.cache.PostTTL(), func() (interface{}, error) {
		post, err := s.repo.Post().GetWithDetails(ctx, postID)
		if err != nil {
			return nil, err
		}
		return models.NewPostView(post), nil
	})
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewNotFoundError("Post tidak ditemukan.")
		}
		s.logger.Error("Failed to get post", "post_id", postID, "error", err)
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	recommended := false
	if caller.ID != 0 {
		recommended, err = s.repo.Recommendation().Exists(ctx, postID, caller.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check recommendation: %w", err)
		}
	}
	view.RecommendedByCurrentUser = &recommended

	return &view, nil
}

// ===== RECOMMENDATIONS =====

func (s *postService) Recommend(ctx context.Context, caller auth.Identity, postID uint) (*RecommendationResult, error) {
	return s.changeRecommendation(ctx, caller, postID, true)
}

func (s *postService) Unrecommend(ctx context.Context, caller auth.Identity, postID uint) (*RecommendationResult, error) {
	return s.changeRecommendation(ctx, caller, postID, false)
}

// changeRecommendation adds or removes the caller from the post's recommenders.
// A request that matches the current membership succeeds without writing.
func (s *postService) changeRecommendation(ctx context.Context, caller auth.Identity, postID uint, add bool) (*RecommendationResult, error) {
	msgs, operation := unrecommendMessages, "unrecommend"
	if add {
		msgs, operation = recommendMessages, "recommend"
	}

	if caller.ID == 0 {
		return nil, NewUnauthorizedError("Autentikasi diperlukan.")
	}
	if caller.Role != models.RoleDosen {
		metrics.RecommendationChangesTotal.WithLabelValues(operation, "forbidden").Inc()
		return nil, NewForbiddenError(msgs.forbidden)
	}
	if postID == 0 {
		return nil, NewValidationError("ID Post tidak valid.")
	}

	s.logger.Info("Changing recommendation", "operation", operation, "user_id", caller.ID, "post_id", postID)

	result := &RecommendationResult{}
	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		exists, err := tx.Post().ExistsByID(ctx, postID)
		if err != nil {
			return fmt.Errorf("failed to check post: %w", err)
		}
		if !exists {
			return NewNotFoundError("Post tidak ditemukan.")
		}

		member, err := tx.Recommendation().Exists(ctx, postID, caller.ID)
		if err != nil {
			return fmt.Errorf("failed to check recommendation: %w", err)
		}

		if member != add {
			if add {
				err = tx.Recommendation().Add(ctx, postID, caller.ID)
			} else {
				err = tx.Recommendation().Remove(ctx, postID, caller.ID)
			}
			switch {
			case add && repositories.IsDuplicateError(err), !add && repositories.IsNotFoundError(err):
				return fmt.Errorf("%w: %v", errMembershipUnchanged, err)
			case err != nil:
				return fmt.Errorf("failed to %s post: %w", operation, err)
			}
			result.Changed = true
		}

		result.RecommendedBy, err = tx.Recommendation().ListUserIDs(ctx, postID)
		if err != nil {
			return fmt.Errorf("failed to list recommenders: %w", err)
		}
		return nil
	})

	if errors.Is(err, errMembershipUnchanged) {
		result.Changed = false
		result.RecommendedBy, err = s.repo.Recommendation().ListUserIDs(ctx, postID)
	}
	if err != nil {
		var se *ServiceError
		if errors.As(err, &se) {
			return nil, err
		}
		s.logger.Error("Failed to change recommendation", "operation", operation, "user_id", caller.ID, "post_id", postID, "error", err)
		return nil, fmt.Errorf("failed to %s post: %w", operation, err)
	}

	if !result.Changed {
		result.Message = msgs.unchanged
		metrics.RecommendationChangesTotal.WithLabelValues(operation, "unchanged").Inc()
		return result, nil
	}

	result.Message = msgs.changed
	metrics.RecommendationChangesTotal.WithLabelValues(operation, "changed").Inc()
	cache.InvalidatePostCache(ctx, s.cache, postID)
	s.publishRecommendation(ctx, caller.ID, postID, add, result.RecommendedBy)

	s.logger.Info("Recommendation changed", "operation", operation, "user_id", caller.ID, "post_id", postID, "recommenders", len(result.RecommendedBy))

	return result, nil
}

func (s *postService) publishRecommendation(ctx context.Context, userID, postID uint, recommended bool, recommendedBy []uint) {
	if s.publisher == nil {
		return
	}

	event := events.NewEvent(events.EventPostRecommendationChanged, events.RecommendationChangedEvent{
		PostID:        postID,
		UserID:        userID,
		Recommended:   recommended,
		RecommendedBy: recommendedBy,
	})
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish recommendation event", "post_id", postID, "event_id", event.ID, "error", err)
	}
}
