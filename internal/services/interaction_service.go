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
)

const interactionConflictMessage = "Terjadi konflik interaksi."

type interactionService struct {
	repo      repositories.Repository
	cache     *cache.CacheManager
	publisher events.EventPublisher
	logger    *slog.Logger
}

func NewInteractionService(repo repositories.Repository, cacheManager *cache.CacheManager, publisher events.EventPublisher, logger *slog.Logger) InteractionService {
	return &interactionService{
		repo:      repo,
		cache:     cacheManager,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *interactionService) Like(ctx context.Context, caller auth.Identity, postID uint) (*InteractionResult, error) {
	return s.apply(ctx, caller, postID, models.InteractionLike)
}

func (s *interactionService) Dislike(ctx context.Context, caller auth.Identity, postID uint) (*InteractionResult, error) {
	return s.apply(ctx, caller, postID, models.InteractionDislike)
}

// apply reads the caller's interaction, picks the transition and writes the
// interaction row and both counters in one transaction.
func (s *interactionService) apply(ctx context.Context, caller auth.Identity, postID uint, action models.InteractionType) (*InteractionResult, error) {
	if caller.ID == 0 {
		return nil, NewUnauthorizedError("Autentikasi diperlukan.")
	}
	if postID == 0 {
		return nil, NewValidationError("ID Post tidak valid.")
	}

	s.logger.Info("Applying interaction", "action", action, "user_id", caller.ID, "post_id", postID)

	var (
		transition InteractionTransition
		result     InteractionResult
	)
	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if _, err := tx.Post().GetByID(ctx, postID); err != nil {
			if repositories.IsNotFoundError(err) {
				return NewNotFoundError("Post tidak ditemukan.")
			}
			return fmt.Errorf("failed to get post: %w", err)
		}

		current, err := tx.Interaction().GetByUserAndPost(ctx, caller.ID, postID)
		if err != nil {
			if !repositories.IsNotFoundError(err) {
				return fmt.Errorf("failed to get interaction: %w", err)
			}
			current = nil
		}

		transition, err = NextInteraction(StateOf(current), action)
		if err != nil {
			return err
		}

		if err := s.writeInteraction(ctx, tx.Interaction(), transition, current, caller.ID, postID); err != nil {
			return err
		}

		likes, dislikes, err := tx.Post().ApplyCounterDelta(ctx, postID, transition.LikesDelta, transition.DislikesDelta)
		if err != nil {
			return fmt.Errorf("failed to update post counters: %w", err)
		}

		result = InteractionResult{
			Message:  transition.Message,
			Likes:    likes,
			Dislikes: dislikes,
		}
		return nil
	})
	if err != nil {
		return nil, s.translateError(err, caller.ID, postID, action)
	}

	metrics.InteractionTransitionsTotal.
		WithLabelValues(string(action), string(transition.From), string(transition.To)).
		Inc()
	cache.InvalidatePostCache(ctx, s.cache, postID)
	s.publishTransition(ctx, caller.ID, postID, transition, result)

	s.logger.Info("Interaction applied",
		"action", action,
		"user_id", caller.ID,
		"post_id", postID,
		"from", transition.From,
		"to", transition.To,
		"likes", result.Likes,
		"dislikes", result.Dislikes)

	return &result, nil
}

func (s *interactionService) writeInteraction(ctx context.Context, repo repositories.InteractionRepository, t InteractionTransition, current *models.PostInteraction, userID, postID uint) error {
	var err error
	switch t.Op {
	case OpCreate:
		err = repo.Create(ctx, &models.PostInteraction{
			UserID:          userID,
			PostID:          postID,
			InteractionType: t.Action,
		})
	case OpDelete:
		err = repo.Delete(ctx, current.ID, current.InteractionType)
	case OpUpdate:
		err = repo.UpdateType(ctx, current.ID, current.InteractionType, t.Action)
	}
	if err == nil {
		return nil
	}

	// A row that vanished or changed type between read and write lost a race.
	if repositories.IsNotFoundError(err) || repositories.IsDuplicateError(err) {
		return NewConflictError(interactionConflictMessage, err)
	}
	return fmt.Errorf("failed to %s interaction: %w", t.Op, err)
}

func (s *interactionService) translateError(err error, userID, postID uint, action models.InteractionType) error {
	if repositories.IsDuplicateError(err) && !errors.Is(err, ErrConflict) {
		err = NewConflictError(interactionConflictMessage, err)
	}

	var se *ServiceError
	if errors.As(err, &se) {
		if errors.Is(err, ErrConflict) {
			s.logger.Warn("Interaction conflict", "action", action, "user_id", userID, "post_id", postID, "error", err)
		}
		return err
	}

	s.logger.Error("Failed to apply interaction", "action", action, "user_id", userID, "post_id", postID, "error", err)
	return fmt.Errorf("failed to apply %s: %w", action, err)
}

func (s *interactionService) publishTransition(ctx context.Context, userID, postID uint, t InteractionTransition, result InteractionResult) {
	if s.publisher == nil {
		return
	}

	event := events.NewEvent(events.EventPostInteractionChanged, events.InteractionChangedEvent{
		PostID:   postID,
		UserID:   userID,
		Action:   string(t.Action),
		From:     string(t.From),
		To:       string(t.To),
		Likes:    result.Likes,
		Dislikes: result.Dislikes,
	})
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish interaction event", "post_id", postID, "event_id", event.ID, "error", err)
	}
}
