package postgres

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/boboboiiiw/backend-edutrack/internal/models"
	"github.com/boboboiiiw/backend-edutrack/internal/repositories"
)

// Migrate creates or updates the forum schema.
func Migrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&models.Post{}, "RecommendedBy", &models.PostRecommendation{}); err != nil {
		return fmt.Errorf("failed to setup recommendation join table: %w", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.URL{},
		&models.Post{},
		&models.PostInteraction{},
		&models.Comment{},
	); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// handleDBError wraps err with the operation name and maps missing rows and
// unique violations onto the repository sentinels.
func handleDBError(err error, operation string) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s failed: %w", operation, repositories.ErrNotFound)
	case isDuplicateKeyError(err):
		return fmt.Errorf("%s failed: %w: %v", operation, repositories.ErrDuplicate, err)
	default:
		return fmt.Errorf("%s failed: %w", operation, err)
	}
}

// isDuplicateKeyError also matches raw driver messages for connections opened
// without gorm's TranslateError.
func isDuplicateKeyError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLSTATE 23505") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

func applyPagination(query *gorm.DB, limit, offset int) *gorm.DB {
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	return query
}
