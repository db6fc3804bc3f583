// Package testutil builds throwaway databases for repository, service and
// handler tests.
package testutil

import (
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/boboboiiiw/backend-edutrack/internal/models"
	"github.com/boboboiiiw/backend-edutrack/internal/repositories"
	"github.com/boboboiiiw/backend-edutrack/internal/repositories/postgres"
)

// NewTestDB opens a migrated SQLite database in the test's temp dir.
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "edutrack.db") + "?_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get test database handle: %v", err)
	}
	// SQLite allows one writer; a single connection keeps transactions serial.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := postgres.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

// NewTestRepository returns a repository over a fresh test database without cache.
func NewTestRepository(t testing.TB) (repositories.Repository, *gorm.DB) {
	t.Helper()
	db := NewTestDB(t)
	return postgres.NewPostgreSQLRepository(postgres.RepositoryConfig{DB: db}), db
}

// SeedUser inserts user as given. Password should already be a hash.
func SeedUser(t testing.TB, db *gorm.DB, user models.User) *models.User {
	t.Helper()
	if user.Password == "" {
		user.Password = "x"
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user %s: %v", user.Email, err)
	}
	return &user
}

// SeedPost inserts a post with preset counters and no interactions.
func SeedPost(t testing.TB, db *gorm.DB, authorID uint, title string, likes, dislikes int) *models.Post {
	t.Helper()
	post := models.Post{
		Title:    title,
		Content:  "isi " + title,
		AuthorID: authorID,
		Likes:    likes,
		Dislikes: dislikes,
	}
	if err := db.Omit("Author", "References", "RecommendedBy").Create(&post).Error; err != nil {
		t.Fatalf("failed to seed post %q: %v", title, err)
	}
	return &post
}

func StrPtr(s string) *string {
	return &s
}
