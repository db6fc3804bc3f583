package services

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/boboboiiiw/backend-edutrack/internal/auth"
	"github.com/boboboiiiw/backend-edutrack/internal/cache"
	"github.com/boboboiiiw/backend-edutrack/internal/config"
	"github.com/boboboiiiw/backend-edutrack/internal/events"
	"github.com/boboboiiiw/backend-edutrack/internal/models"
	"github.com/boboboiiiw/backend-edutrack/internal/repositories"
	"github.com/boboboiiiw/backend-edutrack/internal/testutil"
	"github.com/boboboiiiw/backend-edutrack/internal/validator"
)

const testDomain = "itera.ac.id"

type fixture struct {
	repo      repositories.Repository
	db        *gorm.DB
	cache     *cache.CacheManager
	publisher *events.MockEventPublisher
	tokens    *auth.TokenService
	hasher    auth.PasswordHasher
	logger    *slog.Logger
	validator *validator.Validator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo, db := testutil.NewTestRepository(t)
	logger := testLogger()
	return &fixture{
		repo:      repo,
		db:        db,
		cache:     cache.NewCacheManager(nil),
		publisher: events.NewMockEventPublisher(logger),
		tokens:    auth.NewTokenService(config.JWTConfig{Secret: "test-secret", TTL: 6 * time.Hour}),
		hasher:    auth.NewBcryptHasher(bcrypt.MinCost),
		logger:    logger,
		validator: validator.New(),
	}
}

func (f *fixture) interactions() InteractionService {
	return NewInteractionService(f.repo, f.cache, f.publisher, f.logger)
}

func (f *fixture) posts() PostService {
	return NewPostService(f.repo, f.cache, f.publisher, f.logger, f.validator)
}

func (f *fixture) comments() CommentService {
	return NewCommentService(f.repo, f.logger, f.validator)
}

func (f *fixture) auth() AuthService {
	return NewAuthService(f.repo, f.tokens, auth.NewRoleResolver(testDomain), f.hasher, f.logger, f.validator)
}

func (f *fixture) seedUser(t *testing.T, name, email string, role models.UserRole) *models.User {
	t.Helper()
	return testutil.SeedUser(t, f.db, models.User{Name: name, Email: email, Role: role})
}

func (f *fixture) seedUserWithPassword(t *testing.T, name, email string, role models.UserRole, password string) *models.User {
	t.Helper()
	hash, err := f.hasher.Hash(password)
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	return testutil.SeedUser(t, f.db, models.User{Name: name, Email: email, Role: role, Password: hash})
}

func (f *fixture) counters(t *testing.T, postID uint) (int, int) {
	t.Helper()
	var post models.Post
	if err := f.db.First(&post, postID).Error; err != nil {
		t.Fatalf("failed to load post %d: %v", postID, err)
	}
	return post.Likes, post.Dislikes
}

func identityOf(u *models.User) auth.Identity {
	return auth.Identity{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func assertKind(t *testing.T, err, kind error, message string) {
	t.Helper()
	if !errors.Is(err, kind) {
		t.Fatalf("error = %v, want kind %v", err, kind)
	}
	if message != "" {
		if got := UserMessage(err, ""); got != message {
			t.Errorf("message = %q, want %q", got, message)
		}
	}
}
