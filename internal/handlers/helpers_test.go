package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/boboboiiiw/backend-edutrack/internal/auth"
	"github.com/boboboiiiw/backend-edutrack/internal/config"
	"github.com/boboboiiiw/backend-edutrack/internal/events"
	"github.com/boboboiiiw/backend-edutrack/internal/models"
	"github.com/boboboiiiw/backend-edutrack/internal/services"
	"github.com/boboboiiiw/backend-edutrack/internal/testutil"
	"github.com/boboboiiiw/backend-edutrack/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testJWT = config.JWTConfig{Secret: "test-secret", TTL: 6 * time.Hour}

func testLogger() utils.Logger {
	return utils.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type testServer struct {
	router    *gin.Engine
	db        *gorm.DB
	tokens    *auth.TokenService
	hasher    auth.PasswordHasher
	publisher *events.MockEventPublisher
}

// newTestServer wires the full middleware chain and routes over a SQLite
// database, the way main does over PostgreSQL.
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	repo, db := testutil.NewTestRepository(t)
	logger := testLogger()
	tokens := auth.NewTokenService(testJWT)
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)
	publisher := events.NewMockEventPublisher(logger.Slog())

	sm := services.NewDefaultServiceManager(services.Dependencies{
		Repo:      repo,
		Publisher: publisher,
		Tokens:    tokens,
		Roles:     auth.NewRoleResolver("itera.ac.id"),
		Hasher:    hasher,
		Logger:    logger.Slog(),
	})
	if err := sm.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	hm := NewHandlerManager(sm, tokens, logger)
	router := gin.New()
	SetupMiddleware(router, logger, "http://localhost:5173", hm.AuthMiddleware())
	hm.SetupRoutes(router)

	return &testServer{router: router, db: db, tokens: tokens, hasher: hasher, publisher: publisher}
}

func (s *testServer) seedUser(t *testing.T, name, email string, role models.UserRole, password string) *models.User {
	t.Helper()
	hash, err := s.hasher.Hash(password)
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	return testutil.SeedUser(t, s.db, models.User{Name: name, Email: email, Role: role, Password: hash})
}

func (s *testServer) tokenFor(t *testing.T, u *models.User) string {
	t.Helper()
	token, err := s.tokens.Issue(auth.Identity{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role})
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	return token
}

// do sends a request with an optional JSON body and bearer token.
func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return serve(t, s.router, method, path, token, body)
}

func serve(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode %q: %v", w.Body.String(), err)
	}
	return out
}

func assertError(t *testing.T, w *httptest.ResponseRecorder, status int, message string) {
	t.Helper()
	if w.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", w.Code, status, w.Body.String())
	}
	got := decode[ErrorResponse](t, w)
	if message != "" && got.Error != message {
		t.Errorf("error = %q, want %q", got.Error, message)
	}
}

func httptestRequest(method, path, authorization string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	return req
}

func recordResponse(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}
