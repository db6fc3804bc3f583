package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/boboboiiiw/backend-edutrack/internal/auth"
	"github.com/boboboiiiw/backend-edutrack/internal/config"
	"github.com/boboboiiiw/backend-edutrack/internal/models"
)

// newGateRouter serves one public and one protected route behind the gate.
// The protected route echoes the identity found in the request context.
func newGateRouter(tokens *auth.TokenService) *gin.Engine {
	router := gin.New()
	router.Use(NewAuthMiddleware(tokens, testLogger()).Gate())

	router.POST("/api/login", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"public": true})
	})
	router.GET("/api/me", func(c *gin.Context) {
		identity, ok := auth.IdentityFromContext(c.Request.Context())
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, identity)
	})
	return router
}

func TestAuthGate(t *testing.T) {
	now := time.Now()
	tokens := auth.NewTokenService(testJWT)
	router := newGateRouter(tokens)

	alice := auth.Identity{ID: 7, Name: "Alice", Email: "alice@student.itera.ac.id", Role: models.RoleMahasiswa}
	valid, err := tokens.Issue(alice)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	expired, err := tokens.WithClock(func() time.Time { return now.Add(-7 * time.Hour) }).Issue(alice)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	forged, err := auth.NewTokenService(config.JWTConfig{Secret: "other-secret", TTL: time.Hour}).Issue(alice)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	tests := []struct {
		name       string
		method     string
		path       string
		header     string
		wantStatus int
		wantError  string
	}{
		{"public path without token", http.MethodPost, "/api/login", "", http.StatusOK, ""},
		{"public path with garbage token", http.MethodPost, "/api/login", "Bearer nope", http.StatusOK, ""},
		{"missing header", http.MethodGet, "/api/me", "", http.StatusUnauthorized, "Unauthorized. Token missing or malformed."},
		{"wrong scheme", http.MethodGet, "/api/me", "Token " + valid, http.StatusUnauthorized, "Unauthorized. Token missing or malformed."},
		{"lowercase scheme", http.MethodGet, "/api/me", "bearer " + valid, http.StatusUnauthorized, "Unauthorized. Token missing or malformed."},
		{"expired token", http.MethodGet, "/api/me", "Bearer " + expired, http.StatusUnauthorized, "Token expired"},
		{"foreign signature", http.MethodGet, "/api/me", "Bearer " + forged, http.StatusUnauthorized, "Invalid token"},
		{"malformed token", http.MethodGet, "/api/me", "Bearer not.a.jwt", http.StatusUnauthorized, "Invalid token"},
		{"valid token", http.MethodGet, "/api/me", "Bearer " + valid, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptestRequest(tt.method, tt.path, tt.header)
			w := recordResponse(router, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantError != "" {
				if got := decode[ErrorResponse](t, w).Error; got != tt.wantError {
					t.Errorf("error = %q, want %q", got, tt.wantError)
				}
			}
		})
	}

	t.Run("identity attached", func(t *testing.T) {
		w := recordResponse(router, httptestRequest(http.MethodGet, "/api/me", "Bearer "+valid))
		if got := decode[auth.Identity](t, w); got != alice {
			t.Errorf("identity = %+v, want %+v", got, alice)
		}
	})
}

func TestRequireRole(t *testing.T) {
	tokens := auth.NewTokenService(testJWT)
	router := gin.New()
	router.Use(NewAuthMiddleware(tokens, testLogger()).Gate())
	router.GET("/api/report", RequireRole("Hanya dosen.", models.RoleDosen), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	tests := []struct {
		name       string
		role       models.UserRole
		wantStatus int
	}{
		{"dosen allowed", models.RoleDosen, http.StatusNoContent},
		{"mahasiswa rejected", models.RoleMahasiswa, http.StatusForbidden},
		{"tamu rejected", models.RoleTamu, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := tokens.Issue(auth.Identity{ID: 1, Role: tt.role})
			if err != nil {
				t.Fatalf("Issue() error = %v", err)
			}
			w := recordResponse(router, httptestRequest(http.MethodGet, "/api/report", "Bearer "+token))
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}
