package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/boboboiiiw/backend-edutrack/internal/auth"
	"github.com/boboboiiiw/backend-edutrack/internal/metrics"
	"github.com/boboboiiiw/backend-edutrack/internal/models"
	"github.com/boboboiiiw/backend-edutrack/internal/utils"
)

const (
	identityKey  = "identity"
	bearerScheme = "Bearer "
)

// DefaultPublicPrefixes are served without a token.
var DefaultPublicPrefixes = []string{
	"/api/login",
	"/api/register",
	"/favicon.ico",
	"/_debug_toolbar",
	"/health",
	"/metrics",
}

// AuthMiddleware verifies bearer tokens for every non-public path.
type AuthMiddleware struct {
	tokens         *auth.TokenService
	publicPrefixes []string
	logger         utils.Logger
}

func NewAuthMiddleware(tokens *auth.TokenService, logger utils.Logger, publicPrefixes ...string) *AuthMiddleware {
	if len(publicPrefixes) == 0 {
		publicPrefixes = DefaultPublicPrefixes
	}
	return &AuthMiddleware{
		tokens:         tokens,
		publicPrefixes: publicPrefixes,
		logger:         logger,
	}
}

// Gate returns the gin middleware. Public paths pass untouched; any other
// request needs "Authorization: Bearer <token>" with a valid token, and gets
// the token identity attached to both the gin and the request context.
func (m *AuthMiddleware) Gate() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.isPublic(c.Request.URL.Path) {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, bearerScheme) {
			m.reject(c, "missing", "Unauthorized. Token missing or malformed.")
			return
		}

		claims, err := m.tokens.Verify(strings.TrimPrefix(header, bearerScheme))
		if err != nil {
			reason, message := rejection(err)
			utils.GetLogger(c, m.logger).Debug("Token rejected", "reason", reason, "error", err)
			m.reject(c, reason, message)
			return
		}

		identity := claims.Identity()
		c.Set(identityKey, identity)
		c.Request = c.Request.WithContext(auth.WithIdentity(c.Request.Context(), identity))
		c.Next()
	}
}

func (m *AuthMiddleware) isPublic(path string) bool {
	for _, prefix := range m.publicPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func (m *AuthMiddleware) reject(c *gin.Context, reason, message string) {
	metrics.AuthRejectionsTotal.WithLabelValues(reason).Inc()
	c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: message})
}

func rejection(err error) (reason, message string) {
	switch {
	case errors.Is(err, auth.ErrTokenExpired):
		return "expired", "Token expired"
	case errors.Is(err, auth.ErrTokenMalformed), errors.Is(err, auth.ErrInvalidSignature):
		return "invalid", "Invalid token"
	default:
		return "error", "Token tidak valid atau terjadi kesalahan."
	}
}

// RequireRole rejects callers whose role is not one of roles.
func RequireRole(message string, roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := GetIdentity(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Autentikasi diperlukan."})
			return
		}
		for _, role := range roles {
			if identity.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Error: message})
	}
}

// GetIdentity returns the identity attached by the gate.
func GetIdentity(c *gin.Context) (auth.Identity, bool) {
	v, exists := c.Get(identityKey)
	if !exists {
		return auth.Identity{}, false
	}
	identity, ok := v.(auth.Identity)
	return identity, ok
}

// callerIdentity returns the attached identity, or the zero identity which
// services reject as unauthenticated.
func callerIdentity(c *gin.Context) auth.Identity {
	identity, _ := GetIdentity(c)
	return identity
}
