package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/boboboiiiw/backend-edutrack/internal/auth"
	"github.com/boboboiiiw/backend-edutrack/internal/metrics"
	"github.com/boboboiiiw/backend-edutrack/internal/models"
	"github.com/boboboiiiw/backend-edutrack/internal/services"
	"github.com/boboboiiiw/backend-edutrack/internal/utils"
)

type HandlerManager struct {
	authHandler    *AuthHandler
	postHandler    *PostHandler
	commentHandler *CommentHandler
	authMiddleware *AuthMiddleware
	serviceManager services.ServiceManager
	logger         utils.Logger
}

func NewHandlerManager(serviceManager services.ServiceManager, tokens *auth.TokenService, logger utils.Logger) *HandlerManager {
	return &HandlerManager{
		authHandler:    NewAuthHandler(serviceManager.Auth(), logger),
		postHandler:    NewPostHandler(serviceManager.Post(), serviceManager.Interaction(), serviceManager.Export(), logger),
		commentHandler: NewCommentHandler(serviceManager.Comment(), logger),
		authMiddleware: NewAuthMiddleware(tokens, logger),
		serviceManager: serviceManager,
		logger:         logger,
	}
}

// AuthMiddleware returns the gate protecting every non-public route.
func (hm *HandlerManager) AuthMiddleware() *AuthMiddleware {
	return hm.authMiddleware
}

// SetupRoutes sets up all API routes. Authentication is enforced by the gate
// installed in SetupMiddleware, not per group.
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		// Auth routes
		api.POST("/register", hm.authHandler.Register)
		api.POST("/login", hm.authHandler.Login)
		api.GET("/me", hm.authHandler.GetProfile)
		api.PATCH("/me", hm.authHandler.UpdateProfile)
		api.POST("/change-password", hm.authHandler.ChangePassword)

		// Post routes
		posts := api.Group("/posts")
		{
			posts.POST("", hm.postHandler.CreatePost)
			posts.GET("/all", hm.postHandler.ListPosts)
			posts.GET("/export", RequireRole("Hanya dosen yang dapat mengekspor laporan.", models.RoleDosen), hm.postHandler.ExportPosts)
			posts.GET("/:id", hm.postHandler.GetPost)
			posts.POST("/:id/like", hm.postHandler.LikePost)
			posts.POST("/:id/dislike", hm.postHandler.DislikePost)
			posts.POST("/:id/recommend", hm.postHandler.RecommendPost)
			posts.POST("/:id/unrecommend", hm.postHandler.UnrecommendPost)
		}

		// Comment routes
		comments := api.Group("/comments")
		{
			comments.POST("", hm.commentHandler.CreateComment)
			comments.GET("/post/:post_id", hm.commentHandler.ListComments)
		}
	}

	router.GET("/metrics", metrics.Handler())

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		if err := hm.serviceManager.HealthCheck(ctx); err != nil {
			utils.GetLogger(c, hm.logger).Warn("Health check failed", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unhealthy",
				"service": "edutrack-forum",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "edutrack-forum",
		})
	})
}
