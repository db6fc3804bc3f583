package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/boboboiiiw/backend-edutrack/internal/auth"
	"github.com/boboboiiiw/backend-edutrack/internal/cache"
	"github.com/boboboiiiw/backend-edutrack/internal/events"
	"github.com/boboboiiiw/backend-edutrack/internal/repositories"
	"github.com/boboboiiiw/backend-edutrack/internal/validator"
)

// ServiceManagerConfig holds configuration for the service manager
type ServiceManagerConfig struct {
	DefaultTimeout time.Duration
	ExportEnabled  bool
}

// Dependencies are the collaborators shared by every service.
type Dependencies struct {
	Repo      repositories.Repository
	Cache     *cache.CacheManager
	Publisher events.EventPublisher
	Tokens    *auth.TokenService
	Roles     auth.RoleResolver
	Hasher    auth.PasswordHasher
	Logger    *slog.Logger
	Validator *validator.Validator
}

// serviceManager implements ServiceManager interface
type serviceManager struct {
	deps   Dependencies
	config ServiceManagerConfig

	// Service instances
	authService        AuthService
	postService        PostService
	interactionService InteractionService
	commentService     CommentService
	exportService      ExportService

	// Lifecycle management
	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager creates a new service manager with all dependencies
func NewServiceManager(deps Dependencies, config ServiceManagerConfig) ServiceManager {
	if deps.Cache == nil {
		deps.Cache = cache.NewCacheManager(nil)
	}
	if deps.Validator == nil {
		deps.Validator = validator.New()
	}
	return &serviceManager{
		deps:   deps,
		config: config,
	}
}

// NewDefaultServiceManager creates a service manager with default configuration
func NewDefaultServiceManager(deps Dependencies) ServiceManager {
	return NewServiceManager(deps, ServiceManagerConfig{
		DefaultTimeout: 30 * time.Second,
		ExportEnabled:  true,
	})
}

// Initialize sets up all services and their dependencies
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	sm.deps.Logger.Info("Initializing service manager")

	if err := sm.validateDependencies(); err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	d := sm.deps
	sm.authService = NewAuthService(d.Repo, d.Tokens, d.Roles, d.Hasher, d.Logger, d.Validator)
	sm.postService = NewPostService(d.Repo, d.Cache, d.Publisher, d.Logger, d.Validator)
	sm.interactionService = NewInteractionService(d.Repo, d.Cache, d.Publisher, d.Logger)
	sm.commentService = NewCommentService(d.Repo, d.Logger, d.Validator)
	if sm.config.ExportEnabled {
		sm.exportService = NewExportService(d.Repo, d.Logger)
	}

	sm.initialized = true
	sm.deps.Logger.Info("Service manager initialized successfully", "export_enabled", sm.config.ExportEnabled)

	return nil
}

func (sm *serviceManager) validateDependencies() error {
	switch {
	case sm.deps.Repo == nil:
		return fmt.Errorf("repository is required")
	case sm.deps.Tokens == nil:
		return fmt.Errorf("token service is required")
	case sm.deps.Hasher == nil:
		return fmt.Errorf("password hasher is required")
	case sm.deps.Logger == nil:
		return fmt.Errorf("logger is required")
	}
	return nil
}

// Service getters
func (sm *serviceManager) Auth() AuthService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.authService
}

func (sm *serviceManager) Post() PostService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.postService
}

func (sm *serviceManager) Interaction() InteractionService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.interactionService
}

func (sm *serviceManager) Comment() CommentService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.commentService
}

func (sm *serviceManager) Export() ExportService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}

	if sm.exportService != nil {
		return sm.exportService
	}

	panic("export service not enabled")
}

// Health and lifecycle
func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}

	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	ctx, cancel := sm.withTimeout(ctx)
	defer cancel()

	if err := sm.deps.Repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}

	return nil
}

// Shutdown closes the event publisher. The repository is owned by its manager.
func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.deps.Logger.Info("Shutting down service manager")

	if sm.deps.Publisher != nil {
		if err := sm.deps.Publisher.Close(); err != nil {
			sm.deps.Logger.Error("Failed to close event publisher", "error", err)
		}
	}

	sm.shutdown = true
	sm.deps.Logger.Info("Service manager shut down completed")

	return nil
}

func (sm *serviceManager) withTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	if sm.config.DefaultTimeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, sm.config.DefaultTimeout)
}
