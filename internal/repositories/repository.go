package repositories

import "context"

// Repository aggregates the forum repositories behind one transactional handle.
type Repository interface {
	User() UserRepository
	Post() PostRepository
	Interaction() InteractionRepository
	Recommendation() RecommendationRepository
	Comment() CommentRepository

	// WithTransaction runs fn against a repository bound to one database
	// transaction; fn's error rolls it back.
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	Ping(ctx context.Context) error
	Close() error
}

// RepositoryManager interface for managing repository lifecycle
type RepositoryManager interface {
	Initialize() error
	GetRepository() Repository
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
