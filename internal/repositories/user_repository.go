package repositories

import (
	"context"

	"github.com/boboboiiiw/backend-edutrack/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// ExistsByNIM ignores the user with excludeID; pass 0 to check every user.
	ExistsByNIM(ctx context.Context, nim string, excludeID uint) (bool, error)

	// UpdateProfile writes name, prodi and nim.
	UpdateProfile(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, id uint, hash string) error
}
