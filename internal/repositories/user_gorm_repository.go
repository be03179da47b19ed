package repositories

import (
	"context"

	"storefront/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Store[models.User]
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	Repository[models.User, *models.User]
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		Repository: NewRepository[models.User](db),
	}
}

// GetByUsername retrieves a single user by username, or ErrNotFound.
func (r *GORMUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.FindOne(ctx, WithWhere("username = ?", username))
}

// ExistsByUsername reports whether the username is taken.
func (r *GORMUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.Exists(ctx, WithWhere("username = ?", username))
}
