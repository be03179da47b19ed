package repositories

import (
	"context"
	"strings"

	"storefront/internal/models"

	"gorm.io/gorm"
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	Store[models.Product]
	ExistsByName(ctx context.Context, name string) (bool, error)
}

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	Repository[models.Product, *models.Product]
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		Repository: NewRepository[models.Product](db),
	}
}

// ExistsByName reports whether a live product already uses name, ignoring case.
func (r *GORMProductRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	return r.Exists(ctx, WithWhere("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))))
}

// WithCategory eager-loads the category of each product.
func WithCategory() QueryOption {
	return WithPreload("Category")
}
