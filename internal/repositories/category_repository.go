package repositories

import (
	"context"
	"fmt"
	"strings"

	"storefront/internal/models"

	"gorm.io/gorm"
)

// CategoryRepository defines the interface for category data access.
type CategoryRepository interface {
	Store[models.Category]
	ExistsByName(ctx context.Context, name string) (bool, error)
	HasProducts(ctx context.Context, categoryID uint) (bool, error)
}

// GORMCategoryRepository is a GORM implementation of CategoryRepository.
type GORMCategoryRepository struct {
	Repository[models.Category, *models.Category]
}

// NewGORMCategoryRepository creates a new instance of GORMCategoryRepository.
func NewGORMCategoryRepository(db *gorm.DB) *GORMCategoryRepository {
	return &GORMCategoryRepository{
		Repository: NewRepository[models.Category](db),
	}
}

// ExistsByName reports whether a live category already uses name, ignoring case.
func (r *GORMCategoryRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	return r.Exists(ctx, WithWhere("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))))
}

// HasProducts reports whether live products still reference the category.
func (r *GORMCategoryRepository) HasProducts(ctx context.Context, categoryID uint) (bool, error) {
	var count int64
	if err := r.DB(ctx).Model(&models.Product{}).Where("category_id = ?", categoryID).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to count products of category %d: %w", categoryID, err)
	}
	return count > 0, nil
}
