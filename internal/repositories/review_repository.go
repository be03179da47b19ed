package repositories

import (
	"context"

	"storefront/internal/models"

	"gorm.io/gorm"
)

// ReviewRepository defines the interface for product review data access.
type ReviewRepository interface {
	Store[models.ProductReview]
	GetByProductID(ctx context.Context, productID uint, onlyApproved bool) ([]models.ProductReview, error)
	GetByIDWithUser(ctx context.Context, id uint) (*models.ProductReview, error)
	UserHasReviewedProduct(ctx context.Context, productID, userID uint) (bool, error)
}

// GORMReviewRepository is a GORM implementation of ReviewRepository.
type GORMReviewRepository struct {
	Repository[models.ProductReview, *models.ProductReview]
}

// NewGORMReviewRepository creates a new instance of GORMReviewRepository.
func NewGORMReviewRepository(db *gorm.DB) *GORMReviewRepository {
	return &GORMReviewRepository{
		Repository: NewRepository[models.ProductReview](db),
	}
}

// GetByProductID lists the reviews of a product, newest first.
func (r *GORMReviewRepository) GetByProductID(ctx context.Context, productID uint, onlyApproved bool) ([]models.ProductReview, error) {
	opts := []QueryOption{
		WithWhere("product_id = ?", productID),
		WithPreload("User"),
		WithOrder("created_at DESC"),
	}
	if onlyApproved {
		opts = append(opts, WithWhere("is_approved = ?", true))
	}
	return r.FindAll(ctx, opts...)
}

// GetByIDWithUser retrieves a review with its author, or ErrNotFound.
func (r *GORMReviewRepository) GetByIDWithUser(ctx context.Context, id uint) (*models.ProductReview, error) {
	return r.GetByID(ctx, id, WithPreload("User"))
}

// UserHasReviewedProduct reports whether the user already reviewed the product.
func (r *GORMReviewRepository) UserHasReviewedProduct(ctx context.Context, productID, userID uint) (bool, error) {
	return r.Exists(ctx, WithWhere("product_id = ? AND user_id = ?", productID, userID))
}
