package repositories

import (
	"context"

	"storefront/internal/models"

	"gorm.io/gorm"
)

// CartRepository defines the interface for cart data access. Cart lines are
// written through the cart repository since they have no lifecycle of their own.
type CartRepository interface {
	Store[models.Cart]
	GetByUserIDWithItems(ctx context.Context, userID uint) (*models.Cart, error)
	AddItem(ctx context.Context, item *models.CartItem) error
	UpdateItem(ctx context.Context, item *models.CartItem) error
	RemoveItem(ctx context.Context, item *models.CartItem) error
}

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	Repository[models.Cart, *models.Cart]
	items Repository[models.CartItem, *models.CartItem]
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{
		Repository: NewRepository[models.Cart](db),
		items:      NewRepository[models.CartItem](db),
	}
}

// GetByUserIDWithItems loads the cart of a user with its live lines and their
// products, or ErrNotFound when the user has no cart yet.
func (r *GORMCartRepository) GetByUserIDWithItems(ctx context.Context, userID uint) (*models.Cart, error) {
	return r.FindOne(ctx,
		WithWhere("user_id = ?", userID),
		WithInclude(func(db *gorm.DB) *gorm.DB {
			return db.
				Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order(byPrimaryKey) }).
				Preload("Items.Product")
		}),
	)
}

// AddItem stages a new line on an existing cart.
func (r *GORMCartRepository) AddItem(ctx context.Context, item *models.CartItem) error {
	return r.items.Add(ctx, item)
}

// UpdateItem marks a line as dirty.
func (r *GORMCartRepository) UpdateItem(ctx context.Context, item *models.CartItem) error {
	return r.items.Update(ctx, item)
}

// RemoveItem stages the soft delete of a line.
func (r *GORMCartRepository) RemoveItem(ctx context.Context, item *models.CartItem) error {
	return r.items.Delete(ctx, item)
}
