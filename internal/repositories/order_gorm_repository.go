package repositories

import (
	"context"
	"fmt"

	"storefront/internal/models"
	"storefront/pkg/pagination"

	"gorm.io/gorm"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	Store[models.Order]
	GetByIDWithItems(ctx context.Context, id uint) (*models.Order, error)
	GetByUserID(ctx context.Context, userID uint, params pagination.Params) (pagination.PagedResult[models.Order], error)
	GetByOrderNumber(ctx context.Context, orderNumber string) (*models.Order, error)
	ExistsByOrderNumber(ctx context.Context, orderNumber string) (bool, error)
	UserHasPurchasedProduct(ctx context.Context, userID, productID uint) (bool, error)
}

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	Repository[models.Order, *models.Order]
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		Repository: NewRepository[models.Order](db),
	}
}

// WithOrderItems eager-loads order lines and their products.
func WithOrderItems() QueryOption {
	return WithInclude(func(db *gorm.DB) *gorm.DB {
		return db.
			Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order(byPrimaryKey) }).
			Preload("Items.Product")
	})
}

// GetByIDWithItems retrieves an order with its lines, or ErrNotFound.
func (r *GORMOrderRepository) GetByIDWithItems(ctx context.Context, id uint) (*models.Order, error) {
	return r.GetByID(ctx, id, WithOrderItems())
}

// GetByUserID returns a page of the user's orders, newest first.
func (r *GORMOrderRepository) GetByUserID(ctx context.Context, userID uint, params pagination.Params) (pagination.PagedResult[models.Order], error) {
	return r.GetPage(ctx, params,
		WithWhere("user_id = ?", userID),
		WithOrderItems(),
		WithOrder("order_date DESC, id DESC"),
	)
}

// GetByOrderNumber retrieves an order by its human readable number.
func (r *GORMOrderRepository) GetByOrderNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	return r.FindOne(ctx, WithWhere("order_number = ?", orderNumber), WithOrderItems())
}

// ExistsByOrderNumber also sees deleted orders, since the unique index does.
func (r *GORMOrderRepository) ExistsByOrderNumber(ctx context.Context, orderNumber string) (bool, error) {
	var count int64
	err := r.DB(ctx).Unscoped().Model(&models.Order{}).Where("order_number = ?", orderNumber).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check order number %s: %w", orderNumber, err)
	}
	return count > 0, nil
}

// UserHasPurchasedProduct reports whether the user has a paid or delivered
// order containing the product.
func (r *GORMOrderRepository) UserHasPurchasedProduct(ctx context.Context, userID, productID uint) (bool, error) {
	var count int64
	err := r.DB(ctx).Model(&models.Order{}).
		Where("user_id = ? AND status IN ?", userID, []string{
			string(models.OrderStatusPaid),
			string(models.OrderStatusDelivered),
		}).
		Where("EXISTS (SELECT 1 FROM order_items oi WHERE oi.order_id = orders.id AND oi.product_id = ? AND oi.is_deleted = ?)", productID, false).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check purchases of user %d: %w", userID, err)
	}
	return count > 0, nil
}
