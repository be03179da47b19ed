package services

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/metrics"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/result"

	"go.uber.org/zap"
)

// CartService handles business logic for shopping carts.
type CartService struct {
	carts    repositories.CartRepository
	products repositories.ProductRepository
	uow      repositories.UnitOfWork
	log      *zap.Logger
}

// NewCartService creates a new CartService.
func NewCartService(carts repositories.CartRepository, products repositories.ProductRepository, uow repositories.UnitOfWork, log *zap.Logger) *CartService {
	return &CartService{
		carts:    carts,
		products: products,
		uow:      uow,
		log:      log,
	}
}

// loadCart returns nil without error when the user has no cart yet.
func (s *CartService) loadCart(ctx context.Context, userID uint) (*models.Cart, error) {
	cart, err := s.carts.GetByUserIDWithItems(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart of user %d: %w", userID, err)
	}
	return cart, nil
}

// GetCart returns the user's cart. A user without a cart gets an empty one;
// reading never creates it.
func (s *CartService) GetCart(ctx context.Context, userID uint) (result.Result[CartView], error) {
	cart, err := s.loadCart(ctx, userID)
	if err != nil {
		return result.Result[CartView]{}, err
	}
	if cart == nil {
		return result.Success(emptyCartView()), nil
	}
	return result.Success(toCartView(cart)), nil
}

// AddItem puts quantity units of a product in the user's cart, creating the
// cart on first use. Adding a product already in the cart increases its
// quantity. A new line freezes the product's current price.
func (s *CartService) AddItem(ctx context.Context, userID, productID uint, quantity int) (result.Result[CartView], error) {
	product, err := s.products.GetByID(ctx, productID)
	if errors.Is(err, repositories.ErrNotFound) {
		return result.NotFound[CartView](MsgProductNotFound), nil
	}
	if err != nil {
		return result.Result[CartView]{}, err
	}

	cart, err := s.loadCart(ctx, userID)
	if err != nil {
		return result.Result[CartView]{}, err
	}

	switch {
	case cart == nil:
		cart = &models.Cart{
			UserID: userID,
			Items:  []models.CartItem{newCartItem(product, quantity)},
		}
		if err := s.carts.Add(ctx, cart); err != nil {
			return result.Result[CartView]{}, err
		}
	case cart.ItemByProduct(productID) != nil:
		item := cart.ItemByProduct(productID)
		item.Quantity += quantity
		if err := s.carts.UpdateItem(ctx, item); err != nil {
			return result.Result[CartView]{}, err
		}
	default:
		item := newCartItem(product, quantity)
		item.CartID = cart.ID
		if err := s.carts.AddItem(ctx, &item); err != nil {
			return result.Result[CartView]{}, err
		}
	}

	if _, err := s.uow.Commit(ctx); err != nil {
		return result.Result[CartView]{}, err
	}
	metrics.CartItemsAddedTotal.Inc()
	s.log.Debug("item added to cart",
		zap.Uint("user_id", userID),
		zap.Uint("product_id", productID),
		zap.Int("quantity", quantity),
	)

	// Newly inserted lines carry no product, so read the cart back.
	refreshed, err := s.loadCart(ctx, userID)
	if err != nil {
		return result.Result[CartView]{}, err
	}
	if refreshed == nil {
		return result.Result[CartView]{}, fmt.Errorf("cart of user %d missing after commit", userID)
	}
	return result.Success(toCartView(refreshed)), nil
}

func newCartItem(product *models.Product, quantity int) models.CartItem {
	return models.CartItem{
		ProductID: product.ID,
		Quantity:  quantity,
		UnitPrice: product.Price,
	}
}

// UpdateItemQuantity overwrites the quantity of a line. The frozen price is kept.
func (s *CartService) UpdateItemQuantity(ctx context.Context, userID, cartItemID uint, quantity int) (result.Result[CartView], error) {
	cart, err := s.loadCart(ctx, userID)
	if err != nil {
		return result.Result[CartView]{}, err
	}
	if cart == nil {
		return result.NotFound[CartView](MsgCartNotFound), nil
	}
	item := cart.Item(cartItemID)
	if item == nil {
		return result.NotFound[CartView](MsgCartItemNotFound), nil
	}

	item.Quantity = quantity
	if err := s.carts.UpdateItem(ctx, item); err != nil {
		return result.Result[CartView]{}, err
	}
	if _, err := s.uow.Commit(ctx); err != nil {
		return result.Result[CartView]{}, err
	}
	return result.Success(toCartView(cart)), nil
}

// RemoveItem deletes a line from the user's cart.
func (s *CartService) RemoveItem(ctx context.Context, userID, cartItemID uint) (result.Result[string], error) {
	cart, err := s.loadCart(ctx, userID)
	if err != nil {
		return result.Result[string]{}, err
	}
	if cart == nil {
		return result.NotFound[string](MsgCartNotFound), nil
	}
	item := cart.Item(cartItemID)
	if item == nil {
		return result.NotFound[string](MsgCartItemNotFound), nil
	}

	if err := s.carts.RemoveItem(ctx, item); err != nil {
		return result.Result[string]{}, err
	}
	if _, err := s.uow.Commit(ctx); err != nil {
		return result.Result[string]{}, err
	}
	return result.Success(MsgItemRemoved), nil
}

// ClearCart deletes every line and keeps the cart itself.
func (s *CartService) ClearCart(ctx context.Context, userID uint) (result.Result[string], error) {
	cart, err := s.loadCart(ctx, userID)
	if err != nil {
		return result.Result[string]{}, err
	}
	if cart == nil {
		return result.NotFound[string](MsgCartNotFound), nil
	}

	for i := range cart.Items {
		if err := s.carts.RemoveItem(ctx, &cart.Items[i]); err != nil {
			return result.Result[string]{}, err
		}
	}
	if _, err := s.uow.Commit(ctx); err != nil {
		return result.Result[string]{}, err
	}
	return result.Success(MsgCartCleared), nil
}
