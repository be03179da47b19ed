package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"storefront/internal/metrics"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/result"
	"storefront/pkg/pagination"

	"go.uber.org/zap"
)

const orderNumberAttempts = 5

// GenerateOrderNumber returns ORD-yyyyMMddHHmmss-NNNN with a random suffix
// in [1000, 9998]. Uniqueness is probabilistic.
func GenerateOrderNumber(now time.Time) string {
	return fmt.Sprintf("ORD-%s-%d", now.UTC().Format("20060102150405"), 1000+rand.Intn(8999))
}

// OrderService handles checkout and the order status state machine.
type OrderService struct {
	orders         repositories.OrderRepository
	carts          repositories.CartRepository
	uow            repositories.UnitOfWork
	publisher      EventPublisher
	log            *zap.Logger
	now            func() time.Time
	newOrderNumber func(time.Time) string
}

// OrderServiceOption configures an OrderService.
type OrderServiceOption func(*OrderService)

// WithOrderClock replaces time.Now for order dates.
func WithOrderClock(now func() time.Time) OrderServiceOption {
	return func(s *OrderService) { s.now = now }
}

// WithOrderNumberGenerator replaces GenerateOrderNumber.
func WithOrderNumberGenerator(gen func(time.Time) string) OrderServiceOption {
	return func(s *OrderService) { s.newOrderNumber = gen }
}

// NewOrderService creates a new OrderService. publisher may be nil.
func NewOrderService(orders repositories.OrderRepository, carts repositories.CartRepository, uow repositories.UnitOfWork, publisher EventPublisher, log *zap.Logger, opts ...OrderServiceOption) *OrderService {
	s := &OrderService{
		orders:         orders,
		carts:          carts,
		uow:            uow,
		publisher:      publisher,
		log:            log,
		now:            func() time.Time { return time.Now().UTC() },
		newOrderNumber: GenerateOrderNumber,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateFromCart turns the user's cart into a pending order. Line prices are
// copied from the cart, the cart is emptied, and both happen in one commit.
func (s *OrderService) CreateFromCart(ctx context.Context, userID uint) (result.Result[OrderView], error) {
	cart, err := s.carts.GetByUserIDWithItems(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return result.NotFound[OrderView](MsgEmptyCart), nil
	}
	if err != nil {
		return result.Result[OrderView]{}, fmt.Errorf("failed to load cart of user %d: %w", userID, err)
	}
	if len(cart.Items) == 0 {
		return result.NotFound[OrderView](MsgEmptyCart), nil
	}

	now := s.now()
	order := &models.Order{
		UserID:      userID,
		Status:      models.OrderStatusPending,
		TotalAmount: cart.TotalAmount(),
		OrderDate:   now,
		Items:       make([]models.OrderItem, 0, len(cart.Items)),
	}
	for i := range cart.Items {
		line := &cart.Items[i]
		// A deleted product drops out of the preload. Refuse rather than lose the line.
		if line.Product == nil {
			return result.Failure[OrderView](fmt.Sprintf("%s (ID: %d)", MsgProductUnavailable, line.ProductID)), nil
		}
		order.Items = append(order.Items, models.OrderItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}

	order.OrderNumber, err = s.uniqueOrderNumber(ctx, now)
	if err != nil {
		return result.Result[OrderView]{}, err
	}

	if err := s.orders.Add(ctx, order); err != nil {
		return result.Result[OrderView]{}, err
	}
	for i := range cart.Items {
		if err := s.carts.RemoveItem(ctx, &cart.Items[i]); err != nil {
			return result.Result[OrderView]{}, err
		}
	}
	if _, err := s.uow.Commit(ctx); err != nil {
		return result.Result[OrderView]{}, err
	}
	metrics.OrdersCreatedTotal.Inc()

	saved, err := s.orders.GetByIDWithItems(ctx, order.ID)
	if err != nil {
		return result.Result[OrderView]{}, fmt.Errorf("failed to reload order %d: %w", order.ID, err)
	}
	s.log.Info("order created",
		zap.Uint("user_id", userID),
		zap.Uint("order_id", saved.ID),
		zap.String("order_number", saved.OrderNumber),
		zap.String("total_amount", saved.TotalAmount.StringFixed(2)),
	)
	publishOrderEvent(ctx, s.publisher, s.log, newOrderEvent(EventOrderCreated, saved, now))

	return result.Created(toOrderView(saved)), nil
}

// uniqueOrderNumber retries generation while the number is taken. The
// unique index on orders still guards the commit against a racing writer.
func (s *OrderService) uniqueOrderNumber(ctx context.Context, now time.Time) (string, error) {
	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		number := s.newOrderNumber(now)
		taken, err := s.orders.ExistsByOrderNumber(ctx, number)
		if err != nil {
			return "", err
		}
		if !taken {
			return number, nil
		}
		s.log.Warn("order number collision", zap.String("order_number", number), zap.Int("attempt", attempt+1))
	}
	return "", fmt.Errorf("failed to generate a unique order number after %d attempts", orderNumberAttempts)
}

// GetByID returns an order of the user. Existence is checked before ownership.
func (s *OrderService) GetByID(ctx context.Context, orderID, userID uint) (result.Result[OrderView], error) {
	order, res, err := s.ownedOrder(ctx, orderID, userID)
	if order == nil {
		return res, err
	}
	return result.Success(toOrderView(order)), nil
}

// GetMyOrders returns a page of the user's orders, newest first.
func (s *OrderService) GetMyOrders(ctx context.Context, userID uint, params pagination.Params) (result.Result[pagination.PagedResult[OrderView]], error) {
	page, err := s.orders.GetByUserID(ctx, userID, params)
	if err != nil {
		return result.Result[pagination.PagedResult[OrderView]]{}, err
	}
	return result.Success(pagination.Map(page, func(o models.Order) OrderView {
		return toOrderView(&o)
	})), nil
}

// CancelOrder moves a pending order to Cancelled.
func (s *OrderService) CancelOrder(ctx context.Context, orderID, userID uint) (result.Result[OrderView], error) {
	res, err := s.transition(ctx, orderID, userID, models.OrderStatusCancelled, MsgOnlyPendingCancelled, EventOrderCancelled)
	if err == nil && res.IsSuccess() {
		metrics.OrdersCancelledTotal.Inc()
	}
	return res, err
}

// ConfirmPayment moves a pending order to Paid.
func (s *OrderService) ConfirmPayment(ctx context.Context, orderID, userID uint) (result.Result[OrderView], error) {
	res, err := s.transition(ctx, orderID, userID, models.OrderStatusPaid, MsgOnlyPendingConfirmed, EventOrderPaid)
	if err == nil && res.IsSuccess() {
		metrics.OrdersPaidTotal.Inc()
	}
	return res, err
}

func (s *OrderService) transition(ctx context.Context, orderID, userID uint, target models.OrderStatus, notAllowed, eventType string) (result.Result[OrderView], error) {
	order, res, err := s.ownedOrder(ctx, orderID, userID)
	if order == nil {
		return res, err
	}
	if !order.Status.CanTransitionTo(target) {
		return result.NotFound[OrderView](notAllowed), nil
	}

	order.Status = target
	if err := s.orders.Update(ctx, order); err != nil {
		return result.Result[OrderView]{}, err
	}
	if _, err := s.uow.Commit(ctx); err != nil {
		return result.Result[OrderView]{}, err
	}

	s.log.Info("order status changed",
		zap.Uint("order_id", order.ID),
		zap.String("order_number", order.OrderNumber),
		zap.String("status", string(target)),
	)
	publishOrderEvent(ctx, s.publisher, s.log, newOrderEvent(eventType, order, s.now()))
	return result.Success(toOrderView(order)), nil
}

// ownedOrder loads an order with its lines. When the order is missing or
// belongs to someone else it returns nil and the result to hand back.
func (s *OrderService) ownedOrder(ctx context.Context, orderID, userID uint) (*models.Order, result.Result[OrderView], error) {
	order, err := s.orders.GetByIDWithItems(ctx, orderID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, result.NotFound[OrderView](MsgOrderNotFound), nil
	}
	if err != nil {
		return nil, result.Result[OrderView]{}, err
	}
	if order.UserID != userID {
		return nil, result.Unauthorized[OrderView](MsgAccessDenied), nil
	}
	return order, result.Result[OrderView]{}, nil
}
