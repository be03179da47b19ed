package services

import (
	"context"
	"time"

	"storefront/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Routing keys of the order events.
const (
	EventOrderCreated   = "order.created"
	EventOrderPaid      = "order.paid"
	EventOrderCancelled = "order.cancelled"
)

// EventPublisher delivers domain events to a broker.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload interface{}) error
}

// OrderEvent is published after an order change has been committed.
type OrderEvent struct {
	EventID     string             `json:"event_id"`
	EventType   string             `json:"event_type"`
	Timestamp   time.Time          `json:"timestamp"`
	OrderID     uint               `json:"order_id"`
	OrderNumber string             `json:"order_number"`
	UserID      uint               `json:"user_id"`
	Status      models.OrderStatus `json:"status"`
	TotalAmount decimal.Decimal    `json:"total_amount"`
}

func newOrderEvent(eventType string, order *models.Order, now time.Time) OrderEvent {
	return OrderEvent{
		EventID:     uuid.New().String(),
		EventType:   eventType,
		Timestamp:   now,
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
	}
}

// publishOrderEvent never fails the caller: the change is already committed.
func publishOrderEvent(ctx context.Context, publisher EventPublisher, log *zap.Logger, event OrderEvent) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, event.EventType, event); err != nil {
		log.Warn("failed to publish order event",
			zap.String("event_type", event.EventType),
			zap.String("order_number", event.OrderNumber),
			zap.Error(err),
		)
	}
}
