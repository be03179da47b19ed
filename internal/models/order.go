package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusPaid      OrderStatus = "Paid"
	OrderStatusShipped   OrderStatus = "Shipped"
	OrderStatusDelivered OrderStatus = "Delivered"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

// Nothing ever moves back into Pending. Shipped and Delivered belong to
// fulfillment, which is outside this service.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending: {OrderStatusPaid, OrderStatusCancelled},
	OrderStatusPaid:    {OrderStatusShipped},
	OrderStatusShipped: {OrderStatusDelivered},
}

// CanTransitionTo reports whether s may move to next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Order is the immutable receipt produced by checkout. Only Status and the
// audit timestamps change after creation.
type Order struct {
	Entity
	UserID      uint            `json:"user_id" gorm:"not null;index"`
	OrderNumber string          `json:"order_number" gorm:"uniqueIndex;type:varchar(32);not null"`
	Status      OrderStatus     `json:"status" gorm:"type:varchar(20);not null;index"`
	TotalAmount decimal.Decimal `json:"total_amount" gorm:"type:decimal(18,2);not null"`
	OrderDate   time.Time       `json:"order_date" gorm:"not null;index"`
	Items       []OrderItem     `json:"items" gorm:"foreignKey:OrderID"`
}

// Owned returns the order lines.
func (o *Order) Owned() []Auditable {
	owned := make([]Auditable, 0, len(o.Items))
	for i := range o.Items {
		owned = append(owned, &o.Items[i])
	}
	return owned
}

// TotalItems counts units across all lines.
func (o *Order) TotalItems() int {
	n := 0
	for i := range o.Items {
		n += o.Items[i].Quantity
	}
	return n
}

// OrderItem is a line of an order with the price copied from the cart at checkout.
type OrderItem struct {
	Entity
	OrderID   uint            `json:"order_id" gorm:"not null;index"`
	ProductID uint            `json:"product_id" gorm:"not null;index"`
	Product   *Product        `json:"product,omitempty"`
	Quantity  int             `json:"quantity" gorm:"not null"`
	UnitPrice decimal.Decimal `json:"unit_price" gorm:"type:decimal(18,2);not null"`
}

// Subtotal is quantity * unit price.
func (i *OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// All lists every persisted model in migration order.
func All() []interface{} {
	return []interface{}{
		&User{}, &Category{}, &Product{}, &ProductReview{},
		&Cart{}, &CartItem{}, &Order{}, &OrderItem{},
	}
}
