package services

import (
	"time"

	"storefront/internal/models"

	"github.com/shopspring/decimal"
)

// CartItemView is a cart line as shown to its owner.
type CartItemView struct {
	ID           uint            `json:"id"`
	ProductID    uint            `json:"product_id"`
	ProductName  string          `json:"product_name"`
	ImageURL     string          `json:"image_url"`
	Quantity     int             `json:"quantity"`
	YourPrice    decimal.Decimal `json:"your_price"`
	CurrentPrice decimal.Decimal `json:"current_price"`
	Savings      decimal.Decimal `json:"savings"`
	Subtotal     decimal.Decimal `json:"subtotal"`
}

// CartView is the cart of a user with its derived totals.
type CartView struct {
	ID           uint            `json:"id"`
	Items        []CartItemView  `json:"items"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	TotalSavings decimal.Decimal `json:"total_savings"`
	TotalItems   int             `json:"total_items"`
}

func emptyCartView() CartView {
	return CartView{
		Items:        []CartItemView{},
		TotalAmount:  decimal.Zero,
		TotalSavings: decimal.Zero,
	}
}

func toCartView(cart *models.Cart) CartView {
	view := emptyCartView()
	view.ID = cart.ID
	for i := range cart.Items {
		item := &cart.Items[i]
		line := CartItemView{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			YourPrice: item.UnitPrice,
			Savings:   item.TotalSavings(),
			Subtotal:  item.Subtotal(),
		}
		if item.Product != nil {
			line.ProductName = item.Product.Name
			line.ImageURL = item.Product.ImageURL
			line.CurrentPrice = item.Product.Price
		}
		view.Items = append(view.Items, line)
	}
	view.TotalAmount = cart.TotalAmount()
	view.TotalSavings = cart.TotalSavings()
	view.TotalItems = cart.TotalItems()
	return view
}

// OrderItemView is an order line with its frozen price.
type OrderItemView struct {
	ID          uint            `json:"id"`
	ProductID   uint            `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// OrderView is an order as shown to its owner.
type OrderView struct {
	ID          uint               `json:"id"`
	OrderNumber string             `json:"order_number"`
	Status      models.OrderStatus `json:"status"`
	TotalAmount decimal.Decimal    `json:"total_amount"`
	OrderDate   time.Time          `json:"order_date"`
	Items       []OrderItemView    `json:"items"`
	TotalItems  int                `json:"total_items"`
}

func toOrderView(order *models.Order) OrderView {
	view := OrderView{
		ID:          order.ID,
		OrderNumber: order.OrderNumber,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
		OrderDate:   order.OrderDate,
		Items:       make([]OrderItemView, 0, len(order.Items)),
		TotalItems:  order.TotalItems(),
	}
	for i := range order.Items {
		item := &order.Items[i]
		line := OrderItemView{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Subtotal(),
		}
		if item.Product != nil {
			line.ProductName = item.Product.Name
		}
		view.Items = append(view.Items, line)
	}
	return view
}

// ProductView is a catalog entry.
type ProductView struct {
	ID           uint            `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	ImageURL     string          `json:"image_url"`
	Price        decimal.Decimal `json:"price"`
	CategoryID   uint            `json:"category_id"`
	CategoryName string          `json:"category_name,omitempty"`
}

func toProductView(p *models.Product) ProductView {
	view := ProductView{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		ImageURL:    p.ImageURL,
		Price:       p.Price,
		CategoryID:  p.CategoryID,
	}
	if p.Category != nil {
		view.CategoryName = p.Category.Name
	}
	return view
}

// CategoryView is a catalog category.
type CategoryView struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func toCategoryView(c *models.Category) CategoryView {
	return CategoryView{ID: c.ID, Name: c.Name, Description: c.Description}
}

// ReviewView is a published product review.
type ReviewView struct {
	ID        uint      `json:"id"`
	ProductID uint      `json:"product_id"`
	UserID    uint      `json:"user_id"`
	Username  string    `json:"username"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

func toReviewView(r *models.ProductReview) ReviewView {
	view := ReviewView{
		ID:        r.ID,
		ProductID: r.ProductID,
		UserID:    r.UserID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
	}
	if r.User != nil {
		view.Username = r.User.Username
	}
	return view
}

// UserView is a user without credentials.
type UserView struct {
	ID        uint        `json:"id"`
	Username  string      `json:"username"`
	Role      models.Role `json:"role"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
}

func toUserView(u *models.User) UserView {
	return UserView{
		ID:        u.ID,
		Username:  u.Username,
		Role:      u.Role,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}
