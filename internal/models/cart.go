package models

import "github.com/shopspring/decimal"

// Cart is the single shopping cart of a user. It is created on the first
// add-to-cart call and emptied, never removed, afterwards.
type Cart struct {
	Entity
	UserID uint       `json:"user_id" gorm:"uniqueIndex;not null"`
	Items  []CartItem `json:"items" gorm:"foreignKey:CartID"`
}

// Owned returns the cart lines.
func (c *Cart) Owned() []Auditable {
	owned := make([]Auditable, 0, len(c.Items))
	for i := range c.Items {
		owned = append(owned, &c.Items[i])
	}
	return owned
}

// TotalAmount is the sum of the line subtotals at their frozen prices.
func (c *Cart) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for i := range c.Items {
		total = total.Add(c.Items[i].Subtotal())
	}
	return total
}

// TotalSavings is the sum of the line savings against live prices.
func (c *Cart) TotalSavings() decimal.Decimal {
	total := decimal.Zero
	for i := range c.Items {
		total = total.Add(c.Items[i].TotalSavings())
	}
	return total
}

// TotalItems counts units, not lines.
func (c *Cart) TotalItems() int {
	n := 0
	for i := range c.Items {
		n += c.Items[i].Quantity
	}
	return n
}

// ItemByProduct returns the line holding productID, if any.
func (c *Cart) ItemByProduct(productID uint) *CartItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}

// Item returns the line with the given id, if any.
func (c *Cart) Item(id uint) *CartItem {
	for i := range c.Items {
		if c.Items[i].ID == id {
			return &c.Items[i]
		}
	}
	return nil
}

// CartItem is one product line of a cart. UnitPrice is the price frozen when
// the line was added; the product's live price never changes it.
type CartItem struct {
	Entity
	CartID    uint            `json:"cart_id" gorm:"not null;index"`
	ProductID uint            `json:"product_id" gorm:"not null;index"`
	Product   *Product        `json:"product,omitempty"`
	Quantity  int             `json:"quantity" gorm:"not null"`
	UnitPrice decimal.Decimal `json:"unit_price" gorm:"type:decimal(18,2);not null"`
}

// Subtotal is quantity * unit price.
func (i *CartItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// UnitSavings is the live price minus the frozen price: positive when the
// product got more expensive since it was added, zero when it is unavailable.
func (i *CartItem) UnitSavings() decimal.Decimal {
	if i.Product == nil {
		return decimal.Zero
	}
	return i.Product.Price.Sub(i.UnitPrice)
}

// TotalSavings is UnitSavings * quantity.
func (i *CartItem) TotalSavings() decimal.Decimal {
	return i.UnitSavings().Mul(decimal.NewFromInt(int64(i.Quantity)))
}
