package models

import "github.com/shopspring/decimal"

// Product represents a product in the store.
type Product struct {
	Entity
	Name        string          `json:"name" gorm:"type:varchar(100);not null;index"`
	Description string          `json:"description" gorm:"type:varchar(500)"`
	ImageURL    string          `json:"image_url" gorm:"type:varchar(500)"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(18,2);not null"`
	CategoryID  uint            `json:"category_id" gorm:"not null;index"`
	// A category cannot be removed while products still point at it.
	Category *Category      `json:"category,omitempty" gorm:"constraint:OnDelete:RESTRICT"`
	Reviews  []ProductReview `json:"-"`
}
