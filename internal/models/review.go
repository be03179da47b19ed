package models

// ProductReview is a rating left by a user who bought the product.
type ProductReview struct {
	Entity
	ProductID  uint     `json:"product_id" gorm:"not null;index"`
	Product    *Product `json:"-"`
	UserID     uint     `json:"user_id" gorm:"not null;index"`
	User       *User    `json:"-"`
	Rating     int      `json:"rating" gorm:"not null"`
	Comment    string   `json:"comment" gorm:"type:varchar(1000)"`
	IsApproved bool     `json:"is_approved" gorm:"not null"`
}
