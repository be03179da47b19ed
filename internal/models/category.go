package models

// Category groups products in the catalog.
type Category struct {
	Entity
	Name        string `json:"name" gorm:"type:varchar(100);not null"`
	Description string `json:"description" gorm:"type:varchar(500)"`
}
