package models

// Role is the authorization level of a user.
type Role string

const (
	RoleCommon Role = "Common"
	RoleAdmin  Role = "Admin"
)

// User represents a user of the store.
type User struct {
	Entity
	Username     string `json:"username" gorm:"uniqueIndex;type:varchar(100);not null"`
	PasswordHash string `json:"-" gorm:"type:varchar(255);not null"` // No json tag for security
	Role         Role   `json:"role" gorm:"type:varchar(20);not null"`
	FirstName    string `json:"first_name" gorm:"type:varchar(100)"`
	LastName     string `json:"last_name" gorm:"type:varchar(100)"`
	// Set by the review feature after the user's first review of a purchase.
	HasCompletedFirstPurchaseReview bool `json:"has_completed_first_purchase_review" gorm:"not null"`
}
