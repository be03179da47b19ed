package models

import "time"

// Entity is the record shape shared by every persisted aggregate.
// Audit fields are owned by the persistence session; callers never set them.
type Entity struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time  `json:"created_at" gorm:"autoCreateTime:false;not null"`
	UpdatedAt *time.Time `json:"updated_at,omitempty" gorm:"autoUpdateTime:false"`
	IsDeleted bool       `json:"-" gorm:"not null;index"`
}

// Base returns the embedded entity. Every aggregate gets it by embedding Entity.
func (e *Entity) Base() *Entity { return e }

// Auditable is implemented by any pointer to a struct embedding Entity.
type Auditable interface {
	Base() *Entity
}

// Owner is implemented by aggregates whose children have no lifecycle of
// their own (cart lines, order lines). Audit rules cascade into them on insert.
type Owner interface {
	Owned() []Auditable
}
