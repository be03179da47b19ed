package database

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	softDeleteFilterName = "storefront:soft_delete_filter"
	isDeletedField       = "IsDeleted"
)

// RegisterSoftDeleteFilter makes every query against a model with an
// IsDeleted field skip deleted rows. Finds, counts and preloads all go
// through it. Unscoped statements see every row.
func RegisterSoftDeleteFilter(db *gorm.DB) error {
	err := db.Callback().Query().Before("gorm:query").Register(softDeleteFilterName, excludeDeleted)
	if err != nil {
		return fmt.Errorf("failed to register soft delete filter: %w", err)
	}
	return nil
}

func excludeDeleted(db *gorm.DB) {
	stmt := db.Statement
	if db.Error != nil || stmt.Schema == nil || stmt.Unscoped {
		return
	}
	field := stmt.Schema.LookUpField(isDeletedField)
	if field == nil || field.DBName == "" {
		return
	}
	stmt.AddClause(clause.Where{Exprs: []clause.Expression{
		clause.Eq{Column: clause.Column{Table: clause.CurrentTable, Name: field.DBName}, Value: false},
	}})
}
