package database

import (
	"go-inventory-ledger/internal/model"

	"gorm.io/gorm"
)

// Migrate creates or updates every ledger table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(model.All()...)
}
