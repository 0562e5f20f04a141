package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AssetStatus string

const (
	StatusAvailable  AssetStatus = "Available"
	StatusLowStock   AssetStatus = "Low Stock"
	StatusOutOfStock AssetStatus = "Out Of Stock"
	StatusAssigned   AssetStatus = "Assigned"
)

// LowStockThreshold is the first quantity that counts as Available.
const LowStockThreshold = 5

// StatusFor derives an asset status from its quantity and assignment state.
func StatusFor(quantity int, held bool) AssetStatus {
	switch {
	case held:
		return StatusAssigned
	case quantity <= 0:
		return StatusOutOfStock
	case quantity < LowStockThreshold:
		return StatusLowStock
	default:
		return StatusAvailable
	}
}

// Asset is one inventory item. Quantity and Status are only written through
// the ledger; Version is bumped on every ledger write.
type Asset struct {
	BaseModel
	Name          string          `gorm:"type:varchar(255);not null" json:"name"`
	Description   string          `gorm:"type:text" json:"description"`
	SerialNo      string          `gorm:"type:varchar(64);index" json:"serial_no,omitempty"`
	Serialized    bool            `gorm:"not null;default:false" json:"serialized"`
	CategoryID    uuid.UUID       `gorm:"type:uuid;index;not null" json:"category_id"`
	Category      *Category       `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Quantity      int             `gorm:"not null;default:0;check:chk_assets_quantity,quantity >= 0" json:"quantity"`
	PurchasePrice decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"purchase_price"`
	SalePrice     decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"sale_price"`
	Status        AssetStatus     `gorm:"type:varchar(20);index;not null" json:"status"`
	HolderID      *uuid.UUID      `gorm:"type:uuid;index" json:"holder_id,omitempty"`
	Holder        *User           `gorm:"foreignKey:HolderID" json:"holder,omitempty"`
	Version       int             `gorm:"not null;default:1" json:"version"`
}

// IsHeld reports whether a user currently holds the asset.
func (a *Asset) IsHeld() bool {
	return a.HolderID != nil && *a.HolderID != uuid.Nil
}

// InSalePool reports whether the asset may be sold or ordered.
func (a *Asset) InSalePool() bool {
	return a.Status == StatusAvailable || a.Status == StatusLowStock
}

// Refresh recomputes the stored status from quantity and holder.
func (a *Asset) Refresh() {
	a.Status = StatusFor(a.Quantity, a.IsHeld())
}
