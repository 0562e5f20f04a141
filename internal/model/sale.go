package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleRecord is written for every admin-side sale. Prices are snapshots taken
// at sale time.
type SaleRecord struct {
	BaseModel
	immutable    `gorm:"-" json:"-"`
	AssetID      uuid.UUID       `gorm:"type:uuid;index;not null" json:"asset_id"`
	Asset        *Asset          `gorm:"foreignKey:AssetID" json:"asset,omitempty"`
	Quantity     int             `gorm:"not null" json:"quantity"`
	UnitPrice    decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"unit_price"`
	CostPrice    decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"cost_price"`
	TotalPrice   decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"total_price"`
	DateAssigned time.Time       `gorm:"index;not null" json:"date_assigned"`
	SoldByID     *uuid.UUID      `gorm:"type:uuid" json:"sold_by_id,omitempty"`
}

func (s *SaleRecord) HistoryKind() HistoryKind { return KindSale }
func (s *SaleRecord) OccurredAt() time.Time    { return s.DateAssigned }
func (s *SaleRecord) Stamp(t time.Time)        { s.DateAssigned = t }

// Profit is revenue minus the snapshotted cost of the units sold.
func (s *SaleRecord) Profit() decimal.Decimal {
	return s.TotalPrice.Sub(s.CostPrice.Mul(decimal.NewFromInt(int64(s.Quantity))))
}
