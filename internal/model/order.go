package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "Pending"
	OrderConfirmed OrderStatus = "Confirmed"
	OrderRejected  OrderStatus = "Rejected"
)

// Terminal reports whether no further transition is allowed.
func (s OrderStatus) Terminal() bool {
	return s == OrderConfirmed || s == OrderRejected
}

type OrderDecision string

const (
	DecisionConfirm OrderDecision = "CONFIRM"
	DecisionReject  OrderDecision = "REJECT"
)

// Target is the status a decision moves a pending order into.
func (d OrderDecision) Target() (OrderStatus, bool) {
	switch d {
	case DecisionConfirm:
		return OrderConfirmed, true
	case DecisionReject:
		return OrderRejected, true
	}
	return "", false
}

// Order is an end-user purchase request. Stock is reserved when the order is
// created; only Status, DecidedAt and DecidedByID change afterwards.
type Order struct {
	BaseModel
	AssetID     uuid.UUID       `gorm:"type:uuid;index;not null" json:"asset_id"`
	Asset       *Asset          `gorm:"foreignKey:AssetID" json:"asset,omitempty"`
	UserID      uuid.UUID       `gorm:"type:uuid;index;not null" json:"user_id"`
	User        *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"unit_price"`
	TotalPrice  decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"total_price"`
	DateOrdered time.Time       `gorm:"index;not null" json:"date_ordered"`
	Status      OrderStatus     `gorm:"type:varchar(20);index;not null" json:"status"`
	DecidedAt   *time.Time      `json:"decided_at,omitempty"`
	DecidedByID *uuid.UUID      `gorm:"type:uuid" json:"decided_by_id,omitempty"`
}

func (o *Order) HistoryKind() HistoryKind { return KindOrder }
func (o *Order) OccurredAt() time.Time    { return o.DateOrdered }
func (o *Order) Stamp(t time.Time)        { o.DateOrdered = t }
