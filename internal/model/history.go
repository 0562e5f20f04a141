package model

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

type HistoryKind string

const (
	KindSale       HistoryKind = "SALE"
	KindOrder      HistoryKind = "ORDER"
	KindTransfer   HistoryKind = "TRANSFER"
	KindAssignment HistoryKind = "ASSIGNMENT"
)

// ErrImmutableRecord is returned when something tries to rewrite history.
var ErrImmutableRecord = errors.New("history records are append-only")

// HistoryRecord is implemented by every audit entry the recorder appends.
type HistoryRecord interface {
	HistoryKind() HistoryKind
	// OccurredAt returns the event time; zero until stamped.
	OccurredAt() time.Time
	Stamp(t time.Time)
}

// immutable is embedded by records that may never be updated or deleted.
type immutable struct{}

func (immutable) BeforeUpdate(tx *gorm.DB) error { return ErrImmutableRecord }
func (immutable) BeforeDelete(tx *gorm.DB) error { return ErrImmutableRecord }
