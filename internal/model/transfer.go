package model

import (
	"time"

	"github.com/google/uuid"
)

// TransferRecord moves an assigned asset from one holder to another.
type TransferRecord struct {
	BaseModel
	immutable       `gorm:"-" json:"-"`
	AssetID         uuid.UUID  `gorm:"type:uuid;index;not null" json:"asset_id"`
	Asset           *Asset     `gorm:"foreignKey:AssetID" json:"asset,omitempty"`
	FromUserID      uuid.UUID  `gorm:"type:uuid;index;not null" json:"from_user_id"`
	FromUser        *User      `gorm:"foreignKey:FromUserID" json:"from_user,omitempty"`
	ToUserID        uuid.UUID  `gorm:"type:uuid;index;not null" json:"to_user_id"`
	ToUser          *User      `gorm:"foreignKey:ToUserID" json:"to_user,omitempty"`
	DateTransferred time.Time  `gorm:"index;not null" json:"date_transferred"`
	TransferredByID *uuid.UUID `gorm:"type:uuid" json:"transferred_by_id,omitempty"`
}

func (r *TransferRecord) HistoryKind() HistoryKind { return KindTransfer }
func (r *TransferRecord) OccurredAt() time.Time    { return r.DateTransferred }
func (r *TransferRecord) Stamp(t time.Time)        { r.DateTransferred = t }

type AssignmentAction string

const (
	ActionAssign AssignmentAction = "ASSIGN"
	ActionReturn AssignmentAction = "RETURN"
)

// AssignmentRecord logs a unit leaving the stock pool for a user or coming back.
type AssignmentRecord struct {
	BaseModel
	immutable    `gorm:"-" json:"-"`
	AssetID      uuid.UUID        `gorm:"type:uuid;index;not null" json:"asset_id"`
	UserID       uuid.UUID        `gorm:"type:uuid;index;not null" json:"user_id"`
	Action       AssignmentAction `gorm:"type:varchar(10);not null" json:"action"`
	DateRecorded time.Time        `gorm:"not null" json:"date_recorded"`
	RecordedByID *uuid.UUID       `gorm:"type:uuid" json:"recorded_by_id,omitempty"`
}

func (r *AssignmentRecord) HistoryKind() HistoryKind { return KindAssignment }
func (r *AssignmentRecord) OccurredAt() time.Time    { return r.DateRecorded }
func (r *AssignmentRecord) Stamp(t time.Time)        { r.DateRecorded = t }
