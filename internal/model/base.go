package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel carries the UUID key and audit columns shared by every ledger table.
type BaseModel struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	CreatedBy string `gorm:"type:varchar(64)" json:"created_by,omitempty"`
	UpdatedBy string `gorm:"type:varchar(64)" json:"updated_by,omitempty"`
	DeletedBy string `gorm:"type:varchar(64)" json:"deleted_by,omitempty"`
}

// BeforeCreate assigns a fresh UUID unless the caller already picked one.
func (base *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if base.ID == uuid.Nil {
		base.ID = uuid.New()
	}
	return nil
}

// Actor identifies who performs a ledger operation. It is passed explicitly
// into every mutating call.
type Actor struct {
	ID   uuid.UUID
	Name string
}

// SystemActor is used by the CLI and seeders.
var SystemActor = Actor{Name: "system"}

// AuditID is the value written into the CreatedBy/UpdatedBy columns.
func (a Actor) AuditID() string {
	if a.ID == uuid.Nil {
		return "system"
	}
	return a.ID.String()
}

// Ref returns a pointer to the actor id, or nil for the system actor.
func (a Actor) Ref() *uuid.UUID {
	if a.ID == uuid.Nil {
		return nil
	}
	id := a.ID
	return &id
}
