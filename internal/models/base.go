package models

import (
	"time"

	"payday/internal/uuid"

	"gorm.io/gorm"
)

// Base holds the id, timestamps and soft-delete column shared by every
// household table.
type Base struct {
	ID        string         `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// BeforeCreate assigns a UUIDv7 unless the caller chose the id.
func (b *Base) BeforeCreate(*gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New()
	}
	return nil
}

// OwnedBy is a GORM scope restricting a query to rows of one household.
// Every household table carries a household_id column.
func OwnedBy(householdID string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("household_id = ?", householdID)
	}
}
