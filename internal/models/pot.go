package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PotStatus is the state of a savings pot.
type PotStatus string

const (
	PotStatusActive   PotStatus = "active"
	PotStatusPaused   PotStatus = "paused"
	PotStatusComplete PotStatus = "complete"
)

// Pot is a savings goal. Seeds may reference it through LinkedPotID.
type Pot struct {
	Base
	HouseholdID   string          `gorm:"type:uuid;not null;index" json:"household_id"`
	Name          string          `gorm:"not null" json:"name"`
	CurrentAmount decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"current_amount"`
	TargetAmount  decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"target_amount"`
	TargetDate    *time.Time      `gorm:"type:date" json:"target_date,omitempty"`
	Status        PotStatus       `gorm:"not null" json:"status"`
}

// Valid reports whether s is one of the known pot statuses.
func (s PotStatus) Valid() bool {
	switch s {
	case PotStatusActive, PotStatusPaused, PotStatusComplete:
		return true
	}
	return false
}
