package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RepaymentStatus is the state of a debt payoff plan.
type RepaymentStatus string

const (
	RepaymentStatusActive RepaymentStatus = "active"
	RepaymentStatusPaused RepaymentStatus = "paused"
	RepaymentStatusPaid   RepaymentStatus = "paid"
)

// Repayment is a debt being paid off. InterestRate is an annual percentage.
type Repayment struct {
	Base
	HouseholdID     string              `gorm:"type:uuid;not null;index" json:"household_id"`
	Name            string              `gorm:"not null" json:"name"`
	StartingBalance decimal.Decimal     `gorm:"type:numeric(12,2);not null" json:"starting_balance"`
	CurrentBalance  decimal.Decimal     `gorm:"type:numeric(12,2);not null" json:"current_balance"`
	TargetDate      *time.Time          `gorm:"type:date" json:"target_date,omitempty"`
	InterestRate    decimal.NullDecimal `gorm:"type:numeric(6,3)" json:"interest_rate"`
	Status          RepaymentStatus     `gorm:"not null" json:"status"`
}

// Valid reports whether s is one of the known repayment statuses.
func (s RepaymentStatus) Valid() bool {
	switch s {
	case RepaymentStatusActive, RepaymentStatusPaused, RepaymentStatusPaid:
		return true
	}
	return false
}
