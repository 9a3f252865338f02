package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SeedType is the budget category a seed belongs to.
type SeedType string

const (
	SeedTypeNeed    SeedType = "need"
	SeedTypeWant    SeedType = "want"
	SeedTypeSavings SeedType = "savings"
	SeedTypeRepay   SeedType = "repay"
)

// Valid reports whether t is one of the known seed types.
func (t SeedType) Valid() bool {
	switch t {
	case SeedTypeNeed, SeedTypeWant, SeedTypeSavings, SeedTypeRepay:
		return true
	}
	return false
}

// Seed is one budgeted line inside a pay cycle. A recurring seed is the
// template for its counterpart in the next cycle.
//
// LinkedPotID and LinkedRepaymentID are weak references: deleting the pot or
// repayment clears them instead of deleting the seed.
type Seed struct {
	Base
	HouseholdID string   `gorm:"type:uuid;not null;index" json:"household_id"`
	PayCycleID  string   `gorm:"type:uuid;not null;index" json:"paycycle_id"`
	Name        string   `gorm:"not null" json:"name"`
	Type        SeedType `gorm:"not null" json:"type"`

	Amount           decimal.Decimal     `gorm:"type:numeric(12,2);not null" json:"amount"`
	PaymentSource    PaymentSource       `gorm:"not null" json:"payment_source"`
	AmountMe         decimal.Decimal     `gorm:"type:numeric(12,2);not null" json:"amount_me"`
	AmountPartner    decimal.Decimal     `gorm:"type:numeric(12,2);not null" json:"amount_partner"`
	SplitRatio       decimal.NullDecimal `gorm:"type:numeric(5,4)" json:"split_ratio"`
	UsesJointAccount bool                `gorm:"not null" json:"uses_joint_account"`

	IsRecurring   bool `gorm:"not null" json:"is_recurring"`
	IsPaid        bool `gorm:"not null" json:"is_paid"`
	IsPaidMe      bool `gorm:"not null" json:"is_paid_me"`
	IsPaidPartner bool `gorm:"not null" json:"is_paid_partner"`

	DueDate           *time.Time `gorm:"type:date" json:"due_date,omitempty"`
	LinkedPotID       *string    `gorm:"type:uuid;index" json:"linked_pot_id,omitempty"`
	LinkedRepaymentID *string    `gorm:"type:uuid;index" json:"linked_repayment_id,omitempty"`
}

// Key is the identity a seed keeps across cycles when a draft is resynced.
func (s *Seed) Key() string {
	return s.Name + "::" + string(s.Type)
}
