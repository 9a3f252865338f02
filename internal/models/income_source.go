package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// IncomeSource is a recurring income of a household member or of the joint account.
// Sources are soft-disabled through IsActive rather than deleted so that past
// cycle snapshots stay explainable.
type IncomeSource struct {
	Base
	HouseholdID   string          `gorm:"type:uuid;not null;index" json:"household_id"`
	Name          string          `gorm:"not null" json:"name"`
	Amount        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	FrequencyRule PayCycleType    `gorm:"not null" json:"frequency_rule"`
	DayOfMonth    *int            `json:"day_of_month,omitempty"`
	AnchorDate    *time.Time      `gorm:"type:date" json:"anchor_date,omitempty"`
	PaymentSource PaymentSource   `gorm:"not null" json:"payment_source"`
	IsActive      bool            `gorm:"not null" json:"is_active"`
}
