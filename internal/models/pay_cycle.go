package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayCycleStatus is the lifecycle state of a pay cycle.
type PayCycleStatus string

const (
	PayCycleStatusDraft     PayCycleStatus = "draft"
	PayCycleStatusActive    PayCycleStatus = "active"
	PayCycleStatusCompleted PayCycleStatus = "completed"
)

// PayCycle is one budgeting period of a household. StartDate and EndDate are
// inclusive calendar days; cycles of a household never overlap.
type PayCycle struct {
	Base
	HouseholdID string         `gorm:"type:uuid;not null;index" json:"household_id"`
	Name        string         `gorm:"not null" json:"name"`
	Status      PayCycleStatus `gorm:"not null;index" json:"status"`
	StartDate   time.Time      `gorm:"type:date;not null" json:"start_date"`
	EndDate     time.Time      `gorm:"type:date;not null" json:"end_date"`

	TotalIncome           decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_income"`
	SnapshotUserIncome    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"snapshot_user_income"`
	SnapshotPartnerIncome decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"snapshot_partner_income"`

	TotalAllocated decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_allocated"`

	AllocNeedsMe        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"alloc_needs_me"`
	AllocNeedsPartner   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"alloc_needs_partner"`
	AllocNeedsJoint     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"alloc_needs_joint"`
	AllocWantsMe        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"alloc_wants_me"`
	AllocWantsPartner   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"alloc_wants_partner"`
	AllocWantsJoint     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"alloc_wants_joint"`
	AllocSavingsMe      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"alloc_savings_me"`
	AllocSavingsPartner decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"alloc_savings_partner"`
	AllocSavingsJoint   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"alloc_savings_joint"`
	AllocRepayMe        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"alloc_repay_me"`
	AllocRepayPartner   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"alloc_repay_partner"`
	AllocRepayJoint     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"alloc_repay_joint"`

	RemNeedsMe        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"rem_needs_me"`
	RemNeedsPartner   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"rem_needs_partner"`
	RemNeedsJoint     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"rem_needs_joint"`
	RemWantsMe        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"rem_wants_me"`
	RemWantsPartner   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"rem_wants_partner"`
	RemWantsJoint     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"rem_wants_joint"`
	RemSavingsMe      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"rem_savings_me"`
	RemSavingsPartner decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"rem_savings_partner"`
	RemSavingsJoint   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"rem_savings_joint"`
	RemRepayMe        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"rem_repay_me"`
	RemRepayPartner   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"rem_repay_partner"`
	RemRepayJoint     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"rem_repay_joint"`

	RitualClosedAt *time.Time `json:"ritual_closed_at,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}

// Valid reports whether s is one of the known cycle statuses.
func (s PayCycleStatus) Valid() bool {
	switch s {
	case PayCycleStatusDraft, PayCycleStatusActive, PayCycleStatusCompleted:
		return true
	}
	return false
}
