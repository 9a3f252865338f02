package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayCycleType is the rule that decides when a household (or an income source) is paid.
type PayCycleType string

const (
	PayCycleTypeSpecificDate   PayCycleType = "specific_date"
	PayCycleTypeLastWorkingDay PayCycleType = "last_working_day"
	PayCycleTypeEvery4Weeks    PayCycleType = "every_4_weeks"
)

// Valid reports whether t is one of the known pay cycle types.
func (t PayCycleType) Valid() bool {
	switch t {
	case PayCycleTypeSpecificDate, PayCycleTypeLastWorkingDay, PayCycleTypeEvery4Weeks:
		return true
	}
	return false
}

// PaymentSource identifies who pays a seed or who receives an income.
type PaymentSource string

const (
	PaymentSourceMe      PaymentSource = "me"
	PaymentSourcePartner PaymentSource = "partner"
	PaymentSourceJoint   PaymentSource = "joint"
)

// Valid reports whether s is one of the known payment sources.
func (s PaymentSource) Valid() bool {
	switch s {
	case PaymentSourceMe, PaymentSourcePartner, PaymentSourceJoint:
		return true
	}
	return false
}

// DefaultJointRatio is the share of a joint amount attributed to the owner
// when neither the seed nor the household specifies one.
var DefaultJointRatio = decimal.NewFromFloat(0.5)

// Household is the budgeting unit: one owner, at most one partner, and the
// pay cycle configuration every cycle of the household is derived from.
type Household struct {
	Base
	Name          string  `gorm:"not null" json:"name"`
	OwnerID       string  `gorm:"type:uuid;not null;uniqueIndex" json:"owner_id"`
	PartnerUserID *string `gorm:"type:uuid;uniqueIndex" json:"partner_user_id,omitempty"`

	PayCycleType   PayCycleType `gorm:"not null" json:"pay_cycle_type"`
	PayDay         *int         `json:"pay_day,omitempty"`
	PayCycleAnchor *time.Time   `gorm:"type:date" json:"pay_cycle_anchor,omitempty"`

	JointRatio decimal.Decimal `gorm:"type:numeric(5,4);not null" json:"joint_ratio"`

	NeedsPercent   decimal.Decimal `gorm:"type:numeric(5,2);not null" json:"needs_percent"`
	WantsPercent   decimal.Decimal `gorm:"type:numeric(5,2);not null" json:"wants_percent"`
	SavingsPercent decimal.Decimal `gorm:"type:numeric(5,2);not null" json:"savings_percent"`
	RepayPercent   decimal.Decimal `gorm:"type:numeric(5,2);not null" json:"repay_percent"`
}

// HasMember reports whether userID is the owner or the partner of the household.
func (h *Household) HasMember(userID string) bool {
	if h.OwnerID == userID {
		return true
	}
	return h.PartnerUserID != nil && *h.PartnerUserID == userID
}
