// Package split divides an amount between the two payers of a household.
package split

import (
	"github.com/shopspring/decimal"

	"payday/internal/models"
)

// Amounts is the share of a total carried by each payer.
type Amounts struct {
	Me      decimal.Decimal `json:"amount_me"`
	Partner decimal.Decimal `json:"amount_partner"`
}

// Split divides total by payment source. Joint amounts use the seed ratio,
// then the household ratio, then models.DefaultJointRatio. The ratio is the
// owner's share; the partner receives the remainder so the two parts always
// add up to total.
func Split(total decimal.Decimal, source models.PaymentSource, seedRatio, householdRatio decimal.NullDecimal) Amounts {
	switch source {
	case models.PaymentSourceMe:
		return Amounts{Me: total, Partner: decimal.Zero}
	case models.PaymentSourcePartner:
		return Amounts{Me: decimal.Zero, Partner: total}
	}

	ratio := Ratio(seedRatio, householdRatio)
	me := total.Mul(ratio).Round(2)
	return Amounts{Me: me, Partner: total.Sub(me)}
}

// Ratio resolves the joint ratio that applies to a seed.
func Ratio(seedRatio, householdRatio decimal.NullDecimal) decimal.Decimal {
	if seedRatio.Valid {
		return seedRatio.Decimal
	}
	if householdRatio.Valid {
		return householdRatio.Decimal
	}
	return models.DefaultJointRatio
}

// ValidRatio reports whether r lies in [0, 1].
func ValidRatio(r decimal.Decimal) bool {
	return !r.IsNegative() && r.LessThanOrEqual(decimal.NewFromInt(1))
}

// Household wraps a household's joint ratio for Split.
func Household(h *models.Household) decimal.NullDecimal {
	if h == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(h.JointRatio)
}

// Seed recomputes the payer sub-amounts of a seed in place.
func Seed(s *models.Seed, householdRatio decimal.NullDecimal) {
	a := Split(s.Amount, s.PaymentSource, s.SplitRatio, householdRatio)
	s.AmountMe, s.AmountPartner = a.Me, a.Partner
}
