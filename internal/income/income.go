// Package income projects a household's income over a date range from its
// recurring income sources.
package income

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"payday/internal/cycledate"
	"payday/internal/models"
	"payday/internal/split"
)

// Event is one payment of an income source.
type Event struct {
	SourceID      string               `json:"source_id"`
	Name          string               `json:"name"`
	Date          time.Time            `json:"date"`
	Amount        decimal.Decimal      `json:"amount"`
	PaymentSource models.PaymentSource `json:"payment_source"`
	AmountMe      decimal.Decimal      `json:"amount_me"`
	AmountPartner decimal.Decimal      `json:"amount_partner"`
}

// Projection is the income expected inside a range.
type Projection struct {
	Total                 decimal.Decimal `json:"total_income"`
	SnapshotUserIncome    decimal.Decimal `json:"snapshot_user_income"`
	SnapshotPartnerIncome decimal.Decimal `json:"snapshot_partner_income"`
	Events                []Event         `json:"events"`

	// ActiveSources counts the sources that were evaluated. Zero means the
	// household has no income configured, not that nothing is paid in range.
	ActiveSources int `json:"active_sources"`
	// Skipped lists active sources whose rule is incomplete.
	Skipped []string `json:"skipped,omitempty"`
}

// HasSources reports whether any active income source was evaluated.
func (p Projection) HasSources() bool {
	return p.ActiveSources > 0
}

// Project sums every payment of the active sources that falls inside
// [start, end], splitting joint income by the household's joint ratio.
func Project(start, end time.Time, sources []models.IncomeSource, jointRatio decimal.NullDecimal) Projection {
	p := Projection{
		Total:                 decimal.Zero,
		SnapshotUserIncome:    decimal.Zero,
		SnapshotPartnerIncome: decimal.Zero,
		Events:                []Event{},
	}

	for i := range sources {
		src := &sources[i]
		if !src.IsActive {
			continue
		}
		p.ActiveSources++

		dates, err := cycledate.PaymentDatesInRange(start, end, cycledate.FromIncomeSource(src))
		if err != nil {
			p.Skipped = append(p.Skipped, src.ID)
			continue
		}

		for _, d := range dates {
			amounts := split.Split(src.Amount, src.PaymentSource, decimal.NullDecimal{}, jointRatio)
			p.Total = p.Total.Add(src.Amount)
			p.SnapshotUserIncome = p.SnapshotUserIncome.Add(amounts.Me)
			p.SnapshotPartnerIncome = p.SnapshotPartnerIncome.Add(amounts.Partner)
			p.Events = append(p.Events, Event{
				SourceID:      src.ID,
				Name:          src.Name,
				Date:          d,
				Amount:        src.Amount,
				PaymentSource: src.PaymentSource,
				AmountMe:      amounts.Me,
				AmountPartner: amounts.Partner,
			})
		}
	}

	sort.SliceStable(p.Events, func(i, j int) bool {
		return p.Events[i].Date.Before(p.Events[j].Date)
	})

	p.Total = p.Total.Round(2)
	p.SnapshotUserIncome = p.SnapshotUserIncome.Round(2)
	p.SnapshotPartnerIncome = p.SnapshotPartnerIncome.Round(2)
	return p
}

// Apply stores the projected totals on a cycle.
func (p Projection) Apply(pc *models.PayCycle) {
	pc.TotalIncome = p.Total
	pc.SnapshotUserIncome = p.SnapshotUserIncome
	pc.SnapshotPartnerIncome = p.SnapshotPartnerIncome
}

// CarryForward copies the income snapshot of a previous cycle, used when a
// household has no active income sources.
func CarryForward(from *models.PayCycle, to *models.PayCycle) {
	to.TotalIncome = from.TotalIncome
	to.SnapshotUserIncome = from.SnapshotUserIncome
	to.SnapshotPartnerIncome = from.SnapshotPartnerIncome
}
