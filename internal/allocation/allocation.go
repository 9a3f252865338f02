// Package allocation aggregates the seeds of a pay cycle into its allocated
// and remaining balances per category and payer.
package allocation

import (
	"github.com/shopspring/decimal"

	"payday/internal/models"
)

// Category indexes the four budget categories.
type Category int

const (
	Needs Category = iota
	Wants
	Savings
	Repay
	numCategories
)

// Payer indexes who a bucket belongs to.
type Payer int

const (
	Me Payer = iota
	Partner
	Joint
	numPayers
)

// CategoryOf maps a seed type to its category.
func CategoryOf(t models.SeedType) (Category, bool) {
	switch t {
	case models.SeedTypeNeed:
		return Needs, true
	case models.SeedTypeWant:
		return Wants, true
	case models.SeedTypeSavings:
		return Savings, true
	case models.SeedTypeRepay:
		return Repay, true
	}
	return 0, false
}

// Totals holds a cycle's total allocation and its twelve allocated and
// twelve remaining buckets.
type Totals struct {
	TotalAllocated decimal.Decimal
	Alloc          [numCategories][numPayers]decimal.Decimal
	Rem            [numCategories][numPayers]decimal.Decimal
}

func newTotals() Totals {
	t := Totals{TotalAllocated: decimal.Zero}
	for c := range t.Alloc {
		for p := range t.Alloc[c] {
			t.Alloc[c][p] = decimal.Zero
			t.Rem[c][p] = decimal.Zero
		}
	}
	return t
}

// Aggregate computes the totals of one cycle's seeds.
//
// Every seed counts towards TotalAllocated whether paid or not. Seeds paid by
// one person fill that person's bucket. Joint seeds paid from the joint
// account fill the joint bucket; other joint seeds contribute their derived
// sub-amounts to the me and partner buckets. Remaining buckets only receive
// unpaid amounts and are never negative.
func Aggregate(seeds []models.Seed) Totals {
	t := newTotals()

	for i := range seeds {
		s := &seeds[i]
		cat, ok := CategoryOf(s.Type)
		if !ok {
			continue
		}
		t.TotalAllocated = t.TotalAllocated.Add(s.Amount)

		switch s.PaymentSource {
		case models.PaymentSourceMe:
			t.add(cat, Me, s.Amount, s.IsPaid)
		case models.PaymentSourcePartner:
			t.add(cat, Partner, s.Amount, s.IsPaid)
		case models.PaymentSourceJoint:
			paidMe := s.IsPaid || s.IsPaidMe
			paidPartner := s.IsPaid || s.IsPaidPartner
			if s.UsesJointAccount {
				t.add(cat, Joint, s.AmountMe, paidMe)
				t.add(cat, Joint, s.AmountPartner, paidPartner)
			} else {
				t.add(cat, Me, s.AmountMe, paidMe)
				t.add(cat, Partner, s.AmountPartner, paidPartner)
			}
		}
	}
	return t
}

func (t *Totals) add(c Category, p Payer, amount decimal.Decimal, paid bool) {
	t.Alloc[c][p] = t.Alloc[c][p].Add(amount)
	if !paid && amount.IsPositive() {
		t.Rem[c][p] = t.Rem[c][p].Add(amount)
	}
}

// Remaining returns one remaining bucket.
func (t Totals) Remaining(c Category, p Payer) decimal.Decimal {
	return t.Rem[c][p]
}

// Allocated returns one allocated bucket.
func (t Totals) Allocated(c Category, p Payer) decimal.Decimal {
	return t.Alloc[c][p]
}

// TotalRemaining sums all remaining buckets.
func (t Totals) TotalRemaining() decimal.Decimal {
	sum := decimal.Zero
	for c := range t.Rem {
		for p := range t.Rem[c] {
			sum = sum.Add(t.Rem[c][p])
		}
	}
	return sum
}

// Apply writes the totals onto a pay cycle row.
func (t Totals) Apply(pc *models.PayCycle) {
	pc.TotalAllocated = t.TotalAllocated

	pc.AllocNeedsMe, pc.AllocNeedsPartner, pc.AllocNeedsJoint = t.Alloc[Needs][Me], t.Alloc[Needs][Partner], t.Alloc[Needs][Joint]
	pc.AllocWantsMe, pc.AllocWantsPartner, pc.AllocWantsJoint = t.Alloc[Wants][Me], t.Alloc[Wants][Partner], t.Alloc[Wants][Joint]
	pc.AllocSavingsMe, pc.AllocSavingsPartner, pc.AllocSavingsJoint = t.Alloc[Savings][Me], t.Alloc[Savings][Partner], t.Alloc[Savings][Joint]
	pc.AllocRepayMe, pc.AllocRepayPartner, pc.AllocRepayJoint = t.Alloc[Repay][Me], t.Alloc[Repay][Partner], t.Alloc[Repay][Joint]

	pc.RemNeedsMe, pc.RemNeedsPartner, pc.RemNeedsJoint = t.Rem[Needs][Me], t.Rem[Needs][Partner], t.Rem[Needs][Joint]
	pc.RemWantsMe, pc.RemWantsPartner, pc.RemWantsJoint = t.Rem[Wants][Me], t.Rem[Wants][Partner], t.Rem[Wants][Joint]
	pc.RemSavingsMe, pc.RemSavingsPartner, pc.RemSavingsJoint = t.Rem[Savings][Me], t.Rem[Savings][Partner], t.Rem[Savings][Joint]
	pc.RemRepayMe, pc.RemRepayPartner, pc.RemRepayJoint = t.Rem[Repay][Me], t.Rem[Repay][Partner], t.Rem[Repay][Joint]
}

// Updates returns the aggregate columns of a pay cycle as a gorm update map.
func (t Totals) Updates() map[string]interface{} {
	names := [numCategories]string{"needs", "wants", "savings", "repay"}
	payers := [numPayers]string{"me", "partner", "joint"}

	m := map[string]interface{}{"total_allocated": t.TotalAllocated}
	for c := range names {
		for p := range payers {
			m["alloc_"+names[c]+"_"+payers[p]] = t.Alloc[c][p]
			m["rem_"+names[c]+"_"+payers[p]] = t.Rem[c][p]
		}
	}
	return m
}
