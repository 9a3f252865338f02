package services

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"payday/internal/cycledate"
	apperrors "payday/internal/errors"
	"payday/internal/models"
	"payday/internal/pagination"
	"payday/internal/split"
)

// seedService handles the budget lines of pay cycles.
type seedService struct {
	db *gorm.DB
}

// NewSeedService creates a new SeedServicer.
func NewSeedService(db *gorm.DB) SeedServicer {
	return &seedService{db: db}
}

// CreateSeed adds a seed to a cycle and refreshes the cycle's allocations.
func (s *seedService) CreateSeed(householdID, cycleID string, in SeedInput) (*models.Seed, error) {
	seed := &models.Seed{
		HouseholdID:       householdID,
		PayCycleID:        cycleID,
		Name:              strings.TrimSpace(in.Name),
		Type:              in.Type,
		Amount:            in.Amount,
		PaymentSource:     in.PaymentSource,
		SplitRatio:        in.SplitRatio,
		UsesJointAccount:  in.UsesJointAccount,
		IsRecurring:       in.IsRecurring,
		DueDate:           truncateDate(in.DueDate),
		LinkedPotID:       blankToNil(in.LinkedPotID),
		LinkedRepaymentID: blankToNil(in.LinkedRepaymentID),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		household, err := findHousehold(tx, householdID)
		if err != nil {
			return err
		}
		cycle, err := findCycle(tx, householdID, cycleID)
		if err != nil {
			return err
		}
		if cycle.Status == models.PayCycleStatusCompleted {
			return apperrors.ErrCycleCompleted
		}
		if err := validateSeed(tx, seed, cycle); err != nil {
			return err
		}

		split.Seed(seed, split.Household(household))
		if err := tx.Create(seed).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return refreshAllocations(tx, cycle)
	})
	if err != nil {
		return nil, err
	}
	return seed, nil
}

// ListSeeds returns a paginated list of the seeds of a cycle.
func (s *seedService) ListSeeds(householdID, cycleID string, page pagination.PageRequest, seedType *models.SeedType) (*pagination.PageResponse[models.Seed], error) {
	if _, err := findCycle(s.db, householdID, cycleID); err != nil {
		return nil, err
	}

	base := s.db.Model(&models.Seed{}).Where("household_id = ? AND pay_cycle_id = ?", householdID, cycleID)
	if seedType != nil {
		base = base.Where("type = ?", *seedType)
	}

	result, err := pagination.Find[models.Seed](base, page, "created_at, id")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return result, nil
}

// GetSeed returns a seed of the household.
func (s *seedService) GetSeed(householdID, seedID string) (*models.Seed, error) {
	return findSeed(s.db, householdID, seedID)
}

// UpdateSeed changes a seed. The payer sub-amounts are derived again from the
// new amount, payment source and split ratio.
func (s *seedService) UpdateSeed(householdID, seedID string, in SeedUpdate) (*models.Seed, error) {
	var seed *models.Seed
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		if seed, err = findSeed(tx, householdID, seedID); err != nil {
			return err
		}
		household, err := findHousehold(tx, householdID)
		if err != nil {
			return err
		}
		cycle, err := findCycle(tx, householdID, seed.PayCycleID)
		if err != nil {
			return err
		}
		if cycle.Status == models.PayCycleStatusCompleted {
			return apperrors.ErrCycleCompleted
		}

		before := *seed
		applySeedUpdate(seed, in)
		if err := validateSeed(tx, seed, cycle); err != nil {
			return err
		}
		split.Seed(seed, split.Household(household))

		if err := tx.Model(seed).Select(seedColumns).Updates(seed).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := relinkPaidAmount(tx, &before, seed); err != nil {
			return err
		}
		return refreshAllocations(tx, cycle)
	})
	if err != nil {
		return nil, err
	}
	return seed, nil
}

var seedColumns = []string{
	"name", "type", "amount", "payment_source", "amount_me", "amount_partner",
	"split_ratio", "uses_joint_account", "is_recurring", "due_date",
	"linked_pot_id", "linked_repayment_id",
}

func applySeedUpdate(seed *models.Seed, in SeedUpdate) {
	if in.Name != nil {
		seed.Name = strings.TrimSpace(*in.Name)
	}
	if in.Type != nil {
		seed.Type = *in.Type
	}
	if in.Amount != nil {
		seed.Amount = *in.Amount
	}
	if in.PaymentSource != nil {
		seed.PaymentSource = *in.PaymentSource
	}
	if in.ClearSplitRatio {
		seed.SplitRatio = decimal.NullDecimal{}
	} else if in.SplitRatio != nil {
		seed.SplitRatio = decimal.NewNullDecimal(*in.SplitRatio)
	}
	if in.UsesJointAccount != nil {
		seed.UsesJointAccount = *in.UsesJointAccount
	}
	if in.IsRecurring != nil {
		seed.IsRecurring = *in.IsRecurring
	}
	if in.ClearDueDate {
		seed.DueDate = nil
	} else if in.DueDate != nil {
		seed.DueDate = truncateDate(in.DueDate)
	}
	if in.ClearLinks {
		seed.LinkedPotID, seed.LinkedRepaymentID = nil, nil
	}
	if in.LinkedPotID != nil {
		seed.LinkedPotID = blankToNil(in.LinkedPotID)
	}
	if in.LinkedRepaymentID != nil {
		seed.LinkedRepaymentID = blankToNil(in.LinkedRepaymentID)
	}
}

// DeleteSeed removes a seed and refreshes its cycle's allocations.
func (s *seedService) DeleteSeed(householdID, seedID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		seed, err := findSeed(tx, householdID, seedID)
		if err != nil {
			return err
		}
		cycle, err := findCycle(tx, householdID, seed.PayCycleID)
		if err != nil {
			return err
		}
		if cycle.Status == models.PayCycleStatusCompleted {
			return apperrors.ErrCycleCompleted
		}

		if err := tx.Delete(seed).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return refreshAllocations(tx, cycle)
	})
}

// SetSeedPaid marks a seed, or one payer's half of a joint seed, as paid or
// unpaid. A linked pot grows and a linked repayment shrinks by the amount
// whose paid state changed.
func (s *seedService) SetSeedPaid(householdID, seedID string, payer Payer, paid bool) (*models.Seed, error) {
	if payer == "" {
		payer = PayerBoth
	}
	if payer != PayerBoth && payer != PayerMe && payer != PayerPartner {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "payer must be both, me or partner")
	}

	var seed *models.Seed
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		if seed, err = findSeed(tx, householdID, seedID); err != nil {
			return err
		}
		cycle, err := findCycle(tx, householdID, seed.PayCycleID)
		if err != nil {
			return err
		}
		if cycle.Status == models.PayCycleStatusCompleted {
			return apperrors.ErrCycleCompleted
		}

		if err := applyPaid(tx, seed, payer, paid); err != nil {
			return err
		}
		return refreshAllocations(tx, cycle)
	})
	if err != nil {
		return nil, err
	}
	return seed, nil
}

// applyPaid updates the paid flags of a seed and moves the balance of its
// linked pot or repayment by the change in paid amount.
func applyPaid(tx *gorm.DB, seed *models.Seed, payer Payer, paid bool) error {
	before := paidAmount(seed)

	if seed.PaymentSource == models.PaymentSourceJoint {
		switch payer {
		case PayerMe:
			seed.IsPaidMe = paid
		case PayerPartner:
			seed.IsPaidPartner = paid
		default:
			seed.IsPaidMe, seed.IsPaidPartner = paid, paid
		}
		seed.IsPaid = seed.IsPaidMe && seed.IsPaidPartner
	} else {
		seed.IsPaid = paid
		seed.IsPaidMe = paid && seed.PaymentSource == models.PaymentSourceMe
		seed.IsPaidPartner = paid && seed.PaymentSource == models.PaymentSourcePartner
	}

	err := tx.Model(seed).Updates(map[string]interface{}{
		"is_paid":         seed.IsPaid,
		"is_paid_me":      seed.IsPaidMe,
		"is_paid_partner": seed.IsPaidPartner,
	}).Error
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	delta := paidAmount(seed).Sub(before)
	if delta.IsZero() {
		return nil
	}
	return moveLinkedBalance(tx, seed, delta)
}

// paidAmount is the part of a seed's amount that is currently marked paid.
func paidAmount(seed *models.Seed) decimal.Decimal {
	if seed.PaymentSource != models.PaymentSourceJoint {
		if seed.IsPaid {
			return seed.Amount
		}
		return decimal.Zero
	}
	total := decimal.Zero
	if seed.IsPaid || seed.IsPaidMe {
		total = total.Add(seed.AmountMe)
	}
	if seed.IsPaid || seed.IsPaidPartner {
		total = total.Add(seed.AmountPartner)
	}
	return total
}

// relinkPaidAmount moves the paid part of an edited seed off the balance it was
// booked against and onto the balance the edited seed links to.
func relinkPaidAmount(tx *gorm.DB, before, after *models.Seed) error {
	oldPaid, newPaid := paidAmount(before), paidAmount(after)
	if oldPaid.IsZero() && newPaid.IsZero() {
		return nil
	}
	if sameLink(before, after) && oldPaid.Equal(newPaid) {
		return nil
	}
	if err := moveLinkedBalance(tx, before, oldPaid.Neg()); err != nil {
		return err
	}
	return moveLinkedBalance(tx, after, newPaid)
}

func sameLink(a, b *models.Seed) bool {
	return a.Type == b.Type &&
		equalID(a.LinkedPotID, b.LinkedPotID) &&
		equalID(a.LinkedRepaymentID, b.LinkedRepaymentID)
}

func equalID(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func moveLinkedBalance(tx *gorm.DB, seed *models.Seed, delta decimal.Decimal) error {
	switch {
	case seed.Type == models.SeedTypeSavings && seed.LinkedPotID != nil:
		var pot models.Pot
		if err := tx.Where("id = ? AND household_id = ?", *seed.LinkedPotID, seed.HouseholdID).First(&pot).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		next := decimal.Max(decimal.Zero, pot.CurrentAmount.Add(delta))
		if err := tx.Model(&pot).Update("current_amount", next).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

	case seed.Type == models.SeedTypeRepay && seed.LinkedRepaymentID != nil:
		var repayment models.Repayment
		if err := tx.Where("id = ? AND household_id = ?", *seed.LinkedRepaymentID, seed.HouseholdID).First(&repayment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		next := decimal.Max(decimal.Zero, repayment.CurrentBalance.Sub(delta))
		if err := tx.Model(&repayment).Update("current_balance", next).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return nil
}

// validateSeed checks a seed against its cycle and the household's pots and
// repayments.
func validateSeed(tx *gorm.DB, seed *models.Seed, cycle *models.PayCycle) error {
	if seed.Name == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}
	if !seed.Type.Valid() {
		return apperrors.ErrInvalidSeedType
	}
	if !seed.Amount.IsPositive() {
		return apperrors.ErrNonPositiveAmount
	}
	if !seed.PaymentSource.Valid() {
		return apperrors.ErrInvalidPaymentSource
	}
	if seed.SplitRatio.Valid && !split.ValidRatio(seed.SplitRatio.Decimal) {
		return apperrors.ErrInvalidSplitRatio
	}
	if seed.PaymentSource != models.PaymentSourceJoint {
		seed.UsesJointAccount = false
	}
	if seed.DueDate != nil && !cycleRange(cycle).Contains(*seed.DueDate) {
		return apperrors.ErrDueDateOutsideCycle
	}

	if seed.LinkedPotID != nil && seed.LinkedRepaymentID != nil {
		return apperrors.ErrInvalidSeedLink
	}
	if seed.LinkedPotID != nil {
		if seed.Type != models.SeedTypeSavings {
			return apperrors.WithMessage(apperrors.ErrInvalidSeedLink, "only savings seeds can link to a pot")
		}
		if err := tx.Where("id = ? AND household_id = ?", *seed.LinkedPotID, seed.HouseholdID).First(&models.Pot{}).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrPotNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	if seed.LinkedRepaymentID != nil {
		if seed.Type != models.SeedTypeRepay {
			return apperrors.WithMessage(apperrors.ErrInvalidSeedLink, "only repay seeds can link to a repayment")
		}
		if err := tx.Where("id = ? AND household_id = ?", *seed.LinkedRepaymentID, seed.HouseholdID).First(&models.Repayment{}).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrRepaymentNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return nil
}

func findSeed(db *gorm.DB, householdID, seedID string) (*models.Seed, error) {
	var seed models.Seed
	if err := db.Where("id = ? AND household_id = ?", seedID, householdID).First(&seed).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrSeedNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &seed, nil
}

func truncateDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := cycledate.Truncate(*t)
	return &d
}

func blankToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func sameString(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func sameDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return cycledate.Truncate(*a).Equal(cycledate.Truncate(*b))
}

func sameNullDecimal(a, b decimal.NullDecimal) bool {
	if a.Valid != b.Valid {
		return false
	}
	return !a.Valid || a.Decimal.Equal(b.Decimal)
}
