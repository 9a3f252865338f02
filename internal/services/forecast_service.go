package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"payday/internal/cycledate"
	apperrors "payday/internal/errors"
	"payday/internal/forecast"
	"payday/internal/logger"
	"payday/internal/models"
	"payday/internal/split"
)

// forecastService projects pots and repayments across future cycles.
type forecastService struct {
	db *gorm.DB
}

// NewForecastService creates a new ForecastServicer.
func NewForecastService(db *gorm.DB) ForecastServicer {
	return &forecastService{db: db}
}

// ForecastRepayment projects the balance of a repayment from the effective
// start, which is the later of today and the start of the active cycle.
func (s *forecastService) ForecastRepayment(householdID, repaymentID string, req ForecastRequest) (*RepaymentForecast, error) {
	household, err := findHousehold(s.db, householdID)
	if err != nil {
		return nil, err
	}
	repayment, err := findRepayment(s.db, householdID, repaymentID)
	if err != nil {
		return nil, err
	}

	cfg := cycledate.FromHousehold(household)
	start, active, err := s.effectiveStart(householdID, req.Today)
	if err != nil {
		return nil, err
	}

	balance := repayment.CurrentBalance
	perCycle, err := s.amountPerCycle(req.AmountPerCycle, active, "linked_repayment_id", repayment.ID)
	if err != nil {
		return nil, err
	}
	suggested := forecast.SuggestedRepaymentAmount(balance, start, repayment.TargetDate, cfg)
	if perCycle == nil {
		perCycle = suggested
	}
	amount := decimal.Zero
	if perCycle != nil {
		amount = *perCycle
	}

	opts := forecast.Options{
		IncludeInterest:           req.IncludeInterest,
		InterestRateAnnualPercent: repayment.InterestRate,
	}
	points, err := forecast.ProjectRepayment(balance, amount, start, cfg, opts)
	if err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidPayCycleConfig, err.Error())
	}

	result := &RepaymentForecast{
		RepaymentID:     repayment.ID,
		CurrentBalance:  balance,
		AmountPerCycle:  amount,
		IncludeInterest: req.IncludeInterest,
		EffectiveStart:  start,
		PayoffDate:      forecast.PayoffDate(points),
		SuggestedAmount: suggested,
		Cost:            forecast.TotalRepaymentCost(balance, amount, cfg, opts),
		Progress:        progress(repayment.StartingBalance.Sub(balance), repayment.StartingBalance),
		Projection:      points,
		InterestRate:    repayment.InterestRate,
	}
	if result.PayoffDate != nil && balance.IsPositive() {
		result.CyclesToClear = len(points)
	}
	if repayment.TargetDate != nil {
		end, err := forecast.CycleEndForTarget(start, *repayment.TargetDate, cfg)
		if err != nil {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidPayCycleConfig, err.Error())
		}
		result.TargetCycleEnd = &end
	}
	return result, nil
}

// ForecastPot projects the amount of a savings pot until it reaches its target.
func (s *forecastService) ForecastPot(householdID, potID string, req ForecastRequest) (*PotForecast, error) {
	household, err := findHousehold(s.db, householdID)
	if err != nil {
		return nil, err
	}
	pot, err := findPot(s.db, householdID, potID)
	if err != nil {
		return nil, err
	}

	cfg := cycledate.FromHousehold(household)
	start, active, err := s.effectiveStart(householdID, req.Today)
	if err != nil {
		return nil, err
	}

	perCycle, err := s.amountPerCycle(req.AmountPerCycle, active, "linked_pot_id", pot.ID)
	if err != nil {
		return nil, err
	}
	suggested := forecast.SuggestedSavingsAmount(pot.CurrentAmount, pot.TargetAmount, start, pot.TargetDate, cfg)
	if perCycle == nil {
		perCycle = suggested
	}
	amount := decimal.Zero
	if perCycle != nil {
		amount = *perCycle
	}

	points, err := forecast.ProjectSavings(pot.CurrentAmount, pot.TargetAmount, amount, start, cfg, forecast.DefaultMaxCycles)
	if err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidPayCycleConfig, err.Error())
	}

	result := &PotForecast{
		PotID:           pot.ID,
		CurrentAmount:   pot.CurrentAmount,
		TargetAmount:    pot.TargetAmount,
		AmountPerCycle:  amount,
		EffectiveStart:  start,
		CyclesToGoal:    forecast.CyclesToGoal(pot.CurrentAmount, pot.TargetAmount, amount),
		GoalDate:        forecast.GoalDate(points, pot.TargetAmount),
		SuggestedAmount: suggested,
		Progress:        progress(pot.CurrentAmount, pot.TargetAmount),
		Projection:      points,
	}
	if pot.TargetDate != nil {
		end, err := forecast.CycleEndForTarget(start, *pot.TargetDate, cfg)
		if err != nil {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidPayCycleConfig, err.Error())
		}
		result.TargetCycleEnd = &end
	}
	return result, nil
}

// LockIn fixes the per-cycle amount of a pot or repayment by upserting the
// recurring seed linked to it in the active cycle, or in the draft when the
// household has no active cycle.
func (s *forecastService) LockIn(householdID string, in LockInInput) (*models.Seed, error) {
	if (in.PotID == nil) == (in.RepaymentID == nil) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidSeedLink, "lock in needs exactly one of pot or repayment")
	}
	if !in.Amount.IsPositive() {
		return nil, apperrors.ErrNonPositiveAmount
	}

	var seed *models.Seed
	err := s.db.Transaction(func(tx *gorm.DB) error {
		household, err := lockHousehold(tx, householdID)
		if err != nil {
			return err
		}
		cycle, err := lockInCycle(tx, householdID)
		if err != nil {
			return err
		}

		var (
			column, targetID, name string
			seedType               models.SeedType
		)
		if in.PotID != nil {
			pot, err := findPot(tx, householdID, *in.PotID)
			if err != nil {
				return err
			}
			column, targetID, name, seedType = "linked_pot_id", pot.ID, pot.Name, models.SeedTypeSavings
		} else {
			repayment, err := findRepayment(tx, householdID, *in.RepaymentID)
			if err != nil {
				return err
			}
			column, targetID, name, seedType = "linked_repayment_id", repayment.ID, repayment.Name, models.SeedTypeRepay
		}

		if seed, err = linkedSeed(tx, cycle.ID, column, targetID); err != nil {
			return err
		}
		if seed == nil {
			seed = &models.Seed{
				HouseholdID:      householdID,
				PayCycleID:       cycle.ID,
				Name:             name,
				Type:             seedType,
				PaymentSource:    models.PaymentSourceJoint,
				UsesJointAccount: true,
			}
			if seedType == models.SeedTypeSavings {
				seed.LinkedPotID = &targetID
			} else {
				seed.LinkedRepaymentID = &targetID
			}
		}
		before := *seed
		seed.Amount = in.Amount
		seed.IsRecurring = true

		if err := validateSeed(tx, seed, cycle); err != nil {
			return err
		}
		split.Seed(seed, split.Household(household))
		if err := tx.Save(seed).Error; err != nil {
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

	logger.ForHousehold(householdID).Infow("forecast amount locked in",
		"seed_id", seed.ID,
		"cycle_id", seed.PayCycleID,
		"amount", seed.Amount.StringFixed(2),
	)
	return seed, nil
}

// effectiveStart returns the later of today and the start of the active
// cycle, together with that cycle when there is one.
func (s *forecastService) effectiveStart(householdID string, today time.Time) (time.Time, *models.PayCycle, error) {
	if today.IsZero() {
		today = time.Now()
	}
	today = cycledate.Truncate(today)

	var active models.PayCycle
	err := s.db.Where("household_id = ? AND status = ?", householdID, models.PayCycleStatusActive).First(&active).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return today, nil, nil
	}
	if err != nil {
		return time.Time{}, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	start := cycledate.Truncate(active.StartDate)
	if today.After(start) {
		start = today
	}
	return start, &active, nil
}

// amountPerCycle prefers the requested amount, then the recurring seed
// linked to the target in the active cycle. It returns nil when neither exists.
func (s *forecastService) amountPerCycle(requested *decimal.Decimal, active *models.PayCycle, column, targetID string) (*decimal.Decimal, error) {
	if requested != nil {
		v := *requested
		return &v, nil
	}
	if active == nil {
		return nil, nil
	}
	seed, err := linkedSeed(s.db, active.ID, column, targetID)
	if err != nil || seed == nil {
		return nil, err
	}
	return &seed.Amount, nil
}

// lockInCycle returns the active cycle of the household, or its draft.
func lockInCycle(tx *gorm.DB, householdID string) (*models.PayCycle, error) {
	var cycles []models.PayCycle
	if err := tx.Where("household_id = ? AND status IN ?", householdID, liveStatuses).Find(&cycles).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	var draft *models.PayCycle
	for i := range cycles {
		switch cycles[i].Status {
		case models.PayCycleStatusActive:
			return &cycles[i], nil
		case models.PayCycleStatusDraft:
			draft = &cycles[i]
		}
	}
	if draft == nil {
		return nil, apperrors.ErrNoActiveCycle
	}
	return draft, nil
}

// linkedSeed returns the recurring seed of a cycle that links to targetID
// through column, or nil.
func linkedSeed(db *gorm.DB, cycleID, column, targetID string) (*models.Seed, error) {
	var seeds []models.Seed
	err := db.Where("pay_cycle_id = ? AND is_recurring = ? AND "+column+" = ?", cycleID, true, targetID).
		Order("created_at, id").
		Limit(1).
		Find(&seeds).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if len(seeds) == 0 {
		return nil, nil
	}
	return &seeds[0], nil
}

// progress is part as a percentage of whole, clamped to [0, 100].
func progress(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	p := part.Div(whole).Mul(decimal.NewFromInt(100)).Round(2)
	return decimal.Min(decimal.NewFromInt(100), decimal.Max(decimal.Zero, p))
}
