package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"payday/internal/models"
	"payday/internal/uuid"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// Date returns midnight UTC of the given day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Dec parses a decimal literal and fails the test if it is malformed.
func Dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("invalid decimal %q: %v", s, err)
	}
	return d
}

// NewUserID returns a fresh user id. Users live in the identity provider, so
// only their ids are needed.
func NewUserID() string {
	return uuid.New()
}

// CreateTestHousehold creates a household paid on the 25th with a 50/30/10/10
// split and an even joint ratio.
func CreateTestHousehold(t *testing.T, db *gorm.DB) *models.Household {
	t.Helper()
	payDay := 25
	return CreateTestHouseholdWithRule(t, db, models.PayCycleTypeSpecificDate, &payDay, nil)
}

// CreateTestHouseholdWithRule creates a household with the given pay rule.
func CreateTestHouseholdWithRule(t *testing.T, db *gorm.DB, rule models.PayCycleType, payDay *int, anchor *time.Time) *models.Household {
	t.Helper()

	household := &models.Household{
		Name:           fmt.Sprintf("Test Household %d", nextID()),
		OwnerID:        NewUserID(),
		PayCycleType:   rule,
		PayDay:         payDay,
		PayCycleAnchor: anchor,
		JointRatio:     decimal.NewFromFloat(0.5),
		NeedsPercent:   decimal.NewFromInt(50),
		WantsPercent:   decimal.NewFromInt(30),
		SavingsPercent: decimal.NewFromInt(10),
		RepayPercent:   decimal.NewFromInt(10),
	}
	if err := db.Create(household).Error; err != nil {
		t.Fatalf("failed to create test household: %v", err)
	}
	return household
}

// CreateTestIncomeSource creates an active income source paid on dayOfMonth.
func CreateTestIncomeSource(t *testing.T, db *gorm.DB, householdID string, amount string, source models.PaymentSource, dayOfMonth int) *models.IncomeSource {
	t.Helper()

	src := &models.IncomeSource{
		HouseholdID:   householdID,
		Name:          fmt.Sprintf("Test Salary %d", nextID()),
		Amount:        Dec(t, amount),
		FrequencyRule: models.PayCycleTypeSpecificDate,
		DayOfMonth:    &dayOfMonth,
		PaymentSource: source,
		IsActive:      true,
	}
	if err := db.Create(src).Error; err != nil {
		t.Fatalf("failed to create test income source: %v", err)
	}
	return src
}

// CreateTestPayCycle creates a cycle with zeroed totals.
func CreateTestPayCycle(t *testing.T, db *gorm.DB, householdID string, status models.PayCycleStatus, start, end time.Time) *models.PayCycle {
	t.Helper()

	cycle := &models.PayCycle{
		HouseholdID: householdID,
		Name:        fmt.Sprintf("%s - %s", start.Format("2 Jan"), end.Format("2 Jan 2006")),
		Status:      status,
		StartDate:   start,
		EndDate:     end,
	}
	if err := db.Create(cycle).Error; err != nil {
		t.Fatalf("failed to create test pay cycle: %v", err)
	}
	return cycle
}

// CreateTestSeed creates an unpaid seed paid from source with AmountMe and
// AmountPartner derived from an even split for joint seeds.
func CreateTestSeed(t *testing.T, db *gorm.DB, cycle *models.PayCycle, name string, seedType models.SeedType, amount string, source models.PaymentSource, recurring bool) *models.Seed {
	t.Helper()

	total := Dec(t, amount)
	seed := &models.Seed{
		HouseholdID:   cycle.HouseholdID,
		PayCycleID:    cycle.ID,
		Name:          name,
		Type:          seedType,
		Amount:        total,
		PaymentSource: source,
		IsRecurring:   recurring,
	}
	switch source {
	case models.PaymentSourceMe:
		seed.AmountMe = total
	case models.PaymentSourcePartner:
		seed.AmountPartner = total
	default:
		seed.AmountMe = total.Div(decimal.NewFromInt(2)).Round(2)
		seed.AmountPartner = total.Sub(seed.AmountMe)
	}
	if err := db.Create(seed).Error; err != nil {
		t.Fatalf("failed to create test seed: %v", err)
	}
	return seed
}

// CreateTestPot creates an active pot.
func CreateTestPot(t *testing.T, db *gorm.DB, householdID string, current, target string) *models.Pot {
	t.Helper()

	pot := &models.Pot{
		HouseholdID:   householdID,
		Name:          fmt.Sprintf("Test Pot %d", nextID()),
		CurrentAmount: Dec(t, current),
		TargetAmount:  Dec(t, target),
		Status:        models.PotStatusActive,
	}
	if err := db.Create(pot).Error; err != nil {
		t.Fatalf("failed to create test pot: %v", err)
	}
	return pot
}

// CreateTestRepayment creates an active repayment with no interest whose
// current balance equals its starting balance.
func CreateTestRepayment(t *testing.T, db *gorm.DB, householdID string, balance string) *models.Repayment {
	t.Helper()

	repayment := &models.Repayment{
		HouseholdID:     householdID,
		Name:            fmt.Sprintf("Test Loan %d", nextID()),
		StartingBalance: Dec(t, balance),
		CurrentBalance:  Dec(t, balance),
		Status:          models.RepaymentStatusActive,
	}
	if err := db.Create(repayment).Error; err != nil {
		t.Fatalf("failed to create test repayment: %v", err)
	}
	return repayment
}
