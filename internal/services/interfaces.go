package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"payday/internal/forecast"
	"payday/internal/income"
	"payday/internal/models"
	"payday/internal/pagination"
)

// CategoryPercentages is the share of income a household budgets per category.
type CategoryPercentages struct {
	Needs   decimal.Decimal `json:"needs_percent"`
	Wants   decimal.Decimal `json:"wants_percent"`
	Savings decimal.Decimal `json:"savings_percent"`
	Repay   decimal.Decimal `json:"repay_percent"`
}

// HouseholdInput holds the fields of a new household.
type HouseholdInput struct {
	Name           string
	PayCycleType   models.PayCycleType
	PayDay         *int
	PayCycleAnchor *time.Time
	JointRatio     *decimal.Decimal
	Percentages    *CategoryPercentages
}

// HouseholdUpdate holds the optional fields of a household update.
type HouseholdUpdate struct {
	Name           *string
	PayCycleType   *models.PayCycleType
	PayDay         *int
	PayCycleAnchor *time.Time
	JointRatio     *decimal.Decimal
	Percentages    *CategoryPercentages
}

// HouseholdServicer defines the contract for household configuration.
type HouseholdServicer interface {
	CreateHousehold(ownerID string, in HouseholdInput) (*models.Household, error)
	GetHousehold(householdID string) (*models.Household, error)
	GetHouseholdForUser(userID string) (*models.Household, error)
	UpdateHousehold(householdID string, in HouseholdUpdate) (*models.Household, error)
	AddPartner(householdID, partnerUserID string) (*models.Household, error)
	RemovePartner(householdID string) (*models.Household, error)
}

// IncomeSourceInput holds the fields of a new income source.
type IncomeSourceInput struct {
	Name          string
	Amount        decimal.Decimal
	FrequencyRule models.PayCycleType
	DayOfMonth    *int
	AnchorDate    *time.Time
	PaymentSource models.PaymentSource
}

// IncomeSourceUpdate holds the optional fields of an income source update.
type IncomeSourceUpdate struct {
	Name          *string
	Amount        *decimal.Decimal
	FrequencyRule *models.PayCycleType
	DayOfMonth    *int
	AnchorDate    *time.Time
	PaymentSource *models.PaymentSource
	IsActive      *bool
}

// IncomeSourceServicer defines the contract for a household's income sources.
type IncomeSourceServicer interface {
	CreateIncomeSource(householdID string, in IncomeSourceInput) (*models.IncomeSource, error)
	ListIncomeSources(householdID string, activeOnly bool) ([]models.IncomeSource, error)
	GetIncomeSource(householdID, sourceID string) (*models.IncomeSource, error)
	UpdateIncomeSource(householdID, sourceID string, in IncomeSourceUpdate) (*models.IncomeSource, error)
	DeactivateIncomeSource(householdID, sourceID string) error
}

// SeedInput holds the fields of a new seed.
type SeedInput struct {
	Name              string
	Type              models.SeedType
	Amount            decimal.Decimal
	PaymentSource     models.PaymentSource
	SplitRatio        decimal.NullDecimal
	UsesJointAccount  bool
	IsRecurring       bool
	DueDate           *time.Time
	LinkedPotID       *string
	LinkedRepaymentID *string
}

// SeedUpdate holds the optional fields of a seed update. ClearDueDate,
// ClearSplitRatio and ClearLinks remove the corresponding values.
type SeedUpdate struct {
	Name              *string
	Type              *models.SeedType
	Amount            *decimal.Decimal
	PaymentSource     *models.PaymentSource
	SplitRatio        *decimal.Decimal
	ClearSplitRatio   bool
	UsesJointAccount  *bool
	IsRecurring       *bool
	DueDate           *time.Time
	ClearDueDate      bool
	LinkedPotID       *string
	LinkedRepaymentID *string
	ClearLinks        bool
}

// Payer selects which part of a seed a payment covers. PayerBoth marks the
// whole seed.
type Payer string

const (
	PayerBoth    Payer = "both"
	PayerMe      Payer = "me"
	PayerPartner Payer = "partner"
)

// SeedServicer defines the contract for the budget lines of a pay cycle.
// Every mutation recomputes the allocation totals of the affected cycle.
type SeedServicer interface {
	CreateSeed(householdID, cycleID string, in SeedInput) (*models.Seed, error)
	ListSeeds(householdID, cycleID string, page pagination.PageRequest, seedType *models.SeedType) (*pagination.PageResponse[models.Seed], error)
	GetSeed(householdID, seedID string) (*models.Seed, error)
	UpdateSeed(householdID, seedID string, in SeedUpdate) (*models.Seed, error)
	DeleteSeed(householdID, seedID string) error
	SetSeedPaid(householdID, seedID string, payer Payer, paid bool) (*models.Seed, error)
}

// PotInput holds the fields of a pot create or update.
type PotInput struct {
	Name          *string
	CurrentAmount *decimal.Decimal
	TargetAmount  *decimal.Decimal
	TargetDate    *time.Time
	Status        *models.PotStatus
}

// PotServicer defines the contract for savings pots.
type PotServicer interface {
	CreatePot(householdID string, in PotInput) (*models.Pot, error)
	GetPot(householdID, potID string) (*models.Pot, error)
	ListPots(householdID string, status *models.PotStatus) ([]models.Pot, error)
	UpdatePot(householdID, potID string, in PotInput) (*models.Pot, error)
	DeletePot(householdID, potID string) error
}

// RepaymentInput holds the fields of a repayment create or update.
type RepaymentInput struct {
	Name            *string
	StartingBalance *decimal.Decimal
	CurrentBalance  *decimal.Decimal
	TargetDate      *time.Time
	InterestRate    *decimal.Decimal
	Status          *models.RepaymentStatus
}

// RepaymentServicer defines the contract for debt repayments.
type RepaymentServicer interface {
	CreateRepayment(householdID string, in RepaymentInput) (*models.Repayment, error)
	GetRepayment(householdID, repaymentID string) (*models.Repayment, error)
	ListRepayments(householdID string, status *models.RepaymentStatus) ([]models.Repayment, error)
	UpdateRepayment(householdID, repaymentID string, in RepaymentInput) (*models.Repayment, error)
	DeleteRepayment(householdID, repaymentID string) error
}

// CycleFilter narrows ListCycles.
type CycleFilter struct {
	Status *models.PayCycleStatus
}

// SwitchoverResult reports what CompleteCycle did.
type SwitchoverResult struct {
	Completed *models.PayCycle `json:"completed"`
	Active    *models.PayCycle `json:"active"`
	// Promoted is true when an existing draft became the active cycle.
	Promoted bool `json:"promoted"`
}

// PayCycleServicer defines the contract for the pay cycle lifecycle:
// creating cycles, carrying recurring seeds forward, and keeping allocation
// totals consistent.
type PayCycleServicer interface {
	StartFirstCycle(ctx context.Context, householdID string, today time.Time) (*models.PayCycle, error)
	CreateNextCycle(ctx context.Context, householdID, currentCycleID string, status models.PayCycleStatus) (*models.PayCycle, error)
	ResyncDraftFromActive(ctx context.Context, householdID, draftCycleID, activeCycleID string) (*models.PayCycle, error)
	CloseCycle(ctx context.Context, householdID, cycleID string, now time.Time) (*models.PayCycle, error)
	UnlockCycle(ctx context.Context, householdID, cycleID string) (*models.PayCycle, error)
	CompleteCycle(ctx context.Context, householdID, cycleID string, today time.Time) (*SwitchoverResult, error)
	GetCurrentCycle(ctx context.Context, householdID string) (*models.PayCycle, error)
	ListActiveCyclesEndingBy(ctx context.Context, date time.Time) ([]models.PayCycle, error)
	GetCycle(ctx context.Context, householdID, cycleID string) (*models.PayCycle, error)
	ListCycles(ctx context.Context, householdID string, page pagination.PageRequest, filter CycleFilter) (*pagination.PageResponse[models.PayCycle], error)
	RecalculateAllocations(ctx context.Context, householdID, cycleID string) (*models.PayCycle, error)
	MarkOverdueSeedsPaid(ctx context.Context, householdID, cycleID string, today time.Time) (int, error)
	IncomeEvents(ctx context.Context, householdID, cycleID string) (*income.Projection, error)
}

// RepaymentForecast is the projection of a debt across future cycles.
type RepaymentForecast struct {
	RepaymentID     string              `json:"repayment_id"`
	CurrentBalance  decimal.Decimal     `json:"current_balance"`
	AmountPerCycle  decimal.Decimal     `json:"amount_per_cycle"`
	IncludeInterest bool                `json:"include_interest"`
	EffectiveStart  time.Time           `json:"effective_start"`
	CyclesToClear   int                 `json:"cycles_to_clear"`
	PayoffDate      *time.Time          `json:"payoff_date"`
	SuggestedAmount *decimal.Decimal    `json:"suggested_amount"`
	TargetCycleEnd  *time.Time          `json:"target_cycle_end,omitempty"`
	Cost            forecast.Cost       `json:"cost"`
	Progress        decimal.Decimal     `json:"progress_percent"`
	Projection      []forecast.Point    `json:"projection"`
	InterestRate    decimal.NullDecimal `json:"interest_rate"`
}

// PotForecast is the projection of a savings pot across future cycles.
type PotForecast struct {
	PotID           string           `json:"pot_id"`
	CurrentAmount   decimal.Decimal  `json:"current_amount"`
	TargetAmount    decimal.Decimal  `json:"target_amount"`
	AmountPerCycle  decimal.Decimal  `json:"amount_per_cycle"`
	EffectiveStart  time.Time        `json:"effective_start"`
	CyclesToGoal    int              `json:"cycles_to_goal"`
	GoalDate        *time.Time       `json:"goal_date"`
	SuggestedAmount *decimal.Decimal `json:"suggested_amount"`
	TargetCycleEnd  *time.Time       `json:"target_cycle_end,omitempty"`
	Progress        decimal.Decimal  `json:"progress_percent"`
	Projection      []forecast.Point `json:"projection"`
}

// ForecastRequest parameterizes a forecast. A nil AmountPerCycle uses the
// recurring seed linked to the pot or repayment in the current cycle, then
// the suggested amount.
type ForecastRequest struct {
	AmountPerCycle  *decimal.Decimal
	IncludeInterest bool
	Today           time.Time
}

// LockInInput fixes a per-cycle amount for a pot or repayment.
type LockInInput struct {
	PotID       *string
	RepaymentID *string
	Amount      decimal.Decimal
}

// ForecastServicer defines the contract for pot and repayment forecasts.
type ForecastServicer interface {
	ForecastRepayment(householdID, repaymentID string, req ForecastRequest) (*RepaymentForecast, error)
	ForecastPot(householdID, potID string, req ForecastRequest) (*PotForecast, error)
	LockIn(householdID string, in LockInInput) (*models.Seed, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, householdID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
