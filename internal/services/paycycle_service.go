package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"payday/internal/allocation"
	"payday/internal/cycledate"
	apperrors "payday/internal/errors"
	"payday/internal/income"
	"payday/internal/logger"
	"payday/internal/models"
	"payday/internal/pagination"
	"payday/internal/split"
)

var liveStatuses = []models.PayCycleStatus{models.PayCycleStatusDraft, models.PayCycleStatusActive}

// payCycleService handles the pay cycle lifecycle.
type payCycleService struct {
	db *gorm.DB
}

// NewPayCycleService creates a new PayCycleServicer.
func NewPayCycleService(db *gorm.DB) PayCycleServicer {
	return &payCycleService{db: db}
}

// StartFirstCycle creates the household's first active cycle: the cycle that
// contains today under the household's pay rule.
func (s *payCycleService) StartFirstCycle(ctx context.Context, householdID string, today time.Time) (*models.PayCycle, error) {
	var created *models.PayCycle
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		household, err := lockHousehold(tx, householdID)
		if err != nil {
			return err
		}

		r, err := cycledate.Current(cycledate.FromHousehold(household), today)
		if err != nil {
			return apperrors.WithMessage(apperrors.ErrInvalidPayCycleConfig, err.Error())
		}

		live, err := liveCycles(tx, householdID)
		if err != nil {
			return err
		}
		if err := checkNewCycle(live, r, models.PayCycleStatusActive); err != nil {
			return err
		}

		projection, err := projectIncome(tx, household, r)
		if err != nil {
			return err
		}

		cycle := newCycle(householdID, r, models.PayCycleStatusActive)
		projection.Apply(cycle)
		if err := insertCycle(tx, cycle); err != nil {
			return err
		}
		created = cycle
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.ForHousehold(householdID).Infow("first pay cycle started",
		"cycle_id", created.ID,
		"start_date", created.StartDate.Format(time.DateOnly),
		"end_date", created.EndDate.Format(time.DateOnly),
	)
	return created, nil
}

// CreateNextCycle creates the cycle that follows currentCycleID, carrying its
// recurring seeds forward. The household row is locked for the duration of
// the transaction and the new cycle is only inserted when no live cycle of
// the household already covers its start date, so repeated calls for the
// same source cycle fail with PAYCYCLE_ALREADY_EXISTS instead of creating
// duplicates.
func (s *payCycleService) CreateNextCycle(ctx context.Context, householdID, currentCycleID string, status models.PayCycleStatus) (*models.PayCycle, error) {
	if status == "" {
		status = models.PayCycleStatusDraft
	}
	if status != models.PayCycleStatusDraft && status != models.PayCycleStatusActive {
		return nil, apperrors.ErrInvalidCycleStatus
	}

	var created *models.PayCycle
	var carried int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		household, err := lockHousehold(tx, householdID)
		if err != nil {
			return err
		}
		current, err := findCycle(tx, householdID, currentCycleID)
		if err != nil {
			return err
		}

		plan, err := planNextCycle(tx, household, current, status)
		if err != nil {
			return err
		}

		live, err := liveCycles(tx, householdID)
		if err != nil {
			return err
		}
		if err := checkNewCycle(live, plan.rng, status); err != nil {
			return err
		}

		if err := plan.write(tx); err != nil {
			return err
		}
		created, carried = plan.cycle, len(plan.seeds)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.ForHousehold(householdID).Infow("pay cycle created",
		"cycle_id", created.ID,
		"from_cycle_id", currentCycleID,
		"status", created.Status,
		"start_date", created.StartDate.Format(time.DateOnly),
		"end_date", created.EndDate.Format(time.DateOnly),
		"seeds_carried", carried,
	)
	return created, nil
}

// ResyncDraftFromActive copies the recurring seeds of the active cycle into
// the draft. Seeds are matched on name and type: matches are updated in place
// keeping their id and paid state, the rest are inserted unpaid. Draft seeds
// without a counterpart are left alone. Running it twice in a row changes
// nothing the second time.
func (s *payCycleService) ResyncDraftFromActive(ctx context.Context, householdID, draftCycleID, activeCycleID string) (*models.PayCycle, error) {
	var draft *models.PayCycle
	var inserted, updated int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if draft, err = findCycle(tx, householdID, draftCycleID); err != nil {
			return err
		}
		if draft.Status != models.PayCycleStatusDraft {
			return apperrors.ErrNotDraftCycle
		}
		active, err := findCycle(tx, householdID, activeCycleID)
		if err != nil {
			return err
		}
		if active.Status != models.PayCycleStatusActive {
			return apperrors.ErrNotActiveCycle
		}

		templates, err := recurringSeeds(tx, active.ID)
		if err != nil {
			return err
		}
		var existing []models.Seed
		if err := tx.Where("pay_cycle_id = ?", draft.ID).Order("created_at, id").Find(&existing).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		byKey := make(map[string][]*models.Seed, len(existing))
		for i := range existing {
			k := existing[i].Key()
			byKey[k] = append(byKey[k], &existing[i])
		}

		rng := cycleRange(draft)
		var inserts []models.Seed
		for i := range templates {
			tmpl := &templates[i]
			k := tmpl.Key()
			if len(byKey[k]) == 0 {
				inserts = append(inserts, cloneSeed(tmpl, draft))
				continue
			}
			target := byKey[k][0]
			byKey[k] = byKey[k][1:]

			changes := resyncChanges(target, tmpl, rng)
			if len(changes) == 0 {
				continue
			}
			if err := tx.Model(target).Updates(changes).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			updated++
		}

		if len(inserts) > 0 {
			if err := tx.Create(&inserts).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			inserted = len(inserts)
		}

		return refreshAllocations(tx, draft)
	})
	if err != nil {
		return nil, err
	}

	logger.ForHousehold(householdID).Infow("draft resynced",
		"draft_cycle_id", draftCycleID,
		"active_cycle_id", activeCycleID,
		"inserted", inserted,
		"updated", updated,
	)
	return draft, nil
}

// resyncChanges returns the column updates that make target match tmpl.
// An empty map means the seeds already agree.
func resyncChanges(target, tmpl *models.Seed, rng cycledate.Range) map[string]interface{} {
	changes := map[string]interface{}{}
	if !target.Amount.Equal(tmpl.Amount) {
		changes["amount"] = tmpl.Amount
	}
	if target.PaymentSource != tmpl.PaymentSource {
		changes["payment_source"] = tmpl.PaymentSource
	}
	if !target.AmountMe.Equal(tmpl.AmountMe) {
		changes["amount_me"] = tmpl.AmountMe
	}
	if !target.AmountPartner.Equal(tmpl.AmountPartner) {
		changes["amount_partner"] = tmpl.AmountPartner
	}
	if !sameNullDecimal(target.SplitRatio, tmpl.SplitRatio) {
		changes["split_ratio"] = tmpl.SplitRatio
	}
	if target.UsesJointAccount != tmpl.UsesJointAccount {
		changes["uses_joint_account"] = tmpl.UsesJointAccount
	}
	if !sameString(target.LinkedPotID, tmpl.LinkedPotID) {
		changes["linked_pot_id"] = tmpl.LinkedPotID
	}
	if !sameString(target.LinkedRepaymentID, tmpl.LinkedRepaymentID) {
		changes["linked_repayment_id"] = tmpl.LinkedRepaymentID
	}
	if due := cycledate.RollDueDate(tmpl.DueDate, rng); !sameDate(target.DueDate, due) {
		changes["due_date"] = due
	}
	if !target.IsRecurring {
		changes["is_recurring"] = true
	}
	return changes
}

// CloseCycle marks the payday ritual of an active cycle as done.
func (s *payCycleService) CloseCycle(ctx context.Context, householdID, cycleID string, now time.Time) (*models.PayCycle, error) {
	db := s.db.WithContext(ctx)
	cycle, err := findCycle(db, householdID, cycleID)
	if err != nil {
		return nil, err
	}
	if cycle.Status != models.PayCycleStatusActive {
		return nil, apperrors.ErrNotActiveCycle
	}
	if cycle.RitualClosedAt != nil {
		return nil, apperrors.ErrCycleAlreadyClosed
	}

	closedAt := now.UTC()
	if err := db.Model(cycle).Update("ritual_closed_at", closedAt).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	cycle.RitualClosedAt = &closedAt
	return cycle, nil
}

// UnlockCycle reopens the payday ritual of an active cycle.
func (s *payCycleService) UnlockCycle(ctx context.Context, householdID, cycleID string) (*models.PayCycle, error) {
	db := s.db.WithContext(ctx)
	cycle, err := findCycle(db, householdID, cycleID)
	if err != nil {
		return nil, err
	}
	if cycle.Status != models.PayCycleStatusActive {
		return nil, apperrors.ErrNotActiveCycle
	}
	if cycle.RitualClosedAt == nil {
		return nil, apperrors.ErrCycleNotClosed
	}

	if err := db.Model(cycle).Update("ritual_closed_at", nil).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	cycle.RitualClosedAt = nil
	return cycle, nil
}

// CompleteCycle retires an active cycle whose end date has passed. The
// household's draft becomes the active cycle; without a draft the next cycle
// is created directly as active.
func (s *payCycleService) CompleteCycle(ctx context.Context, householdID, cycleID string, today time.Time) (*SwitchoverResult, error) {
	today = cycledate.Truncate(today)
	result := &SwitchoverResult{}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		household, err := lockHousehold(tx, householdID)
		if err != nil {
			return err
		}
		cycle, err := findCycle(tx, householdID, cycleID)
		if err != nil {
			return err
		}
		if cycle.Status != models.PayCycleStatusActive {
			return apperrors.ErrNotActiveCycle
		}
		if !cycle.EndDate.Before(today) {
			return apperrors.ErrCycleNotEnded
		}

		var draft models.PayCycle
		err = tx.Where("household_id = ? AND status = ?", householdID, models.PayCycleStatusDraft).
			Order("start_date").First(&draft).Error
		hasDraft := err == nil
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		var plan *nextCyclePlan
		if !hasDraft {
			if plan, err = planNextCycle(tx, household, cycle, models.PayCycleStatusActive); err != nil {
				return err
			}
		}

		completedAt := time.Now().UTC()
		if err := tx.Model(cycle).Updates(map[string]interface{}{
			"status":       models.PayCycleStatusCompleted,
			"completed_at": completedAt,
		}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		cycle.Status = models.PayCycleStatusCompleted
		cycle.CompletedAt = &completedAt
		result.Completed = cycle

		if hasDraft {
			if err := tx.Model(&draft).Update("status", models.PayCycleStatusActive).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			draft.Status = models.PayCycleStatusActive
			result.Active = &draft
			result.Promoted = true
			return nil
		}

		if err := plan.write(tx); err != nil {
			return err
		}
		result.Active = plan.cycle
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.ForHousehold(householdID).Infow("pay cycle completed",
		"completed_cycle_id", result.Completed.ID,
		"active_cycle_id", result.Active.ID,
		"promoted_draft", result.Promoted,
	)
	return result, nil
}

// GetCurrentCycle returns the household's active cycle.
func (s *payCycleService) GetCurrentCycle(ctx context.Context, householdID string) (*models.PayCycle, error) {
	var cycle models.PayCycle
	err := s.db.WithContext(ctx).
		Where("household_id = ? AND status = ?", householdID, models.PayCycleStatusActive).
		First(&cycle).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNoActiveCycle
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &cycle, nil
}

// ListActiveCyclesEndingBy returns the active cycles of every household whose
// end date is on or before date, earliest end first.
func (s *payCycleService) ListActiveCyclesEndingBy(ctx context.Context, date time.Time) ([]models.PayCycle, error) {
	var cycles []models.PayCycle
	err := s.db.WithContext(ctx).
		Where("status = ? AND end_date <= ?", models.PayCycleStatusActive, cycledate.Truncate(date)).
		Order("end_date, household_id").
		Find(&cycles).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return cycles, nil
}

// GetCycle returns a cycle of the household.
func (s *payCycleService) GetCycle(ctx context.Context, householdID, cycleID string) (*models.PayCycle, error) {
	return findCycle(s.db.WithContext(ctx), householdID, cycleID)
}

// ListCycles returns the household's cycles, most recent first.
func (s *payCycleService) ListCycles(ctx context.Context, householdID string, page pagination.PageRequest, filter CycleFilter) (*pagination.PageResponse[models.PayCycle], error) {
	base := s.db.WithContext(ctx).Model(&models.PayCycle{}).Scopes(models.OwnedBy(householdID))
	if filter.Status != nil {
		base = base.Where("status = ?", *filter.Status)
	}

	result, err := pagination.Find[models.PayCycle](base, page, "start_date DESC")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return result, nil
}

// RecalculateAllocations re-aggregates the seeds of a cycle and stores the totals.
func (s *payCycleService) RecalculateAllocations(ctx context.Context, householdID, cycleID string) (*models.PayCycle, error) {
	var cycle *models.PayCycle
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if cycle, err = findCycle(tx, householdID, cycleID); err != nil {
			return err
		}
		return refreshAllocations(tx, cycle)
	})
	if err != nil {
		return nil, err
	}
	return cycle, nil
}

// MarkOverdueSeedsPaid marks every unpaid seed of the cycle whose due date
// is before today as paid, and returns how many seeds changed.
func (s *payCycleService) MarkOverdueSeedsPaid(ctx context.Context, householdID, cycleID string, today time.Time) (int, error) {
	today = cycledate.Truncate(today)
	var marked int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cycle, err := findCycle(tx, householdID, cycleID)
		if err != nil {
			return err
		}
		if cycle.Status == models.PayCycleStatusCompleted {
			return apperrors.ErrCycleCompleted
		}

		var overdue []models.Seed
		err = tx.Where("pay_cycle_id = ? AND due_date IS NOT NULL AND due_date < ? AND is_paid = ?", cycle.ID, today, false).
			Find(&overdue).Error
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if len(overdue) == 0 {
			return nil
		}

		for i := range overdue {
			if err := applyPaid(tx, &overdue[i], PayerBoth, true); err != nil {
				return err
			}
		}
		marked = len(overdue)
		return refreshAllocations(tx, cycle)
	})
	if err != nil {
		return 0, err
	}

	if marked > 0 {
		logger.ForHousehold(householdID).Infow("overdue seeds marked paid", "cycle_id", cycleID, "count", marked)
	}
	return marked, nil
}

// IncomeEvents lists the income payments expected inside a cycle.
func (s *payCycleService) IncomeEvents(ctx context.Context, householdID, cycleID string) (*income.Projection, error) {
	db := s.db.WithContext(ctx)
	cycle, err := findCycle(db, householdID, cycleID)
	if err != nil {
		return nil, err
	}
	household, err := findHousehold(db, householdID)
	if err != nil {
		return nil, err
	}
	projection, err := projectIncome(db, household, cycleRange(cycle))
	if err != nil {
		return nil, err
	}
	return &projection, nil
}

// nextCyclePlan is everything needed to insert the cycle after another one,
// gathered before anything is written.
type nextCyclePlan struct {
	rng   cycledate.Range
	cycle *models.PayCycle
	seeds []models.Seed
}

func planNextCycle(tx *gorm.DB, household *models.Household, current *models.PayCycle, status models.PayCycleStatus) (*nextCyclePlan, error) {
	rng, err := cycledate.Next(current.EndDate, cycledate.FromHousehold(household))
	if err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidPayCycleConfig, err.Error())
	}

	projection, err := projectIncome(tx, household, rng)
	if err != nil {
		return nil, err
	}
	templates, err := recurringSeeds(tx, current.ID)
	if err != nil {
		return nil, err
	}

	cycle := newCycle(household.ID, rng, status)
	if projection.HasSources() {
		projection.Apply(cycle)
	} else {
		income.CarryForward(current, cycle)
	}

	return &nextCyclePlan{rng: rng, cycle: cycle, seeds: templates}, nil
}

func (p *nextCyclePlan) write(tx *gorm.DB) error {
	if err := insertCycle(tx, p.cycle); err != nil {
		return err
	}

	if len(p.seeds) > 0 {
		clones := make([]models.Seed, 0, len(p.seeds))
		for i := range p.seeds {
			clones = append(clones, cloneSeed(&p.seeds[i], p.cycle))
		}
		if err := tx.Create(&clones).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		p.seeds = clones
	}

	return refreshAllocations(tx, p.cycle)
}

// checkNewCycle enforces one draft and one active cycle per household and
// refuses a cycle that overlaps a live one.
func checkNewCycle(live []models.PayCycle, rng cycledate.Range, status models.PayCycleStatus) error {
	for i := range live {
		c := &live[i]
		if c.StartDate.Equal(rng.Start) || (!c.StartDate.After(rng.End) && !c.EndDate.Before(rng.Start)) {
			return apperrors.ErrPayCycleExists
		}
	}
	for i := range live {
		if live[i].Status == status {
			if status == models.PayCycleStatusDraft {
				return apperrors.ErrDraftExists
			}
			return apperrors.ErrActiveCycleExists
		}
	}
	return nil
}

func newCycle(householdID string, rng cycledate.Range, status models.PayCycleStatus) *models.PayCycle {
	cycle := &models.PayCycle{
		HouseholdID: householdID,
		Name:        cycleName(rng),
		Status:      status,
		StartDate:   rng.Start,
		EndDate:     rng.End,
	}
	allocation.Aggregate(nil).Apply(cycle)
	income.Projection{}.Apply(cycle)
	return cycle
}

func cycleName(rng cycledate.Range) string {
	return fmt.Sprintf("%s - %s", rng.Start.Format("2 Jan"), rng.End.Format("2 Jan 2006"))
}

func insertCycle(tx *gorm.DB, cycle *models.PayCycle) error {
	if err := tx.Create(cycle).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.ErrPayCycleExists
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func cloneSeed(src *models.Seed, cycle *models.PayCycle) models.Seed {
	return models.Seed{
		HouseholdID:       cycle.HouseholdID,
		PayCycleID:        cycle.ID,
		Name:              src.Name,
		Type:              src.Type,
		Amount:            src.Amount,
		PaymentSource:     src.PaymentSource,
		AmountMe:          src.AmountMe,
		AmountPartner:     src.AmountPartner,
		SplitRatio:        src.SplitRatio,
		UsesJointAccount:  src.UsesJointAccount,
		IsRecurring:       true,
		DueDate:           cycledate.RollDueDate(src.DueDate, cycleRange(cycle)),
		LinkedPotID:       copyString(src.LinkedPotID),
		LinkedRepaymentID: copyString(src.LinkedRepaymentID),
	}
}

// refreshAllocations recomputes and stores the aggregate columns of a cycle.
func refreshAllocations(tx *gorm.DB, cycle *models.PayCycle) error {
	var seeds []models.Seed
	if err := tx.Where("pay_cycle_id = ?", cycle.ID).Find(&seeds).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	totals := allocation.Aggregate(seeds)
	if err := tx.Model(&models.PayCycle{}).Where("id = ?", cycle.ID).Updates(totals.Updates()).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	totals.Apply(cycle)
	return nil
}

func projectIncome(tx *gorm.DB, household *models.Household, rng cycledate.Range) (income.Projection, error) {
	var sources []models.IncomeSource
	if err := tx.Where("household_id = ? AND is_active = ?", household.ID, true).Order("created_at").Find(&sources).Error; err != nil {
		return income.Projection{}, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	projection := income.Project(rng.Start, rng.End, sources, split.Household(household))
	if len(projection.Skipped) > 0 {
		logger.ForHousehold(household.ID).Warnw("income sources with incomplete rules skipped", "source_ids", projection.Skipped)
	}
	return projection, nil
}

func recurringSeeds(tx *gorm.DB, cycleID string) ([]models.Seed, error) {
	var seeds []models.Seed
	if err := tx.Where("pay_cycle_id = ? AND is_recurring = ?", cycleID, true).Order("created_at, id").Find(&seeds).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return seeds, nil
}

func liveCycles(tx *gorm.DB, householdID string) ([]models.PayCycle, error) {
	var live []models.PayCycle
	if err := tx.Where("household_id = ? AND status IN ?", householdID, liveStatuses).Find(&live).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return live, nil
}

func findCycle(db *gorm.DB, householdID, cycleID string) (*models.PayCycle, error) {
	var cycle models.PayCycle
	if err := db.Where("id = ? AND household_id = ?", cycleID, householdID).First(&cycle).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPayCycleNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &cycle, nil
}

func findHousehold(db *gorm.DB, householdID string) (*models.Household, error) {
	var household models.Household
	if err := db.Where("id = ?", householdID).First(&household).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrHouseholdNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &household, nil
}

// lockHousehold loads a household with a row lock so that lifecycle
// operations on the same household run one at a time.
func lockHousehold(tx *gorm.DB, householdID string) (*models.Household, error) {
	return findHousehold(tx.Clauses(clause.Locking{Strength: "UPDATE"}), householdID)
}

func cycleRange(c *models.PayCycle) cycledate.Range {
	return cycledate.Range{Start: cycledate.Truncate(c.StartDate), End: cycledate.Truncate(c.EndDate)}
}
