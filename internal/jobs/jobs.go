// Package jobs runs the scheduled pay cycle work: switching households over
// to their next cycle and sending payday reminders.
package jobs

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"payday/internal/cycledate"
	apperrors "payday/internal/errors"
	"payday/internal/logger"
	"payday/internal/models"
	"payday/internal/notify"
	"payday/internal/services"
)

// maxCatchUp bounds how many cycles one household is advanced in a single run.
const maxCatchUp = 24

// CycleService is the part of the pay cycle service the jobs need.
type CycleService interface {
	ListActiveCyclesEndingBy(ctx context.Context, date time.Time) ([]models.PayCycle, error)
	CompleteCycle(ctx context.Context, householdID, cycleID string, today time.Time) (*services.SwitchoverResult, error)
}

// HouseholdFailure records a household a job could not process.
type HouseholdFailure struct {
	HouseholdID string `json:"household_id"`
	Error       string `json:"error"`
}

// SwitchoverReport summarizes a switchover run.
type SwitchoverReport struct {
	Checked   int                `json:"checked"`
	Completed int                `json:"completed"`
	Failed    []HouseholdFailure `json:"failed"`
}

// ReminderReport summarizes a reminder run.
type ReminderReport struct {
	Sent   int                `json:"sent"`
	Failed []HouseholdFailure `json:"failed"`
}

// Runner executes the jobs.
type Runner struct {
	cycles      CycleService
	publisher   notify.Publisher
	concurrency int
}

// NewRunner creates a Runner. Concurrency below one is treated as one.
func NewRunner(cycles CycleService, publisher notify.Publisher, concurrency int) *Runner {
	return &Runner{cycles: cycles, publisher: publisher, concurrency: max(concurrency, 1)}
}

// Switchover completes every active cycle that ended before today. A household
// that fell several cycles behind is advanced until its active cycle contains
// today. Failures are isolated per household and reported, not returned.
func (r *Runner) Switchover(ctx context.Context, today time.Time) (*SwitchoverReport, error) {
	today = cycledate.Truncate(today)
	due, err := r.cycles.ListActiveCyclesEndingBy(ctx, today.AddDate(0, 0, -1))
	if err != nil {
		return nil, err
	}

	report := &SwitchoverReport{Checked: len(due), Failed: []HouseholdFailure{}}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for _, cycle := range due {
		g.Go(func() error {
			completed, err := r.switchHousehold(gctx, cycle, today)

			mu.Lock()
			defer mu.Unlock()
			report.Completed += completed
			if err != nil {
				logger.ForHousehold(cycle.HouseholdID).Errorw("switchover failed",
					"paycycle_id", cycle.ID,
					"error", err,
				)
				report.Failed = append(report.Failed, HouseholdFailure{HouseholdID: cycle.HouseholdID, Error: err.Error()})
			}
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(report.Failed, func(i, j int) bool {
		return report.Failed[i].HouseholdID < report.Failed[j].HouseholdID
	})
	logger.Get().Infow("switchover run finished",
		"checked", report.Checked,
		"completed", report.Completed,
		"failed", len(report.Failed),
	)
	return report, nil
}

func (r *Runner) switchHousehold(ctx context.Context, cycle models.PayCycle, today time.Time) (int, error) {
	cycleID := cycle.ID
	completed := 0
	for range maxCatchUp {
		if err := ctx.Err(); err != nil {
			return completed, err
		}

		result, err := r.cycles.CompleteCycle(ctx, cycle.HouseholdID, cycleID, today)
		if err != nil {
			// Another caller switched the household first.
			if errors.Is(err, apperrors.ErrNotActiveCycle) || errors.Is(err, apperrors.ErrCycleNotEnded) {
				return completed, nil
			}
			return completed, err
		}
		completed++

		msg := notify.CycleSwitched{
			HouseholdID:      cycle.HouseholdID,
			CompletedCycleID: result.Completed.ID,
			ActiveCycleID:    result.Active.ID,
			Promoted:         result.Promoted,
			Timestamp:        time.Now().UTC(),
		}
		if err := r.publisher.PublishSwitched(ctx, msg); err != nil {
			logger.ForHousehold(cycle.HouseholdID).Warnw("failed to publish switchover event", "error", err)
		}

		if !result.Active.EndDate.Before(today) {
			return completed, nil
		}
		cycleID = result.Active.ID
	}

	logger.ForHousehold(cycle.HouseholdID).Warnw("switchover stopped before reaching today",
		"cycles_completed", completed,
	)
	return completed, nil
}

// PaydayReminders publishes a reminder for every active cycle ending today or
// tomorrow.
func (r *Runner) PaydayReminders(ctx context.Context, today time.Time) (*ReminderReport, error) {
	today = cycledate.Truncate(today)
	tomorrow := today.AddDate(0, 0, 1)

	cycles, err := r.cycles.ListActiveCyclesEndingBy(ctx, tomorrow)
	if err != nil {
		return nil, err
	}

	report := &ReminderReport{Failed: []HouseholdFailure{}}
	for _, cycle := range cycles {
		end := cycledate.Truncate(cycle.EndDate)
		if end.Before(today) {
			continue
		}
		when := notify.WhenTomorrow
		if end.Equal(today) {
			when = notify.WhenToday
		}

		err := r.publisher.PublishReminder(ctx, notify.PaydayReminder{
			HouseholdID: cycle.HouseholdID,
			PayCycleID:  cycle.ID,
			CycleName:   cycle.Name,
			EndDate:     end,
			When:        when,
			Timestamp:   time.Now().UTC(),
		})
		if err != nil {
			logger.ForHousehold(cycle.HouseholdID).Errorw("failed to publish payday reminder",
				"paycycle_id", cycle.ID,
				"error", err,
			)
			report.Failed = append(report.Failed, HouseholdFailure{HouseholdID: cycle.HouseholdID, Error: err.Error()})
			continue
		}
		report.Sent++
	}

	logger.Get().Infow("payday reminder run finished", "sent", report.Sent, "failed", len(report.Failed))
	return report, nil
}

// Loop runs the switchover immediately and then on every tick, and the payday
// reminders once per day, until ctx is cancelled.
func (r *Runner) Loop(ctx context.Context, interval time.Duration, now func() time.Time) error {
	var remindedOn time.Time
	tick := func() {
		today := cycledate.Truncate(now())
		if _, err := r.Switchover(ctx, today); err != nil {
			logger.Get().Errorw("switchover run failed", "error", err)
		}
		if remindedOn.Equal(today) {
			return
		}
		if _, err := r.PaydayReminders(ctx, today); err != nil {
			logger.Get().Errorw("payday reminder run failed", "error", err)
			return
		}
		remindedOn = today
	}

	tick()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			tick()
		}
	}
}
