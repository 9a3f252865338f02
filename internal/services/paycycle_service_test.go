package services

import (
	"context"
	"errors"
	"testing"

	"payday/internal/models"
	"payday/internal/pagination"
	"payday/internal/testutil"

	"gorm.io/gorm"
)

// startedHousehold creates a household paid on the 25th with two salaries and
// starts its first cycle, 23 Jan - 24 Feb 2026.
func startedHousehold(t *testing.T, db *gorm.DB) (*models.Household, *models.PayCycle) {
	t.Helper()
	household := testutil.CreateTestHousehold(t, db)
	testutil.CreateTestIncomeSource(t, db, household.ID, "2500", models.PaymentSourceMe, 25)
	testutil.CreateTestIncomeSource(t, db, household.ID, "2000", models.PaymentSourcePartner, 25)

	cycle, err := NewPayCycleService(db).StartFirstCycle(context.Background(), household.ID, testutil.Date(2026, 1, 30))
	testutil.AssertNoError(t, err)
	return household, cycle
}

func TestStartFirstCycle(t *testing.T) {
	t.Run("cycle_containing_today", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		_, cycle := startedHousehold(t, db)

		if !cycle.StartDate.Equal(testutil.Date(2026, 1, 23)) || !cycle.EndDate.Equal(testutil.Date(2026, 2, 24)) {
			t.Fatalf("expected 2026-01-23..2026-02-24, got %s..%s", cycle.StartDate, cycle.EndDate)
		}
		if cycle.Status != models.PayCycleStatusActive {
			t.Errorf("expected active status, got %s", cycle.Status)
		}
		if cycle.Name != "23 Jan - 24 Feb 2026" {
			t.Errorf("unexpected name %q", cycle.Name)
		}
		testutil.AssertDecimal(t, "TotalIncome", cycle.TotalIncome, "4500")
		testutil.AssertDecimal(t, "SnapshotUserIncome", cycle.SnapshotUserIncome, "2500")
		testutil.AssertDecimal(t, "SnapshotPartnerIncome", cycle.SnapshotPartnerIncome, "2000")
	})

	t.Run("second_start_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		household, _ := startedHousehold(t, db)

		_, err := NewPayCycleService(db).StartFirstCycle(context.Background(), household.ID, testutil.Date(2026, 2, 2))
		testutil.AssertAppError(t, err, "PAYCYCLE_ALREADY_EXISTS")
	})

	t.Run("unknown_household", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		_, err := NewPayCycleService(db).StartFirstCycle(context.Background(), testutil.NewUserID(), testutil.Date(2026, 1, 30))
		testutil.AssertAppError(t, err, "HOUSEHOLD_NOT_FOUND")
	})
}

func TestCreateNextCycle(t *testing.T) {
	t.Run("carries_recurring_seeds", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPayCycleService(db)

		_, active := startedHousehold(t, db)
		testutil.CreateTestSeed(t, db, active, "Rent", models.SeedTypeNeed, "1000", models.PaymentSourceJoint, true)
		testutil.CreateTestSeed(t, db, active, "Coffee", models.SeedTypeWant, "50", models.PaymentSourceMe, false)

		draft, err := svc.CreateNextCycle(context.Background(), active.HouseholdID, active.ID, models.PayCycleStatusDraft)
		testutil.AssertNoError(t, err)

		if !draft.StartDate.Equal(testutil.Date(2026, 2, 25)) || !draft.EndDate.Equal(testutil.Date(2026, 3, 24)) {
			t.Fatalf("expected 2026-02-25..2026-03-24, got %s..%s", draft.StartDate, draft.EndDate)
		}
		if draft.Status != models.PayCycleStatusDraft {
			t.Errorf("expected draft status, got %s", draft.Status)
		}

		var seeds []models.Seed
		db.Where("pay_cycle_id = ?", draft.ID).Find(&seeds)
		if len(seeds) != 1 {
			t.Fatalf("expected 1 carried seed, got %d", len(seeds))
		}
		if seeds[0].Name != "Rent" || !seeds[0].IsRecurring || seeds[0].IsPaid {
			t.Errorf("unexpected carried seed %+v", seeds[0])
		}
		testutil.AssertDecimal(t, "TotalAllocated", draft.TotalAllocated, "1000")
		if !draft.AllocNeedsMe.Equal(testutil.Dec(t, "500")) || !draft.AllocNeedsPartner.Equal(testutil.Dec(t, "500")) {
			t.Errorf("expected 500/500 needs split, got %s/%s", draft.AllocNeedsMe, draft.AllocNeedsPartner)
		}
		testutil.AssertDecimal(t, "TotalIncome", draft.TotalIncome, "4500")
	})

	t.Run("carries_income_forward_without_sources", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPayCycleService(db)

		household, active := startedHousehold(t, db)
		db.Model(&models.IncomeSource{}).Where("household_id = ?", household.ID).Update("is_active", false)

		draft, err := svc.CreateNextCycle(context.Background(), household.ID, active.ID, models.PayCycleStatusDraft)
		testutil.AssertNoError(t, err)

		testutil.AssertDecimal(t, "TotalIncome", draft.TotalIncome, active.TotalIncome.String())
		testutil.AssertDecimal(t, "SnapshotUserIncome", draft.SnapshotUserIncome, active.SnapshotUserIncome.String())
		testutil.AssertDecimal(t, "SnapshotPartnerIncome", draft.SnapshotPartnerIncome, active.SnapshotPartnerIncome.String())
		testutil.AssertDecimal(t, "TotalIncome", draft.TotalIncome, "4500")
	})

	t.Run("repeated_call_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPayCycleService(db)

		_, active := startedHousehold(t, db)
		_, err := svc.CreateNextCycle(context.Background(), active.HouseholdID, active.ID, models.PayCycleStatusDraft)
		testutil.AssertNoError(t, err)

		_, err = svc.CreateNextCycle(context.Background(), active.HouseholdID, active.ID, models.PayCycleStatusDraft)
		testutil.AssertAppError(t, err, "PAYCYCLE_ALREADY_EXISTS")

		var count int64
		db.Model(&models.PayCycle{}).Where("household_id = ?", active.HouseholdID).Count(&count)
		if count != 2 {
			t.Errorf("expected 2 cycles, got %d", count)
		}
	})

	t.Run("second_draft_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPayCycleService(db)

		_, active := startedHousehold(t, db)
		draft, err := svc.CreateNextCycle(context.Background(), active.HouseholdID, active.ID, models.PayCycleStatusDraft)
		testutil.AssertNoError(t, err)

		_, err = svc.CreateNextCycle(context.Background(), active.HouseholdID, draft.ID, models.PayCycleStatusDraft)
		testutil.AssertAppError(t, err, "DRAFT_ALREADY_EXISTS")
	})

	t.Run("second_active_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPayCycleService(db)

		_, active := startedHousehold(t, db)

		_, err := svc.CreateNextCycle(context.Background(), active.HouseholdID, active.ID, models.PayCycleStatusActive)
		testutil.AssertAppError(t, err, "ACTIVE_CYCLE_EXISTS")
	})

	t.Run("invalid_status", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPayCycleService(db)

		_, active := startedHousehold(t, db)

		_, err := svc.CreateNextCycle(context.Background(), active.HouseholdID, active.ID, models.PayCycleStatusCompleted)
		testutil.AssertAppError(t, err, "INVALID_CYCLE_STATUS")
	})

	t.Run("other_household", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPayCycleService(db)

		_, active := startedHousehold(t, db)
		other := testutil.CreateTestHousehold(t, db)

		_, err := svc.CreateNextCycle(context.Background(), other.ID, active.ID, models.PayCycleStatusDraft)
		testutil.AssertAppError(t, err, "PAYCYCLE_NOT_FOUND")
	})

	t.Run("rolls_due_dates", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPayCycleService(db)

		_, active := startedHousehold(t, db)
		seed := testutil.CreateTestSeed(t, db, active, "Phone", models.SeedTypeNeed, "30", models.PaymentSourceMe, true)
		db.Model(seed).Update("due_date", testutil.Date(2026, 2, 3))

		draft, err := svc.CreateNextCycle(context.Background(), active.HouseholdID, active.ID, "")
		testutil.AssertNoError(t, err)

		var carried models.Seed
		db.Where("pay_cycle_id = ?", draft.ID).First(&carried)
		if carried.DueDate == nil || !carried.DueDate.Equal(testutil.Date(2026, 3, 3)) {
			t.Errorf("expected due date 2026-03-03, got %v", carried.DueDate)
		}
	})
}

func TestCycleStartIndex(t *testing.T) {
	t.Run("live_cycles_share_no_start", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		_, active := startedHousehold(t, db)
		dup := &models.PayCycle{
			HouseholdID: active.HouseholdID,
			Name:        "duplicate",
			Status:      models.PayCycleStatusDraft,
			StartDate:   active.StartDate,
			EndDate:     active.EndDate,
		}
		if err := db.Create(dup).Error; !errors.Is(err, gorm.ErrDuplicatedKey) {
			t.Errorf("expected a duplicate key error, got %v", err)
		}
	})

	t.Run("completed_cycle_does_not_block_start", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		household := testutil.CreateTestHousehold(t, db)
		start, end := testutil.Date(2026, 1, 23), testutil.Date(2026, 2, 24)
		testutil.CreateTestPayCycle(t, db, household.ID, models.PayCycleStatusCompleted, start, end)
		draft := testutil.CreateTestPayCycle(t, db, household.ID, models.PayCycleStatusDraft, start, end)
		if draft.ID == "" {
			t.Error("expected the draft to be stored")
		}
	})
}

func TestResyncDraftFromActive(t *testing.T) {
	t.Run("updates_and_inserts", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPayCycleService(db)
		ctx := context.Background()

		_, active := startedHousehold(t, db)
		rent := testutil.CreateTestSeed(t, db, active, "Rent", models.SeedTypeNeed, "1000", models.PaymentSourceJoint, true)
		draft, err := svc.CreateNextCycle(ctx, active.HouseholdID, active.ID, models.PayCycleStatusDraft)
		testutil.AssertNoError(t, err)

		var draftRent models.Seed
		db.Where("pay_cycle_id = ? AND name = ?", draft.ID, "Rent").First(&draftRent)
		db.Model(&draftRent).Update("is_paid", true)

		db.Model(rent).Updates(map[string]interface{}{
			"amount":         testutil.Dec(t, "1200"),
			"amount_me":      testutil.Dec(t, "600"),
			"amount_partner": testutil.Dec(t, "600"),
		})
		testutil.CreateTestSeed(t, db, active, "Gym", models.SeedTypeWant, "40", models.PaymentSourceMe, true)
		testutil.CreateTestSeed(t, db, draft, "Holiday", models.SeedTypeSavings, "200", models.PaymentSourceMe, false)

		synced, err := svc.ResyncDraftFromActive(ctx, active.HouseholdID, draft.ID, active.ID)
		testutil.AssertNoError(t, err)

		var seeds []models.Seed
		db.Where("pay_cycle_id = ?", draft.ID).Order("name").Find(&seeds)
		if len(seeds) != 3 {
			t.Fatalf("expected 3 draft seeds, got %d", len(seeds))
		}

		var updated models.Seed
		db.First(&updated, "id = ?", draftRent.ID)
		testutil.AssertDecimal(t, "Amount", updated.Amount, "1200")
		if !updated.IsPaid {
			t.Error("expected paid state of the matched seed to be kept")
		}
		testutil.AssertDecimal(t, "TotalAllocated", synced.TotalAllocated, "1440")
	})

	t.Run("idempotent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPayCycleService(db)
		ctx := context.Background()

		_, active := startedHousehold(t, db)
		testutil.CreateTestSeed(t, db, active, "Rent", models.SeedTypeNeed, "1000", models.PaymentSourceJoint, true)
		draft, err := svc.CreateNextCycle(ctx, active.HouseholdID, active.ID, models.PayCycleStatusDraft)
		testutil.AssertNoError(t, err)
		testutil.CreateTestSeed(t, db, active, "Gym", models.SeedTypeWant, "40", models.PaymentSourceMe, true)

		first, err := svc.ResyncDraftFromActive(ctx, active.HouseholdID, draft.ID, active.ID)
		testutil.AssertNoError(t, err)
		second, err := svc.ResyncDraftFromActive(ctx, active.HouseholdID, draft.ID, active.ID)
		testutil.AssertNoError(t, err)

		var count int64
		db.Model(&models.Seed{}).Where("pay_cycle_id = ?", draft.ID).Count(&count)
		if count != 2 {
			t.Errorf("expected 2 draft seeds after two resyncs, got %d", count)
		}
		if !first.TotalAllocated.Equal(second.TotalAllocated) {
			t.Errorf("totals changed between resyncs: %s vs %s", first.TotalAllocated, second.TotalAllocated)
		}
	})

	t.Run("not_a_draft", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPayCycleService(db)

		_, active := startedHousehold(t, db)

		_, err := svc.ResyncDraftFromActive(context.Background(), active.HouseholdID, active.ID, active.ID)
		testutil.AssertAppError(t, err, "NOT_DRAFT_CYCLE")
	})
}

func TestCompleteCycle(t *testing.T) {
	t.Run("not_ended", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPayCycleService(db)

		_, active := startedHousehold(t, db)

		_, err := svc.CompleteCycle(context.Background(), active.HouseholdID, active.ID, testutil.Date(2026, 2, 24))
		testutil.AssertAppError(t, err, "CYCLE_NOT_ENDED")
	})

	t.Run("promotes_draft", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPayCycleService(db)
		ctx := context.Background()

		_, active := startedHousehold(t, db)
		draft, err := svc.CreateNextCycle(ctx, active.HouseholdID, active.ID, models.PayCycleStatusDraft)
		testutil.AssertNoError(t, err)

		result, err := svc.CompleteCycle(ctx, active.HouseholdID, active.ID, testutil.Date(2026, 2, 25))
		testutil.AssertNoError(t, err)

		if !result.Promoted {
			t.Error("expected the draft to be promoted")
		}
		if result.Active.ID != draft.ID {
			t.Errorf("expected active cycle %s, got %s", draft.ID, result.Active.ID)
		}
		if result.Completed.Status != models.PayCycleStatusCompleted || result.Completed.CompletedAt == nil {
			t.Errorf("expected completed cycle with timestamp, got %+v", result.Completed)
		}

		current, err := svc.GetCurrentCycle(ctx, active.HouseholdID)
		testutil.AssertNoError(t, err)
		if current.ID != draft.ID {
			t.Errorf("expected current cycle %s, got %s", draft.ID, current.ID)
		}
	})

	t.Run("creates_next_without_draft", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPayCycleService(db)
		ctx := context.Background()

		_, active := startedHousehold(t, db)
		testutil.CreateTestSeed(t, db, active, "Rent", models.SeedTypeNeed, "1000", models.PaymentSourceJoint, true)

		result, err := svc.CompleteCycle(ctx, active.HouseholdID, active.ID, testutil.Date(2026, 3, 1))
		testutil.AssertNoError(t, err)

		if result.Promoted {
			t.Error("expected a new cycle, not a promotion")
		}
		if result.Active.Status != models.PayCycleStatusActive {
			t.Errorf("expected active status, got %s", result.Active.Status)
		}
		if !result.Active.StartDate.Equal(testutil.Date(2026, 2, 25)) {
			t.Errorf("expected start 2026-02-25, got %s", result.Active.StartDate)
		}
		testutil.AssertDecimal(t, "TotalAllocated", result.Active.TotalAllocated, "1000")
	})

	t.Run("already_completed", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPayCycleService(db)
		ctx := context.Background()

		_, active := startedHousehold(t, db)
		_, err := svc.CompleteCycle(ctx, active.HouseholdID, active.ID, testutil.Date(2026, 3, 1))
		testutil.AssertNoError(t, err)

		_, err = svc.CompleteCycle(ctx, active.HouseholdID, active.ID, testutil.Date(2026, 3, 1))
		testutil.AssertAppError(t, err, "NOT_ACTIVE_CYCLE")
	})
}

func TestCloseAndUnlockCycle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewPayCycleService(db)
	ctx := context.Background()

	_, active := startedHousehold(t, db)

	_, err := svc.UnlockCycle(ctx, active.HouseholdID, active.ID)
	testutil.AssertAppError(t, err, "CYCLE_NOT_CLOSED")

	closed, err := svc.CloseCycle(ctx, active.HouseholdID, active.ID, testutil.Date(2026, 1, 24))
	testutil.AssertNoError(t, err)
	if closed.RitualClosedAt == nil {
		t.Fatal("expected ritual_closed_at to be set")
	}

	_, err = svc.CloseCycle(ctx, active.HouseholdID, active.ID, testutil.Date(2026, 1, 24))
	testutil.AssertAppError(t, err, "CYCLE_ALREADY_CLOSED")

	unlocked, err := svc.UnlockCycle(ctx, active.HouseholdID, active.ID)
	testutil.AssertNoError(t, err)
	if unlocked.RitualClosedAt != nil {
		t.Error("expected ritual_closed_at to be cleared")
	}
}

func TestMarkOverdueSeedsPaid(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewPayCycleService(db)
	ctx := context.Background()

	household, active := startedHousehold(t, db)
	pot := testutil.CreateTestPot(t, db, household.ID, "100", "1000")

	overdue := testutil.CreateTestSeed(t, db, active, "Holiday", models.SeedTypeSavings, "50", models.PaymentSourceMe, true)
	db.Model(overdue).Updates(map[string]interface{}{"due_date": testutil.Date(2026, 1, 28), "linked_pot_id": pot.ID})
	upcoming := testutil.CreateTestSeed(t, db, active, "Insurance", models.SeedTypeNeed, "80", models.PaymentSourceMe, true)
	db.Model(upcoming).Update("due_date", testutil.Date(2026, 2, 10))

	marked, err := svc.MarkOverdueSeedsPaid(ctx, household.ID, active.ID, testutil.Date(2026, 2, 1))
	testutil.AssertNoError(t, err)
	if marked != 1 {
		t.Fatalf("expected 1 seed marked, got %d", marked)
	}

	var reloaded models.Seed
	db.First(&reloaded, "id = ?", overdue.ID)
	if !reloaded.IsPaid || !reloaded.IsPaidMe {
		t.Error("expected overdue seed to be paid")
	}
	var untouched models.Seed
	db.First(&untouched, "id = ?", upcoming.ID)
	if untouched.IsPaid {
		t.Error("expected upcoming seed to stay unpaid")
	}

	var updatedPot models.Pot
	db.First(&updatedPot, "id = ?", pot.ID)
	testutil.AssertDecimal(t, "CurrentAmount", updatedPot.CurrentAmount, "150")

	again, err := svc.MarkOverdueSeedsPaid(ctx, household.ID, active.ID, testutil.Date(2026, 2, 1))
	testutil.AssertNoError(t, err)
	if again != 0 {
		t.Errorf("expected nothing left to mark, got %d", again)
	}
}

func TestListCycles(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewPayCycleService(db)
	ctx := context.Background()

	_, active := startedHousehold(t, db)
	_, err := svc.CreateNextCycle(ctx, active.HouseholdID, active.ID, models.PayCycleStatusDraft)
	testutil.AssertNoError(t, err)

	page, err := svc.ListCycles(ctx, active.HouseholdID, pagination.PageRequest{}, CycleFilter{})
	testutil.AssertNoError(t, err)
	if page.TotalItems != 2 || len(page.Data) != 2 {
		t.Fatalf("expected 2 cycles, got %d", page.TotalItems)
	}
	if page.Data[0].Status != models.PayCycleStatusDraft {
		t.Errorf("expected most recent cycle first, got %s", page.Data[0].Status)
	}

	status := models.PayCycleStatusActive
	page, err = svc.ListCycles(ctx, active.HouseholdID, pagination.PageRequest{}, CycleFilter{Status: &status})
	testutil.AssertNoError(t, err)
	if page.TotalItems != 1 {
		t.Errorf("expected 1 active cycle, got %d", page.TotalItems)
	}
}

func TestListActiveCyclesEndingBy(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewPayCycleService(db)
	ctx := context.Background()

	_, active := startedHousehold(t, db)
	_, err := svc.CreateNextCycle(ctx, active.HouseholdID, active.ID, models.PayCycleStatusDraft)
	testutil.AssertNoError(t, err)

	cycles, err := svc.ListActiveCyclesEndingBy(ctx, testutil.Date(2026, 2, 23))
	testutil.AssertNoError(t, err)
	if len(cycles) != 0 {
		t.Errorf("expected no cycle ending by 2026-02-23, got %d", len(cycles))
	}

	cycles, err = svc.ListActiveCyclesEndingBy(ctx, testutil.Date(2026, 2, 24))
	testutil.AssertNoError(t, err)
	if len(cycles) != 1 || cycles[0].ID != active.ID {
		t.Fatalf("expected the active cycle only, got %d cycles", len(cycles))
	}
}

func TestIncomeEvents(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	_, active := startedHousehold(t, db)

	projection, err := NewPayCycleService(db).IncomeEvents(context.Background(), active.HouseholdID, active.ID)
	testutil.AssertNoError(t, err)
	if len(projection.Events) != 2 {
		t.Fatalf("expected 2 income events, got %d", len(projection.Events))
	}
	if !projection.Events[0].Date.Equal(testutil.Date(2026, 1, 23)) {
		t.Errorf("expected payment on 2026-01-23, got %s", projection.Events[0].Date)
	}
}
