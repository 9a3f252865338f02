package services

import (
	"testing"

	"payday/internal/models"
	"payday/internal/testutil"
)

func TestForecastRepayment(t *testing.T) {
	t.Run("requested_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewForecastService(db)
		household, _ := activeCycle(t, db)
		repayment := testutil.CreateTestRepayment(t, db, household.ID, "500")

		amount := testutil.Dec(t, "100")
		result, err := svc.ForecastRepayment(household.ID, repayment.ID, ForecastRequest{
			AmountPerCycle: &amount,
			Today:          testutil.Date(2026, 1, 30),
		})
		testutil.AssertNoError(t, err)

		if !result.EffectiveStart.Equal(testutil.Date(2026, 1, 30)) {
			t.Errorf("expected effective start 2026-01-30, got %s", result.EffectiveStart)
		}
		if len(result.Projection) != 5 || result.CyclesToClear != 5 {
			t.Fatalf("expected 5 cycles, got %d points and %d cycles", len(result.Projection), result.CyclesToClear)
		}
		if !result.Projection[0].Date.Equal(testutil.Date(2026, 2, 24)) {
			t.Errorf("expected first point at cycle end 2026-02-24, got %s", result.Projection[0].Date)
		}
		if result.PayoffDate == nil || !result.PayoffDate.Equal(result.Projection[4].Date) {
			t.Errorf("expected payoff on the last point, got %v", result.PayoffDate)
		}
		testutil.AssertDecimal(t, "TotalPaid", result.Cost.TotalPaid, "500")
		if result.SuggestedAmount != nil {
			t.Errorf("expected no suggestion without a target date, got %s", result.SuggestedAmount)
		}
	})

	t.Run("linked_seed_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewForecastService(db)
		household, cycle := activeCycle(t, db)
		repayment := testutil.CreateTestRepayment(t, db, household.ID, "500")
		seed := testutil.CreateTestSeed(t, db, cycle, "Loan", models.SeedTypeRepay, "250", models.PaymentSourceMe, true)
		db.Model(seed).Update("linked_repayment_id", repayment.ID)

		result, err := svc.ForecastRepayment(household.ID, repayment.ID, ForecastRequest{Today: testutil.Date(2026, 1, 20)})
		testutil.AssertNoError(t, err)

		testutil.AssertDecimal(t, "AmountPerCycle", result.AmountPerCycle, "250")
		if !result.EffectiveStart.Equal(testutil.Date(2026, 1, 23)) {
			t.Errorf("expected effective start at cycle start, got %s", result.EffectiveStart)
		}
		if result.CyclesToClear != 2 {
			t.Errorf("expected 2 cycles, got %d", result.CyclesToClear)
		}
	})

	t.Run("nothing_paid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewForecastService(db)
		household, _ := activeCycle(t, db)
		repayment := testutil.CreateTestRepayment(t, db, household.ID, "500")

		result, err := svc.ForecastRepayment(household.ID, repayment.ID, ForecastRequest{Today: testutil.Date(2026, 1, 30)})
		testutil.AssertNoError(t, err)

		if len(result.Projection) != 0 || result.PayoffDate != nil || result.CyclesToClear != 0 {
			t.Errorf("expected an empty projection, got %d points", len(result.Projection))
		}
	})

	t.Run("suggestion_from_target_date", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewForecastService(db)
		household, _ := activeCycle(t, db)
		repayment := testutil.CreateTestRepayment(t, db, household.ID, "1000")
		db.Model(repayment).Update("target_date", testutil.Date(2026, 6, 30))

		result, err := svc.ForecastRepayment(household.ID, repayment.ID, ForecastRequest{Today: testutil.Date(2026, 1, 30)})
		testutil.AssertNoError(t, err)

		if result.SuggestedAmount == nil {
			t.Fatal("expected a suggested amount")
		}
		if !result.AmountPerCycle.Equal(*result.SuggestedAmount) {
			t.Errorf("expected the suggestion to drive the projection, got %s", result.AmountPerCycle)
		}
		if result.PayoffDate == nil {
			t.Error("expected the suggested amount to clear the debt")
		}
		if result.TargetCycleEnd == nil {
			t.Error("expected the cycle end of the target date")
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewForecastService(db)
		household, _ := activeCycle(t, db)

		_, err := svc.ForecastRepayment(household.ID, testutil.NewUserID(), ForecastRequest{})
		testutil.AssertAppError(t, err, "REPAYMENT_NOT_FOUND")
	})
}

func TestForecastPot(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewForecastService(db)
	household, _ := activeCycle(t, db)
	pot := testutil.CreateTestPot(t, db, household.ID, "100", "1000")

	amount := testutil.Dec(t, "400")
	result, err := svc.ForecastPot(household.ID, pot.ID, ForecastRequest{AmountPerCycle: &amount, Today: testutil.Date(2026, 1, 30)})
	testutil.AssertNoError(t, err)

	if result.CyclesToGoal != 3 || len(result.Projection) != 3 {
		t.Fatalf("expected 3 cycles, got %d cycles and %d points", result.CyclesToGoal, len(result.Projection))
	}
	testutil.AssertDecimal(t, "Balance", result.Projection[2].Balance, "1000")
	if result.GoalDate == nil {
		t.Error("expected a goal date")
	}
	testutil.AssertDecimal(t, "Progress", result.Progress, "10")
}

func TestLockIn(t *testing.T) {
	t.Run("upserts_recurring_seed", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewForecastService(db)
		household, cycle := activeCycle(t, db)
		repayment := testutil.CreateTestRepayment(t, db, household.ID, "1000")

		seed, err := svc.LockIn(household.ID, LockInInput{RepaymentID: &repayment.ID, Amount: testutil.Dec(t, "150")})
		testutil.AssertNoError(t, err)

		if seed.PayCycleID != cycle.ID || seed.Type != models.SeedTypeRepay || !seed.IsRecurring {
			t.Errorf("unexpected seed %+v", seed)
		}
		testutil.AssertDecimal(t, "AmountMe", seed.AmountMe, "75")
		reloaded := reloadCycle(t, db, cycle.ID)
		testutil.AssertDecimal(t, "AllocRepayJoint", reloaded.AllocRepayJoint, "150")

		again, err := svc.LockIn(household.ID, LockInInput{RepaymentID: &repayment.ID, Amount: testutil.Dec(t, "200")})
		testutil.AssertNoError(t, err)
		if again.ID != seed.ID {
			t.Errorf("expected the existing seed to be updated, got a new one")
		}

		var count int64
		db.Model(&models.Seed{}).Where("pay_cycle_id = ?", cycle.ID).Count(&count)
		if count != 1 {
			t.Errorf("expected 1 seed, got %d", count)
		}
	})

	t.Run("paid_seed_moves_pot_by_difference", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewForecastService(db)
		household, _ := activeCycle(t, db)
		pot := testutil.CreateTestPot(t, db, household.ID, "0", "1000")

		seed, err := svc.LockIn(household.ID, LockInInput{PotID: &pot.ID, Amount: testutil.Dec(t, "100")})
		testutil.AssertNoError(t, err)
		seeds := NewSeedService(db)
		_, err = seeds.SetSeedPaid(household.ID, seed.ID, PayerBoth, true)
		testutil.AssertNoError(t, err)
		assertPotAmount(t, db, pot.ID, "100")

		_, err = svc.LockIn(household.ID, LockInInput{PotID: &pot.ID, Amount: testutil.Dec(t, "160")})
		testutil.AssertNoError(t, err)
		assertPotAmount(t, db, pot.ID, "160")

		_, err = seeds.SetSeedPaid(household.ID, seed.ID, PayerBoth, false)
		testutil.AssertNoError(t, err)
		assertPotAmount(t, db, pot.ID, "0")
	})

	t.Run("draft_when_no_active", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewForecastService(db)
		household := testutil.CreateTestHousehold(t, db)
		draft := testutil.CreateTestPayCycle(t, db, household.ID, models.PayCycleStatusDraft,
			testutil.Date(2026, 2, 25), testutil.Date(2026, 3, 24))
		pot := testutil.CreateTestPot(t, db, household.ID, "0", "600")

		seed, err := svc.LockIn(household.ID, LockInInput{PotID: &pot.ID, Amount: testutil.Dec(t, "50")})
		testutil.AssertNoError(t, err)
		if seed.PayCycleID != draft.ID {
			t.Errorf("expected the draft cycle, got %s", seed.PayCycleID)
		}
	})

	t.Run("needs_one_target", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewForecastService(db)
		household, _ := activeCycle(t, db)

		_, err := svc.LockIn(household.ID, LockInInput{Amount: testutil.Dec(t, "50")})
		testutil.AssertAppError(t, err, "INVALID_SEED_LINK")
	})

	t.Run("no_cycle", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewForecastService(db)
		household := testutil.CreateTestHousehold(t, db)
		pot := testutil.CreateTestPot(t, db, household.ID, "0", "600")

		_, err := svc.LockIn(household.ID, LockInInput{PotID: &pot.ID, Amount: testutil.Dec(t, "50")})
		testutil.AssertAppError(t, err, "NO_ACTIVE_CYCLE")
	})
}
