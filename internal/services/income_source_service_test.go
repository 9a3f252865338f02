package services

import (
	"testing"

	"payday/internal/models"
	"payday/internal/testutil"
)

func TestCreateIncomeSource(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewIncomeSourceService(db)
		household := testutil.CreateTestHousehold(t, db)
		day := 25

		src, err := svc.CreateIncomeSource(household.ID, IncomeSourceInput{
			Name:          "Salary",
			Amount:        testutil.Dec(t, "2500"),
			FrequencyRule: models.PayCycleTypeSpecificDate,
			DayOfMonth:    &day,
			PaymentSource: models.PaymentSourceMe,
		})
		testutil.AssertNoError(t, err)

		if !src.IsActive {
			t.Error("expected a new source to be active")
		}
	})

	t.Run("anchor_required_for_every_4_weeks", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewIncomeSourceService(db)
		household := testutil.CreateTestHousehold(t, db)
		day := 25

		_, err := svc.CreateIncomeSource(household.ID, IncomeSourceInput{
			Name:          "Contract",
			Amount:        testutil.Dec(t, "1800"),
			FrequencyRule: models.PayCycleTypeEvery4Weeks,
			DayOfMonth:    &day,
			PaymentSource: models.PaymentSourcePartner,
		})
		testutil.AssertAppError(t, err, "INVALID_INCOME_RULE")
	})

	t.Run("non_positive_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewIncomeSourceService(db)
		household := testutil.CreateTestHousehold(t, db)

		_, err := svc.CreateIncomeSource(household.ID, IncomeSourceInput{
			Name:          "Salary",
			Amount:        testutil.Dec(t, "-1"),
			FrequencyRule: models.PayCycleTypeLastWorkingDay,
			PaymentSource: models.PaymentSourceMe,
		})
		testutil.AssertAppError(t, err, "NON_POSITIVE_AMOUNT")
	})
}

func TestDeactivateIncomeSource(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewIncomeSourceService(db)
	household := testutil.CreateTestHousehold(t, db)
	kept := testutil.CreateTestIncomeSource(t, db, household.ID, "2500", models.PaymentSourceMe, 25)
	dropped := testutil.CreateTestIncomeSource(t, db, household.ID, "2000", models.PaymentSourcePartner, 25)

	testutil.AssertNoError(t, svc.DeactivateIncomeSource(household.ID, dropped.ID))

	active, err := svc.ListIncomeSources(household.ID, true)
	testutil.AssertNoError(t, err)
	if len(active) != 1 || active[0].ID != kept.ID {
		t.Errorf("expected only %s to be active, got %d sources", kept.ID, len(active))
	}

	all, err := svc.ListIncomeSources(household.ID, false)
	testutil.AssertNoError(t, err)
	if len(all) != 2 {
		t.Errorf("expected 2 sources, got %d", len(all))
	}

	err = svc.DeactivateIncomeSource(household.ID, testutil.NewUserID())
	testutil.AssertAppError(t, err, "INCOME_SOURCE_NOT_FOUND")
}

func TestUpdateIncomeSource(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewIncomeSourceService(db)
	household := testutil.CreateTestHousehold(t, db)
	src := testutil.CreateTestIncomeSource(t, db, household.ID, "2500", models.PaymentSourceMe, 25)

	rule := models.PayCycleTypeLastWorkingDay
	updated, err := svc.UpdateIncomeSource(household.ID, src.ID, IncomeSourceUpdate{FrequencyRule: &rule})
	testutil.AssertNoError(t, err)
	if updated.DayOfMonth != nil {
		t.Error("expected day_of_month to be dropped for a last working day rule")
	}

	source := models.PaymentSource("neighbour")
	_, err = svc.UpdateIncomeSource(household.ID, src.ID, IncomeSourceUpdate{PaymentSource: &source})
	testutil.AssertAppError(t, err, "INVALID_PAYMENT_SOURCE")
}
