package income

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payday/internal/models"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func date(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func intPtr(v int) *int { return &v }

func timePtr(t time.Time) *time.Time { return &t }

func TestProject(t *testing.T) {
	start := date(2026, time.January, 23)
	end := date(2026, time.February, 24)

	salary := models.IncomeSource{
		Base:          models.Base{ID: "salary"},
		Name:          "Salary",
		Amount:        dec("2500.00"),
		FrequencyRule: models.PayCycleTypeSpecificDate,
		DayOfMonth:    intPtr(25),
		PaymentSource: models.PaymentSourceMe,
		IsActive:      true,
	}
	partnerPay := models.IncomeSource{
		Base:          models.Base{ID: "partner"},
		Name:          "Partner salary",
		Amount:        dec("1800.00"),
		FrequencyRule: models.PayCycleTypeLastWorkingDay,
		PaymentSource: models.PaymentSourcePartner,
		IsActive:      true,
	}
	rental := models.IncomeSource{
		Base:          models.Base{ID: "rental"},
		Name:          "Rental",
		Amount:        dec("300.00"),
		FrequencyRule: models.PayCycleTypeEvery4Weeks,
		AnchorDate:    timePtr(date(2026, time.January, 2)),
		PaymentSource: models.PaymentSourceJoint,
		IsActive:      true,
	}

	t.Run("sums occurrences by payer", func(t *testing.T) {
		p := Project(start, end, []models.IncomeSource{salary, partnerPay, rental}, decimal.NewNullDecimal(dec("0.5")))

		// Salary on 23 Jan, partner on 30 Jan, rental on 30 Jan.
		assert.Equal(t, 3, p.ActiveSources)
		assert.True(t, p.Total.Equal(dec("4600")), "total = %s", p.Total)
		assert.True(t, p.SnapshotUserIncome.Equal(dec("2650")), "me = %s", p.SnapshotUserIncome)
		assert.True(t, p.SnapshotPartnerIncome.Equal(dec("1950")), "partner = %s", p.SnapshotPartnerIncome)

		require.Len(t, p.Events, 3)
		assert.Equal(t, date(2026, time.January, 23), p.Events[0].Date)
		assert.Equal(t, "salary", p.Events[0].SourceID)
		assert.Equal(t, date(2026, time.January, 30), p.Events[1].Date)
		assert.Equal(t, date(2026, time.January, 30), p.Events[2].Date)
	})

	t.Run("four weekly source paying twice", func(t *testing.T) {
		p := Project(date(2026, time.January, 1), date(2026, time.January, 31), []models.IncomeSource{rental}, decimal.NullDecimal{})
		assert.True(t, p.Total.Equal(dec("600")))
		assert.True(t, p.SnapshotUserIncome.Equal(dec("300")))
		assert.True(t, p.SnapshotPartnerIncome.Equal(dec("300")))
		assert.Len(t, p.Events, 2)
	})

	t.Run("inactive sources are ignored", func(t *testing.T) {
		off := salary
		off.IsActive = false
		p := Project(start, end, []models.IncomeSource{off}, decimal.NullDecimal{})
		assert.False(t, p.HasSources())
		assert.True(t, p.Total.IsZero())
		assert.Empty(t, p.Events)
	})

	t.Run("source with no payment in range", func(t *testing.T) {
		p := Project(date(2026, time.February, 1), date(2026, time.February, 20), []models.IncomeSource{salary}, decimal.NullDecimal{})
		assert.True(t, p.HasSources())
		assert.True(t, p.Total.IsZero())
	})

	t.Run("incomplete rule is skipped", func(t *testing.T) {
		broken := rental
		broken.AnchorDate = nil
		p := Project(start, end, []models.IncomeSource{broken, salary}, decimal.NullDecimal{})
		assert.Equal(t, []string{"rental"}, p.Skipped)
		assert.True(t, p.Total.Equal(dec("2500")))
	})
}

func TestCarryForward(t *testing.T) {
	from := &models.PayCycle{
		TotalIncome:           dec("4000"),
		SnapshotUserIncome:    dec("2500"),
		SnapshotPartnerIncome: dec("1500"),
	}
	to := &models.PayCycle{}
	CarryForward(from, to)
	assert.True(t, to.TotalIncome.Equal(dec("4000")))
	assert.True(t, to.SnapshotUserIncome.Equal(dec("2500")))
	assert.True(t, to.SnapshotPartnerIncome.Equal(dec("1500")))
}
