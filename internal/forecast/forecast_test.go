package forecast

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payday/internal/cycledate"
	"payday/internal/models"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func date(y int, m time.Month, d int) time.Time { return cycledate.Date(y, m, d) }

var payDay25 = cycledate.Config{Type: models.PayCycleTypeSpecificDate, PayDay: 25}

func TestCyclesToClear(t *testing.T) {
	assert.Equal(t, 7, CyclesToClear(dec("1000"), dec("150")))
	assert.Equal(t, 0, CyclesToClear(dec("1000"), dec("0")))
	assert.Equal(t, 0, CyclesToClear(dec("1000"), dec("-5")))
	assert.Equal(t, 0, CyclesToClear(dec("0"), dec("150")))
	assert.Equal(t, 4, CyclesToClear(dec("400"), dec("100")))
}

func TestCyclesToGoal(t *testing.T) {
	assert.Equal(t, 3, CyclesToGoal(dec("100"), dec("350"), dec("100")))
	assert.Equal(t, 0, CyclesToGoal(dec("500"), dec("350"), dec("100")))
	assert.Equal(t, 0, CyclesToGoal(dec("100"), dec("350"), dec("0")))
}

func TestEndDateFromCycles(t *testing.T) {
	start := date(2026, time.February, 10)

	end, err := EndDateFromCycles(start, 0, payDay25)
	require.NoError(t, err)
	assert.Equal(t, date(2026, time.February, 24), end)

	end, err = EndDateFromCycles(start, 4, payDay25)
	require.NoError(t, err)
	assert.Equal(t, date(2026, time.June, 24), end)

	_, err = EndDateFromCycles(start, 1, cycledate.Config{Type: models.PayCycleTypeEvery4Weeks})
	assert.ErrorIs(t, err, cycledate.ErrMissingAnchor)
}

func TestProjectRepayment(t *testing.T) {
	start := date(2026, time.February, 10)

	t.Run("clears in five cycles", func(t *testing.T) {
		points, err := ProjectRepayment(dec("500"), dec("100"), start, payDay25, Options{})
		require.NoError(t, err)
		require.Len(t, points, 5)

		wantBalances := []string{"400", "300", "200", "100", "0"}
		for i, p := range points {
			assert.Equal(t, i, p.CycleIndex)
			assert.True(t, p.Balance.Equal(dec(wantBalances[i])), "cycle %d balance %s", i, p.Balance)
			if i > 0 {
				assert.True(t, p.Date.After(points[i-1].Date))
				assert.Equal(t, points[i-1].CycleEnd.AddDate(0, 0, 1), p.CycleStart)
			}
		}
		assert.Equal(t, date(2026, time.February, 24), points[0].Date)
		assert.Equal(t, date(2026, time.June, 24), points[4].Date)

		payoff := PayoffDate(points)
		require.NotNil(t, payoff)
		expected, err := EndDateFromCycles(start, CyclesToClear(dec("500"), dec("100"))-1, payDay25)
		require.NoError(t, err)
		assert.Equal(t, expected, *payoff)
	})

	t.Run("last payment clamps at zero", func(t *testing.T) {
		points, err := ProjectRepayment(dec("250"), dec("100"), start, payDay25, Options{})
		require.NoError(t, err)
		require.Len(t, points, 3)
		assert.True(t, points[2].Balance.IsZero())
	})

	t.Run("interest is added before the payment", func(t *testing.T) {
		opts := Options{IncludeInterest: true, InterestRateAnnualPercent: decimal.NewNullDecimal(dec("12"))}
		points, err := ProjectRepayment(dec("1200"), dec("100"), start, payDay25, opts)
		require.NoError(t, err)
		require.Greater(t, len(points), 2)
		assert.True(t, points[0].Balance.Equal(dec("1112")), "got %s", points[0].Balance)
		assert.True(t, points[1].Balance.Equal(dec("1023.12")), "got %s", points[1].Balance)
		assert.True(t, points[len(points)-1].Balance.IsZero())
	})

	t.Run("interest ignored unless enabled", func(t *testing.T) {
		opts := Options{InterestRateAnnualPercent: decimal.NewNullDecimal(dec("12"))}
		points, err := ProjectRepayment(dec("500"), dec("100"), start, payDay25, opts)
		require.NoError(t, err)
		assert.Len(t, points, 5)
	})

	t.Run("non convergent is bounded", func(t *testing.T) {
		opts := Options{IncludeInterest: true, InterestRateAnnualPercent: decimal.NewNullDecimal(dec("24")), MaxCycles: 10}
		points, err := ProjectRepayment(dec("1000"), dec("20"), start, payDay25, opts)
		require.NoError(t, err)
		assert.Len(t, points, 10)
		assert.Nil(t, PayoffDate(points))
	})

	t.Run("no payment gives empty projection", func(t *testing.T) {
		points, err := ProjectRepayment(dec("500"), dec("0"), start, payDay25, Options{})
		require.NoError(t, err)
		assert.Empty(t, points)
		assert.Nil(t, PayoffDate(points))
	})

	t.Run("already cleared", func(t *testing.T) {
		points, err := ProjectRepayment(dec("0"), dec("100"), start, payDay25, Options{})
		require.NoError(t, err)
		require.Len(t, points, 1)
		assert.True(t, points[0].Balance.IsZero())
	})
}

func TestProjectSavings(t *testing.T) {
	start := date(2026, time.February, 10)

	points, err := ProjectSavings(dec("100"), dec("350"), dec("100"), start, payDay25, 0)
	require.NoError(t, err)
	require.Len(t, points, 3)
	assert.True(t, points[0].Balance.Equal(dec("200")))
	assert.True(t, points[2].Balance.Equal(dec("350")))

	goal := GoalDate(points, dec("350"))
	require.NotNil(t, goal)
	assert.Equal(t, date(2026, time.April, 23), *goal)

	t.Run("goal already met", func(t *testing.T) {
		points, err := ProjectSavings(dec("400"), dec("350"), dec("100"), start, payDay25, 0)
		require.NoError(t, err)
		require.Len(t, points, 1)
		assert.NotNil(t, GoalDate(points, dec("350")))
	})

	t.Run("no contribution", func(t *testing.T) {
		points, err := ProjectSavings(dec("100"), dec("350"), dec("0"), start, payDay25, 0)
		require.NoError(t, err)
		assert.Empty(t, points)
		assert.Nil(t, GoalDate(points, dec("350")))
	})
}

func TestTotalRepaymentCost(t *testing.T) {
	t.Run("without interest", func(t *testing.T) {
		cost := TotalRepaymentCost(dec("1000"), dec("150"), payDay25, Options{})
		assert.True(t, cost.Cleared)
		assert.Equal(t, 7, cost.Cycles)
		assert.True(t, cost.TotalPaid.Equal(dec("1000")))
		assert.True(t, cost.TotalInterest.IsZero())
	})

	t.Run("with interest", func(t *testing.T) {
		opts := Options{IncludeInterest: true, InterestRateAnnualPercent: decimal.NewNullDecimal(dec("12"))}
		cost := TotalRepaymentCost(dec("100"), dec("60"), payDay25, opts)
		assert.True(t, cost.Cleared)
		assert.Equal(t, 2, cost.Cycles)
		assert.True(t, cost.TotalPaid.Equal(dec("101.41")), "paid %s", cost.TotalPaid)
		assert.True(t, cost.TotalInterest.Equal(dec("1.41")), "interest %s", cost.TotalInterest)
	})

	t.Run("no payment", func(t *testing.T) {
		cost := TotalRepaymentCost(dec("100"), dec("0"), payDay25, Options{})
		assert.False(t, cost.Cleared)
		assert.Equal(t, 0, cost.Cycles)
	})
}

func TestSuggestedAmounts(t *testing.T) {
	start := date(2026, time.January, 15)
	target := date(2026, time.April, 20)

	got := SuggestedRepaymentAmount(dec("1000"), start, &target, payDay25)
	require.NotNil(t, got)
	assert.True(t, got.Equal(dec("333.34")), "got %s", got)

	assert.Nil(t, SuggestedRepaymentAmount(dec("1000"), start, nil, payDay25))

	zero := SuggestedRepaymentAmount(dec("0"), start, nil, payDay25)
	require.NotNil(t, zero)
	assert.True(t, zero.IsZero())

	past := date(2025, time.December, 1)
	all := SuggestedRepaymentAmount(dec("1000"), start, &past, payDay25)
	require.NotNil(t, all)
	assert.True(t, all.Equal(dec("1000")))

	savings := SuggestedSavingsAmount(dec("100"), dec("700"), start, &target, payDay25)
	require.NotNil(t, savings)
	assert.True(t, savings.Equal(dec("200")))
}

func TestCycleEndForTarget(t *testing.T) {
	start := date(2026, time.February, 10)

	end, err := CycleEndForTarget(start, date(2026, time.April, 1), payDay25)
	require.NoError(t, err)
	assert.Equal(t, date(2026, time.April, 23), end)

	end, err = CycleEndForTarget(start, date(2026, time.January, 1), payDay25)
	require.NoError(t, err)
	assert.Equal(t, date(2026, time.February, 24), end)
}
