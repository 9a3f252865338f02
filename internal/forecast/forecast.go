// Package forecast simulates the balance of a savings pot or a debt across
// future pay cycles.
//
// Cycle 0 is the cycle that starts at the given start date and ends where the
// household's cycle rule ends it; each later cycle follows with
// cycledate.Next. A projection that cannot converge (nothing paid per cycle)
// is reported as an empty result, never as an error.
package forecast

import (
	"time"

	"github.com/shopspring/decimal"

	"payday/internal/cycledate"
)

// DefaultMaxCycles bounds projections whose interest outpaces the payments.
const DefaultMaxCycles = 600

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)
)

// Point is the projected balance at the end of one cycle.
type Point struct {
	Date       time.Time       `json:"date"`
	CycleIndex int             `json:"cycle_index"`
	Balance    decimal.Decimal `json:"balance"`
	CycleStart time.Time       `json:"cycle_start"`
	CycleEnd   time.Time       `json:"cycle_end"`
}

// Options tunes ProjectRepayment.
type Options struct {
	IncludeInterest           bool
	InterestRateAnnualPercent decimal.NullDecimal
	MaxCycles                 int
}

func (o Options) maxCycles() int {
	if o.MaxCycles <= 0 {
		return DefaultMaxCycles
	}
	return o.MaxCycles
}

// RatePerCycle converts an annual percentage rate into the simple per-cycle
// rate for the cycle type of cfg.
func RatePerCycle(annualPercent decimal.Decimal, cfg cycledate.Config) decimal.Decimal {
	if !annualPercent.IsPositive() {
		return decimal.Zero
	}
	perYear := decimal.NewFromInt(int64(cycledate.CyclesPerYear(cfg.Type)))
	return annualPercent.Div(hundred).Div(perYear)
}

func (o Options) ratePerCycle(cfg cycledate.Config) decimal.Decimal {
	if !o.IncludeInterest || !o.InterestRateAnnualPercent.Valid {
		return decimal.Zero
	}
	return RatePerCycle(o.InterestRateAnnualPercent.Decimal, cfg)
}

// cycles walks the cycle sequence starting at start.
type cycles struct {
	cfg cycledate.Config
	cur cycledate.Range
	idx int
}

func newCycles(start time.Time, cfg cycledate.Config) (*cycles, error) {
	start = cycledate.Truncate(start)
	end, err := cycledate.End(cfg, start)
	if err != nil {
		return nil, err
	}
	return &cycles{cfg: cfg, cur: cycledate.Range{Start: start, End: end}}, nil
}

func (c *cycles) advance() error {
	next, err := cycledate.Next(c.cur.End, c.cfg)
	if err != nil {
		return err
	}
	c.cur = next
	c.idx++
	return nil
}

func (c *cycles) point(balance decimal.Decimal) Point {
	return Point{
		Date:       c.cur.End,
		CycleIndex: c.idx,
		Balance:    balance,
		CycleStart: c.cur.Start,
		CycleEnd:   c.cur.End,
	}
}

// CycleRange returns the range of cycle n counted from start.
func CycleRange(start time.Time, n int, cfg cycledate.Config) (cycledate.Range, error) {
	c, err := newCycles(start, cfg)
	if err != nil {
		return cycledate.Range{}, err
	}
	for c.idx < n {
		if err := c.advance(); err != nil {
			return cycledate.Range{}, err
		}
	}
	return c.cur, nil
}

// EndDateFromCycles returns the end date of cycle n counted from start.
// A debt cleared in N cycles is cleared on EndDateFromCycles(start, N-1, cfg).
func EndDateFromCycles(start time.Time, n int, cfg cycledate.Config) (time.Time, error) {
	r, err := CycleRange(start, max(0, n), cfg)
	if err != nil {
		return time.Time{}, err
	}
	return r.End, nil
}

// CyclesToClear is the smallest N with balance - N*perCycle <= 0. It is 0
// when there is nothing to clear or nothing is paid per cycle.
func CyclesToClear(balance, perCycle decimal.Decimal) int {
	if !balance.IsPositive() || !perCycle.IsPositive() {
		return 0
	}
	return int(balance.Div(perCycle).Ceil().IntPart())
}

// CyclesToGoal is the number of contributions needed to grow current to
// target. It is 0 when the goal is already met or nothing is saved per cycle.
func CyclesToGoal(current, target, perCycle decimal.Decimal) int {
	return CyclesToClear(target.Sub(current), perCycle)
}

// ProjectRepayment simulates a debt cycle by cycle. Interest, when enabled,
// is added before the payment. The balance is rounded to the cent, never
// negative, and the projection stops at the first cycle that clears it.
//
// A zero or negative payment yields an empty projection. A balance that is
// already cleared yields a single zero point.
func ProjectRepayment(balance, perCycle decimal.Decimal, start time.Time, cfg cycledate.Config, opts Options) ([]Point, error) {
	c, err := newCycles(start, cfg)
	if err != nil {
		return nil, err
	}
	if !balance.IsPositive() {
		return []Point{c.point(decimal.Zero)}, nil
	}
	if !perCycle.IsPositive() {
		return []Point{}, nil
	}

	growth := one.Add(opts.ratePerCycle(cfg))
	limit := opts.maxCycles()
	points := make([]Point, 0, min(limit, CyclesToClear(balance, perCycle)))

	for i := 0; i < limit; i++ {
		if i > 0 {
			if err := c.advance(); err != nil {
				return nil, err
			}
		}
		balance = balance.Mul(growth).Sub(perCycle).Round(2)
		if balance.IsNegative() {
			balance = decimal.Zero
		}
		points = append(points, c.point(balance))
		if balance.IsZero() {
			break
		}
	}
	return points, nil
}

// ProjectSavings simulates a savings pot cycle by cycle until it reaches its
// target. The balance never exceeds the target.
//
// A pot already at its target yields a single point. A zero or negative
// contribution yields an empty projection.
func ProjectSavings(current, target, perCycle decimal.Decimal, start time.Time, cfg cycledate.Config, maxCycles int) ([]Point, error) {
	c, err := newCycles(start, cfg)
	if err != nil {
		return nil, err
	}
	if current.GreaterThanOrEqual(target) {
		return []Point{c.point(current)}, nil
	}
	if !perCycle.IsPositive() {
		return []Point{}, nil
	}
	if maxCycles <= 0 {
		maxCycles = DefaultMaxCycles
	}

	balance := current
	var points []Point
	for i := 0; i < maxCycles; i++ {
		if i > 0 {
			if err := c.advance(); err != nil {
				return nil, err
			}
		}
		balance = decimal.Min(target, balance.Add(perCycle)).Round(2)
		points = append(points, c.point(balance))
		if balance.GreaterThanOrEqual(target) {
			break
		}
	}
	return points, nil
}

// Cost is what clearing a debt costs at a fixed payment.
type Cost struct {
	TotalPaid     decimal.Decimal `json:"total_paid"`
	TotalInterest decimal.Decimal `json:"total_interest"`
	Cycles        int             `json:"cycles"`
	Cleared       bool            `json:"cleared"`
}

// TotalRepaymentCost adds up the payments made until the debt is cleared.
// The final payment only covers what is left. Cleared is false when the
// debt is still outstanding after the cycle limit.
func TotalRepaymentCost(balance, perCycle decimal.Decimal, cfg cycledate.Config, opts Options) Cost {
	cost := Cost{TotalPaid: decimal.Zero, TotalInterest: decimal.Zero}
	if !balance.IsPositive() {
		cost.Cleared = true
		return cost
	}
	if !perCycle.IsPositive() {
		return cost
	}

	rate := opts.ratePerCycle(cfg)
	limit := opts.maxCycles()
	for cost.Cycles < limit && balance.IsPositive() {
		interest := balance.Mul(rate).Round(2)
		owed := balance.Add(interest)
		payment := decimal.Min(perCycle, owed)

		cost.TotalInterest = cost.TotalInterest.Add(interest)
		cost.TotalPaid = cost.TotalPaid.Add(payment)
		balance = owed.Sub(payment)
		cost.Cycles++
	}
	cost.Cleared = !balance.IsPositive()
	return cost
}

// SuggestedRepaymentAmount is the per-cycle payment that clears balance by
// targetDate, rounded up to the cent. It is nil without a target date and
// zero when nothing is owed.
func SuggestedRepaymentAmount(balance decimal.Decimal, start time.Time, targetDate *time.Time, cfg cycledate.Config) *decimal.Decimal {
	if !balance.IsPositive() {
		zero := decimal.Zero
		return &zero
	}
	if targetDate == nil {
		return nil
	}
	n := max(1, cycledate.CountCyclesUntil(start, *targetDate, cfg.Type))
	amount := balance.Div(decimal.NewFromInt(int64(n))).Mul(hundred).Ceil().Div(hundred)
	return &amount
}

// SuggestedSavingsAmount is the per-cycle contribution that grows current to
// target by targetDate, rounded up to the cent.
func SuggestedSavingsAmount(current, target decimal.Decimal, start time.Time, targetDate *time.Time, cfg cycledate.Config) *decimal.Decimal {
	return SuggestedRepaymentAmount(target.Sub(current), start, targetDate, cfg)
}

// CycleEndForTarget returns the end of the cycle that contains target,
// counting cycles from start. Targets before start map to cycle 0.
func CycleEndForTarget(start, target time.Time, cfg cycledate.Config) (time.Time, error) {
	c, err := newCycles(start, cfg)
	if err != nil {
		return time.Time{}, err
	}
	target = cycledate.Truncate(target)
	for c.cur.End.Before(target) {
		if err := c.advance(); err != nil {
			return time.Time{}, err
		}
	}
	return c.cur.End, nil
}

// PayoffDate is the end date of the last point of a projection that clears
// its balance. It is nil when the projection is empty or never clears.
func PayoffDate(points []Point) *time.Time {
	if len(points) == 0 {
		return nil
	}
	last := points[len(points)-1]
	if !last.Balance.IsZero() {
		return nil
	}
	d := last.Date
	return &d
}

// GoalDate is the end date of the point at which a savings projection reaches
// target, or nil if it never does.
func GoalDate(points []Point, target decimal.Decimal) *time.Time {
	if len(points) == 0 {
		return nil
	}
	last := points[len(points)-1]
	if last.Balance.LessThan(target) {
		return nil
	}
	d := last.Date
	return &d
}
