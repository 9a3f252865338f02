// Package cycledate does the calendar arithmetic behind pay cycles: where the
// current cycle starts and ends, what the next cycle is, and on which days an
// income rule pays out inside a date range.
//
// Every date handled here is a calendar day, represented as midnight UTC.
// Pay dates that fall on a weekend move back to the preceding Friday; they
// never move forward.
package cycledate

import (
	"errors"
	"time"

	"payday/internal/models"
)

const (
	day          = 24 * time.Hour
	fourWeekDays = 28
)

var (
	ErrUnknownType   = errors.New("unknown pay cycle type")
	ErrMissingPayDay = errors.New("specific_date requires a pay day between 1 and 31")
	ErrMissingAnchor = errors.New("every_4_weeks requires an anchor date")
)

// Config is the pay rule of a household or of a single income source.
type Config struct {
	Type   models.PayCycleType
	PayDay int
	Anchor *time.Time
}

// FromHousehold builds the cycle configuration of a household.
func FromHousehold(h *models.Household) Config {
	cfg := Config{Type: h.PayCycleType, Anchor: h.PayCycleAnchor}
	if h.PayDay != nil {
		cfg.PayDay = *h.PayDay
	}
	return cfg
}

// FromIncomeSource builds the occurrence rule of an income source.
func FromIncomeSource(src *models.IncomeSource) Config {
	cfg := Config{Type: src.FrequencyRule, Anchor: src.AnchorDate}
	if src.DayOfMonth != nil {
		cfg.PayDay = *src.DayOfMonth
	}
	return cfg
}

// Validate checks that the parameters required by the cycle type are present.
func (c Config) Validate() error {
	switch c.Type {
	case models.PayCycleTypeSpecificDate:
		if c.PayDay < 1 || c.PayDay > 31 {
			return ErrMissingPayDay
		}
	case models.PayCycleTypeEvery4Weeks:
		if c.Anchor == nil || c.Anchor.IsZero() {
			return ErrMissingAnchor
		}
	case models.PayCycleTypeLastWorkingDay:
	default:
		return ErrUnknownType
	}
	return nil
}

// Range is an inclusive span of calendar days.
type Range struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls on a day inside the range.
func (r Range) Contains(t time.Time) bool {
	d := Truncate(t)
	return !d.Before(r.Start) && !d.After(r.End)
}

// Days is the number of calendar days covered by the range.
func (r Range) Days() int {
	return DaysBetween(r.Start, r.End) + 1
}

// Date returns the calendar day y-m-d. Out of range months and days are
// normalized the way time.Date does.
func Date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Truncate drops the clock part of t, keeping the calendar day as seen in t's location.
func Truncate(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), t.Day())
}

// AddDays shifts a calendar day by n days.
func AddDays(t time.Time, n int) time.Time {
	return Truncate(t).AddDate(0, 0, n)
}

// DaysBetween returns the number of days from a to b (negative when b is before a).
func DaysBetween(a, b time.Time) int {
	return int(Truncate(b).Sub(Truncate(a)) / day)
}

// DaysIn returns the number of days in the given month.
func DaysIn(y int, m time.Month) int {
	return Date(y, m+1, 0).Day()
}

// monthOffset returns the first day of the month n months after t's month.
func monthOffset(t time.Time, n int) time.Time {
	return Date(t.Year(), t.Month()+time.Month(n), 1)
}

// ToWorkingDay moves a Saturday or Sunday back to the preceding Friday.
func ToWorkingDay(t time.Time) time.Time {
	d := Truncate(t)
	switch d.Weekday() {
	case time.Saturday:
		return d.AddDate(0, 0, -1)
	case time.Sunday:
		return d.AddDate(0, 0, -2)
	}
	return d
}

// IsWeekend reports whether t is a Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// LastWorkingDay returns the last weekday of the given month.
func LastWorkingDay(y int, m time.Month) time.Time {
	return ToWorkingDay(Date(y, m+1, 0))
}

// PayDate returns the working-day pay date for payDay in the month that
// contains t. A pay day past the end of a short month lands on its last day.
func PayDate(t time.Time, payDay int) time.Time {
	first := monthOffset(t, 0)
	d := payDay
	if n := DaysIn(first.Year(), first.Month()); d > n {
		d = n
	}
	return ToWorkingDay(Date(first.Year(), first.Month(), d))
}

// Start returns the first day of the cycle containing today.
func Start(cfg Config, today time.Time) (time.Time, error) {
	r, err := Current(cfg, today)
	if err != nil {
		return time.Time{}, err
	}
	return r.Start, nil
}

// Current returns the cycle containing today. For every_4_weeks households
// whose anchor lies in the future, the first cycle starting at the anchor is
// returned instead.
func Current(cfg Config, today time.Time) (Range, error) {
	if err := cfg.Validate(); err != nil {
		return Range{}, err
	}
	today = Truncate(today)

	start := initialStart(cfg, today)
	end, err := End(cfg, start)
	if err != nil {
		return Range{}, err
	}
	r := Range{Start: start, End: end}

	// Weekend adjustment can end a cycle a day or two before the next pay
	// date; those days belong to the following cycle.
	for r.End.Before(today) {
		if r, err = Next(r.End, cfg); err != nil {
			return Range{}, err
		}
	}
	return r, nil
}

func initialStart(cfg Config, today time.Time) time.Time {
	switch cfg.Type {
	case models.PayCycleTypeEvery4Weeks:
		anchor := Truncate(*cfg.Anchor)
		if anchor.After(today) {
			return anchor
		}
		periods := DaysBetween(anchor, today) / fourWeekDays
		return anchor.AddDate(0, 0, periods*fourWeekDays)
	case models.PayCycleTypeSpecificDate:
		thisMonth := PayDate(today, cfg.PayDay)
		if thisMonth.After(today) {
			return PayDate(monthOffset(today, -1), cfg.PayDay)
		}
		return thisMonth
	default:
		prev := monthOffset(today, -1)
		return LastWorkingDay(prev.Year(), prev.Month()).AddDate(0, 0, 1)
	}
}

// End returns the last day of the cycle that starts on start. The result is
// never before start.
func End(cfg Config, start time.Time) (time.Time, error) {
	if err := cfg.Validate(); err != nil {
		return time.Time{}, err
	}
	start = Truncate(start)

	switch cfg.Type {
	case models.PayCycleTypeEvery4Weeks:
		return start.AddDate(0, 0, fourWeekDays-1), nil

	case models.PayCycleTypeLastWorkingDay:
		lwd := LastWorkingDay(start.Year(), start.Month())
		if lwd.Before(start) {
			next := monthOffset(start, 1)
			lwd = LastWorkingDay(next.Year(), next.Month())
		}
		return lwd, nil

	default:
		// The cycle runs up to the working day before the next pay date
		// strictly after start.
		for k := 0; k <= 3; k++ {
			pay := PayDate(monthOffset(start, k), cfg.PayDay)
			if !pay.After(start) {
				continue
			}
			end := ToWorkingDay(pay.AddDate(0, 0, -1))
			if end.Before(start) {
				continue
			}
			return end, nil
		}
		// Unreachable for pay days 1-31: some pay date within three months
		// always leaves room for a non-empty cycle.
		return start, nil
	}
}

// Next returns the cycle that follows a cycle ending on prevEnd.
// Next.Start is always prevEnd + 1 day.
func Next(prevEnd time.Time, cfg Config) (Range, error) {
	start := AddDays(prevEnd, 1)
	end, err := End(cfg, start)
	if err != nil {
		return Range{}, err
	}
	return Range{Start: start, End: end}, nil
}

// PaymentDatesInRange lists the days inside [start, end] on which a pay rule
// pays out, in ascending order. Monthly rules pay at most once per calendar
// month; an every_4_weeks rule pays on its anchor and every 28 days after it,
// so a long range can contain two of its payments.
func PaymentDatesInRange(start, end time.Time, cfg Config) ([]time.Time, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r := Range{Start: Truncate(start), End: Truncate(end)}
	if r.End.Before(r.Start) {
		return nil, nil
	}

	var dates []time.Time
	switch cfg.Type {
	case models.PayCycleTypeEvery4Weeks:
		d := Truncate(*cfg.Anchor)
		if d.Before(r.Start) {
			gap := DaysBetween(d, r.Start)
			periods := (gap + fourWeekDays - 1) / fourWeekDays
			d = d.AddDate(0, 0, periods*fourWeekDays)
		}
		for ; !d.After(r.End); d = d.AddDate(0, 0, fourWeekDays) {
			dates = append(dates, d)
		}

	case models.PayCycleTypeLastWorkingDay:
		for m := monthOffset(r.Start, 0); !m.After(r.End); m = m.AddDate(0, 1, 0) {
			if lwd := LastWorkingDay(m.Year(), m.Month()); r.Contains(lwd) {
				dates = append(dates, lwd)
			}
		}

	default:
		// A pay day early in the month can slide back into the previous
		// month, so look one month past the end of the range.
		last := monthOffset(r.End, 1)
		for m := monthOffset(r.Start, 0); !m.After(last); m = m.AddDate(0, 1, 0) {
			if pay := PayDate(m, cfg.PayDay); r.Contains(pay) {
				dates = append(dates, pay)
			}
		}
	}
	return dates, nil
}

// CyclesPerYear approximates how many cycles of the given type fit in a year.
func CyclesPerYear(t models.PayCycleType) int {
	if t == models.PayCycleTypeEvery4Weeks {
		return 52 / 4
	}
	return 12
}

// CountCyclesUntil counts the cycles between start and target using the
// cadence of the cycle type: months for monthly types, 28-day periods for
// every_4_weeks. It returns 0 when target is not after start and at least 1
// otherwise.
func CountCyclesUntil(start, target time.Time, t models.PayCycleType) int {
	start, target = Truncate(start), Truncate(target)
	if !target.After(start) {
		return 0
	}

	if t == models.PayCycleTypeEvery4Weeks {
		days := DaysBetween(start, target)
		return max(1, (days+fourWeekDays-1)/fourWeekDays)
	}

	months := (target.Year()-start.Year())*12 + int(target.Month()) - int(start.Month())
	return max(1, months)
}

// RollDueDate moves a due date into the cycle r. The day of month is kept
// when some month of the cycle has that day inside the cycle; otherwise the
// date is clamped to the nearest day of the cycle. A nil due date stays nil.
func RollDueDate(due *time.Time, r Range) *time.Time {
	if due == nil {
		return nil
	}
	dom := due.Day()
	first := monthOffset(r.Start, 0)

	// Exact day of month.
	for m := first; !m.After(r.End); m = m.AddDate(0, 1, 0) {
		if dom > DaysIn(m.Year(), m.Month()) {
			continue
		}
		if c := Date(m.Year(), m.Month(), dom); r.Contains(c) {
			return &c
		}
	}

	// Nearest in-cycle day to the day of month in each surrounding month,
	// short months clamped to their last day.
	var best time.Time
	bestDist := -1
	for m := monthOffset(r.Start, -1); !m.After(monthOffset(r.End, 1)); m = m.AddDate(0, 1, 0) {
		c := Date(m.Year(), m.Month(), min(dom, DaysIn(m.Year(), m.Month())))
		clamped := clamp(c, r)
		dist := abs(DaysBetween(c, clamped))
		if bestDist < 0 || dist < bestDist {
			best, bestDist = clamped, dist
		}
	}
	return &best
}

func clamp(t time.Time, r Range) time.Time {
	if t.Before(r.Start) {
		return r.Start
	}
	if t.After(r.End) {
		return r.End
	}
	return t
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
