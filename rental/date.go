package rental

import (
	"fmt"
	"time"
)

// =============================================================================
// DATE - Day-granularity calendar date (ISO YYYY-MM-DD on the wire)
// =============================================================================

const dateLayout = "2006-01-02"

type Date struct {
	Time time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses an ISO calendar date. Failures wrap ErrInvalidDate so
// callers can classify them with errors.Is.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

func Today() Date {
	now := time.Now()
	return NewDate(now.Year(), now.Month(), now.Day())
}

// Comparison
func (d Date) Before(other Date) bool        { return d.normalize().Before(other.normalize()) }
func (d Date) Equal(other Date) bool         { return d.normalize().Equal(other.normalize()) }
func (d Date) After(other Date) bool         { return d.normalize().After(other.normalize()) }
func (d Date) BeforeOrEqual(other Date) bool { return d.Before(other) || d.Equal(other) }
func (d Date) AfterOrEqual(other Date) bool  { return d.After(other) || d.Equal(other) }

func (d Date) normalize() time.Time {
	return time.Date(d.Time.Year(), d.Time.Month(), d.Time.Day(), 0, 0, 0, 0, time.UTC)
}

// AddDays advances by n calendar days.
func (d Date) AddDays(n int) Date { return Date{Time: d.normalize().AddDate(0, 0, n)} }

// AddMonths advances by n calendar months from this date's anchor day,
// clamping to the last valid day of the target month. Unlike
// time.Time.AddDate, Jan 31 + 1 month is Feb 28 (or 29), never Mar 3.
//
// Clamping does not accumulate: call AddMonths once from the anchor date
// rather than stepping repeatedly, so Jan 31 + 2 months is Mar 31.
func (d Date) AddMonths(n int) Date {
	year := d.Time.Year()
	month := int(d.Time.Month()) + n
	// time.Date normalizes out-of-range months, so December -> January
	// rollover and multi-year jumps fall out of the arithmetic.
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	day := d.Time.Day()
	if last := daysIn(first.Year(), first.Month()); day > last {
		day = last
	}
	return NewDate(first.Year(), first.Month(), day)
}

// AddYears advances by n calendar years, clamping Feb 29 to Feb 28 in
// non-leap target years.
func (d Date) AddYears(n int) Date {
	year := d.Time.Year() + n
	day := d.Time.Day()
	if last := daysIn(year, d.Time.Month()); day > last {
		day = last
	}
	return NewDate(year, d.Time.Month(), day)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Properties
func (d Date) Year() int         { return d.Time.Year() }
func (d Date) Month() time.Month { return d.Time.Month() }
func (d Date) Day() int          { return d.Time.Day() }
func (d Date) IsZero() bool      { return d.Time.IsZero() }

func (d Date) String() string { return d.normalize().Format(dateLayout) }

// MonthLabel renders the year-month period label, e.g. "2026-01".
func (d Date) MonthLabel() string { return d.normalize().Format("2006-01") }

// YearLabel renders the year period label, e.g. "2026".
func (d Date) YearLabel() string { return d.normalize().Format("2006") }
