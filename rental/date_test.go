package rental_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/rental-engine/rental"
)

func TestParseDate(t *testing.T) {
	d, err := rental.ParseDate("2026-02-28")
	require.NoError(t, err)
	assert.Equal(t, 2026, d.Year())
	assert.Equal(t, time.February, d.Month())
	assert.Equal(t, 28, d.Day())

	for _, bad := range []string{"", "2026-13-01", "2026-02-30", "28/02/2026", "not-a-date"} {
		_, err := rental.ParseDate(bad)
		assert.ErrorIs(t, err, rental.ErrInvalidDate, "input %q", bad)
	}
}

func TestDate_AddMonths_YearRollover(t *testing.T) {
	d := rental.NewDate(2025, time.December, 15)
	assert.Equal(t, "2026-01-15", d.AddMonths(1).String())
	assert.Equal(t, "2026-12-15", d.AddMonths(12).String())
	assert.Equal(t, "2025-11-15", d.AddMonths(-1).String())
}

func TestDate_AddMonths_ClampsToMonthEnd(t *testing.T) {
	d := rental.NewDate(2026, time.January, 31)

	// Short months clamp; the anchor day is preserved when advancing from
	// the original date rather than the clamped one.
	assert.Equal(t, "2026-02-28", d.AddMonths(1).String())
	assert.Equal(t, "2026-03-31", d.AddMonths(2).String())
	assert.Equal(t, "2026-04-30", d.AddMonths(3).String())

	// Leap year February.
	leap := rental.NewDate(2024, time.January, 31)
	assert.Equal(t, "2024-02-29", leap.AddMonths(1).String())
}

func TestDate_AddYears_ClampsLeapDay(t *testing.T) {
	d := rental.NewDate(2024, time.February, 29)
	assert.Equal(t, "2025-02-28", d.AddYears(1).String())
	assert.Equal(t, "2028-02-29", d.AddYears(4).String())
}

func TestDate_Comparisons(t *testing.T) {
	a := rental.NewDate(2026, time.March, 10)
	b := rental.NewDate(2026, time.March, 11)

	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.True(t, a.BeforeOrEqual(a))
	assert.True(t, a.AfterOrEqual(a))
	assert.False(t, a.Equal(b))
}

func TestDate_PeriodLabels(t *testing.T) {
	d := rental.NewDate(2026, time.March, 5)
	assert.Equal(t, "2026-03", d.MonthLabel())
	assert.Equal(t, "2026", d.YearLabel())
}
