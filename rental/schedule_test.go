package rental_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/rental-engine/rental"
)

func date(y int, m time.Month, d int) rental.Date { return rental.NewDate(y, m, d) }

func price(s string) rental.Amount { return rental.MustParseAmount(s) }

// =============================================================================
// MONTHLY SCHEDULES
// =============================================================================

func TestGenerateSchedule_Monthly_AcrossYearBoundary(t *testing.T) {
	// GIVEN: A monthly rental starting Nov 15 with a horizon of Feb 15
	// WHEN: Generating the schedule
	// THEN: Four periods are emitted, one per month, no skips or duplicates
	//       across the December -> January rollover

	start := date(2025, time.November, 15)
	end := date(2026, time.February, 15)

	schedule, err := rental.GenerateSchedule(rental.CadenceMonthly, price("150.000"), start, &end)
	require.NoError(t, err)
	require.Len(t, schedule, 4)

	labels := []string{"2025-11", "2025-12", "2026-01", "2026-02"}
	for i, ob := range schedule {
		assert.Equal(t, labels[i], ob.PeriodLabel)
		assert.Equal(t, 15, ob.DueDate.Day())
		assert.Equal(t, rental.PaymentUnpaid, ob.Status)
		assert.Equal(t, "150.000", ob.Amount.String())
	}
}

func TestGenerateSchedule_Monthly_FullYear(t *testing.T) {
	start := date(2026, time.January, 1)
	end := date(2026, time.December, 31)

	schedule, err := rental.GenerateSchedule(rental.CadenceMonthly, price("150.000"), start, &end)
	require.NoError(t, err)
	assert.Len(t, schedule, 12)
	assert.Equal(t, "2026-01", schedule[0].PeriodLabel)
	assert.Equal(t, "2026-12", schedule[11].PeriodLabel)
}

func TestGenerateSchedule_Monthly_AnchorDayClamped(t *testing.T) {
	// GIVEN: A monthly rental starting on the 31st
	// WHEN: Advancing into shorter months
	// THEN: Due dates clamp to the last valid day, and the anchor day
	//       reappears in longer months

	start := date(2026, time.January, 31)
	end := date(2026, time.April, 30)

	schedule, err := rental.GenerateSchedule(rental.CadenceMonthly, price("100.000"), start, &end)
	require.NoError(t, err)
	require.Len(t, schedule, 4)

	assert.Equal(t, "2026-01-31", schedule[0].DueDate.String())
	assert.Equal(t, "2026-02-28", schedule[1].DueDate.String())
	assert.Equal(t, "2026-03-31", schedule[2].DueDate.String())
	assert.Equal(t, "2026-04-30", schedule[3].DueDate.String())
}

// =============================================================================
// YEARLY SCHEDULES
// =============================================================================

func TestGenerateSchedule_Yearly_Labels(t *testing.T) {
	start := date(2025, time.June, 1)
	end := date(2027, time.June, 1)

	schedule, err := rental.GenerateSchedule(rental.CadenceYearly, price("2000.000"), start, &end)
	require.NoError(t, err)
	require.Len(t, schedule, 3)

	assert.Equal(t, "2025", schedule[0].PeriodLabel)
	assert.Equal(t, "2026", schedule[1].PeriodLabel)
	assert.Equal(t, "2027", schedule[2].PeriodLabel)
}

func TestGenerateSchedule_Yearly_LeapDayClamped(t *testing.T) {
	start := date(2024, time.February, 29)
	end := date(2025, time.December, 31)

	schedule, err := rental.GenerateSchedule(rental.CadenceYearly, price("2000.000"), start, &end)
	require.NoError(t, err)
	require.Len(t, schedule, 2)
	assert.Equal(t, "2024-02-29", schedule[0].DueDate.String())
	assert.Equal(t, "2025-02-28", schedule[1].DueDate.String())
}

// =============================================================================
// HORIZON AND BOUNDARIES
// =============================================================================

func TestGenerateSchedule_OpenEnded_BoundedHorizon(t *testing.T) {
	// GIVEN: An ongoing rental (no end date)
	// WHEN: Generating the schedule
	// THEN: The horizon defaults to start + 365 days: 13 monthly periods
	//       (months 0..12 inclusive), not an unbounded sequence

	start := date(2026, time.March, 10)

	schedule, err := rental.GenerateSchedule(rental.CadenceMonthly, price("150.000"), start, nil)
	require.NoError(t, err)
	assert.Len(t, schedule, 13)

	yearly, err := rental.GenerateSchedule(rental.CadenceYearly, price("150.000"), start, nil)
	require.NoError(t, err)
	assert.Len(t, yearly, 2)
}

func TestGenerateSchedule_StartEqualsHorizon_SingleObligation(t *testing.T) {
	start := date(2026, time.May, 1)
	end := start

	schedule, err := rental.GenerateSchedule(rental.CadenceMonthly, price("150.000"), start, &end)
	require.NoError(t, err)
	require.Len(t, schedule, 1)
	assert.Equal(t, "2026-05", schedule[0].PeriodLabel)
}

func TestGenerateSchedule_EndBeforeStart_Error(t *testing.T) {
	start := date(2026, time.May, 2)
	end := date(2026, time.May, 1)

	_, err := rental.GenerateSchedule(rental.CadenceMonthly, price("150.000"), start, &end)
	assert.ErrorIs(t, err, rental.ErrInvalidDateRange)
}

func TestGenerateSchedule_Idempotent(t *testing.T) {
	// Pure function: identical inputs yield identical sequences.
	start := date(2025, time.November, 15)
	end := date(2026, time.February, 15)

	first, err := rental.GenerateSchedule(rental.CadenceMonthly, price("150.000"), start, &end)
	require.NoError(t, err)
	second, err := rental.GenerateSchedule(rental.CadenceMonthly, price("150.000"), start, &end)
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].PeriodLabel, second[i].PeriodLabel)
		assert.True(t, first[i].DueDate.Equal(second[i].DueDate))
		assert.True(t, first[i].Amount.Equal(second[i].Amount))
	}
}

func TestGenerateSchedule_InvalidInputs(t *testing.T) {
	start := date(2026, time.January, 1)

	_, err := rental.GenerateSchedule("weekly", price("150.000"), start, nil)
	assert.ErrorIs(t, err, rental.ErrInvalidCadence)

	_, err = rental.GenerateSchedule(rental.CadenceMonthly, price("-1.000"), start, nil)
	assert.ErrorIs(t, err, rental.ErrNegativePrice)
}
