/*
schedule.go - Payment schedule generation

PURPOSE:
  Produces the ordered sequence of payment obligations for a rental at
  creation time: one dated, fixed-amount obligation per billing period
  between the start date and the generation horizon.

KEY INSIGHT:
  Generation is a pure function of (cadence, price, start, end). The caller
  persists the result inside the same transaction that creates the rental,
  so a rental is never observable without its full schedule.

HORIZON:
  An explicit end date bounds the schedule directly. An open-ended rental
  uses start + 365 days so it does not generate an unbounded sequence.
  This bounded default is intentionally NOT used by the accrual calculator,
  which measures open-ended rentals against "now" (see accrual.go).

CALENDAR STEPPING:
  Due dates are computed per period index from the start anchor, so the
  anchor day-of-month survives short months: a rental starting Jan 31 is
  due Feb 28, Mar 31, Apr 30, ... Month advancement clamps to the last
  valid day of the target month (see Date.AddMonths).

SEE ALSO:
  - accrual.go: Independently-derived elapsed-period counting
  - date.go: Clamped calendar arithmetic
*/
package rental

// DefaultHorizonDays bounds schedule generation for open-ended rentals.
const DefaultHorizonDays = 365

// GenerateSchedule returns the ordered obligation sequence for a rental.
// end == nil means ongoing; the horizon then defaults to start plus
// DefaultHorizonDays. The period containing the horizon date is included.
//
// A start date past the horizon yields an empty sequence and no error.
// The function is pure: identical inputs yield identical sequences.
func GenerateSchedule(cadence Cadence, unitPrice Amount, start Date, end *Date) ([]Obligation, error) {
	if !cadence.Valid() {
		return nil, ErrInvalidCadence
	}
	if unitPrice.IsNegative() {
		return nil, ErrNegativePrice
	}

	horizon := start.AddDays(DefaultHorizonDays)
	if end != nil {
		if end.Before(start) {
			return nil, &DateRangeError{Start: start, End: *end}
		}
		horizon = *end
	}

	var schedule []Obligation
	for i := 0; ; i++ {
		var due Date
		if cadence == CadenceMonthly {
			due = start.AddMonths(i)
		} else {
			due = start.AddYears(i)
		}
		if due.After(horizon) {
			break
		}

		label := due.MonthLabel()
		if cadence == CadenceYearly {
			label = due.YearLabel()
		}

		schedule = append(schedule, Obligation{
			PeriodLabel: label,
			DueDate:     due,
			Amount:      unitPrice,
			Status:      PaymentUnpaid,
		})
	}

	return schedule, nil
}
