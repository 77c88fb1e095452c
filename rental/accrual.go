/*
accrual.go - Elapsed-period counting and owed-amount calculation

PURPOSE:
  Computes the amount theoretically owed for a rental's elapsed span, and
  the per-rental financial summary built on it. This is a proration of the
  total obligation to date, deliberately decoupled from the stored
  obligation rows: it never sums schedule rows.

COUNTING RULES:
  Monthly: (end.year - start.year)*12 + (end.month - start.month),
           plus one once end.day exceeds the anniversary day, floored at 1.
           A started-but-incomplete month bills as a full month once its
           day-of-month passes the start day.
  Yearly:  end.year - start.year, plus one once (end.month, end.day)
           lexicographically exceeds (start.month, start.day), floored at 1.

SETTLEMENT MODEL:
  Binary at the rental level: a rental is either fully paid for its elapsed
  span or fully outstanding. TotalReceived is either the whole owed amount
  or zero, according to the rental's portfolio-level payment status.

SEE ALSO:
  - schedule.go: The (separately bounded) schedule generator
  - report: Aggregation across renters and the portfolio
*/
package rental

// ElapsedPeriods counts billing periods between start and end per the
// cadence's counting rule. The result is never less than 1 for any
// start <= end.
func ElapsedPeriods(cadence Cadence, start, end Date) (int, error) {
	switch cadence {
	case CadenceMonthly:
		months := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
		if end.Day() > start.Day() {
			months++
		}
		if months < 1 {
			months = 1
		}
		return months, nil

	case CadenceYearly:
		years := end.Year() - start.Year()
		if end.Month() > start.Month() ||
			(end.Month() == start.Month() && end.Day() > start.Day()) {
			years++
		}
		if years < 1 {
			years = 1
		}
		return years, nil

	default:
		return 0, ErrInvalidCadence
	}
}

// OwedAmount returns unit price times elapsed periods for the rental's
// span, measured to its explicit end date or to asOf when ongoing.
func OwedAmount(r Rental, asOf Date) (Amount, error) {
	periods, err := ElapsedPeriods(r.Cadence, r.StartDate, r.EffectiveEnd(asOf))
	if err != nil {
		return Amount{}, err
	}
	return r.UnitPrice.MulInt(periods), nil
}

// FinancialSummary is the per-rental financial position exposed to the
// presentation layer.
type FinancialSummary struct {
	TotalToPay    Amount
	TotalReceived Amount
	StillOwed     Amount
}

// Summarize computes the rental's financial summary as of the given date.
func Summarize(r Rental, asOf Date) (FinancialSummary, error) {
	owed, err := OwedAmount(r, asOf)
	if err != nil {
		return FinancialSummary{}, err
	}

	received := ZeroAmount()
	if r.PaymentStatus == PaymentPaid {
		received = owed
	}

	return FinancialSummary{
		TotalToPay:    owed,
		TotalReceived: received,
		StillOwed:     owed.Sub(received),
	}, nil
}
