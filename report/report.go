/*
Package report aggregates accrual figures across rentals, renters, and the
portfolio.

PURPOSE:
  The rental package computes figures for a single rental; this package
  answers the portfolio questions: what does each tenant owe, how much is
  outstanding overall, and what are the dashboard counts.

KEY INSIGHT:
  Every figure is recomputed from freshly read rows on each call. There is
  no cached running total anywhere: the accrual numbers derive from each
  rental's payment status and elapsed time, and the income numbers derive
  from stored obligation rows. The two families are intentionally
  independent and may diverge.

AGGREGATION RULES:
  - Only active rentals contribute to accrual aggregates; returned rentals
    contribute nothing.
  - A renter or portfolio with no active rentals totals zero, not an error.
  - Received vs owed splits on the rental-level payment status: a paid
    rental contributes its full owed amount to received, an unpaid one to
    owed.

SEE ALSO:
  - rental/accrual.go: Per-rental owed-amount math
  - rental/store.go: The record store this service reads from
*/
package report

import (
	"context"
	"fmt"

	"github.com/warp/rental-engine/rental"
)

// Service computes portfolio reports over a record store.
type Service struct {
	store rental.RecordStore

	// Now supplies the evaluation date for open-ended rentals.
	// Overridable in tests.
	Now func() rental.Date
}

// NewService creates a reporting service over the given store.
func NewService(store rental.RecordStore) *Service {
	return &Service{store: store, Now: rental.Today}
}

// RentalSummary returns the financial summary for one rental, computed
// from a fresh read of the rental row.
func (s *Service) RentalSummary(ctx context.Context, rentalID int64) (rental.FinancialSummary, error) {
	r, err := s.store.GetRental(ctx, rentalID)
	if err != nil {
		return rental.FinancialSummary{}, err
	}
	return rental.Summarize(*r, s.Now())
}

// TenantTotals is the per-renter aggregate exposed to the presentation
// layer. TotalAmount is always TotalReceived + TotalOwed.
type TenantTotals struct {
	RenterID      int64
	RenterName    string
	RenterPhone   string
	TotalRentals  int
	PaidRentals   int
	UnpaidRentals int
	TotalReceived rental.Amount
	TotalOwed     rental.Amount
	TotalAmount   rental.Amount
}

// TenantTotals returns one row per renter, including renters with no
// active rentals (all-zero totals). Ordered by renter name.
func (s *Service) TenantTotals(ctx context.Context) ([]TenantTotals, error) {
	renters, err := s.store.ListRenters(ctx)
	if err != nil {
		return nil, err
	}
	actives, err := s.store.ListActiveRentals(ctx)
	if err != nil {
		return nil, err
	}

	byRenter := make(map[int64][]rental.Rental)
	for _, d := range actives {
		byRenter[d.RenterID] = append(byRenter[d.RenterID], d.Rental)
	}

	asOf := s.Now()
	totals := make([]TenantTotals, 0, len(renters))
	for _, rn := range renters {
		row := TenantTotals{
			RenterID:      rn.ID,
			RenterName:    rn.FullName,
			RenterPhone:   rn.Phone,
			TotalReceived: rental.ZeroAmount(),
			TotalOwed:     rental.ZeroAmount(),
		}
		for _, r := range byRenter[rn.ID] {
			owed, err := rental.OwedAmount(r, asOf)
			if err != nil {
				return nil, fmt.Errorf("rental %d: %w", r.ID, err)
			}
			row.TotalRentals++
			if r.PaymentStatus == rental.PaymentPaid {
				row.PaidRentals++
				row.TotalReceived = row.TotalReceived.Add(owed)
			} else {
				row.UnpaidRentals++
				row.TotalOwed = row.TotalOwed.Add(owed)
			}
		}
		row.TotalAmount = row.TotalReceived.Add(row.TotalOwed)
		totals = append(totals, row)
	}
	return totals, nil
}

// TotalUnpaidAmount sums the owed amount over all active unpaid rentals.
// An empty portfolio totals zero.
func (s *Service) TotalUnpaidAmount(ctx context.Context) (rental.Amount, error) {
	actives, err := s.store.ListActiveRentals(ctx)
	if err != nil {
		return rental.Amount{}, err
	}

	asOf := s.Now()
	total := rental.ZeroAmount()
	for _, d := range actives {
		if d.PaymentStatus != rental.PaymentUnpaid {
			continue
		}
		owed, err := rental.OwedAmount(d.Rental, asOf)
		if err != nil {
			return rental.Amount{}, fmt.Errorf("rental %d: %w", d.ID, err)
		}
		total = total.Add(owed)
	}
	return total, nil
}

// TotalIncome sums the amounts of paid obligation rows. This is the
// obligation-row figure, not an accrual figure.
func (s *Service) TotalIncome(ctx context.Context) (rental.Amount, error) {
	return s.store.SumPaidObligations(ctx)
}

// RentalIncome returns the paid and expected obligation sums for one
// rental's stored schedule.
func (s *Service) RentalIncome(ctx context.Context, rentalID int64) (paid, expected rental.Amount, err error) {
	if _, err := s.store.GetRental(ctx, rentalID); err != nil {
		return rental.Amount{}, rental.Amount{}, err
	}
	return s.store.RentalObligationTotals(ctx, rentalID)
}

// DashboardStats is the headline figure set for the dashboard.
type DashboardStats struct {
	TotalProducts     int
	TotalRenters      int
	ActiveRentals     int
	PaidRentals       int
	UnpaidRentals     int
	UnpaidObligations int
	TotalIncome       rental.Amount
}

// DashboardStats returns the portfolio counts plus total income.
func (s *Service) DashboardStats(ctx context.Context) (DashboardStats, error) {
	counts, err := s.store.Counts(ctx)
	if err != nil {
		return DashboardStats{}, err
	}
	income, err := s.store.SumPaidObligations(ctx)
	if err != nil {
		return DashboardStats{}, err
	}
	return DashboardStats{
		TotalProducts:     counts.Products,
		TotalRenters:      counts.Renters,
		ActiveRentals:     counts.ActiveRentals,
		PaidRentals:       counts.PaidRentals,
		UnpaidRentals:     counts.UnpaidRentals,
		UnpaidObligations: counts.UnpaidObligations,
		TotalIncome:       income,
	}, nil
}
