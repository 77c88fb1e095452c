/*
store.go - Persistence interface for rentals and related records

PURPOSE:
  Defines the interface between the engine and the record store. The
  engine itself is pure; everything stateful goes through RecordStore.
  Different implementations can use SQLite or in-memory storage.

ATOMIC CREATION:
  CreateRental persists the rental row and its full obligation schedule in
  one transaction. Either both are visible or neither is: concurrent
  readers never observe a rental without its schedule.

STATUS TOGGLES:
  UpdateRentalPaymentStatus and UpdateObligationStatus are independent
  single-row writes. Toggles on different rows do not conflict.

IMPLEMENTATIONS:
  - store/sqlite: Production SQLite
  - rental/store: In-memory for testing

SEE ALSO:
  - report: Reporting service built on this interface
*/
package rental

import "context"

// RecordStore handles persistence of products, renters, rentals, and
// payment obligations.
type RecordStore interface {
	// Products
	SaveProduct(ctx context.Context, p Product) (int64, error)
	GetProduct(ctx context.Context, id int64) (*Product, error)
	ListProducts(ctx context.Context) ([]Product, error)
	UpdateProduct(ctx context.Context, p Product) error
	DeleteProduct(ctx context.Context, id int64) error

	// Renters
	SaveRenter(ctx context.Context, r Renter) (int64, error)
	GetRenter(ctx context.Context, id int64) (*Renter, error)
	ListRenters(ctx context.Context) ([]Renter, error)
	UpdateRenter(ctx context.Context, r Renter) error
	DeleteRenter(ctx context.Context, id int64) error

	// Rentals. CreateRental persists the rental and its schedule atomically.
	// Deleting a rental cascades to its obligations.
	CreateRental(ctx context.Context, r Rental, schedule []Obligation) (int64, error)
	GetRental(ctx context.Context, id int64) (*Rental, error)
	GetRentalDetail(ctx context.Context, id int64) (*RentalDetail, error)
	ListRentals(ctx context.Context) ([]RentalDetail, error)
	ListActiveRentals(ctx context.Context) ([]RentalDetail, error)
	UpdateRentalStatus(ctx context.Context, id int64, status RentalStatus) error
	UpdateRentalPaymentStatus(ctx context.Context, id int64, status PaymentStatus) error
	DeleteRental(ctx context.Context, id int64) error

	// Obligations
	ListObligations(ctx context.Context, rentalID int64) ([]Obligation, error)
	ListUnpaidObligations(ctx context.Context) ([]ObligationDetail, error)
	UpdateObligationStatus(ctx context.Context, id int64, status PaymentStatus, note string) error

	// Report support. These sum stored obligation amounts; accrual figures
	// are computed in the report layer instead.
	SumPaidObligations(ctx context.Context) (Amount, error)
	RentalObligationTotals(ctx context.Context, rentalID int64) (paid, expected Amount, err error)
	Counts(ctx context.Context) (StoreCounts, error)
}

// StoreCounts is the raw count set behind the dashboard.
type StoreCounts struct {
	Products          int
	Renters           int
	ActiveRentals     int
	PaidRentals       int
	UnpaidRentals     int
	UnpaidObligations int
}
