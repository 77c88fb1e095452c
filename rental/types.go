/*
Package rental provides the core payment schedule and accrual engine.

PURPOSE:
  This package contains the types and algorithms for tracking rental
  agreements and their payment obligations: generating a dated schedule
  of billing periods when a rental is created, and computing how much is
  owed or received for a rental, a renter, or the whole portfolio from
  elapsed billing periods.

KEY CONCEPTS IN THIS FILE (types.go):
  - Amount: A monetary value with fixed 3-decimal rendering
  - Rental: One agreement between a product and a renter
  - Obligation: One scheduled, dated, fixed-amount billing period
  - Product/Renter: The two parties referenced by a rental

DESIGN PRINCIPLES:
  1. Purity: schedule generation and accrual math are pure functions
  2. Precision: Uses decimal.Decimal to avoid floating-point errors
  3. Derivation: owed/received figures are computed from elapsed time
     on every call, never read from stored running totals

USAGE:
  schedule, err := rental.GenerateSchedule(rental.CadenceMonthly,
      rental.MustParseAmount("150.000"), start, &end)

SEE ALSO:
  - schedule.go: Schedule generator
  - accrual.go: Elapsed-period counting and owed-amount math
  - store.go: Record store interface consumed by the engine
*/
package rental

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// AMOUNT - Monetary value (3 fractional digits on the wire)
// =============================================================================

// Amount is a monetary value. The domain currency uses 3-decimal minor
// units, so String always renders exactly 3 fractional digits.
type Amount struct {
	Value decimal.Decimal
}

func NewAmount(value float64) Amount {
	return Amount{Value: decimal.NewFromFloat(value)}
}

func NewAmountFromInt(value int) Amount {
	return Amount{Value: decimal.NewFromInt(int64(value))}
}

// ParseAmount parses a decimal string such as "150.000".
func ParseAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, err
	}
	return Amount{Value: d}, nil
}

// MustParseAmount is ParseAmount for literals; returns zero on bad input.
func MustParseAmount(s string) Amount {
	a, err := ParseAmount(s)
	if err != nil {
		return Amount{}
	}
	return a
}

func ZeroAmount() Amount { return Amount{Value: decimal.Zero} }

func (a Amount) Add(b Amount) Amount          { return Amount{Value: a.Value.Add(b.Value)} }
func (a Amount) Sub(b Amount) Amount          { return Amount{Value: a.Value.Sub(b.Value)} }
func (a Amount) MulInt(n int) Amount          { return Amount{Value: a.Value.Mul(decimal.NewFromInt(int64(n)))} }
func (a Amount) IsNegative() bool             { return a.Value.IsNegative() }
func (a Amount) IsZero() bool                 { return a.Value.IsZero() }
func (a Amount) Equal(b Amount) bool          { return a.Value.Equal(b.Value) }
func (a Amount) GreaterThan(b Amount) bool    { return a.Value.GreaterThan(b.Value) }

// String renders with exactly 3 fractional digits, e.g. "1800.000".
func (a Amount) String() string { return a.Value.StringFixed(3) }

// =============================================================================
// ENUMERATIONS
// =============================================================================

// Cadence is the billing recurrence unit for a rental.
type Cadence string

const (
	CadenceMonthly Cadence = "monthly"
	CadenceYearly  Cadence = "yearly"
)

// Valid reports whether the cadence is one of the two recognized values.
func (c Cadence) Valid() bool { return c == CadenceMonthly || c == CadenceYearly }

// RentalStatus is the lifecycle status of a rental.
// Transitions active -> returned exactly once, never reversed.
type RentalStatus string

const (
	StatusActive   RentalStatus = "active"
	StatusReturned RentalStatus = "returned"
)

// PaymentStatus marks a rental (portfolio-level) or a single obligation
// as settled or outstanding.
type PaymentStatus string

const (
	PaymentPaid   PaymentStatus = "paid"
	PaymentUnpaid PaymentStatus = "unpaid"
)

func (p PaymentStatus) Valid() bool { return p == PaymentPaid || p == PaymentUnpaid }

// ProductType categorizes rentable products.
type ProductType string

const (
	ProductBed       ProductType = "bed"
	ProductEquipment ProductType = "equipment"
)

func (p ProductType) Valid() bool { return p == ProductBed || p == ProductEquipment }

// =============================================================================
// ENTITIES
// =============================================================================

// Product is a rentable item with a reference price. The price on the
// product is a default; each rental freezes its own unit price.
type Product struct {
	ID          int64
	Name        string
	Type        ProductType
	RentalPrice Amount
	CreatedAt   time.Time
}

// Renter is one tenant in the portfolio.
type Renter struct {
	ID        int64
	FullName  string
	Phone     string
	Email     string
	Address   string
	IDNumber  string
	CreatedAt time.Time
}

// Rental is one agreement between one product and one renter.
//
// PaymentStatus is portfolio-level and independent of the statuses of the
// rental's individual obligations; the two are allowed to diverge. Accrual
// figures are derived from PaymentStatus plus elapsed time, never from
// summing obligation rows.
type Rental struct {
	ID            int64
	ProductID     int64
	RenterID      int64
	Cadence       Cadence
	UnitPrice     Amount
	StartDate     Date
	EndDate       *Date // nil means ongoing
	Status        RentalStatus
	PaymentStatus PaymentStatus
	CreatedAt     time.Time
}

// EffectiveEnd returns the rental's explicit end date if present, else asOf.
// The accrual calculator always measures open-ended rentals against "now",
// never against the schedule generator's bounded horizon.
func (r Rental) EffectiveEnd(asOf Date) Date {
	if r.EndDate != nil {
		return *r.EndDate
	}
	return asOf
}

// RentalDetail is a rental joined with its product and renter, as listed
// by the record store for display.
type RentalDetail struct {
	Rental
	ProductName string
	ProductType ProductType
	RenterName  string
	RenterPhone string
}

// Obligation is one scheduled billing period owed under a rental.
// Amount is frozen at generation time: a later change to the rental's
// unit price does not rewrite already-generated obligations.
type Obligation struct {
	ID          int64
	RentalID    int64
	PeriodLabel string // "2006-01" for monthly, "2006" for yearly
	DueDate     Date
	Amount      Amount
	Status      PaymentStatus
	Note        string
	CreatedAt   time.Time
}

// ObligationDetail is an obligation joined with rental/product/renter
// context, as listed by the unpaid-obligations query.
type ObligationDetail struct {
	Obligation
	ProductName string
	RenterName  string
	RenterPhone string
}
