/*
errors.go - Centralized error types for the rental engine

PURPOSE:
  All engine error kinds in one place for consistency and discoverability.
  The store and API layers wrap these with additional context.

ERROR CATEGORIES:
  1. Input errors  - malformed cadence, dates, or date ordering
  2. Lookup errors - referenced rental/obligation/renter/product absent

USAGE:
  Callers classify with errors.Is:

    if errors.Is(err, rental.ErrNotFound) {
        // 404
    }

SEE ALSO:
  - schedule.go, accrual.go: Return input errors
  - store/sqlite: Surfaces ErrNotFound for absent rows
*/
package rental

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidCadence is returned when a billing cadence is not one of
	// the two recognized values.
	ErrInvalidCadence = errors.New("invalid cadence")

	// ErrInvalidDateRange is returned when an end date precedes the start date.
	ErrInvalidDateRange = errors.New("invalid date range: end before start")

	// ErrInvalidDate is returned when a calendar date fails to parse.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidStatus is returned when a status value is not one of its
	// enumerated values.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrNegativePrice is returned when a unit price is negative.
	ErrNegativePrice = errors.New("unit price must not be negative")

	// ErrNotFound is returned when a referenced record does not exist.
	// It is surfaced by the record store, not by the pure engine.
	ErrNotFound = errors.New("record not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// DateRangeError reports an out-of-order start/end pair.
type DateRangeError struct {
	Start Date
	End   Date
}

func (e *DateRangeError) Error() string {
	return fmt.Sprintf("invalid date range: end %s before start %s", e.End, e.Start)
}

func (e *DateRangeError) Unwrap() error { return ErrInvalidDateRange }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidCadence) ||
		errors.Is(err, ErrInvalidDateRange) ||
		errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrInvalidStatus) ||
		errors.Is(err, ErrNegativePrice)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
