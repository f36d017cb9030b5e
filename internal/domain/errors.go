package domain

import (
	"errors"
	"fmt"
)

// Validation errors: caller mistakes, reported synchronously with no side
// effects and no retry implied.
var (
	ErrInvalidWindow   = errors.New("start date must be before end date")
	ErrEmptyBooking    = errors.New("booking requires at least one line item")
	ErrInvalidQuantity = errors.New("line item quantity must be positive")
	ErrAlreadyReturned = errors.New("reservation was already returned")
	ErrNotFound        = errors.New("not found")
	ErrInactiveProduct = errors.New("product is not active")
)

// Transient infrastructure errors: callers may retry with backoff. Retried
// bookings must carry the same idempotency key.
var (
	ErrTxConflict         = errors.New("transaction conflict")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// ErrDuplicateIdempotencyKey is returned by the reservation repository when
// an insert hits the per-tenant unique idempotency key constraint. The
// booking service resolves it by returning the already-committed reservation.
var ErrDuplicateIdempotencyKey = errors.New("duplicate idempotency key")

// InvalidTransitionError reports a state/event pair not enumerated in the
// reservation state machine.
type InvalidTransitionError struct {
	From ReservationStatus
	To   ReservationStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid reservation transition %s -> %s", e.From, e.To)
}

// InsufficientAvailabilityError is the expected outcome of legitimate
// contention. It names the offending product and the conflicting set so the
// caller can show a useful message or suggest alternative dates.
type InsufficientAvailabilityError struct {
	ProductID int64
	Requested int32
	Free      int32
	Conflicts []Overlap
}

func (e *InsufficientAvailabilityError) Error() string {
	return fmt.Sprintf("insufficient availability for product %d: requested %d, free %d (%d conflicting reservations)",
		e.ProductID, e.Requested, e.Free, len(e.Conflicts))
}
