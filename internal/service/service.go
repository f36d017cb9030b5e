package service

import (
	"context"
	"time"

	"rentops-backend/internal/availability"
	"rentops-backend/internal/domain"
	"rentops-backend/internal/pricing"
)

// BookingService drives a reservation through its lifecycle:
// booking, confirmation, return and cancellation.
type BookingService interface {
	Book(ctx context.Context, req *BookingRequest) (*domain.Reservation, *PricingSummary, error)
	Confirm(ctx context.Context, orgID, reservationID int64) (*domain.Reservation, error)
	Return(ctx context.Context, req *ReturnRequest) (*domain.Reservation, *FeeSummary, error)
	Complete(ctx context.Context, orgID, reservationID int64) (*domain.Reservation, error)
	Cancel(ctx context.Context, orgID, reservationID int64) (*domain.Reservation, error)
	// CheckAvailability is a read-only pre-check suitable for UI date pickers.
	// Booking re-runs the check inside its own transaction.
	CheckAvailability(ctx context.Context, orgID, productID int64, start, end time.Time, quantity int32) (*availability.Result, error)
}

type BookingRequest struct {
	OrgID          int64
	CustomerID     int64
	IdempotencyKey string
	StartDate      time.Time
	EndDate        time.Time
	Items          []BookingItem
}

type BookingItem struct {
	ProductID int64
	Quantity  int32
}

type ReturnRequest struct {
	OrgID         int64
	ReservationID int64
	ActualReturn  time.Time
	Condition     string
	Damaged       bool
}

// PricingSummary is the human-readable side of a booking: how each line was
// priced and how the total was assembled.
type PricingSummary struct {
	Days          int         `json:"days"`
	Lines         []LineQuote `json:"lines"`
	SubtotalCents int64       `json:"subtotal_cents"`
	DiscountCents int64       `json:"discount_cents"`
	TaxCents      int64       `json:"tax_cents"`
	TotalCents    int64       `json:"total_cents"`
}

type LineQuote struct {
	ProductID      int64         `json:"product_id"`
	Quantity       int32         `json:"quantity"`
	Quote          pricing.Quote `json:"quote"`
	LineTotalCents int64         `json:"line_total_cents"`
}

// FeeSummary reports the charges assessed on return. Fees are recorded as
// separate pending charges; the reservation total is never rewritten.
type FeeSummary struct {
	LateFeeCents   int64           `json:"late_fee_cents"`
	DamageFeeCents int64           `json:"damage_fee_cents"`
	TotalCents     int64           `json:"total_cents"`
	Charges        []domain.Charge `json:"charges,omitempty"`
}

// Notifier delivers reservation lifecycle notifications. All calls are
// best-effort: failures are logged by the caller and never fail the
// operation that triggered them.
type Notifier interface {
	NotifyBooked(ctx context.Context, res *domain.Reservation) error
	NotifyConfirmed(ctx context.Context, res *domain.Reservation) error
	NotifyReturned(ctx context.Context, res *domain.Reservation, fees *FeeSummary) error
	NotifyCancelled(ctx context.Context, res *domain.Reservation) error
	NotifyOverdue(ctx context.Context, res *domain.Reservation) error
}

// TaxProvider supplies the tax addend for a reservation total. The engine
// treats the amount as opaque; tax rules live with the provider.
type TaxProvider interface {
	TaxCents(ctx context.Context, orgID int64, taxableCents int64) (int64, error)
}
