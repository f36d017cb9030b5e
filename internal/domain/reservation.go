package domain

import "time"

type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "PENDING"
	ReservationStatusConfirmed ReservationStatus = "CONFIRMED"
	ReservationStatusReturned  ReservationStatus = "RETURNED"
	ReservationStatusCompleted ReservationStatus = "COMPLETED"
	ReservationStatusCancelled ReservationStatus = "CANCELLED"
)

// transitions enumerates every legal state change. Anything not listed here
// fails with InvalidTransitionError.
var transitions = map[ReservationStatus][]ReservationStatus{
	ReservationStatusPending:   {ReservationStatusConfirmed, ReservationStatusReturned, ReservationStatusCancelled},
	ReservationStatusConfirmed: {ReservationStatusReturned, ReservationStatusCancelled},
	ReservationStatusReturned:  {ReservationStatusCompleted},
	ReservationStatusCompleted: {},
	ReservationStatusCancelled: {},
}

// CanTransitionTo reports whether the state machine allows moving from s to next.
func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Released reports whether the status has released its inventory hold.
// Reservations in these statuses never count against availability.
func (s ReservationStatus) Released() bool {
	switch s {
	case ReservationStatusCancelled, ReservationStatusReturned, ReservationStatusCompleted:
		return true
	}
	return false
}

// ReleasedStatuses returns the statuses excluded from availability conflicts.
func ReleasedStatuses() []ReservationStatus {
	return []ReservationStatus{
		ReservationStatusCancelled,
		ReservationStatusReturned,
		ReservationStatusCompleted,
	}
}

// Reservation is a booking of one or more product line items for a half-open
// date window [StartDate, EndDate). Reservations are never deleted;
// cancellation and return are status changes so history is preserved.
type Reservation struct {
	ID             int64             `json:"id"`
	OrgID          int64             `json:"org_id"`
	ReservationNo  int64             `json:"reservation_no"`
	CustomerID     int64             `json:"customer_id"`
	IdempotencyKey string            `json:"idempotency_key,omitempty"`
	Items          []ReservationItem `json:"items"`
	StartDate      time.Time         `json:"start_date"`
	EndDate        time.Time         `json:"end_date"`
	Status         ReservationStatus `json:"status"`
	SubtotalCents  int64             `json:"subtotal_cents"`
	DiscountCents  int64             `json:"discount_cents"`
	TaxCents       int64             `json:"tax_cents"`
	TotalCents     int64             `json:"total_cents"`
	// ActualReturn is set when the reservation is returned. Late fees are
	// computed against EndDate, never against this field retroactively.
	ActualReturn    *time.Time `json:"actual_return,omitempty"`
	ReturnCondition string     `json:"return_condition,omitempty"`
	CreatedOn       time.Time  `json:"created_on"`
	UpdatedOn       time.Time  `json:"updated_on"`
}

// ReservationItem is one product line within a reservation.
// Price fields are snapshots captured at booking time; fee calculations on
// return use these snapshots, not live product rates.
type ReservationItem struct {
	ID             int64  `json:"id"`
	ReservationID  int64  `json:"reservation_id"`
	ProductID      int64  `json:"product_id"`
	Quantity       int32  `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	DailyRateCents int64  `json:"daily_rate_cents"`
	TariffType     string `json:"tariff_type"`
	LineTotalCents int64  `json:"line_total_cents"`
}

// Overlap describes an existing reservation whose window intersects a
// requested window for a given product. Returned by availability checks so
// callers can surface the conflicting set.
type Overlap struct {
	ReservationID int64     `json:"reservation_id"`
	ReservationNo int64     `json:"reservation_no"`
	Quantity      int32     `json:"quantity"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
}
