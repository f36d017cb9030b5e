package http

import (
	"time"

	"rentops-backend/internal/domain"
	"rentops-backend/internal/service"
)

// BookReservationRequest is the JSON body of POST /api/v1/reservations.
// Dates are ISO-8601 timestamps; windows are half-open, so a reservation
// ending at an instant does not conflict with one starting at it.
type BookReservationRequest struct {
	OrgID          int64             `json:"org_id"`
	CustomerID     int64             `json:"customer_id"`
	IdempotencyKey string            `json:"idempotency_key,omitempty"`
	StartDate      time.Time         `json:"start_date"`
	EndDate        time.Time         `json:"end_date"`
	Items          []BookingItemBody `json:"items"`
}

type BookingItemBody struct {
	ProductID int64 `json:"product_id"`
	Quantity  int32 `json:"quantity"`
}

type ReturnReservationRequest struct {
	OrgID        int64      `json:"org_id"`
	ActualReturn *time.Time `json:"actual_return,omitempty"`
	Condition    string     `json:"condition,omitempty"`
	Damaged      bool       `json:"damaged"`
}

type ReservationResponse struct {
	Reservation *domain.Reservation     `json:"reservation"`
	Pricing     *service.PricingSummary `json:"pricing,omitempty"`
	Fees        *service.FeeSummary     `json:"fees,omitempty"`
}

type AvailabilityResponse struct {
	ProductID    int64            `json:"product_id"`
	Available    bool             `json:"available"`
	FreeQuantity int32            `json:"free_quantity"`
	Conflicts    []domain.Overlap `json:"conflicts,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}
