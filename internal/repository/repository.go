package repository

import (
	"context"
	"database/sql"
	"time"

	"rentops-backend/internal/domain"
)

// TxManager runs a function inside a single serializable transaction.
// The availability check, reservation insert and inventory mutation of a
// booking must share one transaction; this is the boundary that prevents two
// concurrent bookings from jointly overstocking a product.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(tx *sql.Tx) error) error
}

// Methods that accept a tx parameter run against it when non-nil and fall
// back to the plain connection otherwise.

type ReservationRepository interface {
	// CreateTx inserts the reservation and its line items, assigning ID and
	// the per-tenant ReservationNo. Returns domain.ErrDuplicateIdempotencyKey
	// when the tenant already booked with the same idempotency key.
	CreateTx(ctx context.Context, tx *sql.Tx, r *domain.Reservation) error
	GetByID(ctx context.Context, tx *sql.Tx, orgID, id int64) (*domain.Reservation, error)
	GetByIdempotencyKey(ctx context.Context, orgID int64, key string) (*domain.Reservation, error)
	// FindOverlapping returns reservations for the product whose status is not
	// in excluded and whose window intersects [start, end). Windows are
	// half-open: a reservation ending exactly at start is not a conflict.
	FindOverlapping(ctx context.Context, tx *sql.Tx, orgID, productID int64, start, end time.Time, excluded []domain.ReservationStatus) ([]domain.Overlap, error)
	UpdateStatusTx(ctx context.Context, tx *sql.Tx, orgID, id int64, status domain.ReservationStatus) error
	// UpdateReturnTx records the return: status, actual return time and
	// reported condition in one statement.
	UpdateReturnTx(ctx context.Context, tx *sql.Tx, r *domain.Reservation) error
	ListEndedBefore(ctx context.Context, cutoff time.Time, statuses []domain.ReservationStatus) ([]domain.Reservation, error)
}

type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) error
	GetByID(ctx context.Context, orgID, id int64) (*domain.Product, error)
	// GetForUpdateTx locks the product row for the rest of the transaction,
	// serializing concurrent bookings of the same product.
	GetForUpdateTx(ctx context.Context, tx *sql.Tx, orgID, id int64) (*domain.Product, error)
	// AdjustQuantityTx applies a delta to the available quantity. The update
	// refuses to take the count below zero.
	AdjustQuantityTx(ctx context.Context, tx *sql.Tx, orgID, id int64, delta int32) error
}

type ChargeRepository interface {
	CreateTx(ctx context.Context, tx *sql.Tx, c *domain.Charge) error
	ListByReservation(ctx context.Context, orgID, reservationID int64) ([]domain.Charge, error)
}
