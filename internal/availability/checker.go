// Package availability decides whether a product has enough free units for a
// requested window, given the reservations that already hold inventory.
package availability

import (
	"context"
	"database/sql"
	"time"

	"rentops-backend/internal/domain"
	"rentops-backend/internal/repository"
)

type Checker struct {
	reservations repository.ReservationRepository
}

func NewChecker(reservations repository.ReservationRepository) *Checker {
	return &Checker{reservations: reservations}
}

// Result reports the outcome of an availability check. Conflicts carries the
// overlapping reservations regardless of the outcome so callers can explain
// a rejection or warn about tight windows.
type Result struct {
	Available    bool             `json:"available"`
	FreeQuantity int32            `json:"free_quantity"`
	Conflicts    []domain.Overlap `json:"conflicts,omitempty"`
}

// Check computes the free quantity of product over [start, end) and whether
// it covers requestedQty. Reservations in released statuses are ignored.
// Read-only; callers booking against the result must run it inside the same
// transaction as the reservation insert, passing that tx.
func (c *Checker) Check(ctx context.Context, tx *sql.Tx, product *domain.Product, start, end time.Time, requestedQty int32) (*Result, error) {
	overlaps, err := c.reservations.FindOverlapping(ctx, tx, product.OrgID, product.ID, start, end, domain.ReleasedStatuses())
	if err != nil {
		return nil, err
	}

	var reserved int32
	for _, o := range overlaps {
		reserved += o.Quantity
	}

	free := product.QuantityTotal - reserved
	if free < 0 {
		free = 0
	}
	return &Result{
		Available:    free >= requestedQty,
		FreeQuantity: free,
		Conflicts:    overlaps,
	}, nil
}
