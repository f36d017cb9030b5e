package postgres

import (
	"context"
	"database/sql"
	"time"

	"rentops-backend/internal/domain"
	"rentops-backend/internal/repository"
)

type chargeRepository struct {
	db *sql.DB
}

func NewChargeRepository(db *sql.DB) repository.ChargeRepository {
	return &chargeRepository{db: db}
}

func (r *chargeRepository) CreateTx(ctx context.Context, tx *sql.Tx, c *domain.Charge) error {
	query := `INSERT INTO charges (org_id, reservation_id, type, amount_cents, description, status, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	return tx.QueryRowContext(ctx, query,
		c.OrgID, c.ReservationID, c.Type, c.AmountCents, c.Description, c.Status, time.Now(),
	).Scan(&c.ID)
}

func (r *chargeRepository) ListByReservation(ctx context.Context, orgID, reservationID int64) ([]domain.Charge, error) {
	query := `SELECT id, org_id, reservation_id, type, amount_cents, description, status, created_on
	          FROM charges WHERE org_id = $1 AND reservation_id = $2 ORDER BY created_on`
	rows, err := r.db.QueryContext(ctx, query, orgID, reservationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var charges []domain.Charge
	for rows.Next() {
		var c domain.Charge
		if err := rows.Scan(&c.ID, &c.OrgID, &c.ReservationID, &c.Type, &c.AmountCents, &c.Description, &c.Status, &c.CreatedOn); err != nil {
			return nil, err
		}
		charges = append(charges, c)
	}
	return charges, rows.Err()
}
