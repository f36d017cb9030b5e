package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"rentops-backend/internal/domain"
	"rentops-backend/internal/repository"

	"github.com/lib/pq"
)

type reservationRepository struct {
	db *sql.DB
}

func NewReservationRepository(db *sql.DB) repository.ReservationRepository {
	return &reservationRepository{db: db}
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func (r *reservationRepository) q(tx *sql.Tx) querier {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *reservationRepository) CreateTx(ctx context.Context, tx *sql.Tx, res *domain.Reservation) error {
	// reservation_no is a per-tenant human-readable sequence, assigned inside
	// the booking transaction so it stays gapless under contention.
	query := `INSERT INTO reservations (org_id, reservation_no, customer_id, idempotency_key, start_date, end_date, status,
	                                    subtotal_cents, discount_cents, tax_cents, total_cents, created_on, updated_on)
	          VALUES ($1, (SELECT COALESCE(MAX(reservation_no), 0) + 1 FROM reservations WHERE org_id = $1),
	                  $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	          RETURNING id, reservation_no`

	var idemKey interface{}
	if res.IdempotencyKey != "" {
		idemKey = res.IdempotencyKey
	}

	now := time.Now()
	err := tx.QueryRowContext(ctx, query,
		res.OrgID, res.CustomerID, idemKey, res.StartDate, res.EndDate, res.Status,
		res.SubtotalCents, res.DiscountCents, res.TaxCents, res.TotalCents, now, now,
	).Scan(&res.ID, &res.ReservationNo)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" && strings.Contains(pqErr.Constraint, "idempotency") {
			return domain.ErrDuplicateIdempotencyKey
		}
		return err
	}

	return r.createItemsTx(ctx, tx, res)
}

func (r *reservationRepository) createItemsTx(ctx context.Context, tx *sql.Tx, res *domain.Reservation) error {
	if len(res.Items) == 0 {
		return nil
	}
	query := `INSERT INTO reservation_items (reservation_id, product_id, quantity, unit_price_cents, daily_rate_cents, tariff_type, line_total_cents) VALUES `
	args := make([]interface{}, 0, len(res.Items)*7)
	for i := range res.Items {
		if i > 0 {
			query += ","
		}
		base := i * 7
		query += fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7)
		it := &res.Items[i]
		it.ReservationID = res.ID
		args = append(args, res.ID, it.ProductID, it.Quantity, it.UnitPriceCents, it.DailyRateCents, it.TariffType, it.LineTotalCents)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

func (r *reservationRepository) GetByID(ctx context.Context, tx *sql.Tx, orgID, id int64) (*domain.Reservation, error) {
	query := `SELECT id, org_id, reservation_no, customer_id, idempotency_key, start_date, end_date, status,
	                 subtotal_cents, discount_cents, tax_cents, total_cents, actual_return, return_condition, created_on, updated_on
	          FROM reservations WHERE org_id = $1 AND id = $2`
	res, err := r.scanReservation(r.q(tx).QueryRowContext(ctx, query, orgID, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, tx, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (r *reservationRepository) GetByIdempotencyKey(ctx context.Context, orgID int64, key string) (*domain.Reservation, error) {
	query := `SELECT id, org_id, reservation_no, customer_id, idempotency_key, start_date, end_date, status,
	                 subtotal_cents, discount_cents, tax_cents, total_cents, actual_return, return_condition, created_on, updated_on
	          FROM reservations WHERE org_id = $1 AND idempotency_key = $2`
	res, err := r.scanReservation(r.db.QueryRowContext(ctx, query, orgID, key))
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, nil, res); err != nil {
		return nil, err
	}
	return res, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *reservationRepository) scanReservation(row rowScanner) (*domain.Reservation, error) {
	res := &domain.Reservation{}
	var idemKey sql.NullString
	var actualReturn sql.NullTime
	var condition sql.NullString
	err := row.Scan(&res.ID, &res.OrgID, &res.ReservationNo, &res.CustomerID, &idemKey,
		&res.StartDate, &res.EndDate, &res.Status,
		&res.SubtotalCents, &res.DiscountCents, &res.TaxCents, &res.TotalCents,
		&actualReturn, &condition, &res.CreatedOn, &res.UpdatedOn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if idemKey.Valid {
		res.IdempotencyKey = idemKey.String
	}
	if actualReturn.Valid {
		t := actualReturn.Time
		res.ActualReturn = &t
	}
	if condition.Valid {
		res.ReturnCondition = condition.String
	}
	return res, nil
}

func (r *reservationRepository) loadItems(ctx context.Context, tx *sql.Tx, res *domain.Reservation) error {
	query := `SELECT id, reservation_id, product_id, quantity, unit_price_cents, daily_rate_cents, tariff_type, line_total_cents
	          FROM reservation_items WHERE reservation_id = $1 ORDER BY id`
	rows, err := r.q(tx).QueryContext(ctx, query, res.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var it domain.ReservationItem
		if err := rows.Scan(&it.ID, &it.ReservationID, &it.ProductID, &it.Quantity,
			&it.UnitPriceCents, &it.DailyRateCents, &it.TariffType, &it.LineTotalCents); err != nil {
			return err
		}
		res.Items = append(res.Items, it)
	}
	return rows.Err()
}

func (r *reservationRepository) FindOverlapping(ctx context.Context, tx *sql.Tx, orgID, productID int64, start, end time.Time, excluded []domain.ReservationStatus) ([]domain.Overlap, error) {
	// Half-open interval overlap: [a1,a2) and [b1,b2) intersect iff
	// a1 < b2 AND b1 < a2. A reservation ending exactly when the requested
	// window starts does not conflict.
	query := `SELECT r.id, r.reservation_no, ri.quantity, r.start_date, r.end_date
	          FROM reservations r
	          JOIN reservation_items ri ON ri.reservation_id = r.id
	          WHERE r.org_id = $1 AND ri.product_id = $2
	            AND r.start_date < $3 AND r.end_date > $4`
	args := []interface{}{orgID, productID, end, start}
	if len(excluded) > 0 {
		placeholders := make([]string, len(excluded))
		for i, st := range excluded {
			placeholders[i] = fmt.Sprintf("$%d", len(args)+1)
			args = append(args, st)
		}
		query += " AND r.status NOT IN (" + strings.Join(placeholders, ",") + ")"
	}
	query += " ORDER BY r.start_date"

	rows, err := r.q(tx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var overlaps []domain.Overlap
	for rows.Next() {
		var o domain.Overlap
		if err := rows.Scan(&o.ReservationID, &o.ReservationNo, &o.Quantity, &o.StartDate, &o.EndDate); err != nil {
			return nil, err
		}
		overlaps = append(overlaps, o)
	}
	return overlaps, rows.Err()
}

func (r *reservationRepository) UpdateStatusTx(ctx context.Context, tx *sql.Tx, orgID, id int64, status domain.ReservationStatus) error {
	query := `UPDATE reservations SET status = $1, updated_on = $2 WHERE org_id = $3 AND id = $4`
	result, err := r.q(tx).ExecContext(ctx, query, status, time.Now(), orgID, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *reservationRepository) UpdateReturnTx(ctx context.Context, tx *sql.Tx, res *domain.Reservation) error {
	query := `UPDATE reservations SET status = $1, actual_return = $2, return_condition = $3, updated_on = $4
	          WHERE org_id = $5 AND id = $6`
	result, err := r.q(tx).ExecContext(ctx, query, res.Status, res.ActualReturn, res.ReturnCondition, time.Now(), res.OrgID, res.ID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *reservationRepository) ListEndedBefore(ctx context.Context, cutoff time.Time, statuses []domain.ReservationStatus) ([]domain.Reservation, error) {
	query := `SELECT id, org_id, reservation_no, customer_id, idempotency_key, start_date, end_date, status,
	                 subtotal_cents, discount_cents, tax_cents, total_cents, actual_return, return_condition, created_on, updated_on
	          FROM reservations WHERE end_date < $1`
	args := []interface{}{cutoff}
	if len(statuses) > 0 {
		placeholders := make([]string, len(statuses))
		for i, st := range statuses {
			placeholders[i] = fmt.Sprintf("$%d", len(args)+1)
			args = append(args, st)
		}
		query += " AND status IN (" + strings.Join(placeholders, ",") + ")"
	}
	query += " ORDER BY end_date"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Reservation
	for rows.Next() {
		res := domain.Reservation{}
		var idemKey sql.NullString
		var actualReturn sql.NullTime
		var condition sql.NullString
		if err := rows.Scan(&res.ID, &res.OrgID, &res.ReservationNo, &res.CustomerID, &idemKey,
			&res.StartDate, &res.EndDate, &res.Status,
			&res.SubtotalCents, &res.DiscountCents, &res.TaxCents, &res.TotalCents,
			&actualReturn, &condition, &res.CreatedOn, &res.UpdatedOn); err != nil {
			return nil, err
		}
		if idemKey.Valid {
			res.IdempotencyKey = idemKey.String
		}
		if actualReturn.Valid {
			t := actualReturn.Time
			res.ActualReturn = &t
		}
		if condition.Valid {
			res.ReturnCondition = condition.String
		}
		out = append(out, res)
	}
	return out, rows.Err()
}
