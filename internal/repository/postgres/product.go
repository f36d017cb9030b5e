package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"rentops-backend/internal/domain"
	"rentops-backend/internal/repository"
)

type productRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) repository.ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `id, org_id, name, quantity_total, quantity_available, daily_rate_cents, weekly_rate_cents, monthly_rate_cents, active, created_on, updated_on`

func (r *productRepository) Create(ctx context.Context, p *domain.Product) error {
	query := `INSERT INTO products (org_id, name, quantity_total, quantity_available, daily_rate_cents, weekly_rate_cents, monthly_rate_cents, active, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	now := time.Now()
	return r.db.QueryRowContext(ctx, query,
		p.OrgID, p.Name, p.QuantityTotal, p.QuantityAvailable,
		p.DailyRateCents, p.WeeklyRateCents, p.MonthlyRateCents, p.Active, now, now,
	).Scan(&p.ID)
}

func (r *productRepository) GetByID(ctx context.Context, orgID, id int64) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE org_id = $1 AND id = $2`
	return r.scanProduct(r.db.QueryRowContext(ctx, query, orgID, id))
}

func (r *productRepository) GetForUpdateTx(ctx context.Context, tx *sql.Tx, orgID, id int64) (*domain.Product, error) {
	// FOR UPDATE serializes concurrent bookings of the same product for the
	// remainder of the transaction.
	query := `SELECT ` + productColumns + ` FROM products WHERE org_id = $1 AND id = $2 FOR UPDATE`
	return r.scanProduct(tx.QueryRowContext(ctx, query, orgID, id))
}

func (r *productRepository) scanProduct(row *sql.Row) (*domain.Product, error) {
	p := &domain.Product{}
	err := row.Scan(&p.ID, &p.OrgID, &p.Name, &p.QuantityTotal, &p.QuantityAvailable,
		&p.DailyRateCents, &p.WeeklyRateCents, &p.MonthlyRateCents, &p.Active, &p.CreatedOn, &p.UpdatedOn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *productRepository) AdjustQuantityTx(ctx context.Context, tx *sql.Tx, orgID, id int64, delta int32) error {
	// The WHERE clause keeps the cached available count inside [0, total]
	// even if a caller gets the delta wrong.
	query := `UPDATE products
	          SET quantity_available = quantity_available + $1, updated_on = $2
	          WHERE org_id = $3 AND id = $4
	            AND quantity_available + $1 >= 0
	            AND quantity_available + $1 <= quantity_total`
	result, err := tx.ExecContext(ctx, query, delta, time.Now(), orgID, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("quantity adjustment of %d rejected for product %d", delta, id)
	}
	return nil
}
