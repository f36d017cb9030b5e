package repos

import (
	"context"
	"testing"
	"time"

	"rentops-backend/internal/domain"
	"rentops-backend/internal/repository/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestProductRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewProductRepository(db)
	ctx := context.Background()

	product := &domain.Product{
		OrgID:             1,
		Name:              "Drill",
		QuantityTotal:     5,
		QuantityAvailable: 5,
		DailyRateCents:    1000,
		WeeklyRateCents:   6000,
		MonthlyRateCents:  20000,
		Active:            true,
	}

	mock.ExpectQuery("INSERT INTO products").
		WithArgs(product.OrgID, product.Name, product.QuantityTotal, product.QuantityAvailable,
			product.DailyRateCents, product.WeeklyRateCents, product.MonthlyRateCents, product.Active,
			sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10))

	err = repo.Create(ctx, product)
	assert.NoError(t, err)
	assert.Equal(t, int64(10), product.ID)
}

func TestProductRepository_GetForUpdateTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewProductRepository(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM products WHERE org_id = \\$1 AND id = \\$2 FOR UPDATE").
		WithArgs(int64(1), int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "org_id", "name", "quantity_total", "quantity_available",
			"daily_rate_cents", "weekly_rate_cents", "monthly_rate_cents", "active", "created_on", "updated_on"}).
			AddRow(10, 1, "Drill", 5, 3, 1000, 6000, 20000, true, time.Now(), time.Now()))

	tx, err := db.Begin()
	assert.NoError(t, err)

	product, err := repo.GetForUpdateTx(ctx, tx, 1, 10)
	assert.NoError(t, err)
	assert.Equal(t, int64(10), product.ID)
	assert.Equal(t, int32(5), product.QuantityTotal)
	assert.Equal(t, int32(3), product.QuantityAvailable)
}

func TestProductRepository_GetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewProductRepository(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT (.+) FROM products WHERE org_id = \\$1 AND id = \\$2").
		WithArgs(int64(1), int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = repo.GetByID(ctx, 1, 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductRepository_AdjustQuantityTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewProductRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE products").
			WithArgs(int32(-2), sqlmock.AnyArg(), int64(1), int64(10)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		tx, err := db.Begin()
		assert.NoError(t, err)

		err = repo.AdjustQuantityTx(ctx, tx, 1, 10, -2)
		assert.NoError(t, err)
	})

	t.Run("RejectedWhenOutOfBounds", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE products").
			WithArgs(int32(-9), sqlmock.AnyArg(), int64(1), int64(10)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		tx, err := db.Begin()
		assert.NoError(t, err)

		err = repo.AdjustQuantityTx(ctx, tx, 1, 10, -9)
		assert.Error(t, err)
	})
}
