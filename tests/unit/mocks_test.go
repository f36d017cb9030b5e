package unit

import (
	"context"
	"database/sql"
	"time"

	"rentops-backend/internal/domain"
	"rentops-backend/internal/service"

	"github.com/stretchr/testify/mock"
)

// MockTxManager runs the transactional function against a nil tx so service
// logic can be tested without a database.
type MockTxManager struct {
	mock.Mock
}

func (m *MockTxManager) WithinTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(nil)
}

// MockReservationRepo
type MockReservationRepo struct {
	mock.Mock
}

func (m *MockReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, r *domain.Reservation) error {
	args := m.Called(ctx, tx, r)
	return args.Error(0)
}
func (m *MockReservationRepo) GetByID(ctx context.Context, tx *sql.Tx, orgID, id int64) (*domain.Reservation, error) {
	args := m.Called(ctx, tx, orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}
func (m *MockReservationRepo) GetByIdempotencyKey(ctx context.Context, orgID int64, key string) (*domain.Reservation, error) {
	args := m.Called(ctx, orgID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}
func (m *MockReservationRepo) FindOverlapping(ctx context.Context, tx *sql.Tx, orgID, productID int64, start, end time.Time, excluded []domain.ReservationStatus) ([]domain.Overlap, error) {
	args := m.Called(ctx, tx, orgID, productID, start, end, excluded)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Overlap), args.Error(1)
}
func (m *MockReservationRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, orgID, id int64, status domain.ReservationStatus) error {
	args := m.Called(ctx, tx, orgID, id, status)
	return args.Error(0)
}
func (m *MockReservationRepo) UpdateReturnTx(ctx context.Context, tx *sql.Tx, r *domain.Reservation) error {
	args := m.Called(ctx, tx, r)
	return args.Error(0)
}
func (m *MockReservationRepo) ListEndedBefore(ctx context.Context, cutoff time.Time, statuses []domain.ReservationStatus) ([]domain.Reservation, error) {
	args := m.Called(ctx, cutoff, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Reservation), args.Error(1)
}

// MockProductRepo
type MockProductRepo struct {
	mock.Mock
}

func (m *MockProductRepo) Create(ctx context.Context, p *domain.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
func (m *MockProductRepo) GetByID(ctx context.Context, orgID, id int64) (*domain.Product, error) {
	args := m.Called(ctx, orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}
func (m *MockProductRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, orgID, id int64) (*domain.Product, error) {
	args := m.Called(ctx, tx, orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}
func (m *MockProductRepo) AdjustQuantityTx(ctx context.Context, tx *sql.Tx, orgID, id int64, delta int32) error {
	args := m.Called(ctx, tx, orgID, id, delta)
	return args.Error(0)
}

// MockChargeRepo
type MockChargeRepo struct {
	mock.Mock
}

func (m *MockChargeRepo) CreateTx(ctx context.Context, tx *sql.Tx, c *domain.Charge) error {
	args := m.Called(ctx, tx, c)
	return args.Error(0)
}
func (m *MockChargeRepo) ListByReservation(ctx context.Context, orgID, reservationID int64) ([]domain.Charge, error) {
	args := m.Called(ctx, orgID, reservationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Charge), args.Error(1)
}

// MockNotifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyBooked(ctx context.Context, res *domain.Reservation) error {
	args := m.Called(ctx, res)
	return args.Error(0)
}
func (m *MockNotifier) NotifyConfirmed(ctx context.Context, res *domain.Reservation) error {
	args := m.Called(ctx, res)
	return args.Error(0)
}
func (m *MockNotifier) NotifyReturned(ctx context.Context, res *domain.Reservation, fees *service.FeeSummary) error {
	args := m.Called(ctx, res, fees)
	return args.Error(0)
}
func (m *MockNotifier) NotifyCancelled(ctx context.Context, res *domain.Reservation) error {
	args := m.Called(ctx, res)
	return args.Error(0)
}
func (m *MockNotifier) NotifyOverdue(ctx context.Context, res *domain.Reservation) error {
	args := m.Called(ctx, res)
	return args.Error(0)
}

// MockTaxProvider
type MockTaxProvider struct {
	mock.Mock
}

func (m *MockTaxProvider) TaxCents(ctx context.Context, orgID int64, taxableCents int64) (int64, error) {
	args := m.Called(ctx, orgID, taxableCents)
	return args.Get(0).(int64), args.Error(1)
}
