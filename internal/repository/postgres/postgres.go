package postgres

import (
	"database/sql"

	"rentops-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.TxManager
	repository.ReservationRepository
	repository.ProductRepository
	repository.ChargeRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                    db,
		TxManager:             NewTxManager(db),
		ReservationRepository: NewReservationRepository(db),
		ProductRepository:     NewProductRepository(db),
		ChargeRepository:      NewChargeRepository(db),
	}
}
