package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"rentops-backend/internal/domain"
	"rentops-backend/internal/repository"

	"github.com/lib/pq"
)

type txManager struct {
	db *sql.DB
}

func NewTxManager(db *sql.DB) repository.TxManager {
	return &txManager{db: db}
}

// WithinTx runs fn inside a SERIALIZABLE transaction. The transaction is
// rolled back on any error; serialization failures and deadlocks surface as
// domain.ErrTxConflict so callers can retry with the same idempotency key.
func (m *txManager) WithinTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := m.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("%w: begin: %v", domain.ErrStorageUnavailable, err)
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return classify(err)
	}

	if err := tx.Commit(); err != nil {
		_ = tx.Rollback()
		return classify(err)
	}
	return nil
}

// classify maps driver-level contention errors to the transient taxonomy and
// passes everything else through untouched.
func classify(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "40001", "40P01": // serialization_failure, deadlock_detected
			return fmt.Errorf("%w: %v", domain.ErrTxConflict, err)
		}
	}
	return err
}
