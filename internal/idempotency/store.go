// Package idempotency maps caller-supplied booking keys to committed
// reservation IDs so a retried request never duplicates its effects. The
// store is a fast path only; the unique idempotency key column on the
// reservations table remains the authority.
package idempotency

import (
	"context"
	"fmt"
	"sync"
	"time"
)

type Store interface {
	// Get returns the reservation ID recorded for the key, if any.
	Get(ctx context.Context, orgID int64, key string) (int64, bool, error)
	// Set records the reservation committed for the key.
	Set(ctx context.Context, orgID int64, key string, reservationID int64, ttl time.Duration) error
}

func storeKey(orgID int64, key string) string {
	return fmt.Sprintf("idem:%d:%s", orgID, key)
}

// MemoryStore is an in-process Store for tests and single-node deployments.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]int64)}
}

func (s *MemoryStore) Get(ctx context.Context, orgID int64, key string) (int64, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.entries[storeKey(orgID, key)]
	return id, ok, nil
}

func (s *MemoryStore) Set(ctx context.Context, orgID int64, key string, reservationID int64, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[storeKey(orgID, key)] = reservationID
	return nil
}
