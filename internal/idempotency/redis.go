package idempotency

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps idempotency keys in redis so retries are deduplicated
// across instances.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, orgID int64, key string) (int64, bool, error) {
	id, err := s.client.Get(ctx, storeKey(orgID, key)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return id, true, nil
}

func (s *RedisStore) Set(ctx context.Context, orgID int64, key string, reservationID int64, ttl time.Duration) error {
	return s.client.Set(ctx, storeKey(orgID, key), reservationID, ttl).Err()
}
