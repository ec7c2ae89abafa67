package repositories

import (
	"context"
	"time"
)

// IdempotencyStore suppresses duplicate purchase submissions. Acquire returns
// true only for the first caller of a key within the TTL window; retries of an
// already-accepted request see false and are rejected before touching
// inventory.
type IdempotencyStore interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
}
