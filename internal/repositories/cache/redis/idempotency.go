package redis

import (
	"context"
	"time"

	"github.com/eduinvest/eduinvest_backend/internal/apperrors"
	portsrepo "github.com/eduinvest/eduinvest_backend/internal/core/ports/repositories"
	"github.com/redis/go-redis/v9"
)

const idempotencyKeyPrefix = "eduinvest:idem:"

// IdempotencyStore implements duplicate-purchase suppression on redis SET NX.
// Keys live across instances, so a retry hitting another replica is still
// caught within the TTL window.
type IdempotencyStore struct {
	client *redis.Client
}

// NewIdempotencyStore creates a redis-backed idempotency store.
func NewIdempotencyStore(client *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{client: client}
}

var _ portsrepo.IdempotencyStore = (*IdempotencyStore)(nil)

// Acquire claims key for the caller. Only the first claim within ttl succeeds.
func (s *IdempotencyStore) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, idempotencyKeyPrefix+key, 1, ttl).Result()
	if err != nil {
		return false, apperrors.NewAppError(500, "failed to acquire idempotency key", err)
	}
	return ok, nil
}
