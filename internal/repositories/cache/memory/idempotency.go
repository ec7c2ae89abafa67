package memory

import (
	"context"
	"sync"
	"time"

	portsrepo "github.com/eduinvest/eduinvest_backend/internal/core/ports/repositories"
)

// IdempotencyStore is a process-local fallback used when no redis URL is
// configured. Single-instance deployments get the same duplicate suppression;
// multi-instance deployments must use the redis store.
type IdempotencyStore struct {
	mu   sync.Mutex
	keys map[string]time.Time // key -> expiry
}

// NewIdempotencyStore creates an in-memory idempotency store.
func NewIdempotencyStore() *IdempotencyStore {
	return &IdempotencyStore{keys: make(map[string]time.Time)}
}

var _ portsrepo.IdempotencyStore = (*IdempotencyStore)(nil)

// Acquire claims key for the caller. Only the first claim within ttl succeeds.
func (s *IdempotencyStore) Acquire(_ context.Context, key string, ttl time.Duration) (bool, error) {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	// Opportunistic cleanup keeps the map bounded without a background sweeper.
	for k, exp := range s.keys {
		if now.After(exp) {
			delete(s.keys, k)
		}
	}

	if exp, ok := s.keys[key]; ok && now.Before(exp) {
		return false, nil
	}
	s.keys[key] = now.Add(ttl)
	return true, nil
}
