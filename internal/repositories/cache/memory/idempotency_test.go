package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/eduinvest/eduinvest_backend/internal/repositories/cache/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdempotencyStore_FirstClaimWins(t *testing.T) {
	store := memory.NewIdempotencyStore()
	ctx := context.Background()

	first, err := store.Acquire(ctx, "purchase:inv-a:course-1:key", time.Minute)
	require.NoError(t, err)
	assert.True(t, first)

	second, err := store.Acquire(ctx, "purchase:inv-a:course-1:key", time.Minute)
	require.NoError(t, err)
	assert.False(t, second)

	// A different key is unaffected.
	other, err := store.Acquire(ctx, "purchase:inv-a:course-1:other", time.Minute)
	require.NoError(t, err)
	assert.True(t, other)
}

func TestIdempotencyStore_ExpiredKeyReusable(t *testing.T) {
	store := memory.NewIdempotencyStore()
	ctx := context.Background()

	first, err := store.Acquire(ctx, "key", time.Nanosecond)
	require.NoError(t, err)
	assert.True(t, first)

	time.Sleep(5 * time.Millisecond)

	again, err := store.Acquire(ctx, "key", time.Minute)
	require.NoError(t, err)
	assert.True(t, again)
}
