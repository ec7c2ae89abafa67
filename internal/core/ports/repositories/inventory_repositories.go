package repositories

import (
	"context"
	"time"

	"github.com/eduinvest/eduinvest_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// InventoryRepositoryFacade is the durable share-inventory store. Reserve is
// the concurrency-critical entry point: the availability check and the hold
// must be one atomic step per course, so two racing purchases of the last N
// shares can never both succeed.
type InventoryRepositoryFacade interface {
	// GetAvailability returns the course's current available share count and
	// share price, with active (unexpired) reservations already subtracted.
	GetAvailability(ctx context.Context, courseID string) (available int64, sharePrice decimal.Decimal, err error)

	// Reserve atomically checks availability and places a hold for quantity
	// shares, snapshotting the current share price. Fails with
	// apperrors.ErrInsufficientShares when fewer than quantity shares are
	// effectively available (all-or-nothing, no partial fills) and with
	// apperrors.ErrCourseNotActive when the course is not open for purchases.
	// The hold lapses at now+ttl if not committed.
	Reserve(ctx context.Context, courseID, investorID string, quantity int64, ttl time.Duration) (*domain.Reservation, error)

	// Release drops a reservation, returning its shares to availability.
	// Releasing an unknown or already-consumed token is not an error.
	Release(ctx context.Context, token string) error

	// SweepExpired deletes reservations that lapsed before now and returns how
	// many were removed. Expired holds already stopped counting against
	// availability; the sweep only reclaims their rows.
	SweepExpired(ctx context.Context, now time.Time) (int64, error)
}
