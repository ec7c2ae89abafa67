package services

import (
	"context"

	"github.com/eduinvest/eduinvest_backend/internal/core/domain"
)

// PurchaseSvcFacade is the purchase coordinator: it admits purchase and sale
// requests against a course's finite share inventory without over-selling.
type PurchaseSvcFacade interface {
	// PurchaseShares buys quantity shares of a course for an investor.
	// All-or-nothing: either the full quantity is committed or nothing is.
	// idempotencyKey is optional; when set, retries of the same key are
	// rejected with apperrors.ErrDuplicate.
	//
	// Failure kinds: apperrors.ErrValidation (quantity < 1),
	// apperrors.ErrCourseNotActive, apperrors.ErrInsufficientShares
	// (retryable with a smaller quantity), apperrors.ErrReservationExpired
	// and persistence failures (reservation released, whole operation
	// retryable).
	PurchaseShares(ctx context.Context, investorID, courseID string, quantity int64, idempotencyKey string) (*domain.Investment, error)

	// SellShares sells quantity shares back at the current share price,
	// returning them to the course's availability.
	SellShares(ctx context.Context, investorID, courseID string, quantity int64) (*domain.Investment, error)
}
