package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/eduinvest/eduinvest_backend/internal/apperrors"
	"github.com/eduinvest/eduinvest_backend/internal/core/domain"
	portsrepo "github.com/eduinvest/eduinvest_backend/internal/core/ports/repositories"
	portssvc "github.com/eduinvest/eduinvest_backend/internal/core/ports/services"
	"github.com/eduinvest/eduinvest_backend/internal/events"
	"github.com/eduinvest/eduinvest_backend/internal/middleware"
)

// purchaseService coordinates purchases and sales against a course's finite
// share inventory. The reserve step is the only availability check: it and the
// hold are one atomic step in the inventory store, so concurrent purchases of
// the last N shares can never oversell. The commit step consumes the
// reservation inside a single storage transaction; if that transaction fails,
// the reservation is released and no partial state is visible.
type purchaseService struct {
	courseRepo     portsrepo.CourseRepositoryFacade
	inventoryRepo  portsrepo.InventoryRepositoryFacade
	ledgerRepo     portsrepo.LedgerRepositoryFacade
	publisher      events.Publisher
	idempotency    portsrepo.IdempotencyStore // optional
	reservationTTL time.Duration
	idempotencyTTL time.Duration
}

// NewPurchaseService creates the purchase coordinator. idempotency may be nil,
// in which case idempotency keys are ignored.
func NewPurchaseService(
	courseRepo portsrepo.CourseRepositoryFacade,
	inventoryRepo portsrepo.InventoryRepositoryFacade,
	ledgerRepo portsrepo.LedgerRepositoryFacade,
	publisher events.Publisher,
	idempotency portsrepo.IdempotencyStore,
	reservationTTL time.Duration,
) portssvc.PurchaseSvcFacade {
	if reservationTTL <= 0 {
		reservationTTL = 30 * time.Second
	}
	return &purchaseService{
		courseRepo:     courseRepo,
		inventoryRepo:  inventoryRepo,
		ledgerRepo:     ledgerRepo,
		publisher:      publisher,
		idempotency:    idempotency,
		reservationTTL: reservationTTL,
		idempotencyTTL: 24 * time.Hour,
	}
}

var _ portssvc.PurchaseSvcFacade = (*purchaseService)(nil)

// PurchaseShares buys quantity shares of courseID for investorID, all or nothing.
func (s *purchaseService) PurchaseShares(ctx context.Context, investorID, courseID string, quantity int64, idempotencyKey string) (*domain.Investment, error) {
	logger := middleware.GetLoggerFromCtx(ctx).With(
		slog.String("course_id", courseID),
		slog.String("investor_id", investorID),
		slog.Int64("quantity", quantity),
	)

	// Validation rejects before any state is touched.
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1, got %d", apperrors.ErrValidation, quantity)
	}

	if s.idempotency != nil && idempotencyKey != "" {
		key := fmt.Sprintf("purchase:%s:%s:%s", investorID, courseID, idempotencyKey)
		first, err := s.idempotency.Acquire(ctx, key, s.idempotencyTTL)
		if err != nil {
			return nil, fmt.Errorf("idempotency check failed: %w", err)
		}
		if !first {
			return nil, fmt.Errorf("%w: purchase with key %s already accepted", apperrors.ErrDuplicate, idempotencyKey)
		}
	}

	course, err := s.courseRepo.FindCourseByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course.Status != domain.CourseStatusActive {
		return nil, fmt.Errorf("%w: course %s is %s", apperrors.ErrCourseNotActive, courseID, course.Status)
	}

	// Atomic check-and-hold; the price is snapshotted here and fixed for this
	// transaction even if the creator changes it mid-flight.
	reservation, err := s.inventoryRepo.Reserve(ctx, courseID, investorID, quantity, s.reservationTTL)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	investment, entry, updatedCourse, err := s.ledgerRepo.CommitPurchase(ctx, *reservation, now)
	if err != nil {
		// Ledger append failed: roll the hold back so no inventory is stranded.
		if relErr := s.inventoryRepo.Release(ctx, reservation.Token); relErr != nil {
			// The reservation will still lapse on its own at ExpiresAt.
			logger.Error("Failed to release reservation after commit failure",
				slog.String("token", reservation.Token), slog.String("error", relErr.Error()))
		}
		return nil, err
	}

	logger.Info("Purchase committed",
		slog.Int64("sequence_no", entry.SequenceNo),
		slog.String("total_cost", reservation.TotalCost().String()),
	)
	s.publishEntry(ctx, entry, updatedCourse)
	return investment, nil
}

// SellShares sells quantity shares back at the current share price.
func (s *purchaseService) SellShares(ctx context.Context, investorID, courseID string, quantity int64) (*domain.Investment, error) {
	logger := middleware.GetLoggerFromCtx(ctx).With(
		slog.String("course_id", courseID),
		slog.String("investor_id", investorID),
		slog.Int64("quantity", quantity),
	)

	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1, got %d", apperrors.ErrValidation, quantity)
	}

	course, err := s.courseRepo.FindCourseByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course.Status != domain.CourseStatusActive {
		return nil, fmt.Errorf("%w: course %s is %s", apperrors.ErrCourseNotActive, courseID, course.Status)
	}

	now := time.Now().UTC()
	investment, entry, updatedCourse, err := s.ledgerRepo.CommitSale(ctx, investorID, courseID, quantity, now)
	if err != nil {
		return nil, err
	}

	logger.Info("Sale committed", slog.Int64("sequence_no", entry.SequenceNo))
	s.publishEntry(ctx, entry, updatedCourse)
	return investment, nil
}

// publishEntry emits the change-notification event for a committed entry.
// Best-effort: subscriber delivery never blocks or fails the transaction.
func (s *purchaseService) publishEntry(ctx context.Context, entry *domain.LedgerEntry, course *domain.Course) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(ctx, events.CourseEvent{
		CourseID:        course.CourseID,
		Kind:            entry.Kind,
		SequenceNo:      entry.SequenceNo,
		AvailableShares: course.AvailableShares,
		SharePrice:      course.SharePrice,
		OccurredAt:      entry.CreatedAt,
	})
}
