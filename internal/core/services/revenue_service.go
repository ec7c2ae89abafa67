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
	"github.com/shopspring/decimal"
)

// revenueService validates revenue reports and hands them to the ledger for
// atomic distribution. The distribution itself runs under the course row lock,
// mutually exclusive with purchases and sales on the same course, so the
// sold-shares denominator always matches the holdings snapshot being paid.
type revenueService struct {
	courseRepo portsrepo.CourseRepositoryFacade
	ledgerRepo portsrepo.LedgerRepositoryFacade
	publisher  events.Publisher
}

// NewRevenueService creates the revenue distribution engine.
func NewRevenueService(
	courseRepo portsrepo.CourseRepositoryFacade,
	ledgerRepo portsrepo.LedgerRepositoryFacade,
	publisher events.Publisher,
) portssvc.RevenueSvcFacade {
	return &revenueService{
		courseRepo: courseRepo,
		ledgerRepo: ledgerRepo,
		publisher:  publisher,
	}
}

var _ portssvc.RevenueSvcFacade = (*revenueService)(nil)

// ReportRevenue records gross revenue for a course and distributes the
// shareable pool across current holders.
func (s *revenueService) ReportRevenue(ctx context.Context, reporterID, courseID string, gross decimal.Decimal) (*domain.RevenueReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx).With(
		slog.String("course_id", courseID),
		slog.String("reporter_id", reporterID),
	)

	if gross.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: revenue amount must be positive, got %s", apperrors.ErrValidation, gross)
	}

	course, err := s.courseRepo.FindCourseByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course.CreatorID != reporterID {
		return nil, fmt.Errorf("%w: only the course creator may report revenue", apperrors.ErrForbidden)
	}

	now := time.Now().UTC()
	report, err := s.ledgerRepo.DistributeRevenue(ctx, courseID, gross, reporterID, now)
	if err != nil {
		return nil, err
	}

	logger.Info("Revenue distributed",
		slog.String("gross", report.Gross.String()),
		slog.String("pool", report.ShareablePool.String()),
		slog.Int("recipients", len(report.Allocations)),
		slog.Int64("sold_shares", report.SoldShares),
	)

	if s.publisher != nil {
		for i := range report.Entries {
			entry := &report.Entries[i]
			s.publisher.Publish(ctx, events.CourseEvent{
				CourseID:        report.Course.CourseID,
				Kind:            entry.Kind,
				SequenceNo:      entry.SequenceNo,
				AvailableShares: report.Course.AvailableShares,
				SharePrice:      report.Course.SharePrice,
				OccurredAt:      entry.CreatedAt,
			})
		}
	}
	return report, nil
}
