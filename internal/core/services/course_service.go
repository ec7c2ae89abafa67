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
	"github.com/eduinvest/eduinvest_backend/internal/dto"
	"github.com/eduinvest/eduinvest_backend/internal/middleware"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// courseService provides course creation, lifecycle and marketplace reads.
type courseService struct {
	courseRepo portsrepo.CourseRepositoryFacade
}

// NewCourseService creates a new course service.
func NewCourseService(courseRepo portsrepo.CourseRepositoryFacade) portssvc.CourseSvcFacade {
	return &courseService{courseRepo: courseRepo}
}

var _ portssvc.CourseSvcFacade = (*courseService)(nil)

var hundred = decimal.NewFromInt(100)

// CreateCourse creates a course with a fixed share inventory. The course opens
// ACTIVE with every share available, matching how creators list courses.
func (s *courseService) CreateCourse(ctx context.Context, creatorID string, req dto.CreateCourseRequest) (*domain.Course, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.TotalShares < 1 {
		return nil, fmt.Errorf("%w: total shares must be at least 1", apperrors.ErrValidation)
	}
	if req.SharePrice.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: share price must be positive", apperrors.ErrValidation)
	}
	if req.Price.IsNegative() {
		return nil, fmt.Errorf("%w: course price must not be negative", apperrors.ErrValidation)
	}
	if req.RevenueSharePct.IsNegative() || req.RevenueSharePct.GreaterThan(hundred) {
		return nil, fmt.Errorf("%w: revenue share percentage must be between 0 and 100", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	course := domain.Course{
		CourseID:          uuid.NewString(),
		CreatorID:         creatorID,
		Title:             req.Title,
		Description:       req.Description,
		Category:          req.Category,
		Price:             req.Price,
		TotalShares:       req.TotalShares,
		AvailableShares:   req.TotalShares,
		SharePrice:        req.SharePrice,
		RevenueSharePct:   req.RevenueSharePct,
		CumulativeRevenue: decimal.Zero,
		Status:            domain.CourseStatusActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}

	if err := s.courseRepo.SaveCourse(ctx, course); err != nil {
		logger.Error("Failed to save course", slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Course created",
		slog.String("course_id", course.CourseID),
		slog.Int64("total_shares", course.TotalShares),
	)
	return &course, nil
}

// GetCourse retrieves a single course.
func (s *courseService) GetCourse(ctx context.Context, courseID string) (*domain.Course, error) {
	return s.courseRepo.FindCourseByID(ctx, courseID)
}

// ListActiveCourses retrieves the marketplace listing.
func (s *courseService) ListActiveCourses(ctx context.Context, limit, offset int) ([]domain.Course, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.courseRepo.ListCoursesByStatus(ctx, domain.CourseStatusActive, limit, offset)
}

// SetCourseStatus transitions a course's lifecycle status. Courses are never
// deleted, only moved through DRAFT/ACTIVE/PAUSED/COMPLETED.
func (s *courseService) SetCourseStatus(ctx context.Context, actorID string, courseID string, status domain.CourseStatus) (*domain.Course, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !domain.ValidCourseStatus(status) {
		return nil, fmt.Errorf("%w: unknown course status %q", apperrors.ErrValidation, status)
	}

	course, err := s.courseRepo.FindCourseByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course.CreatorID != actorID {
		return nil, fmt.Errorf("%w: only the course creator may change its status", apperrors.ErrForbidden)
	}

	now := time.Now().UTC()
	if err := s.courseRepo.UpdateCourseStatus(ctx, courseID, status, actorID, now); err != nil {
		return nil, err
	}

	logger.Info("Course status changed",
		slog.String("course_id", courseID),
		slog.String("from", string(course.Status)),
		slog.String("to", string(status)),
	)
	course.Status = status
	course.LastUpdatedAt = now
	course.LastUpdatedBy = actorID
	return course, nil
}

// GetCreatorStats aggregates revenue, students and course counts across a
// creator's courses for the creator dashboard.
func (s *courseService) GetCreatorStats(ctx context.Context, creatorID string) (*domain.CreatorStats, error) {
	courses, err := s.courseRepo.ListCoursesByCreator(ctx, creatorID)
	if err != nil {
		return nil, err
	}

	stats := &domain.CreatorStats{
		CreatorID:    creatorID,
		TotalRevenue: decimal.Zero,
		TotalCourses: len(courses),
	}
	for i := range courses {
		c := &courses[i]
		stats.TotalRevenue = stats.TotalRevenue.Add(c.CumulativeRevenue)
		stats.TotalStudents += c.StudentCount
		if c.Status == domain.CourseStatusActive {
			stats.ActiveCourses++
		}
	}
	return stats, nil
}
