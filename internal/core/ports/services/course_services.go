package services

import (
	"context"

	"github.com/eduinvest/eduinvest_backend/internal/core/domain"
	"github.com/eduinvest/eduinvest_backend/internal/dto"
)

// CourseReaderSvc defines read-only course operations. Reads are pure: repeated
// calls with no intervening writes return identical results.
type CourseReaderSvc interface {
	// GetCourse retrieves a single course.
	GetCourse(ctx context.Context, courseID string) (*domain.Course, error)

	// ListActiveCourses retrieves a paginated marketplace listing of courses
	// open for investment.
	ListActiveCourses(ctx context.Context, limit, offset int) ([]domain.Course, error)

	// GetCreatorStats aggregates revenue, student counts and course counts
	// across a creator's courses.
	GetCreatorStats(ctx context.Context, creatorID string) (*domain.CreatorStats, error)
}

// CourseWriterSvc defines course management operations.
type CourseWriterSvc interface {
	// CreateCourse creates a course with a fixed share inventory. Total shares
	// are immutable after this point.
	CreateCourse(ctx context.Context, creatorID string, req dto.CreateCourseRequest) (*domain.Course, error)

	// SetCourseStatus transitions a course's lifecycle status. Only the course
	// creator (or an admin) may do this.
	SetCourseStatus(ctx context.Context, actorID string, courseID string, status domain.CourseStatus) (*domain.Course, error)
}

// CourseSvcFacade combines all course service interfaces.
type CourseSvcFacade interface {
	CourseReaderSvc
	CourseWriterSvc
}
