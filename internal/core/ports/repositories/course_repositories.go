package repositories

import (
	"context"
	"time"

	"github.com/eduinvest/eduinvest_backend/internal/core/domain"
)

// CourseReader defines read operations for course data.
type CourseReader interface {
	// FindCourseByID retrieves a specific course by its unique identifier.
	FindCourseByID(ctx context.Context, courseID string) (*domain.Course, error)

	// FindCoursesByIDs retrieves multiple courses keyed by ID. Missing IDs are
	// simply absent from the map.
	FindCoursesByIDs(ctx context.Context, courseIDs []string) (map[string]domain.Course, error)

	// ListCoursesByStatus retrieves a paginated list of courses in the given status,
	// newest first.
	ListCoursesByStatus(ctx context.Context, status domain.CourseStatus, limit, offset int) ([]domain.Course, error)

	// ListCoursesByCreator retrieves every course owned by a creator, newest first.
	ListCoursesByCreator(ctx context.Context, creatorID string) ([]domain.Course, error)

	// ListCourseIDs retrieves the IDs of all courses. Used by the ledger audit job.
	ListCourseIDs(ctx context.Context) ([]string, error)
}

// CourseWriter defines write operations for course data.
type CourseWriter interface {
	// SaveCourse persists a newly created course.
	SaveCourse(ctx context.Context, course domain.Course) error

	// UpdateCourseStatus transitions a course's lifecycle status.
	UpdateCourseStatus(ctx context.Context, courseID string, status domain.CourseStatus, updatedBy string, now time.Time) error
}

// CourseRepositoryFacade combines all course repository interfaces.
type CourseRepositoryFacade interface {
	CourseReader
	CourseWriter
}
