package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/eduinvest/eduinvest_backend/internal/apperrors"
	"github.com/eduinvest/eduinvest_backend/internal/core/domain"
	portsrepo "github.com/eduinvest/eduinvest_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const courseColumns = `course_id, creator_id, title, description, category, price,
	total_shares, available_shares, share_price, revenue_share_pct,
	cumulative_revenue, student_count, last_sequence_no, status,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxCourseRepository struct {
	BaseRepository
}

// newPgxCourseRepository creates a new repository for course data.
func newPgxCourseRepository(pool *pgxpool.Pool) portsrepo.CourseRepositoryFacade {
	return &PgxCourseRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CourseRepositoryFacade = (*PgxCourseRepository)(nil)

// SaveCourse persists a newly created course.
func (r *PgxCourseRepository) SaveCourse(ctx context.Context, course domain.Course) error {
	query := `
		INSERT INTO courses (` + courseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
	`
	_, err := r.Pool.Exec(ctx, query,
		course.CourseID,
		course.CreatorID,
		course.Title,
		course.Description,
		course.Category,
		course.Price,
		course.TotalShares,
		course.AvailableShares,
		course.SharePrice,
		course.RevenueSharePct,
		course.CumulativeRevenue,
		course.StudentCount,
		course.LastSequenceNo,
		course.Status,
		course.CreatedAt,
		course.CreatedBy,
		course.LastUpdatedAt,
		course.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert course "+course.CourseID, err)
	}
	return nil
}

// FindCourseByID retrieves a specific course.
func (r *PgxCourseRepository) FindCourseByID(ctx context.Context, courseID string) (*domain.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE course_id = $1;`
	course, err := scanCourse(r.Pool.QueryRow(ctx, query, courseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: course %s", apperrors.ErrNotFound, courseID)
		}
		return nil, apperrors.NewAppError(500, "failed to query course "+courseID, err)
	}
	return course, nil
}

// FindCoursesByIDs retrieves multiple courses keyed by ID.
func (r *PgxCourseRepository) FindCoursesByIDs(ctx context.Context, courseIDs []string) (map[string]domain.Course, error) {
	if len(courseIDs) == 0 {
		return map[string]domain.Course{}, nil
	}
	query := `SELECT ` + courseColumns + ` FROM courses WHERE course_id = ANY($1);`
	rows, err := r.Pool.Query(ctx, query, courseIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query courses by IDs", err)
	}
	defer rows.Close()

	coursesMap := make(map[string]domain.Course, len(courseIDs))
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan course row", err)
		}
		coursesMap[course.CourseID] = *course
	}
	return coursesMap, rows.Err()
}

// ListCoursesByStatus retrieves a paginated list of courses in the given status, newest first.
func (r *PgxCourseRepository) ListCoursesByStatus(ctx context.Context, status domain.CourseStatus, limit, offset int) ([]domain.Course, error) {
	query := `
		SELECT ` + courseColumns + `
		FROM courses
		WHERE status = $1
		ORDER BY created_at DESC, course_id
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, status, limit, offset)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list courses by status", err)
	}
	defer rows.Close()
	return collectCourses(rows)
}

// ListCoursesByCreator retrieves every course owned by a creator, newest first.
func (r *PgxCourseRepository) ListCoursesByCreator(ctx context.Context, creatorID string) ([]domain.Course, error) {
	query := `
		SELECT ` + courseColumns + `
		FROM courses
		WHERE creator_id = $1
		ORDER BY created_at DESC, course_id;
	`
	rows, err := r.Pool.Query(ctx, query, creatorID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list courses by creator", err)
	}
	defer rows.Close()
	return collectCourses(rows)
}

// ListCourseIDs retrieves the IDs of all courses.
func (r *PgxCourseRepository) ListCourseIDs(ctx context.Context) ([]string, error) {
	rows, err := r.Pool.Query(ctx, `SELECT course_id FROM courses ORDER BY course_id;`)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list course IDs", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan course ID", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// UpdateCourseStatus transitions a course's lifecycle status.
func (r *PgxCourseRepository) UpdateCourseStatus(ctx context.Context, courseID string, status domain.CourseStatus, updatedBy string, now time.Time) error {
	query := `
		UPDATE courses
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE course_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, courseID, status, now, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update course status "+courseID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: course %s", apperrors.ErrNotFound, courseID)
	}
	return nil
}

// findCourseByIDForUpdate retrieves a course and locks its row. Must be called
// within a transaction; this lock is what linearizes all mutations per course.
func findCourseByIDForUpdate(ctx context.Context, tx pgx.Tx, courseID string) (*domain.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE course_id = $1 FOR UPDATE;`
	course, err := scanCourse(tx.QueryRow(ctx, query, courseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: course %s", apperrors.ErrNotFound, courseID)
		}
		return nil, apperrors.NewAppError(500, "failed to lock course "+courseID, err)
	}
	return course, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCourse(row rowScanner) (*domain.Course, error) {
	var c domain.Course
	err := row.Scan(
		&c.CourseID,
		&c.CreatorID,
		&c.Title,
		&c.Description,
		&c.Category,
		&c.Price,
		&c.TotalShares,
		&c.AvailableShares,
		&c.SharePrice,
		&c.RevenueSharePct,
		&c.CumulativeRevenue,
		&c.StudentCount,
		&c.LastSequenceNo,
		&c.Status,
		&c.CreatedAt,
		&c.CreatedBy,
		&c.LastUpdatedAt,
		&c.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func collectCourses(rows pgx.Rows) ([]domain.Course, error) {
	courses := make([]domain.Course, 0)
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan course row", err)
		}
		courses = append(courses, *course)
	}
	return courses, rows.Err()
}
