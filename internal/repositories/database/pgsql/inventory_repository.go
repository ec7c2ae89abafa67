package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/eduinvest/eduinvest_backend/internal/apperrors"
	"github.com/eduinvest/eduinvest_backend/internal/core/domain"
	portsrepo "github.com/eduinvest/eduinvest_backend/internal/core/ports/repositories"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PgxInventoryRepository is the durable share-inventory store. Availability is
// always computed as available_shares minus the sum of unexpired reservations,
// and Reserve does that math under the course row lock so the check and the
// hold are one atomic step.
type PgxInventoryRepository struct {
	BaseRepository
}

// newPgxInventoryRepository creates a new repository for inventory reservations.
func newPgxInventoryRepository(pool *pgxpool.Pool) portsrepo.InventoryRepositoryFacade {
	return &PgxInventoryRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.InventoryRepositoryFacade = (*PgxInventoryRepository)(nil)

// GetAvailability returns effective availability (active holds subtracted) and
// the current share price.
func (r *PgxInventoryRepository) GetAvailability(ctx context.Context, courseID string) (int64, decimal.Decimal, error) {
	query := `
		SELECT c.available_shares - COALESCE((
			SELECT SUM(res.quantity) FROM reservations res
			WHERE res.course_id = c.course_id AND res.expires_at > $2
		), 0) AS effective_available,
		c.share_price
		FROM courses c
		WHERE c.course_id = $1;
	`
	var available int64
	var price decimal.Decimal
	err := r.Pool.QueryRow(ctx, query, courseID, time.Now().UTC()).Scan(&available, &price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, decimal.Zero, fmt.Errorf("%w: course %s", apperrors.ErrNotFound, courseID)
		}
		return 0, decimal.Zero, apperrors.NewAppError(500, "failed to query availability for course "+courseID, err)
	}
	return available, price, nil
}

// Reserve atomically checks effective availability and places a hold,
// snapshotting the current share price. All-or-nothing: a request for more
// than is available fails entirely rather than partially filling.
func (r *PgxInventoryRepository) Reserve(ctx context.Context, courseID, investorID string, quantity int64, ttl time.Duration) (*domain.Reservation, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	course, err := findCourseByIDForUpdate(ctx, tx, courseID)
	if err != nil {
		return nil, err
	}
	if course.Status != domain.CourseStatusActive {
		return nil, fmt.Errorf("%w: course %s is %s", apperrors.ErrCourseNotActive, courseID, course.Status)
	}

	now := time.Now().UTC()
	var reserved int64
	err = tx.QueryRow(ctx, `
		SELECT COALESCE(SUM(quantity), 0) FROM reservations
		WHERE course_id = $1 AND expires_at > $2;
	`, courseID, now).Scan(&reserved)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to sum active reservations for course "+courseID, err)
	}

	if course.AvailableShares-reserved < quantity {
		return nil, fmt.Errorf("%w: course %s has %d of %d requested shares",
			apperrors.ErrInsufficientShares, courseID, course.AvailableShares-reserved, quantity)
	}

	reservation := domain.Reservation{
		Token:              uuid.NewString(),
		CourseID:           courseID,
		InvestorID:         investorID,
		Quantity:           quantity,
		PriceAtReservation: course.SharePrice,
		ExpiresAt:          now.Add(ttl),
		CreatedAt:          now,
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO reservations (token, course_id, investor_id, quantity, price_at_reservation, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`,
		reservation.Token,
		reservation.CourseID,
		reservation.InvestorID,
		reservation.Quantity,
		reservation.PriceAtReservation,
		reservation.ExpiresAt,
		reservation.CreatedAt,
	)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to insert reservation", err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &reservation, nil
}

// Release drops a reservation. Unknown tokens are a no-op: the hold may have
// been consumed by a commit or already swept.
func (r *PgxInventoryRepository) Release(ctx context.Context, token string) error {
	_, err := r.Pool.Exec(ctx, `DELETE FROM reservations WHERE token = $1;`, token)
	if err != nil {
		return apperrors.NewAppError(500, "failed to release reservation "+token, err)
	}
	return nil
}

// SweepExpired reclaims lapsed reservation rows.
func (r *PgxInventoryRepository) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM reservations WHERE expires_at <= $1;`, now)
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to sweep expired reservations", err)
	}
	return tag.RowsAffected(), nil
}
