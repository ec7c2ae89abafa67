package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/eduinvest/eduinvest_backend/internal/apperrors"
	"github.com/eduinvest/eduinvest_backend/internal/core/domain"
	portsrepo "github.com/eduinvest/eduinvest_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const investmentColumns = `investment_id, investor_id, course_id, shares_owned,
	cost_basis, lifetime_earnings, status,
	created_at, created_by, last_updated_at, last_updated_by`

// PgxInvestmentRepository reads investor positions. Positions are written only
// through ledger commits, never directly.
type PgxInvestmentRepository struct {
	BaseRepository
}

// newPgxInvestmentRepository creates a new repository for investment data.
func newPgxInvestmentRepository(pool *pgxpool.Pool) portsrepo.InvestmentRepositoryFacade {
	return &PgxInvestmentRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.InvestmentRepositoryFacade = (*PgxInvestmentRepository)(nil)

// FindInvestment retrieves one investor's position in one course.
func (r *PgxInvestmentRepository) FindInvestment(ctx context.Context, investorID, courseID string) (*domain.Investment, error) {
	query := `SELECT ` + investmentColumns + ` FROM investments WHERE investor_id = $1 AND course_id = $2;`
	investment, err := scanInvestment(r.Pool.QueryRow(ctx, query, investorID, courseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: investment for investor %s in course %s", apperrors.ErrNotFound, investorID, courseID)
		}
		return nil, apperrors.NewAppError(500, "failed to query investment", err)
	}
	return investment, nil
}

// ListInvestmentsByInvestor retrieves all of an investor's positions, newest first.
func (r *PgxInvestmentRepository) ListInvestmentsByInvestor(ctx context.Context, investorID string) ([]domain.Investment, error) {
	query := `
		SELECT ` + investmentColumns + `
		FROM investments
		WHERE investor_id = $1
		ORDER BY created_at DESC, investment_id;
	`
	rows, err := r.Pool.Query(ctx, query, investorID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list investments for investor "+investorID, err)
	}
	defer rows.Close()
	return collectInvestments(rows)
}

// ListInvestmentsByCourse retrieves every position in a course.
func (r *PgxInvestmentRepository) ListInvestmentsByCourse(ctx context.Context, courseID string) ([]domain.Investment, error) {
	query := `
		SELECT ` + investmentColumns + `
		FROM investments
		WHERE course_id = $1
		ORDER BY investor_id;
	`
	rows, err := r.Pool.Query(ctx, query, courseID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list investments for course "+courseID, err)
	}
	defer rows.Close()
	return collectInvestments(rows)
}

func scanInvestment(row rowScanner) (*domain.Investment, error) {
	var i domain.Investment
	err := row.Scan(
		&i.InvestmentID,
		&i.InvestorID,
		&i.CourseID,
		&i.SharesOwned,
		&i.CostBasis,
		&i.LifetimeEarnings,
		&i.Status,
		&i.CreatedAt,
		&i.CreatedBy,
		&i.LastUpdatedAt,
		&i.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func collectInvestments(rows pgx.Rows) ([]domain.Investment, error) {
	investments := make([]domain.Investment, 0)
	for rows.Next() {
		investment, err := scanInvestment(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan investment row", err)
		}
		investments = append(investments, *investment)
	}
	return investments, rows.Err()
}
