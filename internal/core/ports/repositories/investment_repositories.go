package repositories

import (
	"context"

	"github.com/eduinvest/eduinvest_backend/internal/core/domain"
)

// InvestmentRepositoryFacade defines read operations for investor positions.
// Positions are only ever written through LedgerWriter commits, so this facade
// is read-only by design.
type InvestmentRepositoryFacade interface {
	// FindInvestment retrieves one investor's position in one course.
	FindInvestment(ctx context.Context, investorID, courseID string) (*domain.Investment, error)

	// ListInvestmentsByInvestor retrieves all of an investor's positions,
	// newest first.
	ListInvestmentsByInvestor(ctx context.Context, investorID string) ([]domain.Investment, error)

	// ListInvestmentsByCourse retrieves every position in a course. Used by the
	// ledger audit job to verify replay equivalence.
	ListInvestmentsByCourse(ctx context.Context, courseID string) ([]domain.Investment, error)
}
