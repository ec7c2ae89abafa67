package services

import (
	"context"

	"github.com/eduinvest/eduinvest_backend/internal/core/domain"
	"github.com/eduinvest/eduinvest_backend/internal/dto"
)

// InvestmentSvcFacade serves investor dashboard reads from the investment
// registry. Pure reads, no side effects.
type InvestmentSvcFacade interface {
	// ListInvestments retrieves an investor's positions enriched with current
	// value and ROI at each course's current share price.
	ListInvestments(ctx context.Context, investorID string) ([]dto.InvestmentResponse, error)

	// GetTransactionHistory retrieves the investor's ledger entries, newest first.
	GetTransactionHistory(ctx context.Context, investorID string, limit, offset int) ([]domain.LedgerEntry, error)
}
