package services

import (
	"context"

	"github.com/eduinvest/eduinvest_backend/internal/core/domain"
	portsrepo "github.com/eduinvest/eduinvest_backend/internal/core/ports/repositories"
	portssvc "github.com/eduinvest/eduinvest_backend/internal/core/ports/services"
	"github.com/eduinvest/eduinvest_backend/internal/dto"
)

// investmentService serves investor dashboard reads from the investment
// registry, which is itself a derived projection of the ledger.
type investmentService struct {
	investmentRepo portsrepo.InvestmentRepositoryFacade
	courseRepo     portsrepo.CourseRepositoryFacade
	ledgerRepo     portsrepo.LedgerRepositoryFacade
}

// NewInvestmentService creates a new investment service.
func NewInvestmentService(
	investmentRepo portsrepo.InvestmentRepositoryFacade,
	courseRepo portsrepo.CourseRepositoryFacade,
	ledgerRepo portsrepo.LedgerRepositoryFacade,
) portssvc.InvestmentSvcFacade {
	return &investmentService{
		investmentRepo: investmentRepo,
		courseRepo:     courseRepo,
		ledgerRepo:     ledgerRepo,
	}
}

var _ portssvc.InvestmentSvcFacade = (*investmentService)(nil)

// ListInvestments retrieves the investor's positions, each valued at its
// course's current share price.
func (s *investmentService) ListInvestments(ctx context.Context, investorID string) ([]dto.InvestmentResponse, error) {
	investments, err := s.investmentRepo.ListInvestmentsByInvestor(ctx, investorID)
	if err != nil {
		return nil, err
	}
	if len(investments) == 0 {
		return []dto.InvestmentResponse{}, nil
	}

	courseIDs := make([]string, 0, len(investments))
	for i := range investments {
		courseIDs = append(courseIDs, investments[i].CourseID)
	}
	courses, err := s.courseRepo.FindCoursesByIDs(ctx, courseIDs)
	if err != nil {
		return nil, err
	}

	out := make([]dto.InvestmentResponse, 0, len(investments))
	for i := range investments {
		inv := &investments[i]
		var course *domain.Course
		if c, ok := courses[inv.CourseID]; ok {
			course = &c
		}
		out = append(out, dto.ToInvestmentResponse(inv, course))
	}
	return out, nil
}

// GetTransactionHistory retrieves the investor's ledger entries, newest first.
func (s *investmentService) GetTransactionHistory(ctx context.Context, investorID string, limit, offset int) ([]domain.LedgerEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.ledgerRepo.ListEntriesByInvestor(ctx, investorID, limit, offset)
}
