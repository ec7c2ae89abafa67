package services

import (
	"context"

	"github.com/eduinvest/eduinvest_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RevenueSvcFacade is the revenue distribution engine.
type RevenueSvcFacade interface {
	// ReportRevenue records gross course revenue and distributes the
	// configured revenue-share percentage across current shareholders
	// proportional to holdings, atomically: no partial distribution is ever
	// observable. Cumulative revenue grows even when no shares are sold;
	// the unallocated pool is then logged, not dropped.
	ReportRevenue(ctx context.Context, reporterID, courseID string, gross decimal.Decimal) (*domain.RevenueReport, error)
}
