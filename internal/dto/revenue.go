package dto

import (
	"github.com/eduinvest/eduinvest_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ReportRevenueRequest defines the body for reporting gross course revenue.
type ReportRevenueRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// RevenueAllocationResponse is one holder's cut of a revenue report.
type RevenueAllocationResponse struct {
	InvestorID string          `json:"investorID"`
	Shares     int64           `json:"shares"`
	Amount     decimal.Decimal `json:"amount"`
}

// RevenueReportResponse summarizes a committed revenue report.
type RevenueReportResponse struct {
	CourseID          string                      `json:"courseID"`
	Gross             decimal.Decimal             `json:"gross"`
	ShareablePool     decimal.Decimal             `json:"shareablePool"`
	SoldShares        int64                       `json:"soldShares"`
	Allocations       []RevenueAllocationResponse `json:"allocations"`
	Residual          decimal.Decimal             `json:"residual"`
	CumulativeRevenue decimal.Decimal             `json:"cumulativeRevenue"`
}

// ToRevenueReportResponse converts a domain.RevenueReport.
func ToRevenueReportResponse(r *domain.RevenueReport) RevenueReportResponse {
	allocs := make([]RevenueAllocationResponse, 0, len(r.Allocations))
	for _, a := range r.Allocations {
		allocs = append(allocs, RevenueAllocationResponse{
			InvestorID: a.InvestorID,
			Shares:     a.Shares,
			Amount:     a.Amount,
		})
	}
	return RevenueReportResponse{
		CourseID:          r.CourseID,
		Gross:             r.Gross,
		ShareablePool:     r.ShareablePool,
		SoldShares:        r.SoldShares,
		Allocations:       allocs,
		Residual:          r.Residual,
		CumulativeRevenue: r.Course.CumulativeRevenue,
	}
}
