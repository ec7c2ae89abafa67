package dto

import (
	"time"

	"github.com/eduinvest/eduinvest_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PurchaseSharesRequest defines the body for buying shares of a course.
type PurchaseSharesRequest struct {
	Quantity       int64  `json:"quantity" binding:"required,min=1"`
	IdempotencyKey string `json:"idempotencyKey"`
}

// SellSharesRequest defines the body for selling shares back.
type SellSharesRequest struct {
	Quantity int64 `json:"quantity" binding:"required,min=1"`
}

// InvestmentResponse is one position on the investor dashboard, enriched with
// the current share price, mark-to-market value and ROI.
type InvestmentResponse struct {
	InvestmentID     string                  `json:"investmentID"`
	CourseID         string                  `json:"courseID"`
	CourseTitle      string                  `json:"courseTitle"`
	SharesOwned      int64                   `json:"sharesOwned"`
	CostBasis        decimal.Decimal         `json:"costBasis"`
	SharePrice       decimal.Decimal         `json:"sharePrice"`
	CurrentValue     decimal.Decimal         `json:"currentValue"`
	LifetimeEarnings decimal.Decimal         `json:"lifetimeEarnings"`
	ROI              decimal.Decimal         `json:"roi"`
	Status           domain.InvestmentStatus `json:"status"`
	CreatedAt        time.Time               `json:"createdAt"`
}

// ToInvestmentResponse converts a position plus its course into the dashboard view.
func ToInvestmentResponse(inv *domain.Investment, course *domain.Course) InvestmentResponse {
	resp := InvestmentResponse{
		InvestmentID:     inv.InvestmentID,
		CourseID:         inv.CourseID,
		SharesOwned:      inv.SharesOwned,
		CostBasis:        inv.CostBasis,
		LifetimeEarnings: inv.LifetimeEarnings,
		Status:           inv.Status,
		CreatedAt:        inv.CreatedAt,
	}
	if course != nil {
		resp.CourseTitle = course.Title
		resp.SharePrice = course.SharePrice
		resp.CurrentValue = inv.CurrentValue(course.SharePrice)
		resp.ROI = inv.ROI(course.SharePrice)
	}
	return resp
}
