package domain

import (
	"github.com/shopspring/decimal"
)

// InvestmentStatus is the state of an investor's position in a course.
type InvestmentStatus string

const (
	InvestmentStatusActive  InvestmentStatus = "ACTIVE"
	InvestmentStatusSold    InvestmentStatus = "SOLD"
	InvestmentStatusPending InvestmentStatus = "PENDING"
)

// Investment is one investor's aggregate position in one course. At most one
// record exists per (investor, course); repeat purchases fold into it with a
// weighted-average cost basis. A fully-sold position keeps its row with
// SharesOwned == 0 and status SOLD, never deleted.
type Investment struct {
	InvestmentID     string           `json:"investmentID"`
	InvestorID       string           `json:"investorID"`
	CourseID         string           `json:"courseID"`
	SharesOwned      int64            `json:"sharesOwned"`
	CostBasis        decimal.Decimal  `json:"costBasis"`        // sum paid for the current holding
	LifetimeEarnings decimal.Decimal  `json:"lifetimeEarnings"` // sum of revenue distributions received
	Status           InvestmentStatus `json:"status"`
	AuditFields
}

// CurrentValue is the mark-to-market value of the position at the given share price.
func (i *Investment) CurrentValue(sharePrice decimal.Decimal) decimal.Decimal {
	return sharePrice.Mul(decimal.NewFromInt(i.SharesOwned))
}

// ROI is the investor's return on this position in percent:
//
//	(current_value - cost_basis) / cost_basis * 100
//
// Zero when the cost basis is zero.
func (i *Investment) ROI(sharePrice decimal.Decimal) decimal.Decimal {
	if i.CostBasis.IsZero() {
		return decimal.Zero
	}
	value := i.CurrentValue(sharePrice)
	return value.Sub(i.CostBasis).Div(i.CostBasis).Mul(decimal.NewFromInt(100)).Round(2)
}

// AverageCost is the weighted-average price paid per share currently owned.
func (i *Investment) AverageCost() decimal.Decimal {
	if i.SharesOwned <= 0 {
		return decimal.Zero
	}
	return i.CostBasis.Div(decimal.NewFromInt(i.SharesOwned))
}
