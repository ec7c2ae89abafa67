package domain

import (
	"github.com/shopspring/decimal"
)

// RevenueAllocation is one holder's cut of a revenue report.
type RevenueAllocation struct {
	InvestorID string          `json:"investorID"`
	Shares     int64           `json:"shares"`
	Amount     decimal.Decimal `json:"amount"`
}

// RevenueReport is the committed outcome of one reportRevenue call.
// Conservation holds exactly: sum of Allocations equals ShareablePool (the
// integer-cent rounding residue is folded into the largest holder's amount,
// surfaced separately in Residual). With zero holders the pool stays
// unallocated but is still recorded on the ledger.
type RevenueReport struct {
	CourseID      string             `json:"courseID"`
	Gross         decimal.Decimal    `json:"gross"`
	ShareablePool decimal.Decimal    `json:"shareablePool"`
	SoldShares    int64              `json:"soldShares"`
	Allocations   []RevenueAllocation `json:"allocations"`
	Residual      decimal.Decimal    `json:"residual"` // rounding cents folded into the largest holder
	Entries       []LedgerEntry      `json:"entries"`
	Course        Course             `json:"course"` // course state after the report
}
