package domain

import (
	"github.com/shopspring/decimal"
)

// CourseStatus is the lifecycle state of a course.
type CourseStatus string

const (
	CourseStatusDraft     CourseStatus = "DRAFT"
	CourseStatusActive    CourseStatus = "ACTIVE"
	CourseStatusPaused    CourseStatus = "PAUSED"
	CourseStatusCompleted CourseStatus = "COMPLETED"
)

// ValidCourseStatus reports whether s is one of the known lifecycle states.
func ValidCourseStatus(s CourseStatus) bool {
	switch s {
	case CourseStatusDraft, CourseStatusActive, CourseStatusPaused, CourseStatusCompleted:
		return true
	}
	return false
}

// Course is a revenue-sharing course with a fixed share inventory.
//
// TotalShares is fixed at creation. AvailableShares and CumulativeRevenue are
// projections of the course's ledger: they change only through committed ledger
// entries and must always satisfy 0 <= AvailableShares <= TotalShares.
// LastSequenceNo is the sequence number of the most recent ledger entry for
// this course; new entries are numbered under the course row lock so sequence
// numbers reflect commit order.
type Course struct {
	CourseID          string          `json:"courseID"`
	CreatorID         string          `json:"creatorID"`
	Title             string          `json:"title"`
	Description       string          `json:"description"`
	Category          string          `json:"category"`
	Price             decimal.Decimal `json:"price"` // price a student pays for the course itself
	TotalShares       int64           `json:"totalShares"`
	AvailableShares   int64           `json:"availableShares"`
	SharePrice        decimal.Decimal `json:"sharePrice"`
	RevenueSharePct   decimal.Decimal `json:"revenueSharePct"` // 0..100, fraction of gross revenue shared
	CumulativeRevenue decimal.Decimal `json:"cumulativeRevenue"`
	StudentCount      int64           `json:"studentCount"`
	LastSequenceNo    int64           `json:"lastSequenceNo"`
	Status            CourseStatus    `json:"status"`
	AuditFields
}

// SoldShares is the number of shares currently held by investors.
func (c *Course) SoldShares() int64 {
	return c.TotalShares - c.AvailableShares
}

// AdvertisedROI is the course-level yield metric used for marketplace ranking:
//
//	(cumulative_revenue * revenue_share_pct / 100) / (share_price * sold_shares) * 100
//
// It models expected yield per share at the current price, which is distinct
// from any investor's realized return (Investment.ROI) and must not be
// conflated with it. Zero when no shares have been sold.
func (c *Course) AdvertisedROI() decimal.Decimal {
	sold := c.SoldShares()
	if sold <= 0 || c.SharePrice.IsZero() {
		return decimal.Zero
	}
	pool := c.CumulativeRevenue.Mul(c.RevenueSharePct).Div(decimal.NewFromInt(100))
	invested := c.SharePrice.Mul(decimal.NewFromInt(sold))
	return pool.Div(invested).Mul(decimal.NewFromInt(100)).Round(2)
}
