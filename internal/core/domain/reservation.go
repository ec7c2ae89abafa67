package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Reservation is a short-lived hold on course share inventory. It separates the
// atomic "check and hold" step from the final commit so a failed downstream
// write never strands inventory. A reservation that is not committed before
// ExpiresAt no longer counts against availability and is eventually swept.
//
// PriceAtReservation snapshots the share price for the whole purchase: the
// total cost is fixed here even if the creator changes the price mid-flight.
type Reservation struct {
	Token              string          `json:"token"`
	CourseID           string          `json:"courseID"`
	InvestorID         string          `json:"investorID"`
	Quantity           int64           `json:"quantity"`
	PriceAtReservation decimal.Decimal `json:"priceAtReservation"`
	ExpiresAt          time.Time       `json:"expiresAt"`
	CreatedAt          time.Time       `json:"createdAt"`
}

// Expired reports whether the reservation has lapsed at the given instant.
func (r *Reservation) Expired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}

// TotalCost is the cost of the reserved quantity at the snapshotted price.
func (r *Reservation) TotalCost() decimal.Decimal {
	return r.PriceAtReservation.Mul(decimal.NewFromInt(r.Quantity))
}
