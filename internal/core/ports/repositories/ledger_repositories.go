package repositories

import (
	"context"
	"time"

	"github.com/eduinvest/eduinvest_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerReader defines read operations over the append-only ledger.
type LedgerReader interface {
	// FindEntriesByCourse retrieves every entry for a course ordered by
	// sequence number, for replay and audit.
	FindEntriesByCourse(ctx context.Context, courseID string) ([]domain.LedgerEntry, error)

	// ListEntriesByInvestor retrieves a paginated transaction history for an
	// investor, newest first.
	ListEntriesByInvestor(ctx context.Context, investorID string, limit, offset int) ([]domain.LedgerEntry, error)
}

// LedgerWriter defines the committed mutations of the ledger. Each method is a
// single atomic unit: the ledger append, the investment upsert and the course
// projection update happen in one database transaction under the course row
// lock, or not at all.
type LedgerWriter interface {
	// CommitPurchase consumes a reservation: appends a PURCHASE entry, upserts
	// the investor's position (weighted-average cost basis) and durably
	// decrements the course's available shares. Fails with
	// apperrors.ErrReservationExpired when the hold lapsed before commit.
	CommitPurchase(ctx context.Context, reservation domain.Reservation, now time.Time) (*domain.Investment, *domain.LedgerEntry, *domain.Course, error)

	// CommitSale appends a SALE entry at the current share price, reduces the
	// position at its weighted-average cost and returns the shares to
	// availability. Fails with apperrors.ErrInsufficientHoldings when the
	// investor owns fewer than quantity shares.
	CommitSale(ctx context.Context, investorID, courseID string, quantity int64, now time.Time) (*domain.Investment, *domain.LedgerEntry, *domain.Course, error)

	// DistributeRevenue runs a whole revenue report atomically: records the
	// gross event, allocates the shareable pool across current holders in
	// integer cents and credits their lifetime earnings. Runs under the course
	// row lock, so no purchase or sale can commit mid-distribution.
	DistributeRevenue(ctx context.Context, courseID string, gross decimal.Decimal, reportedBy string, now time.Time) (*domain.RevenueReport, error)
}

// LedgerRepositoryFacade combines all ledger repository interfaces.
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}
