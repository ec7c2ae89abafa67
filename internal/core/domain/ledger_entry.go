package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntryKind classifies a ledger entry.
type LedgerEntryKind string

const (
	// EntryPurchase records an investor buying shares (positive shares delta).
	EntryPurchase LedgerEntryKind = "PURCHASE"
	// EntrySale records an investor selling shares back (negative shares delta).
	EntrySale LedgerEntryKind = "SALE"
	// EntryRevenueDistribution records one investor's allocation from a revenue
	// report, or the unallocated pool when a course has no holders (no investor).
	EntryRevenueDistribution LedgerEntryKind = "REVENUE_DISTRIBUTION"
	// EntryCoursePurchase records gross course revenue (a student buying the course).
	EntryCoursePurchase LedgerEntryKind = "COURSE_PURCHASE"
)

// LedgerEntry is one immutable, sequenced record of a state-changing event on a
// course. The ledger is the source of truth: Course.AvailableShares and every
// Investment are projections reconstructable by replaying a course's entries
// from sequence 1. Entries are never updated or deleted.
//
// SequenceNo is per-course, strictly increasing and assigned under the course
// row lock, so it reflects commit order rather than request-arrival order.
type LedgerEntry struct {
	EntryID     string          `json:"entryID"`
	CourseID    string          `json:"courseID"`
	SequenceNo  int64           `json:"sequenceNo"`
	InvestorID  string          `json:"investorID,omitempty"` // empty for course-level entries
	Kind        LedgerEntryKind `json:"kind"`
	SharesDelta int64           `json:"sharesDelta"` // positive on purchase, negative on sale, zero otherwise
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"createdAt"`
	CreatedBy   string          `json:"createdBy"`
}

// CourseReplay is the state reconstructed by folding a course's ledger.
type CourseReplay struct {
	AvailableShares   int64
	CumulativeRevenue decimal.Decimal
	Holdings          map[string]int64 // investorID -> shares owned
}

// ReplayCourse folds entries (which must be ordered by sequence number) over a
// course's initial state and returns the resulting projection. It validates the
// structural invariants as it goes: strictly increasing sequence numbers and
// available shares staying within [0, totalShares].
func ReplayCourse(totalShares int64, entries []LedgerEntry) (*CourseReplay, error) {
	replay := &CourseReplay{
		AvailableShares:   totalShares,
		CumulativeRevenue: decimal.Zero,
		Holdings:          make(map[string]int64),
	}
	lastSeq := int64(0)
	for _, e := range entries {
		if e.SequenceNo <= lastSeq {
			return nil, fmt.Errorf("entry %s: sequence %d not after %d", e.EntryID, e.SequenceNo, lastSeq)
		}
		lastSeq = e.SequenceNo

		switch e.Kind {
		case EntryPurchase, EntrySale:
			replay.AvailableShares -= e.SharesDelta
			replay.Holdings[e.InvestorID] += e.SharesDelta
			if replay.Holdings[e.InvestorID] < 0 {
				return nil, fmt.Errorf("entry %s: holdings for investor %s negative", e.EntryID, e.InvestorID)
			}
		case EntryCoursePurchase:
			replay.CumulativeRevenue = replay.CumulativeRevenue.Add(e.Amount)
		case EntryRevenueDistribution:
			// cash movement only, no share effect
		default:
			return nil, fmt.Errorf("entry %s: unknown kind %q", e.EntryID, e.Kind)
		}

		if replay.AvailableShares < 0 || replay.AvailableShares > totalShares {
			return nil, fmt.Errorf("entry %s: available shares %d outside [0,%d]", e.EntryID, replay.AvailableShares, totalShares)
		}
	}
	return replay, nil
}
