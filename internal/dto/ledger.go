package dto

import (
	"time"

	"github.com/eduinvest/eduinvest_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerEntryResponse is one row of an investor's transaction history.
type LedgerEntryResponse struct {
	EntryID     string                 `json:"entryID"`
	CourseID    string                 `json:"courseID"`
	SequenceNo  int64                  `json:"sequenceNo"`
	Kind        domain.LedgerEntryKind `json:"kind"`
	SharesDelta int64                  `json:"sharesDelta"`
	Amount      decimal.Decimal        `json:"amount"`
	Description string                 `json:"description"`
	CreatedAt   time.Time              `json:"createdAt"`
}

// ToLedgerEntryResponses converts ledger entries for API output.
func ToLedgerEntryResponses(entries []domain.LedgerEntry) []LedgerEntryResponse {
	out := make([]LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, LedgerEntryResponse{
			EntryID:     e.EntryID,
			CourseID:    e.CourseID,
			SequenceNo:  e.SequenceNo,
			Kind:        e.Kind,
			SharesDelta: e.SharesDelta,
			Amount:      e.Amount,
			Description: e.Description,
			CreatedAt:   e.CreatedAt,
		})
	}
	return out
}
