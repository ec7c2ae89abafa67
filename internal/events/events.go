package events

import (
	"context"
	"time"

	"github.com/eduinvest/eduinvest_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CourseEvent is published once per committed ledger entry so subscribers
// (marketplace listings, dashboards) can refresh availability and price
// without polling. Delivery is best-effort by design: publishing must never
// block or fail the transaction that produced the entry.
type CourseEvent struct {
	CourseID        string                 `json:"courseID"`
	Kind            domain.LedgerEntryKind `json:"kind"`
	SequenceNo      int64                  `json:"sequenceNo"`
	AvailableShares int64                  `json:"availableShares"`
	SharePrice      decimal.Decimal        `json:"sharePrice"`
	OccurredAt      time.Time              `json:"occurredAt"`
}

// Publisher pushes committed-entry events to interested parties.
type Publisher interface {
	Publish(ctx context.Context, ev CourseEvent)
}

// Subscriber hands out per-course event streams. The returned cancel func must
// be called when the consumer goes away.
type Subscriber interface {
	Subscribe(courseID string) (<-chan CourseEvent, func())
}

// MultiPublisher fans a publish out to several publishers (e.g. the in-process
// broker plus a redis channel for other instances).
type MultiPublisher []Publisher

func (m MultiPublisher) Publish(ctx context.Context, ev CourseEvent) {
	for _, p := range m {
		p.Publish(ctx, ev)
	}
}
