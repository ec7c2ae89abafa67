package events

import (
	"context"
	"sync"
)

// Broker is an in-process pub/sub hub keyed by course ID. Each subscriber gets
// a buffered channel; a publish to a subscriber whose buffer is full is
// dropped rather than blocking the committing transaction. Dropped events are
// harmless because consumers treat events as refresh hints, not deltas.
type Broker struct {
	mu     sync.RWMutex
	subs   map[string]map[int64]chan CourseEvent
	nextID int64
	buffer int
}

// NewBroker creates a broker whose subscriber channels buffer up to buffer events.
func NewBroker(buffer int) *Broker {
	if buffer <= 0 {
		buffer = 16
	}
	return &Broker{
		subs:   make(map[string]map[int64]chan CourseEvent),
		buffer: buffer,
	}
}

var _ Publisher = (*Broker)(nil)
var _ Subscriber = (*Broker)(nil)

// Publish delivers ev to every subscriber of its course. Never blocks.
func (b *Broker) Publish(_ context.Context, ev CourseEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs[ev.CourseID] {
		select {
		case ch <- ev:
		default: // slow subscriber, drop
		}
	}
}

// Subscribe registers a listener for one course's events.
func (b *Broker) Subscribe(courseID string) (<-chan CourseEvent, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan CourseEvent, b.buffer)
	if b.subs[courseID] == nil {
		b.subs[courseID] = make(map[int64]chan CourseEvent)
	}
	b.subs[courseID][id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if chans, ok := b.subs[courseID]; ok {
			if c, ok := chans[id]; ok {
				delete(chans, id)
				close(c)
			}
			if len(chans) == 0 {
				delete(b.subs, courseID)
			}
		}
	}
	return ch, cancel
}
