package events

import (
	"context"
	"log/slog"
	"sync"

	"github.com/dukerupert/bookworld/internal/telemetry"
	"github.com/google/uuid"
)

// DefaultBuffer is the subscription channel size used when none is given.
const DefaultBuffer = 64

// Match selects events for a subscription.
type Match func(Event) bool

// MatchTypes accepts events of the given types, or all events when none are given.
func MatchTypes(types ...Type) Match {
	if len(types) == 0 {
		return func(Event) bool { return true }
	}
	set := make(map[Type]struct{}, len(types))
	for _, t := range types {
		set[t] = struct{}{}
	}
	return func(e Event) bool {
		_, ok := set[e.Type]
		return ok
	}
}

// MatchUser accepts events of the given types that belong to userID.
func MatchUser(userID uuid.UUID, types ...Type) Match {
	byType := MatchTypes(types...)
	return func(e Event) bool {
		return e.UserID == userID && byType(e)
	}
}

// Subscription is a registered receiver on a Bus.
type Subscription struct {
	id    uint64
	bus   *Bus
	match Match
	ch    chan Event
}

// C returns the channel events are delivered on. It is closed when the
// subscription or the bus is closed.
func (s *Subscription) C() <-chan Event {
	return s.ch
}

// Close unregisters the subscription. Safe to call more than once.
func (s *Subscription) Close() {
	s.bus.remove(s.id)
}

// Bus is an in-process publish/subscribe hub. Delivery is best effort: a
// subscriber whose buffer is full misses the event rather than slowing the
// publisher.
type Bus struct {
	logger *slog.Logger

	mu     sync.RWMutex
	subs   map[uint64]*Subscription
	nextID uint64
	closed bool
}

// NewBus creates an empty bus.
func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		logger: logger,
		subs:   make(map[uint64]*Subscription),
	}
}

var _ Publisher = (*Bus)(nil)

// Subscribe registers a receiver for events accepted by match.
func (b *Bus) Subscribe(buffer int, match Match) *Subscription {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	if match == nil {
		match = MatchTypes()
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	sub := &Subscription{
		id:    b.nextID,
		bus:   b,
		match: match,
		ch:    make(chan Event, buffer),
	}
	if b.closed {
		close(sub.ch)
		return sub
	}
	b.subs[sub.id] = sub
	return sub
}

// Publish delivers e to every matching subscriber without blocking.
func (b *Bus) Publish(ctx context.Context, e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}

	if telemetry.Business != nil {
		telemetry.Business.EventsPublished.WithLabelValues(string(e.Type)).Inc()
	}

	for _, sub := range b.subs {
		if !sub.match(e) {
			continue
		}
		select {
		case sub.ch <- e:
		default:
			b.logger.Warn("event dropped for slow subscriber",
				"event_type", e.Type,
				"event_id", e.ID,
				"subscription", sub.id,
			)
			if telemetry.Business != nil {
				telemetry.Business.EventsDropped.WithLabelValues(string(e.Type)).Inc()
			}
		}
	}
}

// Subscribers returns the number of live subscriptions.
func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Close closes every subscription. Later publishes are ignored.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for id, sub := range b.subs {
		close(sub.ch)
		delete(b.subs, id)
	}
}

func (b *Bus) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if sub, ok := b.subs[id]; ok {
		close(sub.ch)
		delete(b.subs, id)
	}
}
