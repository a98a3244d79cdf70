// Package realtime re-emits the persistence layer's order change feed to
// in-process subscribers. The feed is best-effort: delivery is eventual and
// not ordered relative to direct fetches, so consumers reconcile by order id.
package realtime

import (
	"sync"

	"github.com/foodcourt-labs/order-platform/internal/models"
	"github.com/google/uuid"
)

type Op string

const (
	OpInsert Op = "INSERT"
	OpUpdate Op = "UPDATE"
)

// OrderEvent is a normalized insert/update from the change feed.
type OrderEvent struct {
	Op    Op           `json:"op"`
	Order models.Order `json:"order"`
}

// Scope limits which orders a subscriber sees. A nil UserID receives every
// order (admin views); otherwise only the owner's orders are delivered.
type Scope struct {
	UserID *uuid.UUID
}

func (s Scope) Matches(order models.Order) bool {
	return s.UserID == nil || *s.UserID == order.UserID
}

type Handler func(OrderEvent)

type subscription struct {
	scope   Scope
	handler Handler
}

// Bus fans change-feed events out to registered subscribers.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]subscription
}

func NewBus() *Bus {
	return &Bus{subs: make(map[int]subscription)}
}

// Subscribe registers a handler for events matching scope and returns its
// cancellation handle. Each active view holds exactly one subscription and
// cancels it on teardown; cancelling twice is safe.
func (b *Bus) Subscribe(scope Scope, handler Handler) (cancel func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.subs[id] = subscription{scope: scope, handler: handler}

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		delete(b.subs, id)
	}
}

// Publish delivers the event to every matching subscriber. Handlers run
// outside the lock; a handler must not block.
func (b *Bus) Publish(event OrderEvent) {
	b.mu.Lock()

	matched := make([]Handler, 0, len(b.subs))

	for _, sub := range b.subs {
		if sub.scope.Matches(event.Order) {
			matched = append(matched, sub.handler)
		}
	}

	b.mu.Unlock()

	for _, handler := range matched {
		handler(event)
	}
}

// SubscriberCount reports how many subscriptions are live.
func (b *Bus) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.subs)
}
