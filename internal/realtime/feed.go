package realtime

import (
	"sync"

	"github.com/foodcourt-labs/order-platform/internal/models"
)

// OrderFeed is the in-memory list projection a view keeps in sync with the
// change feed: newest first, one entry per order id. It tolerates events
// arriving before or after the initial fetch; reconciliation is by id with
// last-write-wins on the event's fields.
type OrderFeed struct {
	mu     sync.Mutex
	orders []models.Order
}

func NewOrderFeed() *OrderFeed {
	return &OrderFeed{}
}

// Apply folds one feed event into the list.
func (f *OrderFeed) Apply(event OrderEvent) {
	switch event.Op {
	case OpInsert:
		f.applyInsert(event.Order)
	case OpUpdate:
		f.applyUpdate(event.Order)
	}
}

// applyInsert prepends the order unless an entry with the same id already
// exists; duplicate insert events collapse to one entry.
func (f *OrderFeed) applyInsert(order models.Order) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.orders {
		if f.orders[i].ID == order.ID {
			f.orders[i] = order
			return
		}
	}

	f.orders = append([]models.Order{order}, f.orders...)
}

// applyUpdate replaces the matching entry in place. An unknown id means the
// order is outside this view's scope and the event is dropped.
func (f *OrderFeed) applyUpdate(order models.Order) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.orders {
		if f.orders[i].ID == order.ID {
			f.orders[i] = order
			return
		}
	}
}

// Bootstrap merges the result of the initial direct fetch. Entries already
// present came from live events, which are at least as new as the fetch, so
// they win; fetched orders not yet seen are appended in fetch order.
func (f *OrderFeed) Bootstrap(orders []models.Order) {
	f.mu.Lock()
	defer f.mu.Unlock()

	seen := make(map[int64]bool, len(f.orders))

	for _, existing := range f.orders {
		seen[existing.ID] = true
	}

	for _, order := range orders {
		if !seen[order.ID] {
			f.orders = append(f.orders, order)
		}
	}
}

// Orders returns a snapshot of the current list.
func (f *OrderFeed) Orders() []models.Order {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]models.Order, len(f.orders))
	copy(out, f.orders)

	return out
}
