// Package cart holds the in-memory, pre-checkout cart state for each active
// session. Carts are never persisted; a cart exists from the first AddItem
// until a successful checkout clears it.
package cart

import (
	"sync"

	"github.com/foodcourt-labs/order-platform/internal/models"
	"github.com/google/uuid"
)

// Store owns every live cart, keyed by user. A single user mutates only their
// own entry, but the HTTP server is concurrent, so the map is mutex-guarded.
type Store struct {
	mu    sync.Mutex
	carts map[uuid.UUID][]models.CartItem
}

func NewStore() *Store {
	return &Store{carts: make(map[uuid.UUID][]models.CartItem)}
}

// AddItem puts one unit of (product, size) into the user's cart. If a matching
// item already exists its quantity is incremented instead; otherwise the new
// item goes to the head of the list, most-recently-added first.
func (s *Store) AddItem(userID uuid.UUID, product models.Product, size models.Size) models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.carts[userID]

	for _, item := range items {
		if item.ProductID == product.ID && item.Size == size {
			s.applyDelta(userID, item.ID, 1)
			return s.find(userID, item.ID)
		}
	}

	newItem := models.CartItem{
		ID:        uuid.New(),
		Product:   product,
		ProductID: product.ID,
		Size:      size,
		Quantity:  1,
	}

	s.carts[userID] = append([]models.CartItem{newItem}, items...)

	return newItem
}

// UpdateQuantity applies delta (-1 or +1) to the matching item. An item
// reaching quantity zero is removed; an unknown itemID is a no-op.
func (s *Store) UpdateQuantity(userID uuid.UUID, itemID uuid.UUID, delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.applyDelta(userID, itemID, delta)
}

func (s *Store) applyDelta(userID uuid.UUID, itemID uuid.UUID, delta int) {
	items := s.carts[userID]

	updated := items[:0:0]

	for _, item := range items {
		if item.ID == itemID {
			item.Quantity += delta
		}

		if item.Quantity > 0 {
			updated = append(updated, item)
		}
	}

	if len(updated) == 0 {
		delete(s.carts, userID)
		return
	}

	s.carts[userID] = updated
}

func (s *Store) find(userID uuid.UUID, itemID uuid.UUID) models.CartItem {
	for _, item := range s.carts[userID] {
		if item.ID == itemID {
			return item
		}
	}

	return models.CartItem{}
}

// Items returns a copy of the user's cart in display order.
func (s *Store) Items(userID uuid.UUID) []models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.carts[userID]
	out := make([]models.CartItem, len(items))
	copy(out, items)

	return out
}

// Total is derived from current items on every call; it is never cached.
func (s *Store) Total(userID uuid.UUID) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total float64

	for _, item := range s.carts[userID] {
		total += item.Product.Price * float64(item.Quantity)
	}

	return total
}

// Clear empties the user's cart. Only the checkout flow calls this, and only
// after the order and its items are persisted.
func (s *Store) Clear(userID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, userID)
}
