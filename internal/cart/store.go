// Package cart implements the in-memory shopping cart store. Each session
// owns one Store; all mutations are atomic per call.
package cart

import (
	"sync"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/volticscontent/perfumUkWifiMoney-sub001/internal/models"
	"github.com/volticscontent/perfumUkWifiMoney-sub001/internal/variant"
)

const (
	minQuantity = 1
	maxQuantity = 10
)

// Store holds the cart line items, keyed by product id and kept in insertion
// order. Quantities are clamped to [1,10] on every mutation path.
type Store struct {
	mu    sync.Mutex
	items []models.CartItem
	subs  []Subscriber
}

func NewStore(subs ...Subscriber) *Store {
	return &Store{subs: subs}
}

// Subscribe registers an event subscriber. Meant to be called during setup,
// before the store receives traffic.
func (s *Store) Subscribe(fn Subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// AddItem validates the draft through the variant normalizer and either
// merges it into an existing line with the same id or appends a new one.
// An unusable draft aborts the operation with an error and no state change.
func (s *Store) AddItem(draft models.CartDraft, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}

	item, err := variant.ValidateItem(draft)
	if err != nil {
		logrus.WithError(err).WithField("product_id", draft.ID).Warn("Discarding unusable cart draft")
		return err
	}

	s.mu.Lock()
	merged := false
	for i := range s.items {
		if s.items[i].ID == item.ID {
			s.items[i].Quantity = clampQuantity(s.items[i].Quantity + quantity)
			merged = true
			break
		}
	}
	if !merged {
		item.Quantity = clampQuantity(quantity)
		s.items = append(s.items, item)
	}
	s.mu.Unlock()

	s.publish(Event{
		Name:  models.EventAddToCart,
		Value: item.Price.Mul(decimal.NewFromInt(int64(quantity))),
		Params: map[string]interface{}{
			"product_id": item.ID,
			"variant_id": item.VariantID,
			"quantity":   quantity,
		},
	})
	return nil
}

// RemoveItem deletes the line with the given product id. No-op if absent.
func (s *Store) RemoveItem(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, item := range s.items {
		if item.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}

// UpdateQuantity adds delta to the line's quantity and clamps the result to
// [1,10]. No-op if the id is absent.
func (s *Store) UpdateQuantity(id int, delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Quantity = clampQuantity(s.items[i].Quantity + delta)
			return
		}
	}
}

// Clear empties the cart.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
}

// Items returns a copy of the current lines in insertion order.
func (s *Store) Items() []models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

// Total is derived on every read: sum of price * quantity over all lines.
func (s *Store) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return totalOf(s.items)
}

// Restore replaces the cart contents from a persisted snapshot. Variant ids
// are resolved again and quantities re-clamped: snapshots may predate a
// catalog re-publish.
func (s *Store) Restore(items []models.CartItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	restored := make([]models.CartItem, 0, len(items))
	for _, item := range items {
		if item.ID == 0 {
			continue
		}
		item.VariantID = variant.Resolve(item.VariantID)
		item.Quantity = clampQuantity(item.Quantity)
		restored = append(restored, item)
	}
	s.items = restored
}

// InitiateCheckout emits the checkout analytics event summarizing the cart.
// It performs no navigation and does not mutate state.
func (s *Store) InitiateCheckout() {
	s.mu.Lock()
	ids := make([]int, len(s.items))
	for i, item := range s.items {
		ids[i] = item.ID
	}
	total := totalOf(s.items)
	count := len(s.items)
	s.mu.Unlock()

	s.publish(Event{
		Name:  models.EventInitiateCheckout,
		Value: total,
		Params: map[string]interface{}{
			"product_ids": ids,
			"num_items":   count,
		},
	})
}

func (s *Store) publish(ev Event) {
	s.mu.Lock()
	subs := make([]Subscriber, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, fn := range subs {
		notify(fn, ev)
	}
}

func notify(fn Subscriber, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithField("event", ev.Name).WithField("panic", r).Error("Cart event subscriber panicked")
		}
	}()
	fn(ev)
}

func totalOf(items []models.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

func clampQuantity(q int) int {
	if q < minQuantity {
		return minQuantity
	}
	if q > maxQuantity {
		return maxQuantity
	}
	return q
}
