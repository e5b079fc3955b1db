// Package cart holds the shopping cart state machine: an owned, observable
// store of (product snapshot, quantity) line items, deduplicated by product
// ID. The store is handed to every consumer explicitly; there is no ambient
// singleton.
package cart

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/xenking/storefront/internal/catalog"
)

// Item is one cart line: a product snapshot taken at add time plus a
// quantity, always >= 1.
type Item struct {
	Product  catalog.Product
	Quantity int
}

// Snapshot is an immutable view of the cart at one point in time. Observers
// and readers always receive whole snapshots, never live internals.
type Snapshot struct {
	Items []Item
}

// Empty reports whether the snapshot holds no items.
func (s Snapshot) Empty() bool {
	return len(s.Items) == 0
}

// TotalItems returns the sum of all quantities. Zero for an empty cart.
func (s Snapshot) TotalItems() int {
	n := 0
	for _, it := range s.Items {
		n += it.Quantity
	}
	return n
}

// Subtotal returns the sum of price*quantity over all items.
func (s Snapshot) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range s.Items {
		sum = sum.Add(it.Product.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return sum
}

// Store is the single source of truth for the current cart.
//
// Concurrency model: leaseMu serializes mutations (and is what a checkout
// lease holds for its whole finalization window); mu guards the item slice
// and observer list for readers. State changes replace the item slice as a
// whole unit, so a reader can never observe a half-applied mutation.
// Observers are invoked synchronously after each mutation, while leaseMu is
// still held, so no further mutation can begin until every observer has seen
// the new snapshot. Observers must not mutate the store.
type Store struct {
	leaseMu sync.Mutex

	mu        sync.RWMutex
	items     []Item
	observers map[int]func(Snapshot)
	nextObsID int
}

// NewStore creates an empty cart store.
func NewStore() *Store {
	return &Store{
		observers: make(map[int]func(Snapshot)),
	}
}

// Add puts one unit of the product into the cart. If a line with the same
// product ID already exists its quantity is incremented; otherwise a new line
// with quantity 1 is appended. Add never fails.
func (s *Store) Add(p catalog.Product) {
	s.mutate(func(items []Item) []Item {
		for i := range items {
			if items[i].Product.ID == p.ID {
				items[i].Quantity++
				return items
			}
		}
		return append(items, Item{Product: p, Quantity: 1})
	})
}

// Remove deletes the line matching productID. Removing an absent product is
// a no-op, not an error.
func (s *Store) Remove(productID int) {
	s.mutate(func(items []Item) []Item {
		for i := range items {
			if items[i].Product.ID == productID {
				return append(items[:i], items[i+1:]...)
			}
		}
		return items
	})
}

// UpdateQuantity sets the matching line's quantity. Non-positive input is
// clamped to 1: the quantity >= 1 invariant is enforced here rather than
// trusted to callers. Unknown product IDs are a no-op.
func (s *Store) UpdateQuantity(productID, quantity int) {
	if quantity < 1 {
		quantity = 1
	}
	s.mutate(func(items []Item) []Item {
		for i := range items {
			if items[i].Product.ID == productID {
				items[i].Quantity = quantity
				break
			}
		}
		return items
	})
}

// Clear empties the cart unconditionally. Idempotent.
func (s *Store) Clear() {
	s.mutate(func([]Item) []Item {
		return nil
	})
}

// Snapshot returns a copy of the current cart state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{Items: copyItems(s.items)}
}

// TotalItems returns the sum of all quantities across lines.
func (s *Store) TotalItems() int {
	return s.Snapshot().TotalItems()
}

// TotalPrice returns the cart subtotal.
func (s *Store) TotalPrice() decimal.Decimal {
	return s.Snapshot().Subtotal()
}

// Subscribe registers fn to be called with a fresh snapshot after every
// mutation. The returned function unsubscribes; calling it more than once is
// safe.
func (s *Store) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextObsID
	s.nextObsID++
	s.observers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

// Lease is an exclusive hold on the cart taken for the duration of checkout
// finalization. While held, all mutations through the Store block; reads stay
// available. Snapshot and Clear operate inside the exclusion window so the
// totals captured and the cart cleared always agree.
type Lease struct {
	store    *Store
	released bool
}

// Acquire blocks until no mutation or other lease is in flight, then returns
// the lease. The caller must Release it.
func (s *Store) Acquire() *Lease {
	s.leaseMu.Lock()
	return &Lease{store: s}
}

// Snapshot returns the cart state as of the exclusion window.
func (l *Lease) Snapshot() Snapshot {
	return l.store.Snapshot()
}

// Clear empties the cart without giving up the lease. Observers are notified
// synchronously, as with any other mutation.
func (l *Lease) Clear() {
	l.store.applyAndNotify(func([]Item) []Item {
		return nil
	})
}

// Release ends the exclusion window. Safe to call more than once.
func (l *Lease) Release() {
	if l.released {
		return
	}
	l.released = true
	l.store.leaseMu.Unlock()
}

// mutate runs one whole-unit state transition under the mutation lock.
func (s *Store) mutate(apply func([]Item) []Item) {
	s.leaseMu.Lock()
	defer s.leaseMu.Unlock()
	s.applyAndNotify(apply)
}

// applyAndNotify replaces the item slice with apply's result and invokes all
// observers with the new snapshot. Caller must hold leaseMu.
func (s *Store) applyAndNotify(apply func([]Item) []Item) {
	s.mu.Lock()
	s.items = apply(copyItems(s.items))
	snap := Snapshot{Items: copyItems(s.items)}
	observers := make([]func(Snapshot), 0, len(s.observers))
	for _, fn := range s.observers {
		observers = append(observers, fn)
	}
	s.mu.Unlock()

	for _, fn := range observers {
		fn(snap)
	}
}

func copyItems(items []Item) []Item {
	if len(items) == 0 {
		return nil
	}
	out := make([]Item, len(items))
	copy(out, items)
	return out
}
