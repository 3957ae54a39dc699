// Package cart holds the shopping cart: ordered line items keyed by
// (product id, chosen variant), each carrying a positive quantity.
package cart

import (
	"context"
	"sync"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/aarna-atelier/storefront-api/internal/domain/catalog"
	"github.com/aarna-atelier/storefront-api/internal/storage/kv"
)

// StoreKey is the kv key the cart persists under.
const StoreKey = "cart"

// ErrInvalidQuantity is returned by AddOrMerge for a quantity below 1.
// Callers are expected to clamp or reject such input before it gets here.
var ErrInvalidQuantity = errors.New("quantity must be greater than 0")

// LineItem is a product snapshot plus the chosen variant and quantity.
// Variant is empty when the product declared no variants.
type LineItem struct {
	Product  catalog.Product
	Variant  string
	Quantity int
}

// Subtotal returns price * quantity for this line.
func (li LineItem) Subtotal() decimal.Decimal {
	return li.Product.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Store owns the cart collection. Every mutation serializes the whole
// collection back to the kv store.
type Store struct {
	kv kv.Store
	lg *zap.Logger

	mu    sync.RWMutex
	items []LineItem
}

// NewStore creates an empty Store persisting through the given kv store.
// Call Load before serving traffic.
func NewStore(store kv.Store, lg *zap.Logger) *Store {
	return &Store{kv: store, lg: lg.Named("cart")}
}

// Load reads the persisted cart. Absent or malformed data degrades to an
// empty collection; it never fails the startup path.
func (s *Store) Load(ctx context.Context) error {
	data, err := s.kv.Get(ctx, StoreKey)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil
		}
		return errors.Wrap(err, "load cart")
	}

	items, err := decodeItems(data)
	if err != nil {
		s.lg.Warn("Malformed persisted cart, starting empty", zap.Error(err))
		return nil
	}

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	return nil
}

// AddOrMerge adds quantity of (product, variant) to the cart. An existing
// line item with the same key has its quantity increased; otherwise a new
// line item is appended, preserving insertion order.
func (s *Store) AddOrMerge(ctx context.Context, product catalog.Product, quantity int, variant string) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].Product.ID == product.ID && s.items[i].Variant == variant {
			s.items[i].Quantity += quantity
			return s.persist(ctx)
		}
	}

	s.items = append(s.items, LineItem{Product: product, Variant: variant, Quantity: quantity})
	return s.persist(ctx)
}

// SetQuantity overwrites the matching line item's quantity when the new
// value is at least 1. Values below 1 are ignored and the previous quantity
// is kept. The collection is written back either way; mutating calls always
// end in exactly one flush.
func (s *Store) SetQuantity(ctx context.Context, id, variant string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].Product.ID == id && s.items[i].Variant == variant {
			if quantity >= 1 {
				s.items[i].Quantity = quantity
			}
			break
		}
	}
	return s.persist(ctx)
}

// Remove deletes the line item with the exact (id, variant) key. Removing
// an absent key is a no-op, not an error.
func (s *Store) Remove(ctx context.Context, id, variant string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].Product.ID == id && s.items[i].Variant == variant {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return s.persist(ctx)
		}
	}
	return nil
}

// Total returns the sum of price * quantity over all line items.
func (s *Store) Total() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := decimal.Zero
	for _, li := range s.items {
		total = total.Add(li.Subtotal())
	}
	return total
}

// List returns line items in insertion order.
func (s *Store) List() []LineItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]LineItem, len(s.items))
	copy(out, s.items)
	return out
}

// ItemCount returns the sum of quantities, for the badge presenter.
func (s *Store) ItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, li := range s.items {
		n += li.Quantity
	}
	return n
}

// Lines returns the number of distinct line items.
func (s *Store) Lines() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// persist serializes the whole collection. Callers must hold s.mu.
func (s *Store) persist(ctx context.Context) error {
	if err := s.kv.Set(ctx, StoreKey, encodeItems(s.items)); err != nil {
		return errors.Wrap(err, "persist cart")
	}
	return nil
}
