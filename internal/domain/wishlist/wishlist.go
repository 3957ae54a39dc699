// Package wishlist holds the ordered collection of products a visitor has
// marked, at most one entry per product id.
package wishlist

import (
	"context"
	"sync"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/aarna-atelier/storefront-api/internal/domain/catalog"
	"github.com/aarna-atelier/storefront-api/internal/storage/kv"
)

// StoreKey is the kv key the wishlist persists under.
const StoreKey = "wishlist"

// Entry is a product descriptor snapshot. Variant choice is irrelevant to
// wishlist identity; products dedup by id alone.
type Entry struct {
	Product catalog.Product
}

// Store owns the wishlist collection. Every mutation serializes the whole
// collection back to the kv store.
type Store struct {
	kv kv.Store
	lg *zap.Logger

	mu      sync.RWMutex
	entries []Entry
}

// NewStore creates an empty Store persisting through the given kv store.
// Call Load before serving traffic.
func NewStore(store kv.Store, lg *zap.Logger) *Store {
	return &Store{kv: store, lg: lg.Named("wishlist")}
}

// Load reads the persisted wishlist. Absent or malformed data degrades to
// an empty collection; it never fails the startup path.
func (s *Store) Load(ctx context.Context) error {
	data, err := s.kv.Get(ctx, StoreKey)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil
		}
		return errors.Wrap(err, "load wishlist")
	}

	entries, err := decodeEntries(data)
	if err != nil {
		s.lg.Warn("Malformed persisted wishlist, starting empty", zap.Error(err))
		return nil
	}

	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()
	return nil
}

// Add appends a snapshot of product unless an entry with the same id
// already exists. It reports whether the product was added.
func (s *Store) Add(ctx context.Context, product catalog.Product) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.entries {
		if e.Product.ID == product.ID {
			return false, nil
		}
	}

	s.entries = append(s.entries, Entry{Product: product})
	if err := s.persist(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// Remove deletes the entry with the given id. Removing an absent id is a
// no-op, not an error.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.entries {
		if e.Product.ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return s.persist(ctx)
		}
	}
	return nil
}

// List returns entries in insertion order.
func (s *Store) List() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Count returns the number of entries, for the badge presenter.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Find returns the entry with the given id, if present.
func (s *Store) Find(id string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.entries {
		if e.Product.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// persist serializes the whole collection. Callers must hold s.mu.
func (s *Store) persist(ctx context.Context) error {
	if err := s.kv.Set(ctx, StoreKey, encodeEntries(s.entries)); err != nil {
		return errors.Wrap(err, "persist wishlist")
	}
	return nil
}
