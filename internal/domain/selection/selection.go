// Package selection models the add-to-cart modal: it holds the product a
// visitor is currently choosing options for and finalizes the choice into a
// single cart mutation.
package selection

import (
	"context"
	"sync"

	"github.com/go-faster/errors"

	"github.com/aarna-atelier/storefront-api/internal/domain/cart"
	"github.com/aarna-atelier/storefront-api/internal/domain/catalog"
)

// Sentinel errors for confirming a selection.
var (
	// ErrNoSelection means Confirm was called with no product open. The
	// surface treats this as a silent no-op rather than a user error.
	ErrNoSelection = errors.New("no product selected")
	// ErrUnknownVariant means the chosen variant is not one the product
	// declares.
	ErrUnknownVariant = errors.New("variant not offered for product")
	// ErrInvalidQuantity means a negative quantity was requested.
	ErrInvalidQuantity = errors.New("quantity must be greater than 0")
)

// Flow owns the currently selected product.
type Flow struct {
	carts *cart.Store

	mu      sync.Mutex
	current *catalog.Product
}

// NewFlow creates a Flow that finalizes selections into the given cart.
func NewFlow(carts *cart.Store) *Flow {
	return &Flow{carts: carts}
}

// Open makes product the current selection, replacing any previous one.
func (f *Flow) Open(product catalog.Product) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current = &product
}

// Close clears the current selection.
func (f *Flow) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current = nil
}

// Current returns the currently selected product, if any.
func (f *Flow) Current() (catalog.Product, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.current == nil {
		return catalog.Product{}, false
	}
	return *f.current, true
}

// Confirm finalizes the current selection into the cart and closes the
// flow. The variant must be one the product declares (or empty when the
// product has none). A quantity of 0 defaults to 1; negative quantities are
// rejected. With no product open it returns ErrNoSelection and changes
// nothing.
func (f *Flow) Confirm(ctx context.Context, variant string, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.current == nil {
		return ErrNoSelection
	}
	if quantity < 0 {
		return ErrInvalidQuantity
	}
	if quantity == 0 {
		quantity = 1
	}
	if !f.current.HasVariant(variant) {
		return errors.Wrapf(ErrUnknownVariant, "%q", variant)
	}

	if err := f.carts.AddOrMerge(ctx, *f.current, quantity, variant); err != nil {
		return err
	}
	f.current = nil
	return nil
}
