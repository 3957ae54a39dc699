package selection

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aarna-atelier/storefront-api/internal/domain/cart"
	"github.com/aarna-atelier/storefront-api/internal/domain/catalog"
	"github.com/aarna-atelier/storefront-api/internal/storage/kv"
)

func newFlow(t *testing.T) (*Flow, *cart.Store) {
	t.Helper()
	carts := cart.NewStore(kv.NewMemory(), zap.NewNop())
	require.NoError(t, carts.Load(context.Background()))
	return NewFlow(carts), carts
}

func scarf() catalog.Product {
	return catalog.Product{
		ID:       "p1",
		Name:     "Silk Scarf",
		Price:    decimal.NewFromInt(500),
		Variants: []string{"Red", "Blue"},
	}
}

func TestConfirm_NoSelectionIsNoOp(t *testing.T) {
	f, carts := newFlow(t)

	err := f.Confirm(context.Background(), "Red", 1)
	require.ErrorIs(t, err, ErrNoSelection)
	assert.Empty(t, carts.List())
}

func TestConfirm_AddsToCartAndCloses(t *testing.T) {
	f, carts := newFlow(t)

	f.Open(scarf())
	require.NoError(t, f.Confirm(context.Background(), "Red", 2))

	items := carts.List()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, "Red", items[0].Variant)

	_, open := f.Current()
	assert.False(t, open, "a confirmed selection should close")
}

func TestConfirm_QuantityDefaultsToOne(t *testing.T) {
	f, carts := newFlow(t)

	f.Open(scarf())
	require.NoError(t, f.Confirm(context.Background(), "Blue", 0))
	assert.Equal(t, 1, carts.List()[0].Quantity)
}

func TestConfirm_RejectsNegativeQuantity(t *testing.T) {
	f, carts := newFlow(t)

	f.Open(scarf())
	require.ErrorIs(t, f.Confirm(context.Background(), "Red", -1), ErrInvalidQuantity)
	assert.Empty(t, carts.List())

	_, open := f.Current()
	assert.True(t, open, "a failed confirm keeps the selection open")
}

func TestConfirm_RejectsUndeclaredVariant(t *testing.T) {
	f, carts := newFlow(t)

	f.Open(scarf())
	require.ErrorIs(t, f.Confirm(context.Background(), "Green", 1), ErrUnknownVariant)
	require.ErrorIs(t, f.Confirm(context.Background(), "", 1), ErrUnknownVariant)
	assert.Empty(t, carts.List())
}

func TestConfirm_EmptyVariantForPlainProduct(t *testing.T) {
	f, carts := newFlow(t)

	plain := catalog.Product{ID: "p2", Name: "Clutch", Price: decimal.NewFromInt(1200)}
	f.Open(plain)
	require.NoError(t, f.Confirm(context.Background(), "", 1))
	assert.Equal(t, "", carts.List()[0].Variant)
}

func TestOpen_ReplacesCurrentSelection(t *testing.T) {
	f, _ := newFlow(t)

	f.Open(scarf())
	other := catalog.Product{ID: "p2", Name: "Clutch", Price: decimal.NewFromInt(1200)}
	f.Open(other)

	current, ok := f.Current()
	require.True(t, ok)
	assert.Equal(t, "p2", current.ID)

	f.Close()
	_, ok = f.Current()
	assert.False(t, ok)
}
