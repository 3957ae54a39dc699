package cart

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aarna-atelier/storefront-api/internal/domain/catalog"
	"github.com/aarna-atelier/storefront-api/internal/storage/kv"
)

func newTestProduct(id, name string, price int64, variants ...string) catalog.Product {
	return catalog.Product{
		ID:       id,
		Name:     name,
		Price:    decimal.NewFromInt(price),
		Image:    "images/" + id + ".jpg",
		Variants: variants,
	}
}

func newTestStore(t *testing.T) (*Store, *kv.Memory) {
	t.Helper()
	mem := kv.NewMemory()
	s := NewStore(mem, zap.NewNop())
	require.NoError(t, s.Load(context.Background()))
	return s, mem
}

func TestAddOrMerge_SameKeySumsQuantities(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	p1 := newTestProduct("p1", "Silk Scarf", 500, "Red", "Blue")

	require.NoError(t, s.AddOrMerge(ctx, p1, 2, "Red"))
	assert.Equal(t, "1000", s.Total().String())
	assert.Equal(t, 2, s.ItemCount())

	require.NoError(t, s.AddOrMerge(ctx, p1, 1, "Red"))
	items := s.List()
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, "1500", s.Total().String())
}

func TestAddOrMerge_DifferentVariantsAreDistinctLines(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	p1 := newTestProduct("p1", "Silk Scarf", 500, "Red", "Blue")

	require.NoError(t, s.AddOrMerge(ctx, p1, 2, "Red"))
	require.NoError(t, s.AddOrMerge(ctx, p1, 1, "Red"))
	require.NoError(t, s.AddOrMerge(ctx, p1, 1, "Blue"))

	items := s.List()
	require.Len(t, items, 2)
	assert.Equal(t, "Red", items[0].Variant)
	assert.Equal(t, "Blue", items[1].Variant)
	assert.Equal(t, "2000", s.Total().String())
	assert.Equal(t, 4, s.ItemCount())
	assert.Equal(t, 2, s.Lines())
}

func TestAddOrMerge_RejectsNonPositiveQuantity(t *testing.T) {
	s, _ := newTestStore(t)
	p1 := newTestProduct("p1", "Silk Scarf", 500)

	require.ErrorIs(t, s.AddOrMerge(context.Background(), p1, 0, ""), ErrInvalidQuantity)
	require.ErrorIs(t, s.AddOrMerge(context.Background(), p1, -3, ""), ErrInvalidQuantity)
	assert.Empty(t, s.List())
}

func TestAddOrMerge_PreservesInsertionOrder(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddOrMerge(ctx, newTestProduct("p2", "Clutch", 1200), 1, ""))
	require.NoError(t, s.AddOrMerge(ctx, newTestProduct("p1", "Scarf", 500), 1, ""))
	require.NoError(t, s.AddOrMerge(ctx, newTestProduct("p3", "Stole", 900), 1, ""))

	items := s.List()
	require.Len(t, items, 3)
	assert.Equal(t, "p2", items[0].Product.ID)
	assert.Equal(t, "p1", items[1].Product.ID)
	assert.Equal(t, "p3", items[2].Product.ID)
}

func TestSetQuantity_OverwritesValidValue(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	p1 := newTestProduct("p1", "Scarf", 500, "Red")

	require.NoError(t, s.AddOrMerge(ctx, p1, 2, "Red"))
	require.NoError(t, s.SetQuantity(ctx, "p1", "Red", 7))

	items := s.List()
	require.Len(t, items, 1)
	assert.Equal(t, 7, items[0].Quantity)
	assert.Equal(t, "3500", s.Total().String())
}

func TestSetQuantity_IgnoresNonPositiveButStillPersists(t *testing.T) {
	s, mem := newTestStore(t)
	ctx := context.Background()
	p1 := newTestProduct("p1", "Scarf", 500, "Red")

	require.NoError(t, s.AddOrMerge(ctx, p1, 2, "Red"))
	require.NoError(t, mem.Delete(ctx, StoreKey))

	// Invalid edits keep the previous quantity, but the collection is
	// flushed back to the store regardless.
	require.NoError(t, s.SetQuantity(ctx, "p1", "Red", 0))
	assert.Equal(t, 2, s.List()[0].Quantity)
	_, err := mem.Get(ctx, StoreKey)
	assert.NoError(t, err, "collection should be written back even for a rejected edit")

	require.NoError(t, s.SetQuantity(ctx, "p1", "Red", -5))
	assert.Equal(t, 2, s.List()[0].Quantity)
}

func TestRemove_ExactKeyOnly(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	p1 := newTestProduct("p1", "Scarf", 500, "Red", "Blue")

	require.NoError(t, s.AddOrMerge(ctx, p1, 1, "Red"))
	require.NoError(t, s.AddOrMerge(ctx, p1, 1, "Blue"))

	require.NoError(t, s.Remove(ctx, "p1", "Red"))

	items := s.List()
	require.Len(t, items, 1)
	assert.Equal(t, "Blue", items[0].Variant)
	assert.Equal(t, "500", s.Total().String())
}

func TestRemove_AbsentKeyIsNoOp(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddOrMerge(ctx, newTestProduct("p1", "Scarf", 500), 1, ""))
	require.NoError(t, s.Remove(ctx, "p1", "Red"))
	require.NoError(t, s.Remove(ctx, "missing", ""))
	assert.Len(t, s.List(), 1)
}

func TestTotal_DropsByRemovedContribution(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddOrMerge(ctx, newTestProduct("p1", "Scarf", 500), 3, ""))
	require.NoError(t, s.AddOrMerge(ctx, newTestProduct("p2", "Clutch", 1200), 1, ""))
	require.Equal(t, "2700", s.Total().String())

	require.NoError(t, s.Remove(ctx, "p1", ""))
	assert.Equal(t, "1200", s.Total().String())
}

func TestLoad_RoundTrip(t *testing.T) {
	mem := kv.NewMemory()
	ctx := context.Background()

	s1 := NewStore(mem, zap.NewNop())
	require.NoError(t, s1.Load(ctx))
	require.NoError(t, s1.AddOrMerge(ctx, newTestProduct("p1", "Scarf", 500, "Red", "Blue"), 2, "Red"))
	require.NoError(t, s1.AddOrMerge(ctx, newTestProduct("p2", "Clutch", 1200), 1, ""))

	s2 := NewStore(mem, zap.NewNop())
	require.NoError(t, s2.Load(ctx))

	assert.Equal(t, s1.List(), s2.List())
	assert.Equal(t, s1.Total().String(), s2.Total().String())
}

func TestLoad_MalformedDataDegradesToEmpty(t *testing.T) {
	mem := kv.NewMemory()
	ctx := context.Background()
	require.NoError(t, mem.Set(ctx, StoreKey, []byte(`{"not":"an array"`)))

	s := NewStore(mem, zap.NewNop())
	require.NoError(t, s.Load(ctx))
	assert.Empty(t, s.List())
	assert.Equal(t, "0", s.Total().String())
}

func TestLoad_AbsentKeyStartsEmpty(t *testing.T) {
	s, _ := newTestStore(t)
	assert.Empty(t, s.List())
	assert.Equal(t, 0, s.ItemCount())
}
