//go:build integration

package integration

import (
	"net/http"
	"testing"
)

// The server holds one shared storefront state, so every test cleans up the
// entries it created.

func TestListProducts(t *testing.T) {
	resp := doGet(t, "/api/products")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	products := decodeJSON[[]productResponse](t, resp)
	if len(products) != 3 {
		t.Fatalf("expected 3 products, got %d", len(products))
	}

	scarf := products[0]
	if scarf.ID != "scarf" {
		t.Errorf("id: got %q, want %q", scarf.ID, "scarf")
	}
	if scarf.Name != "Silk Scarf" {
		t.Errorf("name: got %q, want %q", scarf.Name, "Silk Scarf")
	}
	if scarf.Price != 500 {
		t.Errorf("price: got %v, want 500", scarf.Price)
	}
	if len(scarf.Variants) != 2 || scarf.Variants[0] != "Red" {
		t.Errorf("variants: got %v, want [Red Blue]", scarf.Variants)
	}
	if len(products[1].Variants) != 0 {
		t.Errorf("clutch variants: got %v, want none", products[1].Variants)
	}
}

func TestWishlistLifecycle(t *testing.T) {
	defer cleanupWishlist(t, "scarf")

	resp := doJSON(t, http.MethodPost, "/api/wishlist/", wishlistAddRequest{ProductID: "scarf"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	added := decodeJSON[wishlistAddResponse](t, resp)
	resp.Body.Close()
	if !added.Added || added.Count != 1 {
		t.Fatalf("first add: got %+v", added)
	}

	// Adding the same product again is a reported no-op.
	resp = doJSON(t, http.MethodPost, "/api/wishlist/", wishlistAddRequest{ProductID: "scarf"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 on duplicate, got %d", resp.StatusCode)
	}
	added = decodeJSON[wishlistAddResponse](t, resp)
	resp.Body.Close()
	if added.Added || added.Count != 1 {
		t.Fatalf("duplicate add: got %+v", added)
	}

	resp = doGet(t, "/api/wishlist/")
	entries := decodeJSON[[]productResponse](t, resp)
	resp.Body.Close()
	if len(entries) != 1 || entries[0].ID != "scarf" {
		t.Fatalf("wishlist: got %v", entries)
	}
}

func TestWishlist_AddUnknownProduct(t *testing.T) {
	resp := doJSON(t, http.MethodPost, "/api/wishlist/", wishlistAddRequest{ProductID: "no-such-product"})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	errResp := decodeJSON[errorResponse](t, resp)
	if errResp.Code != 404 {
		t.Errorf("error code: got %d, want 404", errResp.Code)
	}
}

func TestCartFlow(t *testing.T) {
	defer cleanupCart(t, "scarf", "Red")
	defer cleanupCart(t, "clutch", "")

	// Two adds of the same (product, variant) merge into one line.
	resp := doJSON(t, http.MethodPost, "/api/cart/items", cartItemRequest{ProductID: "scarf", Variant: "Red", Quantity: 2})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	resp.Body.Close()
	resp = doJSON(t, http.MethodPost, "/api/cart/items", cartItemRequest{ProductID: "scarf", Variant: "Red", Quantity: 1})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Quantity omitted defaults to one.
	resp = doJSON(t, http.MethodPost, "/api/cart/items", cartItemRequest{ProductID: "clutch"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doGet(t, "/api/cart/")
	c := decodeJSON[cartResponse](t, resp)
	resp.Body.Close()

	if len(c.Items) != 2 {
		t.Fatalf("expected 2 line items, got %d", len(c.Items))
	}
	if c.Items[0].Quantity != 3 || c.Items[0].Variant != "Red" {
		t.Errorf("merged line: got qty %d variant %q", c.Items[0].Quantity, c.Items[0].Variant)
	}
	if c.Items[0].Subtotal != 1500 {
		t.Errorf("subtotal: got %v, want 1500", c.Items[0].Subtotal)
	}
	if c.Total != 2700 {
		t.Errorf("total: got %v, want 2700", c.Total)
	}
	if c.TotalDisplay != "₹2700" {
		t.Errorf("display total: got %q, want ₹2700", c.TotalDisplay)
	}
}

func TestCart_RejectsUndeclaredVariant(t *testing.T) {
	resp := doJSON(t, http.MethodPost, "/api/cart/items", cartItemRequest{ProductID: "scarf", Variant: "Green"})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
}

func TestCart_SetQuantity(t *testing.T) {
	defer cleanupCart(t, "stole", "Ivory")

	resp := doJSON(t, http.MethodPost, "/api/cart/items", cartItemRequest{ProductID: "stole", Variant: "Ivory", Quantity: 1})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doJSON(t, http.MethodPut, "/api/cart/items", cartItemRequest{ProductID: "stole", Variant: "Ivory", Quantity: 4})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// A zero quantity is rejected and leaves the line unchanged.
	resp = doJSON(t, http.MethodPut, "/api/cart/items", map[string]any{"productId": "stole", "variant": "Ivory", "quantity": 0})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doGet(t, "/api/cart/")
	c := decodeJSON[cartResponse](t, resp)
	resp.Body.Close()
	if len(c.Items) != 1 || c.Items[0].Quantity != 4 {
		t.Fatalf("cart after edits: got %+v", c.Items)
	}
}

func TestSummary(t *testing.T) {
	defer cleanupWishlist(t, "clutch")
	defer cleanupCart(t, "scarf", "Blue")

	resp := doJSON(t, http.MethodPost, "/api/wishlist/", wishlistAddRequest{ProductID: "clutch"})
	resp.Body.Close()
	resp = doJSON(t, http.MethodPost, "/api/cart/items", cartItemRequest{ProductID: "scarf", Variant: "Blue", Quantity: 2})
	resp.Body.Close()

	resp = doGet(t, "/api/summary")
	s := decodeJSON[summaryResponse](t, resp)
	resp.Body.Close()

	if s.WishlistCount != 1 {
		t.Errorf("wishlist count: got %d, want 1", s.WishlistCount)
	}
	if s.CartCount != 2 {
		t.Errorf("cart count: got %d, want 2", s.CartCount)
	}
	if s.CartTotal != 1000 {
		t.Errorf("cart total: got %v, want 1000", s.CartTotal)
	}
	if s.CartTotalDisplay != "₹1000" {
		t.Errorf("display total: got %q, want ₹1000", s.CartTotalDisplay)
	}
}

func TestMoveWishlistItemToCart(t *testing.T) {
	defer cleanupWishlist(t, "stole")
	defer cleanupCart(t, "stole", "")

	resp := doJSON(t, http.MethodPost, "/api/wishlist/", wishlistAddRequest{ProductID: "stole"})
	resp.Body.Close()

	resp = doJSON(t, http.MethodPost, "/api/wishlist/stole/cart", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	moved := decodeJSON[cartCountResponse](t, resp)
	resp.Body.Close()
	if moved.CartCount != 1 {
		t.Errorf("cart count: got %d, want 1", moved.CartCount)
	}

	// The wishlist entry stays after the move.
	resp = doGet(t, "/api/wishlist/")
	entries := decodeJSON[[]productResponse](t, resp)
	resp.Body.Close()
	if len(entries) != 1 || entries[0].ID != "stole" {
		t.Fatalf("wishlist after move: got %v", entries)
	}
}

func cleanupWishlist(t *testing.T, id string) {
	t.Helper()
	resp := doJSON(t, http.MethodDelete, "/api/wishlist/"+id, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("cleanup wishlist %s: got %d", id, resp.StatusCode)
	}
}

func cleanupCart(t *testing.T, id, variant string) {
	t.Helper()
	resp := doJSON(t, http.MethodDelete, "/api/cart/items?id="+id+"&variant="+variant, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("cleanup cart %s/%s: got %d", id, variant, resp.StatusCode)
	}
}
