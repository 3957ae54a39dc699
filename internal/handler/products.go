package handler

import (
	"net/http"

	"github.com/go-faster/jx"

	"github.com/aarna-atelier/storefront-api/internal/domain/catalog"
)

// ListProducts serves the catalog in declaration order.
func (h *Handler) ListProducts(w http.ResponseWriter, _ *http.Request) {
	products := h.catalog.List()
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ArrStart()
		for _, p := range products {
			encodeProduct(e, p)
		}
		e.ArrEnd()
	})
}

// GetSummary serves the badge payload: wishlist count, cart item count,
// and the cart total both as a number and as a display string with the
// currency glyph.
func (h *Handler) GetSummary(w http.ResponseWriter, _ *http.Request) {
	total := h.cart.Total()
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("wishlistCount")
		e.Int(h.wishlist.Count())
		e.FieldStart("cartCount")
		e.Int(h.cart.ItemCount())
		e.FieldStart("cartTotal")
		e.Num(jx.Num(total.String()))
		e.FieldStart("cartTotalDisplay")
		e.Str(h.currency + total.String())
		e.ObjEnd()
	})
}

// encodeProduct writes the API representation of a product descriptor.
func encodeProduct(e *jx.Encoder, p catalog.Product) {
	e.ObjStart()
	e.FieldStart("id")
	e.Str(p.ID)
	e.FieldStart("name")
	e.Str(p.Name)
	e.FieldStart("price")
	e.Num(jx.Num(p.Price.String()))
	e.FieldStart("image")
	e.Str(p.Image)
	e.FieldStart("variants")
	e.ArrStart()
	for _, v := range p.Variants {
		e.Str(v)
	}
	e.ArrEnd()
	e.ObjEnd()
}
