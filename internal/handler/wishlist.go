package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/aarna-atelier/storefront-api/internal/domain/catalog"
)

type addToWishlistRequest struct {
	ProductID string `json:"productId" validate:"required"`
}

// ListWishlist serves wishlist entries in insertion order.
func (h *Handler) ListWishlist(w http.ResponseWriter, _ *http.Request) {
	entries := h.wishlist.List()
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ArrStart()
		for _, entry := range entries {
			encodeProduct(e, entry.Product)
		}
		e.ArrEnd()
	})
}

// AddToWishlist handles add-to-wishlist for a catalog product. Adding a
// product already on the list is a no-op reported as 200; a fresh add is
// 201.
func (h *Handler) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	var req addToWishlistRequest
	if err := h.decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "productId is required")
		return
	}

	product, err := h.catalog.Get(req.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "product "+req.ProductID+" not found")
			return
		}
		writeInternalError(r, w, err)
		return
	}

	added, err := h.wishlist.Add(r.Context(), *product)
	if err != nil {
		writeInternalError(r, w, err)
		return
	}

	status := http.StatusOK
	if added {
		status = http.StatusCreated
		h.metrics.recordWishlistAdd(r.Context())
	}
	writeJSON(w, status, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("added")
		e.Bool(added)
		e.FieldStart("count")
		e.Int(h.wishlist.Count())
		e.ObjEnd()
	})
}

// RemoveFromWishlist handles remove-from-wishlist. Removing an absent id is
// idempotent.
func (h *Handler) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.wishlist.Remove(r.Context(), id); err != nil {
		writeInternalError(r, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MoveWishlistItemToCart adds one unit of a wishlisted product to the cart
// with the empty variant. The wishlist entry itself stays.
func (h *Handler) MoveWishlistItemToCart(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	entry, ok := h.wishlist.Find(id)
	if !ok {
		writeError(w, http.StatusNotFound, "product "+id+" is not on the wishlist")
		return
	}

	if err := h.cart.AddOrMerge(r.Context(), entry.Product, 1, ""); err != nil {
		writeInternalError(r, w, err)
		return
	}
	h.metrics.recordCartAdd(r.Context(), 1, "")

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("cartCount")
		e.Int(h.cart.ItemCount())
		e.ObjEnd()
	})
}
