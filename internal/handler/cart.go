package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/aarna-atelier/storefront-api/internal/domain/cart"
	"github.com/aarna-atelier/storefront-api/internal/domain/catalog"
	"github.com/aarna-atelier/storefront-api/internal/domain/selection"
)

type cartItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Variant   string `json:"variant"`
	Quantity  int    `json:"quantity" validate:"gte=0"`
}

// setQuantityRequest deliberately has no quantity bound: edits below 1 must
// reach the store, which ignores them while still flushing the collection.
type setQuantityRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Variant   string `json:"variant"`
	Quantity  int    `json:"quantity"`
}

// GetCart serves the line items and the running total.
func (h *Handler) GetCart(w http.ResponseWriter, _ *http.Request) {
	items := h.cart.List()
	total := h.cart.Total()

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("items")
		e.ArrStart()
		for _, li := range items {
			encodeLineItem(e, li)
		}
		e.ArrEnd()
		e.FieldStart("total")
		e.Num(jx.Num(total.String()))
		e.FieldStart("totalDisplay")
		e.Str(h.currency + total.String())
		e.ObjEnd()
	})
}

// AddCartItem handles confirm-add-to-cart. It runs the selection flow for
// the requested product: the variant must be one the product declares, and
// a zero quantity defaults to 1.
func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	var req cartItemRequest
	if err := h.decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "productId is required and quantity must not be negative")
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

	flow := selection.NewFlow(h.cart)
	flow.Open(*product)
	if err := flow.Confirm(r.Context(), req.Variant, req.Quantity); err != nil {
		h.writeCartError(r, w, err)
		return
	}
	h.metrics.recordCartAdd(r.Context(), max(req.Quantity, 1), req.Variant)

	writeJSON(w, http.StatusCreated, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("cartCount")
		e.Int(h.cart.ItemCount())
		e.ObjEnd()
	})
}

// SetCartItemQuantity handles edit-cart-quantity. A quantity below 1 leaves
// the line item unchanged and is reported back as an invalid edit; the
// store still flushes the collection either way.
func (h *Handler) SetCartItemQuantity(w http.ResponseWriter, r *http.Request) {
	var req setQuantityRequest
	if err := h.decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "productId is required")
		return
	}

	if err := h.cart.SetQuantity(r.Context(), req.ProductID, req.Variant, req.Quantity); err != nil {
		writeInternalError(r, w, err)
		return
	}

	if req.Quantity < 1 {
		writeError(w, http.StatusUnprocessableEntity, "quantity must be greater than 0")
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("cartCount")
		e.Int(h.cart.ItemCount())
		e.ObjEnd()
	})
}

// RemoveCartItem handles remove-from-cart by exact (id, variant) key.
// Removing an absent key is idempotent.
func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id query parameter is required")
		return
	}
	variant := r.URL.Query().Get("variant")

	if err := h.cart.Remove(r.Context(), id, variant); err != nil {
		writeInternalError(r, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeCartError maps selection and cart errors to API responses.
func (h *Handler) writeCartError(r *http.Request, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, selection.ErrUnknownVariant):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, selection.ErrInvalidQuantity), errors.Is(err, cart.ErrInvalidQuantity):
		writeError(w, http.StatusUnprocessableEntity, "quantity must be greater than 0")
	case errors.Is(err, selection.ErrNoSelection):
		// Confirming with nothing selected is a silent no-op.
		w.WriteHeader(http.StatusNoContent)
	default:
		writeInternalError(r, w, err)
	}
}

func encodeLineItem(e *jx.Encoder, li cart.LineItem) {
	e.ObjStart()
	e.FieldStart("product")
	encodeProduct(e, li.Product)
	e.FieldStart("variant")
	e.Str(li.Variant)
	e.FieldStart("quantity")
	e.Int(li.Quantity)
	e.FieldStart("subtotal")
	e.Num(jx.Num(li.Subtotal().String()))
	e.ObjEnd()
}
