// Package handler exposes the storefront state over HTTP.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/aarna-atelier/storefront-api/internal/domain/cart"
	"github.com/aarna-atelier/storefront-api/internal/domain/catalog"
	"github.com/aarna-atelier/storefront-api/internal/domain/intake"
	"github.com/aarna-atelier/storefront-api/internal/domain/wishlist"
)

// Config holds non-dependency configuration for the Handler.
type Config struct {
	// CurrencyGlyph prefixes displayed totals, e.g. "₹".
	CurrencyGlyph string
}

// Handler routes storefront actions to the domain stores.
type Handler struct {
	catalog  *catalog.Catalog
	wishlist *wishlist.Store
	cart     *cart.Store
	intake   *intake.Service

	currency string
	validate *validator.Validate
	metrics  *Metrics
}

// New constructs a Handler with the required domain dependencies. A nil
// metrics is valid and disables counters.
func New(
	cfg Config,
	cat *catalog.Catalog,
	wishes *wishlist.Store,
	carts *cart.Store,
	orders *intake.Service,
	metrics *Metrics,
) *Handler {
	return &Handler{
		catalog:  cat,
		wishlist: wishes,
		cart:     carts,
		intake:   orders,
		currency: cfg.CurrencyGlyph,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		metrics:  metrics,
	}
}

// Routes returns the /api router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/products", h.ListProducts)
	r.Get("/summary", h.GetSummary)

	r.Route("/wishlist", func(r chi.Router) {
		r.Get("/", h.ListWishlist)
		r.Post("/", h.AddToWishlist)
		r.Delete("/{id}", h.RemoveFromWishlist)
		r.Post("/{id}/cart", h.MoveWishlistItemToCart)
	})

	r.Route("/cart", func(r chi.Router) {
		r.Get("/", h.GetCart)
		r.Post("/items", h.AddCartItem)
		r.Put("/items", h.SetCartItemQuantity)
		r.Delete("/items", h.RemoveCartItem)
	})

	r.Route("/orders/custom", func(r chi.Router) {
		r.Get("/", h.ListCustomOrders)
		r.Post("/", h.SubmitCustomOrder)
	})

	return r
}
