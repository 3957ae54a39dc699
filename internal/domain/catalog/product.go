// Package catalog reads product descriptors from declarative storefront
// markup and serves them as an indexed, read-only view.
package catalog

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Product is a catalog descriptor. It is immutable once read from the
// markup; wishlist entries and cart line items embed snapshots of it.
type Product struct {
	ID       string
	Name     string
	Price    decimal.Decimal
	Image    string
	Variants []string
}

// HasVariant reports whether label is one of the product's declared
// variants. A product with no variants accepts only the empty label.
func (p Product) HasVariant(label string) bool {
	if len(p.Variants) == 0 {
		return label == ""
	}
	for _, v := range p.Variants {
		if v == label {
			return true
		}
	}
	return false
}

// Catalog is an ordered, id-indexed collection of products.
type Catalog struct {
	products []Product
	byID     map[string]int
}

// New builds a Catalog from products, preserving order. Later duplicates of
// an id are dropped.
func New(products []Product) *Catalog {
	c := &Catalog{byID: make(map[string]int, len(products))}
	for _, p := range products {
		if _, ok := c.byID[p.ID]; ok {
			continue
		}
		c.byID[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}
	return c
}

// List returns all products in catalog order.
func (c *Catalog) List() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

// Get returns the product with the given id, or ErrNotFound.
func (c *Catalog) Get(id string) (*Product, error) {
	i, ok := c.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	p := c.products[i]
	return &p, nil
}

// Len returns the number of products.
func (c *Catalog) Len() int { return len(c.products) }
