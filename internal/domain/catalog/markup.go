package catalog

import (
	"io"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"
	"golang.org/x/net/html"
)

// productCardClass marks the elements that declare a product.
const productCardClass = "product-card"

// SkippedCard describes a product element that could not be read.
type SkippedCard struct {
	ID     string
	Reason string
}

// ParseMarkup walks storefront markup and extracts one Product per element
// carrying the product-card class. Per-card attribute contract:
//
//	data-id     string, required
//	data-name   string, required
//	data-price  non-negative base-10 integer, required
//	data-image  string, optional
//	data-colors JSON array of strings, optional
//
// Cards violating the contract are skipped, not fatal; they are reported so
// the caller can log them.
func ParseMarkup(r io.Reader) ([]Product, []SkippedCard, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, nil, errors.Wrap(err, "parse markup")
	}

	var (
		products []Product
		skipped  []SkippedCard
	)
	walk(root, func(n *html.Node) {
		if !hasClass(n, productCardClass) {
			return
		}
		p, err := readCard(n)
		if err != nil {
			skipped = append(skipped, SkippedCard{ID: attr(n, "data-id"), Reason: err.Error()})
			return
		}
		products = append(products, p)
	})

	return products, skipped, nil
}

// walk visits every element node in document order.
func walk(n *html.Node, visit func(*html.Node)) {
	if n.Type == html.ElementNode {
		visit(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

func readCard(n *html.Node) (Product, error) {
	id := attr(n, "data-id")
	if id == "" {
		return Product{}, errors.New("missing data-id")
	}
	name := attr(n, "data-name")
	if name == "" {
		return Product{}, errors.New("missing data-name")
	}

	raw := attr(n, "data-price")
	cents, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return Product{}, errors.Wrapf(err, "data-price %q", raw)
	}
	if cents < 0 {
		return Product{}, errors.Errorf("data-price %q is negative", raw)
	}

	variants, err := parseVariants(attr(n, "data-colors"))
	if err != nil {
		return Product{}, errors.Wrap(err, "data-colors")
	}

	return Product{
		ID:       id,
		Name:     name,
		Price:    decimal.NewFromInt(cents),
		Image:    attr(n, "data-image"),
		Variants: variants,
	}, nil
}

// parseVariants decodes the data-colors attribute, a JSON array of strings.
// An absent attribute means no variants.
func parseVariants(raw string) ([]string, error) {
	if raw == "" {
		return nil, nil
	}
	var variants []string
	d := jx.DecodeStr(raw)
	if err := d.Arr(func(d *jx.Decoder) error {
		v, err := d.Str()
		if err != nil {
			return err
		}
		variants = append(variants, v)
		return nil
	}); err != nil {
		return nil, err
	}
	return variants, nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}
