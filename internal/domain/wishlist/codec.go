package wishlist

import (
	"github.com/aarna-atelier/storefront-api/internal/domain/catalog"
)

// Entries are plain product descriptor snapshots on the wire, the same
// shape the catalog cache uses.

func encodeEntries(entries []Entry) []byte {
	products := make([]catalog.Product, len(entries))
	for i, e := range entries {
		products[i] = e.Product
	}
	return catalog.EncodeProducts(products)
}

func decodeEntries(data []byte) ([]Entry, error) {
	products, err := catalog.DecodeProducts(data)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, len(products))
	for i, p := range products {
		entries[i] = Entry{Product: p}
	}
	return entries, nil
}
