package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/dukerupert/law7a/internal/domain"
)

// DefaultPageSize is the raw page size fetched from the document store.
const DefaultPageSize = 12

// Kind selects what a search returns.
type Kind string

const (
	KindProducts Kind = "products"
	KindArtists  Kind = "artists"
)

// Valid reports whether k is a searchable kind.
func (k Kind) Valid() bool {
	return k == KindProducts || k == KindArtists
}

// PriceRange bounds a product price inclusively. A nil bound is open.
type PriceRange struct {
	Min *decimal.Decimal
	Max *decimal.Decimal
}

// Contains reports whether price lies within the range.
func (r *PriceRange) Contains(price decimal.Decimal) bool {
	if r == nil {
		return true
	}
	if r.Min != nil && price.LessThan(*r.Min) {
		return false
	}
	if r.Max != nil && price.GreaterThan(*r.Max) {
		return false
	}
	return true
}

// Query is one search request. Cursor threads consecutive calls together.
type Query struct {
	Text       string
	Categories []domain.Category
	Mediums    []domain.Medium
	Price      *PriceRange
	Cursor     string
	PageSize   int
}

// ProductPage is one page of product results.
type ProductPage struct {
	Products []domain.Product
	// NextCursor continues after the last raw document fetched. Empty when the
	// collection is exhausted.
	NextCursor string
	// HasMore is true iff the last raw page fetched was full.
	HasMore bool
	// Scanned counts raw documents examined for this page.
	Scanned int
}

// ArtistPage is one page of artist results.
type ArtistPage struct {
	Artists    []domain.Artist
	NextCursor string
	HasMore    bool
	Scanned    int
}
