// Package catalog reads products and artists from the document store and runs
// the storefront's paginated, filtered search over them.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dukerupert/law7a/internal/docstore"
	"github.com/dukerupert/law7a/internal/domain"
)

// Collection names in the document store.
const (
	ProductsCollection = "products"
	ArtistsCollection  = "artists"
)

// sortField is the recency key every listing is ordered by.
const sortField = "dateAdded"

// Repository is the catalog read API. It also writes the products and
// profiles artists manage, and the demo seed.
type Repository struct {
	store docstore.Store
}

// NewRepository creates a Repository over store.
func NewRepository(store docstore.Store) *Repository {
	return &Repository{store: store}
}

// GetProductByID returns the product or domain.ErrProductNotFound.
func (r *Repository) GetProductByID(ctx context.Context, id string) (domain.Product, error) {
	const op = "catalog.GetProductByID"

	doc, err := r.store.Get(ctx, ProductsCollection, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return domain.Product{}, domain.WithOp(domain.ErrProductNotFound, op, err)
		}
		return domain.Product{}, domain.Internal(err, op, "failed to load product")
	}

	var p domain.Product
	if err := doc.Decode(&p); err != nil {
		return domain.Product{}, domain.Internal(err, op, "failed to decode product")
	}
	if p.ID == "" {
		p.ID = doc.ID
	}
	return p, nil
}

// GetProductsByArtistID returns every product of an artist, newest first.
func (r *Repository) GetProductsByArtistID(ctx context.Context, artistID string) ([]domain.Product, error) {
	const op = "catalog.GetProductsByArtistID"

	var (
		products []domain.Product
		cursor   string
	)
	for {
		page, err := r.store.Query(ctx, ProductsCollection, docstore.Query{
			Filters: []docstore.Filter{{Field: "artistId", Value: artistID}},
			OrderBy: sortField,
			Desc:    true,
			Cursor:  cursor,
			Limit:   100,
		})
		if err != nil {
			return nil, domain.Internal(err, op, "failed to list artist products")
		}

		batch, err := decodeProducts(page.Docs)
		if err != nil {
			return nil, domain.Internal(err, op, "failed to decode product")
		}
		products = append(products, batch...)

		if len(page.Docs) < 100 {
			return products, nil
		}
		cursor = page.Cursor
	}
}

// GetArtistByID returns the artist or domain.ErrArtistNotFound.
func (r *Repository) GetArtistByID(ctx context.Context, id string) (domain.Artist, error) {
	const op = "catalog.GetArtistByID"

	doc, err := r.store.Get(ctx, ArtistsCollection, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return domain.Artist{}, domain.WithOp(domain.ErrArtistNotFound, op, err)
		}
		return domain.Artist{}, domain.Internal(err, op, "failed to load artist")
	}

	var a domain.Artist
	if err := doc.Decode(&a); err != nil {
		return domain.Artist{}, domain.Internal(err, op, "failed to decode artist")
	}
	if a.ID == "" {
		a.ID = doc.ID
	}
	return a, nil
}

// GetArtistByUserID returns the artist profile of an account or
// domain.ErrArtistNotFound when it has none yet.
func (r *Repository) GetArtistByUserID(ctx context.Context, userID string) (domain.Artist, error) {
	const op = "catalog.GetArtistByUserID"

	page, err := r.store.Query(ctx, ArtistsCollection, docstore.Query{
		Filters: []docstore.Filter{{Field: "userId", Value: userID}},
		Limit:   1,
	})
	if err != nil {
		return domain.Artist{}, domain.Internal(err, op, "failed to look up artist")
	}
	if len(page.Docs) == 0 {
		return domain.Artist{}, domain.WithOp(domain.ErrArtistNotFound, op, nil)
	}

	artists, err := decodeArtists(page.Docs)
	if err != nil {
		return domain.Artist{}, domain.Internal(err, op, "failed to decode artist")
	}
	return artists[0], nil
}

// DeleteProduct removes the product document. Missing products are not an error.
func (r *Repository) DeleteProduct(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, ProductsCollection, id); err != nil {
		return domain.Internal(err, "catalog.DeleteProduct", "failed to delete product")
	}
	return nil
}

// PutProduct stores p. DateAdded is normalised to whole UTC seconds so that the
// text ordering of the recency key matches time ordering.
func (r *Repository) PutProduct(ctx context.Context, p domain.Product) error {
	if p.ID == "" {
		return domain.Invalid("catalog.PutProduct", "product id is required")
	}
	p.DateAdded = normaliseTime(p.DateAdded)
	p.DateCreated = normaliseTime(p.DateCreated)
	if err := r.store.Put(ctx, ProductsCollection, p.ID, p); err != nil {
		return domain.Internal(err, "catalog.PutProduct", "failed to save product")
	}
	return nil
}

// PutArtist stores a.
func (r *Repository) PutArtist(ctx context.Context, a domain.Artist) error {
	if a.ID == "" {
		return domain.Invalid("catalog.PutArtist", "artist id is required")
	}
	a.DateAdded = normaliseTime(a.DateAdded)
	if err := r.store.Put(ctx, ArtistsCollection, a.ID, a); err != nil {
		return domain.Internal(err, "catalog.PutArtist", "failed to save artist")
	}
	return nil
}

func normaliseTime(t time.Time) time.Time {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Truncate(time.Second)
}

func decodeProducts(docs []docstore.Document) ([]domain.Product, error) {
	products := make([]domain.Product, 0, len(docs))
	for _, doc := range docs {
		var p domain.Product
		if err := doc.Decode(&p); err != nil {
			return nil, fmt.Errorf("product %s: %w", doc.ID, err)
		}
		if p.ID == "" {
			p.ID = doc.ID
		}
		products = append(products, p)
	}
	return products, nil
}

func decodeArtists(docs []docstore.Document) ([]domain.Artist, error) {
	artists := make([]domain.Artist, 0, len(docs))
	for _, doc := range docs {
		var a domain.Artist
		if err := doc.Decode(&a); err != nil {
			return nil, fmt.Errorf("artist %s: %w", doc.ID, err)
		}
		if a.ID == "" {
			a.ID = doc.ID
		}
		artists = append(artists, a)
	}
	return artists, nil
}
