package catalog

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dukerupert/law7a/internal/docstore"
	"github.com/dukerupert/law7a/internal/domain"
)

// EngineConfig tunes the search engine.
type EngineConfig struct {
	// PageSize is the raw page size. Zero means DefaultPageSize.
	PageSize int

	// FillPages keeps fetching raw pages until PageSize filtered results are
	// collected or the collection is exhausted. When false each call fetches
	// exactly one raw page and may return fewer results than PageSize even
	// though more matches exist further on.
	FillPages bool

	// MaxFetches caps raw fetches per call in FillPages mode. Zero means 5.
	MaxFetches int
}

// Engine runs fetch-then-filter searches over the document store. The store
// is only asked for recency-ordered pages; all matching happens here.
type Engine struct {
	store  docstore.Store
	cfg    EngineConfig
	logger *slog.Logger
}

// NewEngine creates an Engine.
func NewEngine(store docstore.Store, cfg EngineConfig, logger *slog.Logger) *Engine {
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.MaxFetches <= 0 {
		cfg.MaxFetches = 5
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{store: store, cfg: cfg, logger: logger}
}

// PageSize returns the effective raw page size.
func (e *Engine) PageSize() int {
	return e.cfg.PageSize
}

func (e *Engine) pageSize(q Query) int {
	if q.PageSize > 0 {
		return q.PageSize
	}
	return e.cfg.PageSize
}

func (e *Engine) fetches() int {
	if e.cfg.FillPages {
		return e.cfg.MaxFetches
	}
	return 1
}

// SearchProducts returns the next page of products matching q.
func (e *Engine) SearchProducts(ctx context.Context, q Query) (ProductPage, error) {
	const op = "catalog.SearchProducts"

	size := e.pageSize(q)
	result := ProductPage{Products: []domain.Product{}}
	cursor := q.Cursor

	for fetch := 0; fetch < e.fetches(); fetch++ {
		page, err := e.store.Query(ctx, ProductsCollection, docstore.Query{
			OrderBy: sortField,
			Desc:    true,
			Cursor:  cursor,
			Limit:   size,
		})
		if err != nil {
			return ProductPage{}, searchError(op, err)
		}

		products, err := decodeProducts(page.Docs)
		if err != nil {
			return ProductPage{}, domain.Internal(err, op, "failed to decode product")
		}

		result.Scanned += len(products)
		for _, p := range products {
			if productMatches(p, q) {
				result.Products = append(result.Products, p)
			}
		}

		result.HasMore = len(page.Docs) == size
		result.NextCursor = ""
		if result.HasMore {
			result.NextCursor = page.Cursor
		}
		cursor = page.Cursor

		if !result.HasMore || len(result.Products) >= size {
			break
		}
	}

	e.logger.Debug("product search",
		"query", q.Text,
		"scanned", result.Scanned,
		"matched", len(result.Products),
		"has_more", result.HasMore,
	)
	return result, nil
}

// SearchArtists returns the next page of artists matching q.
func (e *Engine) SearchArtists(ctx context.Context, q Query) (ArtistPage, error) {
	const op = "catalog.SearchArtists"

	size := e.pageSize(q)
	result := ArtistPage{Artists: []domain.Artist{}}
	cursor := q.Cursor

	for fetch := 0; fetch < e.fetches(); fetch++ {
		page, err := e.store.Query(ctx, ArtistsCollection, docstore.Query{
			OrderBy: sortField,
			Desc:    true,
			Cursor:  cursor,
			Limit:   size,
		})
		if err != nil {
			return ArtistPage{}, searchError(op, err)
		}

		artists, err := decodeArtists(page.Docs)
		if err != nil {
			return ArtistPage{}, domain.Internal(err, op, "failed to decode artist")
		}

		result.Scanned += len(artists)
		for _, a := range artists {
			if artistMatches(a, q) {
				result.Artists = append(result.Artists, a)
			}
		}

		result.HasMore = len(page.Docs) == size
		result.NextCursor = ""
		if result.HasMore {
			result.NextCursor = page.Cursor
		}
		cursor = page.Cursor

		if !result.HasMore || len(result.Artists) >= size {
			break
		}
	}

	e.logger.Debug("artist search",
		"query", q.Text,
		"scanned", result.Scanned,
		"matched", len(result.Artists),
		"has_more", result.HasMore,
	)
	return result, nil
}

func searchError(op string, err error) error {
	if errors.Is(err, docstore.ErrInvalidCursor) {
		return domain.Invalid(op, "invalid pagination cursor")
	}
	return domain.Internal(err, op, "search failed")
}
