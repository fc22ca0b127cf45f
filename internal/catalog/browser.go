package catalog

import (
	"context"
	"sync"

	"github.com/dukerupert/law7a/internal/domain"
)

// BrowserState is a snapshot of a Browser's accumulated results.
type BrowserState struct {
	Kind       Kind             `json:"kind"`
	Products   []domain.Product `json:"products,omitempty"`
	Artists    []domain.Artist  `json:"artists,omitempty"`
	HasMore    bool             `json:"hasMore"`
	NextCursor string           `json:"nextCursor,omitempty"`
}

// Browser threads consecutive searches into one pagination stream: Search
// starts over, LoadMore appends the next page. Changing the kind or the filters
// drops the cursor and everything accumulated so far.
type Browser struct {
	engine *Engine

	mu       sync.Mutex
	kind     Kind
	filters  Query
	cursor   string
	hasMore  bool
	products []domain.Product
	artists  []domain.Artist
}

// NewBrowser creates a Browser searching products with no filters.
func NewBrowser(engine *Engine) *Browser {
	return &Browser{engine: engine, kind: KindProducts}
}

// SetKind switches between product and artist search and resets pagination.
func (b *Browser) SetKind(kind Kind) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if kind != b.kind {
		b.kind = kind
		b.resetLocked()
	}
}

// SetFilters replaces the query filters and resets pagination. Any cursor in q
// is ignored.
func (b *Browser) SetFilters(q Query) {
	b.mu.Lock()
	defer b.mu.Unlock()
	q.Cursor = ""
	b.filters = q
	b.resetLocked()
}

// Search fetches the first page for the current kind and filters, replacing
// any accumulated results.
func (b *Browser) Search(ctx context.Context) (BrowserState, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.resetLocked()
	if err := b.fetchLocked(ctx); err != nil {
		return BrowserState{}, err
	}
	return b.stateLocked(), nil
}

// LoadMore appends the next page. It is a no-op once the stream is exhausted.
func (b *Browser) LoadMore(ctx context.Context) (BrowserState, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.hasMore {
		return b.stateLocked(), nil
	}
	if err := b.fetchLocked(ctx); err != nil {
		return BrowserState{}, err
	}
	return b.stateLocked(), nil
}

// State returns the accumulated results without fetching.
func (b *Browser) State() BrowserState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stateLocked()
}

func (b *Browser) resetLocked() {
	b.cursor = ""
	b.hasMore = false
	b.products = nil
	b.artists = nil
}

func (b *Browser) fetchLocked(ctx context.Context) error {
	q := b.filters
	q.Cursor = b.cursor

	switch b.kind {
	case KindArtists:
		page, err := b.engine.SearchArtists(ctx, q)
		if err != nil {
			return err
		}
		b.artists = append(b.artists, page.Artists...)
		b.cursor, b.hasMore = page.NextCursor, page.HasMore
	default:
		page, err := b.engine.SearchProducts(ctx, q)
		if err != nil {
			return err
		}
		b.products = append(b.products, page.Products...)
		b.cursor, b.hasMore = page.NextCursor, page.HasMore
	}
	return nil
}

func (b *Browser) stateLocked() BrowserState {
	state := BrowserState{Kind: b.kind, HasMore: b.hasMore, NextCursor: b.cursor}
	if b.kind == KindArtists {
		state.Artists = append([]domain.Artist{}, b.artists...)
	} else {
		state.Products = append([]domain.Product{}, b.products...)
	}
	return state
}
