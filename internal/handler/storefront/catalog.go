package storefront

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dukerupert/law7a/internal/catalog"
	"github.com/dukerupert/law7a/internal/domain"
	"github.com/dukerupert/law7a/internal/handler"
	"github.com/dukerupert/law7a/internal/telemetry"
	"github.com/dukerupert/law7a/internal/visitor"
)

// maxPageSize caps the pageSize a client may ask for.
const maxPageSize = 48

// CatalogReader is the catalog read API.
type CatalogReader interface {
	GetProductByID(ctx context.Context, id string) (domain.Product, error)
	GetProductsByArtistID(ctx context.Context, artistID string) ([]domain.Product, error)
	GetArtistByID(ctx context.Context, id string) (domain.Artist, error)
}

// Searcher runs catalog searches.
type Searcher interface {
	SearchProducts(ctx context.Context, q catalog.Query) (catalog.ProductPage, error)
	SearchArtists(ctx context.Context, q catalog.Query) (catalog.ArtistPage, error)
}

// CatalogHandler serves products, artists and search.
type CatalogHandler struct {
	reader   CatalogReader
	searcher Searcher
	browsers *visitor.Registry[*catalog.Browser]
	metrics  *telemetry.BusinessMetrics
}

// NewCatalogHandler creates a catalog handler. browsers holds each visitor's
// pagination stream for the browse endpoints.
func NewCatalogHandler(reader CatalogReader, searcher Searcher, browsers *visitor.Registry[*catalog.Browser], metrics *telemetry.BusinessMetrics) *CatalogHandler {
	return &CatalogHandler{
		reader:   reader,
		searcher: searcher,
		browsers: browsers,
		metrics:  metrics,
	}
}

// Product handles GET /api/products/{id}
func (h *CatalogHandler) Product(w http.ResponseWriter, r *http.Request) {
	product, err := h.reader.GetProductByID(r.Context(), r.PathValue("id"))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, newProductView(product, language(r)))
}

// Artist handles GET /api/artists/{id}
func (h *CatalogHandler) Artist(w http.ResponseWriter, r *http.Request) {
	artist, err := h.reader.GetArtistByID(r.Context(), r.PathValue("id"))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, newArtistView(artist, language(r)))
}

// ArtistProducts handles GET /api/artists/{id}/products
func (h *CatalogHandler) ArtistProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	if _, err := h.reader.GetArtistByID(ctx, id); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	products, err := h.reader.GetProductsByArtistID(ctx, id)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, map[string]any{
		"products": newProductViews(products, language(r)),
	})
}

// Search handles GET /api/search
//
// Query parameters: type (products|artists), q, category and medium
// (repeatable or comma-separated), min, max, cursor, pageSize.
func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	kind, q, err := parseSearch(values)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	lang := language(r)
	view := SearchView{Kind: kind}
	switch kind {
	case catalog.KindArtists:
		page, err := h.searcher.SearchArtists(r.Context(), q)
		if err != nil {
			handler.ErrorResponse(w, r, err)
			return
		}
		view.Artists = newArtistViews(page.Artists, lang)
		view.NextCursor, view.HasMore = page.NextCursor, page.HasMore
		h.metrics.RecordSearch(string(kind), isFiltered(q), page.Scanned, len(page.Artists))
	default:
		page, err := h.searcher.SearchProducts(r.Context(), q)
		if err != nil {
			handler.ErrorResponse(w, r, err)
			return
		}
		view.Products = newProductViews(page.Products, lang)
		view.NextCursor, view.HasMore = page.NextCursor, page.HasMore
		h.metrics.RecordSearch(string(kind), isFiltered(q), page.Scanned, len(page.Products))
	}

	handler.WriteJSON(w, http.StatusOK, view)
}

// Browse handles POST /api/browse. It starts a new pagination stream for the
// visitor with the filters in the query string.
func (h *CatalogHandler) Browse(w http.ResponseWriter, r *http.Request) {
	kind, q, err := parseSearch(r.URL.Query())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	browser, err := h.browser(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	browser.SetKind(kind)
	browser.SetFilters(q)
	st, err := browser.Search(r.Context())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, newBrowserView(st, language(r)))
}

// BrowseMore handles POST /api/browse/more
func (h *CatalogHandler) BrowseMore(w http.ResponseWriter, r *http.Request) {
	browser, err := h.browser(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	st, err := browser.LoadMore(r.Context())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, newBrowserView(st, language(r)))
}

// BrowseState handles GET /api/browse
func (h *CatalogHandler) BrowseState(w http.ResponseWriter, r *http.Request) {
	browser, err := h.browser(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, newBrowserView(browser.State(), language(r)))
}

func (h *CatalogHandler) browser(r *http.Request) (*catalog.Browser, error) {
	key, err := visitorKey(r)
	if err != nil {
		return nil, err
	}
	return h.browsers.Get(r.Context(), key)
}

// parseSearch turns search query parameters into a catalog query.
func parseSearch(values url.Values) (catalog.Kind, catalog.Query, error) {
	const op = "storefront.parseSearch"

	kind := catalog.Kind(values.Get("type"))
	if kind == "" {
		kind = catalog.KindProducts
	}
	if !kind.Valid() {
		return "", catalog.Query{}, domain.NewValidationError(op, "type", "type must be products or artists")
	}

	q := catalog.Query{
		Text:   strings.TrimSpace(values.Get("q")),
		Cursor: values.Get("cursor"),
	}

	for _, c := range listParam(values, "category") {
		category := domain.Category(c)
		if !category.Valid() {
			return "", catalog.Query{}, domain.NewValidationError(op, "category", "unknown category "+strconv.Quote(c))
		}
		q.Categories = append(q.Categories, category)
	}
	for _, m := range listParam(values, "medium") {
		medium := domain.Medium(m)
		if !medium.Valid() {
			return "", catalog.Query{}, domain.NewValidationError(op, "medium", "unknown medium "+strconv.Quote(m))
		}
		q.Mediums = append(q.Mediums, medium)
	}

	lo, err := decimalParam(values, "min")
	if err != nil {
		return "", catalog.Query{}, domain.NewValidationError(op, "min", "min must be a number")
	}
	hi, err := decimalParam(values, "max")
	if err != nil {
		return "", catalog.Query{}, domain.NewValidationError(op, "max", "max must be a number")
	}
	if lo != nil && hi != nil && lo.GreaterThan(*hi) {
		return "", catalog.Query{}, domain.NewValidationError(op, "min", "min must not exceed max")
	}
	if lo != nil || hi != nil {
		q.Price = &catalog.PriceRange{Min: lo, Max: hi}
	}

	if s := values.Get("pageSize"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > maxPageSize {
			return "", catalog.Query{}, domain.NewValidationError(op, "pageSize", "pageSize must be between 1 and "+strconv.Itoa(maxPageSize))
		}
		q.PageSize = n
	}

	return kind, q, nil
}

// listParam collects a repeatable parameter whose values may also be
// comma-separated.
func listParam(values url.Values, name string) []string {
	var out []string
	for _, v := range values[name] {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func decimalParam(values url.Values, name string) (*decimal.Decimal, error) {
	s := strings.TrimSpace(values.Get(name))
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func isFiltered(q catalog.Query) bool {
	return q.Text != "" || len(q.Categories) > 0 || len(q.Mediums) > 0 || q.Price != nil
}
