package storefront

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/law7a/internal/catalog"
	"github.com/dukerupert/law7a/internal/domain"
)

func TestCatalogHandler_Product(t *testing.T) {
	env := newTestEnv(t)

	t.Run("arabic display fields", func(t *testing.T) {
		rec := serve(t, withPath(env.catalog.Product, "id", "product1"), http.MethodGet, "/api/products/product1", nil,
			inLanguage(domain.LanguageArabic))

		require.Equal(t, http.StatusOK, rec.Code)
		view := decodeBody[ProductView](t, rec)
		assert.Equal(t, "غروب الصحراء", view.DisplayTitle)
		assert.Equal(t, "350.00", view.DisplayPrice.Amount)
		assert.Equal(t, domain.CurrencyJOD, view.DisplayPrice.Currency)
	})

	t.Run("unknown product", func(t *testing.T) {
		rec := serve(t, withPath(env.catalog.Product, "id", "nope"), http.MethodGet, "/api/products/nope", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestCatalogHandler_ArtistProducts(t *testing.T) {
	env := newTestEnv(t)

	rec := serve(t, withPath(env.catalog.ArtistProducts, "id", "artist2"), http.MethodGet, "/api/artists/artist2/products", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[struct {
		Products []ProductView `json:"products"`
	}](t, rec)
	assert.Len(t, body.Products, 4)
	for _, p := range body.Products {
		assert.Equal(t, "artist2", p.ArtistID)
	}

	rec = serve(t, withPath(env.catalog.ArtistProducts, "id", "ghost"), http.MethodGet, "/api/artists/ghost/products", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCatalogHandler_Search(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name   string
		query  string
		status int
		check  func(t *testing.T, view SearchView)
	}{
		{
			name:   "category filter",
			query:  "category=pottery",
			status: http.StatusOK,
			check: func(t *testing.T, view SearchView) {
				require.Len(t, view.Products, 3)
				assert.Equal(t, "product11", view.Products[0].ID)
				assert.False(t, view.HasMore)
			},
		},
		{
			name:   "price range",
			query:  "min=100&max=200",
			status: http.StatusOK,
			check: func(t *testing.T, view SearchView) {
				require.NotEmpty(t, view.Products)
				for _, p := range view.Products {
					f, _ := p.Price.Float64()
					assert.GreaterOrEqual(t, f, 100.0)
					assert.LessOrEqual(t, f, 200.0)
				}
			},
		},
		{
			name:   "artists by text",
			query:  "type=artists&q=" + url.QueryEscape("calligraphy"),
			status: http.StatusOK,
			check: func(t *testing.T, view SearchView) {
				assert.Equal(t, catalog.KindArtists, view.Kind)
				assert.Empty(t, view.Products)
			},
		},
		{name: "unknown type", query: "type=galleries", status: http.StatusBadRequest},
		{name: "unknown category", query: "category=furniture", status: http.StatusBadRequest},
		{name: "min above max", query: "min=300&max=100", status: http.StatusBadRequest},
		{name: "bad page size", query: "pageSize=1000", status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, env.catalog.Search, http.MethodGet, "/api/search?"+tt.query, nil)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			if tt.check != nil {
				tt.check(t, decodeBody[SearchView](t, rec))
			}
		})
	}
}

func TestCatalogHandler_Browse(t *testing.T) {
	env := newTestEnv(t)
	visitor := asVisitor("3f1c2d6e-7a4b-4c59-9a1e-0b8d2f6c5e41")

	rec := serve(t, env.catalog.Browse, http.MethodPost, "/api/browse", nil, visitor)
	require.Equal(t, http.StatusOK, rec.Code)
	first := decodeBody[SearchView](t, rec)
	assert.Len(t, first.Products, 4)
	assert.True(t, first.HasMore)

	rec = serve(t, env.catalog.BrowseMore, http.MethodPost, "/api/browse/more", nil, visitor)
	require.Equal(t, http.StatusOK, rec.Code)
	more := decodeBody[SearchView](t, rec)
	assert.Len(t, more.Products, 8)
	assert.Equal(t, first.Products[0].ID, more.Products[0].ID)

	rec = serve(t, env.catalog.BrowseState, http.MethodGet, "/api/browse", nil, visitor)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[SearchView](t, rec).Products, 8)

	t.Run("new filters start over", func(t *testing.T) {
		rec := serve(t, env.catalog.Browse, http.MethodPost, "/api/browse?category=jewelry", nil, visitor)
		require.Equal(t, http.StatusOK, rec.Code)
		view := decodeBody[SearchView](t, rec)
		require.Len(t, view.Products, 1)
		assert.Equal(t, domain.CategoryJewelry, view.Products[0].Category)
		assert.False(t, view.HasMore)
	})

	t.Run("visitors do not share streams", func(t *testing.T) {
		rec := serve(t, env.catalog.BrowseState, http.MethodGet, "/api/browse", nil,
			asVisitor("9d0f4b1a-2c3e-4f5a-8b6c-7d8e9f0a1b2c"))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, decodeBody[SearchView](t, rec).Products)
	})

	t.Run("no visitor", func(t *testing.T) {
		rec := serve(t, env.catalog.BrowseState, http.MethodGet, "/api/browse", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
