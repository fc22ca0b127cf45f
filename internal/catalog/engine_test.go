package catalog

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/law7a/internal/docstore"
	"github.com/dukerupert/law7a/internal/domain"
)

var epoch = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

// newProduct builds a product; higher n means more recently added.
func newProduct(n int, title string) domain.Product {
	return domain.Product{
		ID:        fmt.Sprintf("p%03d", n),
		ArtistID:  "artist1",
		Title:     domain.TranslatedText{EN: title, AR: "عنوان"},
		Price:     decimal.NewFromInt(int64(10 * n)),
		Currency:  domain.CurrencyJOD,
		Category:  domain.CategoryPainting,
		Medium:    domain.MediumOil,
		InStock:   true,
		DateAdded: epoch.Add(time.Duration(n) * time.Minute),
	}
}

func seedProducts(t *testing.T, products ...domain.Product) *Repository {
	t.Helper()
	repo := NewRepository(docstore.NewMemory())
	for _, p := range products {
		require.NoError(t, repo.PutProduct(context.Background(), p))
	}
	return repo
}

func decimalPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func TestEngine_FilteredPageKeepsRawPagination(t *testing.T) {
	// 13 products: the newest 12 form the first raw page, one of which matches.
	var products []domain.Product
	for i := 1; i <= 13; i++ {
		title := fmt.Sprintf("Untitled %d", i)
		if i == 10 {
			title = "Sunset over Petra"
		}
		products = append(products, newProduct(i, title))
	}
	repo := seedProducts(t, products...)
	engine := NewEngine(repo.store, EngineConfig{}, nil)

	page, err := engine.SearchProducts(context.Background(), Query{Text: "sunset"})
	require.NoError(t, err)

	require.Len(t, page.Products, 1)
	assert.Equal(t, "p010", page.Products[0].ID)
	assert.Equal(t, 12, page.Scanned)
	assert.True(t, page.HasMore, "raw page was full")
	assert.NotEmpty(t, page.NextCursor)

	next, err := engine.SearchProducts(context.Background(), Query{Text: "sunset", Cursor: page.NextCursor})
	require.NoError(t, err)
	assert.Empty(t, next.Products)
	assert.Equal(t, 1, next.Scanned)
	assert.False(t, next.HasMore)
	assert.Empty(t, next.NextCursor)
}

func TestEngine_ZeroMatchesStillHasMore(t *testing.T) {
	var products []domain.Product
	for i := 1; i <= 5; i++ {
		products = append(products, newProduct(i, "Plain"))
	}
	repo := seedProducts(t, products...)
	engine := NewEngine(repo.store, EngineConfig{PageSize: 2}, nil)

	page, err := engine.SearchProducts(context.Background(), Query{Text: "nothing"})
	require.NoError(t, err)
	assert.Empty(t, page.Products)
	assert.True(t, page.HasMore)
}

func TestEngine_FillPages(t *testing.T) {
	var products []domain.Product
	for i := 1; i <= 9; i++ {
		title := "Plain"
		if i%3 == 0 {
			title = "Sunset"
		}
		products = append(products, newProduct(i, title))
	}
	repo := seedProducts(t, products...)
	engine := NewEngine(repo.store, EngineConfig{PageSize: 2, FillPages: true, MaxFetches: 10}, nil)

	page, err := engine.SearchProducts(context.Background(), Query{Text: "sunset"})
	require.NoError(t, err)

	require.Len(t, page.Products, 2)
	assert.Equal(t, "p009", page.Products[0].ID)
	assert.Equal(t, "p006", page.Products[1].ID)
	assert.True(t, page.HasMore)

	rest, err := engine.SearchProducts(context.Background(), Query{Text: "sunset", Cursor: page.NextCursor})
	require.NoError(t, err)
	require.Len(t, rest.Products, 1)
	assert.Equal(t, "p003", rest.Products[0].ID)
	assert.False(t, rest.HasMore)
}

func TestEngine_Filters(t *testing.T) {
	pottery := newProduct(1, "Bowl")
	pottery.Category = domain.CategoryPottery
	pottery.Medium = domain.MediumCeramic

	tagged := newProduct(2, "Untitled")
	tagged.Tags = []string{"Desert", "night"}

	arabic := newProduct(3, "Untitled")
	arabic.Description = domain.TranslatedText{AR: "غروب الشمس فوق البتراء"}

	expensive := newProduct(4, "Large canvas") // price 40

	repo := seedProducts(t, pottery, tagged, arabic, expensive)
	engine := NewEngine(repo.store, EngineConfig{}, nil)
	ctx := context.Background()

	ids := func(q Query) []string {
		page, err := engine.SearchProducts(ctx, q)
		require.NoError(t, err)
		out := []string{}
		for _, p := range page.Products {
			out = append(out, p.ID)
		}
		return out
	}

	assert.Equal(t, []string{"p002"}, ids(Query{Text: "DESERT"}), "tags match case-insensitively")
	assert.Equal(t, []string{"p003"}, ids(Query{Text: "البتراء"}), "arabic description matches")
	assert.Equal(t, []string{"p001"}, ids(Query{Categories: []domain.Category{domain.CategoryPottery}}))
	assert.Equal(t, []string{"p001"}, ids(Query{Mediums: []domain.Medium{domain.MediumCeramic, domain.MediumGlass}}))
	assert.Equal(t, []string{"p004", "p003"}, ids(Query{Price: &PriceRange{Min: decimalPtr(30), Max: decimalPtr(40)}}), "bounds are inclusive")
	assert.Equal(t, []string{"p002", "p001"}, ids(Query{Price: &PriceRange{Max: decimalPtr(20)}}))
	assert.Len(t, ids(Query{}), 4)
}

func TestEngine_SearchArtistsIgnoresProductFilters(t *testing.T) {
	store := docstore.NewMemory()
	repo := NewRepository(store)
	ctx := context.Background()

	require.NoError(t, repo.PutArtist(ctx, domain.Artist{
		ID: "a1", Name: domain.TranslatedText{EN: "Omar Nasser"}, Tags: []string{"calligraphy"}, DateAdded: epoch,
	}))
	require.NoError(t, repo.PutArtist(ctx, domain.Artist{
		ID: "a2", Name: domain.TranslatedText{EN: "Haya"}, Bio: domain.TranslatedText{AR: "خزافة"}, DateAdded: epoch.Add(time.Hour),
	}))

	engine := NewEngine(store, EngineConfig{}, nil)

	page, err := engine.SearchArtists(ctx, Query{Text: "calli", Mediums: []domain.Medium{domain.MediumOil}})
	require.NoError(t, err)
	require.Len(t, page.Artists, 1)
	assert.Equal(t, "a1", page.Artists[0].ID)
	assert.False(t, page.HasMore)

	page, err = engine.SearchArtists(ctx, Query{})
	require.NoError(t, err)
	require.Len(t, page.Artists, 2)
	assert.Equal(t, "a2", page.Artists[0].ID, "newest first")
}

func TestEngine_InvalidCursor(t *testing.T) {
	engine := NewEngine(docstore.NewMemory(), EngineConfig{}, nil)

	_, err := engine.SearchProducts(context.Background(), Query{Cursor: "garbage!"})
	assert.True(t, domain.IsCode(err, domain.EINVALID))
}
