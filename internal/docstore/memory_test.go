package docstore

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testDoc struct {
	ID        string `json:"id"`
	ArtistID  string `json:"artistId"`
	DateAdded string `json:"dateAdded"`
	Featured  bool   `json:"featured"`
}

func seed(t *testing.T, m *Memory, n int) {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("p%02d", i)
		doc := testDoc{
			ID:        id,
			ArtistID:  fmt.Sprintf("a%d", i%2),
			DateAdded: fmt.Sprintf("2024-01-%02dT00:00:00Z", i+1),
			Featured:  i%3 == 0,
		}
		require.NoError(t, m.Put(ctx, "products", id, doc))
	}
}

func TestMemory_GetPutDelete(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, err := m.Get(ctx, "products", "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, m.Put(ctx, "products", "p1", testDoc{ID: "p1", ArtistID: "a1"}))

	doc, err := m.Get(ctx, "products", "p1")
	require.NoError(t, err)

	var got testDoc
	require.NoError(t, doc.Decode(&got))
	assert.Equal(t, "a1", got.ArtistID)

	require.NoError(t, m.Delete(ctx, "products", "p1"))
	_, err = m.Get(ctx, "products", "p1")
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting twice is not an error.
	assert.NoError(t, m.Delete(ctx, "products", "p1"))
}

func TestMemory_QueryOrdersAndPages(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	seed(t, m, 5)

	q := Query{OrderBy: "dateAdded", Desc: true, Limit: 2}

	page, err := m.Query(ctx, "products", q)
	require.NoError(t, err)
	require.Len(t, page.Docs, 2)
	assert.Equal(t, "p04", page.Docs[0].ID)
	assert.Equal(t, "p03", page.Docs[1].ID)
	assert.NotEmpty(t, page.Cursor)

	q.Cursor = page.Cursor
	page, err = m.Query(ctx, "products", q)
	require.NoError(t, err)
	require.Len(t, page.Docs, 2)
	assert.Equal(t, "p02", page.Docs[0].ID)
	assert.Equal(t, "p01", page.Docs[1].ID)

	q.Cursor = page.Cursor
	page, err = m.Query(ctx, "products", q)
	require.NoError(t, err)
	require.Len(t, page.Docs, 1)
	assert.Equal(t, "p00", page.Docs[0].ID)

	q.Cursor = page.Cursor
	page, err = m.Query(ctx, "products", q)
	require.NoError(t, err)
	assert.Empty(t, page.Docs)
	assert.Empty(t, page.Cursor)
}

func TestMemory_QueryAscending(t *testing.T) {
	m := NewMemory()
	seed(t, m, 3)

	page, err := m.Query(context.Background(), "products", Query{OrderBy: "dateAdded"})
	require.NoError(t, err)
	require.Len(t, page.Docs, 3)
	assert.Equal(t, "p00", page.Docs[0].ID)
	assert.Equal(t, "p02", page.Docs[2].ID)
}

func TestMemory_QueryFilters(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	seed(t, m, 6)

	page, err := m.Query(ctx, "products", Query{
		Filters: []Filter{{Field: "artistId", Value: "a1"}},
		OrderBy: "dateAdded",
	})
	require.NoError(t, err)
	require.Len(t, page.Docs, 3)
	for _, d := range page.Docs {
		var got testDoc
		require.NoError(t, d.Decode(&got))
		assert.Equal(t, "a1", got.ArtistID)
	}

	page, err = m.Query(ctx, "products", Query{Filters: []Filter{{Field: "featured", Value: true}}})
	require.NoError(t, err)
	assert.Len(t, page.Docs, 2)
}

func TestMemory_QueryInvalidCursor(t *testing.T) {
	m := NewMemory()
	_, err := m.Query(context.Background(), "products", Query{Cursor: "%%%"})
	assert.ErrorIs(t, err, ErrInvalidCursor)
}

func TestMemory_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := NewMemory()
	_, err := m.Get(ctx, "products", "p1")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCursorRoundTrip(t *testing.T) {
	v, id, err := DecodeCursor(EncodeCursor("2024-01-01T00:00:00Z", "p1"))
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01T00:00:00Z", v)
	assert.Equal(t, "p1", id)
}

func TestFieldText(t *testing.T) {
	data := []byte(`{"s":"text","n":12.5,"b":true,"z":null}`)
	assert.Equal(t, "text", FieldText(data, "s"))
	assert.Equal(t, "12.5", FieldText(data, "n"))
	assert.Equal(t, "true", FieldText(data, "b"))
	assert.Equal(t, "", FieldText(data, "z"))
	assert.Equal(t, "", FieldText(data, "missing"))
}
