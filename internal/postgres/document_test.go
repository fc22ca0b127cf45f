package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/law7a/internal/docstore"
)

func TestBuildQuery_FirstPage(t *testing.T) {
	sql, args, err := buildQuery("products", docstore.Query{
		OrderBy: "dateAdded",
		Desc:    true,
		Limit:   12,
	})
	require.NoError(t, err)

	assert.Contains(t, sql, "WHERE collection = $1")
	assert.Contains(t, sql, `COALESCE(data->>$2, '') COLLATE "C"`)
	assert.Contains(t, sql, `ORDER BY sort_value DESC, id COLLATE "C" DESC`)
	assert.Contains(t, sql, "LIMIT $3")
	assert.NotContains(t, sql, "@>")
	assert.Equal(t, []any{"products", "dateAdded", 12}, args)
}

func TestBuildQuery_CursorAndFilters(t *testing.T) {
	cursor := docstore.EncodeCursor("2024-03-01T00:00:00Z", "p9")

	sql, args, err := buildQuery("products", docstore.Query{
		Filters: []docstore.Filter{{Field: "artistId", Value: "a1"}},
		OrderBy: "dateAdded",
		Desc:    true,
		Cursor:  cursor,
		Limit:   5,
	})
	require.NoError(t, err)

	assert.Contains(t, sql, "data @> $3::jsonb")
	assert.Contains(t, sql, `id COLLATE "C") < ($4, $5)`)
	assert.Contains(t, sql, "LIMIT $6")
	require.Len(t, args, 6)
	assert.Equal(t, `{"artistId":"a1"}`, args[2])
	assert.Equal(t, "2024-03-01T00:00:00Z", args[3])
	assert.Equal(t, "p9", args[4])
}

func TestBuildQuery_Ascending(t *testing.T) {
	cursor := docstore.EncodeCursor("b", "id-b")
	sql, _, err := buildQuery("artists", docstore.Query{OrderBy: "name", Cursor: cursor})
	require.NoError(t, err)

	assert.Contains(t, sql, `) > ($3, $4)`)
	assert.Contains(t, sql, "ORDER BY sort_value ASC")
	assert.NotContains(t, sql, "LIMIT")
}

func TestBuildQuery_InvalidCursor(t *testing.T) {
	_, _, err := buildQuery("products", docstore.Query{Cursor: "not base64!"})
	assert.ErrorIs(t, err, docstore.ErrInvalidCursor)
}
