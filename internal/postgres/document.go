package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dukerupert/law7a/internal/docstore"
)

// DBTX is the subset of pgxpool.Pool and pgx.Tx the document store uses.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DocumentStore implements docstore.Store over a single JSONB table.
type DocumentStore struct {
	db DBTX
}

// Compile-time check to ensure DocumentStore implements docstore.Store.
var _ docstore.Store = (*DocumentStore)(nil)

// NewDocumentStore creates a DocumentStore on top of a pool or transaction.
func NewDocumentStore(db DBTX) *DocumentStore {
	return &DocumentStore{db: db}
}

const getDocument = `SELECT data FROM documents WHERE collection = $1 AND id = $2`

func (s *DocumentStore) Get(ctx context.Context, collection, id string) (docstore.Document, error) {
	var data []byte
	err := s.db.QueryRow(ctx, getDocument, collection, id).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return docstore.Document{}, docstore.ErrNotFound
		}
		return docstore.Document{}, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return docstore.Document{ID: id, Data: data}, nil
}

const upsertDocument = `
INSERT INTO documents (collection, id, data)
VALUES ($1, $2, $3)
ON CONFLICT (collection, id)
DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()`

func (s *DocumentStore) Put(ctx context.Context, collection, id string, doc any) error {
	data, err := docstore.Marshal(doc)
	if err != nil {
		return err
	}
	if _, err := s.db.Exec(ctx, upsertDocument, collection, id, []byte(data)); err != nil {
		return fmt.Errorf("put %s/%s: %w", collection, id, err)
	}
	return nil
}

const deleteDocument = `DELETE FROM documents WHERE collection = $1 AND id = $2`

func (s *DocumentStore) Delete(ctx context.Context, collection, id string) error {
	if _, err := s.db.Exec(ctx, deleteDocument, collection, id); err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *DocumentStore) Query(ctx context.Context, collection string, q docstore.Query) (docstore.Page, error) {
	sql, args, err := buildQuery(collection, q)
	if err != nil {
		return docstore.Page{}, err
	}

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return docstore.Page{}, fmt.Errorf("query %s: %w", collection, err)
	}
	defer rows.Close()

	var page docstore.Page
	var lastSort string
	for rows.Next() {
		var (
			id       string
			data     []byte
			sortText string
		)
		if err := rows.Scan(&id, &data, &sortText); err != nil {
			return docstore.Page{}, fmt.Errorf("scan %s: %w", collection, err)
		}
		page.Docs = append(page.Docs, docstore.Document{ID: id, Data: json.RawMessage(data)})
		lastSort = sortText
	}
	if err := rows.Err(); err != nil {
		return docstore.Page{}, fmt.Errorf("query %s: %w", collection, err)
	}

	if n := len(page.Docs); n > 0 {
		page.Cursor = docstore.EncodeCursor(lastSort, page.Docs[n-1].ID)
	}
	return page, nil
}

// buildQuery renders a docstore.Query as SQL. Field names are always bound as
// parameters, never interpolated.
func buildQuery(collection string, q docstore.Query) (string, []any, error) {
	args := []any{collection}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	sortExpr := `''`
	if q.OrderBy != "" {
		sortExpr = fmt.Sprintf(`COALESCE(data->>%s, '')`, arg(q.OrderBy))
	}
	sortExpr += ` COLLATE "C"`

	var b strings.Builder
	fmt.Fprintf(&b, `SELECT id, data, %s AS sort_value FROM documents WHERE collection = $1`, sortExpr)

	if len(q.Filters) > 0 {
		containment := make(map[string]any, len(q.Filters))
		for _, f := range q.Filters {
			containment[f.Field] = f.Value
		}
		raw, err := json.Marshal(containment)
		if err != nil {
			return "", nil, fmt.Errorf("encode filters: %w", err)
		}
		fmt.Fprintf(&b, ` AND data @> %s::jsonb`, arg(string(raw)))
	}

	op := ">"
	dir := "ASC"
	if q.Desc {
		op = "<"
		dir = "DESC"
	}

	if q.Cursor != "" {
		value, id, err := docstore.DecodeCursor(q.Cursor)
		if err != nil {
			return "", nil, err
		}
		fmt.Fprintf(&b, ` AND (%s, id COLLATE "C") %s (%s, %s)`, sortExpr, op, arg(value), arg(id))
	}

	fmt.Fprintf(&b, ` ORDER BY sort_value %s, id COLLATE "C" %s`, dir, dir)

	if q.Limit > 0 {
		fmt.Fprintf(&b, ` LIMIT %s`, arg(q.Limit))
	}

	return b.String(), args, nil
}
