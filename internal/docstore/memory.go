package docstore

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"
	"sync"
)

// Memory is an in-process Store used by tests and the demo server.
type Memory struct {
	mu          sync.RWMutex
	collections map[string]map[string]json.RawMessage
}

// Compile-time check to ensure Memory implements Store.
var _ Store = (*Memory)(nil)

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{collections: make(map[string]map[string]json.RawMessage)}
}

func (m *Memory) Get(ctx context.Context, collection, id string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.collections[collection][id]
	if !ok {
		return Document{}, ErrNotFound
	}
	return Document{ID: id, Data: append(json.RawMessage(nil), data...)}, nil
}

func (m *Memory) Put(ctx context.Context, collection, id string, doc any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := Marshal(doc)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	coll, ok := m.collections[collection]
	if !ok {
		coll = make(map[string]json.RawMessage)
		m.collections[collection] = coll
	}
	coll[id] = append(json.RawMessage(nil), data...)
	return nil
}

func (m *Memory) Delete(ctx context.Context, collection, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.collections[collection], id)
	return nil
}

func (m *Memory) Query(ctx context.Context, collection string, q Query) (Page, error) {
	if err := ctx.Err(); err != nil {
		return Page{}, err
	}

	var afterValue, afterID string
	hasCursor := q.Cursor != ""
	if hasCursor {
		var err error
		afterValue, afterID, err = DecodeCursor(q.Cursor)
		if err != nil {
			return Page{}, err
		}
	}

	filters, err := normalizeFilters(q.Filters)
	if err != nil {
		return Page{}, err
	}

	type row struct {
		doc  Document
		sort string
	}

	m.mu.RLock()
	rows := make([]row, 0, len(m.collections[collection]))
	for id, data := range m.collections[collection] {
		if !matches(data, filters) {
			continue
		}
		rows = append(rows, row{
			doc:  Document{ID: id, Data: append(json.RawMessage(nil), data...)},
			sort: FieldText(data, q.OrderBy),
		})
	}
	m.mu.RUnlock()

	// less orders ascending by (sort value, id).
	less := func(av, aid, bv, bid string) bool {
		if av != bv {
			return av < bv
		}
		return aid < bid
	}

	sort.Slice(rows, func(i, j int) bool {
		if q.Desc {
			return less(rows[j].sort, rows[j].doc.ID, rows[i].sort, rows[i].doc.ID)
		}
		return less(rows[i].sort, rows[i].doc.ID, rows[j].sort, rows[j].doc.ID)
	})

	var page Page
	for _, r := range rows {
		if hasCursor {
			after := less(afterValue, afterID, r.sort, r.doc.ID)
			if q.Desc {
				after = less(r.sort, r.doc.ID, afterValue, afterID)
			}
			if !after {
				continue
			}
		}
		page.Docs = append(page.Docs, r.doc)
		if q.Limit > 0 && len(page.Docs) == q.Limit {
			break
		}
	}

	if n := len(page.Docs); n > 0 {
		last := page.Docs[n-1]
		page.Cursor = EncodeCursor(FieldText(last.Data, q.OrderBy), last.ID)
	}
	return page, nil
}

type normalizedFilter struct {
	field string
	value []byte
}

// normalizeFilters round-trips filter values through JSON so that, for
// example, an int filter matches a stored float.
func normalizeFilters(filters []Filter) ([]normalizedFilter, error) {
	out := make([]normalizedFilter, 0, len(filters))
	for _, f := range filters {
		b, err := canonical(f.Value)
		if err != nil {
			return nil, err
		}
		out = append(out, normalizedFilter{field: f.Field, value: b})
	}
	return out, nil
}

func matches(data json.RawMessage, filters []normalizedFilter) bool {
	if len(filters) == 0 {
		return true
	}
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		return false
	}
	for _, f := range filters {
		v, ok := obj[f.field]
		if !ok {
			return false
		}
		b, err := json.Marshal(v)
		if err != nil || !bytes.Equal(b, f.value) {
			return false
		}
	}
	return true
}

func canonical(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var generic any
	if err := json.Unmarshal(b, &generic); err != nil {
		return nil, err
	}
	return json.Marshal(generic)
}
