// Package docstore defines the document-store contract the catalog and identity
// packages are written against, plus an in-memory implementation.
//
// Documents are JSON objects grouped into collections and addressed by ID.
// Queries filter on top-level field equality, order by one top-level field and
// page forward with an opaque cursor pointing at the last document returned.
package docstore

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get when the document does not exist.
var ErrNotFound = errors.New("docstore: document not found")

// ErrInvalidCursor is returned by Query when the cursor cannot be decoded.
var ErrInvalidCursor = errors.New("docstore: invalid cursor")

// Filter matches documents whose top-level Field equals Value.
type Filter struct {
	Field string
	Value any
}

// Query describes one page of a collection.
type Query struct {
	Filters []Filter
	// OrderBy is a top-level field compared as text. Empty orders by ID.
	OrderBy string
	Desc    bool
	// Cursor continues after the document it was taken from. Empty starts at the top.
	Cursor string
	// Limit caps the page size. Zero means no limit.
	Limit int
}

// Document is one stored JSON object.
type Document struct {
	ID   string
	Data json.RawMessage
}

// Decode unmarshals the document body into v.
func (d Document) Decode(v any) error {
	return json.Unmarshal(d.Data, v)
}

// Page is the result of a Query. Cursor points at the last document in Docs and is
// empty when Docs is empty.
type Page struct {
	Docs   []Document
	Cursor string
}

// Store is implemented by every document backend.
type Store interface {
	Get(ctx context.Context, collection, id string) (Document, error)
	Query(ctx context.Context, collection string, q Query) (Page, error)
	Put(ctx context.Context, collection, id string, doc any) error
	Delete(ctx context.Context, collection, id string) error
}

// cursor is the decoded form of Page.Cursor: the sort value and ID of the last
// document of the previous page.
type cursor struct {
	Value string `json:"v"`
	ID    string `json:"id"`
}

// EncodeCursor builds an opaque cursor from a sort value and document ID.
func EncodeCursor(sortValue, id string) string {
	b, _ := json.Marshal(cursor{Value: sortValue, ID: id})
	return base64.RawURLEncoding.EncodeToString(b)
}

// DecodeCursor reverses EncodeCursor.
func DecodeCursor(s string) (sortValue, id string, err error) {
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}
	var c cursor
	if err := json.Unmarshal(raw, &c); err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}
	return c.Value, c.ID, nil
}

// FieldText returns the text form of a top-level field, matching PostgreSQL's
// data->>'field' operator: strings verbatim, other values as JSON, missing or
// null as "".
func FieldText(data json.RawMessage, field string) string {
	if field == "" {
		return ""
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return ""
	}
	raw, ok := obj[field]
	if !ok || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// Marshal encodes doc as a JSON object. json.RawMessage and []byte values are
// passed through unchanged.
func Marshal(doc any) (json.RawMessage, error) {
	switch v := doc.(type) {
	case json.RawMessage:
		return v, nil
	case []byte:
		return json.RawMessage(v), nil
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("docstore: marshal document: %w", err)
	}
	return b, nil
}
