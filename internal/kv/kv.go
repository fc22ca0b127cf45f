// Package kv stores small JSON slots (carts, order history) keyed by visitor.
//
// Keys are dot-separated tokens such as "cart.3f2a..." so that every backend,
// including NATS KV which rejects ':' and '/', accepts them unchanged.
package kv

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrNotFound is returned by Get when the slot is absent.
var ErrNotFound = errors.New("kv: key not found")

// ErrInvalidKey is returned for keys outside [A-Za-z0-9_.-] or with empty tokens.
var ErrInvalidKey = errors.New("kv: invalid key")

// Store is implemented by every slot backend.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	// Delete removes the slot. Deleting an absent slot is not an error.
	Delete(ctx context.Context, key string) error
}

var validKey = regexp.MustCompile(`^[A-Za-z0-9_-]+(\.[A-Za-z0-9_-]+)*$`)

// Key joins tokens with '.' and validates the result.
func Key(tokens ...string) (string, error) {
	key := strings.Join(tokens, ".")
	if err := ValidateKey(key); err != nil {
		return "", err
	}
	return key, nil
}

// ValidateKey reports whether key is usable by every backend.
func ValidateKey(key string) error {
	if !validKey.MatchString(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
