// Package visitor keeps per-visitor in-process state (carts, checkout
// sessions, search browsers) and evicts it when the visitor goes idle.
package visitor

import (
	"context"
	"sync"
	"time"
)

// Factory builds the value for a visitor key on first use.
type Factory[T any] func(ctx context.Context, key string) (T, error)

type entry[T any] struct {
	value    T
	lastUsed time.Time
}

// Registry maps visitor keys to values of T.
type Registry[T any] struct {
	factory Factory[T]
	now     func() time.Time

	mu      sync.Mutex
	entries map[string]*entry[T]
}

// NewRegistry creates a Registry. factory may be nil when values are only
// added with Put.
func NewRegistry[T any](factory Factory[T]) *Registry[T] {
	return &Registry[T]{
		factory: factory,
		now:     time.Now,
		entries: make(map[string]*entry[T]),
	}
}

// Get returns the value for key, building it with the factory if absent.
func (r *Registry[T]) Get(ctx context.Context, key string) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[key]; ok {
		e.lastUsed = r.now()
		return e.value, nil
	}

	var zero T
	if r.factory == nil {
		return zero, nil
	}
	v, err := r.factory(ctx, key)
	if err != nil {
		return zero, err
	}
	r.entries[key] = &entry[T]{value: v, lastUsed: r.now()}
	return v, nil
}

// Peek returns the value for key without building one.
func (r *Registry[T]) Peek(key string) (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[key]
	if !ok {
		var zero T
		return zero, false
	}
	e.lastUsed = r.now()
	return e.value, true
}

// Put stores v under key, replacing any previous value.
func (r *Registry[T]) Put(key string, v T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[key] = &entry[T]{value: v, lastUsed: r.now()}
}

// Remove drops key.
func (r *Registry[T]) Remove(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, key)
}

// Sweep drops entries unused for longer than idle and returns how many went.
func (r *Registry[T]) Sweep(idle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-idle)
	removed := 0
	for key, e := range r.entries {
		if e.lastUsed.Before(cutoff) {
			delete(r.entries, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of live entries.
func (r *Registry[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
