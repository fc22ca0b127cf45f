package cart

import (
	"context"
	"time"

	"github.com/dukerupert/law7a/internal/kv"
	"github.com/dukerupert/law7a/internal/visitor"
)

// Registry hands out one Store per visitor session, loading it on first use.
type Registry struct {
	stores *visitor.Registry[*Store]
}

// NewRegistry creates a Registry whose stores persist to kvStore.
func NewRegistry(kvStore kv.Store, products ProductResolver, opts Options) *Registry {
	return &Registry{
		stores: visitor.NewRegistry(func(ctx context.Context, session string) (*Store, error) {
			return Load(ctx, session, kvStore, products, opts)
		}),
	}
}

// ForSession returns the cart for a visitor session.
func (r *Registry) ForSession(ctx context.Context, session string) (*Store, error) {
	return r.stores.Get(ctx, session)
}

// Sweep evicts carts idle for longer than idle. Persisted slots are kept, so an
// evicted cart reloads on the visitor's next request.
func (r *Registry) Sweep(idle time.Duration) int {
	return r.stores.Sweep(idle)
}

// Len returns the number of carts held in memory.
func (r *Registry) Len() int {
	return r.stores.Len()
}
