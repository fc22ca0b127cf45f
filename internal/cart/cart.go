// Package cart holds a visitor's shopping cart and persists it to a KV slot
// after every change.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/dukerupert/law7a/internal/domain"
	"github.com/dukerupert/law7a/internal/kv"
	"github.com/dukerupert/law7a/internal/telemetry"
)

// ProductResolver looks up the product snapshot stored with a cart line.
type ProductResolver interface {
	GetProductByID(ctx context.Context, id string) (domain.Product, error)
}

// ErrProductUnavailable is returned when an added product cannot be resolved.
var ErrProductUnavailable = &domain.Error{Code: domain.ENOTFOUND, Message: "Product is not available"}

// Store is one visitor's cart. Methods are safe for concurrent use; each
// mutation is written to the slot before it becomes visible.
type Store struct {
	slot     string
	kv       kv.Store
	products ProductResolver
	logger   *slog.Logger
	metrics  *telemetry.BusinessMetrics

	mu    sync.Mutex
	items []domain.CartItem
}

// Options configures a Store.
type Options struct {
	Logger  *slog.Logger
	Metrics *telemetry.BusinessMetrics
}

// SlotKey returns the KV slot of a visitor's cart.
func SlotKey(session string) (string, error) {
	return kv.Key("cart", session)
}

// Load creates a Store for session and reads its persisted items. A missing
// or unreadable slot yields an empty cart.
func Load(ctx context.Context, session string, store kv.Store, products ProductResolver, opts Options) (*Store, error) {
	slot, err := SlotKey(session)
	if err != nil {
		return nil, domain.Invalid("cart.Load", "invalid session")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Store{
		slot:     slot,
		kv:       store,
		products: products,
		logger:   logger.With("cart", slot),
		metrics:  opts.Metrics,
	}
	s.items = s.load(ctx)
	return s, nil
}

func (s *Store) load(ctx context.Context) []domain.CartItem {
	data, err := s.kv.Get(ctx, s.slot)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			s.logger.Warn("failed to read cart, starting empty", "error", err)
			s.metrics.RecordCartLoadFailed()
		}
		return nil
	}

	var items []domain.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		s.logger.Warn("failed to parse cart, starting empty", "error", err)
		s.metrics.RecordCartLoadFailed()
		return nil
	}

	// Drop lines a hand-edited or older slot may carry.
	valid := items[:0]
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if item.ProductID == "" || item.Quantity < 1 || seen[item.ProductID] {
			continue
		}
		seen[item.ProductID] = true
		valid = append(valid, item)
	}
	return valid
}

// AddToCart adds quantity units of a product. The product is resolved on every
// add, so an add for a product that has gone away fails without changing the
// cart. An existing line is incremented and keeps the snapshot taken when it
// was first added; a new line is appended with a fresh snapshot.
func (s *Store) AddToCart(ctx context.Context, productID string, quantity int) (domain.CartSummary, error) {
	const op = "cart.AddToCart"

	if quantity < 1 {
		return s.Summary(), domain.WithOp(domain.ErrInvalidQuantity, op, nil)
	}

	product, err := s.products.GetProductByID(ctx, productID)
	if err != nil {
		s.logger.Debug("add to cart: product not resolved", "product_id", productID, "error", err)
		return s.Summary(), domain.WithOp(ErrProductUnavailable, op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := cloneItems(s.items)
	if idx := indexOf(next, productID); idx >= 0 {
		next[idx].Quantity += quantity
	} else {
		next = append(next, domain.CartItem{ProductID: productID, Quantity: quantity, Product: product})
	}
	category := product.Category

	if err := s.commitLocked(ctx, op, next); err != nil {
		return domain.SummarizeItems(s.items), err
	}
	s.metrics.RecordAddToCart(string(category))
	return domain.SummarizeItems(s.items), nil
}

// RemoveFromCart drops the line for productID. Removing an absent product
// is a no-op.
func (s *Store) RemoveFromCart(ctx context.Context, productID string) (domain.CartSummary, error) {
	const op = "cart.RemoveFromCart"

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := indexOf(s.items, productID)
	if idx < 0 {
		return domain.SummarizeItems(s.items), nil
	}

	next := make([]domain.CartItem, 0, len(s.items)-1)
	next = append(next, s.items[:idx]...)
	next = append(next, s.items[idx+1:]...)

	if err := s.commitLocked(ctx, op, next); err != nil {
		return domain.SummarizeItems(s.items), err
	}
	s.metrics.RecordRemoveFromCart()
	return domain.SummarizeItems(s.items), nil
}

// UpdateQuantity sets the absolute quantity of a line. Zero or less removes it.
// Updating an absent product is a no-op.
func (s *Store) UpdateQuantity(ctx context.Context, productID string, quantity int) (domain.CartSummary, error) {
	const op = "cart.UpdateQuantity"

	if quantity <= 0 {
		return s.RemoveFromCart(ctx, productID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := indexOf(s.items, productID)
	if idx < 0 || s.items[idx].Quantity == quantity {
		return domain.SummarizeItems(s.items), nil
	}

	next := cloneItems(s.items)
	next[idx].Quantity = quantity

	if err := s.commitLocked(ctx, op, next); err != nil {
		return domain.SummarizeItems(s.items), err
	}
	return domain.SummarizeItems(s.items), nil
}

// Clear empties the cart and deletes its slot.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commitLocked(ctx, "cart.Clear", nil)
}

// Summary returns a copy of the items with total and count.
func (s *Store) Summary() domain.CartSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.SummarizeItems(s.items)
}

// IsEmpty reports whether the cart has no lines.
func (s *Store) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items) == 0
}

// commitLocked writes next to the slot and, on success, makes it current.
// An empty list deletes the slot.
func (s *Store) commitLocked(ctx context.Context, op string, next []domain.CartItem) error {
	if len(next) == 0 {
		if err := s.kv.Delete(ctx, s.slot); err != nil {
			s.logger.Error("failed to delete cart slot", "op", op, "error", err)
			return domain.Internal(err, op, "failed to save cart")
		}
		s.items = nil
		return nil
	}

	data, err := json.Marshal(next)
	if err != nil {
		return domain.Internal(err, op, "failed to encode cart")
	}
	if err := s.kv.Put(ctx, s.slot, data); err != nil {
		s.logger.Error("failed to write cart slot", "op", op, "error", err)
		return domain.Internal(err, op, "failed to save cart")
	}
	s.items = next
	return nil
}

func indexOf(items []domain.CartItem, productID string) int {
	for i := range items {
		if items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func cloneItems(items []domain.CartItem) []domain.CartItem {
	if len(items) == 0 {
		return nil
	}
	out := make([]domain.CartItem, len(items))
	copy(out, items)
	return out
}
