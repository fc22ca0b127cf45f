package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/dukerupert/law7a/internal/domain"
	"github.com/dukerupert/law7a/internal/kv"
)

// OrderNumberPrefix starts every order number.
const OrderNumberPrefix = "LAW7A-"

const maxNumberAttempts = 20

// ErrOrderNumbersExhausted is returned when no unused order number was drawn.
var ErrOrderNumbersExhausted = errors.New("checkout: could not allocate a unique order number")

// OrderHistory is the append-only list of orders per owner, stored in the
// "orders.<owner>" slot. Order numbers are six digits, 100000 to 999999, and
// each is held under "order.<number>" so numbers stay unique across owners.
type OrderHistory struct {
	kv   kv.Store
	draw func() int

	mu sync.Mutex
}

// NewOrderHistory creates an OrderHistory over store.
func NewOrderHistory(store kv.Store) *OrderHistory {
	return &OrderHistory{
		kv:   store,
		draw: func() int { return 100_000 + rand.IntN(900_000) },
	}
}

func historyKey(owner string) (string, error) {
	return kv.Key("orders", owner)
}

func numberKey(number string) (string, error) {
	return kv.Key("order", number)
}

// List returns the orders of owner, oldest first.
func (h *OrderHistory) List(ctx context.Context, owner string) ([]domain.Order, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.listLocked(ctx, owner)
}

func (h *OrderHistory) listLocked(ctx context.Context, owner string) ([]domain.Order, error) {
	const op = "checkout.OrderHistory.List"

	key, err := historyKey(owner)
	if err != nil {
		return nil, domain.Invalid(op, "invalid order owner")
	}
	data, err := h.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, nil
		}
		return nil, domain.Internal(err, op, "failed to read order history")
	}

	var orders []domain.Order
	if err := json.Unmarshal(data, &orders); err != nil {
		return nil, domain.Internal(err, op, "failed to decode order history")
	}
	return orders, nil
}

// Get returns one order of owner by number.
func (h *OrderHistory) Get(ctx context.Context, owner, number string) (domain.Order, error) {
	orders, err := h.List(ctx, owner)
	if err != nil {
		return domain.Order{}, err
	}
	for _, o := range orders {
		if o.ID == number {
			return o, nil
		}
	}
	return domain.Order{}, domain.WithOp(domain.ErrOrderNotFound, "checkout.OrderHistory.Get", nil)
}

// numberRef is stored under "order.<number>". Pending is set from Reserve
// until the order is appended.
type numberRef struct {
	Owner   string `json:"owner"`
	Pending bool   `json:"pending,omitempty"`
}

// Reserve draws an order number no other order holds and reserves it for
// owner in the same locked step, so concurrent submissions never share a
// number. The reservation is confirmed by Append or dropped by Release.
func (h *OrderHistory) Reserve(ctx context.Context, owner string) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ref, err := json.Marshal(numberRef{Owner: owner, Pending: true})
	if err != nil {
		return "", fmt.Errorf("encode order reference: %w", err)
	}

	for i := 0; i < maxNumberAttempts; i++ {
		number := fmt.Sprintf("%s%d", OrderNumberPrefix, h.draw())
		key, err := numberKey(number)
		if err != nil {
			return "", err
		}
		_, err = h.kv.Get(ctx, key)
		switch {
		case errors.Is(err, kv.ErrNotFound):
			if err := h.kv.Put(ctx, key, ref); err != nil {
				return "", fmt.Errorf("reserve order number: %w", err)
			}
			return number, nil
		case err != nil:
			return "", fmt.Errorf("check order number: %w", err)
		}
	}
	return "", ErrOrderNumbersExhausted
}

// Release drops a pending reservation held by owner. Confirmed numbers and
// numbers held by someone else are left alone.
func (h *OrderHistory) Release(ctx context.Context, owner, number string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	key, err := numberKey(number)
	if err != nil {
		return err
	}
	ref, err := h.refLocked(ctx, key)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil
		}
		return err
	}
	if !ref.Pending || ref.Owner != owner {
		return nil
	}
	return h.kv.Delete(ctx, key)
}

func (h *OrderHistory) refLocked(ctx context.Context, key string) (numberRef, error) {
	data, err := h.kv.Get(ctx, key)
	if err != nil {
		return numberRef{}, err
	}
	var ref numberRef
	if err := json.Unmarshal(data, &ref); err != nil {
		return numberRef{}, fmt.Errorf("decode order reference: %w", err)
	}
	return ref, nil
}

// ErrNumberNotReserved is returned by Append for an order whose number is not
// reserved for its owner.
var ErrNumberNotReserved = errors.New("checkout: order number not reserved for this owner")

// Append adds the order to its owner's history and confirms its number. The
// number must have been reserved for the same owner.
func (h *OrderHistory) Append(ctx context.Context, order domain.Order) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	key, err := historyKey(order.Owner)
	if err != nil {
		return fmt.Errorf("order owner %q: %w", order.Owner, err)
	}
	nkey, err := numberKey(order.ID)
	if err != nil {
		return fmt.Errorf("order number %q: %w", order.ID, err)
	}

	ref, err := h.refLocked(ctx, nkey)
	switch {
	case errors.Is(err, kv.ErrNotFound):
		return fmt.Errorf("order %s: %w", order.ID, ErrNumberNotReserved)
	case err != nil:
		return fmt.Errorf("check order number: %w", err)
	case !ref.Pending || ref.Owner != order.Owner:
		return fmt.Errorf("order %s: %w", order.ID, ErrNumberNotReserved)
	}

	orders, err := h.listLocked(ctx, order.Owner)
	if err != nil {
		return err
	}
	orders = append(orders, order)

	data, err := json.Marshal(orders)
	if err != nil {
		return fmt.Errorf("encode order history: %w", err)
	}
	confirmed, err := json.Marshal(numberRef{Owner: order.Owner})
	if err != nil {
		return fmt.Errorf("encode order reference: %w", err)
	}

	if err := h.kv.Put(ctx, key, data); err != nil {
		return fmt.Errorf("write order history: %w", err)
	}
	// The order is recorded. A failed confirmation leaves the number pending,
	// which still keeps it out of circulation.
	_ = h.kv.Put(context.WithoutCancel(ctx), nkey, confirmed)
	return nil
}
