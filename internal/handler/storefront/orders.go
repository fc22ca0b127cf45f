package storefront

import (
	"context"
	"net/http"

	"github.com/dukerupert/law7a/internal/domain"
	"github.com/dukerupert/law7a/internal/handler"
)

// OrderLister reads an owner's order history.
type OrderLister interface {
	List(ctx context.Context, owner string) ([]domain.Order, error)
	Get(ctx context.Context, owner, number string) (domain.Order, error)
}

// OrderHandler serves the order history of the signed-in user or visitor.
type OrderHandler struct {
	orders OrderLister
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orders OrderLister) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// List handles GET /api/orders, newest first.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	key, err := owner(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	orders, err := h.orders.List(r.Context(), key)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	lang := language(r)
	views := make([]OrderView, 0, len(orders))
	for i := len(orders) - 1; i >= 0; i-- {
		views = append(views, newOrderView(orders[i], lang))
	}
	handler.WriteJSON(w, http.StatusOK, map[string]any{"orders": views})
}

// Get handles GET /api/orders/{id}
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	key, err := owner(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	order, err := h.orders.Get(r.Context(), key, r.PathValue("id"))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, newOrderView(order, language(r)))
}
