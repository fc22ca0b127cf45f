package storefront

import (
	"context"
	"net/http"

	"github.com/dukerupert/law7a/internal/cart"
	"github.com/dukerupert/law7a/internal/handler"
)

// CartProvider hands out the cart of a visitor session.
type CartProvider interface {
	ForSession(ctx context.Context, session string) (*cart.Store, error)
}

// CartHandler handles all cart-related storefront routes
type CartHandler struct {
	carts CartProvider
}

// NewCartHandler creates a new cart handler
func NewCartHandler(carts CartProvider) *CartHandler {
	return &CartHandler{carts: carts}
}

type addItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  *int   `json:"quantity"`
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

// View handles GET /api/cart
func (h *CartHandler) View(w http.ResponseWriter, r *http.Request) {
	store, err := h.cart(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, newCartView(store.Summary(), language(r)))
}

// Add handles POST /api/cart/items
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	store, err := h.cart(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	summary, err := store.AddToCart(r.Context(), req.ProductID, quantity)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, newCartView(summary, language(r)))
}

// Update handles PUT /api/cart/items/{id}. A quantity of zero removes the line.
func (h *CartHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateItemRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	store, err := h.cart(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	summary, err := store.UpdateQuantity(r.Context(), r.PathValue("id"), req.Quantity)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, newCartView(summary, language(r)))
}

// Remove handles DELETE /api/cart/items/{id}
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	store, err := h.cart(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	summary, err := store.RemoveFromCart(r.Context(), r.PathValue("id"))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, newCartView(summary, language(r)))
}

// Clear handles DELETE /api/cart
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	store, err := h.cart(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if err := store.Clear(r.Context()); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, newCartView(store.Summary(), language(r)))
}

func (h *CartHandler) cart(r *http.Request) (*cart.Store, error) {
	key, err := visitorKey(r)
	if err != nil {
		return nil, err
	}
	return h.carts.ForSession(r.Context(), key)
}
