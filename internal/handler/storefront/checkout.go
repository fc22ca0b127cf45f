package storefront

import (
	"net/http"

	"github.com/dukerupert/law7a/internal/checkout"
	"github.com/dukerupert/law7a/internal/domain"
	"github.com/dukerupert/law7a/internal/handler"
)

// CheckoutHandler drives the visitor's checkout session.
type CheckoutHandler struct {
	sessions *checkout.Registry
	carts    CartProvider
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(sessions *checkout.Registry, carts CartProvider) *CheckoutHandler {
	return &CheckoutHandler{sessions: sessions, carts: carts}
}

type shippingRequest struct {
	Method string `json:"method"`
}

// Start handles POST /api/checkout. It replaces any unfinished checkout with
// a fresh one over the current cart.
func (h *CheckoutHandler) Start(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	key, err := visitorKey(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	orderOwner, err := owner(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	store, err := h.carts.ForSession(ctx, key)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	session, err := h.sessions.Start(ctx, key, orderOwner, store)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusCreated, newCheckoutView(session.State(), language(r)))
}

// View handles GET /api/checkout
func (h *CheckoutHandler) View(w http.ResponseWriter, r *http.Request) {
	key, err := visitorKey(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	st, err := h.sessions.View(key)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, newCheckoutView(st, language(r)))
}

// Abandon handles DELETE /api/checkout
func (h *CheckoutHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	key, err := visitorKey(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if err := h.sessions.Abandon(key); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetBilling handles PUT /api/checkout/billing
func (h *CheckoutHandler) SetBilling(w http.ResponseWriter, r *http.Request) {
	var info domain.BillingInfo
	if err := handler.DecodeJSON(r, &info); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	session, err := h.session(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	err = session.SetBilling(info)
	h.respond(w, r, session.State(), err)
}

// SetPayment handles PUT /api/checkout/payment
func (h *CheckoutHandler) SetPayment(w http.ResponseWriter, r *http.Request) {
	var info domain.PaymentInfo
	if err := handler.DecodeJSON(r, &info); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	session, err := h.session(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	err = session.SetPayment(info)
	h.respond(w, r, session.State(), err)
}

// SelectShipping handles PUT /api/checkout/shipping
func (h *CheckoutHandler) SelectShipping(w http.ResponseWriter, r *http.Request) {
	var req shippingRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	session, err := h.session(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	st, err := session.SelectShipping(r.Context(), req.Method)
	h.respond(w, r, st, err)
}

// Next handles POST /api/checkout/next
func (h *CheckoutHandler) Next(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	st, err := session.GoToNextStep()
	h.respond(w, r, st, err)
}

// Back handles POST /api/checkout/back
func (h *CheckoutHandler) Back(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	st, err := session.GoToPreviousStep()
	h.respond(w, r, st, err)
}

// Submit handles POST /api/checkout/submit. The request blocks until the
// order is placed or the submission fails.
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	st, err := session.Submit(r.Context())
	h.respond(w, r, st, err)
}

func (h *CheckoutHandler) session(r *http.Request) (*checkout.Session, error) {
	key, err := visitorKey(r)
	if err != nil {
		return nil, err
	}
	return h.sessions.Get(key)
}

// respond writes the checkout view, wrapped in the error envelope when the
// action failed so the client can render the step it is left on.
func (h *CheckoutHandler) respond(w http.ResponseWriter, r *http.Request, st checkout.State, err error) {
	view := newCheckoutView(st, language(r))
	if err != nil {
		handler.ErrorResponseWith(w, r, err, map[string]any{"checkout": view})
		return
	}
	handler.WriteJSON(w, http.StatusOK, view)
}
