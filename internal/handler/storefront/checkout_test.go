package storefront

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/law7a/internal/billing"
	"github.com/dukerupert/law7a/internal/domain"
)

var testBilling = domain.BillingInfo{
	FirstName:  "Lina",
	LastName:   "Haddad",
	Email:      "lina@example.com",
	Phone:      "+962 79 000 0000",
	Address:    "12 Rainbow Street",
	City:       "Amman",
	Country:    "Jordan",
	PostalCode: "11118",
}

var testCard = domain.PaymentInfo{
	CardNumber: "4242 4242 4242 4242",
	CardName:   "Lina Haddad",
	ExpiryDate: "12/30",
	CVV:        "123",
}

// checkoutFlow fills a cart and walks the checkout to the review step.
func checkoutFlow(t *testing.T, env *testEnv, opts ...reqOpt) {
	t.Helper()

	rec := serve(t, env.cart.Add, http.MethodPost, "/api/cart/items", map[string]any{"productId": "product1", "quantity": 2}, opts...)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = serve(t, env.checkout.Start, http.MethodPost, "/api/checkout", nil, opts...)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	steps := []struct {
		h    http.HandlerFunc
		verb string
		path string
		body any
	}{
		{env.checkout.SetBilling, http.MethodPut, "/api/checkout/billing", testBilling},
		{env.checkout.Next, http.MethodPost, "/api/checkout/next", nil},
		{env.checkout.SetPayment, http.MethodPut, "/api/checkout/payment", testCard},
		{env.checkout.Next, http.MethodPost, "/api/checkout/next", nil},
	}
	for _, s := range steps {
		rec := serve(t, s.h, s.verb, s.path, s.body, opts...)
		require.Equal(t, http.StatusOK, rec.Code, s.path+": "+rec.Body.String())
	}
}

func TestCheckoutHandler_PlacesOrder(t *testing.T) {
	env := newTestEnv(t)
	visitor := asVisitor(testVisitor)

	checkoutFlow(t, env, visitor)

	rec := serve(t, env.checkout.SelectShipping, http.MethodPut, "/api/checkout/shipping", map[string]string{"method": "express"}, visitor)
	require.Equal(t, http.StatusOK, rec.Code)
	st := decodeBody[checkoutResponse](t, rec)
	assert.Equal(t, "review", st.Step)
	assert.Equal(t, "715.00", st.Total.Amount)

	rec = serve(t, env.checkout.Submit, http.MethodPost, "/api/checkout/submit", nil, visitor)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	st = decodeBody[checkoutResponse](t, rec)
	assert.Equal(t, "complete", st.Step)
	assert.Equal(t, 5, st.StepNumber)
	require.NotNil(t, st.Order)
	assert.True(t, strings.HasPrefix(st.Order.ID, "LAW7A-"))
	assert.Equal(t, "visitor-"+testVisitor, st.Order.Owner)
	assert.Equal(t, "715.00", st.Order.DisplayTotal.Amount)

	rec = serve(t, env.cart.View, http.MethodGet, "/api/cart", nil, visitor)
	assert.Empty(t, decodeBody[CartView](t, rec).Items, "cart is cleared after the order")

	// The completed session is shown once and then dropped.
	rec = serve(t, env.checkout.View, http.MethodGet, "/api/checkout", nil, visitor)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = serve(t, env.checkout.View, http.MethodGet, "/api/checkout", nil, visitor)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(t, env.order.List, http.MethodGet, "/api/orders", nil, visitor)
	require.Equal(t, http.StatusOK, rec.Code)
	orders := decodeBody[struct {
		Orders []struct {
			ID string `json:"id"`
		} `json:"orders"`
	}](t, rec)
	require.Len(t, orders.Orders, 1)
	assert.Equal(t, st.Order.ID, orders.Orders[0].ID)

	rec = serve(t, withPath(env.order.Get, "id", st.Order.ID), http.MethodGet, "/api/orders/"+st.Order.ID, nil, visitor)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(t, withPath(env.order.Get, "id", st.Order.ID), http.MethodGet, "/api/orders/"+st.Order.ID, nil,
		asVisitor("00000000-0000-4000-8000-000000000000"))
	assert.Equal(t, http.StatusNotFound, rec.Code, "orders are private to their owner")
}

func TestCheckoutHandler_SignedInOwner(t *testing.T) {
	env := newTestEnv(t)
	user := &domain.User{ID: "u-42", Name: "Omar", Email: "omar@example.com"}
	opts := []reqOpt{asVisitor(testVisitor), asUser(user)}

	checkoutFlow(t, env, opts...)
	rec := serve(t, env.checkout.Submit, http.MethodPost, "/api/checkout/submit", nil, opts...)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	orders, err := env.orders.List(context.Background(), "user-u-42")
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestCheckoutHandler_Declined(t *testing.T) {
	env := newTestEnv(t)
	visitor := asVisitor(testVisitor)
	env.authorizer.AuthorizeFunc = func(ctx context.Context, params billing.AuthorizeParams) (*billing.Authorization, error) {
		return nil, &billing.DeclineError{Message: "card declined", DeclineCode: "insufficient_funds"}
	}

	checkoutFlow(t, env, visitor)

	rec := serve(t, env.checkout.Submit, http.MethodPost, "/api/checkout/submit", nil, visitor)
	assert.Equal(t, http.StatusPaymentRequired, rec.Code)
	body := decodeBody[errorEnvelope](t, rec)
	assert.Equal(t, domain.EPAYMENT, body.Error.Code)
	require.NotNil(t, body.Checkout)
	assert.Equal(t, "review", body.Checkout.Step)
	assert.Equal(t, domain.ErrPaymentDeclined.Message, body.Checkout.Error)

	rec = serve(t, env.cart.View, http.MethodGet, "/api/cart", nil, visitor)
	assert.Len(t, decodeBody[CartView](t, rec).Items, 1, "cart survives a failed submission")
}

func TestCheckoutHandler_Validation(t *testing.T) {
	env := newTestEnv(t)
	visitor := asVisitor(testVisitor)

	t.Run("empty cart cannot start", func(t *testing.T) {
		rec := serve(t, env.checkout.Start, http.MethodPost, "/api/checkout", nil, visitor)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	serve(t, env.cart.Add, http.MethodPost, "/api/cart/items", map[string]any{"productId": "product3"}, visitor)
	rec := serve(t, env.checkout.Start, http.MethodPost, "/api/checkout", nil, visitor)
	require.Equal(t, http.StatusCreated, rec.Code)

	t.Run("invalid email keeps the shipping step", func(t *testing.T) {
		info := testBilling
		info.Email = "not-an-email"
		rec := serve(t, env.checkout.SetBilling, http.MethodPut, "/api/checkout/billing", info, visitor)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = serve(t, env.checkout.Next, http.MethodPost, "/api/checkout/next", nil, visitor)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeBody[errorEnvelope](t, rec)
		assert.Contains(t, body.Error.Fields, "email")
		require.NotNil(t, body.Checkout)
		assert.Equal(t, "shipping", body.Checkout.Step)
		assert.NotEmpty(t, body.Checkout.FieldErrors["email"])
	})

	t.Run("unknown shipping method", func(t *testing.T) {
		rec := serve(t, env.checkout.SelectShipping, http.MethodPut, "/api/checkout/shipping", map[string]string{"method": "camel"}, visitor)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("submit before review", func(t *testing.T) {
		rec := serve(t, env.checkout.Submit, http.MethodPost, "/api/checkout/submit", nil, visitor)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("back stops at shipping", func(t *testing.T) {
		rec := serve(t, env.checkout.Back, http.MethodPost, "/api/checkout/back", nil, visitor)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "shipping", decodeBody[checkoutResponse](t, rec).Step)
	})

	t.Run("abandon", func(t *testing.T) {
		rec := serve(t, env.checkout.Abandon, http.MethodDelete, "/api/checkout", nil, visitor)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		rec = serve(t, env.checkout.Next, http.MethodPost, "/api/checkout/next", nil, visitor)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestCheckoutHandler_BadCard(t *testing.T) {
	env := newTestEnv(t)
	visitor := asVisitor(testVisitor)
	checkoutFlow(t, env, visitor)

	card := testCard
	card.CardNumber = "4242"
	rec := serve(t, env.checkout.SetPayment, http.MethodPut, "/api/checkout/payment", card, visitor)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = serve(t, env.checkout.Submit, http.MethodPost, "/api/checkout/submit", nil, visitor)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody[errorEnvelope](t, rec)
	assert.Contains(t, body.Error.Fields, "cardNumber")
	assert.Empty(t, env.authorizer.Calls(), "an invalid card is never sent for authorization")
}
