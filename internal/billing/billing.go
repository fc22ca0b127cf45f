// Package billing authorizes card payments for checkout.
package billing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dukerupert/law7a/internal/domain"
)

// Authorizer defines the interface for payment authorization.
// The storefront ships with a simulated implementation; a gateway-backed
// one plugs in here.
type Authorizer interface {
	// Authorize approves or declines a charge.
	// A decline is reported as a *DeclineError; any other error means the
	// outcome is unknown.
	Authorize(ctx context.Context, params AuthorizeParams) (*Authorization, error)
}

// AuthorizeParams contains parameters for authorizing a card charge.
type AuthorizeParams struct {
	// Amount is the order total including shipping.
	Amount   decimal.Decimal
	Currency domain.Currency

	// Card is the validated card form. Implementations must not store it.
	Card domain.PaymentInfo

	// Reference identifies the checkout session for logs and idempotency.
	Reference string

	// Email of the buyer, from the billing step.
	Email string
}

// Authorization is an approved charge.
type Authorization struct {
	ID           string
	Amount       decimal.Decimal
	Currency     domain.Currency
	Last4        string
	AuthorizedAt time.Time
}
