package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderShipping records how and where an order ships.
type OrderShipping struct {
	Method  string          `json:"method"`
	Cost    decimal.Decimal `json:"cost"`
	Address BillingInfo     `json:"address"`
}

// OrderPayment summarizes the payment without card details.
type OrderPayment struct {
	Method string `json:"method"`
	Last4  string `json:"last4"`
}

// PaymentMethodCard is the only payment method the storefront accepts.
const PaymentMethodCard = "credit_card"

// Order is the immutable record produced by a successful checkout.
type Order struct {
	ID        string          `json:"id"`
	CreatedAt time.Time       `json:"date"`
	Items     []CartItem      `json:"items"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Total     decimal.Decimal `json:"total"`
	Currency  Currency        `json:"currency"`
	Shipping  OrderShipping   `json:"shipping"`
	Payment   OrderPayment    `json:"payment"`
	// Owner is the visitor or account the order history slot belongs to.
	Owner string `json:"owner,omitempty"`
}

var ErrOrderNotFound = &Error{Code: ENOTFOUND, Message: "Order not found"}
