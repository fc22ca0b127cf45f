package domain

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// CART DOMAIN TYPES
// =============================================================================

var (
	ErrInvalidQuantity = &Error{Code: EINVALID, Message: "Quantity must be greater than 0"}
	ErrCartEmpty       = &Error{Code: EINVALID, Message: "Cart is empty"}
)

// CartItem is one line of a cart. Product is a snapshot taken when the item was
// first added.
type CartItem struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Product   Product `json:"product"`
}

// LineTotal returns price × quantity for the line.
func (i CartItem) LineTotal() decimal.Decimal {
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// CartSummary is a point-in-time copy of a cart with its derived totals.
type CartSummary struct {
	Items []CartItem      `json:"items"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

// SummarizeItems derives total and count from items. Every cart total in the
// application is computed here.
func SummarizeItems(items []CartItem) CartSummary {
	total := decimal.Zero
	count := 0
	for _, item := range items {
		total = total.Add(item.LineTotal())
		count += item.Quantity
	}

	copied := make([]CartItem, len(items))
	copy(copied, items)

	return CartSummary{Items: copied, Total: total, Count: count}
}

// Currency returns the currency of the first item, defaulting to JOD.
func (s CartSummary) Currency() Currency {
	if len(s.Items) == 0 || s.Items[0].Product.Currency == "" {
		return CurrencyJOD
	}
	return s.Items[0].Product.Currency
}
