// Package shipping prices the delivery options offered at checkout.
package shipping

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/dukerupert/law7a/internal/domain"
)

// Method codes accepted by checkout.
const (
	MethodStandard = "standard"
	MethodExpress  = "express"
)

// Provider defines the interface for shipping quotes.
// Implementations can integrate with carriers such as Aramex.
type Provider interface {
	// Rates returns every selectable method, cheapest first.
	Rates(ctx context.Context) ([]Rate, error)

	// Quote returns the rate for a method code.
	Quote(ctx context.Context, method string) (Rate, error)
}

// Rate represents a shipping option.
type Rate struct {
	Method           string                `json:"method"`
	Name             domain.TranslatedText `json:"name"`
	Cost             decimal.Decimal       `json:"cost"`
	Currency         domain.Currency       `json:"currency"`
	EstimatedDaysMin int                   `json:"estimatedDaysMin"`
	EstimatedDaysMax int                   `json:"estimatedDaysMax"`
}
