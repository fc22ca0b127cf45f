package shipping

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/dukerupert/law7a/internal/domain"
)

// FlatRateProvider returns predefined flat-rate shipping options.
type FlatRateProvider struct {
	rates []Rate
	index map[string]Rate
}

// FlatRate defines a single flat-rate shipping option.
type FlatRate struct {
	Method  string
	Name    domain.TranslatedText
	Cost    decimal.Decimal
	DaysMin int
	DaysMax int
}

// DefaultRates are the storefront's standard (5) and express (15) options.
func DefaultRates() []FlatRate {
	return []FlatRate{
		{
			Method:  MethodStandard,
			Name:    domain.TranslatedText{EN: "Standard Shipping", AR: "شحن عادي"},
			Cost:    decimal.NewFromInt(5),
			DaysMin: 3,
			DaysMax: 5,
		},
		{
			Method:  MethodExpress,
			Name:    domain.TranslatedText{EN: "Express Shipping", AR: "شحن سريع"},
			Cost:    decimal.NewFromInt(15),
			DaysMin: 1,
			DaysMax: 2,
		},
	}
}

// NewFlatRateProvider creates a new flat-rate shipping provider.
func NewFlatRateProvider(rates []FlatRate, currency domain.Currency) (*FlatRateProvider, error) {
	if len(rates) == 0 {
		return nil, ErrNoRates
	}
	if currency == "" {
		currency = domain.CurrencyJOD
	}

	p := &FlatRateProvider{index: make(map[string]Rate, len(rates))}
	for _, fr := range rates {
		if fr.Cost.IsNegative() {
			return nil, ErrNegativeCost
		}
		if _, dup := p.index[fr.Method]; dup {
			return nil, ErrDuplicateMethod
		}
		rate := Rate{
			Method:           fr.Method,
			Name:             fr.Name,
			Cost:             fr.Cost,
			Currency:         currency,
			EstimatedDaysMin: fr.DaysMin,
			EstimatedDaysMax: fr.DaysMax,
		}
		p.index[fr.Method] = rate
		p.rates = append(p.rates, rate)
	}
	sort.SliceStable(p.rates, func(i, j int) bool {
		return p.rates[i].Cost.LessThan(p.rates[j].Cost)
	})
	return p, nil
}

// Compile-time check to ensure FlatRateProvider implements Provider.
var _ Provider = (*FlatRateProvider)(nil)

// Rates returns a copy of the configured rates.
func (p *FlatRateProvider) Rates(ctx context.Context) ([]Rate, error) {
	out := make([]Rate, len(p.rates))
	copy(out, p.rates)
	return out, nil
}

// Quote returns the rate for method.
func (p *FlatRateProvider) Quote(ctx context.Context, method string) (Rate, error) {
	rate, ok := p.index[method]
	if !ok {
		return Rate{}, domain.WithOp(ErrUnknownMethod, "shipping.Quote", nil)
	}
	return rate, nil
}
