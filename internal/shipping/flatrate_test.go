package shipping_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/law7a/internal/domain"
	"github.com/dukerupert/law7a/internal/shipping"
)

func TestFlatRateProvider_DefaultRates(t *testing.T) {
	provider, err := shipping.NewFlatRateProvider(shipping.DefaultRates(), domain.CurrencyJOD)
	require.NoError(t, err)

	rates, err := provider.Rates(context.Background())
	require.NoError(t, err)
	require.Len(t, rates, 2)

	assert.Equal(t, shipping.MethodStandard, rates[0].Method)
	assert.True(t, decimal.NewFromInt(5).Equal(rates[0].Cost))
	assert.Equal(t, shipping.MethodExpress, rates[1].Method)
	assert.True(t, decimal.NewFromInt(15).Equal(rates[1].Cost))
	assert.Equal(t, domain.CurrencyJOD, rates[1].Currency)
}

func TestFlatRateProvider_Quote(t *testing.T) {
	provider, err := shipping.NewFlatRateProvider(shipping.DefaultRates(), "")
	require.NoError(t, err)

	rate, err := provider.Quote(context.Background(), shipping.MethodExpress)
	require.NoError(t, err)
	assert.Equal(t, "Express Shipping", rate.Name.EN)
	assert.Equal(t, 1, rate.EstimatedDaysMin)
	assert.Equal(t, domain.CurrencyJOD, rate.Currency)

	_, err = provider.Quote(context.Background(), "overnight")
	assert.ErrorIs(t, err, domain.ErrUnknownShipping)
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
}

func TestFlatRateProvider_SortsByCost(t *testing.T) {
	provider, err := shipping.NewFlatRateProvider([]shipping.FlatRate{
		{Method: "express", Cost: decimal.NewFromInt(15)},
		{Method: "pickup", Cost: decimal.Zero},
		{Method: "standard", Cost: decimal.NewFromInt(5)},
	}, domain.CurrencyUSD)
	require.NoError(t, err)

	rates, err := provider.Rates(context.Background())
	require.NoError(t, err)
	methods := []string{rates[0].Method, rates[1].Method, rates[2].Method}
	assert.Equal(t, []string{"pickup", "standard", "express"}, methods)
}

func TestFlatRateProvider_RatesReturnsCopy(t *testing.T) {
	provider, err := shipping.NewFlatRateProvider(shipping.DefaultRates(), domain.CurrencyJOD)
	require.NoError(t, err)

	rates, _ := provider.Rates(context.Background())
	rates[0].Cost = decimal.NewFromInt(999)

	again, _ := provider.Rates(context.Background())
	assert.True(t, decimal.NewFromInt(5).Equal(again[0].Cost))
}

func TestNewFlatRateProvider_Errors(t *testing.T) {
	tests := []struct {
		name  string
		rates []shipping.FlatRate
		want  error
	}{
		{"no rates", nil, shipping.ErrNoRates},
		{"negative", []shipping.FlatRate{{Method: "a", Cost: decimal.NewFromInt(-1)}}, shipping.ErrNegativeCost},
		{"duplicate", []shipping.FlatRate{{Method: "a"}, {Method: "a"}}, shipping.ErrDuplicateMethod},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := shipping.NewFlatRateProvider(tt.rates, domain.CurrencyJOD)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
