package commission

import (
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anyulbade/commission-allocation-engine/internal/rates"
)

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertAmount(t *testing.T, want string, got decimal.Decimal, field string) {
	t.Helper()
	assert.True(t, amount(want).Equal(got), "%s: want %s, got %s", field, want, got.String())
}

func TestDecompose_ScenarioA(t *testing.T) {
	b, err := Decompose(amount("106.00"), "SEK", rates.Default())
	require.NoError(t, err)

	assertAmount(t, "106.00", b.GrossAmount, "gross")
	assertAmount(t, "100.00", b.BasePrice, "base price")
	assertAmount(t, "6.00", b.ServiceFee, "service fee")
	assertAmount(t, "89.29", b.BasePriceExclVAT, "base price excl vat")
	assertAmount(t, "10.71", b.VATAmount, "food vat")
	assertAmount(t, "19.00", b.SellerCommission, "seller commission")
	assertAmount(t, "81.00", b.SellerEarnings, "seller earnings")
	assertAmount(t, "25.00", b.TotalToPlatform, "total to platform")
	assertAmount(t, "106.00", b.TotalToPlatform.Add(b.SellerEarnings), "platform + seller")
	assertAmount(t, "20.00", b.PlatformIncomeExclVAT, "platform income excl vat")
	assertAmount(t, "5.00", b.PlatformVATAmount, "platform vat")
	assertAmount(t, "20.00", b.PlatformNetIncome, "platform net income")
	assertAmount(t, "4.80", b.ServiceFeeExclVAT, "service fee excl vat")
	assertAmount(t, "1.20", b.ServiceFeeVAT, "service fee vat")
	assertAmount(t, "15.20", b.CommissionExclVAT, "commission excl vat")
	assertAmount(t, "3.80", b.CommissionVAT, "commission vat")

	assert.Equal(t, "SEK", b.Currency.Code)
	assert.Equal(t, rates.DefaultVersion, b.RateVersion())
	assert.NoError(t, Verify(b))
}

func TestDecompose_ScenarioB(t *testing.T) {
	b, err := Decompose(amount("1000.00"), "SEK", rates.Default())
	require.NoError(t, err)

	assertAmount(t, "943.40", b.BasePrice, "base price")
	assertAmount(t, "56.60", b.ServiceFee, "service fee")
	assertAmount(t, "842.32", b.BasePriceExclVAT, "base price excl vat")
	assertAmount(t, "101.08", b.VATAmount, "food vat")
	assertAmount(t, "179.25", b.SellerCommission, "seller commission")
	assertAmount(t, "764.15", b.SellerEarnings, "seller earnings")
	assertAmount(t, "235.85", b.TotalToPlatform, "total to platform")
	assertAmount(t, "45.28", b.ServiceFeeExclVAT, "service fee excl vat")
	assertAmount(t, "11.32", b.ServiceFeeVAT, "service fee vat")
	assertAmount(t, "143.40", b.CommissionExclVAT, "commission excl vat")
	assertAmount(t, "35.85", b.CommissionVAT, "commission vat")
	assertAmount(t, "47.17", b.PlatformVATAmount, "platform vat")
	assertAmount(t, "188.68", b.PlatformIncomeExclVAT, "platform income excl vat")

	assert.NoError(t, Verify(b))
}

func TestDecompose_ZeroDecimalCurrency(t *testing.T) {
	b, err := Decompose(decimal.NewFromInt(1000), "JPY", rates.Default())
	require.NoError(t, err)

	assertAmount(t, "943", b.BasePrice, "base price")
	assertAmount(t, "57", b.ServiceFee, "service fee")
	assertAmount(t, "179", b.SellerCommission, "seller commission")
	assertAmount(t, "764", b.SellerEarnings, "seller earnings")
	assert.NoError(t, Verify(b))
}

func TestDecompose_ZeroRates(t *testing.T) {
	b, err := Decompose(amount("50.00"), "EUR", rates.Configuration{Version: "none"})
	require.NoError(t, err)

	assertAmount(t, "50.00", b.BasePrice, "base price")
	assertAmount(t, "0", b.ServiceFee, "service fee")
	assertAmount(t, "50.00", b.BasePriceExclVAT, "base price excl vat")
	assertAmount(t, "0", b.SellerCommission, "seller commission")
	assertAmount(t, "50.00", b.SellerEarnings, "seller earnings")
	assertAmount(t, "0", b.TotalToPlatform, "total to platform")
	assert.NoError(t, Verify(b))
}

func TestDecompose_InvalidInput(t *testing.T) {
	cases := []struct {
		name     string
		gross    string
		currency string
		mut      func(*rates.Configuration)
		want     error
	}{
		{name: "zero amount", gross: "0", currency: "SEK", want: ErrInvalidAmount},
		{name: "negative amount", gross: "-106.00", currency: "SEK", want: ErrInvalidAmount},
		{name: "sub-minor-unit amount", gross: "106.005", currency: "SEK", want: ErrInvalidAmount},
		{name: "fractional yen", gross: "100.5", currency: "JPY", want: ErrInvalidAmount},
		{name: "unknown currency", gross: "106.00", currency: "XYZ", want: ErrUnsupportedCurrency},
		{name: "empty currency", gross: "106.00", currency: "", want: ErrUnsupportedCurrency},
		{name: "service fee rate of one", gross: "106.00", currency: "SEK",
			mut: func(c *rates.Configuration) { c.ServiceFeeRate = decimal.NewFromInt(1) }, want: ErrInvalidRate},
		{name: "food vat above one", gross: "106.00", currency: "SEK",
			mut: func(c *rates.Configuration) { c.FoodVATRate = amount("1.12") }, want: ErrInvalidRate},
		{name: "commission rate of one", gross: "106.00", currency: "SEK",
			mut: func(c *rates.Configuration) { c.PlatformCommissionRate = decimal.NewFromInt(1) }, want: ErrInvalidRate},
		{name: "negative services vat", gross: "106.00", currency: "SEK",
			mut: func(c *rates.Configuration) { c.PlatformServicesVATRate = amount("-0.25") }, want: ErrInvalidRate},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := rates.Default()
			if tc.mut != nil {
				tc.mut(&cfg)
			}

			b, err := Decompose(amount(tc.gross), tc.currency, cfg)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
			assert.Equal(t, Breakdown{}, b, "no partial breakdown on error")
		})
	}
}

func TestDecompose_InvalidRateNamesField(t *testing.T) {
	cfg := rates.Default()
	cfg.PlatformCommissionRate = amount("1.19")

	_, err := Decompose(amount("106.00"), "SEK", cfg)

	var rateErr *rates.InvalidRateError
	require.True(t, errors.As(err, &rateErr))
	assert.Equal(t, rates.PlatformCommission, rateErr.Name)
}

func TestDecompose_Idempotent(t *testing.T) {
	cfg := rates.Default()

	first, err := Decompose(amount("249.90"), "SEK", cfg)
	require.NoError(t, err)
	second, err := Decompose(amount("249.90"), "SEK", cfg)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestDecompose_Concurrent(t *testing.T) {
	cfg := rates.Default()
	want, err := Decompose(amount("1234.56"), "SEK", cfg)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]Breakdown, 64)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = Decompose(amount("1234.56"), "SEK", cfg)
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

func TestDecompose_LowercaseCurrency(t *testing.T) {
	b, err := Decompose(amount("106.00"), "sek", rates.Default())
	require.NoError(t, err)
	assert.Equal(t, "SEK", b.Currency.Code)
}

func TestDecompose_SmallestAmount(t *testing.T) {
	b, err := Decompose(amount("0.01"), "SEK", rates.Default())
	require.NoError(t, err)

	assertAmount(t, "0.01", b.BasePrice, "base price")
	assertAmount(t, "0", b.ServiceFee, "service fee")
	assert.NoError(t, Verify(b))
}
