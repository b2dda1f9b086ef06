package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Currency is an ISO 4217 currency together with the number of decimal places
// of its minor unit.
type Currency struct {
	Code       string
	MinorUnits int32
}

var supported = map[string]Currency{
	"SEK": {Code: "SEK", MinorUnits: 2},
	"NOK": {Code: "NOK", MinorUnits: 2},
	"DKK": {Code: "DKK", MinorUnits: 2},
	"EUR": {Code: "EUR", MinorUnits: 2},
	"USD": {Code: "USD", MinorUnits: 2},
	"GBP": {Code: "GBP", MinorUnits: 2},
	"ISK": {Code: "ISK", MinorUnits: 0},
	"JPY": {Code: "JPY", MinorUnits: 0},
}

// Lookup returns the currency for an ISO code. Codes are matched case-insensitively.
func Lookup(code string) (Currency, bool) {
	c, ok := supported[strings.ToUpper(strings.TrimSpace(code))]
	return c, ok
}

// Codes lists every supported currency code.
func Codes() []string {
	codes := make([]string, 0, len(supported))
	for code := range supported {
		codes = append(codes, code)
	}
	return codes
}

// Unit is the value of one minor unit, e.g. 0.01 for SEK and 1 for JPY.
func (c Currency) Unit() decimal.Decimal {
	return decimal.New(1, -c.MinorUnits)
}

// Round rounds half away from zero to the minor unit.
func (c Currency) Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(c.MinorUnits)
}

// Quo divides at full precision and rounds the quotient once to the minor unit.
func (c Currency) Quo(d, by decimal.Decimal) decimal.Decimal {
	return d.DivRound(by, c.MinorUnits)
}

// Exact reports whether d has no digits below the minor unit.
func (c Currency) Exact(d decimal.Decimal) bool {
	return d.Equal(d.Round(c.MinorUnits))
}

// Format renders d with exactly MinorUnits decimal places.
func (c Currency) Format(d decimal.Decimal) string {
	return d.StringFixed(c.MinorUnits)
}
