package rates

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Rate names, used in error messages and in the rate_versions table.
const (
	ServiceFee          = "service_fee_rate"
	FoodVAT             = "food_vat_rate"
	PlatformCommission  = "platform_commission_rate"
	PlatformServicesVAT = "platform_services_vat_rate"
)

const (
	DefaultVersion          = "2024-01"
	defaultEffectiveFromYMD = "2024-01-01"
)

var ErrInvalidRate = errors.New("rate must be in [0, 1)")

// Configuration is one version of the four rates used to decompose a payment.
//
// FoodVATRate applies to the goods sold by the seller. PlatformServicesVATRate
// applies to the platform's own margin (service fee and commission). They are
// different tax bases and must never be swapped.
type Configuration struct {
	Version                 string          `json:"version"`
	EffectiveFrom           time.Time       `json:"effective_from"`
	ServiceFeeRate          decimal.Decimal `json:"service_fee_rate"`
	FoodVATRate             decimal.Decimal `json:"food_vat_rate"`
	PlatformCommissionRate  decimal.Decimal `json:"platform_commission_rate"`
	PlatformServicesVATRate decimal.Decimal `json:"platform_services_vat_rate"`
}

// InvalidRateError names the rate that failed validation.
type InvalidRateError struct {
	Version string
	Name    string
	Value   decimal.Decimal
}

func (e *InvalidRateError) Error() string {
	return fmt.Sprintf("rate version %q: %s = %s: %v", e.Version, e.Name, e.Value.String(), ErrInvalidRate)
}

func (e *InvalidRateError) Unwrap() error {
	return ErrInvalidRate
}

// Validate checks that every rate is a fraction in [0, 1).
func (c Configuration) Validate() error {
	one := decimal.NewFromInt(1)
	for _, r := range c.named() {
		if r.value.IsNegative() || r.value.GreaterThanOrEqual(one) {
			return &InvalidRateError{Version: c.Version, Name: r.name, Value: r.value}
		}
	}
	return nil
}

type namedRate struct {
	name  string
	value decimal.Decimal
}

func (c Configuration) named() []namedRate {
	return []namedRate{
		{ServiceFee, c.ServiceFeeRate},
		{FoodVAT, c.FoodVATRate},
		{PlatformCommission, c.PlatformCommissionRate},
		{PlatformServicesVAT, c.PlatformServicesVATRate},
	}
}

// Default is the rate set the marketplace launched with: 6% service fee,
// 12% reduced food VAT, 19% seller commission and 25% VAT on platform services.
func Default() Configuration {
	effectiveFrom, _ := time.Parse("2006-01-02", defaultEffectiveFromYMD)
	return Configuration{
		Version:                 DefaultVersion,
		EffectiveFrom:           effectiveFrom,
		ServiceFeeRate:          decimal.RequireFromString("0.06"),
		FoodVATRate:             decimal.RequireFromString("0.12"),
		PlatformCommissionRate:  decimal.RequireFromString("0.19"),
		PlatformServicesVATRate: decimal.RequireFromString("0.25"),
	}
}
