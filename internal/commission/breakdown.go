package commission

import (
	"github.com/shopspring/decimal"

	"github.com/anyulbade/commission-allocation-engine/internal/money"
	"github.com/anyulbade/commission-allocation-engine/internal/rates"
)

// Breakdown is the decomposition of one gross payment. Every amount is
// rounded to the minor unit of Currency.
type Breakdown struct {
	Currency money.Currency
	Rates    rates.Configuration

	GrossAmount decimal.Decimal

	// Customer side.
	BasePrice  decimal.Decimal
	ServiceFee decimal.Decimal

	// Goods, taxed at the food VAT rate.
	BasePriceExclVAT decimal.Decimal
	VATAmount        decimal.Decimal

	// Seller side.
	SellerCommission decimal.Decimal
	SellerEarnings   decimal.Decimal

	// Platform margin, taxed at the services VAT rate.
	TotalToPlatform       decimal.Decimal
	PlatformIncomeExclVAT decimal.Decimal
	PlatformVATAmount     decimal.Decimal
	PlatformNetIncome     decimal.Decimal
	ServiceFeeExclVAT     decimal.Decimal
	ServiceFeeVAT         decimal.Decimal
	CommissionExclVAT     decimal.Decimal
	CommissionVAT         decimal.Decimal
}

// RateVersion is the name of the rate configuration the breakdown was computed with.
func (b Breakdown) RateVersion() string {
	return b.Rates.Version
}

// Amounts lists every monetary field by name, in presentation order.
func (b Breakdown) Amounts() []NamedAmount {
	return []NamedAmount{
		{"gross_amount", b.GrossAmount},
		{"base_price", b.BasePrice},
		{"service_fee", b.ServiceFee},
		{"base_price_excl_vat", b.BasePriceExclVAT},
		{"vat_amount", b.VATAmount},
		{"seller_commission", b.SellerCommission},
		{"seller_earnings", b.SellerEarnings},
		{"total_to_platform", b.TotalToPlatform},
		{"platform_income_excl_vat", b.PlatformIncomeExclVAT},
		{"platform_vat_amount", b.PlatformVATAmount},
		{"platform_net_income", b.PlatformNetIncome},
		{"service_fee_excl_vat", b.ServiceFeeExclVAT},
		{"service_fee_vat", b.ServiceFeeVAT},
		{"commission_excl_vat", b.CommissionExclVAT},
		{"commission_vat", b.CommissionVAT},
	}
}

type NamedAmount struct {
	Name   string
	Amount decimal.Decimal
}
