package report

import (
	"time"

	"github.com/anyulbade/commission-allocation-engine/internal/commission"
	"github.com/anyulbade/commission-allocation-engine/internal/model"
)

const rateDecimals = 4

// AccountingReport is the internal bookkeeping view of one payment: every
// figure of the breakdown, the rates used and the processor audit identifiers.
type AccountingReport struct {
	SessionID       string    `json:"session_id"`
	PaymentIntentID string    `json:"payment_intent_id"`
	ChargeID        string    `json:"charge_id"`
	PaymentStatus   string    `json:"payment_status"`
	TransactionDate time.Time `json:"transaction_date"`
	Description     string    `json:"description"`
	Quantity        int       `json:"quantity"`
	Currency        string    `json:"currency"`

	RateVersion string    `json:"rate_version"`
	Rates       RateTerms `json:"rates"`

	GrossAmount           string `json:"gross_amount"`
	BasePrice             string `json:"base_price"`
	ServiceFee            string `json:"service_fee"`
	BasePriceExclVAT      string `json:"base_price_excl_vat"`
	VATAmount             string `json:"vat_amount"`
	SellerCommission      string `json:"seller_commission"`
	SellerEarnings        string `json:"seller_earnings"`
	TotalToPlatform       string `json:"total_to_platform"`
	PlatformIncomeExclVAT string `json:"platform_income_excl_vat"`
	PlatformVATAmount     string `json:"platform_vat_amount"`
	PlatformNetIncome     string `json:"platform_net_income"`
	ServiceFeeExclVAT     string `json:"service_fee_excl_vat"`
	ServiceFeeVAT         string `json:"service_fee_vat"`
	CommissionExclVAT     string `json:"commission_excl_vat"`
	CommissionVAT         string `json:"commission_vat"`
}

type RateTerms struct {
	ServiceFeeRate          string `json:"service_fee_rate"`
	FoodVATRate             string `json:"food_vat_rate"`
	PlatformCommissionRate  string `json:"platform_commission_rate"`
	PlatformServicesVATRate string `json:"platform_services_vat_rate"`
}

// CustomerReceipt is what the buyer sees. It must never carry the seller's
// commission, the seller's payout or any VAT figure.
type CustomerReceipt struct {
	SessionID   string    `json:"session_id"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	Quantity    int       `json:"quantity"`
	Currency    string    `json:"currency"`
	GrossAmount string    `json:"gross_amount"`
	BasePrice   string    `json:"base_price"`
	ServiceFee  string    `json:"service_fee"`
}

func ProjectAccounting(tx *model.PaymentTransaction, b commission.Breakdown) AccountingReport {
	f := b.Currency.Format
	return AccountingReport{
		SessionID:       tx.SessionID,
		PaymentIntentID: tx.PaymentIntentID,
		ChargeID:        tx.ChargeID,
		PaymentStatus:   tx.PaymentStatus,
		TransactionDate: tx.CreatedAt,
		Description:     tx.Description,
		Quantity:        tx.Quantity,
		Currency:        b.Currency.Code,

		RateVersion: b.RateVersion(),
		Rates: RateTerms{
			ServiceFeeRate:          b.Rates.ServiceFeeRate.StringFixed(rateDecimals),
			FoodVATRate:             b.Rates.FoodVATRate.StringFixed(rateDecimals),
			PlatformCommissionRate:  b.Rates.PlatformCommissionRate.StringFixed(rateDecimals),
			PlatformServicesVATRate: b.Rates.PlatformServicesVATRate.StringFixed(rateDecimals),
		},

		GrossAmount:           f(b.GrossAmount),
		BasePrice:             f(b.BasePrice),
		ServiceFee:            f(b.ServiceFee),
		BasePriceExclVAT:      f(b.BasePriceExclVAT),
		VATAmount:             f(b.VATAmount),
		SellerCommission:      f(b.SellerCommission),
		SellerEarnings:        f(b.SellerEarnings),
		TotalToPlatform:       f(b.TotalToPlatform),
		PlatformIncomeExclVAT: f(b.PlatformIncomeExclVAT),
		PlatformVATAmount:     f(b.PlatformVATAmount),
		PlatformNetIncome:     f(b.PlatformNetIncome),
		ServiceFeeExclVAT:     f(b.ServiceFeeExclVAT),
		ServiceFeeVAT:         f(b.ServiceFeeVAT),
		CommissionExclVAT:     f(b.CommissionExclVAT),
		CommissionVAT:         f(b.CommissionVAT),
	}
}

func ProjectCustomer(tx *model.PaymentTransaction, b commission.Breakdown) CustomerReceipt {
	return CustomerReceipt{
		SessionID:   tx.SessionID,
		Date:        tx.CreatedAt,
		Description: tx.Description,
		Quantity:    tx.Quantity,
		Currency:    b.Currency.Code,
		GrossAmount: b.Currency.Format(b.GrossAmount),
		BasePrice:   b.Currency.Format(b.BasePrice),
		ServiceFee:  b.Currency.Format(b.ServiceFee),
	}
}
