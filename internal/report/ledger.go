package report

import (
	"fmt"
	"sort"

	"github.com/anyulbade/commission-allocation-engine/internal/commission"
)

// Ledger sums breakdowns per currency. The sum of consistent breakdowns is
// itself consistent, so totals can be checked with commission.Verify.
// Not safe for concurrent use.
type Ledger struct {
	totals   map[string]*commission.Breakdown
	sessions map[string]int
	versions map[string]map[string]bool
}

func NewLedger() *Ledger {
	return &Ledger{
		totals:   make(map[string]*commission.Breakdown),
		sessions: make(map[string]int),
		versions: make(map[string]map[string]bool),
	}
}

func (l *Ledger) Add(b commission.Breakdown) {
	code := b.Currency.Code
	t, ok := l.totals[code]
	if !ok {
		t = &commission.Breakdown{Currency: b.Currency}
		l.totals[code] = t
		l.versions[code] = make(map[string]bool)
	}

	t.GrossAmount = t.GrossAmount.Add(b.GrossAmount)
	t.BasePrice = t.BasePrice.Add(b.BasePrice)
	t.ServiceFee = t.ServiceFee.Add(b.ServiceFee)
	t.BasePriceExclVAT = t.BasePriceExclVAT.Add(b.BasePriceExclVAT)
	t.VATAmount = t.VATAmount.Add(b.VATAmount)
	t.SellerCommission = t.SellerCommission.Add(b.SellerCommission)
	t.SellerEarnings = t.SellerEarnings.Add(b.SellerEarnings)
	t.TotalToPlatform = t.TotalToPlatform.Add(b.TotalToPlatform)
	t.PlatformIncomeExclVAT = t.PlatformIncomeExclVAT.Add(b.PlatformIncomeExclVAT)
	t.PlatformVATAmount = t.PlatformVATAmount.Add(b.PlatformVATAmount)
	t.PlatformNetIncome = t.PlatformNetIncome.Add(b.PlatformNetIncome)
	t.ServiceFeeExclVAT = t.ServiceFeeExclVAT.Add(b.ServiceFeeExclVAT)
	t.ServiceFeeVAT = t.ServiceFeeVAT.Add(b.ServiceFeeVAT)
	t.CommissionExclVAT = t.CommissionExclVAT.Add(b.CommissionExclVAT)
	t.CommissionVAT = t.CommissionVAT.Add(b.CommissionVAT)

	l.sessions[code]++
	l.versions[code][b.RateVersion()] = true
}

// CurrencyTotals is the projected sum of all breakdowns in one currency.
type CurrencyTotals struct {
	Currency              string   `json:"currency"`
	Sessions              int      `json:"sessions"`
	RateVersions          []string `json:"rate_versions"`
	GrossAmount           string   `json:"gross_amount"`
	BasePrice             string   `json:"base_price"`
	ServiceFee            string   `json:"service_fee"`
	BasePriceExclVAT      string   `json:"base_price_excl_vat"`
	VATAmount             string   `json:"vat_amount"`
	SellerCommission      string   `json:"seller_commission"`
	SellerEarnings        string   `json:"seller_earnings"`
	TotalToPlatform       string   `json:"total_to_platform"`
	PlatformIncomeExclVAT string   `json:"platform_income_excl_vat"`
	PlatformVATAmount     string   `json:"platform_vat_amount"`
	PlatformNetIncome     string   `json:"platform_net_income"`
	ServiceFeeExclVAT     string   `json:"service_fee_excl_vat"`
	ServiceFeeVAT         string   `json:"service_fee_vat"`
	CommissionExclVAT     string   `json:"commission_excl_vat"`
	CommissionVAT         string   `json:"commission_vat"`
}

// Totals verifies and projects the per-currency sums, ordered by currency code.
func (l *Ledger) Totals() ([]CurrencyTotals, error) {
	codes := make([]string, 0, len(l.totals))
	for code := range l.totals {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	out := make([]CurrencyTotals, 0, len(codes))
	for _, code := range codes {
		t := *l.totals[code]
		if err := commission.Verify(t); err != nil {
			return nil, fmt.Errorf("%s totals: %w", code, err)
		}

		versions := make([]string, 0, len(l.versions[code]))
		for v := range l.versions[code] {
			versions = append(versions, v)
		}
		sort.Strings(versions)

		f := t.Currency.Format
		out = append(out, CurrencyTotals{
			Currency:              code,
			Sessions:              l.sessions[code],
			RateVersions:          versions,
			GrossAmount:           f(t.GrossAmount),
			BasePrice:             f(t.BasePrice),
			ServiceFee:            f(t.ServiceFee),
			BasePriceExclVAT:      f(t.BasePriceExclVAT),
			VATAmount:             f(t.VATAmount),
			SellerCommission:      f(t.SellerCommission),
			SellerEarnings:        f(t.SellerEarnings),
			TotalToPlatform:       f(t.TotalToPlatform),
			PlatformIncomeExclVAT: f(t.PlatformIncomeExclVAT),
			PlatformVATAmount:     f(t.PlatformVATAmount),
			PlatformNetIncome:     f(t.PlatformNetIncome),
			ServiceFeeExclVAT:     f(t.ServiceFeeExclVAT),
			ServiceFeeVAT:         f(t.ServiceFeeVAT),
			CommissionExclVAT:     f(t.CommissionExclVAT),
			CommissionVAT:         f(t.CommissionVAT),
		})
	}

	return out, nil
}
