package commission

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/anyulbade/commission-allocation-engine/internal/money"
)

// Violation is one identity that did not hold.
type Violation struct {
	Identity string
	Left     decimal.Decimal
	Right    decimal.Decimal
}

// ReconciliationFailure lists every identity a breakdown violated. Cause is
// set instead when the breakdown could not be checked at all.
type ReconciliationFailure struct {
	Currency    string
	RateVersion string
	Gross       decimal.Decimal
	Violations  []Violation
	Cause       error
}

func (f *ReconciliationFailure) Error() string {
	parts := make([]string, 0, len(f.Violations)+1)
	if f.Cause != nil {
		parts = append(parts, f.Cause.Error())
	}
	for _, v := range f.Violations {
		parts = append(parts, fmt.Sprintf("%s (%s != %s)", v.Identity, v.Left.String(), v.Right.String()))
	}
	return fmt.Sprintf("%v: gross %s %s, rate version %q: %s",
		ErrReconciliation, f.Gross.String(), f.Currency, f.RateVersion, strings.Join(parts, "; "))
}

func (f *ReconciliationFailure) Unwrap() []error {
	if f.Cause == nil {
		return []error{ErrReconciliation}
	}
	return []error{ErrReconciliation, f.Cause}
}

type identity struct {
	name        string
	left, right decimal.Decimal
}

func identities(b Breakdown) []identity {
	return []identity{
		{"base_price + service_fee == gross_amount",
			b.BasePrice.Add(b.ServiceFee), b.GrossAmount},
		{"base_price_excl_vat + vat_amount == base_price",
			b.BasePriceExclVAT.Add(b.VATAmount), b.BasePrice},
		{"seller_commission + seller_earnings == base_price",
			b.SellerCommission.Add(b.SellerEarnings), b.BasePrice},
		{"service_fee_excl_vat + service_fee_vat == service_fee",
			b.ServiceFeeExclVAT.Add(b.ServiceFeeVAT), b.ServiceFee},
		{"commission_excl_vat + commission_vat == seller_commission",
			b.CommissionExclVAT.Add(b.CommissionVAT), b.SellerCommission},
		{"total_to_platform == service_fee + seller_commission",
			b.TotalToPlatform, b.ServiceFee.Add(b.SellerCommission)},
		{"platform_income_excl_vat + platform_vat_amount == total_to_platform",
			b.PlatformIncomeExclVAT.Add(b.PlatformVATAmount), b.TotalToPlatform},
		{"platform_vat_amount == service_fee_vat + commission_vat",
			b.PlatformVATAmount, b.ServiceFeeVAT.Add(b.CommissionVAT)},
		{"total_to_platform + seller_earnings == gross_amount",
			b.TotalToPlatform.Add(b.SellerEarnings), b.GrossAmount},
		{"platform_net_income == platform_income_excl_vat",
			b.PlatformNetIncome, b.PlatformIncomeExclVAT},
	}
}

// Verify recomputes every identity of the breakdown and fails if any side
// differs by more than one minor unit, or if any amount carries digits below
// the minor unit. The returned error is a *ReconciliationFailure.
func Verify(b Breakdown) error {
	cur, ok := money.Lookup(b.Currency.Code)
	if !ok {
		return &ReconciliationFailure{
			Currency:    b.Currency.Code,
			RateVersion: b.RateVersion(),
			Gross:       b.GrossAmount,
			Cause:       fmt.Errorf("%w: %q", ErrUnsupportedCurrency, b.Currency.Code),
		}
	}
	tolerance := cur.Unit()

	var violations []Violation
	for _, id := range identities(b) {
		if id.left.Sub(id.right).Abs().GreaterThan(tolerance) {
			violations = append(violations, Violation{Identity: id.name, Left: id.left, Right: id.right})
		}
	}
	for _, a := range b.Amounts() {
		if !cur.Exact(a.Amount) {
			violations = append(violations, Violation{
				Identity: a.Name + " is a whole number of minor units",
				Left:     a.Amount,
				Right:    cur.Round(a.Amount),
			})
		}
	}

	if len(violations) == 0 {
		return nil
	}
	return &ReconciliationFailure{
		Currency:    cur.Code,
		RateVersion: b.RateVersion(),
		Gross:       b.GrossAmount,
		Violations:  violations,
	}
}

// MustVerify panics when Verify fails. Used where an inconsistent breakdown
// is a programming error: tests and development builds.
func MustVerify(b Breakdown) {
	if err := Verify(b); err != nil {
		panic(err)
	}
}
