package commission

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/anyulbade/commission-allocation-engine/internal/money"
	"github.com/anyulbade/commission-allocation-engine/internal/rates"
)

var one = decimal.NewFromInt(1)

// Decompose splits a gross customer payment into base price, service fee,
// seller commission and payout, and the food and services VAT positions.
//
// Each quotient or product is rounded once to the currency's minor unit and
// each complement is taken by exact subtraction, so every identity checked by
// Verify holds exactly. The function is pure and safe for concurrent use.
func Decompose(gross decimal.Decimal, currency string, cfg rates.Configuration) (Breakdown, error) {
	cur, ok := money.Lookup(currency)
	if !ok {
		return Breakdown{}, fmt.Errorf("%w: %q", ErrUnsupportedCurrency, currency)
	}
	if !gross.IsPositive() {
		return Breakdown{}, fmt.Errorf("%w: %s must be greater than zero", ErrInvalidAmount, gross.String())
	}
	if !cur.Exact(gross) {
		return Breakdown{}, fmt.Errorf("%w: %s has more than %d decimal places for %s",
			ErrInvalidAmount, gross.String(), cur.MinorUnits, cur.Code)
	}
	if err := cfg.Validate(); err != nil {
		return Breakdown{}, err
	}

	gross = cur.Round(gross)
	servicesVATDivisor := one.Add(cfg.PlatformServicesVATRate)

	basePrice := cur.Quo(gross, one.Add(cfg.ServiceFeeRate))
	serviceFee := gross.Sub(basePrice)

	basePriceExclVAT := cur.Quo(basePrice, one.Add(cfg.FoodVATRate))
	vatAmount := basePrice.Sub(basePriceExclVAT)

	sellerCommission := cur.Round(basePrice.Mul(cfg.PlatformCommissionRate))
	sellerEarnings := basePrice.Sub(sellerCommission)

	totalToPlatform := serviceFee.Add(sellerCommission)

	serviceFeeExclVAT := cur.Quo(serviceFee, servicesVATDivisor)
	serviceFeeVAT := serviceFee.Sub(serviceFeeExclVAT)

	commissionExclVAT := cur.Quo(sellerCommission, servicesVATDivisor)
	commissionVAT := sellerCommission.Sub(commissionExclVAT)

	// The platform's VAT is the sum of its two components so that the
	// per-component figures on the accounting report add up to the total.
	platformVATAmount := serviceFeeVAT.Add(commissionVAT)
	platformIncomeExclVAT := totalToPlatform.Sub(platformVATAmount)

	return Breakdown{
		Currency:              cur,
		Rates:                 cfg,
		GrossAmount:           gross,
		BasePrice:             basePrice,
		ServiceFee:            serviceFee,
		BasePriceExclVAT:      basePriceExclVAT,
		VATAmount:             vatAmount,
		SellerCommission:      sellerCommission,
		SellerEarnings:        sellerEarnings,
		TotalToPlatform:       totalToPlatform,
		PlatformIncomeExclVAT: platformIncomeExclVAT,
		PlatformVATAmount:     platformVATAmount,
		PlatformNetIncome:     platformIncomeExclVAT,
		ServiceFeeExclVAT:     serviceFeeExclVAT,
		ServiceFeeVAT:         serviceFeeVAT,
		CommissionExclVAT:     commissionExclVAT,
		CommissionVAT:         commissionVAT,
	}, nil
}
