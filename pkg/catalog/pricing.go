package catalog

import (
	"math"

	"github.com/shopspring/decimal"
)

// StrikeOutPrice returns the price of the first tier in StrikeOutPricebook,
// falling back to price when that tier is missing or zero.
func StrikeOutPrice(tiers []TieredPrice, price float64) float64 {
	for _, tier := range tiers {
		if tier.Pricebook != StrikeOutPricebook {
			continue
		}
		if tier.Price != 0 {
			return tier.Price
		}
		break
	}
	return price
}

// InstallmentPrice divides price into installments, rounding up to the cent.
// Installment amounts are never quoted below the true share.
func InstallmentPrice(price float64, installments int) float64 {
	if installments <= 0 {
		installments = 1
	}
	per, _ := decimal.NewFromFloat(price).
		Div(decimal.NewFromInt(int64(installments))).
		RoundCeil(2).
		Float64()
	return per
}

// NewBudgetPay builds the budget pay summary for price. An installment
// count of zero means a single payment.
func NewBudgetPay(price float64, installments int, eligible bool) BudgetPay {
	if installments <= 0 {
		installments = 1
	}
	return BudgetPay{
		Count:  installments,
		Price:  InstallmentPrice(price, installments),
		Status: eligible,
	}
}

// YouSaveValue returns the whole-percent saving of price against
// estimatedPrice, or 0 when there is no estimate. Halves round up.
func YouSaveValue(price, estimatedPrice float64) int {
	if estimatedPrice <= 0 {
		return 0
	}
	return int(math.Floor(100 - price/estimatedPrice*100 + 0.5))
}
