// internal/fee/calculator.go
package fee

import (
	"fmt"

	"github.com/shopspring/decimal"

	"finflow-account/internal/domain"
)

// DefaultPercent is the transaction fee applied to debits when none is configured.
var DefaultPercent = decimal.RequireFromString("0.5")

// Calculator computes the fee charged on a payment amount.
type Calculator interface {
	Calculate(amount domain.Money) domain.Money
}

// PercentageCalculator charges a fixed percentage of the amount, rounded up to the next minor unit.
type PercentageCalculator struct {
	percent decimal.Decimal
}

// NewPercentageCalculator creates a calculator for percent (5 means 5%).
func NewPercentageCalculator(percent decimal.Decimal) (*PercentageCalculator, error) {
	if percent.IsNegative() {
		return nil, fmt.Errorf("fee percent must not be negative, got %s", percent)
	}
	return &PercentageCalculator{percent: percent}, nil
}

// Percent returns the configured percentage.
func (c *PercentageCalculator) Percent() decimal.Decimal {
	return c.percent
}

// Calculate returns ceil(amount * percent / 100) in the amount's currency.
func (c *PercentageCalculator) Calculate(amount domain.Money) domain.Money {
	cost := decimal.NewFromInt(amount.Value).Mul(c.percent).Shift(-2).Ceil()
	return domain.NewMoney(amount.Currency, cost.IntPart())
}
