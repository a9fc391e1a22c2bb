// internal/domain/money.go
package domain

import (
	"fmt"
	"strings"

	"finflow-account/internal/util"
)

// Currency is an opaque currency code such as "USD". Two currencies are equal when their codes are.
type Currency string

// Equals reports whether c and other carry the same code.
func (c Currency) Equals(other Currency) bool {
	return c == other
}

func (c Currency) String() string {
	return string(c)
}

// ParseCurrency normalizes a user supplied code to upper case and rejects anything
// that is not three ASCII letters.
func ParseCurrency(code string) (Currency, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 {
		return "", fmt.Errorf("%w: %q", util.ErrUnsupportedCurrency, code)
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return "", fmt.Errorf("%w: %q", util.ErrUnsupportedCurrency, code)
		}
	}
	return Currency(code), nil
}

// Money is an amount in minor units (cents) tagged with its currency.
// It has no arithmetic of its own: callers work on Value and carry Currency forward.
type Money struct {
	Currency Currency `json:"currency"`
	Value    int64    `json:"value"`
}

// NewMoney creates a new Money instance.
func NewMoney(currency Currency, value int64) Money {
	return Money{Currency: currency, Value: value}
}
