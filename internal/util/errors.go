// internal/util/errors.go
package util

import "errors"

// Common application-specific errors.
var (
	ErrNotFound            = errors.New("resource not found")
	ErrInvalidInput        = errors.New("invalid input provided")
	ErrAccountNotFound     = errors.New("account not found")
	ErrUnsupportedCurrency = errors.New("unsupported currency code")
)

// Account mutation errors. All of them are expected conditions the caller can recover from.
var (
	ErrCurrencyMismatch  = errors.New("currency mismatch")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrDailyLimitReached = errors.New("daily limit reached")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrPersistence       = errors.New("persistence failure")
)

// IsError reports whether any error in err's chain matches target.
func IsError(err, target error) bool {
	return errors.Is(err, target)
}
