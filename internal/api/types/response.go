// internal/api/types/response.go
package types

import (
	"time"

	"finflow-account/internal/domain"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// AccountResponse describes an account and its current balance.
type AccountResponse struct {
	ID        domain.AccountID `json:"id"`
	Currency  domain.Currency  `json:"currency"`
	Balance   int64            `json:"balance"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// OperationResponse is returned by debit and credit.
type OperationResponse struct {
	Message    string              `json:"message"`
	AccountID  domain.AccountID    `json:"account_id"`
	Balance    domain.Money        `json:"balance"`
	Fee        domain.Money        `json:"fee"`
	DailyLimit *DailyLimitResponse `json:"daily_limit,omitempty"`
}

// DailyLimitResponse reports how many debits were used today.
type DailyLimitResponse struct {
	Day       string `json:"day"` // YYYY-MM-DD, UTC
	Counter   int    `json:"counter"`
	Limit     int    `json:"limit"`
	Remaining int    `json:"remaining"`
}

// NewAccountResponse converts a domain account.
func NewAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		ID:        a.ID,
		Currency:  a.Currency,
		Balance:   a.Balance,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// NewDailyLimitResponse converts a domain daily limit.
func NewDailyLimitResponse(dl domain.DailyLimit) *DailyLimitResponse {
	remaining := dl.Limit - dl.Counter
	if remaining < 0 {
		remaining = 0
	}
	return &DailyLimitResponse{
		Day:       dl.Day.Format(time.DateOnly),
		Counter:   dl.Counter,
		Limit:     dl.Limit,
		Remaining: remaining,
	}
}
