// internal/domain/account.go
package domain

import "time"

// Account represents a stored account row.
type Account struct {
	ID        AccountID `db:"id" json:"id"`                 // UUID primary key
	Currency  Currency  `db:"currency" json:"currency"`     // Fixed at creation
	Balance   int64     `db:"balance" json:"balance"`       // Current balance in minor units
	CreatedAt time.Time `db:"created_at" json:"created_at"` // Timestamp of creation
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"` // Timestamp of last update
}

// NewAccount creates a new Account with a zero balance.
func NewAccount(currency Currency) *Account {
	now := time.Now().UTC()
	return &Account{
		ID:        NewAccountID(),
		Currency:  currency,
		Balance:   0,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// BalanceMoney returns the balance as Money in the account's currency.
func (a *Account) BalanceMoney() Money {
	return NewMoney(a.Currency, a.Balance)
}
