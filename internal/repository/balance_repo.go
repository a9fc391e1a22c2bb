// internal/repository/balance_repo.go
package repository

import (
	"context"

	"finflow-account/internal/domain"
)

// BalanceRepository stores the current balance of each account.
type BalanceRepository interface {
	// GetBalance returns the account's balance. Inside a transaction the row stays locked until it ends.
	GetBalance(ctx context.Context, q DBExecutor, accountID domain.AccountID) (domain.Money, error)
	// PersistBalance overwrites the account's balance.
	PersistBalance(ctx context.Context, q DBExecutor, accountID domain.AccountID, balance domain.Money) error
}
