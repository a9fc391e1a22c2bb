// internal/repository/daily_limit_repo.go
package repository

import (
	"context"

	"finflow-account/internal/domain"
)

// DailyLimitRepository stores per-account daily debit counters.
type DailyLimitRepository interface {
	// ProvideDailyLimit returns today's counter for the account, starting a fresh one if none exists yet.
	// The counter row stays locked until q's transaction ends, so q must be a transaction.
	ProvideDailyLimit(ctx context.Context, q DBExecutor, accountID domain.AccountID) (domain.DailyLimit, error)
	// GetDailyLimit is a non-locking read of today's counter, safe outside a transaction.
	GetDailyLimit(ctx context.Context, q DBExecutor, accountID domain.AccountID) (domain.DailyLimit, error)
	// PersistDailyLimit stores dailyLimit as the counter for its account and day.
	PersistDailyLimit(ctx context.Context, q DBExecutor, dailyLimit domain.DailyLimit) error
}
