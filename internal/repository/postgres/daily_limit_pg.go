// internal/repository/postgres/daily_limit_pg.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"finflow-account/internal/domain"
	"finflow-account/internal/repository"
)

// DailyLimitRepository implements repository.DailyLimitRepository on the daily_limits table.
// Each UTC day gets its own row; a missing row means no debit happened that day yet.
type DailyLimitRepository struct {
	defaultLimit int
	now          func() time.Time
}

// NewDailyLimitRepository creates a DailyLimitRepository. Counters started by it allow
// defaultLimit debits per day. now defaults to time.Now.
func NewDailyLimitRepository(defaultLimit int, now func() time.Time) repository.DailyLimitRepository {
	if now == nil {
		now = time.Now
	}
	return &DailyLimitRepository{defaultLimit: defaultLimit, now: now}
}

// ProvideDailyLimit returns today's counter for the account, locking its row until the
// surrounding transaction ends.
func (r *DailyLimitRepository) ProvideDailyLimit(ctx context.Context, q repository.DBExecutor, accountID domain.AccountID) (domain.DailyLimit, error) {
	return r.load(ctx, q, accountID, true)
}

// GetDailyLimit returns today's counter for the account without locking.
func (r *DailyLimitRepository) GetDailyLimit(ctx context.Context, q repository.DBExecutor, accountID domain.AccountID) (domain.DailyLimit, error) {
	return r.load(ctx, q, accountID, false)
}

func (r *DailyLimitRepository) load(ctx context.Context, q repository.DBExecutor, accountID domain.AccountID, forUpdate bool) (domain.DailyLimit, error) {
	day := domain.TruncateDay(r.now())

	var dailyLimit domain.DailyLimit
	query := `SELECT account_id, day, counter, debit_limit FROM daily_limits
              WHERE account_id = $1 AND day = $2`
	if forUpdate {
		query += " FOR UPDATE"
	}
	err := q.GetContext(ctx, &dailyLimit, query, accountID, day)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NewDailyLimit(accountID, day, 0, r.defaultLimit), nil
		}
		return domain.DailyLimit{}, fmt.Errorf("failed to get daily limit for account %s: %w", accountID, err)
	}
	dailyLimit.Day = domain.TruncateDay(dailyLimit.Day)
	return dailyLimit, nil
}

// PersistDailyLimit upserts the counter row for the limit's account and day.
func (r *DailyLimitRepository) PersistDailyLimit(ctx context.Context, q repository.DBExecutor, dailyLimit domain.DailyLimit) error {
	query := `INSERT INTO daily_limits (account_id, day, counter, debit_limit, updated_at)
              VALUES ($1, $2, $3, $4, $5)
              ON CONFLICT (account_id, day)
              DO UPDATE SET counter = EXCLUDED.counter, debit_limit = EXCLUDED.debit_limit, updated_at = EXCLUDED.updated_at`
	_, err := q.ExecContext(ctx, query,
		dailyLimit.AccountID,
		dailyLimit.Day,
		dailyLimit.Counter,
		dailyLimit.Limit,
		r.now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to persist daily limit for account %s: %w", dailyLimit.AccountID, err)
	}
	return nil
}
