// internal/repository/postgres/balance_pg.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"finflow-account/internal/domain"
	"finflow-account/internal/repository"
	"finflow-account/internal/util"
)

// BalanceRepository implements repository.BalanceRepository on the accounts table.
type BalanceRepository struct{}

// NewBalanceRepository creates a new BalanceRepository.
func NewBalanceRepository() repository.BalanceRepository {
	return &BalanceRepository{}
}

type balanceRow struct {
	Currency domain.Currency `db:"currency"`
	Balance  int64           `db:"balance"`
}

// GetBalance reads the balance row FOR UPDATE. Within a transaction this is what
// serializes concurrent operations on the same account.
func (r *BalanceRepository) GetBalance(ctx context.Context, q repository.DBExecutor, accountID domain.AccountID) (domain.Money, error) {
	var row balanceRow
	query := `SELECT currency, balance FROM accounts WHERE id = $1 FOR UPDATE`
	err := q.GetContext(ctx, &row, query, accountID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Money{}, util.ErrNotFound
		}
		return domain.Money{}, fmt.Errorf("failed to get balance for account %s: %w", accountID, err)
	}
	return domain.NewMoney(row.Currency, row.Balance), nil
}

// PersistBalance overwrites the balance. The currency must match the one stored for the account.
func (r *BalanceRepository) PersistBalance(ctx context.Context, q repository.DBExecutor, accountID domain.AccountID, balance domain.Money) error {
	query := `UPDATE accounts SET balance = $1, updated_at = $2 WHERE id = $3 AND currency = $4`
	result, err := q.ExecContext(ctx, query, balance.Value, time.Now().UTC(), accountID, balance.Currency)
	if err != nil {
		return fmt.Errorf("failed to persist balance for account %s: %w", accountID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after persisting balance for account %s: %w", accountID, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("no %s account %s to persist balance to: %w", balance.Currency, accountID, util.ErrNotFound)
	}
	return nil
}
