// internal/account/account.go
package account

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"finflow-account/internal/domain"
	"finflow-account/internal/fee"
	"finflow-account/internal/repository"
	"finflow-account/internal/util"
	"finflow-account/pkg/db"
)

// Deps are the collaborators an Account orchestrates. The same Deps value can be shared by
// every Account of a process.
type Deps struct {
	DBBeginner db.DBTxBeginner // Starts the transaction each operation runs in
	Balances   repository.BalanceRepository
	Limits     repository.DailyLimitRepository
	Fees       fee.Calculator
	BeginTx    db.BeginTxFunc
	CommitTx   db.CommitTxFunc
	RollbackTx db.RollbackTxFunc
	Locker     *Locker      // Optional, serializes operations per account within the process
	Logger     *slog.Logger // Optional, defaults to slog.Default()
}

// Account applies debits and credits to one account. It holds no balance itself:
// every operation loads state from the stores, validates it, and writes it back in
// a single transaction.
type Account struct {
	id       domain.AccountID
	currency domain.Currency
	deps     Deps
	logger   *slog.Logger
}

// Result describes the state left behind by a successful operation.
type Result struct {
	AccountID  domain.AccountID
	Balance    domain.Money
	Fee        domain.Money
	DailyLimit *domain.DailyLimit // Only set for debits
}

// New creates an Account for id, denominated in currency.
func New(id domain.AccountID, currency domain.Currency, deps Deps) *Account {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Account{
		id:       id,
		currency: currency,
		deps:     deps,
		logger:   logger.With("account_id", id),
	}
}

// ID returns the account identifier.
func (a *Account) ID() domain.AccountID { return a.id }

// Currency returns the account currency.
func (a *Account) Currency() domain.Currency { return a.currency }

// Debit takes the payment amount plus the transaction fee from the balance and counts the
// debit against today's limit. Checks run in this order: currency, funds, daily limit,
// amount. Balance and limit are written in one transaction; on any failure neither is.
func (a *Account) Debit(ctx context.Context, payment domain.Payment) (Result, error) {
	if !payment.Currency().Equals(a.currency) {
		return Result{}, fmt.Errorf("debit: payment in %s on %s account: %w", payment.Currency(), a.currency, util.ErrCurrencyMismatch)
	}

	cost := a.deps.Fees.Calculate(payment.Amount)
	totalValue, overflowed := addInt64(payment.Amount.Value, cost.Value)
	total := domain.NewMoney(a.currency, totalValue)

	unlock := a.lock()
	defer unlock()

	txController, txExecutor, err := a.begin(ctx, "debit")
	if err != nil {
		return Result{}, err
	}
	defer a.deps.RollbackTx(txController)

	balance, err := a.loadBalance(ctx, txExecutor, "debit")
	if err != nil {
		return Result{}, err
	}
	// A total past MaxInt64 exceeds any balance.
	if (overflowed && total.Value > 0) || balance.Value < total.Value {
		return Result{}, fmt.Errorf("debit: balance %d below %d plus fee %d: %w", balance.Value, payment.Amount.Value, cost.Value, util.ErrInsufficientFunds)
	}

	dailyLimit, err := a.deps.Limits.ProvideDailyLimit(ctx, txExecutor, a.id)
	if err != nil {
		return Result{}, persistenceError("debit: failed to get daily limit", err)
	}
	if dailyLimit.IsLimitReached() {
		return Result{}, fmt.Errorf("debit: %d of %d debits used: %w", dailyLimit.Counter, dailyLimit.Limit, util.ErrDailyLimitReached)
	}

	if total.Value <= 0 {
		return Result{}, fmt.Errorf("debit: total %d: %w", total.Value, util.ErrInvalidAmount)
	}

	newBalance := domain.NewMoney(a.currency, balance.Value-total.Value)
	updatedLimit, err := dailyLimit.IncreaseCounter()
	if err != nil {
		return Result{}, fmt.Errorf("debit: %w", err)
	}

	if err := a.deps.Balances.PersistBalance(ctx, txExecutor, a.id, newBalance); err != nil {
		return Result{}, persistenceError("debit: failed to persist balance", err)
	}
	if err := a.deps.Limits.PersistDailyLimit(ctx, txExecutor, updatedLimit); err != nil {
		return Result{}, persistenceError("debit: failed to persist daily limit", err)
	}
	if err := a.deps.CommitTx(txController); err != nil {
		return Result{}, persistenceError("debit: failed to commit transaction", err)
	}

	a.logger.Debug("debit committed",
		"amount", payment.Amount.Value,
		"fee", cost.Value,
		"balance", newBalance.Value,
		"daily_counter", updatedLimit.Counter,
	)
	return Result{AccountID: a.id, Balance: newBalance, Fee: cost, DailyLimit: &updatedLimit}, nil
}

// Credit adds the payment amount to the balance. No fee is charged and the daily
// limit is not involved.
func (a *Account) Credit(ctx context.Context, payment domain.Payment) (Result, error) {
	if !payment.Currency().Equals(a.currency) {
		return Result{}, fmt.Errorf("credit: payment in %s on %s account: %w", payment.Currency(), a.currency, util.ErrCurrencyMismatch)
	}
	if payment.Amount.Value <= 0 {
		return Result{}, fmt.Errorf("credit: amount %d: %w", payment.Amount.Value, util.ErrInvalidAmount)
	}

	unlock := a.lock()
	defer unlock()

	txController, txExecutor, err := a.begin(ctx, "credit")
	if err != nil {
		return Result{}, err
	}
	defer a.deps.RollbackTx(txController)

	balance, err := a.loadBalance(ctx, txExecutor, "credit")
	if err != nil {
		return Result{}, err
	}

	newValue, overflowed := addInt64(balance.Value, payment.Amount.Value)
	if overflowed {
		return Result{}, fmt.Errorf("credit: amount %d would overflow balance %d: %w", payment.Amount.Value, balance.Value, util.ErrInvalidAmount)
	}
	newBalance := domain.NewMoney(a.currency, newValue)
	if err := a.deps.Balances.PersistBalance(ctx, txExecutor, a.id, newBalance); err != nil {
		return Result{}, persistenceError("credit: failed to persist balance", err)
	}
	if err := a.deps.CommitTx(txController); err != nil {
		return Result{}, persistenceError("credit: failed to commit transaction", err)
	}

	a.logger.Debug("credit committed", "amount", payment.Amount.Value, "balance", newBalance.Value)
	return Result{AccountID: a.id, Balance: newBalance, Fee: domain.NewMoney(a.currency, 0)}, nil
}

func (a *Account) lock() func() {
	if a.deps.Locker == nil {
		return func() {}
	}
	return a.deps.Locker.Lock(a.id)
}

func (a *Account) begin(ctx context.Context, op string) (db.TxController, repository.DBExecutor, error) {
	txController, err := a.deps.BeginTx(ctx, a.deps.DBBeginner)
	if err != nil {
		return nil, nil, persistenceError(op+": failed to begin transaction", err)
	}

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		a.deps.RollbackTx(txController)
		return nil, nil, fmt.Errorf("%s: transaction controller does not implement DBExecutor: %w", op, util.ErrPersistence)
	}
	return txController, txExecutor, nil
}

// loadBalance reads the balance and refuses one stored in a currency other than the account's.
func (a *Account) loadBalance(ctx context.Context, q repository.DBExecutor, op string) (domain.Money, error) {
	balance, err := a.deps.Balances.GetBalance(ctx, q, a.id)
	if err != nil {
		return domain.Money{}, persistenceError(op+": failed to get balance", err)
	}
	if !balance.Currency.Equals(a.currency) {
		return domain.Money{}, fmt.Errorf("%s: stored balance in %s on %s account: %w", op, balance.Currency, a.currency, util.ErrCurrencyMismatch)
	}
	return balance, nil
}

// addInt64 returns a+b, clamped to the int64 range. overflowed reports whether clamping happened.
func addInt64(a, b int64) (sum int64, overflowed bool) {
	switch {
	case b > 0 && a > math.MaxInt64-b:
		return math.MaxInt64, true
	case b < 0 && a < math.MinInt64-b:
		return math.MinInt64, true
	default:
		return a + b, false
	}
}

// persistenceError marks err as a store failure while keeping it in the chain.
func persistenceError(msg string, err error) error {
	return fmt.Errorf("%s: %w: %w", msg, util.ErrPersistence, err)
}
