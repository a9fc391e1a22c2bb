// internal/account/account_test.go
package account

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"finflow-account/internal/domain"
	"finflow-account/internal/fee"
	"finflow-account/internal/util"
	"finflow-account/pkg/db"
)

const (
	accountID      = domain.AccountID("f683a8f5-3551-4116-b85f-def6b0b5aa79")
	usd            = domain.Currency("USD")
	currentBalance = int64(10000)
)

var today = time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)

type fixture struct {
	account  *Account
	balances *MockBalanceRepository
	limits   *MockDailyLimitRepository
	tx       *MockTxController
	begun    int
}

// newFixture builds an Account charging a 5% fee on top of fresh mocks.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	calc, err := fee.NewPercentageCalculator(decimal.NewFromInt(5))
	require.NoError(t, err)

	f := &fixture{
		balances: new(MockBalanceRepository),
		limits:   new(MockDailyLimitRepository),
		tx:       new(MockTxController),
	}
	f.account = New(accountID, usd, Deps{
		Balances: f.balances,
		Limits:   f.limits,
		Fees:     calc,
		BeginTx: func(ctx context.Context, dbConn db.DBTxBeginner) (db.TxController, error) {
			f.begun++
			return f.tx, nil
		},
		CommitTx:   func(tx db.TxController) error { return tx.Commit() },
		RollbackTx: func(tx db.TxController) { _ = tx.Rollback() },
		Locker:     NewLocker(),
	})
	return f
}

func (f *fixture) assertExpectations(t *testing.T) {
	t.Helper()
	mock.AssertExpectationsForObjects(t, f.balances, f.limits, f.tx)
}

func (f *fixture) expectNoWrites(t *testing.T) {
	t.Helper()
	f.balances.AssertNotCalled(t, "PersistBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.limits.AssertNotCalled(t, "PersistDailyLimit", mock.Anything, mock.Anything, mock.Anything)
	f.tx.AssertNotCalled(t, "Commit")
}

func payment(currency domain.Currency, value int64) domain.Payment {
	return domain.NewPayment(domain.NewMoney(currency, value))
}

func TestDebit(t *testing.T) {
	ctx := context.Background()

	t.Run("SuccessfulDebit", func(t *testing.T) {
		f := newFixture(t)
		limit := domain.NewDailyLimit(accountID, today, 0, 3)

		f.balances.On("GetBalance", ctx, f.tx, accountID).Return(domain.NewMoney(usd, currentBalance), nil).Once()
		f.limits.On("ProvideDailyLimit", ctx, f.tx, accountID).Return(limit, nil).Once()
		f.balances.On("PersistBalance", ctx, f.tx, accountID, domain.NewMoney(usd, 8950)).Return(nil).Once()
		f.limits.On("PersistDailyLimit", ctx, f.tx, domain.NewDailyLimit(accountID, today, 1, 3)).Return(nil).Once()
		f.tx.On("Commit").Return(nil).Once()
		f.tx.On("Rollback").Return(nil).Once() // deferred, a no-op after commit

		res, err := f.account.Debit(ctx, payment(usd, 1000))

		require.NoError(t, err)
		assert.Equal(t, domain.NewMoney(usd, 8950), res.Balance)
		assert.Equal(t, domain.NewMoney(usd, 50), res.Fee)
		require.NotNil(t, res.DailyLimit)
		assert.Equal(t, 1, res.DailyLimit.Counter)
		assert.Equal(t, 0, limit.Counter, "loaded limit must not be mutated")
		f.assertExpectations(t)
	})

	t.Run("DebitOfWholeBalanceIncludingFee", func(t *testing.T) {
		f := newFixture(t)

		f.balances.On("GetBalance", ctx, f.tx, accountID).Return(domain.NewMoney(usd, 1050), nil).Once()
		f.limits.On("ProvideDailyLimit", ctx, f.tx, accountID).Return(domain.NewDailyLimit(accountID, today, 2, 3), nil).Once()
		f.balances.On("PersistBalance", ctx, f.tx, accountID, domain.NewMoney(usd, 0)).Return(nil).Once()
		f.limits.On("PersistDailyLimit", ctx, f.tx, domain.NewDailyLimit(accountID, today, 3, 3)).Return(nil).Once()
		f.tx.On("Commit").Return(nil).Once()
		f.tx.On("Rollback").Return(nil).Once()

		res, err := f.account.Debit(ctx, payment(usd, 1000))

		require.NoError(t, err)
		assert.Equal(t, int64(0), res.Balance.Value)
		assert.True(t, res.DailyLimit.IsLimitReached())
		f.assertExpectations(t)
	})

	t.Run("CurrencyMismatch", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.account.Debit(ctx, payment("EUR", 1000))

		assert.ErrorIs(t, err, util.ErrCurrencyMismatch)
		assert.Zero(t, f.begun, "no transaction should be started")
		f.balances.AssertNotCalled(t, "GetBalance", mock.Anything, mock.Anything, mock.Anything)
		f.expectNoWrites(t)
	})

	t.Run("InsufficientFunds", func(t *testing.T) {
		f := newFixture(t)

		f.balances.On("GetBalance", ctx, f.tx, accountID).Return(domain.NewMoney(usd, 1000), nil).Once()
		f.tx.On("Rollback").Return(nil).Once()

		_, err := f.account.Debit(ctx, payment(usd, 1000))

		assert.ErrorIs(t, err, util.ErrInsufficientFunds)
		f.limits.AssertNotCalled(t, "ProvideDailyLimit", mock.Anything, mock.Anything, mock.Anything)
		f.expectNoWrites(t)
		f.assertExpectations(t)
	})

	t.Run("DailyLimitReached", func(t *testing.T) {
		f := newFixture(t)

		f.balances.On("GetBalance", ctx, f.tx, accountID).Return(domain.NewMoney(usd, currentBalance), nil).Once()
		f.limits.On("ProvideDailyLimit", ctx, f.tx, accountID).Return(domain.NewDailyLimit(accountID, today, 3, 3), nil).Once()
		f.tx.On("Rollback").Return(nil).Once()

		_, err := f.account.Debit(ctx, payment(usd, 1000))

		assert.ErrorIs(t, err, util.ErrDailyLimitReached)
		f.expectNoWrites(t)
		f.assertExpectations(t)
	})

	t.Run("InvalidAmount", func(t *testing.T) {
		f := newFixture(t)

		f.balances.On("GetBalance", ctx, f.tx, accountID).Return(domain.NewMoney(usd, currentBalance), nil).Once()
		f.limits.On("ProvideDailyLimit", ctx, f.tx, accountID).Return(domain.NewDailyLimit(accountID, today, 0, 3), nil).Once()
		f.tx.On("Rollback").Return(nil).Once()

		_, err := f.account.Debit(ctx, payment(usd, -1000))

		assert.ErrorIs(t, err, util.ErrInvalidAmount)
		f.expectNoWrites(t)
		f.assertExpectations(t)
	})

	t.Run("ZeroAmount", func(t *testing.T) {
		f := newFixture(t)

		f.balances.On("GetBalance", ctx, f.tx, accountID).Return(domain.NewMoney(usd, currentBalance), nil).Once()
		f.limits.On("ProvideDailyLimit", ctx, f.tx, accountID).Return(domain.NewDailyLimit(accountID, today, 0, 3), nil).Once()
		f.tx.On("Rollback").Return(nil).Once()

		_, err := f.account.Debit(ctx, payment(usd, 0))

		assert.ErrorIs(t, err, util.ErrInvalidAmount)
		f.expectNoWrites(t)
	})

	t.Run("LimitCheckedBeforeAmount", func(t *testing.T) {
		f := newFixture(t)

		f.balances.On("GetBalance", ctx, f.tx, accountID).Return(domain.NewMoney(usd, currentBalance), nil).Once()
		f.limits.On("ProvideDailyLimit", ctx, f.tx, accountID).Return(domain.NewDailyLimit(accountID, today, 3, 3), nil).Once()
		f.tx.On("Rollback").Return(nil).Once()

		_, err := f.account.Debit(ctx, payment(usd, -1000))

		assert.ErrorIs(t, err, util.ErrDailyLimitReached)
		assert.NotErrorIs(t, err, util.ErrInvalidAmount)
		f.expectNoWrites(t)
	})

	t.Run("FundsCheckedBeforeLimit", func(t *testing.T) {
		f := newFixture(t)

		f.balances.On("GetBalance", ctx, f.tx, accountID).Return(domain.NewMoney(usd, 10), nil).Once()
		f.tx.On("Rollback").Return(nil).Once()

		_, err := f.account.Debit(ctx, payment(usd, 1000))

		assert.ErrorIs(t, err, util.ErrInsufficientFunds)
		f.limits.AssertNotCalled(t, "ProvideDailyLimit", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("TotalOverflowIsInsufficientFunds", func(t *testing.T) {
		f := newFixture(t)

		f.balances.On("GetBalance", ctx, f.tx, accountID).Return(domain.NewMoney(usd, currentBalance), nil).Once()
		f.tx.On("Rollback").Return(nil).Once()

		_, err := f.account.Debit(ctx, payment(usd, math.MaxInt64))

		assert.ErrorIs(t, err, util.ErrInsufficientFunds)
		assert.NotErrorIs(t, err, util.ErrInvalidAmount)
		f.limits.AssertNotCalled(t, "ProvideDailyLimit", mock.Anything, mock.Anything, mock.Anything)
		f.expectNoWrites(t)
		f.assertExpectations(t)
	})

	t.Run("TotalUnderflowIsInvalidAmount", func(t *testing.T) {
		f := newFixture(t)

		f.balances.On("GetBalance", ctx, f.tx, accountID).Return(domain.NewMoney(usd, currentBalance), nil).Once()
		f.limits.On("ProvideDailyLimit", ctx, f.tx, accountID).Return(domain.NewDailyLimit(accountID, today, 0, 3), nil).Once()
		f.tx.On("Rollback").Return(nil).Once()

		_, err := f.account.Debit(ctx, payment(usd, math.MinInt64))

		assert.ErrorIs(t, err, util.ErrInvalidAmount)
		f.expectNoWrites(t)
		f.assertExpectations(t)
	})

	t.Run("StoredBalanceInOtherCurrency", func(t *testing.T) {
		f := newFixture(t)

		f.balances.On("GetBalance", ctx, f.tx, accountID).Return(domain.NewMoney("EUR", currentBalance), nil).Once()
		f.tx.On("Rollback").Return(nil).Once()

		_, err := f.account.Debit(ctx, payment(usd, 1000))

		assert.ErrorIs(t, err, util.ErrCurrencyMismatch)
		f.expectNoWrites(t)
	})

	t.Run("BeginTxFails", func(t *testing.T) {
		f := newFixture(t)
		f.account.deps.BeginTx = func(ctx context.Context, dbConn db.DBTxBeginner) (db.TxController, error) {
			return nil, errors.New("too many connections")
		}

		_, err := f.account.Debit(ctx, payment(usd, 1000))

		assert.ErrorIs(t, err, util.ErrPersistence)
		assert.ErrorContains(t, err, "too many connections")
	})

	t.Run("GetBalanceFails", func(t *testing.T) {
		f := newFixture(t)

		f.balances.On("GetBalance", ctx, f.tx, accountID).Return(domain.Money{}, util.ErrNotFound).Once()
		f.tx.On("Rollback").Return(nil).Once()

		_, err := f.account.Debit(ctx, payment(usd, 1000))

		assert.ErrorIs(t, err, util.ErrPersistence)
		assert.ErrorIs(t, err, util.ErrNotFound)
		f.expectNoWrites(t)
	})

	t.Run("PersistDailyLimitFailsRollsBackBalance", func(t *testing.T) {
		f := newFixture(t)

		f.balances.On("GetBalance", ctx, f.tx, accountID).Return(domain.NewMoney(usd, currentBalance), nil).Once()
		f.limits.On("ProvideDailyLimit", ctx, f.tx, accountID).Return(domain.NewDailyLimit(accountID, today, 0, 3), nil).Once()
		f.balances.On("PersistBalance", ctx, f.tx, accountID, domain.NewMoney(usd, 8950)).Return(nil).Once()
		f.limits.On("PersistDailyLimit", ctx, f.tx, mock.AnythingOfType("domain.DailyLimit")).Return(errors.New("disk full")).Once()
		f.tx.On("Rollback").Return(nil).Once()

		_, err := f.account.Debit(ctx, payment(usd, 1000))

		assert.ErrorIs(t, err, util.ErrPersistence)
		assert.ErrorContains(t, err, "failed to persist daily limit")
		f.tx.AssertNotCalled(t, "Commit")
		f.assertExpectations(t)
	})

	t.Run("PersistBalanceFails", func(t *testing.T) {
		f := newFixture(t)

		f.balances.On("GetBalance", ctx, f.tx, accountID).Return(domain.NewMoney(usd, currentBalance), nil).Once()
		f.limits.On("ProvideDailyLimit", ctx, f.tx, accountID).Return(domain.NewDailyLimit(accountID, today, 0, 3), nil).Once()
		f.balances.On("PersistBalance", ctx, f.tx, accountID, domain.NewMoney(usd, 8950)).Return(errors.New("db error")).Once()
		f.tx.On("Rollback").Return(nil).Once()

		_, err := f.account.Debit(ctx, payment(usd, 1000))

		assert.ErrorIs(t, err, util.ErrPersistence)
		f.limits.AssertNotCalled(t, "PersistDailyLimit", mock.Anything, mock.Anything, mock.Anything)
		f.tx.AssertNotCalled(t, "Commit")
	})

	t.Run("CommitFails", func(t *testing.T) {
		f := newFixture(t)

		f.balances.On("GetBalance", ctx, f.tx, accountID).Return(domain.NewMoney(usd, currentBalance), nil).Once()
		f.limits.On("ProvideDailyLimit", ctx, f.tx, accountID).Return(domain.NewDailyLimit(accountID, today, 0, 3), nil).Once()
		f.balances.On("PersistBalance", ctx, f.tx, accountID, domain.NewMoney(usd, 8950)).Return(nil).Once()
		f.limits.On("PersistDailyLimit", ctx, f.tx, domain.NewDailyLimit(accountID, today, 1, 3)).Return(nil).Once()
		f.tx.On("Commit").Return(errors.New("connection lost")).Once()
		f.tx.On("Rollback").Return(nil).Once()

		_, err := f.account.Debit(ctx, payment(usd, 1000))

		assert.ErrorIs(t, err, util.ErrPersistence)
		assert.ErrorContains(t, err, "failed to commit transaction")
		f.assertExpectations(t)
	})
}

func TestCredit(t *testing.T) {
	ctx := context.Background()

	t.Run("SuccessfulCredit", func(t *testing.T) {
		f := newFixture(t)

		f.balances.On("GetBalance", ctx, f.tx, accountID).Return(domain.NewMoney(usd, currentBalance), nil).Once()
		f.balances.On("PersistBalance", ctx, f.tx, accountID, domain.NewMoney(usd, 11000)).Return(nil).Once()
		f.tx.On("Commit").Return(nil).Once()
		f.tx.On("Rollback").Return(nil).Once()

		res, err := f.account.Credit(ctx, payment(usd, 1000))

		require.NoError(t, err)
		assert.Equal(t, domain.NewMoney(usd, 11000), res.Balance)
		assert.Equal(t, int64(0), res.Fee.Value)
		assert.Nil(t, res.DailyLimit)
		f.limits.AssertNotCalled(t, "ProvideDailyLimit", mock.Anything, mock.Anything, mock.Anything)
		f.limits.AssertNotCalled(t, "PersistDailyLimit", mock.Anything, mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})

	t.Run("CurrencyMismatch", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.account.Credit(ctx, payment("EUR", 1000))

		assert.ErrorIs(t, err, util.ErrCurrencyMismatch)
		assert.Zero(t, f.begun)
		f.expectNoWrites(t)
	})

	t.Run("InvalidAmount", func(t *testing.T) {
		for _, value := range []int64{-1, 0} {
			f := newFixture(t)

			_, err := f.account.Credit(ctx, payment(usd, value))

			assert.ErrorIs(t, err, util.ErrInvalidAmount)
			assert.Zero(t, f.begun)
			f.expectNoWrites(t)
		}
	})

	t.Run("BalanceOverflow", func(t *testing.T) {
		f := newFixture(t)

		f.balances.On("GetBalance", ctx, f.tx, accountID).Return(domain.NewMoney(usd, currentBalance), nil).Once()
		f.tx.On("Rollback").Return(nil).Once()

		res, err := f.account.Credit(ctx, payment(usd, math.MaxInt64))

		assert.ErrorIs(t, err, util.ErrInvalidAmount)
		assert.Zero(t, res.Balance.Value)
		f.expectNoWrites(t)
		f.assertExpectations(t)
	})

	t.Run("PersistBalanceFails", func(t *testing.T) {
		f := newFixture(t)

		f.balances.On("GetBalance", ctx, f.tx, accountID).Return(domain.NewMoney(usd, currentBalance), nil).Once()
		f.balances.On("PersistBalance", ctx, f.tx, accountID, domain.NewMoney(usd, 11000)).Return(errors.New("db error")).Once()
		f.tx.On("Rollback").Return(nil).Once()

		_, err := f.account.Credit(ctx, payment(usd, 1000))

		assert.ErrorIs(t, err, util.ErrPersistence)
		f.tx.AssertNotCalled(t, "Commit")
		f.assertExpectations(t)
	})
}

func TestAddInt64(t *testing.T) {
	tests := []struct {
		name       string
		a, b       int64
		want       int64
		overflowed bool
	}{
		{"InRange", 10000, 1000, 11000, false},
		{"UpToMax", math.MaxInt64 - 1, 1, math.MaxInt64, false},
		{"PastMax", currentBalance, math.MaxInt64, math.MaxInt64, true},
		{"DownToMin", math.MinInt64 + 1, -1, math.MinInt64, false},
		{"PastMin", math.MinInt64, -50, math.MinInt64, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, overflowed := addInt64(tt.a, tt.b)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.overflowed, overflowed)
		})
	}
}
