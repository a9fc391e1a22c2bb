// internal/account/mocks_test.go
package account

import (
	"context"
	"database/sql"

	"github.com/stretchr/testify/mock"

	"finflow-account/internal/domain"
	"finflow-account/internal/repository"
)

// MockDBExecutor is a mock implementation of repository.DBExecutor.
type MockDBExecutor struct {
	mock.Mock
}

func (m *MockDBExecutor) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return m.Called(ctx, dest, query, args).Error(0)
}

func (m *MockDBExecutor) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return m.Called(ctx, dest, query, args).Error(0)
}

func (m *MockDBExecutor) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	argsCalled := m.Called(ctx, query, args)
	return argsCalled.Get(0).(sql.Result), argsCalled.Error(1)
}

func (m *MockDBExecutor) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	m.Called(ctx, query, args)
	return &sql.Row{}
}

// MockTxController is a mock implementation of db.TxController.
// It embeds MockDBExecutor so it can be used as the transaction's executor.
type MockTxController struct {
	mock.Mock
	MockDBExecutor
}

func (m *MockTxController) Commit() error {
	return m.Called().Error(0)
}

func (m *MockTxController) Rollback() error {
	return m.Called().Error(0)
}

// MockBalanceRepository is a mock implementation of repository.BalanceRepository.
type MockBalanceRepository struct {
	mock.Mock
}

func (m *MockBalanceRepository) GetBalance(ctx context.Context, q repository.DBExecutor, accountID domain.AccountID) (domain.Money, error) {
	args := m.Called(ctx, q, accountID)
	return args.Get(0).(domain.Money), args.Error(1)
}

func (m *MockBalanceRepository) PersistBalance(ctx context.Context, q repository.DBExecutor, accountID domain.AccountID, balance domain.Money) error {
	return m.Called(ctx, q, accountID, balance).Error(0)
}

// MockDailyLimitRepository is a mock implementation of repository.DailyLimitRepository.
type MockDailyLimitRepository struct {
	mock.Mock
}

func (m *MockDailyLimitRepository) ProvideDailyLimit(ctx context.Context, q repository.DBExecutor, accountID domain.AccountID) (domain.DailyLimit, error) {
	args := m.Called(ctx, q, accountID)
	return args.Get(0).(domain.DailyLimit), args.Error(1)
}

func (m *MockDailyLimitRepository) GetDailyLimit(ctx context.Context, q repository.DBExecutor, accountID domain.AccountID) (domain.DailyLimit, error) {
	args := m.Called(ctx, q, accountID)
	return args.Get(0).(domain.DailyLimit), args.Error(1)
}

func (m *MockDailyLimitRepository) PersistDailyLimit(ctx context.Context, q repository.DBExecutor, dailyLimit domain.DailyLimit) error {
	return m.Called(ctx, q, dailyLimit).Error(0)
}
