// internal/service/account_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"finflow-account/internal/account"
	"finflow-account/internal/domain"
	"finflow-account/internal/repository"
	"finflow-account/internal/util"
	"finflow-account/pkg/db"
)

// maxAttempts bounds how often an operation is retried after a transient database failure.
const maxAttempts = 3

// AccountService defines the interface for account-related business logic.
type AccountService interface {
	OpenAccount(ctx context.Context, currency string) (*domain.Account, error)
	GetAccount(ctx context.Context, accountID string) (*domain.Account, error)
	GetDailyLimit(ctx context.Context, accountID string) (domain.DailyLimit, error)
	Debit(ctx context.Context, accountID string, amount int64, currency string) (account.Result, error)
	Credit(ctx context.Context, accountID string, amount int64, currency string) (account.Result, error)
}

// accountService implements the AccountService interface.
type accountService struct {
	dbExecutor  repository.DBExecutor // For non-transactional reads and inserts (e.g., *sqlx.DB)
	accountRepo repository.AccountRepository
	deps        account.Deps
	logger      *slog.Logger
}

// NewAccountService creates a new instance of AccountService. deps is shared by every
// account aggregate the service builds.
func NewAccountService(dbExecutor repository.DBExecutor, accountRepo repository.AccountRepository, deps account.Deps) AccountService {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if deps.Locker == nil {
		deps.Locker = account.NewLocker()
	}
	return &accountService{
		dbExecutor:  dbExecutor,
		accountRepo: accountRepo,
		deps:        deps,
		logger:      logger,
	}
}

// OpenAccount creates an empty account in the given currency.
func (s *accountService) OpenAccount(ctx context.Context, currency string) (*domain.Account, error) {
	cur, err := domain.ParseCurrency(currency)
	if err != nil {
		return nil, err
	}

	acct := domain.NewAccount(cur)
	if err := s.accountRepo.CreateAccount(ctx, s.dbExecutor, acct); err != nil {
		return nil, fmt.Errorf("open account: %w", err)
	}

	s.logger.Info("account opened", "account_id", acct.ID, "currency", acct.Currency)
	return acct, nil
}

// GetAccount returns the stored account.
func (s *accountService) GetAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	id, err := domain.ParseAccountID(accountID)
	if err != nil {
		return nil, err
	}
	return s.findAccount(ctx, id)
}

// GetDailyLimit returns today's debit counter for the account.
func (s *accountService) GetDailyLimit(ctx context.Context, accountID string) (domain.DailyLimit, error) {
	id, err := domain.ParseAccountID(accountID)
	if err != nil {
		return domain.DailyLimit{}, err
	}
	if _, err := s.findAccount(ctx, id); err != nil {
		return domain.DailyLimit{}, err
	}

	dailyLimit, err := s.deps.Limits.GetDailyLimit(ctx, s.dbExecutor, id)
	if err != nil {
		return domain.DailyLimit{}, fmt.Errorf("get daily limit: %w: %w", util.ErrPersistence, err)
	}
	return dailyLimit, nil
}

// Debit takes amount plus fee from the account.
func (s *accountService) Debit(ctx context.Context, accountID string, amount int64, currency string) (account.Result, error) {
	return s.apply(ctx, "debit", accountID, amount, currency, (*account.Account).Debit)
}

// Credit adds amount to the account.
func (s *accountService) Credit(ctx context.Context, accountID string, amount int64, currency string) (account.Result, error) {
	return s.apply(ctx, "credit", accountID, amount, currency, (*account.Account).Credit)
}

type operation func(a *account.Account, ctx context.Context, payment domain.Payment) (account.Result, error)

func (s *accountService) apply(ctx context.Context, name, accountID string, amount int64, currency string, op operation) (account.Result, error) {
	id, err := domain.ParseAccountID(accountID)
	if err != nil {
		return account.Result{}, err
	}
	cur, err := domain.ParseCurrency(currency)
	if err != nil {
		return account.Result{}, err
	}

	logger := s.logger.With("operation", name, "account_id", id)
	logger.Info(name+" started", "amount", amount, "currency", cur)

	acct, err := s.findAccount(ctx, id)
	if err != nil {
		logger.Warn(name+" failed", "error", err)
		return account.Result{}, err
	}

	agg := account.New(id, acct.Currency, s.deps)
	payment := domain.NewPayment(domain.NewMoney(cur, amount))

	var res account.Result
	for attempt := 1; ; attempt++ {
		res, err = op(agg, ctx, payment)
		if err == nil || !db.IsTransient(err) || attempt == maxAttempts || ctx.Err() != nil {
			break
		}
		logger.Warn(name+" hit a transient database error, retrying", "attempt", attempt, "error", err)
	}
	if err != nil {
		logger.Warn(name+" failed", "error", err)
		return account.Result{}, err
	}

	logger.Info(name+" successful", "balance", res.Balance.Value, "fee", res.Fee.Value)
	return res, nil
}

func (s *accountService) findAccount(ctx context.Context, id domain.AccountID) (*domain.Account, error) {
	acct, err := s.accountRepo.GetAccountByID(ctx, s.dbExecutor, id)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return nil, util.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account %s: %w: %w", id, util.ErrPersistence, err)
	}
	return acct, nil
}
