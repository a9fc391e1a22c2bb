// internal/app.go
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"

	"finflow-account/internal/account"
	router "finflow-account/internal/api"
	"finflow-account/internal/api/handler"
	"finflow-account/internal/config"
	"finflow-account/internal/fee"
	"finflow-account/internal/repository"
	"finflow-account/internal/repository/postgres"
	"finflow-account/internal/service"
	"finflow-account/internal/util"
	"finflow-account/pkg/db"
)

// Application holds all the initialized components of the application.
type Application struct {
	Config *config.AppConfig
	Logger *slog.Logger
	DB     *sqlx.DB

	// Repositories
	AccountRepository    repository.AccountRepository
	BalanceRepository    repository.BalanceRepository
	DailyLimitRepository repository.DailyLimitRepository

	// Services
	AccountService service.AccountService

	// HTTP API
	HTTPHandler http.Handler
}

// NewApplication creates a new Application instance.
func NewApplication() *Application {
	return &Application{}
}

// Initialize initializes all application components.
func (app *Application) Initialize(ctx context.Context) error {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	app.Config = cfg

	// 2. Initialize Logger
	util.InitLogger(cfg.LogLevel)
	app.Logger = util.GetLogger()
	app.Logger.Info("Application configuration loaded successfully.",
		"fee_percent", cfg.FeePercent.String(),
		"daily_debit_limit", cfg.DailyDebitLimit,
	)

	// 3. Connect to Database
	database, err := db.NewPostgresDB(app.Config.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = database
	app.Logger.Info("Database connection established.")

	if cfg.DBAutoMigrate {
		if err := postgres.Migrate(ctx, app.DB); err != nil {
			return err
		}
		app.Logger.Info("Database schema applied.")
	}

	// 4. Initialize Repositories
	app.AccountRepository = postgres.NewAccountRepository()
	app.BalanceRepository = postgres.NewBalanceRepository()
	app.DailyLimitRepository = postgres.NewDailyLimitRepository(cfg.DailyDebitLimit, nil)
	app.Logger.Info("Repositories initialized.")

	// 5. Initialize Services
	calculator, err := fee.NewPercentageCalculator(cfg.FeePercent)
	if err != nil {
		return fmt.Errorf("failed to create fee calculator: %w", err)
	}
	app.AccountService = service.NewAccountService(app.DB, app.AccountRepository, account.Deps{
		DBBeginner: app.DB,
		Balances:   app.BalanceRepository,
		Limits:     app.DailyLimitRepository,
		Fees:       calculator,
		BeginTx:    db.BeginTx,
		CommitTx:   db.CommitTx,
		RollbackTx: db.RollbackTx,
		Locker:     account.NewLocker(),
		Logger:     app.Logger,
	})
	app.Logger.Info("Services initialized.")

	// 6. Initialize HTTP Handlers and Router
	accountHandler := handler.NewAccountHandler(app.AccountService, app.Logger)
	app.HTTPHandler = router.NewRouter(accountHandler, app.Logger)
	app.Logger.Info("HTTP router and handlers initialized.")

	return nil
}

// Shutdown gracefully shuts down application resources.
func (app *Application) Shutdown(ctx context.Context) error {
	app.Logger.Info("Shutting down application...")
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			app.Logger.Error("Failed to close database connection", "error", err)
			return fmt.Errorf("failed to close database connection: %w", err)
		}
		app.Logger.Info("Database connection closed.")
	}
	app.Logger.Info("Application shut down gracefully.")
	return nil
}
