// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"finflow-account/internal/fee"
	"finflow-account/pkg/db"
)

// DefaultDailyDebitLimit is the number of debits an account may make per UTC day.
const DefaultDailyDebitLimit = 3

// AppConfig holds all application-wide configurations.
type AppConfig struct {
	ServerPort      string
	LogLevel        string
	DB              db.Config
	DBAutoMigrate   bool
	FeePercent      decimal.Decimal
	DailyDebitLimit int
}

// LoadConfig loads configuration from environment variables, after reading a .env file
// from the working directory when one exists. Variables already set in the environment win.
func LoadConfig() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read .env file: %w", err)
		}
		slog.Debug("No .env file found, relying on environment variables")
	}

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	autoMigrate, err := strconv.ParseBool(getEnv("DB_AUTO_MIGRATE", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_AUTO_MIGRATE: %w", err)
	}

	feePercent := fee.DefaultPercent
	if v, ok := os.LookupEnv("FEE_PERCENT"); ok {
		feePercent, err = decimal.NewFromString(v)
		if err != nil {
			return nil, fmt.Errorf("invalid FEE_PERCENT: %w", err)
		}
		if feePercent.IsNegative() {
			return nil, fmt.Errorf("invalid FEE_PERCENT: must not be negative, got %s", v)
		}
	}

	dailyLimit, err := strconv.Atoi(getEnv("DAILY_DEBIT_LIMIT", strconv.Itoa(DefaultDailyDebitLimit)))
	if err != nil {
		return nil, fmt.Errorf("invalid DAILY_DEBIT_LIMIT: %w", err)
	}
	if dailyLimit <= 0 {
		return nil, fmt.Errorf("invalid DAILY_DEBIT_LIMIT: must be positive, got %d", dailyLimit)
	}

	return &AppConfig{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		DB: db.Config{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("DB_USER", "user"),
			Password: getEnv("DB_PASSWORD", "password"),
			DBName:   getEnv("DB_NAME", "accountdb"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		DBAutoMigrate:   autoMigrate,
		FeePercent:      feePercent,
		DailyDebitLimit: dailyLimit,
	}, nil
}

// getEnv returns the variable's value, or fallback when it is unset or empty.
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
