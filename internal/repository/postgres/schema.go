// internal/repository/postgres/schema.go
package postgres

import (
	"context"
	_ "embed"
	"fmt"

	"finflow-account/internal/repository"
)

//go:embed schema.sql
var schema string

// Migrate creates the accounts and daily_limits tables if they do not exist yet.
func Migrate(ctx context.Context, q repository.DBExecutor) error {
	if _, err := q.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
