// Package migrations provides embedded SQL migration files.
package migrations

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
)

//go:embed sql/001_history.sql
var HistorySQL string

// all lists migrations in the order they are applied. Each must be idempotent.
var all = []string{HistorySQL}

// Apply runs every migration against db.
func Apply(ctx context.Context, db *sql.DB) error {
	for i, m := range all {
		if _, err := db.ExecContext(ctx, m); err != nil {
			return fmt.Errorf("migration %03d: %w", i+1, err)
		}
	}
	return nil
}
