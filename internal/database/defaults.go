package database

import (
	"context"
	"database/sql"
	"fmt"
)

// EnsureMeta makes sure the singleton board_meta row exists.
// It is idempotent and safe to run on every startup.
func EnsureMeta(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `INSERT OR IGNORE INTO board_meta(id) VALUES (1)`); err != nil {
		return fmt.Errorf("ensure board meta: %w", err)
	}
	return nil
}
