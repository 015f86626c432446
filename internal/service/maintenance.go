package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jask/framebuilder/internal/database"
)

// MaintenanceService houses destructive actions surfaced through the CLI and TUI.
type MaintenanceService struct {
	DB *sql.DB
}

// Reset wipes the saved board. The schema stays intact and the next load
// reports that nothing has been saved.
func (s *MaintenanceService) Reset(ctx context.Context) error {
	if s.DB == nil {
		return fmt.Errorf("maintenance: db not configured")
	}
	if err := database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		tables := []string{
			"frame_images",
			"frames",
			"image_sizes",
			"images",
		}
		for _, t := range tables {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+t); err != nil {
				return fmt.Errorf("reset table %s: %w", t, err)
			}
		}
		if _, err := tx.ExecContext(ctx, `UPDATE board_meta SET revision = 0, saved_at = NULL WHERE id = 1`); err != nil {
			return fmt.Errorf("reset meta: %w", err)
		}
		return nil
	}); err != nil {
		return err
	}
	_, _ = s.DB.ExecContext(ctx, "VACUUM")
	return nil
}
