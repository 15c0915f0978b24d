package database

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
)

// Schema is the DDL for the attendees table.  total_checkins is a stored
// generated column: the sum of the venue and meal check-in flags, with
// NULL flags counted as zero.  Mentor and volunteer check-ins are not part
// of it.
//
//go:embed schema.sql
var Schema string

// Migrate creates the attendees table if it does not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("create attendees table: %w", err)
	}
	return nil
}
