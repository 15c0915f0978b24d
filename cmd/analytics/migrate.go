package main

import (
	"database/sql"

	"github.com/spf13/cobra"

	"github.com/iliyamo/event-analytics/internal/config"
	"github.com/iliyamo/event-analytics/internal/database"
	"github.com/iliyamo/event-analytics/internal/logging"
)

func newMigrateCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the attendees table if it does not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openMigrated(cmd, cfg)
			if err != nil {
				return err
			}
			defer db.Close()
			logging.Info().Str("database", cfg.DBName).Msg("schema ready")
			return nil
		},
	}
}

// openMigrated connects to the configured database and applies the schema.
// The caller closes the returned handle.
func openMigrated(cmd *cobra.Command, cfg *config.Config) (*sql.DB, error) {
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(cmd.Context(), db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
