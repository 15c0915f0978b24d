package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/iliyamo/event-analytics/internal/config"
	"github.com/iliyamo/event-analytics/internal/logging"
)

func newRootCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	cfg := config.Load()
	rc := &cobra.Command{
		Use:   "analytics",
		Short: "Event registration analytics",
		Long: `analytics loads a registration export into the attendees table and
draws seven summary charts from it.

Connection settings, the default input file and the chart directory come
from the environment (optionally a .env file).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: stderr})
		},
	}
	rc.SetIn(stdin)
	rc.SetOut(stdout)
	rc.SetErr(stderr)

	rc.AddCommand(newMigrateCommand(&cfg))
	rc.AddCommand(newImportCommand(&cfg))
	rc.AddCommand(newChartsCommand(&cfg))
	rc.AddCommand(newTokenCommand(&cfg))
	return rc
}
