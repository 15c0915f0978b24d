package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/iliyamo/event-analytics/internal/config"
	"github.com/iliyamo/event-analytics/internal/ingest"
	"github.com/iliyamo/event-analytics/internal/queue"
	"github.com/iliyamo/event-analytics/internal/repository"
)

func newImportCommand(cfg *config.Config) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "import [csv-path]",
		Short: "Replace the attendees table with the contents of a CSV export",
		Long: `
Reads the registration export at csv-path (default INPUT_PATH), drops rows
without an email, normalizes dates and check-in flags, and replaces every row
of the attendees table in one transaction. University labels are derived
after the insert.
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := cfg.InputPath
			if len(args) == 1 {
				path = args[0]
			}
			if !yes && !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), fmt.Sprintf("Import data from '%s'? (y/N): ", path)) {
				fmt.Fprintln(cmd.OutOrStdout(), "Import cancelled.")
				return nil
			}

			db, err := openMigrated(cmd, cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			var notifier ingest.Notifier
			if cfg.QueueEnabled {
				notifier = queue.Notifier{URL: cfg.QueueURL}
			}
			imp := ingest.NewImporter(repository.NewAttendeeRepo(db), repository.NewReportRepo(db), notifier)
			res, err := imp.Run(cmd.Context(), path)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d rows from %s (%d without email removed, %d skipped) in %s\n",
				res.Inserted, res.Source, res.Removed, res.Skipped, res.Duration.Round(time.Millisecond))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt.")
	return cmd
}

// confirm prints prompt and reports whether the answer is "y" or "yes".
func confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprint(out, prompt)
	line, _ := bufio.NewReader(in).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
