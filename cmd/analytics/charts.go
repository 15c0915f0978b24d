package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iliyamo/event-analytics/internal/chart"
	"github.com/iliyamo/event-analytics/internal/config"
	"github.com/iliyamo/event-analytics/internal/ingest"
	"github.com/iliyamo/event-analytics/internal/memstore"
	"github.com/iliyamo/event-analytics/internal/report"
	"github.com/iliyamo/event-analytics/internal/repository"
	"github.com/iliyamo/event-analytics/internal/service"
)

type chartsCmd struct {
	csv   string
	out   string
	dpi   float64
	event string
}

func newChartsCommand(cfg *config.Config) *cobra.Command {
	cc := &chartsCmd{}
	cmd := &cobra.Command{
		Use:   "charts",
		Short: "Render the seven report charts",
		Long: `
Runs the report queries against the attendees table and writes the chart
images to the output directory. With --csv the file is imported into memory
instead, and MySQL is not needed.
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var src report.Source
			if cc.csv != "" {
				store := memstore.New()
				if _, err := ingest.NewImporter(store, nil, nil).Run(cmd.Context(), cc.csv); err != nil {
					return err
				}
				src = store
			} else {
				db, err := openMigrated(cmd, cfg)
				if err != nil {
					return err
				}
				defer db.Close()
				src = repository.NewReportRepo(db)
			}

			r, err := chart.NewRenderer(chart.Options{OutputDir: cc.out, DPI: cc.dpi, EventName: cc.event})
			if err != nil {
				return err
			}
			svc := &service.Charts{Builder: report.NewBuilder(src), Renderer: r}
			paths, err := svc.Render(cmd.Context())
			if err != nil {
				return err
			}
			for _, p := range paths {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&cc.csv, "csv", "", "Render from this CSV export instead of the database.")
	flags.StringVarP(&cc.out, "out", "o", cfg.ChartDir, "Directory the charts are written to.")
	flags.Float64Var(&cc.dpi, "dpi", cfg.ChartDPI, "Output resolution in dots per inch.")
	flags.StringVar(&cc.event, "event", cfg.EventName, "Event name used in chart titles.")
	return cmd
}
