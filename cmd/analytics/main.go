// Command analytics imports event registrations into MySQL and renders the
// report charts.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/iliyamo/event-analytics/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCommand(os.Stdin, os.Stdout, os.Stderr).ExecuteContext(ctx)
	stop()
	if err != nil {
		logging.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
