// Package queue carries import completion events over RabbitMQ.
package queue

import (
	"time"

	"github.com/iliyamo/event-analytics/internal/ingest"
)

// ImportQueue is the durable queue import completions are published to.
const ImportQueue = "attendees.imported"

// ImportCompletedEvent is published after an import commits.  It carries
// enough for a consumer to decide whether to refresh derived artifacts
// without querying the database.
type ImportCompletedEvent struct {
	RunID       string    `json:"run_id"`
	SourcePath  string    `json:"source_path"`
	Inserted    int       `json:"inserted"`
	Removed     int       `json:"removed"`
	Skipped     int       `json:"skipped"`
	CompletedAt time.Time `json:"completed_at"`
}

// EventFromResult builds the event for a finished import.
func EventFromResult(res *ingest.Result, at time.Time) ImportCompletedEvent {
	return ImportCompletedEvent{
		RunID:       res.RunID,
		SourcePath:  res.Source,
		Inserted:    res.Inserted,
		Removed:     res.Removed,
		Skipped:     res.Skipped,
		CompletedAt: at.UTC(),
	}
}
