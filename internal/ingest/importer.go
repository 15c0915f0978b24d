package ingest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/iliyamo/event-analytics/internal/category"
	"github.com/iliyamo/event-analytics/internal/logging"
	"github.com/iliyamo/event-analytics/internal/model"
)

// Store persists a normalized batch.  ReplaceAll must discard the existing
// rows, insert the batch, then classify every inserted row with classify in
// one bulk step, all-or-nothing.  It returns the number of rows inserted.
type Store interface {
	ReplaceAll(ctx context.Context, attendees []model.Attendee, classify func(email string) string) (int, error)
}

// StatsSource is used to log a short per-university summary after a run.
type StatsSource interface {
	UniversityStats(ctx context.Context) ([]model.UniversityStat, error)
}

// Notifier is told about every successful import.
type Notifier interface {
	ImportCompleted(ctx context.Context, res *Result) error
}

// Result describes a finished import.
type Result struct {
	RunID         string        `json:"run_id"`
	Source        string        `json:"source"`
	Read          int           `json:"read"`
	Removed       int           `json:"removed"`
	Skipped       int           `json:"skipped"`
	InvalidDates  int           `json:"invalid_dates"`
	InvalidPrices int           `json:"invalid_prices"`
	Inserted      int           `json:"inserted"`
	Duration      time.Duration `json:"duration"`
}

// Importer runs the ingestion pipeline: read, normalize, replace, classify.
type Importer struct {
	store    Store
	stats    StatsSource
	notifier Notifier
}

// NewImporter returns an importer writing to store.  stats and notifier may
// be nil.
func NewImporter(store Store, stats StatsSource, notifier Notifier) *Importer {
	return &Importer{store: store, stats: stats, notifier: notifier}
}

// Run imports the CSV at path.  A nil error means every valid row is stored
// and classified; on error nothing from this run is visible.
func (i *Importer) Run(ctx context.Context, path string) (*Result, error) {
	started := time.Now()
	res := &Result{RunID: uuid.NewString(), Source: path}
	log := logging.With("run_id", res.RunID)

	records, err := ReadCSV(path)
	if err != nil {
		return nil, err
	}
	res.Read = len(records)
	log.Info().Str("file", path).Int("records", res.Read).Msg("csv loaded")

	norm := Normalize(records)
	res.Removed = norm.Removed
	res.InvalidDates = norm.InvalidDates
	res.InvalidPrices = norm.InvalidPrices
	log.Info().
		Int("removed", norm.Removed).
		Int("valid", len(norm.Attendees)).
		Int("invalid_dates", norm.InvalidDates).
		Int("invalid_prices", norm.InvalidPrices).
		Msg("records normalized")

	batch := make([]model.Attendee, 0, len(norm.Attendees))
	for idx, a := range norm.Attendees {
		if strings.TrimSpace(a.Email) == "" {
			log.Warn().Int("row", idx).Msg("empty email after normalization; skipping")
			res.Skipped++
			continue
		}
		batch = append(batch, a)
	}
	if len(batch) == 0 {
		log.Warn().Msg("no valid records; the attendees table will be emptied")
	}

	n, err := i.store.ReplaceAll(ctx, batch, category.University)
	if err != nil {
		return nil, fmt.Errorf("replace attendees: %w", err)
	}
	res.Inserted = n
	res.Duration = time.Since(started)
	log.Info().Int("inserted", n).Dur("took", res.Duration).Msg("import committed")

	i.logSample(ctx, log)
	if i.notifier != nil {
		if err := i.notifier.ImportCompleted(ctx, res); err != nil {
			log.Warn().Err(err).Msg("import notification failed")
		}
	}
	return res, nil
}

func (i *Importer) logSample(ctx context.Context, log zerolog.Logger) {
	if i.stats == nil {
		return
	}
	stats, err := i.stats.UniversityStats(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("university summary unavailable")
		return
	}
	for idx, s := range stats {
		if idx == 5 {
			break
		}
		avg := 0.0
		if s.Attendees > 0 {
			avg = float64(s.CheckinSum) / float64(s.Attendees)
		}
		log.Info().
			Str("university", s.University).
			Int64("count", s.Attendees).
			Str("avg_engagement", fmt.Sprintf("%.2f", avg)).
			Msg("sample university data")
	}
}
