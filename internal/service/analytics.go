// Package service wires the report builder to the chart renderer.
package service

import (
	"context"
	"sync"
	"time"

	"github.com/iliyamo/event-analytics/internal/chart"
	"github.com/iliyamo/event-analytics/internal/logging"
	"github.com/iliyamo/event-analytics/internal/report"
)

// Charts regenerates every chart from the current store contents.  Renders
// are serialized because each one rewrites the same files.
type Charts struct {
	Builder  *report.Builder
	Renderer *chart.Renderer

	mu sync.Mutex
}

// Render builds all reports and writes the chart files.
func (s *Charts) Render(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	started := time.Now()
	set, err := s.Builder.All(ctx)
	if err != nil {
		return nil, err
	}
	paths, err := s.Renderer.RenderAll(set)
	if err != nil {
		return paths, err
	}
	logging.Info().Int("charts", len(paths)).Dur("took", time.Since(started)).Msg("charts rendered")
	return paths, nil
}
