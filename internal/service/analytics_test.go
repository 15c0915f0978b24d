package service

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/event-analytics/internal/chart"
	"github.com/iliyamo/event-analytics/internal/ingest"
	"github.com/iliyamo/event-analytics/internal/memstore"
	"github.com/iliyamo/event-analytics/internal/report"
)

func fixtureCharts(t *testing.T) *Charts {
	t.Helper()
	store := memstore.New()
	_, err := ingest.NewImporter(store, nil, nil).Run(context.Background(), "../ingest/testdata/attendees_fixture.csv")
	require.NoError(t, err)

	r, err := chart.NewRenderer(chart.Options{OutputDir: t.TempDir(), DPI: 40, EventName: "Fixture"})
	require.NoError(t, err)
	return &Charts{Builder: report.NewBuilder(store), Renderer: r}
}

func TestChartsRenderFromImportedFixture(t *testing.T) {
	svc := fixtureCharts(t)

	paths, err := svc.Render(context.Background())
	require.NoError(t, err)
	require.Len(t, paths, len(chart.Files))
	for _, p := range paths {
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
}

func TestConcurrentRendersLeaveReadableFiles(t *testing.T) {
	svc := fixtureCharts(t)

	var wg sync.WaitGroup
	errs := make([]error, 3)
	var last []string
	var mu sync.Mutex
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			paths, err := svc.Render(context.Background())
			errs[i] = err
			mu.Lock()
			last = paths
			mu.Unlock()
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	require.Len(t, last, len(chart.Files))
	for _, p := range last {
		_, err := imaging.Open(p)
		assert.NoError(t, err, p)
	}
}
