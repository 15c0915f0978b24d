package ingest

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/event-analytics/internal/model"
)

type fakeStore struct {
	rows  []model.Attendee
	calls int
	err   error
}

func (s *fakeStore) ReplaceAll(_ context.Context, attendees []model.Attendee, classify func(string) string) (int, error) {
	s.calls++
	if s.err != nil {
		return 0, s.err
	}
	s.rows = make([]model.Attendee, len(attendees))
	copy(s.rows, attendees)
	for i := range s.rows {
		s.rows[i].University = classify(s.rows[i].Email)
	}
	return len(s.rows), nil
}

type fakeNotifier struct {
	got *Result
	err error
}

func (n *fakeNotifier) ImportCompleted(_ context.Context, res *Result) error {
	n.got = res
	return n.err
}

const fixture = "testdata/attendees_fixture.csv"

func TestImporter_Run(t *testing.T) {
	store := &fakeStore{}
	notifier := &fakeNotifier{err: errors.New("broker down")}
	imp := NewImporter(store, nil, notifier)

	res, err := imp.Run(context.Background(), fixture)
	require.NoError(t, err)

	assert.Equal(t, 10, res.Read)
	assert.Equal(t, 2, res.Removed)
	assert.Equal(t, 0, res.Skipped)
	assert.Equal(t, 8, res.Inserted)
	assert.Equal(t, 1, res.InvalidDates)
	assert.NotEmpty(t, res.RunID)
	assert.Same(t, res, notifier.got)

	davis := 0
	for _, a := range store.rows {
		assert.NotEmpty(t, a.Email)
		if a.University == "UC Davis" {
			davis++
		}
	}
	assert.Equal(t, 3, davis)
}

func TestImporter_MissingFileNeverTouchesStore(t *testing.T) {
	store := &fakeStore{}
	res, err := NewImporter(store, nil, nil).Run(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))

	require.ErrorIs(t, err, ErrInputNotFound)
	assert.Nil(t, res)
	assert.Zero(t, store.calls)
}

func TestImporter_StoreErrorIsFailure(t *testing.T) {
	boom := errors.New("connection reset")
	notifier := &fakeNotifier{}
	res, err := NewImporter(&fakeStore{err: boom}, nil, notifier).Run(context.Background(), fixture)

	require.ErrorIs(t, err, boom)
	assert.Nil(t, res)
	assert.Nil(t, notifier.got)
}
