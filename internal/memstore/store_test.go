package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/event-analytics/internal/category"
	"github.com/iliyamo/event-analytics/internal/model"
)

func ptr(s string) *string { return &s }

func seed(t *testing.T) *Store {
	t.Helper()
	rows := []model.Attendee{
		{Email: "a@ucdavis.edu", TicketCreatedDate: ptr("2025-01-11 10:00:00"), VenueCheckin: int64(1), SaturdayLunchCheckin: int64(1), Price: decimal.NewNullDecimal(decimal.NewFromInt(10))},
		{Email: "b@ucdavis.edu", TicketCreatedDate: ptr("2025-01-10 08:00:00"), VenueCheckin: int64(1)},
		{Email: "c@gmail.com", VenueCheckin: "yes", SundayBrunchCheckin: 1.0, Price: decimal.NewNullDecimal(decimal.NewFromInt(25))},
	}
	s := New()
	n, err := s.ReplaceAll(context.Background(), rows, category.University)
	require.NoError(t, err)
	require.Equal(t, 3, n)
	return s
}

func TestReplaceAllClassifiesAndReplaces(t *testing.T) {
	s := seed(t)
	got := s.Attendees()
	assert.Equal(t, category.UCDavis, got[0].University)
	assert.Equal(t, category.NonUniversity, got[2].University)

	_, err := s.ReplaceAll(context.Background(), nil, category.University)
	require.NoError(t, err)
	n, _ := s.Count(context.Background())
	assert.Zero(t, n)
}

func TestReplaceAllNilClassifierKeepsRows(t *testing.T) {
	s := seed(t)
	_, err := s.ReplaceAll(context.Background(), nil, nil)
	assert.ErrorIs(t, err, ErrNilClassifier)
	n, _ := s.Count(context.Background())
	assert.Equal(t, int64(3), n)
}

func TestUniversityStats(t *testing.T) {
	stats, err := seed(t).UniversityStats(context.Background())
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, category.UCDavis, stats[0].University)
	assert.Equal(t, int64(2), stats[0].Attendees)
	assert.Equal(t, int64(3), stats[0].CheckinSum)
	assert.Equal(t, int64(1), stats[0].PriceCount)
	assert.Equal(t, int64(1), stats[1].CheckinSum)
}

func TestCheckinBuckets(t *testing.T) {
	b, err := seed(t).CheckinBuckets(context.Background())
	require.NoError(t, err)
	require.Len(t, b, 2)
	assert.Equal(t, 2, b[0].Checkins)
	assert.Equal(t, 1, b[1].Checkins)
	assert.Equal(t, int64(2), b[1].Attendees)
}

func TestRegistrationsByDay(t *testing.T) {
	days, err := seed(t).RegistrationsByDay(context.Background())
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), days[0].Day)
	assert.Equal(t, int64(2), days[1].Cumulative)
}

func TestTotals(t *testing.T) {
	tot, err := seed(t).Totals(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), tot.Attendees)
	assert.Equal(t, int64(2), tot.Venue)
	assert.Equal(t, int64(1), tot.SaturdayLunch)
	assert.Equal(t, int64(1), tot.SundayBrunch)
	assert.True(t, tot.Revenue.Equal(decimal.NewFromInt(35)))
}
