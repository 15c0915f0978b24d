// Package memstore keeps attendees in memory and answers the report
// queries the same way the MySQL repositories do.  It backs the
// `analytics charts --csv` mode and end-to-end tests.
package memstore

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/event-analytics/internal/model"
)

// ErrNilClassifier is returned by ReplaceAll when classify is nil.
var ErrNilClassifier = errors.New("memstore: nil classifier")

// Store is a goroutine-safe in-memory attendees table.
type Store struct {
	mu   sync.RWMutex
	rows []model.Attendee
}

// New returns an empty store.
func New() *Store { return &Store{} }

// ReplaceAll swaps the table contents for the batch and classifies every
// row.  The swap happens only after every row is classified.
func (s *Store) ReplaceAll(ctx context.Context, attendees []model.Attendee, classify func(string) string) (int, error) {
	if classify == nil {
		return 0, ErrNilClassifier
	}
	rows := make([]model.Attendee, len(attendees))
	copy(rows, attendees)
	for i := range rows {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		rows[i].University = classify(rows[i].Email)
	}

	s.mu.Lock()
	s.rows = rows
	s.mu.Unlock()
	return len(rows), nil
}

// Count returns the number of stored rows.
func (s *Store) Count(context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.rows)), nil
}

// Attendees returns a copy of the stored rows.
func (s *Store) Attendees() []model.Attendee {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Attendee, len(s.rows))
	copy(out, s.rows)
	return out
}

// UniversityStats groups by university, largest group first.
func (s *Store) UniversityStats(context.Context) ([]model.UniversityStat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := map[string]int{}
	var out []model.UniversityStat
	for i := range s.rows {
		a := &s.rows[i]
		j, ok := idx[a.University]
		if !ok {
			j = len(out)
			idx[a.University] = j
			out = append(out, model.UniversityStat{University: a.University})
		}
		st := &out[j]
		st.Attendees++
		st.CheckinSum += int64(a.TotalCheckins())
		if a.Price.Valid {
			st.PriceSum = st.PriceSum.Add(a.Price.Decimal)
			st.PriceCount++
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Attendees != out[j].Attendees {
			return out[i].Attendees > out[j].Attendees
		}
		return out[i].University < out[j].University
	})
	return out, nil
}

// CheckinBuckets groups by total check-ins, highest first.
func (s *Store) CheckinBuckets(context.Context) ([]model.CheckinBucket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := map[int]int{}
	var out []model.CheckinBucket
	for i := range s.rows {
		a := &s.rows[i]
		n := a.TotalCheckins()
		j, ok := idx[n]
		if !ok {
			j = len(out)
			idx[n] = j
			out = append(out, model.CheckinBucket{Checkins: n})
		}
		b := &out[j]
		b.Attendees++
		if a.Price.Valid {
			b.PriceSum = b.PriceSum.Add(a.Price.Decimal)
			b.PriceCount++
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Checkins > out[j].Checkins })
	return out, nil
}

// RegistrationsByDay counts rows per creation day with a running total.
// Rows without a parseable creation date are left out.
func (s *Store) RegistrationsByDay(context.Context) ([]model.DailyRegistrations, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := map[time.Time]int64{}
	for i := range s.rows {
		d := s.rows[i].TicketCreatedDate
		if d == nil || len(*d) < len(dayLayout) {
			continue
		}
		day, err := time.Parse(dayLayout, (*d)[:len(dayLayout)])
		if err != nil {
			continue
		}
		counts[day]++
	}

	out := make([]model.DailyRegistrations, 0, len(counts))
	for day, n := range counts {
		out = append(out, model.DailyRegistrations{Day: day, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	var running int64
	for i := range out {
		running += out[i].Count
		out[i].Cumulative = running
	}
	return out, nil
}

const dayLayout = "2006-01-02"

// Totals sums the whole table.
func (s *Store) Totals(context.Context) (model.Totals, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t := model.Totals{Attendees: int64(len(s.rows)), Revenue: decimal.Zero}
	for i := range s.rows {
		a := &s.rows[i]
		t.Venue += int64(model.CheckinInt(a.VenueCheckin))
		t.SaturdayLunch += int64(model.CheckinInt(a.SaturdayLunchCheckin))
		t.SaturdayDinner += int64(model.CheckinInt(a.SaturdayDinnerCheckin))
		t.SundayBrunch += int64(model.CheckinInt(a.SundayBrunchCheckin))
		if a.Price.Valid {
			t.Revenue = t.Revenue.Add(a.Price.Decimal)
		}
	}
	return t, nil
}
