package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iliyamo/event-analytics/internal/model"
)

// ReportRepo runs the read-only aggregate queries behind the reports.
type ReportRepo struct {
	db *sql.DB
}

// NewReportRepo returns a new ReportRepo bound to the given database.
func NewReportRepo(db *sql.DB) *ReportRepo { return &ReportRepo{db: db} }

const universityStatsSQL = `SELECT COALESCE(university, ''), COUNT(*),
       COALESCE(SUM(total_checkins), 0), COALESCE(SUM(price), 0), COUNT(price)
FROM attendees
GROUP BY university
ORDER BY COUNT(*) DESC, university`

// UniversityStats aggregates attendees per stored university label.
func (r *ReportRepo) UniversityStats(ctx context.Context) ([]model.UniversityStat, error) {
	rows, err := r.db.QueryContext(ctx, universityStatsSQL)
	if err != nil {
		return nil, fmt.Errorf("university stats: %w", err)
	}
	defer rows.Close()

	var out []model.UniversityStat
	for rows.Next() {
		var s model.UniversityStat
		if err := rows.Scan(&s.University, &s.Attendees, &s.CheckinSum, &s.PriceSum, &s.PriceCount); err != nil {
			return nil, fmt.Errorf("scan university stats: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

const checkinBucketsSQL = `SELECT COALESCE(total_checkins, 0) AS checkins, COUNT(*),
       COALESCE(SUM(price), 0), COUNT(price)
FROM attendees
GROUP BY checkins
ORDER BY checkins DESC`

// CheckinBuckets aggregates attendees per total_checkins value.
func (r *ReportRepo) CheckinBuckets(ctx context.Context) ([]model.CheckinBucket, error) {
	rows, err := r.db.QueryContext(ctx, checkinBucketsSQL)
	if err != nil {
		return nil, fmt.Errorf("checkin buckets: %w", err)
	}
	defer rows.Close()

	var out []model.CheckinBucket
	for rows.Next() {
		var b model.CheckinBucket
		if err := rows.Scan(&b.Checkins, &b.Attendees, &b.PriceSum, &b.PriceCount); err != nil {
			return nil, fmt.Errorf("scan checkin buckets: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// The running total is a window over the grouped rows, ordered by day.
const registrationsByDaySQL = `SELECT DATE(ticket_created_date) AS day, COUNT(*),
       SUM(COUNT(*)) OVER (ORDER BY DATE(ticket_created_date))
FROM attendees
WHERE ticket_created_date IS NOT NULL
GROUP BY DATE(ticket_created_date)
ORDER BY day`

// RegistrationsByDay returns daily registrations with a cumulative total.
func (r *ReportRepo) RegistrationsByDay(ctx context.Context) ([]model.DailyRegistrations, error) {
	rows, err := r.db.QueryContext(ctx, registrationsByDaySQL)
	if err != nil {
		return nil, fmt.Errorf("registrations by day: %w", err)
	}
	defer rows.Close()

	var out []model.DailyRegistrations
	for rows.Next() {
		var d model.DailyRegistrations
		if err := rows.Scan(&d.Day, &d.Count, &d.Cumulative); err != nil {
			return nil, fmt.Errorf("scan registrations by day: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

const totalsSQL = `SELECT COUNT(*),
       COALESCE(SUM(venue_checkin), 0),
       COALESCE(SUM(saturday_lunch_checkin), 0),
       COALESCE(SUM(saturday_dinner_checkin), 0),
       COALESCE(SUM(sunday_brunch_checkin), 0),
       COALESCE(SUM(price), 0)
FROM attendees`

// Totals returns whole-table counts and sums.
func (r *ReportRepo) Totals(ctx context.Context) (model.Totals, error) {
	var t model.Totals
	err := r.db.QueryRowContext(ctx, totalsSQL).Scan(
		&t.Attendees, &t.Venue, &t.SaturdayLunch, &t.SaturdayDinner, &t.SundayBrunch, &t.Revenue)
	if err != nil {
		return model.Totals{}, fmt.Errorf("totals: %w", err)
	}
	return t, nil
}
