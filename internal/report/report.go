// Package report turns the aggregate source queries into the seven report
// datasets.  University labels are regrouped here with the category
// mappers; nothing in this package writes to the store.
package report

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/event-analytics/internal/model"
)

// ErrUnknownReport is returned by Build for a name not in Names.
var ErrUnknownReport = errors.New("unknown report")

// Source answers the aggregate queries the reports are built from.
type Source interface {
	UniversityStats(ctx context.Context) ([]model.UniversityStat, error)
	CheckinBuckets(ctx context.Context) ([]model.CheckinBucket, error)
	RegistrationsByDay(ctx context.Context) ([]model.DailyRegistrations, error)
	Totals(ctx context.Context) (model.Totals, error)
}

// Report names as exposed over HTTP.
const (
	NameUniversityBreakdown = "university-breakdown"
	NameEngagement          = "engagement"
	NameTimeline            = "registration-timeline"
	NameRegions             = "regions"
	NameMeals               = "meals"
	NameTopSchools          = "top-schools"
	NameDashboard           = "dashboard"
)

// Names lists every report in chart order.
var Names = []string{
	NameUniversityBreakdown,
	NameEngagement,
	NameTimeline,
	NameRegions,
	NameMeals,
	NameTopSchools,
	NameDashboard,
}

// Group is one slice of a categorical breakdown.
type Group struct {
	Label         string  `json:"label"`
	Attendees     int64   `json:"attendees"`
	AvgEngagement float64 `json:"avg_engagement"`
}

// Tier is one engagement tier.
type Tier struct {
	Tier         string  `json:"tier"`
	Participants int64   `json:"participants"`
	AvgPrice     float64 `json:"avg_price"`
	Share        float64 `json:"share_pct"`

	avgCheckins float64
}

// Engagement is the engagement distribution report.  MediumHighShare is
// the share of participants in the two most engaged tiers present.
type Engagement struct {
	Total           int64   `json:"total"`
	Tiers           []Tier  `json:"tiers"`
	MediumHighShare float64 `json:"medium_high_share_pct"`
}

// Day is one point of the registration timeline.
type Day struct {
	Date          time.Time `json:"date"`
	Registrations int64     `json:"registrations"`
	Cumulative    int64     `json:"cumulative"`
}

// Meal is one row of the meal attendance report.
type Meal struct {
	Meal     string  `json:"meal"`
	Attended int64   `json:"attended"`
	Waste    int64   `json:"waste"`
	Rate     float64 `json:"rate_pct"`
}

// Meal labels, in report order.
const (
	MealSaturdayLunch  = "Sat Lunch"
	MealSaturdayDinner = "Sat Dinner"
	MealSundayBrunch   = "Sun Brunch"
)

// School is one row of the top schools report.
type School struct {
	University    string          `json:"university"`
	ShortName     string          `json:"short_name"`
	Attendees     int64           `json:"attendees"`
	AvgEngagement float64         `json:"avg_engagement"`
	Revenue       decimal.Decimal `json:"revenue"`
}

// Dashboard holds the executive summary metrics.
type Dashboard struct {
	TotalRegistrations int64           `json:"total_registrations"`
	VenueAttendance    int64           `json:"venue_attendance"`
	AttendanceRate     float64         `json:"attendance_rate_pct"`
	Revenue            decimal.Decimal `json:"revenue"`
	Universities       int             `json:"universities"`
	AvgEngagement      float64         `json:"avg_engagement"`
}

// Set carries every report; the chart renderer draws from it.
type Set struct {
	UniversityBreakdown []Group    `json:"university_breakdown"`
	Engagement          Engagement `json:"engagement"`
	Timeline            []Day      `json:"registration_timeline"`
	Regions             []Group    `json:"regions"`
	Meals               []Meal     `json:"meals"`
	TopSchools          []School   `json:"top_schools"`
	Dashboard           Dashboard  `json:"dashboard"`
}

// ratio returns num/den rounded half away from zero, or 0 when den is 0.
func ratio(num decimal.Decimal, den int64, places int32) float64 {
	if den == 0 {
		return 0
	}
	return num.Div(decimal.NewFromInt(den)).Round(places).InexactFloat64()
}

func percent(part, whole int64, places int32) float64 {
	return ratio(decimal.NewFromInt(part*100), whole, places)
}
