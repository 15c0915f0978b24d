package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// UniversityStat is one row of the per-university aggregate.  University
// is empty for rows that were never classified.
type UniversityStat struct {
	University string
	Attendees  int64
	CheckinSum int64
	PriceSum   decimal.Decimal
	PriceCount int64 // rows with a non-null price
}

// CheckinBucket groups attendees by their total_checkins value.
type CheckinBucket struct {
	Checkins   int
	Attendees  int64
	PriceSum   decimal.Decimal
	PriceCount int64
}

// DailyRegistrations is one day of the registration timeline; Cumulative is
// the running total ordered by day.
type DailyRegistrations struct {
	Day        time.Time
	Count      int64
	Cumulative int64
}

// Totals holds whole-table sums used by the meal and dashboard reports.
type Totals struct {
	Attendees      int64
	Venue          int64
	SaturdayLunch  int64
	SaturdayDinner int64
	SundayBrunch   int64
	Revenue        decimal.Decimal
}
