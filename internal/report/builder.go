package report

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/iliyamo/event-analytics/internal/category"
	"github.com/iliyamo/event-analytics/internal/model"
)

// Top schools defaults.
const (
	DefaultMinSchoolSize = 8
	DefaultMaxSchools    = 12
)

// Builder assembles reports from a Source.
type Builder struct {
	src Source

	// MinSchoolSize and MaxSchools bound the top schools report.
	MinSchoolSize int64
	MaxSchools    int
}

// NewBuilder returns a builder reading from src.
func NewBuilder(src Source) *Builder {
	return &Builder{src: src, MinSchoolSize: DefaultMinSchoolSize, MaxSchools: DefaultMaxSchools}
}

// Build returns the report called name.
func (b *Builder) Build(ctx context.Context, name string) (any, error) {
	switch name {
	case NameUniversityBreakdown:
		return b.UniversityBreakdown(ctx)
	case NameEngagement:
		return b.Engagement(ctx)
	case NameTimeline:
		return b.Timeline(ctx)
	case NameRegions:
		return b.Regions(ctx)
	case NameMeals:
		return b.Meals(ctx)
	case NameTopSchools:
		return b.TopSchools(ctx)
	case NameDashboard:
		return b.Dashboard(ctx)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownReport, name)
}

// All builds every report.
func (b *Builder) All(ctx context.Context) (*Set, error) {
	stats, err := b.src.UniversityStats(ctx)
	if err != nil {
		return nil, err
	}
	buckets, err := b.src.CheckinBuckets(ctx)
	if err != nil {
		return nil, err
	}
	days, err := b.src.RegistrationsByDay(ctx)
	if err != nil {
		return nil, err
	}
	totals, err := b.src.Totals(ctx)
	if err != nil {
		return nil, err
	}
	return &Set{
		UniversityBreakdown: groupBy(stats, category.SchoolType),
		Engagement:          engagement(buckets),
		Timeline:            timeline(days),
		Regions:             groupBy(stats, category.Region),
		Meals:               meals(totals),
		TopSchools:          b.topSchools(stats),
		Dashboard:           dashboard(totals, stats),
	}, nil
}

// UniversityBreakdown groups attendees by school type.
func (b *Builder) UniversityBreakdown(ctx context.Context) ([]Group, error) {
	stats, err := b.src.UniversityStats(ctx)
	if err != nil {
		return nil, err
	}
	return groupBy(stats, category.SchoolType), nil
}

// Regions groups attendees by region.
func (b *Builder) Regions(ctx context.Context) ([]Group, error) {
	stats, err := b.src.UniversityStats(ctx)
	if err != nil {
		return nil, err
	}
	return groupBy(stats, category.Region), nil
}

// Engagement buckets participants into engagement tiers.
func (b *Builder) Engagement(ctx context.Context) (Engagement, error) {
	buckets, err := b.src.CheckinBuckets(ctx)
	if err != nil {
		return Engagement{}, err
	}
	return engagement(buckets), nil
}

// Timeline returns daily and cumulative registrations by ascending date.
func (b *Builder) Timeline(ctx context.Context) ([]Day, error) {
	days, err := b.src.RegistrationsByDay(ctx)
	if err != nil {
		return nil, err
	}
	return timeline(days), nil
}

// Meals reports attendance and waste for the three tracked meals.
func (b *Builder) Meals(ctx context.Context) ([]Meal, error) {
	t, err := b.src.Totals(ctx)
	if err != nil {
		return nil, err
	}
	return meals(t), nil
}

// TopSchools lists the largest classified universities.
func (b *Builder) TopSchools(ctx context.Context) ([]School, error) {
	stats, err := b.src.UniversityStats(ctx)
	if err != nil {
		return nil, err
	}
	return b.topSchools(stats), nil
}

// Dashboard summarizes the whole event.
func (b *Builder) Dashboard(ctx context.Context) (Dashboard, error) {
	t, err := b.src.Totals(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	stats, err := b.src.UniversityStats(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	return dashboard(t, stats), nil
}

// groupBy relabels each university with label and merges equal labels.
// Largest group first; ties by label.
func groupBy(stats []model.UniversityStat, label func(string) string) []Group {
	type acc struct{ n, checkins int64 }
	sums := map[string]*acc{}
	for _, s := range stats {
		l := label(s.University)
		a, ok := sums[l]
		if !ok {
			a = &acc{}
			sums[l] = a
		}
		a.n += s.Attendees
		a.checkins += s.CheckinSum
	}

	out := make([]Group, 0, len(sums))
	for l, a := range sums {
		out = append(out, Group{
			Label:         l,
			Attendees:     a.n,
			AvgEngagement: ratio(decimal.NewFromInt(a.checkins), a.n, 2),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Attendees != out[j].Attendees {
			return out[i].Attendees > out[j].Attendees
		}
		return out[i].Label < out[j].Label
	})
	return out
}

func engagement(buckets []model.CheckinBucket) Engagement {
	type acc struct {
		n, checkins, priced int64
		price               decimal.Decimal
	}
	sums := map[string]*acc{}
	var total int64
	for _, bk := range buckets {
		l := category.EngagementTier(bk.Checkins)
		a, ok := sums[l]
		if !ok {
			a = &acc{}
			sums[l] = a
		}
		a.n += bk.Attendees
		a.checkins += int64(bk.Checkins) * bk.Attendees
		a.price = a.price.Add(bk.PriceSum)
		a.priced += bk.PriceCount
		total += bk.Attendees
	}

	e := Engagement{Total: total, Tiers: make([]Tier, 0, len(sums))}
	for l, a := range sums {
		e.Tiers = append(e.Tiers, Tier{
			Tier:         l,
			Participants: a.n,
			AvgPrice:     ratio(a.price, a.priced, 2),
			Share:        percent(a.n, total, 1),
			avgCheckins:  ratio(decimal.NewFromInt(a.checkins), a.n, 6),
		})
	}
	sort.Slice(e.Tiers, func(i, j int) bool {
		if e.Tiers[i].avgCheckins != e.Tiers[j].avgCheckins {
			return e.Tiers[i].avgCheckins > e.Tiers[j].avgCheckins
		}
		return e.Tiers[i].Tier < e.Tiers[j].Tier
	})

	var top int64
	for i := 0; i < len(e.Tiers) && i < 2; i++ {
		top += e.Tiers[i].Participants
	}
	e.MediumHighShare = percent(top, total, 1)
	return e
}

func timeline(days []model.DailyRegistrations) []Day {
	out := make([]Day, len(days))
	for i, d := range days {
		out[i] = Day{Date: d.Day, Registrations: d.Count, Cumulative: d.Cumulative}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func meals(t model.Totals) []Meal {
	row := func(name string, attended int64) Meal {
		return Meal{
			Meal:     name,
			Attended: attended,
			Waste:    t.Attendees - attended,
			Rate:     percent(attended, t.Attendees, 1),
		}
	}
	return []Meal{
		row(MealSaturdayLunch, t.SaturdayLunch),
		row(MealSaturdayDinner, t.SaturdayDinner),
		row(MealSundayBrunch, t.SundayBrunch),
	}
}

// topSchools never returns nil so the JSON form of an empty list is [].
func (b *Builder) topSchools(stats []model.UniversityStat) []School {
	out := make([]School, 0)
	for _, s := range stats {
		if s.University == "" || s.University == category.NonUniversity || s.Attendees < b.MinSchoolSize {
			continue
		}
		out = append(out, School{
			University:    s.University,
			ShortName:     ShortName(s.University),
			Attendees:     s.Attendees,
			AvgEngagement: ratio(decimal.NewFromInt(s.CheckinSum), s.Attendees, 2),
			Revenue:       s.PriceSum,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Attendees != out[j].Attendees {
			return out[i].Attendees > out[j].Attendees
		}
		return out[i].University < out[j].University
	})
	if b.MaxSchools > 0 && len(out) > b.MaxSchools {
		out = out[:b.MaxSchools]
	}
	return out
}

// ShortName is the chart label for a university.  Every word is title
// cased with the rest of it lowered, so the CSU capitalisation does not
// survive: "csuchico.edu" becomes "Csuchico" and "UC Davis" "Uc Davis".
func ShortName(university string) string {
	s := strings.ReplaceAll(university, ".edu", "")
	s = strings.ReplaceAll(s, "csu", "CSU")
	return cases.Title(language.English).String(s)
}

func dashboard(t model.Totals, stats []model.UniversityStat) Dashboard {
	d := Dashboard{
		TotalRegistrations: t.Attendees,
		VenueAttendance:    t.Venue,
		AttendanceRate:     percent(t.Venue, t.Attendees, 1),
		Revenue:            t.Revenue,
	}
	var checkins int64
	for _, s := range stats {
		checkins += s.CheckinSum
		if s.University != "" {
			d.Universities++
		}
	}
	d.AvgEngagement = ratio(decimal.NewFromInt(checkins), t.Attendees, 2)
	return d
}
