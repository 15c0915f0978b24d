package chart

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"
	"time"

	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/iliyamo/event-analytics/internal/report"
)

var printer = message.NewPrinter(language.English)

func groupSlices(groups []report.Group, value func(report.Group) float64) []slice {
	out := make([]slice, len(groups))
	for i, g := range groups {
		out[i] = slice{label: g.Label, value: value(g)}
	}
	return out
}

func groupAttendees(g report.Group) float64  { return float64(g.Attendees) }
func groupEngagement(g report.Group) float64 { return g.AvgEngagement }

func labelled(values []slice, format string) []slice {
	out := make([]slice, len(values))
	for i, v := range values {
		out[i] = slice{label: fmt.Sprintf("%s "+format, v.label, v.value), value: v.value}
	}
	return out
}

// sideBySide renders two panels next to each other on a widthIn x heightIn figure.
func (r *Renderer) sideBySide(widthIn, heightIn float64, left, right func(w, h int) (image.Image, error)) (image.Image, error) {
	w, h := r.px(widthIn), r.px(heightIn)
	l, err := left(w/2, h)
	if err != nil {
		return nil, err
	}
	rt, err := right(w-w/2, h)
	if err != nil {
		return nil, err
	}
	return compose(w, h, placed{l, image.Pt(0, 0)}, placed{rt, image.Pt(w/2, 0)}), nil
}

func (r *Renderer) universityBreakdown(set *report.Set) (image.Image, error) {
	groups := set.UniversityBreakdown
	var n int64
	for _, g := range groups {
		n += g.Attendees
	}
	return r.sideBySide(16, 8,
		func(w, h int) (image.Image, error) {
			title := printer.Sprintf("University Participation (n=%d)", n)
			return r.pie(title, groupSlices(groups, groupAttendees), schoolPalette, w, h)
		},
		func(w, h int) (image.Image, error) {
			bars := labelled(groupSlices(groups, groupEngagement), "(%.1f)")
			return r.bars("Average Engagement by School Type", bars, schoolPalette, 0, w, h)
		})
}

func (r *Renderer) engagement(set *report.Set) (image.Image, error) {
	e := set.Engagement
	w, h := r.px(14), r.px(8)
	title := fmt.Sprintf("%s: Participant Engagement Distribution", r.opts.EventName)

	values := make([]slice, len(e.Tiers))
	for i, t := range e.Tiers {
		values[i] = slice{
			label: fmt.Sprintf("%s %s, %.1f%% (Avg: $%.0f)", t.Tier, printer.Sprintf("%d", t.Participants), t.Share, t.AvgPrice),
			value: float64(t.Participants),
		}
	}
	panel, err := r.bars(title, values, schoolPalette[:4], 0, w, h)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return panel, nil
	}
	img := compose(w, h, placed{panel, image.Pt(0, 0)})
	insight := fmt.Sprintf("Key Insight: %.1f%% show medium-high engagement", e.MediumHighShare)
	if err := r.textRight(img, insight, 11, color.RGBA{R: 0x1F, G: 0x4E, B: 0x79, A: 0xFF}, w-r.px(0.3), h-r.px(0.15)); err != nil {
		return nil, err
	}
	return img, nil
}

func (r *Renderer) timeline(set *report.Set) (image.Image, error) {
	w, h := r.px(16), r.px(10)
	days := make([]time.Time, len(set.Timeline))
	cum := make([]float64, len(set.Timeline))
	daily := make([]slice, len(set.Timeline))
	for i, d := range set.Timeline {
		days[i] = d.Date
		cum[i] = float64(d.Cumulative)
		daily[i] = slice{label: d.Date.Format("Jan 2"), value: float64(d.Registrations)}
	}

	top, err := r.bars("Daily Registration Pattern", daily, []drawing.Color{skyBlue}, 0, w, h/2)
	if err != nil {
		return nil, err
	}
	bottom, err := r.cumulative("Cumulative Registration Growth", days, cum, w, h-h/2)
	if err != nil {
		return nil, err
	}
	return compose(w, h, placed{top, image.Pt(0, 0)}, placed{bottom, image.Pt(0, h/2)}), nil
}

func (r *Renderer) regions(set *report.Set) (image.Image, error) {
	groups := set.Regions
	return r.sideBySide(16, 8,
		func(w, h int) (image.Image, error) {
			return r.pie("Geographic Distribution", groupSlices(groups, groupAttendees), regionPalette, w, h)
		},
		func(w, h int) (image.Image, error) {
			bars := labelled(groupSlices(groups, groupEngagement), "(%.2f)")
			return r.bars("Engagement by Region", bars, regionPalette, 0, w, h)
		})
}

func (r *Renderer) meals(set *report.Set) (image.Image, error) {
	names := make([]string, len(set.Meals))
	rates := make([]slice, len(set.Meals))
	attended := make([]float64, len(set.Meals))
	waste := make([]float64, len(set.Meals))
	for i, m := range set.Meals {
		names[i] = m.Meal
		rates[i] = slice{label: fmt.Sprintf("%s %.1f%%", m.Meal, m.Rate), value: m.Rate}
		attended[i] = float64(m.Attended)
		waste[i] = float64(m.Waste)
	}
	return r.sideBySide(16, 8,
		func(w, h int) (image.Image, error) {
			return r.bars("Meal Attendance Rates", rates, mealPalette, 100, w, h)
		},
		func(w, h int) (image.Image, error) {
			return r.stacked("Attendance vs Food Waste", names, attended, waste, w, h)
		})
}

func (r *Renderer) topSchools(set *report.Set) (image.Image, error) {
	schools := set.TopSchools
	counts := make([]slice, len(schools))
	points := make([]bubble, len(schools))
	for i, s := range schools {
		counts[i] = slice{label: fmt.Sprintf("%s %d", s.ShortName, s.Attendees), value: float64(s.Attendees)}
		rev := math.Max(s.Revenue.InexactFloat64(), 0)
		points[i] = bubble{
			label:  truncate(s.ShortName, 8),
			x:      float64(s.Attendees),
			y:      s.AvgEngagement,
			radius: math.Max(3, math.Sqrt(rev/20)/2*r.opts.DPI/72),
		}
	}
	return r.sideBySide(18, 8,
		func(w, h int) (image.Image, error) {
			return r.bars("Top Schools by Attendance", counts, []drawing.Color{lightBlue}, 0, w, h)
		},
		func(w, h int) (image.Image, error) {
			return r.bubbles("Performance Matrix (Bubble = Revenue)", points, w, h)
		})
}

func truncate(s string, n int) string {
	rs := []rune(s)
	if len(rs) <= n {
		return s
	}
	return string(rs[:n])
}

func (r *Renderer) dashboard(set *report.Set) (image.Image, error) {
	d := set.Dashboard
	w, h := r.px(18), r.px(12)
	header := r.px(1)

	metrics := []struct {
		value string
		label []string
	}{
		{printer.Sprintf("%d", d.TotalRegistrations), []string{"Total", "Registrations"}},
		{printer.Sprintf("%d", d.VenueAttendance), []string{"Actual", "Attendance"}},
		{fmt.Sprintf("%.1f%%", d.AttendanceRate), []string{"Attendance", "Rate"}},
		{printer.Sprintf("$%d", d.Revenue.Round(0).IntPart()), []string{"Total", "Revenue"}},
		{fmt.Sprintf("%d", d.Universities), []string{"Universities", "Represented"}},
		{fmt.Sprintf("%.2f", d.AvgEngagement), []string{"Average", "Engagement"}},
	}

	cw, ch := w/3, (h-header)/2
	panels := make([]placed, 0, len(metrics))
	for i, m := range metrics {
		c, err := r.card(cw, ch, m.value, m.label, pick(schoolPalette, i))
		if err != nil {
			return nil, err
		}
		panels = append(panels, placed{c, image.Pt((i%3)*cw, header+(i/3)*ch)})
	}
	img := compose(w, h, panels...)

	title := strings.TrimSpace(r.opts.EventName + " Executive Dashboard")
	if err := r.text(img, title, 20, color.Black, w/2, header*2/3); err != nil {
		return nil, err
	}
	return img, nil
}
