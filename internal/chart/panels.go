package chart

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"math"
	"time"

	"github.com/disintegration/imaging"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

func hex(s string) drawing.Color { return drawing.ColorFromHex(s) }

var (
	schoolPalette = []drawing.Color{hex("2E8B57"), hex("4682B4"), hex("DAA520"), hex("CD5C5C"), hex("9370DB"), hex("FF6347"), hex("20B2AA")}
	regionPalette = []drawing.Color{hex("FF6B6B"), hex("4ECDC4"), hex("45B7D1"), hex("96CEB4")}
	mealPalette   = []drawing.Color{hex("FF9999"), hex("66B2FF"), hex("99FF99")}

	skyBlue    = hex("87CEEB")
	darkGreen  = hex("006400")
	lightGreen = hex("90EE90")
	lightBlue  = hex("ADD8E6")
	purple     = hex("800080")
	wasteRed   = hex("FF0000")
)

func pick(p []drawing.Color, i int) drawing.Color { return p[i%len(p)] }

type renderable interface {
	Render(rp gochart.RendererProvider, w io.Writer) error
}

// rasterize renders a go-chart value to PNG and decodes it for composition.
func rasterize(c renderable) (image.Image, error) {
	var buf bytes.Buffer
	if err := c.Render(gochart.PNG, &buf); err != nil {
		return nil, err
	}
	return imaging.Decode(&buf)
}

func titleStyle() gochart.Style { return gochart.Style{FontSize: 14} }

// background leaves room for the title; padding scales with resolution.
func (r *Renderer) background() gochart.Style {
	side := r.px(0.2)
	return gochart.Style{Padding: gochart.Box{Top: r.px(0.6), Left: side, Right: side, Bottom: side}}
}

// slice is one labelled value of a pie or bar panel.
type slice struct {
	label string
	value float64
}

func total(values []slice) float64 {
	var t float64
	for _, v := range values {
		t += v.value
	}
	return t
}

// pie draws labelled wedges with their percentage share.
func (r *Renderer) pie(title string, values []slice, palette []drawing.Color, w, h int) (image.Image, error) {
	sum := total(values)
	if sum <= 0 {
		return r.noData(title, w, h)
	}
	vs := make([]gochart.Value, 0, len(values))
	for i, v := range values {
		if v.value <= 0 {
			continue
		}
		c := pick(palette, i)
		vs = append(vs, gochart.Value{
			Label: fmt.Sprintf("%s %.1f%%", v.label, v.value*100/sum),
			Value: v.value,
			Style: gochart.Style{FillColor: c, StrokeColor: drawing.ColorWhite, StrokeWidth: 2},
		})
	}
	return rasterize(gochart.PieChart{
		Title:      title,
		TitleStyle: titleStyle(),
		Width:      w,
		Height:     h,
		DPI:        r.opts.DPI,
		Background: r.background(),
		Values:     vs,
	})
}

// bars draws one vertical bar per value.  yMax fixes the top of the axis;
// zero picks one from the data.
func (r *Renderer) bars(title string, values []slice, palette []drawing.Color, yMax float64, w, h int) (image.Image, error) {
	if len(values) == 0 {
		return r.noData(title, w, h)
	}
	top := yMax
	if top <= 0 {
		for _, v := range values {
			top = math.Max(top, v.value)
		}
		top = niceCeil(top * 1.15)
	}

	vs := make([]gochart.Value, len(values))
	for i, v := range values {
		c := pick(palette, i)
		vs[i] = gochart.Value{
			Label: v.label,
			Value: v.value,
			Style: gochart.Style{FillColor: c, StrokeColor: c},
		}
	}
	return rasterize(gochart.BarChart{
		Title:      title,
		TitleStyle: titleStyle(),
		Width:      w,
		Height:     h,
		DPI:        r.opts.DPI,
		Background: r.background(),
		BarWidth:   barWidth(w, len(values)),
		BarSpacing: barWidth(w, len(values)) / 2,
		YAxis: gochart.YAxis{
			Range:          &gochart.ContinuousRange{Min: 0, Max: top},
			ValueFormatter: func(v interface{}) string { return fmt.Sprintf("%.1f", v) },
		},
		Bars: vs,
	})
}

// stacked draws attended-versus-waste stacks, one per meal.
func (r *Renderer) stacked(title string, names []string, attended, waste []float64, w, h int) (image.Image, error) {
	if len(names) == 0 || total(toSlices(attended))+total(toSlices(waste)) <= 0 {
		return r.noData(title, w, h)
	}
	stacks := make([]gochart.StackedBar, len(names))
	for i, name := range names {
		c := pick(mealPalette, i)
		stacks[i] = gochart.StackedBar{
			Name:  name,
			Width: barWidth(w, len(names)),
			Values: []gochart.Value{
				{Label: fmt.Sprintf("Attended %.0f", attended[i]), Value: attended[i], Style: gochart.Style{FillColor: c, StrokeColor: c}},
				{Label: fmt.Sprintf("Waste %.0f", waste[i]), Value: waste[i], Style: gochart.Style{FillColor: wasteRed.WithAlpha(150), StrokeColor: wasteRed}},
			},
		}
	}
	return rasterize(gochart.StackedBarChart{
		Title:      title,
		TitleStyle: titleStyle(),
		Width:      w,
		Height:     h,
		DPI:        r.opts.DPI,
		Background: r.background(),
		BarSpacing: barWidth(w, len(names)) / 2,
		Bars:       stacks,
	})
}

func toSlices(vs []float64) []slice {
	out := make([]slice, len(vs))
	for i, v := range vs {
		out[i] = slice{value: v}
	}
	return out
}

// cumulative draws a filled line over days.  A single day is padded with a
// zero point the day before so the time axis has a width.
func (r *Renderer) cumulative(title string, days []time.Time, values []float64, w, h int) (image.Image, error) {
	if len(days) == 0 {
		return r.noData(title, w, h)
	}
	if len(days) == 1 {
		days = []time.Time{days[0].AddDate(0, 0, -1), days[0]}
		values = []float64{0, values[0]}
	}
	top := 0.0
	for _, v := range values {
		top = math.Max(top, v)
	}

	graph := gochart.Chart{
		Title:      title,
		TitleStyle: titleStyle(),
		Width:      w,
		Height:     h,
		DPI:        r.opts.DPI,
		Background: r.background(),
		XAxis: gochart.XAxis{
			Name:           "Date",
			ValueFormatter: gochart.TimeValueFormatterWithFormat("Jan 2"),
		},
		YAxis: gochart.YAxis{
			Name:           "Total Registrations",
			Range:          &gochart.ContinuousRange{Min: 0, Max: niceCeil(math.Max(top, 1) * 1.1)},
			ValueFormatter: func(v interface{}) string { return fmt.Sprintf("%.0f", v) },
		},
		Series: []gochart.Series{
			gochart.TimeSeries{
				Name: "Cumulative",
				Style: gochart.Style{
					StrokeColor: darkGreen,
					StrokeWidth: 3,
					FillColor:   lightGreen.WithAlpha(80),
					DotColor:    darkGreen,
					DotWidth:    4,
				},
				XValues: days,
				YValues: values,
			},
		},
	}
	return rasterize(graph)
}

// bubble is one point of the performance matrix.
type bubble struct {
	label  string
	x, y   float64
	radius float64
}

// bubbles draws a scatter of sized dots with short annotations.  Each
// point is its own series so that every dot keeps its own radius.
func (r *Renderer) bubbles(title string, points []bubble, w, h int) (image.Image, error) {
	if len(points) == 0 {
		return r.noData(title, w, h)
	}
	var xMax, yMax float64
	series := make([]gochart.Series, 0, len(points)+1)
	notes := make([]gochart.Value2, 0, len(points))
	for _, p := range points {
		xMax = math.Max(xMax, p.x)
		yMax = math.Max(yMax, p.y)
		series = append(series, gochart.ContinuousSeries{
			Name: p.label,
			Style: gochart.Style{
				StrokeWidth: gochart.Disabled,
				DotWidth:    p.radius,
				DotColor:    purple.WithAlpha(150),
			},
			XValues: []float64{p.x},
			YValues: []float64{p.y},
		})
		notes = append(notes, gochart.Value2{XValue: p.x, YValue: p.y, Label: p.label})
	}
	series = append(series, gochart.AnnotationSeries{Annotations: notes})

	return rasterize(gochart.Chart{
		Title:      title,
		TitleStyle: titleStyle(),
		Width:      w,
		Height:     h,
		DPI:        r.opts.DPI,
		Background: r.background(),
		XAxis: gochart.XAxis{
			Name:           "Attendees",
			Range:          &gochart.ContinuousRange{Min: 0, Max: niceCeil(xMax*1.2 + 1)},
			ValueFormatter: func(v interface{}) string { return fmt.Sprintf("%.0f", v) },
		},
		YAxis: gochart.YAxis{
			Name:  "Avg Engagement",
			Range: &gochart.ContinuousRange{Min: 0, Max: niceCeil(yMax*1.3 + 0.5)},
		},
		Series: series,
	})
}

// barWidth spreads n bars over roughly half of a panel w pixels wide.
func barWidth(w, n int) int {
	if n < 1 {
		n = 1
	}
	return max(4, w/(2*n+2))
}

// niceCeil rounds v up to 1, 2 or 5 times a power of ten.
func niceCeil(v float64) float64 {
	if v <= 0 {
		return 1
	}
	exp := math.Pow(10, math.Floor(math.Log10(v)))
	for _, m := range []float64{1, 2, 5, 10} {
		if m*exp >= v {
			return m * exp
		}
	}
	return 10 * exp
}
