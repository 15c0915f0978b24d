// Package chart draws the seven report figures as PNG files.
//
// Individual panels are rendered with go-chart, decoded and laid out on a
// white canvas with imaging, and free text (metric cards, captions, empty
// panels) is drawn with the Go Bold face from x/image.
package chart

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"

	"github.com/iliyamo/event-analytics/internal/logging"
	"github.com/iliyamo/event-analytics/internal/report"
)

// Output file names, in report order.
const (
	FileUniversityBreakdown = "1_university_breakdown.png"
	FileEngagement          = "2_engagement_distribution.png"
	FileTimeline            = "3_registration_timeline.png"
	FileRegions             = "4_geographic_analysis.png"
	FileMeals               = "5_meal_analysis.png"
	FileTopSchools          = "6_top_schools.png"
	FileDashboard           = "7_executive_dashboard.png"
)

// Files lists every output file.
var Files = []string{
	FileUniversityBreakdown,
	FileEngagement,
	FileTimeline,
	FileRegions,
	FileMeals,
	FileTopSchools,
	FileDashboard,
}

// IsChartFile reports whether name is one of Files.
func IsChartFile(name string) bool {
	for _, f := range Files {
		if f == name {
			return true
		}
	}
	return false
}

// DefaultDPI is the resolution figures are rendered at when none is set.
const DefaultDPI = 300

// Options configure a Renderer.
type Options struct {
	OutputDir string
	DPI       float64
	EventName string
}

// Renderer writes report figures to Options.OutputDir.
type Renderer struct {
	opts Options
	bold *opentype.Font
}

// NewRenderer validates opts and loads the text face.
func NewRenderer(opts Options) (*Renderer, error) {
	if opts.OutputDir == "" {
		return nil, fmt.Errorf("chart: output directory is required")
	}
	if opts.DPI <= 0 {
		opts.DPI = DefaultDPI
	}
	f, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("chart: load font: %w", err)
	}
	return &Renderer{opts: opts, bold: f}, nil
}

// figure is one output file and the function that draws it.
type figure struct {
	file string
	draw func(*report.Set) (image.Image, error)
}

// RenderAll draws every figure from set and returns the written paths.
// It stops at the first failing figure.
func (r *Renderer) RenderAll(set *report.Set) ([]string, error) {
	if err := os.MkdirAll(r.opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("chart: create output dir: %w", err)
	}
	figures := []figure{
		{FileUniversityBreakdown, r.universityBreakdown},
		{FileEngagement, r.engagement},
		{FileTimeline, r.timeline},
		{FileRegions, r.regions},
		{FileMeals, r.meals},
		{FileTopSchools, r.topSchools},
		{FileDashboard, r.dashboard},
	}

	paths := make([]string, 0, len(figures))
	for _, f := range figures {
		img, err := f.draw(set)
		if err != nil {
			return paths, fmt.Errorf("chart %s: %w", f.file, err)
		}
		path := filepath.Join(r.opts.OutputDir, f.file)
		if err := imaging.Save(img, path); err != nil {
			return paths, fmt.Errorf("chart %s: save: %w", f.file, err)
		}
		b := img.Bounds()
		logging.Info().Str("file", path).Int("width", b.Dx()).Int("height", b.Dy()).Msg("chart saved")
		paths = append(paths, path)
	}
	return paths, nil
}

// px converts figure inches to pixels at the configured resolution.
func (r *Renderer) px(inches float64) int { return int(inches * r.opts.DPI) }
