package badge

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"
)

// Badge colors.
const (
	ColorGreen  = "#4c1"
	ColorYellow = "#dfb317"
	ColorRed    = "#e05d44"
	ColorGrey   = "#9f9f9f"
	ColorBlue   = "#007ec6"
)

// Badge file names.
const (
	ThroughputFile  = "throughput.svg"
	ConcurrencyFile = "concurrency.svg"
	SuccessFile     = "success.svg"
)

// Engine generates SVG badges using a specific font.
type Engine struct {
	metrics *FontMetrics
}

// New creates a badge engine with the given font metrics.
func New(metrics *FontMetrics) *Engine {
	return &Engine{metrics: metrics}
}

// Badge defines the content and appearance of a single badge.
type Badge struct {
	Label string // left side
	Value string // right side
	Color string // right side fill, e.g. "#4c1"
}

// Generate produces the SVG for b.
func (e *Engine) Generate(b Badge) string {
	return e.renderSVG(b)
}

// Throughput describes the busiest window.
func Throughput(peak int, window time.Duration) Badge {
	return Badge{
		Label: "throughput",
		Value: fmt.Sprintf("%d/%s", peak, shortDuration(window)),
		Color: ColorBlue,
	}
}

// Concurrency describes the most builds seen running at once.
func Concurrency(peak int) Badge {
	return Badge{Label: "concurrent builds", Value: fmt.Sprint(peak), Color: ColorBlue}
}

// Success describes the share of finished builds that completed. NaN means
// nothing finished.
func Success(rate float64) Badge {
	if math.IsNaN(rate) {
		return Badge{Label: "build success", Value: "n/a", Color: ColorGrey}
	}
	return Badge{
		Label: "build success",
		Value: fmt.Sprintf("%.0f%%", rate),
		Color: SuccessColor(rate),
	}
}

// SuccessColor picks a color for a success percentage.
func SuccessColor(rate float64) string {
	switch {
	case rate >= 90:
		return ColorGreen
	case rate >= 75:
		return ColorYellow
	default:
		return ColorRed
	}
}

// WriteFile renders b to path, creating parent directories.
func (e *Engine) WriteFile(path string, b Badge) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating badge dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(e.Generate(b)), 0o644); err != nil {
		return fmt.Errorf("writing badge %s: %w", path, err)
	}
	return nil
}

// shortDuration prints whole hours and minutes compactly: "1h", "30m", "1h30m".
func shortDuration(d time.Duration) string {
	s := d.String()
	if d%time.Minute == 0 && d >= time.Minute {
		s = s[:len(s)-2] // drop "0s"
		if d%time.Hour == 0 {
			s = s[:len(s)-2] // drop "0m"
		}
	}
	return s
}
