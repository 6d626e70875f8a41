// Package output renders analysis results: dependency graphs, metrics
// tables, and human-readable summaries.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/sofmeright/buildlens/src/metrics"
	"github.com/sofmeright/buildlens/src/record"
)

// Colors for terminal output.
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
	colorBold   = "\033[1m"
)

func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// UseColor returns true if colored output should be used.
// Respects NO_COLOR env, TERM=dumb, and terminal detection.
func UseColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return isTerminal() || IsCI()
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// MetricsSummary renders the report digest as framed sections.
func MetricsSummary(w io.Writer, rep *metrics.Report, files []string, elapsed time.Duration, color bool) {
	sum := rep.Summary

	SectionStart(w, "buildlens_metrics", "Build metrics")
	sec := NewSection(w, "Metrics", elapsed, color)
	sec.KV("builds examined", sum.BuildsExamined)
	if sum.EarliestCompletion != "" {
		sec.KV("earliest completion", sum.EarliestCompletion)
		sec.KV("latest completion", sum.LatestCompletion)
	}
	sec.KV("current builds", len(rep.Current))
	sec.KV("archived builds", len(rep.Archived))
	sec.KV("peak throughput", fmt.Sprintf("%d per %s", rep.PeakThroughput(), rep.Window))
	sec.KV("peak concurrency", rep.PeakConcurrency())
	if rate := rep.SuccessRate(); !math.IsNaN(rate) {
		sec.KV("success rate", fmt.Sprintf("%.1f%%", rate))
	}

	if len(sum.States) > 0 {
		sec.Separator()
		for _, st := range sum.StateNames() {
			sec.Row("%s %s", stateLabel(st, color), Dimmed(fmt.Sprint(sum.States[st]), color))
		}
	}

	if len(sum.MissingLog) > 0 {
		sec.Separator()
		label := fmt.Sprintf("%d build(s) without logs", len(sum.MissingLog))
		if color {
			label = colorYellow + label + colorReset
		}
		sec.Row("%s", label)
		for _, name := range sum.MissingLog {
			sec.Row("  %s", name)
		}
	}

	if len(files) > 0 {
		sec.Separator()
		for _, f := range files {
			sec.Row("%s %s", StatusIcon("success", color), f)
		}
	}
	sec.Close()
	SectionEnd(w, "buildlens_metrics")
}

// GraphSummary renders a one-section digest of a dependency graph run.
func GraphSummary(w io.Writer, bases, edges, trimmed, skipped int, color bool) {
	sec := NewSection(w, "Graph", 0, color)
	sec.KV("base images", bases)
	sec.KV("edges", edges)
	sec.KV("trimmed", trimmed)
	if skipped > 0 {
		sec.KV("skipped records", Dimmed(fmt.Sprint(skipped), color))
	}
	sec.Close()
}

// stateLabel pads the state name to the KV label width before coloring it.
func stateLabel(state string, color bool) string {
	padded := fmt.Sprintf("%-20s", state)
	if !color {
		return padded
	}
	switch state {
	case record.PhaseFailed:
		return colorRed + padded + colorReset
	case record.PhaseComplete:
		return colorBold + padded + colorReset
	}
	return padded
}
