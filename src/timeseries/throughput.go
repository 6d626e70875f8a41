// Package timeseries replays build instants in time order to derive
// throughput and concurrency series.
//
// Both engines trust their callers to deliver instants in non-decreasing
// order and do not re-sort or re-validate.
package timeseries

import "time"

// ThroughputWindow counts completions inside a trailing window.
type ThroughputWindow struct {
	window time.Duration
	start  time.Time
	builds []time.Time
}

// NewThroughputWindow returns a window of the given duration.
func NewThroughputWindow(window time.Duration) *ThroughputWindow {
	return &ThroughputWindow{window: window}
}

// Append records a completion and returns how many completions remain in
// the window ending at it. Instants older than newest-window are evicted.
// A non-positive window always leaves only the newest instant.
func (w *ThroughputWindow) Append(t time.Time) int {
	if len(w.builds) == 0 {
		w.start = t
	}

	w.builds = append(w.builds, t)
	for len(w.builds) > 1 && w.builds[len(w.builds)-1].Sub(w.builds[0]) >= w.window {
		w.builds = w.builds[1:]
	}
	return len(w.builds)
}

// Len returns the current window length.
func (w *ThroughputWindow) Len() int { return len(w.builds) }

// Start returns the first instant appended to the window.
func (w *ThroughputWindow) Start() time.Time { return w.start }

// Window returns the configured window duration.
func (w *ThroughputWindow) Window() time.Duration { return w.window }
