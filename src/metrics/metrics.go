// Package metrics turns a set of build records into per-build timing tables,
// a throughput series, and a concurrency series.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/sofmeright/buildlens/src/buildlog"
	"github.com/sofmeright/buildlens/src/record"
	"github.com/sofmeright/buildlens/src/timeseries"
)

const mib = 1024 * 1024

// LogSource resolves a build name to its parsed log.
type LogSource interface {
	Get(ctx context.Context, name string) (*buildlog.Data, error)
}

// Prefetcher is implemented by log sources that can warm many builds at once.
type Prefetcher interface {
	Prefetch(ctx context.Context, names []string) map[string]error
}

// Summary is the machine-readable digest of a run. Field order keeps the
// JSON keys sorted.
type Summary struct {
	BuildsExamined     int            `json:"builds examined"`
	EarliestCompletion string         `json:"earliest_completion"`
	LatestCompletion   string         `json:"latest_completion"`
	MissingLog         []string       `json:"missing-log"`
	States             map[string]int `json:"states"`

	Earliest time.Time `json:"-"`
	Latest   time.Time `json:"-"`
}

// Report is everything one analysis pass produces.
type Report struct {
	Current    []Row
	Archived   []Row
	Concurrent []timeseries.Event
	Summary    Summary
	Window     time.Duration
}

// Analyzer aggregates build records into a Report.
type Analyzer struct {
	window time.Duration
	logs   LogSource
}

// NewAnalyzer creates an analyzer. A nil log source treats every log as
// missing.
func NewAnalyzer(window time.Duration, logs LogSource) *Analyzer {
	return &Analyzer{window: window, logs: logs}
}

// Run analyses the builds. Only log-source failures other than a missing
// log abort the run.
func (a *Analyzer) Run(ctx context.Context, builds []record.Build) (*Report, error) {
	logger := log.FromContext(ctx)

	completed := completedInOrder(builds)
	a.prefetch(ctx, completed)

	rep := &Report{
		Window: a.window,
		Summary: Summary{
			States:     map[string]int{},
			MissingLog: []string{},
		},
	}
	tput := timeseries.NewThroughputWindow(a.window)
	last := 0

	for i, b := range completed {
		completion, _ := b.Completed()
		if i == 0 {
			rep.Summary.Earliest = completion
		}
		rep.Summary.Latest = completion

		state := b.Phase()
		rep.Summary.States[state]++

		start, ok := b.Started()
		if !ok {
			logger.Debug("skipping build with no start", "build", b.Name())
			continue
		}

		row := newRow(b.Name(), state, completion)
		row.Running = b.Duration().Seconds()

		archived := false
		var data *buildlog.Data
		switch created := b.Created(); {
		case created.IsZero():
			logger.Debug("build has no creation time", "build", b.Name())
		case start.Before(created):
			archived = true
		default:
			row.Pending = start.Sub(created).Seconds()
		}

		if !archived {
			d, err := a.lookup(ctx, b.Name())
			switch {
			case errors.Is(err, buildlog.ErrMissingLog):
				rep.Summary.MissingLog = append(rep.Summary.MissingLog, b.Name())
			case err != nil:
				return nil, fmt.Errorf("build %s: %w", b.Name(), err)
			default:
				data = d
			}
		}
		row.applyLog(data)

		switch state {
		case record.PhaseComplete:
			last = tput.Append(completion)
			row.Throughput = last
			if !archived {
				if size, ok := b.TarSize(); ok {
					row.UploadSizeMB = float64(size) / mib
				} else if data != nil && data.UploadSizeMB != nil {
					row.UploadSizeMB = *data.UploadSizeMB
				}
				if data != nil {
					row.applyTimings(data)
				}
			}
			rep.add(row, archived)
		case record.PhaseFailed:
			row.Throughput = last
			rep.add(row, archived)
		}

		rep.Summary.BuildsExamined++
	}

	rep.Concurrent = concurrency(builds)

	if !rep.Summary.Earliest.IsZero() {
		rep.Summary.EarliestCompletion = rep.Summary.Earliest.UTC().Format(time.ANSIC)
		rep.Summary.LatestCompletion = rep.Summary.Latest.UTC().Format(time.ANSIC)
	}

	logger.Debug("metrics pass complete",
		"examined", rep.Summary.BuildsExamined,
		"current", len(rep.Current),
		"archived", len(rep.Archived),
		"missing_logs", len(rep.Summary.MissingLog))
	return rep, nil
}

func (r *Report) add(row Row, archived bool) {
	if archived {
		r.Archived = append(r.Archived, row)
	} else {
		r.Current = append(r.Current, row)
	}
}

func (a *Analyzer) lookup(ctx context.Context, name string) (*buildlog.Data, error) {
	if a.logs == nil {
		return nil, buildlog.ErrMissingLog
	}
	return a.logs.Get(ctx, name)
}

// prefetch warms the log source for every build whose log the pass will ask
// for. Errors surface again, one by one, from Get.
func (a *Analyzer) prefetch(ctx context.Context, completed []record.Build) {
	p, ok := a.logs.(Prefetcher)
	if !ok {
		return
	}
	var names []string
	for _, b := range completed {
		start, ok := b.Started()
		if !ok || start.Before(b.Created()) {
			continue
		}
		names = append(names, b.Name())
	}
	if len(names) > 0 {
		p.Prefetch(ctx, names)
	}
}

// completedInOrder returns the builds with a completion instant, oldest
// completion first.
func completedInOrder(builds []record.Build) []record.Build {
	var out []record.Build
	for _, b := range builds {
		if _, ok := b.Completed(); ok {
			out = append(out, b)
		}
	}
	slices.SortStableFunc(out, func(x, y record.Build) int {
		tx, _ := x.Completed()
		ty, _ := y.Completed()
		return tx.Compare(ty)
	})
	return out
}

// concurrency replays every build with both a start and a completion,
// earliest start first.
func concurrency(builds []record.Build) []timeseries.Event {
	var ivs []timeseries.Interval
	for _, b := range builds {
		start, ok := b.Started()
		if !ok {
			continue
		}
		finish, ok := b.Completed()
		if !ok {
			continue
		}
		ivs = append(ivs, timeseries.Interval{Start: start, Finish: finish})
	}
	slices.SortStableFunc(ivs, func(x, y timeseries.Interval) int {
		return x.Start.Compare(y.Start)
	})

	tracker := timeseries.NewConcurrencyTracker()
	for _, iv := range ivs {
		tracker.Append(iv.Start, iv.Finish)
	}
	return slices.Collect(tracker.Events())
}

// PeakThroughput is the most builds completed within one window.
func (r *Report) PeakThroughput() int {
	peak := 0
	for _, rows := range [][]Row{r.Current, r.Archived} {
		for _, row := range rows {
			peak = max(peak, row.Throughput)
		}
	}
	return peak
}

// PeakConcurrency is the most builds that were running at once.
func (r *Report) PeakConcurrency() int {
	peak := 0
	for _, ev := range r.Concurrent {
		peak = max(peak, ev.Count)
	}
	return peak
}

// SuccessRate is the percentage of finished builds that completed, or NaN
// when none finished.
func (r *Report) SuccessRate() float64 {
	ok := r.Summary.States[record.PhaseComplete]
	total := ok + r.Summary.States[record.PhaseFailed]
	if total == 0 {
		return math.NaN()
	}
	return 100 * float64(ok) / float64(total)
}

// StateNames returns the observed states in lexical order.
func (s Summary) StateNames() []string {
	names := make([]string, 0, len(s.States))
	for k := range s.States {
		names = append(names, k)
	}
	slices.SortFunc(names, strings.Compare)
	return names
}
