package metrics

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sofmeright/buildlens/src/buildlog"
	"github.com/sofmeright/buildlens/src/record"
	"github.com/sofmeright/buildlens/src/timeseries"
)

type fakeLogs struct {
	data       map[string]*buildlog.Data
	err        error
	prefetched []string
}

func (f *fakeLogs) Get(_ context.Context, name string) (*buildlog.Data, error) {
	if f.err != nil {
		return nil, f.err
	}
	d, ok := f.data[name]
	if !ok {
		return nil, buildlog.ErrMissingLog
	}
	return d, nil
}

func (f *fakeLogs) Prefetch(_ context.Context, names []string) map[string]error {
	f.prefetched = append(f.prefetched, names...)
	return nil
}

func ts(hhmm string) string { return "2016-03-01T" + hhmm + ":00Z" }

func at(hhmm string) time.Time {
	t, _ := time.Parse(time.RFC3339, ts(hhmm))
	return t
}

func build(name, phase, created, started, completed string) record.Build {
	b := record.Build{
		Metadata: record.Metadata{Name: name},
		Status:   record.Status{Phase: phase},
	}
	if created != "" {
		b.Metadata.CreationTimestamp = ts(created)
	}
	if started != "" {
		b.Status.StartTimestamp = ts(started)
	}
	if completed != "" {
		b.Status.CompletionTimestamp = ts(completed)
	}
	return b
}

func fixture() []record.Build {
	b1 := build("b1", record.PhaseComplete, "10:00", "10:01", "10:05")
	b1.Status.Duration = int64(240 * time.Second)
	b1.Metadata.Annotations = map[string]string{
		record.AnnotationTarMetadata: `{"size": 2097152}`,
	}

	return []record.Build{
		build("b3", record.PhaseFailed, "10:00", "10:02", "10:30"),
		build("b4", record.PhaseComplete, "10:00", "", "10:40"),
		b1,
		build("b5", "Running", "10:00", "10:03", ""),
		build("b2", record.PhaseComplete, "10:10", "10:05", "10:20"),
	}
}

func TestAnalyzerRun(t *testing.T) {
	logs := &fakeLogs{data: map[string]*buildlog.Data{
		"b1": {
			Image:   "img",
			Plugins: map[string]time.Duration{buildlog.PluginSquash: 30 * time.Second},
		},
	}}

	rep, err := NewAnalyzer(time.Hour, logs).Run(context.Background(), fixture())
	require.NoError(t, err)

	assert.Equal(t, []string{"b1", "b3"}, logs.prefetched)

	require.Len(t, rep.Current, 2)
	b1 := rep.Current[0]
	assert.Equal(t, "b1", b1.Name)
	assert.Equal(t, "img", b1.Image)
	assert.Equal(t, 1, b1.Throughput)
	assert.Equal(t, 60.0, b1.Pending)
	assert.Equal(t, 240.0, b1.Running)
	assert.Equal(t, 30.0, b1.Squash)
	assert.True(t, math.IsNaN(b1.PullBaseImage))
	assert.Equal(t, 2.0, b1.UploadSizeMB)

	b3 := rep.Current[1]
	assert.Equal(t, record.PhaseFailed, b3.State)
	assert.Equal(t, 2, b3.Throughput, "failed builds carry the last throughput")
	assert.True(t, math.IsNaN(b3.UploadSizeMB))

	require.Len(t, rep.Archived, 1)
	b2 := rep.Archived[0]
	assert.Equal(t, "b2", b2.Name)
	assert.Equal(t, 2, b2.Throughput)
	assert.True(t, math.IsNaN(b2.Pending))
	assert.True(t, math.IsNaN(b2.UploadSizeMB))

	assert.Equal(t, 3, rep.Summary.BuildsExamined)
	assert.Equal(t, map[string]int{record.PhaseComplete: 3, record.PhaseFailed: 1}, rep.Summary.States)
	assert.Equal(t, []string{"b3"}, rep.Summary.MissingLog)
	assert.Equal(t, "Tue Mar  1 10:05:00 2016", rep.Summary.EarliestCompletion)
	assert.Equal(t, "Tue Mar  1 10:40:00 2016", rep.Summary.LatestCompletion)

	assert.Equal(t, []timeseries.Event{
		{At: at("10:01"), Count: 1},
		{At: at("10:02"), Count: 2},
		{At: at("10:05"), Count: 1}, // b1 retires before b2 starts
		{At: at("10:05"), Count: 2},
		{At: at("10:20"), Count: 1},
		{At: at("10:30"), Count: 0},
	}, rep.Concurrent)

	assert.Equal(t, 2, rep.PeakThroughput())
	assert.Equal(t, 2, rep.PeakConcurrency())
	assert.InDelta(t, 75.0, rep.SuccessRate(), 1e-9)
}

func TestAnalyzerWithoutLogs(t *testing.T) {
	rep, err := NewAnalyzer(time.Hour, nil).Run(context.Background(), fixture())
	require.NoError(t, err)

	assert.Equal(t, []string{"b1", "b3"}, rep.Summary.MissingLog)
	require.Len(t, rep.Current, 2)
	assert.Empty(t, rep.Current[0].Image)
	assert.True(t, math.IsNaN(rep.Current[0].Squash))
	assert.Equal(t, 2.0, rep.Current[0].UploadSizeMB, "tar metadata needs no log")
}

func TestAnalyzerLogErrorAborts(t *testing.T) {
	boom := errors.New("boom")
	_, err := NewAnalyzer(time.Hour, &fakeLogs{err: boom}).Run(context.Background(), fixture())
	assert.ErrorIs(t, err, boom)
}

func TestAnalyzerEmpty(t *testing.T) {
	rep, err := NewAnalyzer(time.Hour, nil).Run(context.Background(), nil)
	require.NoError(t, err)

	assert.Zero(t, rep.Summary.BuildsExamined)
	assert.Empty(t, rep.Concurrent)
	assert.True(t, math.IsNaN(rep.SuccessRate()))

	raw, err := json.Marshal(rep.Summary)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"builds examined": 0,
		"earliest_completion": "",
		"latest_completion": "",
		"missing-log": [],
		"states": {}
	}`, string(raw))
}

func TestColumns(t *testing.T) {
	var headers []string
	for _, c := range Columns {
		headers = append(headers, c.Header)
	}
	assert.Equal(t, []string{
		"name", "image", "completion", "state", "throughput", "pending", "running",
		"plugin_pull_base_image", "plugin_distgit_fetch_artefacts", "docker_build",
		"plugin_squash", "plugin_compress", "plugin_pulp_push", "upload_size_mb",
		"failed_plugin", "exception",
	}, headers)

	row := newRow("b1", record.PhaseComplete, at("10:05"))
	assert.Equal(t, "2016-03-01 10:05:00", Columns[2].Value(&row))
}
