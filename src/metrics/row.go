package metrics

import (
	"math"
	"time"

	"github.com/sofmeright/buildlens/src/buildlog"
)

// Row is one line of the current or archived table.
type Row struct {
	Name       string
	Image      string
	Completion time.Time
	State      string
	Throughput int
	Pending    float64 // seconds; NaN for archived builds
	Running    float64 // seconds

	PullBaseImage         float64
	DistgitFetchArtefacts float64
	DockerBuild           float64
	Squash                float64
	Compress              float64
	PulpPush              float64

	UploadSizeMB float64
	FailedPlugin string
	Exception    string
}

// Column pairs a CSV header with the row field it renders.
type Column struct {
	Header string
	Value  func(r *Row) any
}

// CompletionLayout formats completion instants in tables.
const CompletionLayout = "2006-01-02 15:04:05"

// Columns is the fixed table layout.
var Columns = []Column{
	{"name", func(r *Row) any { return r.Name }},
	{"image", func(r *Row) any { return r.Image }},
	{"completion", func(r *Row) any { return r.Completion.UTC().Format(CompletionLayout) }},
	{"state", func(r *Row) any { return r.State }},
	{"throughput", func(r *Row) any { return r.Throughput }},
	{"pending", func(r *Row) any { return r.Pending }},
	{"running", func(r *Row) any { return r.Running }},
	{"plugin_pull_base_image", func(r *Row) any { return r.PullBaseImage }},
	{"plugin_distgit_fetch_artefacts", func(r *Row) any { return r.DistgitFetchArtefacts }},
	{"docker_build", func(r *Row) any { return r.DockerBuild }},
	{"plugin_squash", func(r *Row) any { return r.Squash }},
	{"plugin_compress", func(r *Row) any { return r.Compress }},
	{"plugin_pulp_push", func(r *Row) any { return r.PulpPush }},
	{"upload_size_mb", func(r *Row) any { return r.UploadSizeMB }},
	{"failed_plugin", func(r *Row) any { return r.FailedPlugin }},
	{"exception", func(r *Row) any { return r.Exception }},
}

func newRow(name, state string, completion time.Time) Row {
	nan := math.NaN()
	return Row{
		Name:                  name,
		Completion:            completion,
		State:                 state,
		Pending:               nan,
		PullBaseImage:         nan,
		DistgitFetchArtefacts: nan,
		DockerBuild:           nan,
		Squash:                nan,
		Compress:              nan,
		PulpPush:              nan,
		UploadSizeMB:          nan,
	}
}

// applyLog copies the log's descriptive fields into the row.
func (r *Row) applyLog(d *buildlog.Data) {
	if d == nil {
		return
	}
	r.Image = d.Image
	r.FailedPlugin = d.FailedPlugin
	r.Exception = d.Exception
}

// applyTimings copies plugin durations from the log; plugins that did not
// report keep NaN.
func (r *Row) applyTimings(d *buildlog.Data) {
	set := func(dst *float64, plugin string) {
		if v, ok := d.Plugin(plugin); ok {
			*dst = v.Seconds()
		}
	}
	set(&r.PullBaseImage, buildlog.PluginPullBaseImage)
	set(&r.DistgitFetchArtefacts, buildlog.PluginDistgitFetchArtefacts)
	set(&r.DockerBuild, buildlog.PluginDockerfileContent)
	set(&r.Squash, buildlog.PluginSquash)
	set(&r.Compress, buildlog.PluginCompress)
	set(&r.PulpPush, buildlog.PluginPulpPush)
}
