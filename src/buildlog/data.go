// Package buildlog fetches raw build logs through an external command,
// extracts per-plugin timings and failure details from them, and caches the
// parsed result next to the log.
package buildlog

import (
	"errors"
	"time"
)

// ErrMissingLog reports that no usable log exists for a build. It is a
// recoverable condition: callers record the build as missing and move on.
var ErrMissingLog = errors.New("build log missing")

// Plugin names whose timings feed the metrics tables.
const (
	PluginPullBaseImage         = "pull_base_image"
	PluginDistgitFetchArtefacts = "distgit_fetch_artefacts"
	PluginDockerfileContent     = "dockerfile_content"
	PluginSquash                = "squash"
	PluginCompress              = "compress"
	PluginPulpPush              = "pulp_push"
)

// FailedBuildPlugin is reported when the build failed outside any plugin.
const FailedBuildPlugin = "build"

// Data is what a build log yields.
type Data struct {
	Name         string                   `json:"name,omitempty"`
	Image        string                   `json:"image,omitempty"`
	UploadSizeMB *float64                 `json:"upload_size_mb,omitempty"`
	Plugins      map[string]time.Duration `json:"plugins,omitempty"`
	FailedPlugin string                   `json:"failed_plugin,omitempty"`
	Exception    string                   `json:"exception,omitempty"`
}

// Plugin returns how long the named plugin ran.
func (d *Data) Plugin(name string) (time.Duration, bool) {
	if d == nil {
		return 0, false
	}
	v, ok := d.Plugins[name]
	return v, ok
}
