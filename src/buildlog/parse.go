package buildlog

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// minLogSize is the size below which a log is treated as absent; the fetch
// command leaves a stub behind when the build has no log.
const minLogSize = 50

const pluginTimeLayout = "2006-01-02 15:04:05"

var (
	nameRe      = regexp.MustCompile(`selflink.: u./oapi/v1/namespaces/default/builds/([^,]*).,`)
	sizeRe      = regexp.MustCompile(` - dockpulp - INFO - uploading a (.*)M image`)
	pluginRe    = regexp.MustCompile(`([0-9 :-]*),[0-9]+ - atomic_reactor.plugin - DEBUG - running plugin '(.*)'`)
	errorRe     = regexp.MustCompile(`ERROR - .*plugin '(.*)' raised an exception: ([^(]*)`)
	imageRe     = regexp.MustCompile(`pulp_push - INFO - image names: \[.*'([^']*):latest`)
	buildFailRe = regexp.MustCompile(`INFO - build was unsuccess?ful`)
)

// ParseFile reads and parses the log at path.
func ParseFile(path string) (*Data, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingLog, err)
	}
	return Parse(string(raw))
}

// Parse extracts build details from raw log text.
//
// Plugin timings are the gap between consecutive "running plugin" lines, so
// the last plugin to run gets none.
func Parse(log string) (*Data, error) {
	if len(log) < minLogSize {
		return nil, ErrMissingLog
	}

	d := &Data{Plugins: map[string]time.Duration{}}

	if m := nameRe.FindStringSubmatch(log); m != nil {
		d.Name = m[1]
	}
	if m := sizeRe.FindStringSubmatch(log); m != nil {
		if size, err := strconv.ParseFloat(strings.TrimSpace(m[1]), 64); err == nil {
			d.UploadSizeMB = &size
		}
	}
	if m := imageRe.FindStringSubmatch(log); m != nil {
		d.Image = m[1]
	}

	var (
		lastName string
		lastAt   time.Time
		running  bool
	)
	for _, m := range pluginRe.FindAllStringSubmatch(log, -1) {
		at, err := time.Parse(pluginTimeLayout, strings.TrimSpace(m[1]))
		if err != nil {
			continue
		}
		if running {
			d.Plugins[lastName] = at.Sub(lastAt)
		}
		lastName, lastAt, running = m[2], at, true
	}

	if m := errorRe.FindStringSubmatch(log); m != nil {
		d.FailedPlugin = m[1]
		d.Exception = m[2]
	} else if buildFailRe.MatchString(log) {
		d.FailedPlugin = FailedBuildPlugin
		d.Exception = ""
	}

	return d, nil
}
