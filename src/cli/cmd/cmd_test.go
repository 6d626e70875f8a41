package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const recordsJSON = `[
  {
    "metadata": {
      "name": "b1",
      "creationTimestamp": "2016-03-01T10:00:00Z",
      "annotations": {
        "base-image-name": "fedora:23",
        "repositories": "{\"primary\": [\"reg.example.com/foo:1.0\", \"reg.example.com/foo:latest\"]}"
      }
    },
    "status": {
      "phase": "Complete",
      "startTimestamp": "2016-03-01T10:01:00Z",
      "completionTimestamp": "2016-03-01T10:05:00Z",
      "duration": 240000000000
    }
  },
  {
    "metadata": {
      "name": "b2",
      "creationTimestamp": "2016-03-01T10:00:00Z",
      "annotations": {
        "base-image-name": "fedora:23",
        "repositories": "{\"primary\": [\"reg.example.com/bar:2.0\"]}"
      }
    },
    "status": {
      "phase": "Failed",
      "startTimestamp": "2016-03-01T10:02:00Z",
      "completionTimestamp": "2016-03-01T10:10:00Z"
    }
  }
]`

// run executes the CLI in a scratch directory holding records.json and
// returns stdout.
func run(t *testing.T, args ...string) (string, string) {
	t.Helper()

	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("GITLAB_CI", "")
	t.Setenv("NO_COLOR", "1")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "records.json"), []byte(recordsJSON), 0o644))

	// Flag variables outlive a single Execute.
	graphNoTrim, graphNoDates, graphFormat, graphOutput = false, false, "", ""
	metricsOutputDir, metricsWindow, metricsNoLogs, metricsLogDir, metricsParallel, metricsJSON = "", "", false, "", 0, false
	badgeOutputDir, badgeFontFile = "", ""
	cfgFile, verbose, logLevel, logFormat = "", false, "", ""

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.ExecuteContext(context.Background()))
	return out.String(), dir
}

func TestGraphCommand(t *testing.T) {
	out, _ := run(t, "graph", "records.json")
	assert.Equal(t, "[ fedora:23 ] --> [ foo:latest\\n2016-03-01 ]\n", out)
}

func TestGraphCommandDOTUntrimmed(t *testing.T) {
	out, dir := run(t, "graph", "records.json", "--no-trim", "--format", "dot", "--output", "deps.dot")
	assert.Contains(t, out, "── Graph ")

	raw, err := os.ReadFile(filepath.Join(dir, "deps.dot"))
	require.NoError(t, err)
	assert.Equal(t, `digraph buildlens {
  "fedora:23" -> "bar:2.0";
  "fedora:23" -> "foo:1.0";
  "fedora:23" -> "foo:latest";
}
`, string(raw))
}

func TestMetricsCommand(t *testing.T) {
	out, dir := run(t, "metrics", "records.json", "--no-logs", "--output-dir", "out", "--json")

	var sum map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &sum))
	assert.EqualValues(t, 2, sum["builds examined"])
	assert.Equal(t, []any{"b1", "b2"}, sum["missing-log"])
	assert.Equal(t, map[string]any{"Complete": 1.0, "Failed": 1.0}, sum["states"])

	for _, f := range []string{"metrics-current.csv", "metrics-archived.csv", "metrics-concurrent.csv"} {
		assert.FileExists(t, filepath.Join(dir, "out", f))
	}
}

func TestBadgeCommand(t *testing.T) {
	_, dir := run(t, "badge", "records.json", "--output-dir", "badges")

	raw, err := os.ReadFile(filepath.Join(dir, "badges", "success.svg"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "50%")
	assert.FileExists(t, filepath.Join(dir, "badges", "throughput.svg"))
	assert.FileExists(t, filepath.Join(dir, "badges", "concurrency.svg"))
}

func TestLogsClearCommand(t *testing.T) {
	out, _ := run(t, "logs", "clear")
	assert.Contains(t, out, "removed 0 cache file(s)")
}
