package version

import (
	"fmt"
	"runtime"
)

// These variables are injected at build time via -ldflags.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// String returns a human-readable version string.
func String() string {
	return fmt.Sprintf("buildlens %s (%s, %s, %s)", Version, Commit, BuildDate, runtime.Version())
}
