package buildlog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// Fetcher makes sure a raw log file exists for a build, running the
// configured command when it does not.
type Fetcher struct {
	Dir      string   // where <build>.log files live
	Command  []string // argv prefix; the build name is appended
	Required bool     // when false nothing is fetched and every build is missing
}

// Path returns the log file path for a build.
func (f *Fetcher) Path(name string) string {
	return filepath.Join(f.Dir, name+".log")
}

// Fetch returns the path of the build's log, downloading it first if no
// readable copy exists.
func (f *Fetcher) Fetch(ctx context.Context, name string) (string, error) {
	if !f.Required {
		return "", ErrMissingLog
	}
	if name == "" || filepath.Base(name) != name {
		return "", fmt.Errorf("invalid build name %q", name)
	}

	path := f.Path(name)
	if fh, err := os.Open(path); err == nil {
		fh.Close()
		return path, nil
	}

	if len(f.Command) == 0 {
		return "", fmt.Errorf("%w: no log command configured", ErrMissingLog)
	}
	if err := os.MkdirAll(f.Dir, 0o755); err != nil {
		return "", fmt.Errorf("creating log dir: %w", err)
	}

	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}

	argv := append(append([]string{}, f.Command[1:]...), name)
	cmd := exec.CommandContext(ctx, f.Command[0], argv...)
	cmd.Stdout = out
	log.FromContext(ctx).Info("fetching build log", "build", name, "cmd", cmd.String())

	runErr := cmd.Run()
	closeErr := out.Close()
	if err := errors.Join(runErr, closeErr); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("%w: %s: %v", ErrMissingLog, name, err)
	}
	return path, nil
}
