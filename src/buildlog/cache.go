package buildlog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const cacheSuffix = ".cache"

// Cache persists parsed log data beside the log it came from.
type Cache struct {
	Enabled bool
}

// Get retrieves cached data for a log file. Returns nil, false on cache miss.
func (c *Cache) Get(logPath string) (*Data, bool) {
	if !c.Enabled {
		return nil, false
	}

	data, err := os.ReadFile(c.path(logPath))
	if err != nil {
		return nil, false
	}

	var d Data
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, false
	}
	return &d, true
}

// Put stores parsed data for a log file.
func (c *Cache) Put(logPath string, d *Data) error {
	if !c.Enabled {
		return nil
	}

	path := c.path(logPath)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating cache dir: %w", err)
	}

	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Clear removes every parsed-log cache file in dir and returns how many
// were removed.
func (c *Cache) Clear(dir string) (int, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.log"+cacheSuffix))
	if err != nil {
		return 0, err
	}

	var errs []error
	removed := 0
	for _, m := range matches {
		if err := os.Remove(m); err != nil {
			errs = append(errs, err)
			continue
		}
		removed++
	}
	return removed, errors.Join(errs...)
}

// path returns the cache path for a log file.
func (c *Cache) path(logPath string) string {
	if strings.HasSuffix(logPath, cacheSuffix) {
		return logPath
	}
	return logPath + cacheSuffix
}
