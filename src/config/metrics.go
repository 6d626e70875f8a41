package config

import (
	"fmt"
	"time"
)

// MetricsConfig holds time-series and CSV table options.
type MetricsConfig struct {
	ThroughputWindow string `yaml:"throughput_window" toml:"throughput_window"` // Go duration, e.g. "1h"
	OutputDir        string `yaml:"output_dir" toml:"output_dir"`               // where metrics-*.csv land
}

// DefaultMetricsConfig returns production defaults.
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		ThroughputWindow: "1h",
		OutputDir:        ".",
	}
}

// Window parses the throughput window duration.
func (m MetricsConfig) Window() (time.Duration, error) {
	if m.ThroughputWindow == "" {
		return time.Hour, nil
	}
	d, err := time.ParseDuration(m.ThroughputWindow)
	if err != nil {
		return 0, fmt.Errorf("metrics.throughput_window: %w", err)
	}
	return d, nil
}
