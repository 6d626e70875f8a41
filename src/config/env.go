package config

import (
	"fmt"
	"os"
	"strconv"
)

// Environment variables that override file configuration.
const (
	EnvLogLevel    = "BUILDLENS_LOG_LEVEL"
	EnvLogDir      = "BUILDLENS_LOG_DIR"
	EnvRequireLogs = "METRICS_REQUIRE_LOGS"
	EnvRecordsPath = "BUILDLENS_RECORDS"
)

func applyEnv(cfg *Config) error {
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv(EnvLogDir); v != "" {
		cfg.Logs.Dir = v
	}
	if v := os.Getenv(EnvRecordsPath); v != "" {
		cfg.Records.Path = v
	}
	if v := os.Getenv(EnvRequireLogs); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: expected an integer, got %q", EnvRequireLogs, v)
		}
		required := n != 0
		cfg.Logs.Required = &required
	}
	return nil
}
