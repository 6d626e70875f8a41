package config

import (
	"fmt"
	"strings"
)

var validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
var validLogFormats = map[string]bool{"text": true, "json": true, "logfmt": true}

// Validate checks structural invariants of a loaded Config.
// Returns warnings (soft issues) and a hard error if the config is invalid.
func Validate(cfg *Config) (warnings []string, err error) {
	var errs []string

	// ── Graph ─────────────────────────────────────────────────────────────

	switch cfg.Graph.Format {
	case FormatGraphEasy, FormatDOT:
	default:
		errs = append(errs, fmt.Sprintf("graph.format: unknown format %q (supported: %s, %s)", cfg.Graph.Format, FormatGraphEasy, FormatDOT))
	}

	// ── Metrics ───────────────────────────────────────────────────────────

	if window, werr := cfg.Metrics.Window(); werr != nil {
		errs = append(errs, werr.Error())
	} else if window <= 0 {
		warnings = append(warnings, fmt.Sprintf("metrics.throughput_window: %s is not positive; throughput will always be 1", window))
	}
	if cfg.Metrics.OutputDir == "" {
		errs = append(errs, "metrics.output_dir: must not be empty")
	}

	// ── Logs ──────────────────────────────────────────────────────────────

	if cfg.Logs.LogsRequired() && len(cfg.Logs.Command) == 0 {
		errs = append(errs, "logs.command: required when logs are required")
	}
	if cfg.Logs.Parallel < 1 {
		errs = append(errs, fmt.Sprintf("logs.parallel: must be at least 1, got %d", cfg.Logs.Parallel))
	}
	if cfg.Logs.MemoryCacheSize < 0 {
		errs = append(errs, fmt.Sprintf("logs.memory_cache_size: must not be negative, got %d", cfg.Logs.MemoryCacheSize))
	}
	if !cfg.Logs.Cache && cfg.Logs.LogsRequired() {
		warnings = append(warnings, "logs.cache: disabled; every run re-parses all build logs")
	}

	// ── Badges ────────────────────────────────────────────────────────────

	if cfg.Badges.FontSize < 0 {
		errs = append(errs, fmt.Sprintf("badges.font_size: must not be negative, got %g", cfg.Badges.FontSize))
	}

	// ── Log ───────────────────────────────────────────────────────────────

	if cfg.Log.Level != "" && !validLogLevels[strings.ToLower(cfg.Log.Level)] {
		errs = append(errs, fmt.Sprintf("log.level: unknown level %q (supported: debug, info, warn, error)", cfg.Log.Level))
	}
	if cfg.Log.Format != "" && !validLogFormats[strings.ToLower(cfg.Log.Format)] {
		errs = append(errs, fmt.Sprintf("log.format: unknown format %q (supported: text, json, logfmt)", cfg.Log.Format))
	}

	if len(errs) > 0 {
		return warnings, fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return warnings, nil
}
