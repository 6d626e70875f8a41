package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	defaultConfigFile     = ".buildlens.yml"
	defaultTOMLConfigFile = ".buildlens.toml"
)

// Config is the top-level buildlens configuration.
type Config struct {
	Records RecordsConfig `yaml:"records" toml:"records"`
	Graph   GraphConfig   `yaml:"graph" toml:"graph"`
	Metrics MetricsConfig `yaml:"metrics" toml:"metrics"`
	Logs    LogsConfig    `yaml:"logs" toml:"logs"`
	Badges  BadgesConfig  `yaml:"badges" toml:"badges"`
	Log     LogConfig     `yaml:"log" toml:"log"`
}

// RecordsConfig locates the build records to analyze.
type RecordsConfig struct {
	Path string `yaml:"path" toml:"path"` // file path; empty or "-" reads stdin
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	Level  string `yaml:"level" toml:"level"`   // debug, info, warn, error
	Format string `yaml:"format" toml:"format"` // text, json, logfmt
}

// Load reads configuration from a YAML or TOML file, then applies
// environment overrides (a .env file in the working directory is loaded
// first when present).
// If path is empty, it tries .buildlens.yml, then .buildlens.toml.
// Returns sensible defaults if no file exists.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
		if _, err := os.Stat(path); err != nil {
			path = defaultTOMLConfigFile
		}
	}

	cfg := defaults()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := decode(path, data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		// no config file: defaults
	default:
		return nil, err
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return toml.Unmarshal(data, cfg)
	default:
		return yaml.Unmarshal(data, cfg)
	}
}

func defaults() *Config {
	return &Config{
		Graph:   DefaultGraphConfig(),
		Metrics: DefaultMetricsConfig(),
		Logs:    DefaultLogsConfig(),
		Badges:  DefaultBadgesConfig(),
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Default returns the configuration used when no file is present.
func Default() *Config { return defaults() }
