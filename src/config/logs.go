package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// LogsConfig controls how raw build logs are fetched, parsed and cached.
type LogsConfig struct {
	Required        *bool   `yaml:"required,omitempty" toml:"required,omitempty"` // fetch logs at all (default true)
	Dir             string  `yaml:"dir" toml:"dir"`                                 // where <build>.log files live
	Command         Command `yaml:"command" toml:"command"`                         // fetch command; build name is appended
	Cache           bool    `yaml:"cache" toml:"cache"`                             // persist parsed logs as <build>.log.cache
	MemoryCacheSize int     `yaml:"memory_cache_size" toml:"memory_cache_size"`     // parsed logs kept in memory
	Parallel        int     `yaml:"parallel" toml:"parallel"`                       // concurrent fetches
	RedactSecrets   bool    `yaml:"redact_secrets" toml:"redact_secrets"`           // scrub secrets from exception text
}

// DefaultLogsConfig returns production defaults.
func DefaultLogsConfig() LogsConfig {
	return LogsConfig{
		Dir:             ".",
		Command:         Command{"osbs", "build-logs"},
		Cache:           true,
		MemoryCacheSize: 1024,
		Parallel:        4,
	}
}

// LogsRequired reports whether logs should be fetched.
func (l LogsConfig) LogsRequired() bool {
	return l.Required == nil || *l.Required
}

// Command is an argv prefix. In YAML it accepts either a list or a single
// whitespace-separated string:
//
//	command: osbs build-logs
//	command: [osbs, --instance, prod, build-logs]
type Command []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Command) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*c = strings.Fields(value.Value)
		return nil
	case yaml.SequenceNode:
		var argv []string
		if err := value.Decode(&argv); err != nil {
			return fmt.Errorf("logs.command: %w", err)
		}
		*c = argv
		return nil
	}
	return fmt.Errorf("logs.command: expected string or list, got YAML kind %d", value.Kind)
}

// String renders the command for display.
func (c Command) String() string {
	return strings.Join(c, " ")
}
