package config

// Graph output formats.
const (
	FormatGraphEasy = "graph-easy"
	FormatDOT       = "dot"
)

// GraphConfig holds dependency graph rendering options.
type GraphConfig struct {
	Trim       bool   `yaml:"trim" toml:"trim"`             // collapse excess version tags
	Datestamps bool   `yaml:"datestamps" toml:"datestamps"` // annotate nodes with build date
	Format     string `yaml:"format" toml:"format"`         // graph-easy or dot
	Output     string `yaml:"output" toml:"output"`         // file path; empty writes stdout
}

// DefaultGraphConfig returns production defaults.
func DefaultGraphConfig() GraphConfig {
	return GraphConfig{
		Trim:       true,
		Datestamps: true,
		Format:     FormatGraphEasy,
	}
}
