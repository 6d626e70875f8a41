package config

// BadgesConfig holds badge generation configuration.
type BadgesConfig struct {
	FontSize  float64 `yaml:"font_size" toml:"font_size"`   // pixel size (default: 11)
	FontFile  string  `yaml:"font_file" toml:"font_file"`   // path to custom TTF/OTF (default: built-in Go Regular)
	OutputDir string  `yaml:"output_dir" toml:"output_dir"` // default: .buildlens/badges
}

// DefaultBadgesConfig returns sensible defaults for badge generation.
func DefaultBadgesConfig() BadgesConfig {
	return BadgesConfig{
		FontSize:  11,
		OutputDir: ".buildlens/badges",
	}
}
