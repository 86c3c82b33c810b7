// Package config loads optional YAML configuration supplying conversion
// defaults. CLI flags override config values; config values override
// built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/mdpage/mdpage/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound = errors.New("config file not found")
	ErrConfigParse    = errors.New("failed to parse config")
)

// Config holds conversion defaults loaded from a YAML file.
type Config struct {
	Scale    float64       `yaml:"scale"`
	FontSize int           `yaml:"fontSize"`
	Margins  MarginsConfig `yaml:"margins"`
	Timeout  string        `yaml:"timeout"` // Go duration string, e.g. "45s"
	Debug    DebugConfig   `yaml:"debug"`
}

// MarginsConfig holds per-side margins in millimeters. A nil pointer
// means "not set": zero is a valid margin, so presence must be
// distinguishable from absence.
type MarginsConfig struct {
	All    *float64 `yaml:"all"`
	Top    *float64 `yaml:"top"`
	Right  *float64 `yaml:"right"`
	Bottom *float64 `yaml:"bottom"`
	Left   *float64 `yaml:"left"`
}

// DebugConfig controls the diagnostic surface.
type DebugConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"` // default: "<input dir>/.mdpage-debug"
}

// DefaultConfig returns a config with no values set; callers fall back to
// their own defaults for zero fields.
func DefaultConfig() *Config {
	return &Config{}
}

// LoadConfig reads and parses a YAML config file. Unknown fields are
// rejected so typos surface instead of silently applying defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, path, err)
	}

	return cfg, nil
}
