package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultComplexityCeiling applies to every function without an override row.
const DefaultComplexityCeiling = 15

// Config holds all configuration options for fxmetrics.
type Config struct {
	Thresholds ThresholdConfig `koanf:"thresholds" toml:"thresholds"`
	Exclude    ExcludeConfig   `koanf:"exclude" toml:"exclude"`
	Output     OutputConfig    `koanf:"output" toml:"output"`
}

// ThresholdConfig is the complexity threshold policy: a default ceiling plus
// exact (file-suffix, function-name) override rows. The nesting ceiling is a
// fixed constant and deliberately absent here.
type ThresholdConfig struct {
	Complexity int            `koanf:"complexity" toml:"complexity"`
	Overrides  []OverrideRule `koanf:"overrides" toml:"overrides"`
}

// OverrideRule raises the complexity ceiling for one function in one file.
type OverrideRule struct {
	// File matches when it is a path suffix of the analyzed file.
	File     string `koanf:"file" toml:"file"`
	Function string `koanf:"function" toml:"function"`
	Limit    int    `koanf:"limit" toml:"limit"`
}

// ExcludeConfig defines patterns skipped during directory scans. Patterns use
// gitignore syntax.
type ExcludeConfig struct {
	Patterns  []string `koanf:"patterns" toml:"patterns"`
	Gitignore bool     `koanf:"gitignore" toml:"gitignore"`
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format string `koanf:"format" toml:"format"` // text, json, toon
	Color  bool   `koanf:"color" toml:"color"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Thresholds: ThresholdConfig{
			Complexity: DefaultComplexityCeiling,
		},
		Exclude: ExcludeConfig{
			Patterns: []string{
				"__pycache__/",
				".git/",
				".tox/",
				".venv/",
				"venv/",
				"build/",
				"dist/",
				"*.egg-info/",
			},
			Gitignore: true,
		},
		Output: OutputConfig{
			Format: "text",
			Color:  true,
		},
	}
}

// ComplexityCeiling returns the ceiling to apply to a function. Override rows
// match on exact function name and file path suffix; unmatched pairs fall
// through to the default.
func (c *Config) ComplexityCeiling(path, qualifiedName string) int {
	for _, rule := range c.Thresholds.Overrides {
		if rule.Function == qualifiedName && strings.HasSuffix(path, rule.File) {
			return rule.Limit
		}
	}
	if c.Thresholds.Complexity > 0 {
		return c.Thresholds.Complexity
	}
	return DefaultComplexityCeiling
}

// Load loads configuration from a file.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		parser = toml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOrDefault tries to load config from standard locations or returns defaults.
func LoadOrDefault() *Config {
	configNames := []string{
		"fxmetrics.toml",
		"fxmetrics.yaml",
		"fxmetrics.yml",
		"fxmetrics.json",
		".fxmetrics.toml",
		".fxmetrics.yaml",
		".fxmetrics.yml",
		".fxmetrics.json",
	}

	for _, name := range configNames {
		if _, err := os.Stat(name); err == nil {
			cfg, err := Load(name)
			if err == nil {
				return cfg
			}
		}
	}

	return DefaultConfig()
}
