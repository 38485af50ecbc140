package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/iancoleman/strcase"
	"gopkg.in/yaml.v3"

	"github.com/mcncl/jsonreform/document"
	"github.com/mcncl/jsonreform/internal/parser"
)

// EnvPrefix is prepended to every environment variable read by ApplyEnv.
const EnvPrefix = "JSONREFORM_"

// Config represents the complete configuration for JSONReform
type Config struct {
	// Format is the output mode used when no --mode flag is given.
	Format string `yaml:"format"`
	// Default is the JSON text returned by get when a path does not resolve.
	Default  string    `yaml:"default"`
	MaxDepth int       `yaml:"max_depth"`
	Color    bool      `yaml:"color"`
	Dev      DevConfig `yaml:"dev"`
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug   bool `yaml:"debug"`
	Verbose bool `yaml:"verbose"`
}

// CLIOverrides holds flag values that take precedence over the config file.
// Empty strings and zero values leave the loaded value alone.
type CLIOverrides struct {
	Format   string
	Default  string
	MaxDepth int
	Color    bool
	Debug    bool
}

// EnvLookup has the signature of os.LookupEnv.
type EnvLookup func(key string) (string, bool)

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Format:   string(document.Compact),
		Default:  "null",
		MaxDepth: parser.DefaultMaxDepth,
		Color:    false,
		Dev: DevConfig{
			Debug:   false,
			Verbose: false,
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults
	cfg := NewConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".jsonreform.yml", ".jsonreform.yaml", "jsonreform.yml", "jsonreform.yaml"}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	// Search up the directory tree
	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root directory
			break
		}
		currentDir = parentDir
	}

	return ""
}

// Validate checks that the format is a known mode, the depth limit is
// positive and the default is a single JSON value.
func (c *Config) Validate() error {
	if !document.FormatMode(c.Format).Valid() {
		return fmt.Errorf("invalid format %q: expected json, pretty or minified", c.Format)
	}
	if c.MaxDepth <= 0 {
		return fmt.Errorf("invalid max_depth %d: must be greater than zero", c.MaxDepth)
	}
	if _, err := parser.ParseString(c.Default); err != nil {
		return fmt.Errorf("invalid default %q: %w", c.Default, err)
	}
	return nil
}

// FormatMode returns the configured output mode.
func (c *Config) FormatMode() document.FormatMode {
	return document.FormatMode(c.Format)
}

// EnvName returns the environment variable that overrides the named field,
// e.g. EnvName("MaxDepth") is "JSONREFORM_MAX_DEPTH".
func EnvName(field string) string {
	return EnvPrefix + strcase.ToScreamingSnake(field)
}

// ApplyEnv overrides fields from environment variables. Variables that are
// unset or empty are ignored.
func (c *Config) ApplyEnv(lookup EnvLookup) error {
	if lookup == nil {
		return nil
	}

	get := func(field string) (string, bool) {
		value, ok := lookup(EnvName(field))
		return value, ok && value != ""
	}

	if v, ok := get("Format"); ok {
		c.Format = v
	}
	if v, ok := get("Default"); ok {
		c.Default = v
	}
	if v, ok := get("MaxDepth"); ok {
		depth, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvName("MaxDepth"), err)
		}
		c.MaxDepth = depth
	}

	bools := []struct {
		field string
		dst   *bool
	}{
		{"Color", &c.Color},
		{"Debug", &c.Dev.Debug},
		{"Verbose", &c.Dev.Verbose},
	}
	for _, b := range bools {
		v, ok := get(b.field)
		if !ok {
			continue
		}
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvName(b.field), err)
		}
		*b.dst = parsed
	}

	return nil
}

// MergeConfigs merges CLI overrides into a base config
// Non-empty values from override take precedence over base values
func MergeConfigs(base *Config, override CLIOverrides) *Config {
	merged := *base // Start with a copy of base

	if override.Format != "" {
		merged.Format = override.Format
	}
	if override.Default != "" {
		merged.Default = override.Default
	}
	if override.MaxDepth > 0 {
		merged.MaxDepth = override.MaxDepth
	}

	// Boolean flags can only switch an option on
	if override.Color {
		merged.Color = true
	}
	if override.Debug {
		merged.Dev.Debug = true
	}

	return &merged
}

// LoadConfigWithCLI loads config with CLI argument precedence:
// CLI > environment > config file > defaults.
func LoadConfigWithCLI(configPath string, lookup EnvLookup, cli CLIOverrides) (*Config, error) {
	cfg := NewConfig()

	// Load config file if provided
	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	if err := cfg.ApplyEnv(lookup); err != nil {
		return nil, err
	}

	cfg = MergeConfigs(cfg, cli)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
