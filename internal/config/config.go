// Package config loads the tool configuration. Configuration is
// optional; everything works with the defaults.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config is the top-level configuration for vtop.
type Config struct {
	// TopModule overrides the top-module name derived from the output
	// file name. Empty keeps the derived name.
	TopModule string `json:"topModule,omitempty"`

	// Check contains design-rule check configuration.
	Check CheckConfig `json:"check,omitempty"`
}

// CheckConfig configures the design-rule checks.
type CheckConfig struct {
	// Rules maps rule names to severity: "off", "info", "warning" or
	// "error". Unlisted rules keep their built-in severity.
	Rules map[string]string `json:"rules,omitempty"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Check: CheckConfig{
			Rules: map[string]string{},
		},
	}
}

// searchPaths lists the config locations in lookup order, relative to
// the working directory.
func searchPaths(dir string) []string {
	paths := []string{
		filepath.Join(dir, "vtop.json"),
		filepath.Join(dir, ".vtop.json"),
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "vtop", "config.json"))
	}
	return paths
}

// Load finds and loads the configuration for dir, falling back to the
// defaults when no config file exists.
func Load(dir string) (*Config, error) {
	for _, path := range searchPaths(dir) {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		return LoadFile(path)
	}
	return DefaultConfig(), nil
}

// LoadFile loads configuration from an explicit path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration as indented JSON.
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}
