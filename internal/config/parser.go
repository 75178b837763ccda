package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ParseConfig reads and parses a single YAML config file, overlaying its
// fields onto Defaults() so a partial file only needs to name what it
// overrides.
func ParseConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML from %s: %w", path, err)
	}
	return cfg, nil
}
