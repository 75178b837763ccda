package config

import (
	"fmt"
	"os"
)

// defaultConfigPath is the conventional per-project config file, checked
// when no explicit path is given.
const defaultConfigPath = "./.fungen.yaml"

// LoadConfig loads configuration from customPath if given (a missing
// customPath is an error), else from defaultConfigPath, falling back to
// Defaults() if that file does not exist. The
// returned bool reports whether a file was actually loaded. Env
// overrides (ApplyEnvOverrides) are not applied here — callers run them
// afterward so CLI flags, file, and env compose predictably.
func LoadConfig(customPath string) (*Config, bool, error) {
	if customPath != "" {
		cfg, err := loadFromFile(customPath)
		if err != nil {
			return nil, false, err
		}
		if cfg != nil {
			return cfg, true, nil
		}
		return nil, false, fmt.Errorf("config file not found: %s", customPath)
	}

	cfg, err := loadFromFile(defaultConfigPath)
	if err != nil {
		return nil, false, err
	}
	if cfg != nil {
		return cfg, true, nil
	}

	return Defaults(), false, nil
}

func loadFromFile(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	cfg, err := ParseConfig(path)
	if err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config at %s: %w", path, err)
	}
	return cfg, nil
}
