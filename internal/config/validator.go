package config

import (
	"fmt"
	"strings"

	"fungen.dev/internal/generator"
)

var validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
var validLogFormats = map[string]bool{"text": true, "json": true}

// Validate checks a loaded Config against the operational bounds the
// spec names (§6): cache bounds must be positive, max_predict must not
// exceed the adapter ceiling, and logging knobs must name a recognized
// level/format.
func Validate(cfg *Config) error {
	var errs []string

	if cfg.Version == "" {
		errs = append(errs, "version is required")
	}
	if cfg.Cache.MaxEntries <= 0 {
		errs = append(errs, "cache.max_entries must be positive")
	}
	if cfg.Cache.TTLSeconds <= 0 {
		errs = append(errs, "cache.ttl_seconds must be positive")
	}
	if cfg.Ollama.MaxPredict > generator.MaxPredictCeiling {
		errs = append(errs, fmt.Sprintf("ollama.max_predict must be <= %d", generator.MaxPredictCeiling))
	}
	if cfg.Logging.Level != "" && !validLogLevels[cfg.Logging.Level] {
		errs = append(errs, fmt.Sprintf("logging.level %q is not one of debug/info/warn/error", cfg.Logging.Level))
	}
	if cfg.Logging.Format != "" && !validLogFormats[cfg.Logging.Format] {
		errs = append(errs, fmt.Sprintf("logging.format %q is not one of text/json", cfg.Logging.Format))
	}
	if cfg.Server.Address == "" {
		errs = append(errs, "server.address is required")
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
