package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"fungen.dev/internal/config"
)

func TestLoadConfig_NoFile(t *testing.T) {
	cfg, loaded, err := config.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatalf("expected an error for a missing explicit path, got config=%+v loaded=%v", cfg, loaded)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	dir := t.TempDir()
	wd, _ := os.Getwd()
	defer os.Chdir(wd)
	os.Chdir(dir)

	cfg, loaded, err := config.LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if loaded {
		t.Fatalf("expected loaded=false with no config file present")
	}
	if cfg.Server.Address == "" {
		t.Fatalf("expected a default server address")
	}
	if cfg.Cache.MaxEntries != 20 || cfg.Cache.TTLSeconds != 60 {
		t.Fatalf("expected spec-default cache bounds, got %+v", cfg.Cache)
	}
}

func TestLoadConfig_PartialFileOverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(path, []byte("store:\n  dsn: postgres://example/db\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, loaded, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if !loaded {
		t.Fatalf("expected loaded=true")
	}
	if cfg.Store.DSN != "postgres://example/db" {
		t.Fatalf("got dsn %q", cfg.Store.DSN)
	}
	if cfg.Cache.MaxEntries != 20 {
		t.Fatalf("expected cache defaults to survive a partial file, got %d", cfg.Cache.MaxEntries)
	}
}

func TestValidate_RejectsOverCeilingMaxPredict(t *testing.T) {
	cfg := config.Defaults()
	cfg.Ollama.MaxPredict = 5000
	if err := config.Validate(cfg); err == nil {
		t.Fatalf("expected an error for max_predict over the ceiling")
	}
}

func TestValidate_RejectsBadCacheBounds(t *testing.T) {
	cfg := config.Defaults()
	cfg.Cache.MaxEntries = 0
	if err := config.Validate(cfg); err == nil {
		t.Fatalf("expected an error for non-positive cache.max_entries")
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("FUNGEN_STORE_DSN", "postgres://override/db")
	t.Setenv("FUNGEN_CACHE_MAX_ENTRIES", "42")

	cfg := config.Defaults()
	config.ApplyEnvOverrides(cfg)

	if cfg.Store.DSN != "postgres://override/db" {
		t.Fatalf("got dsn %q", cfg.Store.DSN)
	}
	if cfg.Cache.MaxEntries != 42 {
		t.Fatalf("got max_entries %d", cfg.Cache.MaxEntries)
	}
}

func TestApplyEnvOverrides_MalformedIntLeftUnchanged(t *testing.T) {
	t.Setenv("FUNGEN_CACHE_MAX_ENTRIES", "not-a-number")

	cfg := config.Defaults()
	config.ApplyEnvOverrides(cfg)

	if cfg.Cache.MaxEntries != 20 {
		t.Fatalf("expected malformed override to be ignored, got %d", cfg.Cache.MaxEntries)
	}
}
