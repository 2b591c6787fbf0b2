package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Limits.KeyMessages != 20 {
		t.Errorf("expected 20 key messages, got %d", cfg.Limits.KeyMessages)
	}
	if cfg.Cache.TTL != 5*time.Minute {
		t.Errorf("expected 5m TTL, got %v", cfg.Cache.TTL)
	}
	if cfg.Cache.SweepThreshold != 100 {
		t.Errorf("expected sweep threshold 100, got %d", cfg.Cache.SweepThreshold)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected info level, got %q", cfg.Logging.Level)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if cfg.Limits.Goals != 15 {
		t.Errorf("expected default goal cap 15, got %d", cfg.Limits.Goals)
	}
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("empty path should not error: %v", err)
	}
	if cfg.Cache.TTL != 5*time.Minute {
		t.Errorf("expected default TTL, got %v", cfg.Cache.TTL)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
limits:
  key_messages: 5
  goals: 3
cache:
  ttl: 30s
logging:
  level: debug
archive:
  path: /tmp/coach.db
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Limits.KeyMessages != 5 || cfg.Limits.Goals != 3 {
		t.Errorf("limits not applied: %+v", cfg.Limits)
	}
	if cfg.Cache.TTL != 30*time.Second {
		t.Errorf("expected 30s TTL, got %v", cfg.Cache.TTL)
	}
	// Unset fields keep their defaults.
	if cfg.Cache.SweepThreshold != 100 {
		t.Errorf("expected default sweep threshold, got %d", cfg.Cache.SweepThreshold)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected debug level, got %q", cfg.Logging.Level)
	}
	if cfg.Archive.Path != "/tmp/coach.db" {
		t.Errorf("expected archive path, got %q", cfg.Archive.Path)
	}
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(":: not yaml"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoadClampsCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "cache:\n  ttl: 0s\n  sweep_threshold: -1\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Cache.TTL != 5*time.Minute || cfg.Cache.SweepThreshold != 100 {
		t.Errorf("expected clamped defaults, got %+v", cfg.Cache)
	}
}
