// Package config loads engine and assembler tuning from a YAML file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rcliao/coach-memory/internal/engine"
)

// Config is the full tuning file.
type Config struct {
	Limits  engine.Limits `yaml:"limits"`
	Cache   CacheConfig   `yaml:"cache"`
	Archive ArchiveConfig `yaml:"archive"`
	Logging LoggingConfig `yaml:"logging"`
}

// CacheConfig tunes the context assembler cache.
type CacheConfig struct {
	TTL            time.Duration `yaml:"ttl"`
	SweepThreshold int           `yaml:"sweep_threshold"`
}

// UnmarshalYAML parses the cache section, accepting ttl as a duration
// string ("5m", "30s").
func (c *CacheConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		TTL            string `yaml:"ttl"`
		SweepThreshold int    `yaml:"sweep_threshold"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.TTL != "" {
		d, err := time.ParseDuration(raw.TTL)
		if err != nil {
			return fmt.Errorf("cache.ttl: %w", err)
		}
		c.TTL = d
	}
	c.SweepThreshold = raw.SweepThreshold
	return nil
}

// ArchiveConfig points at the snapshot archive database.
type ArchiveConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig tunes CLI logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug | info | warn | error
}

// Default returns the standard configuration.
func Default() Config {
	return Config{
		Limits: engine.DefaultLimits(),
		Cache: CacheConfig{
			TTL:            5 * time.Minute,
			SweepThreshold: 100,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads a config file, applying defaults for anything unset. A missing
// path returns the defaults without error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Cache.TTL <= 0 {
		cfg.Cache.TTL = 5 * time.Minute
	}
	if cfg.Cache.SweepThreshold <= 0 {
		cfg.Cache.SweepThreshold = 100
	}
	return cfg, nil
}
