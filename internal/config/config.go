// Package config loads the griphus configuration from YAML and the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration. Zero sections take their defaults.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
	Search  SearchConfig  `yaml:"search"`
	Storage StorageConfig `yaml:"storage"`
	Metrics MetricsConfig `yaml:"metrics"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type LogConfig struct {
	Level string `yaml:"level"` // debug|info|warn|error
}

type SearchConfig struct {
	Seed        int64         `yaml:"seed"` // 0 picks a seed per run
	MaxTicks    int           `yaml:"max_ticks"`
	Timeout     time.Duration `yaml:"timeout"`
	StopOnSolve bool          `yaml:"stop_on_solve"`
	StrictDeath bool          `yaml:"strict_death"`
}

type StorageConfig struct {
	Backend string `yaml:"backend"` // fs|badger
	Path    string `yaml:"path"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

func Default() Config {
	return Config{
		Server:  ServerConfig{Addr: ":8080"},
		Log:     LogConfig{Level: "info"},
		Search:  SearchConfig{MaxTicks: 5_000_000, Timeout: 30 * time.Second, StopOnSolve: true},
		Storage: StorageConfig{Backend: "fs", Path: "./data"},
		Metrics: MetricsConfig{Enabled: true, Path: "/metrics"},
	}
}

// Load starts from Default, overlays the YAML file at path (a missing file
// is not an error), then GRIPHUS_* environment variables, and validates.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return cfg, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}
	fromEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func fromEnv(c *Config) {
	if v := os.Getenv("GRIPHUS_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("GRIPHUS_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("GRIPHUS_SEED"); v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Search.Seed = i
		}
	}
	if v := os.Getenv("GRIPHUS_MAX_TICKS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			c.Search.MaxTicks = i
		}
	}
	if v := os.Getenv("GRIPHUS_STORAGE_BACKEND"); v != "" {
		c.Storage.Backend = v
	}
	if v := os.Getenv("GRIPHUS_STORAGE_PATH"); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv("GRIPHUS_METRICS_ENABLED"); v != "" {
		c.Metrics.Enabled = v == "true" || v == "1"
	}
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if c.Search.MaxTicks < 0 {
		return fmt.Errorf("search.max_ticks must be >= 0")
	}
	if c.Search.Timeout < 0 {
		return fmt.Errorf("search.timeout must be >= 0")
	}
	switch c.Storage.Backend {
	case "fs", "badger":
	default:
		return fmt.Errorf("storage.backend %q: want fs or badger", c.Storage.Backend)
	}
	if c.Storage.Path == "" {
		return fmt.Errorf("storage.path is empty")
	}
	return nil
}

// ParseLevel maps debug|info|warn|error to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("log level %q: want debug, info, warn or error", s)
}
