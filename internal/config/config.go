// Package config loads tool configuration: a TOML file with defaults,
// then environment overrides. A .env file in the working directory is
// honored.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

type Crawl struct {
	MaxPages       int     `toml:"max_pages"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
	UserAgent      string  `toml:"user_agent"`
	RatePerSecond  float64 `toml:"rate_per_second"`
}

type Config struct {
	DataDir         string `toml:"data_dir"`
	SchemaDir       string `toml:"schema_dir"`
	MonitoringState string `toml:"monitoring_state"`
	Crawl           Crawl  `toml:"crawl"`
}

func Default() *Config {
	return &Config{
		DataDir:         "data",
		SchemaDir:       "schemas",
		MonitoringState: filepath.Join("data", "monitoring.json"),
		Crawl: Crawl{
			MaxPages:       10,
			TimeoutSeconds: 10,
			UserAgent:      "geoaudit/1.0",
		},
	}
}

// Load reads the TOML file at path when present, otherwise keeps the
// defaults, and applies environment overrides on top. An unreadable or
// malformed config file is an error; an absent one is not.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("config %s: %w", path, err)
			}
		case !errors.Is(err, fs.ErrNotExist):
			return nil, err
		}
	}
	applyEnv(cfg)

	if cfg.Crawl.MaxPages <= 0 || cfg.Crawl.TimeoutSeconds <= 0 {
		return nil, fmt.Errorf("config: max_pages and timeout_seconds must be positive")
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("GEOAUDIT_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("GEOAUDIT_SCHEMA_DIR"); v != "" {
		cfg.SchemaDir = v
	}
	if v := os.Getenv("GEOAUDIT_MONITORING_STATE"); v != "" {
		cfg.MonitoringState = v
	}
	if v := os.Getenv("GEOAUDIT_USER_AGENT"); v != "" {
		cfg.Crawl.UserAgent = v
	}
	if v := os.Getenv("GEOAUDIT_MAX_PAGES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Crawl.MaxPages = n
		}
	}
	if v := os.Getenv("GEOAUDIT_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Crawl.TimeoutSeconds = n
		}
	}
}

func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.Crawl.TimeoutSeconds) * time.Second
}
