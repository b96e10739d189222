package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the service configuration.
type Config struct {
	Env        string           `yaml:"-"`
	HTTP       HTTPConfig       `yaml:"http"`
	Logging    LoggingConfig    `yaml:"logging"`
	Database   DatabaseConfig   `yaml:"database"`
	Catalog    CatalogConfig    `yaml:"catalog"`
	Prediction PredictionConfig `yaml:"prediction"`
	Gesture    GestureConfig    `yaml:"gesture"`
	Sessions   SessionsConfig   `yaml:"sessions"`
}

type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// DatabaseConfig is optional; with an empty URL the catalog is read from
// Catalog.Path.
type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type CatalogConfig struct {
	Path string `yaml:"path"`
}

type PredictionConfig struct {
	AngleThresholdDeg float64 `yaml:"angle_threshold_deg"`
}

type GestureConfig struct {
	MinSwipeLength float64 `yaml:"min_swipe_length"`
}

type SessionsConfig struct {
	TTLSec           int `yaml:"ttl_sec"`
	SweepIntervalSec int `yaml:"sweep_interval_sec"`
}

// Load reads .env (if present), then the YAML file named by CONFIG_PATH or
// config/<ENV>.yaml (if present), then applies environment overrides,
// defaults and validation.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{Env: Get("ENV", "local")}

	path := Get("CONFIG_PATH", filepath.Join("config", cfg.Env+".yaml"))
	data, err := os.ReadFile(filepath.Clean(path))
	switch {
	case err == nil:
		if err := yaml.Unmarshal(expandEnvVars(data), &cfg); err != nil {
			return Config{}, fmt.Errorf("load config: parse %q: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		// Env-only configuration.
	default:
		return Config{}, fmt.Errorf("load config: read %q: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Get returns the environment value for key, or fallback when unset.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func (c *Config) applyEnv() error {
	if v := Get("PORT", ""); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PORT: %w", err)
		}
		c.HTTP.Port = port
	}
	if v := Get("ANGLE_THRESHOLD_DEG", ""); v != "" {
		deg, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("ANGLE_THRESHOLD_DEG: %w", err)
		}
		c.Prediction.AngleThresholdDeg = deg
	}
	c.Database.URL = Get("DATABASE_URL", c.Database.URL)
	c.Catalog.Path = Get("CATALOG_PATH", c.Catalog.Path)
	c.Logging.Level = Get("LOG_LEVEL", c.Logging.Level)
	return nil
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8080
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Catalog.Path == "" {
		c.Catalog.Path = "data/seeds/cities.json"
	}
	if c.Prediction.AngleThresholdDeg == 0 {
		c.Prediction.AngleThresholdDeg = 20
	}
	if c.Gesture.MinSwipeLength == 0 {
		c.Gesture.MinSwipeLength = 100
	}
	if c.Sessions.TTLSec <= 0 {
		c.Sessions.TTLSec = 900
	}
	if c.Sessions.SweepIntervalSec <= 0 {
		c.Sessions.SweepIntervalSec = 60
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Prediction.AngleThresholdDeg <= 0 || c.Prediction.AngleThresholdDeg > 180 {
		return fmt.Errorf(
			"prediction.angle_threshold_deg must be in (0, 180], got %g",
			c.Prediction.AngleThresholdDeg,
		)
	}
	if c.Gesture.MinSwipeLength < 0 {
		return fmt.Errorf("gesture.min_swipe_length must not be negative, got %g", c.Gesture.MinSwipeLength)
	}
	return nil
}

func (c SessionsConfig) TTL() time.Duration { return time.Duration(c.TTLSec) * time.Second }

func (c SessionsConfig) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalSec) * time.Second
}

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment values.
func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1])
		name, def, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(name)
		if val == "" && hasDefault {
			val = def
		}
		return []byte(val)
	})
}
