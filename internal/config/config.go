// Package config loads LunchLine core configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	apperrors "github.com/lunchline/core/internal/errors"
)

// Duration is a time.Duration that unmarshals from YAML strings like "30s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Std returns the standard library form.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config holds runtime configuration for the core.
type Config struct {
	// BaseURL is the root of the LunchLine REST API.
	BaseURL string `yaml:"base_url"`

	// DataDir holds the local SQLite database.
	DataDir string `yaml:"data_dir"`

	// HealthEndpoint is probed for reachability, relative to BaseURL.
	HealthEndpoint string `yaml:"health_endpoint"`

	// ProbeInterval is the connectivity probe cadence.
	ProbeInterval Duration `yaml:"probe_interval"`

	// FlushInterval is the periodic queue flush cadence.
	FlushInterval Duration `yaml:"flush_interval"`
}

// Default returns the built-in defaults.
func Default() *Config {
	dataDir := "."
	if home, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(home, ".lunchline")
	}

	return &Config{
		BaseURL:        "https://api.lunchline.app/v1",
		DataDir:        dataDir,
		HealthEndpoint: "health/",
		ProbeInterval:  Duration(30 * time.Second),
		FlushInterval:  Duration(1 * time.Minute),
	}
}

// Load reads configuration from a YAML file, then applies environment
// overrides. A missing file is not an error; defaults are used.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, apperrors.Wrap(apperrors.ErrConfigLoad, "failed to read config file", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrConfigLoad, "failed to parse config file", err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides fields from LUNCHLINE_* environment variables.
func applyEnv(cfg *Config) {
	if v := os.Getenv("LUNCHLINE_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("LUNCHLINE_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("LUNCHLINE_FLUSH_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.FlushInterval = Duration(d)
		}
	}
	if v := os.Getenv("LUNCHLINE_PROBE_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.ProbeInterval = Duration(d)
		}
	}
}

// Validate checks the configuration for usable values.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return apperrors.New(apperrors.ErrConfigInvalid, "base_url must not be empty")
	}
	if c.DataDir == "" {
		return apperrors.New(apperrors.ErrConfigInvalid, "data_dir must not be empty")
	}
	if c.FlushInterval <= 0 {
		return apperrors.New(apperrors.ErrConfigInvalid,
			fmt.Sprintf("flush_interval must be positive, got %s", c.FlushInterval.Std()))
	}
	if c.ProbeInterval <= 0 {
		return apperrors.New(apperrors.ErrConfigInvalid,
			fmt.Sprintf("probe_interval must be positive, got %s", c.ProbeInterval.Std()))
	}
	return nil
}

// HealthURL returns the absolute URL of the health endpoint.
func (c *Config) HealthURL() string {
	base := c.BaseURL
	if base != "" && base[len(base)-1] != '/' {
		base += "/"
	}
	return base + c.HealthEndpoint
}
