package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.NotEmpty(t, cfg.BaseURL)
	assert.NotEmpty(t, cfg.DataDir)
	assert.Positive(t, cfg.FlushInterval.Std())
	assert.Positive(t, cfg.ProbeInterval.Std())
	require.NoError(t, cfg.Validate())
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default().BaseURL, cfg.BaseURL)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
base_url: https://staging.lunchline.app/v1
data_dir: /tmp/lunchline-test
health_endpoint: ping/
flush_interval: 30s
probe_interval: 10s
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://staging.lunchline.app/v1", cfg.BaseURL)
	assert.Equal(t, "/tmp/lunchline-test", cfg.DataDir)
	assert.Equal(t, 30*time.Second, cfg.FlushInterval.Std())
	assert.Equal(t, 10*time.Second, cfg.ProbeInterval.Std())
	assert.Equal(t, "https://staging.lunchline.app/v1/ping/", cfg.HealthURL())
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("base_url: [broken"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("LUNCHLINE_BASE_URL", "https://override.lunchline.app")
	t.Setenv("LUNCHLINE_FLUSH_INTERVAL", "5m")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "https://override.lunchline.app", cfg.BaseURL)
	assert.Equal(t, 5*time.Minute, cfg.FlushInterval.Std())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty base url", func(c *Config) { c.BaseURL = "" }},
		{"empty data dir", func(c *Config) { c.DataDir = "" }},
		{"zero flush interval", func(c *Config) { c.FlushInterval = 0 }},
		{"negative probe interval", func(c *Config) { c.ProbeInterval = Duration(-time.Second) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
