package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "data", cfg.Dataset.Dir)
	assert.Equal(t, "csv", cfg.Reports.Format)
	assert.True(t, cfg.Security.RateLimit.Enabled)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "default config is valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "invalid port",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "invalid server port",
		},
		{
			name:    "port above range",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "invalid server port",
		},
		{
			name:    "zero read timeout",
			mutate:  func(c *Config) { c.Server.ReadTimeout = 0 },
			wantErr: "read timeout must be positive",
		},
		{
			name:    "no allowed origins",
			mutate:  func(c *Config) { c.Security.AllowedOrigins = nil },
			wantErr: "allowed origin",
		},
		{
			name:    "empty dataset dir",
			mutate:  func(c *Config) { c.Dataset.Dir = "" },
			wantErr: "dataset directory",
		},
		{
			name:    "unsupported report format",
			mutate:  func(c *Config) { c.Reports.Format = "pdf" },
			wantErr: "invalid report format",
		},
		{
			name:   "xlsx report format is valid",
			mutate: func(c *Config) { c.Reports.Format = "xlsx" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestConfig_DatasetPath(t *testing.T) {
	cfg := Default()
	cfg.Dataset.Dir = "/var/lib/pulse/data"

	assert.Equal(t, "/var/lib/pulse/data/insurance.csv", cfg.DatasetPath("insurance.csv"))
	assert.Equal(t, "/tmp/override.csv", cfg.DatasetPath("/tmp/override.csv"))
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("PULSE_SERVER_PORT", "9090")
	t.Setenv("PULSE_DATASET_DIR", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
}
