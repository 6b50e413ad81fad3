package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000/api", cfg.APIBaseURL)
	assert.Equal(t, ModeRemote, cfg.Mode)
	assert.Equal(t, 50, cfg.DefaultPageSize)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadMissingFileMatchesDefaultsExactly(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, defaults(), cfg)
}

func TestLoadReadsYAML(t *testing.T) {
	path := writeConfig(t, `
api_base_url: https://mail.example.com/api
api_version: v2
mode: local
local_db_path: /tmp/test.db
log_level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://mail.example.com/api", cfg.APIBaseURL)
	assert.Equal(t, ModeLocal, cfg.Mode)
	assert.Equal(t, "/tmp/test.db", cfg.LocalDBPath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "https://mail.example.com/api/v2", cfg.APIRoot())
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, "api_version: v1\n")
	t.Setenv("PENGUIN_API_VERSION", "v3")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "v3", cfg.APIVersion)
}

func TestLoadRejectsInvalidMode(t *testing.T) {
	path := writeConfig(t, "mode: carrier-pigeon\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mode")
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := writeConfig(t, "mode: [unclosed\n")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestAPIRootWithoutVersion(t *testing.T) {
	cfg := &Config{APIBaseURL: "http://localhost:8000/api"}
	assert.Equal(t, "http://localhost:8000/api", cfg.APIRoot())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults pass", mutate: func(c *Config) {}},
		{name: "empty base url", mutate: func(c *Config) { c.APIBaseURL = "" }, wantErr: true},
		{name: "zero timeout", mutate: func(c *Config) { c.RequestTimeoutSec = 0 }, wantErr: true},
		{name: "local mode passes", mutate: func(c *Config) { c.Mode = ModeLocal }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
