package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("COVIDWATCH_ENDPOINT", "http://localhost:8080/countries")
	t.Setenv("COVIDWATCH_REFRESH_INTERVAL", "5s")
	t.Setenv("COVIDWATCH_TOP_N", "10")
	t.Setenv("COVIDWATCH_ALT_SCREEN", "false")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/countries", cfg.Endpoint)
	assert.Equal(t, 5*time.Second, cfg.RefreshInterval)
	assert.Equal(t, 10, cfg.TopN)
	assert.False(t, cfg.AltScreen)
	assert.Equal(t, DefaultPinnedCountry, cfg.PinnedCountry)
}

func TestLoadErrorMessageIsFixed(t *testing.T) {
	t.Setenv("COVIDWATCH_ERROR_MESSAGE", "something else")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultErrorMessage, cfg.ErrorMessage)
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("COVIDWATCH_PINNED_COUNTRY=Laos\n"), 0o600))
	// godotenv never overrides variables that are already set; make sure this one
	// is cleared for the test and restored afterwards.
	t.Setenv("COVIDWATCH_PINNED_COUNTRY", "")
	require.NoError(t, os.Unsetenv("COVIDWATCH_PINNED_COUNTRY"))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Laos", cfg.PinnedCountry)
}

func TestLoadMissingEnvFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"ftp endpoint", func(c *Config) { c.Endpoint = "ftp://example.com/x" }, true},
		{"no host", func(c *Config) { c.Endpoint = "https:///countries" }, true},
		{"zero interval", func(c *Config) { c.RefreshInterval = 0 }, true},
		{"negative timeout", func(c *Config) { c.FetchTimeout = -time.Second }, true},
		{"zero top n", func(c *Config) { c.TopN = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
