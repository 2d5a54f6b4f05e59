package config

import (
	"bytes"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/briangreenhill/pokedex/pokeapi"
)

// clearEnv unsets every variable Load reads so the host environment
// cannot leak into a test.
func clearEnv(t *testing.T) {
	for _, key := range []string{"PORT", "SESSION_LIFETIME", "POKEAPI_BASE_URL", "POKEAPI_RPS", "LOG_LEVEL", "LOG_PRETTY"} {
		t.Setenv(key, "")
		_ = os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 12*time.Hour, cfg.SessionLifetime)
	assert.Equal(t, pokeapi.DefaultBaseURL, cfg.Catalog.BaseURL)
	assert.Zero(t, cfg.Catalog.RPS)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Log.Pretty)
}

func TestLoad(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("SESSION_LIFETIME", "30m")
	t.Setenv("POKEAPI_BASE_URL", "http://localhost:3000/api/v2")
	t.Setenv("POKEAPI_RPS", "2.5")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_PRETTY", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 30*time.Minute, cfg.SessionLifetime)
	assert.Equal(t, "http://localhost:3000/api/v2", cfg.Catalog.BaseURL)
	assert.Equal(t, 2.5, cfg.Catalog.RPS)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.Pretty)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"PORT", "http"},
		{"PORT", "70000"},
		{"POKEAPI_BASE_URL", "pokeapi.co/api/v2"},
		{"POKEAPI_BASE_URL", "ftp://pokeapi.co"},
		{"POKEAPI_RPS", "-1"},
		{"POKEAPI_RPS", "fast"},
		{"LOG_LEVEL", "loud"},
		{"SESSION_LIFETIME", "forever"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := LogConfig{Level: "warn"}.Logger(&buf)

	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"message":"shown"`)
}
