package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("API_BASE_URL", "")
	t.Setenv("SESSION_BACKEND", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.API.BaseURL)
	assert.Equal(t, SessionBackendMemory, cfg.Session.Backend)
	assert.Equal(t, 5, cfg.Console.PageSize)
	assert.True(t, cfg.Console.FilterResetsPage)
	assert.Equal(t, time.Duration(0), cfg.App.RequestTimeout())
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://tickets.example.com/")
	t.Setenv("SESSION_BACKEND", "Redis")
	t.Setenv("CONSOLE_PAGE_SIZE", "10")
	t.Setenv("CONSOLE_FILTER_RESETS_PAGE", "false")
	t.Setenv("APP_PORT", "9000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://tickets.example.com", cfg.API.BaseURL)
	assert.Equal(t, SessionBackendRedis, cfg.Session.Backend)
	assert.Equal(t, 10, cfg.Console.PageSize)
	assert.False(t, cfg.Console.FilterResetsPage)
	assert.Equal(t, "0.0.0.0:9000", cfg.App.Addr())
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]map[string]string{
		"bad backend":          {"SESSION_BACKEND": "etcd"},
		"bad base url":         {"API_BASE_URL": "not a url"},
		"bad redis db":         {"REDIS_DB": "one"},
		"postgres without dsn": {"SESSION_BACKEND": "postgres", "POSTGRES_DSN": ""},
	}

	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestGetEnvAsInt_Fallback(t *testing.T) {
	t.Setenv("SOME_INT", "abc")
	assert.Equal(t, 7, getEnvAsInt("SOME_INT", 7))
}

func TestLoad_LoggerSettings(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "Console")
	t.Setenv("APP_NAME", "console-a")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, LoggerConfig{Level: "debug", Format: "console", Service: "console-a"}, cfg.Logger)
}
