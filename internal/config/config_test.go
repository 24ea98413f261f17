package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookup(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromLookup_Defaults(t *testing.T) {
	t.Parallel()
	cfg, err := FromLookup(lookup(nil))
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, int32(10), cfg.DBMaxConns)
	assert.Equal(t, "memory", cfg.SessionStore)
	assert.Equal(t, "memory", cfg.QueryCache)
	assert.Equal(t, 5*time.Minute, cfg.QueryCacheTTL)
	assert.Equal(t, 100, cfg.RateRPS)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	assert.False(t, cfg.Migrate)
}

func TestFromLookup_Overrides(t *testing.T) {
	t.Parallel()
	cfg, err := FromLookup(lookup(map[string]string{
		"APP_ENV":         "prod",
		"SESSION_SECRET":  "s3cret",
		"SESSION_STORE":   "redis",
		"QUERY_CACHE":     "off",
		"REDIS_URL":       "redis://localhost:6379/0",
		"QUERY_CACHE_TTL": "90s",
		"CORS_ORIGINS":    "https://a.example, https://b.example",
		"APP_MIGRATE":     "true",
		"WORKERS":         "8",
	}))
	require.NoError(t, err)

	assert.Equal(t, "redis", cfg.SessionStore)
	assert.Equal(t, "off", cfg.QueryCache)
	assert.Equal(t, 90*time.Second, cfg.QueryCacheTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.True(t, cfg.Migrate)
	assert.Equal(t, 8, cfg.Workers)
}

func TestFromLookup_Invalid(t *testing.T) {
	t.Parallel()

	cases := map[string]map[string]string{
		"bad store":           {"SESSION_STORE": "file"},
		"bad cache":           {"QUERY_CACHE": "disk"},
		"redis without url":   {"SESSION_STORE": "redis"},
		"bad ttl":             {"QUERY_CACHE_TTL": "soon"},
		"bad int":             {"RATE_RPS": "many"},
		"prod default secret": {"APP_ENV": "prod"},
	}
	for name, env := range cases {
		env := env
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := FromLookup(lookup(env))
			assert.Error(t, err)
		})
	}
}

func TestLoad_YAMLDefaultsEnvWins(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("HTTP_PORT: \"9090\"\nRATE_RPS: \"5\"\n"), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("RATE_RPS", "7")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, 7, cfg.RateRPS)
}
