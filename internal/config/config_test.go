package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

func TestLoadFrom_ValidAndDefaults(t *testing.T) {
	p := writeConfig(t, `server:
  host: "127.0.0.1"
  port: ":9000"
auth:
  jwt_secret: "s3cret"
  google_client_id: "web-client.apps.googleusercontent.com"
store:
  driver: postgres
  postgres:
    host: localhost
    database: toolzone
    user: postgres
rate_limiter:
  enabled: true
  max: 10
  interval: 1m
`)
	cfg := LoadFrom(p)

	assert.Equal(t, ":9000", cfg.Server.Port)
	assert.Equal(t, StorePostgres, cfg.Store.Driver)
	assert.Equal(t, "toolzone", cfg.Store.Postgres.Database)
	assert.Equal(t, 10, cfg.RateLimiter.Max)
	assert.Equal(t, time.Minute, cfg.RateLimiter.Interval)

	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "toolszone", cfg.Auth.Issuer)
	assert.Equal(t, "web-client.apps.googleusercontent.com", cfg.Auth.GoogleClientID)
	assert.Equal(t, 20, cfg.Limits.MaxFiles)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, 50*1024*1024, cfg.Server.BodyLimitBytes)
}

func TestLoadFrom_PanicsOnInvalidValues(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	tests := []struct {
		name string
		yml  string
	}{
		{name: "missing jwt secret", yml: "store:\n  driver: memory\n"},
		{name: "unknown store driver", yml: "auth:\n  jwt_secret: x\nstore:\n  driver: mongo\n"},
		{name: "postgres without host", yml: "auth:\n  jwt_secret: x\nstore:\n  driver: postgres\n"},
		{name: "max files below two", yml: "auth:\n  jwt_secret: x\nlimits:\n  max_files: 1\n"},
		{name: "negative rate max", yml: "auth:\n  jwt_secret: x\nrate_limiter:\n  max: -1\n"},
		{name: "cache without redis", yml: "auth:\n  jwt_secret: x\ncache:\n  merge_cache_enabled: true\n"},
		{name: "malformed yaml", yml: "auth: [\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := writeConfig(t, tc.yml)
			assert.Panics(t, func() { _ = LoadFrom(p) })
		})
	}
}

func TestLoadFrom_MissingFilePanics(t *testing.T) {
	assert.Panics(t, func() { _ = LoadFrom(filepath.Join(t.TempDir(), "nope.yaml")) })
}

func TestLoadFrom_JWTSecretFromEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "from-env")
	p := writeConfig(t, "store:\n  driver: memory\n")
	require.NotPanics(t, func() { _ = LoadFrom(p) })
}

func TestLoad_UsesConfigPathEnv(t *testing.T) {
	p := writeConfig(t, `auth:
  jwt_secret: "env"
server:
  port: ":7000"
`)
	t.Setenv("CONFIG_PATH", p)
	cfg := Load()
	assert.Equal(t, ":7000", cfg.Server.Port)
}
