package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"APP_ENV", "PORT", "API_KEY", "CACHE_BACKEND", "CACHE_LOCATION", "ECFR_BASE_URL", "ECFR_MIRROR_DIR",
		"ECFR_RATE_REQUESTS", "ECFR_RATE_WINDOW", "ECFR_TIMEOUT", "ANALYTICS_WORKERS", "LOG_LEVEL", "LOG_JSON",
	} {
		t.Setenv(name, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 4535, cfg.Server.Port)
	assert.Equal(t, "./db-json", cfg.Cache.Location)
	assert.Equal(t, "file", cfg.Cache.Backend)
	assert.Equal(t, 10, cfg.ECFR.RateRequests)
	assert.Equal(t, 500*time.Millisecond, cfg.ECFR.RateWindow)
	assert.Equal(t, ":4535", cfg.Addr())
}

func TestLoadYAMLThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := []byte(`
env: production
server:
  port: 9000
cache:
  backend: sqlite
  location: /var/lib/ecfr
ecfr:
  rate_window: 1s
analytics:
  workers: 4
log:
  level: debug
`)
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	clearEnv(t)
	t.Setenv("PORT", "8080")
	t.Setenv("API_KEY", " secret ")
	t.Setenv("LOG_JSON", "yes")
	t.Setenv("ECFR_TIMEOUT", "not-a-duration")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Production())
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "secret", cfg.Server.APIKey)
	assert.Equal(t, "sqlite", cfg.Cache.Backend)
	assert.Equal(t, "/var/lib/ecfr", cfg.Cache.Location)
	assert.Equal(t, time.Second, cfg.ECFR.RateWindow)
	assert.Equal(t, 60*time.Second, cfg.ECFR.Timeout)
	assert.Equal(t, 4, cfg.Analytics.Workers)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.JSON)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [\n"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Cache.Backend = "redis"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Server.Port = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Analytics.DefaultStartDate = "01/02/2023"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Cache.Location = ""
	assert.Error(t, cfg.Validate())
	cfg.Cache.Backend = "memory"
	assert.NoError(t, cfg.Validate())
}
