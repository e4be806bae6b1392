package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
database:
  dsn: "host=localhost user=labstock dbname=labstock"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, float64(10), cfg.Server.RateLimitPerSec)
	assert.Equal(t, 5, cfg.Server.RateLimitBurst)
	assert.Equal(t, 300, cfg.Server.CacheTTLSeconds)
	assert.Equal(t, 3600, cfg.Push.TTL)
	assert.Equal(t, 1, cfg.WorkerPool.Size)
}

func TestLoadKeepsExplicitValues(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 8081
  rate_limit_per_sec: 50
  rate_limit_burst: 20
  cache_ttl_seconds: 60
  request_ip_header: X-Real-IP
push:
  vapid_public_key: pub
  vapid_private_key: priv
  ttl: 600
worker_pool:
  size: 4
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, float64(50), cfg.Server.RateLimitPerSec)
	assert.Equal(t, 20, cfg.Server.RateLimitBurst)
	assert.Equal(t, 60, cfg.Server.CacheTTLSeconds)
	assert.Equal(t, "X-Real-IP", cfg.Server.RequestIPHeader)
	assert.Equal(t, 600, cfg.Push.TTL)
	assert.Equal(t, 4, cfg.WorkerPool.Size)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
