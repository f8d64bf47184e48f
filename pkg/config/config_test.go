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
	assert.Equal(t, 60, cfg.TimeoutSeconds)
	assert.Equal(t, time.Minute, cfg.Timeout())
	assert.Empty(t, cfg.APIKey)
}

func TestLoadExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pdnsq.yaml")
	data := `api_key: secret
server: https://api.example.com
system: dnsdb2
timeout_seconds: 30
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "secret", cfg.APIKey)
	assert.Equal(t, "https://api.example.com", cfg.Server)
	assert.Equal(t, "dnsdb2", cfg.System)
	assert.Equal(t, 30*time.Second, cfg.Timeout())
}

func TestLoadExplicitFileMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	assert.Error(t, err)
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pdnsq.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api_key: [unclosed"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadNonPositiveTimeoutFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pdnsq.yaml")
	require.NoError(t, os.WriteFile(path, []byte("timeout_seconds: -5\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 60, cfg.TimeoutSeconds)
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("DNSDB_API_KEY", "envkey")
	t.Setenv("DNSDB_SERVER", "https://env.example.com")
	t.Setenv("PDNSQ_SYSTEM", "circl")
	t.Setenv("CIRCL_AUTH", "alice:s3cret")
	t.Setenv("PDNSQ_TIMEOUT", "15")

	cfg := Default()
	cfg.APIKey = "filekey"
	require.NoError(t, cfg.ApplyEnv())

	assert.Equal(t, "envkey", cfg.APIKey)
	assert.Equal(t, "https://env.example.com", cfg.Server)
	assert.Equal(t, "circl", cfg.System)
	assert.Equal(t, "alice", cfg.CirclUser)
	assert.Equal(t, "s3cret", cfg.CirclPassword)
	assert.Equal(t, 15*time.Second, cfg.Timeout())
}

func TestApplyEnvBadCirclAuth(t *testing.T) {
	t.Setenv("CIRCL_AUTH", "no-separator")

	cfg := Default()
	assert.Error(t, cfg.ApplyEnv())
}

func TestApplyEnvBadTimeout(t *testing.T) {
	t.Setenv("PDNSQ_TIMEOUT", "soon")

	cfg := Default()
	assert.Error(t, cfg.ApplyEnv())
}

func TestApplyEnvEmptyLeavesFileValues(t *testing.T) {
	cfg := Default()
	cfg.APIKey = "filekey"
	cfg.Server = "https://file.example.com"
	require.NoError(t, cfg.ApplyEnv())

	assert.Equal(t, "filekey", cfg.APIKey)
	assert.Equal(t, "https://file.example.com", cfg.Server)
}
