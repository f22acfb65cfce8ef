package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	config, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8000", config.ServerAddress)
	assert.Equal(t, 24*time.Hour, config.TowerCacheTTL)
	assert.Equal(t, 5*time.Minute, config.PositionCacheTTL)
	assert.Equal(t, 10*time.Second, config.OpenCellIDTimeout)
	assert.Equal(t, 8, config.ResolverConcurrency)
	assert.Equal(t, "info", config.LogLevel)
}

func TestLoadConfig_FromFile(t *testing.T) {
	dir := t.TempDir()
	content := []byte("SERVER_ADDRESS=127.0.0.1:9000\nOPENCELLID_TIMEOUT=7s\nTOWER_CACHE_TTL=1h\nRESOLVER_CONCURRENCY=2\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.env"), content, 0o600))

	config, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", config.ServerAddress)
	assert.Equal(t, 7*time.Second, config.OpenCellIDTimeout)
	assert.Equal(t, time.Hour, config.TowerCacheTTL)
	assert.Equal(t, 2, config.ResolverConcurrency)
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	t.Setenv("OPENCELLID_API_KEY", "pk.test")
	t.Setenv("OPENCELLID_TIMEOUT", "30s")

	config, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "pk.test", config.OpenCellIDAPIKey)
	assert.Equal(t, MaxLookupTimeout, config.OpenCellIDTimeout)
}

func TestClampLookupTimeout(t *testing.T) {
	tests := []struct {
		name     string
		input    time.Duration
		expected time.Duration
	}{
		{name: "unset", input: 0, expected: MaxLookupTimeout},
		{name: "too short", input: time.Second, expected: MinLookupTimeout},
		{name: "too long", input: time.Minute, expected: MaxLookupTimeout},
		{name: "in range", input: 6 * time.Second, expected: 6 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClampLookupTimeout(tt.input))
		})
	}
}
