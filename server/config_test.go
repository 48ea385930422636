package server

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultFlushInterval, cfg.FlushInterval)
	assert.True(t, cfg.EnableGzip)
	assert.NotEmpty(t, cfg.ServerID)
	assert.NotEqual(t, cfg.ServerID, DefaultConfig().ServerID, "server ids are random")
	assert.Equal(t, ":8887", cfg.Addr())
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ggstream.yaml")
	data := []byte(`
host: 127.0.0.1
port: 9000
relayUrl: wss://relay.example.com
serverId: studio-1
enableGzip: false
logLevel: debug
flushInterval: 25ms
collectionsCheckSize: 5000
`)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.Addr())
	assert.Equal(t, "wss://relay.example.com", cfg.RelayURL)
	assert.Equal(t, "studio-1", cfg.ServerID)
	assert.False(t, cfg.EnableGzip)
	assert.Equal(t, 25*time.Millisecond, cfg.FlushInterval)
	assert.Equal(t, 5000, cfg.CollectionsCheckSize)

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"GGSTREAM_PORT":           "7000",
		"GGSTREAM_ENABLE_GZIP":    "false",
		"GGSTREAM_FLUSH_INTERVAL": "1s",
		"GGSTREAM_LOG_LEVEL":      "warn",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := DefaultConfig()
	require.NoError(t, cfg.applyEnv(lookup))
	assert.Equal(t, 7000, cfg.Port)
	assert.False(t, cfg.EnableGzip)
	assert.Equal(t, time.Second, cfg.FlushInterval)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestApplyEnvErrors(t *testing.T) {
	env := map[string]string{
		"GGSTREAM_PORT":        "eighty",
		"GGSTREAM_ENABLE_GZIP": "maybe",
	}
	cfg := DefaultConfig()
	err := cfg.applyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GGSTREAM_PORT")
	assert.Contains(t, err.Error(), "GGSTREAM_ENABLE_GZIP")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"port", func(c *Config) { c.Port = 70000 }},
		{"flush interval", func(c *Config) { c.FlushInterval = 0 }},
		{"check size", func(c *Config) { c.CollectionsCheckSize = -1 }},
		{"log level", func(c *Config) { c.LogLevel = "chatty" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
