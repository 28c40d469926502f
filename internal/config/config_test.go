package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mdouchement/itemstore/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	clearenv(t)

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, config.DefaultDatabaseURL, cfg.DatabaseURL)
	assert.Equal(t, 5000, cfg.Port)
	assert.Equal(t, "127.0.0.1:5000", cfg.Address)
	assert.False(t, cfg.Debug)
	assert.False(t, cfg.AutoInit)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Storm.Codec)
}

func TestLoad_File(t *testing.T) {
	clearenv(t)

	filename := filepath.Join(t.TempDir(), "itemstore.yml")
	err := os.WriteFile(filename, []byte(`
database_url: sqlite:///tmp/items.sqlite
port: 8080
auto_init: true
log:
  level: debug
storm:
  codec: msgpack
`), 0600)
	require.NoError(t, err)

	cfg, err := config.Load(filename)
	require.NoError(t, err)

	assert.Equal(t, "sqlite:///tmp/items.sqlite", cfg.DatabaseURL)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "127.0.0.1:8080", cfg.Address)
	assert.True(t, cfg.AutoInit)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "msgpack", cfg.Storm.Codec)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

func TestLoad_Environment(t *testing.T) {
	clearenv(t)
	t.Setenv("DATABASE_URL", "bolt:///tmp/items.db")
	t.Setenv("PORT", "6000")
	t.Setenv("FLASK_DEBUG", "Yes")
	t.Setenv("LOG_FILE", "/tmp/itemstore.log")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "bolt:///tmp/items.db", cfg.DatabaseURL)
	assert.Equal(t, 6000, cfg.Port)
	assert.Equal(t, "127.0.0.1:6000", cfg.Address)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "/tmp/itemstore.log", cfg.Log.File)

	t.Setenv("ADDRESS", "unix:/tmp/itemstore.sock")
	cfg, err = config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "unix:/tmp/itemstore.sock", cfg.Address)

	t.Setenv("PORT", "99999")
	_, err = config.Load("")
	assert.EqualError(t, err, "invalid port: 99999")
}

func TestTruthy(t *testing.T) {
	for _, s := range []string{"1", "true", "TRUE", "yes", " Yes "} {
		assert.True(t, config.Truthy(s), s)
	}
	for _, s := range []string{"", "0", "false", "no", "on"} {
		assert.False(t, config.Truthy(s), s)
	}
}

func clearenv(t *testing.T) {
	for _, key := range []string{"DATABASE_URL", "PORT", "ADDRESS", "DEBUG", "FLASK_DEBUG", "AUTO_INIT", "LOG_LEVEL", "LOG_FILE", "STORM_CODEC"} {
		t.Setenv(key, "")
	}
}
