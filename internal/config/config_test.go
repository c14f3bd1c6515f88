package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigCreatesDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "servers"), cfg.ServersPath)
	assert.Equal(t, filepath.Join(dir, "hyserve.db"), cfg.DatabasePath)
	assert.Equal(t, defaultPort, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)

	assert.FileExists(t, filepath.Join(dir, "config.json"))
}

func TestLoadConfigFillsMissingFields(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "config.json"),
		[]byte(`{"servers_path":"/srv/hytale"}`),
		0644,
	))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "/srv/hytale", cfg.ServersPath)
	assert.Equal(t, defaultPort, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadConfigRejectsMalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte("{"), 0644))

	_, err := LoadConfig(dir)
	assert.Error(t, err)
}
