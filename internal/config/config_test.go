package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"summaryedit/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SUMMARYEDIT_CONFIG_PATH", t.TempDir())
	t.Setenv("SUMMARYEDIT_DATA_DIR", "/tmp/se")

	cfg, err := config.LoadWith(viper.New())
	require.NoError(t, err)
	assert.Equal(t, "/tmp/se", cfg.DataDir)
	assert.Equal(t, filepath.Join("/tmp/se", "summaryedit.db"), cfg.DBPath)
	assert.Equal(t, filepath.Join("/tmp/se", "inbox"), cfg.InboxDir)
	assert.Equal(t, "@every 30s", cfg.Autosave)
	assert.True(t, cfg.Coalesce)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := "data_dir: " + dir + "\nautosave: \"\"\nhistory:\n  coalesce: false\nlog:\n  level: debug\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".summaryedit.yaml"), []byte(yaml), 0644))
	t.Setenv("SUMMARYEDIT_CONFIG_PATH", dir)
	t.Setenv("SUMMARYEDIT_LOG_JSON", "true")

	cfg, err := config.LoadWith(viper.New())
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.DataDir)
	assert.Empty(t, cfg.Autosave)
	assert.False(t, cfg.Coalesce)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.LogJSON)
}

func TestLoad_ExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("SUMMARYEDIT_CONFIG_PATH", t.TempDir())
	t.Setenv("SUMMARYEDIT_DB_PATH", "~/x/s.db")

	cfg, err := config.LoadWith(viper.New())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "x", "s.db"), cfg.DBPath)
}
