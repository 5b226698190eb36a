package app_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"summaryedit/internal/app"
	"summaryedit/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	dir := t.TempDir()
	return &config.Config{
		DataDir:  dir,
		DBPath:   filepath.Join(dir, "test.db"),
		InboxDir: filepath.Join(dir, "inbox"),
		Autosave: "@every 1h",
		Coalesce: true,
		LogLevel: "error",
		LogFile:  filepath.Join(dir, "test.log"),
	}
}

func TestApp_StartupShutdownPersists(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	a := app.New(cfg)
	require.NoError(t, a.Startup(ctx))
	id, err := a.Sessions().OpenDefault(ctx)
	require.NoError(t, err)
	a.Shutdown(ctx)

	_, err = os.Stat(cfg.DBPath)
	require.NoError(t, err)

	b := app.New(cfg)
	require.NoError(t, b.Startup(ctx))
	defer b.Shutdown(ctx)
	require.NoError(t, b.Sessions().Restore(ctx, id))
	view, err := b.Sessions().Get(id)
	require.NoError(t, err)
	assert.Len(t, view.Document.Sections, 4)
}

func TestApp_BadAutosaveSchedule(t *testing.T) {
	cfg := testConfig(t)
	cfg.Autosave = "whenever"
	a := app.New(cfg)
	defer a.Shutdown(context.Background())
	assert.Error(t, a.Startup(context.Background()))
}
