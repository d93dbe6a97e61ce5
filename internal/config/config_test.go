package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("COINPLAN_CONFIG", "")
	t.Setenv("COINPLAN_DB", "")
	t.Setenv("COINPLAN_LOG", "")
	return dir
}

func TestLoad_DefaultsWhenMissing(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.False(t, ExistsAt(Path()))
}

func TestPath_UsesXDG(t *testing.T) {
	dir := isolate(t)

	assert.Equal(t, filepath.Join(dir, "coinplan", "config.toml"), Path())
}

func TestPath_EnvOverride(t *testing.T) {
	isolate(t)
	t.Setenv("COINPLAN_CONFIG", "/tmp/elsewhere.toml")

	assert.Equal(t, "/tmp/elsewhere.toml", Path())
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	isolate(t)

	cfg := DefaultConfig()
	cfg.General.DBPath = "/data/plan.db"
	cfg.General.DefaultWeeks = 26
	cfg.General.WeekResetDay = "thursday"
	cfg.Display.CurrencyDecimals = 0
	require.NoError(t, Save(cfg))
	assert.True(t, ExistsAt(Path()))

	got, err := Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
	assert.Equal(t, time.Thursday, got.ResetWeekday())
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	isolate(t)
	require.NoError(t, os.MkdirAll(Dir(), 0o755))
	require.NoError(t, os.WriteFile(Path(), []byte("[display]\ncolor = false\n"), 0o600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.Display.Color)
	assert.Equal(t, 2, cfg.Display.CurrencyDecimals)
	assert.Equal(t, 52, cfg.General.DefaultWeeks)
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("COINPLAN_DB", "/tmp/env.db")
	t.Setenv("COINPLAN_LOG", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/env.db", cfg.General.DBPath)
	assert.True(t, cfg.General.LogUseCases)

	path, err := cfg.ResolveDBPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/env.db", path)
}

func TestLoad_InvalidValues(t *testing.T) {
	isolate(t)
	require.NoError(t, os.MkdirAll(Dir(), 0o755))

	for _, body := range []string{
		"[general]\ndefault_weeks = 0\n",
		"[general]\nweek_reset_day = \"someday\"\n",
		"[display]\ncurrency_decimals = 12\n",
		"not toml at all [",
	} {
		require.NoError(t, os.WriteFile(Path(), []byte(body), 0o600))
		_, err := Load()
		assert.Error(t, err, body)
	}
}

func TestResolveDBPath_Default(t *testing.T) {
	isolate(t)
	home := t.TempDir()
	t.Setenv("HOME", home)

	path, err := DefaultConfig().ResolveDBPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".coinplan", "coinplan.db"), path)
}

func TestPlannerDefaults(t *testing.T) {
	cfg := DefaultConfig()
	cfg.General.DefaultWeeks = 26
	cfg.General.WeekResetDay = "thursday"

	s := cfg.PlannerDefaults()
	assert.Equal(t, 26, s.Weeks)
	assert.Equal(t, time.Thursday, s.ResetWeekday)
	assert.Equal(t, 1.0, s.Week0Proration)
	assert.Nil(t, s.StartDate)
}

func TestSaveTo_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	require.NoError(t, SaveTo(path, DefaultConfig()))
	_, err := os.Stat(path)
	assert.NoError(t, err)
}
