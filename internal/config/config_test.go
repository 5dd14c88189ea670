package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate clears every WORKLOG_* override and points HOME at a temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	for _, key := range []string{
		"LOG_PATH", "INTERVAL", "PROJECT_MARKER", "EDITOR", "SCREEN",
		"TAIL_LINES", "LOG_LEVEL", "LOG_FILE", "CONFIG_HOME",
	} {
		t.Setenv(EnvPrefix+"_"+key, "")
		require.NoError(t, os.Unsetenv(EnvPrefix+"_"+key))
	}
	return home
}

func TestLoadFile_Defaults(t *testing.T) {
	home := isolate(t)

	cfg, err := LoadFile(filepath.Join(home, "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".worklog"), cfg.LogPath)
	assert.Equal(t, 15, cfg.Interval)
	assert.Equal(t, 15*time.Minute, cfg.IntervalDuration())
	assert.Equal(t, "repo", cfg.ProjectMarker)
	assert.True(t, cfg.Screen)
	assert.Equal(t, 25, cfg.TailLines)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Empty(t, cfg.LogFile)
}

func TestLoadFile_FileThenEnv(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"interval: 30\nproject_marker: src\nscreen: false\nlog_path: ~/logs/work\n"), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.Interval)
	assert.Equal(t, "src", cfg.ProjectMarker)
	assert.False(t, cfg.Screen)
	assert.Equal(t, filepath.Join(home, "logs", "work"), cfg.LogPath)

	t.Setenv("WORKLOG_INTERVAL", "5")
	t.Setenv("WORKLOG_TAIL_LINES", "10")
	t.Setenv("WORKLOG_SCREEN", "true")

	cfg, err = LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Interval)
	assert.Equal(t, 10, cfg.TailLines)
	assert.True(t, cfg.Screen)
	assert.Equal(t, "src", cfg.ProjectMarker)
}

func TestLoadFile_Invalid(t *testing.T) {
	home := isolate(t)

	bad := filepath.Join(home, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("interval: [oops\n"), 0o600))
	_, err := LoadFile(bad)
	require.Error(t, err)

	zero := filepath.Join(home, "zero.yaml")
	require.NoError(t, os.WriteFile(zero, []byte("interval: 0\n"), 0o600))
	_, err = LoadFile(zero)
	require.ErrorContains(t, err, "interval")
}

func TestLoad_UsesConfigHome(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	t.Setenv("WORKLOG_CONFIG_HOME", dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("tail_lines: 7\n"), 0o600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.TailLines)
}

func TestWriteDefault(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "nested", "config.yaml")

	require.NoError(t, WriteDefault(path, false))
	require.Error(t, WriteDefault(path, false))
	require.NoError(t, WriteDefault(path, true))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 15, cfg.Interval)
	assert.Equal(t, filepath.Join(home, ".worklog"), cfg.LogPath)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "project_marker: repo")
}

func TestEditorCommand(t *testing.T) {
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "")
	assert.Equal(t, "vim", (&Config{}).EditorCommand())

	t.Setenv("EDITOR", "nano")
	assert.Equal(t, "nano", (&Config{}).EditorCommand())

	t.Setenv("VISUAL", "code -w")
	assert.Equal(t, "code -w", (&Config{}).EditorCommand())

	assert.Equal(t, "hx", (&Config{Editor: "hx"}).EditorCommand())
}
