package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestResolvePathPrecedence(t *testing.T) {
	explicit, err := ResolvePath("/tmp/custom.yaml")
	require.NoError(t, err)
	require.Equal(t, "/tmp/custom.yaml", explicit)

	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	fromXDG, err := ResolvePath("")
	require.NoError(t, err)
	require.Equal(t, filepath.Join("/xdg", "gestured", "config.yaml"), fromXDG)
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	loaded, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.False(t, loaded.Exists)
	require.Equal(t, Default(), loaded.Config)
	require.Len(t, loaded.Warnings, 1)
	require.Contains(t, loaded.Warnings[0].Message, "not found")
}

func TestLoadParsesAndValidates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
bridge:
  endpoint: ws://127.0.0.1:7777/uart
  device_name: BentoSense
capture:
  duration_ms: 750
gestures:
  - circle
  - chop
  - twist
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.True(t, loaded.Exists)
	require.Equal(t, "BentoSense", loaded.Config.Bridge.DeviceName)
	require.Equal(t, 750*time.Millisecond, loaded.Config.Capture.Duration)
	require.Equal(t, []string{"circle", "chop", "twist"}, loaded.Config.Gestures)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("gestures: []\n"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "validate config")
}
