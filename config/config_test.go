package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gutenbridge/config"
	"gutenbridge/settings"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, config.BackendFile, cfg.SettingsBackend)
	assert.Equal(t, 10*time.Second, cfg.ContentTimeout)
	assert.False(t, cfg.Features.NativeEditor)
	assert.False(t, cfg.FeatureFlags().Enabled(settings.FlagNativeEditor))
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gutenbridge.yaml")
	body := `
port: "9090"
settings_backend: sqlite
settings_path: /tmp/settings.db
content_timeout: 3s
features:
  native_editor: true
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	t.Setenv("GUTENBRIDGE_PORT", "7070")
	t.Setenv("GUTENBRIDGE_SINGLE_SITE_MODE", "true")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Port)
	assert.Equal(t, config.BackendSQLite, cfg.SettingsBackend)
	assert.Equal(t, 3*time.Second, cfg.ContentTimeout)
	assert.True(t, cfg.SingleSiteMode)
	assert.True(t, cfg.FeatureFlags().Enabled(settings.FlagNativeEditor))
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestFeatureFlagFromEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("GUTENBRIDGE_FEATURES_NATIVE_EDITOR", "true")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.True(t, cfg.Features.NativeEditor)
}

func TestValidate(t *testing.T) {
	valid := config.Config{Port: "8080", SettingsBackend: config.BackendMemory, ContentTimeout: 10 * time.Second}
	assert.NoError(t, valid.Validate())

	bad := valid
	bad.SettingsBackend = "redis"
	assert.Error(t, bad.Validate())

	noPath := valid
	noPath.SettingsBackend = config.BackendFile
	assert.Error(t, noPath.Validate())

	noPort := valid
	noPort.Port = ""
	assert.Error(t, noPort.Validate())

	for _, d := range []time.Duration{0, -time.Second} {
		noDeadline := valid
		noDeadline.ContentTimeout = d
		assert.Error(t, noDeadline.Validate(), "content_timeout %s", d)
	}
}

func TestLoadRejectsZeroContentTimeout(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("GUTENBRIDGE_CONTENT_TIMEOUT", "0s")

	_, err := config.Load("")
	assert.ErrorContains(t, err, "content_timeout")
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
