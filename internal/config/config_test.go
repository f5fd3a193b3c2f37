package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestValidate checks defaults and format validations for Config.
func TestValidate(t *testing.T) {
	t.Parallel()

	// Nil config.
	require.Error(t, Validate(nil))

	// Empty dev sentinel.
	cfg := &Config{NightlyPrefix: "nightly"}
	require.Error(t, Validate(cfg))

	// Bad endpoint.
	cfg = Default()
	cfg.StableURL = "not a url"
	require.Error(t, Validate(cfg))

	// Unknown log level.
	cfg = Default()
	cfg.LogLevel = "chatty"
	require.Error(t, Validate(cfg))

	// Defaults are filled in.
	cfg = &Config{DevVersion: "debug", NightlyPrefix: "nightly"}
	require.NoError(t, Validate(cfg))
	require.Equal(t, DefaultStableURL, cfg.StableURL)
	require.Equal(t, DefaultNightlyURL, cfg.NightlyURL)
	require.Equal(t, DefaultUserAgent, cfg.UserAgent)
	require.Equal(t, DefaultTimeout, cfg.Timeout)
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")

	cfg := Default()
	cfg.StableURL = "https://updates.local/latest"
	cfg.UpdatesDir = filepath.Join(dir, "updates")
	cfg.KeepArtifacts = true

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg, loaded)

	_, err = os.Stat(path)
	require.NoError(t, err)
}

// TestLoad_PartialFileKeepsDefaults verifies fields absent from YAML fall back to defaults.
func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("user_agent: Lapce-Test\n"), DefaultFilePermissions))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "Lapce-Test", cfg.UserAgent)
	require.Equal(t, DefaultDevVersion, cfg.DevVersion)
	require.Equal(t, DefaultNightlyURL, cfg.NightlyURL)
}

// TestLoadOrDefault_MissingFile returns defaults instead of failing.
func TestLoadOrDefault_MissingFile(t *testing.T) {
	t.Parallel()

	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

// TestUpdatesDirectory_CreatesConfiguredDir checks the directory collaborator.
func TestUpdatesDirectory_CreatesConfiguredDir(t *testing.T) {
	t.Parallel()

	want := filepath.Join(t.TempDir(), "nested", "updates")
	cfg := &Config{UpdatesDir: want}

	got, err := cfg.UpdatesDirectory()
	require.NoError(t, err)
	require.Equal(t, want, got)

	info, err := os.Stat(got)
	require.NoError(t, err)
	require.True(t, info.IsDir())
}
