package cmd

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/HectorLobatoSilva/lapce/internal/config"
)

// runRoot executes the root command with args and returns its stdout.
func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)

	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()

	return out.String(), err
}

// writeSettings stores a configuration whose channels point at endpoint.
func writeSettings(t *testing.T, endpoint string) string {
	t.Helper()

	cfg := config.Default()
	cfg.StableURL = endpoint
	cfg.NightlyURL = endpoint
	cfg.UpdatesDir = t.TempDir()

	path := filepath.Join(t.TempDir(), config.DefaultConfigFilename)
	require.NoError(t, config.Save(path, cfg))

	return path
}

func TestCheckCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"tag_name": "v0.2.6", "target_commitish": "abcdef1234", "assets": []}`))
	}))
	defer srv.Close()

	settings := writeSettings(t, srv.URL)

	out, err := runRoot(t, "check", "--config", settings, "--current-version", "0.2.5")
	require.NoError(t, err)
	require.Contains(t, out, "0.2.6 is available (stable channel, running 0.2.5)")

	out, err = runRoot(t, "check", "--config", settings, "--current-version", "0.2.6")
	require.NoError(t, err)
	require.Contains(t, out, "0.2.6 is up to date (stable channel)")
}

func TestCheckCommandDevelopmentBuild(t *testing.T) {
	out, err := runRoot(t, "check", "--config", filepath.Join(t.TempDir(), "missing.yaml"), "--current-version", "debug")
	require.NoError(t, err)
	require.Contains(t, out, "development build")
}

func TestUpdateCommandUpToDate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"tag_name": "nightly", "target_commitish": "abcdef1234", "assets": []}`))
	}))
	defer srv.Close()

	settings := writeSettings(t, srv.URL)

	out, err := runRoot(t, "update", "--config", settings, "--current-version", "nightly-abcdef1")
	require.NoError(t, err)
	require.Contains(t, out, "nightly-abcdef1 is up to date (nightly channel)")
	require.Contains(t, out, "stage: fetching")
}
