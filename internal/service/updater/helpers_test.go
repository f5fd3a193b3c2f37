package updater

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

// archiveEntry is a file placed into test archives.
type archiveEntry struct {
	name    string
	content string
	mode    int64
}

// buildTarGz returns a gzip-compressed tarball holding entries.
func buildTarGz(t *testing.T, entries ...archiveEntry) []byte {
	t.Helper()

	var buf bytes.Buffer

	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)

	for _, e := range entries {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name:     e.name,
			Mode:     e.mode,
			Size:     int64(len(e.content)),
			Typeflag: tar.TypeReg,
		}))

		_, err := tw.Write([]byte(e.content))
		require.NoError(t, err)
	}

	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())

	return buf.Bytes()
}

// buildZip returns a zip archive holding entries.
func buildZip(t *testing.T, entries ...archiveEntry) []byte {
	t.Helper()

	var buf bytes.Buffer

	zw := zip.NewWriter(&buf)

	for _, e := range entries {
		w, err := zw.Create(e.name)
		require.NoError(t, err)

		_, err = w.Write([]byte(e.content))
		require.NoError(t, err)
	}

	require.NoError(t, zw.Close())

	return buf.Bytes()
}

// writeFile creates path with content and mode, returning path.
func writeFile(t *testing.T, path, content string, mode os.FileMode) string {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), mode))
	require.NoError(t, os.Chmod(path, mode))

	return path
}

// releaseServer serves a release payload at /release and asset bytes at /assets/<name>.
type releaseServer struct {
	*httptest.Server

	requests atomic.Int32
}

// newReleaseServer starts a server describing a release with tag and commit whose
// assets are served from the given contents.
func newReleaseServer(t *testing.T, tag, commit string, assets map[string][]byte) *releaseServer {
	t.Helper()

	rs := &releaseServer{}

	mux := http.NewServeMux()
	mux.HandleFunc("/release", func(w http.ResponseWriter, _ *http.Request) {
		rs.requests.Add(1)

		payload := map[string]any{
			"tag_name":         tag,
			"target_commitish": commit,
			"html_url":         "https://github.com/lapce/lapce/releases/tag/" + tag,
		}

		list := make([]map[string]any, 0, len(assets))
		for name := range assets {
			list = append(list, map[string]any{
				"name":                 name,
				"browser_download_url": rs.URL + "/assets/" + name,
			})
		}

		payload["assets"] = list

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(payload)
	})
	mux.HandleFunc("/assets/", func(w http.ResponseWriter, r *http.Request) {
		rs.requests.Add(1)

		content, ok := assets[filepath.Base(r.URL.Path)]
		if !ok {
			http.NotFound(w, r)
			return
		}

		_, _ = w.Write(content)
	})

	rs.Server = httptest.NewServer(mux)
	t.Cleanup(rs.Close)

	return rs
}
