package updater

import (
	"encoding/json"
	"testing"

	"github.com/google/go-github/v30/github"
	"github.com/stretchr/testify/require"
)

func TestNormalizeVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		tag     string
		commit  string
		want    string
		wantErr error
	}{
		{name: "stable tag drops prefix", tag: "v1.2.3", commit: "abcdef1234", want: "1.2.3"},
		{name: "nightly keeps seven commit characters", tag: "nightly", commit: "abcdef1234", want: "nightly-abcdef1"},
		{name: "nightly with exactly seven characters", tag: "nightly", commit: "abcdef1", want: "nightly-abcdef1"},
		{name: "nightly with short commit", tag: "nightly", commit: "abc", wantErr: ErrMalformedResponse},
		{name: "empty tag", tag: "", commit: "abcdef1234", wantErr: ErrMalformedResponse},
		{name: "single character tag", tag: "v", commit: "abcdef1234", wantErr: ErrMalformedResponse},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := normalizeVersion(tt.tag, tt.commit)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestReleaseFromPayload(t *testing.T) {
	t.Parallel()

	var payload github.RepositoryRelease
	require.NoError(t, json.Unmarshal([]byte(`{
		"tag_name": "v0.2.5",
		"target_commitish": "0123456789abcdef",
		"html_url": "https://github.com/lapce/lapce/releases/tag/v0.2.5",
		"assets": [
			{"name": "Lapce-linux.tar.gz", "browser_download_url": "https://example.com/linux"},
			{"name": "Lapce-macos.dmg", "browser_download_url": "https://example.com/macos"}
		]
	}`), &payload))

	release, err := releaseFromPayload(&payload)
	require.NoError(t, err)
	require.Equal(t, "v0.2.5", release.TagName)
	require.Equal(t, "0.2.5", release.Version)
	require.Equal(t, "0123456789abcdef", release.Commit)
	require.Len(t, release.Assets, 2)
	require.Equal(t, Asset{Name: LinuxAsset, DownloadURL: "https://example.com/linux"}, release.Assets[0])
}

func TestReleaseFindAsset(t *testing.T) {
	t.Parallel()

	release := &Release{
		TagName: "v1.0.0",
		Assets: []Asset{
			{Name: "lapce-linux.tar.gz", DownloadURL: "lower"},
			{Name: LinuxAsset, DownloadURL: "first"},
			{Name: LinuxAsset, DownloadURL: "second"},
		},
	}

	asset, err := release.FindAsset(LinuxAsset)
	require.NoError(t, err)
	require.Equal(t, "first", asset.DownloadURL)

	_, err = release.FindAsset(WindowsAsset)
	require.ErrorIs(t, err, ErrAssetNotFound)
}

func TestReleaseIsNewerThan(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		latest  string
		current string
		want    bool
	}{
		{name: "newer stable", latest: "0.2.6", current: "0.2.5", want: true},
		{name: "same stable", latest: "0.2.5", current: "0.2.5", want: false},
		{name: "older stable", latest: "0.2.4", current: "0.2.5", want: false},
		{name: "different nightly", latest: "nightly-abcdef1", current: "nightly-1234567", want: true},
		{name: "same nightly", latest: "nightly-abcdef1", current: "nightly-abcdef1", want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := (&Release{Version: tt.latest}).IsNewerThan(tt.current)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}

	_, err := (&Release{Version: "1.0.0"}).IsNewerThan("not-a-version")
	require.Error(t, err)
}
