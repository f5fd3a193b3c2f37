package updater

import (
	"fmt"
	"strings"

	"github.com/google/go-github/v30/github"
	goversion "github.com/hashicorp/go-version"
)

const (
	// nightlyTag is the tag of the rolling nightly release.
	nightlyTag = "nightly"
	// commitPrefixLength is the number of commit characters kept in nightly versions.
	commitPrefixLength = 7
)

// Asset is a downloadable file attached to a release.
type Asset struct {
	// Name is the file name; lookups match it exactly and case-sensitively.
	Name string
	// DownloadURL is the direct download location.
	DownloadURL string
}

// Release is the metadata of a published release.
type Release struct {
	// TagName is the git tag, e.g. "v0.2.5" or "nightly".
	TagName string
	// Commit is the source commit the release was built from.
	Commit string
	// HTMLURL is the browser page of the release.
	HTMLURL string
	// Assets lists downloadable files in API order.
	Assets []Asset
	// Version is derived from TagName and Commit; it is not part of the payload.
	Version string
}

// FindAsset returns the first asset named exactly name.
func (r *Release) FindAsset(name string) (*Asset, error) {
	for i := range r.Assets {
		if r.Assets[i].Name == name {
			return &r.Assets[i], nil
		}
	}

	return nil, fmt.Errorf("%q in release %s: %w", name, r.TagName, ErrAssetNotFound)
}

// IsNewerThan reports whether the release should replace the build identified by current.
// Nightly builds are compared by identity; stable builds by semantic version.
func (r *Release) IsNewerThan(current string) (bool, error) {
	if strings.HasPrefix(r.Version, nightlyTag) || strings.HasPrefix(current, nightlyTag) {
		return r.Version != current, nil
	}

	latest, err := goversion.NewVersion(r.Version)
	if err != nil {
		return false, fmt.Errorf("release version %q: %w", r.Version, err)
	}

	running, err := goversion.NewVersion(current)
	if err != nil {
		return false, fmt.Errorf("current version %q: %w", current, err)
	}

	return latest.GreaterThan(running), nil
}

// releaseFromPayload converts the release API payload and derives the normalized version.
func releaseFromPayload(payload *github.RepositoryRelease) (*Release, error) {
	release := &Release{
		TagName: payload.GetTagName(),
		Commit:  payload.GetTargetCommitish(),
		HTMLURL: payload.GetHTMLURL(),
		Assets:  make([]Asset, 0, len(payload.Assets)),
	}

	for _, asset := range payload.Assets {
		release.Assets = append(release.Assets, Asset{
			Name:        asset.GetName(),
			DownloadURL: asset.GetBrowserDownloadURL(),
		})
	}

	normalized, err := normalizeVersion(release.TagName, release.Commit)
	if err != nil {
		return nil, err
	}

	release.Version = normalized

	return release, nil
}

// normalizeVersion derives the comparable version of a release:
// "nightly-" plus the first seven commit characters for the nightly tag,
// the tag without its leading character ("v1.2.3" -> "1.2.3") otherwise.
func normalizeVersion(tag, commit string) (string, error) {
	if tag == nightlyTag {
		if len(commit) < commitPrefixLength {
			return "", fmt.Errorf("nightly commit %q is shorter than %d characters: %w",
				commit, commitPrefixLength, ErrMalformedResponse)
		}

		return nightlyTag + "-" + commit[:commitPrefixLength], nil
	}

	if len(tag) < 2 {
		return "", fmt.Errorf("tag %q has no version after its prefix: %w", tag, ErrMalformedResponse)
	}

	return tag[1:], nil
}
