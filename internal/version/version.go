package version

import "fmt"

var (
	// Version is the release identifier of the build: "debug" for local builds,
	// "nightly-<sha>" for nightly builds, a semantic version for stable ones.
	// It is overridden via ldflags.
	Version = "debug"
	// Commit is the short git SHA embedded at build time (or "none").
	Commit = "none"
	// BuildTime is the UTC build timestamp embedded at build time.
	BuildTime = "unknown"
)

// Short returns only the release identifier.
func Short() string {
	return Version
}

// Full returns a human-readable version string with commit and build time.
func Full() string {
	return fmt.Sprintf("version: %s, commit: %s, built at: %s", Version, Commit, BuildTime)
}
