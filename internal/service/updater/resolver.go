package updater

import (
	"fmt"
	"strings"
)

// Channel is a release channel followed by a build.
type Channel string

const (
	// ChannelStable follows the latest tagged release.
	ChannelStable Channel = "stable"
	// ChannelNightly follows the rolling nightly release.
	ChannelNightly Channel = "nightly"
)

// Resolver maps a build's version identifier to the endpoint of its release channel.
// It performs no I/O.
type Resolver struct {
	// devVersion is the identifier of development builds.
	devVersion string
	// nightlyPrefix marks nightly identifiers.
	nightlyPrefix string
	// stableURL is the latest release endpoint.
	stableURL string
	// nightlyURL is the nightly release endpoint.
	nightlyURL string
}

// NewResolver creates a Resolver from explicit channel settings.
func NewResolver(devVersion, nightlyPrefix, stableURL, nightlyURL string) *Resolver {
	return &Resolver{
		devVersion:    devVersion,
		nightlyPrefix: nightlyPrefix,
		stableURL:     stableURL,
		nightlyURL:    nightlyURL,
	}
}

// Resolve returns the channel and endpoint for the current version identifier.
func (r *Resolver) Resolve(current string) (Channel, string, error) {
	switch {
	case current == r.devVersion:
		return "", "", fmt.Errorf("version %q: %w", current, ErrNoReleaseChannel)
	case strings.HasPrefix(current, r.nightlyPrefix):
		return ChannelNightly, r.nightlyURL, nil
	default:
		return ChannelStable, r.stableURL, nil
	}
}
