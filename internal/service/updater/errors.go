package updater

import (
	"errors"
	"fmt"
)

var (
	// ErrNoReleaseChannel is returned for development builds, which follow no release channel.
	ErrNoReleaseChannel = errors.New("no release channel for this build")
	// ErrRemote is matched by every *RemoteError.
	ErrRemote = errors.New("remote returned an unsuccessful status")
	// ErrMalformedResponse is returned when release metadata cannot be decoded or normalized.
	ErrMalformedResponse = errors.New("malformed release metadata")
	// ErrUnsupportedPlatform is returned when the host OS has no installer asset.
	ErrUnsupportedPlatform = errors.New("platform not supported")
	// ErrAssetNotFound is returned when the release has no asset for the host OS.
	ErrAssetNotFound = errors.New("release asset not found")
	// ErrExtractionFailed is returned when the artifact cannot be installed.
	ErrExtractionFailed = errors.New("extraction failed")
	// ErrDirectoryUnavailable is returned when the updates directory cannot be resolved.
	ErrDirectoryUnavailable = errors.New("updates directory unavailable")
	// ErrIO is returned for generic filesystem, network and process failures.
	ErrIO = errors.New("i/o failure")
	// ErrPathResolution is returned when the running executable path cannot be resolved.
	ErrPathResolution = errors.New("path resolution failed")
)

// maxErrorBodyBytes caps the diagnostic body kept in a RemoteError.
const maxErrorBodyBytes = 64 << 10

// RemoteError reports a non-success HTTP status together with the response body.
type RemoteError struct {
	// URL is the requested location.
	URL string
	// StatusCode is the HTTP status returned by the remote.
	StatusCode int
	// Body is the response body, kept as diagnostic text.
	Body string
}

// Error formats the status and body.
func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", e.URL, e.StatusCode, e.Body)
}

// Is makes errors.Is(err, ErrRemote) true for every RemoteError.
func (e *RemoteError) Is(target error) bool {
	return target == ErrRemote
}

// StageError is the Failed(stage, error) outcome of the pipeline.
type StageError struct {
	// Stage is the stage that failed.
	Stage Stage
	// Err is the underlying failure.
	Err error
}

// Error prefixes the failure with the stage name.
func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

// Unwrap exposes the stage failure to errors.Is and errors.As.
func (e *StageError) Unwrap() error {
	return e.Err
}
