package updater

// Stage is a state of the update pipeline.
// Transitions only move forward: Idle, Resolving, Fetching, Downloading,
// Extracting, Relaunching, then Replaced or Failed.
type Stage int

const (
	// StageIdle is the state before any work started.
	StageIdle Stage = iota
	// StageResolving maps the version identifier to a channel endpoint.
	StageResolving
	// StageFetching retrieves the release metadata.
	StageFetching
	// StageDownloading streams the installer asset to disk.
	StageDownloading
	// StageExtracting installs the artifact over the running application.
	StageExtracting
	// StageRelaunching hands control to the installed application.
	StageRelaunching
	// StageReplaced means the successor process has been started.
	StageReplaced
	// StageFailed means a stage returned an error.
	StageFailed
)

// String returns the lower-case stage name used in logs and errors.
func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageResolving:
		return "resolving"
	case StageFetching:
		return "fetching"
	case StageDownloading:
		return "downloading"
	case StageExtracting:
		return "extracting"
	case StageRelaunching:
		return "relaunching"
	case StageReplaced:
		return "replaced"
	case StageFailed:
		return "failed"
	default:
		return "unknown"
	}
}
