package updater

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/HectorLobatoSilva/lapce/internal/config"
	"github.com/HectorLobatoSilva/lapce/internal/logger"
)

// Directory provides the update-storage directory.
type Directory interface {
	// UpdatesDirectory returns an existing writable directory for downloaded artifacts.
	UpdatesDirectory() (string, error)
}

// Option configures an Updater during construction.
type Option func(*Updater)

// WithPlatform overrides the host platform operations.
func WithPlatform(platform PlatformOps) Option {
	return func(u *Updater) {
		u.platform = platform
	}
}

// WithHTTPClient sets the client used for metadata and asset requests.
func WithHTTPClient(client *http.Client) Option {
	return func(u *Updater) {
		u.client = client
	}
}

// WithDirectory overrides the update-storage directory provider.
func WithDirectory(directory Directory) Option {
	return func(u *Updater) {
		u.directory = directory
	}
}

// WithExecutable overrides how the running executable path is resolved.
func WithExecutable(resolve func() (string, error)) Option {
	return func(u *Updater) {
		u.executable = resolve
	}
}

// WithStageObserver registers a callback invoked on every stage transition.
func WithStageObserver(observer func(Stage)) Option {
	return func(u *Updater) {
		u.observer = observer
	}
}

// CheckResult is the outcome of comparing the running build with its channel.
type CheckResult struct {
	// Channel is the release channel of the running build.
	Channel Channel
	// Current is the running version identifier.
	Current string
	// Release is the latest release of the channel.
	Release *Release
	// UpdateAvailable is true when Release should replace the running build.
	UpdateAvailable bool
}

// Updater drives the update pipeline for one running build.
type Updater struct {
	cfg        *config.Config         // Channel endpoints and storage settings.
	current    string                 // Version identifier of the running build.
	resolver   *Resolver              // Maps the version to a channel endpoint.
	platform   PlatformOps            // Host specific extraction and relaunch.
	client     *http.Client           // Shared by fetcher and downloader.
	directory  Directory              // Where artifacts are downloaded.
	executable func() (string, error) // Resolves the running executable path.
	observer   func(Stage)            // Optional transition callback.

	mu    sync.Mutex
	stage Stage
}

// New creates an Updater for the build identified by current.
func New(cfg *config.Config, current string, opts ...Option) *Updater {
	u := &Updater{
		cfg:        cfg,
		current:    current,
		resolver:   NewResolver(cfg.DevVersion, cfg.NightlyPrefix, cfg.StableURL, cfg.NightlyURL),
		platform:   HostPlatform(),
		client:     &http.Client{Timeout: cfg.Timeout},
		directory:  cfg,
		executable: resolveExecutable,
	}

	for _, opt := range opts {
		opt(u)
	}

	return u
}

// Stage returns the current pipeline stage.
func (u *Updater) Stage() Stage {
	u.mu.Lock()
	defer u.mu.Unlock()

	return u.stage
}

// Check resolves the channel of the running build, fetches its latest release
// and reports whether it differs from the running version.
func (u *Updater) Check(ctx context.Context) (*CheckResult, error) {
	ctx = logger.WithName(ctx, "updater")

	u.reset()

	channel, release, err := u.fetchLatest(ctx)
	if err != nil {
		return nil, err
	}

	available, err := release.IsNewerThan(u.current)
	if err != nil {
		logger.WarnKV(ctx, "Versions are not comparable, treating the release as an update",
			"current", u.current, "latest", release.Version, "error", err)

		available = true
	}

	logger.InfoKV(ctx, "Update check finished",
		"channel", channel, "current", u.current, "latest", release.Version, "available", available)

	return &CheckResult{
		Channel:         channel,
		Current:         u.current,
		Release:         release,
		UpdateAvailable: available,
	}, nil
}

// Run executes the whole pipeline. On Linux and macOS a successful run never
// returns because the process image is replaced.
func (u *Updater) Run(ctx context.Context) error {
	ctx = logger.WithName(ctx, "updater")

	u.reset()

	_, release, err := u.fetchLatest(ctx)
	if err != nil {
		return err
	}

	return u.install(ctx, release)
}

// Install runs the download, extract and relaunch stages for a release
// obtained from Check.
func (u *Updater) Install(ctx context.Context, release *Release) error {
	if u.Stage() >= StageReplaced {
		u.reset()
	}

	return u.install(logger.WithName(ctx, "updater"), release)
}

// Start runs the pipeline on a dedicated goroutine. The returned channel
// receives the outcome once and is then closed.
func (u *Updater) Start(ctx context.Context) <-chan error {
	done := make(chan error, 1)

	go func() {
		defer close(done)

		done <- u.Run(ctx)
	}()

	return done
}

// fetchLatest runs the resolving and fetching stages.
func (u *Updater) fetchLatest(ctx context.Context) (Channel, *Release, error) {
	u.transition(ctx, StageResolving)

	channel, endpoint, err := u.resolver.Resolve(u.current)
	if err != nil {
		return "", nil, u.fail(ctx, StageResolving, err)
	}

	logger.InfoKV(ctx, "Release channel resolved", "channel", channel, "endpoint", endpoint)

	u.transition(ctx, StageFetching)

	release, err := NewFetcher(u.client, u.cfg.UserAgent).Fetch(ctx, endpoint)
	if err != nil {
		return "", nil, u.fail(ctx, StageFetching, err)
	}

	return channel, release, nil
}

// install runs the downloading, extracting and relaunching stages.
func (u *Updater) install(ctx context.Context, release *Release) error {
	u.transition(ctx, StageDownloading)

	dir, err := u.directory.UpdatesDirectory()
	if err != nil {
		return u.fail(ctx, StageDownloading, fmt.Errorf("%w: %w", ErrDirectoryUnavailable, err))
	}

	artifact, err := NewDownloader(u.client, u.cfg.UserAgent, u.platform).Download(ctx, release, dir)
	if err != nil {
		return u.fail(ctx, StageDownloading, err)
	}

	u.transition(ctx, StageExtracting)

	exePath, err := u.executable()
	if err != nil {
		return u.fail(ctx, StageExtracting, fmt.Errorf("%w: %w", ErrPathResolution, err))
	}

	installed, err := u.platform.Extract(ctx, artifact, exePath)
	if err != nil {
		return u.fail(ctx, StageExtracting, err)
	}

	if !u.cfg.KeepArtifacts {
		if err = os.Remove(artifact); err != nil {
			logger.WarnKV(ctx, "Unable to remove downloaded artifact", "path", artifact, "error", err)
		}
	}

	u.transition(ctx, StageRelaunching)

	if err = u.platform.Relaunch(ctx, installed); err != nil {
		return u.fail(ctx, StageRelaunching, err)
	}

	u.transition(ctx, StageReplaced)

	return nil
}

// reset returns the pipeline to Idle before a new run.
func (u *Updater) reset() {
	u.mu.Lock()
	u.stage = StageIdle
	u.mu.Unlock()
}

// transition moves the pipeline forward and notifies the observer.
func (u *Updater) transition(ctx context.Context, stage Stage) {
	u.mu.Lock()
	if stage <= u.stage {
		u.mu.Unlock()
		return
	}

	u.stage = stage
	u.mu.Unlock()

	logger.InfoKV(ctx, "Stage changed", "stage", stage, "platform", u.platform.Name())

	if u.observer != nil {
		u.observer(stage)
	}
}

// fail moves the pipeline to Failed and wraps err with the stage it happened in.
func (u *Updater) fail(ctx context.Context, stage Stage, err error) error {
	logger.ErrorKV(ctx, "Stage failed", "stage", stage, "error", err)

	u.transition(ctx, StageFailed)

	return &StageError{Stage: stage, Err: err}
}

// resolveExecutable returns the path of the running executable with symlinks resolved.
func resolveExecutable() (string, error) {
	path, err := os.Executable()
	if err != nil {
		return "", err
	}

	return filepath.EvalSymlinks(path)
}
