package updater

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/HectorLobatoSilva/lapce/internal/logger"
)

const (
	// MarkerFilename marks that an update is running right now to avoid parallel execution.
	MarkerFilename = "lapce-update.marker"

	// markerLifetime is the period after which an update marker is considered stale.
	markerLifetime = 30 * time.Minute

	// markerFileMode is the permission of the marker file.
	markerFileMode os.FileMode = 0o600
)

// ErrUpdateInProgress is returned when another live process holds the update marker.
var ErrUpdateInProgress = errors.New("another update is already running")

// findProcess looks a PID up in the process table; overridden in tests.
var findProcess = ps.FindProcess

// Marker is a held update marker. Release removes it.
type Marker struct {
	// path is the marker file location.
	path string
}

// AcquireMarker creates the update marker in dir. A marker left by a process
// that no longer runs, or one older than the marker lifetime, is reclaimed.
func AcquireMarker(ctx context.Context, dir string) (*Marker, error) {
	path := filepath.Join(dir, MarkerFilename)

	logger.InfoKV(ctx, "Checking for the presence of an update marker", "path", path)

	if err := reclaimStaleMarker(ctx, path); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(filepath.Clean(path), os.O_CREATE|os.O_EXCL|os.O_WRONLY, markerFileMode)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil, ErrUpdateInProgress
		}

		return nil, fmt.Errorf("create update marker: %w: %w", ErrIO, err)
	}

	_, err = file.WriteString(strconv.Itoa(os.Getpid()))
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}

	if err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("write update marker: %w: %w", ErrIO, err)
	}

	return &Marker{path: path}, nil
}

// Release removes the marker. It is safe to call more than once.
func (m *Marker) Release() error {
	if err := os.Remove(m.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove update marker: %w", err)
	}

	return nil
}

// reclaimStaleMarker removes the marker at path unless it belongs to a live process.
func reclaimStaleMarker(ctx context.Context, path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		logger.Info(ctx, "Update marker not found, continuing")
		return nil
	}

	if err != nil {
		return fmt.Errorf("stat update marker: %w: %w", ErrIO, err)
	}

	if !markerIsStale(ctx, path, info) {
		return ErrUpdateInProgress
	}

	logger.Info(ctx, "The update marker is stale, removing it")

	if err = os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove stale update marker: %w: %w", ErrIO, err)
	}

	return nil
}

// markerIsStale reports whether the marker can be reclaimed.
// A marker naming this process is stale too: the process image was replaced
// after an earlier run, which keeps the PID.
func markerIsStale(ctx context.Context, path string, info os.FileInfo) bool {
	if time.Since(info.ModTime()) > markerLifetime {
		return true
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return false
	}

	text := strings.TrimSpace(string(contents))
	if text == "" {
		// The holder has created the marker but not written its PID yet.
		return false
	}

	pid, err := strconv.Atoi(text)
	if err != nil || pid <= 0 {
		logger.Warnf(ctx, "Update marker holds no valid PID: %q", contents)
		return true
	}

	if pid == os.Getpid() {
		return true
	}

	process, err := findProcess(pid)
	if err != nil {
		// The process table is unreadable; assume the holder is alive.
		return false
	}

	return process == nil
}
