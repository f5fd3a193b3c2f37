package updater

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/otiai10/copy"

	"github.com/HectorLobatoSilva/lapce/internal/logger"
)

const (
	// appBundle is the application bundle shipped inside the disk image.
	appBundle = "Lapce.app"
	// bundleExecutableDir is the directory holding the executable inside a bundle.
	bundleExecutableDir = "MacOS"
	// openCommand launches application bundles.
	openCommand = "/usr/bin/open"
	// hdiutilCommand mounts and unmounts disk images.
	hdiutilCommand = "hdiutil"
)

var (
	// attachImage mounts a disk image and returns its mount point; overridden in tests.
	attachImage = func(ctx context.Context, image string) (string, error) {
		mountPoint, err := os.MkdirTemp("", "lapce-dmg-")
		if err != nil {
			return "", err
		}

		cmd := exec.CommandContext(ctx, hdiutilCommand, "attach", "-nobrowse", "-noautoopen", //nolint:gosec // Fixed tool, image path from the updates directory.
			"-mountpoint", mountPoint, image)
		if output, err := cmd.CombinedOutput(); err != nil {
			_ = os.Remove(mountPoint)
			return "", fmt.Errorf("hdiutil attach: %w: %s", err, output)
		}

		return mountPoint, nil
	}

	// detachImage unmounts a disk image attached by attachImage; overridden in tests.
	detachImage = func(ctx context.Context, mountPoint string) error {
		cmd := exec.CommandContext(ctx, hdiutilCommand, "detach", mountPoint) //nolint:gosec // Fixed tool.
		if output, err := cmd.CombinedOutput(); err != nil {
			return fmt.Errorf("hdiutil detach: %w: %s", err, output)
		}

		return os.Remove(mountPoint)
	}
)

// darwinOps installs the application bundle from the disk image and relaunches through open.
type darwinOps struct{}

// Name returns the platform family.
func (darwinOps) Name() string {
	return "macos"
}

// ExpectedAssetName returns the disk image name.
func (darwinOps) ExpectedAssetName() (string, error) {
	return MacOSAsset, nil
}

// Extract mounts the image, replaces the installed bundle with the mounted one,
// and returns the path of the installed bundle.
func (darwinOps) Extract(ctx context.Context, artifactPath, exePath string) (string, error) {
	logger.InfoKV(ctx, "Mounting disk image", "image", artifactPath)

	mountPoint, err := attachImage(ctx, artifactPath)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrExtractionFailed, err)
	}

	defer func() {
		if err := detachImage(context.WithoutCancel(ctx), mountPoint); err != nil {
			logger.WarnKV(ctx, "Unable to detach disk image", "mount_point", mountPoint, "error", err)
		}
	}()

	dest := bundleDestination(exePath)
	installed := filepath.Join(dest, appBundle)

	logger.InfoKV(ctx, "Replacing application bundle", "path", installed)

	if err = os.RemoveAll(installed); err != nil {
		return "", fmt.Errorf("%w: remove %s: %w", ErrExtractionFailed, installed, err)
	}

	options := copy.Options{
		OnSymlink: func(string) copy.SymlinkAction {
			return copy.Shallow
		},
		PreserveTimes: true,
	}

	if err = copy.Copy(filepath.Join(mountPoint, appBundle), installed, options); err != nil {
		return "", fmt.Errorf("%w: copy bundle: %w", ErrExtractionFailed, err)
	}

	return installed, nil
}

// Relaunch replaces the current process with open -n <bundle> --args -n.
// It only returns on failure.
func (darwinOps) Relaunch(ctx context.Context, installedPath string) error {
	argv := []string{"open", "-n", installedPath, "--args", relaunchFlag}

	logger.InfoKV(ctx, "Relaunching", "command", argv)

	if err := execve(openCommand, argv, os.Environ()); err != nil {
		return fmt.Errorf("exec %s: %w: %w", openCommand, ErrIO, err)
	}

	return nil
}

// bundleDestination returns the directory that holds the installed bundle.
// An executable under <dir>/Lapce.app/Contents/MacOS yields <dir>; any other location
// yields the executable's own directory.
func bundleDestination(exePath string) string {
	dir := filepath.Dir(exePath)
	if filepath.Base(dir) != bundleExecutableDir {
		return dir
	}

	return filepath.Dir(filepath.Dir(filepath.Dir(dir)))
}
