package updater

import (
	"context"
	"fmt"
	"os"
	"os/exec"
)

const (
	// MacOSAsset is the installer image published for macOS.
	MacOSAsset = "Lapce-macos.dmg"
	// LinuxAsset is the tarball published for Linux and the BSDs.
	LinuxAsset = "Lapce-linux.tar.gz"
	// WindowsAsset is the portable archive published for Windows.
	WindowsAsset = "Lapce-windows-portable.zip"

	// relaunchFlag asks the relaunched application to open a new window.
	relaunchFlag = "-n"

	// dirMode is applied to directories created while unpacking.
	dirMode os.FileMode = 0o755
	// fileMode is applied to unpacked files whose archive entry carries no permissions.
	fileMode os.FileMode = 0o755

	// defaultMapCapacity is the default initial capacity for maps and slices.
	defaultMapCapacity = 16
)

// PlatformOps isolates the per-OS steps of the pipeline.
// Exactly one implementation is selected per build target by HostPlatform.
type PlatformOps interface {
	// Name is the operating system family, used in logs.
	Name() string
	// ExpectedAssetName returns the release asset to download for this platform.
	ExpectedAssetName() (string, error)
	// Extract installs artifactPath over the application running from exePath
	// and returns the path to relaunch.
	Extract(ctx context.Context, artifactPath, exePath string) (string, error)
	// Relaunch starts the installed application. Implementations that replace
	// the process image do not return on success.
	Relaunch(ctx context.Context, installedPath string) error
}

var (
	// execve replaces the process image; overridden in tests.
	execve = replaceProcess
	// startHelper spawns a detached helper; overridden in tests.
	startHelper = func(cmd *exec.Cmd) error {
		if err := cmd.Start(); err != nil {
			return err
		}

		return cmd.Process.Release()
	}
	// currentPID is the PID handed to the Windows helper; overridden in tests.
	currentPID = os.Getpid
)

// unsupportedOps is selected for operating systems without a published installer.
type unsupportedOps struct {
	// goos is the name of the host operating system.
	goos string
}

// Name returns the host operating system name.
func (u unsupportedOps) Name() string {
	return u.goos
}

// ExpectedAssetName always fails with ErrUnsupportedPlatform.
func (u unsupportedOps) ExpectedAssetName() (string, error) {
	return "", fmt.Errorf("%s: %w", u.goos, ErrUnsupportedPlatform)
}

// Extract always fails with ErrUnsupportedPlatform.
func (u unsupportedOps) Extract(context.Context, string, string) (string, error) {
	return "", fmt.Errorf("%s: %w", u.goos, ErrUnsupportedPlatform)
}

// Relaunch always fails with ErrUnsupportedPlatform.
func (u unsupportedOps) Relaunch(context.Context, string) error {
	return fmt.Errorf("%s: %w", u.goos, ErrUnsupportedPlatform)
}
