package updater

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/HectorLobatoSilva/lapce/internal/logger"
)

// linuxBundleBinary is the executable inside the unpacked Linux tarball.
var linuxBundleBinary = filepath.Join("Lapce", "lapce")

// unixOps installs the Linux tarball and relaunches by replacing the process image.
type unixOps struct{}

// Name returns the platform family.
func (unixOps) Name() string {
	return "linux"
}

// ExpectedAssetName returns the Linux tarball name.
func (unixOps) ExpectedAssetName() (string, error) {
	return LinuxAsset, nil
}

// Extract unpacks the tarball next to it and swaps the running binary for Lapce/lapce.
func (unixOps) Extract(ctx context.Context, artifactPath, exePath string) (string, error) {
	dir := filepath.Dir(artifactPath)

	logger.InfoKV(ctx, "Unpacking tarball", "archive", artifactPath, "dir", dir)

	created, err := unpackTarGz(artifactPath, dir)
	if err != nil {
		_ = removeAll(created)
		return "", fmt.Errorf("%w: %w", ErrExtractionFailed, err)
	}

	defer func() {
		if err := removeAll(created); err != nil {
			logger.WarnKV(ctx, "Unable to remove unpacked files", "error", err)
		}
	}()

	source := filepath.Join(dir, linuxBundleBinary)

	logger.InfoKV(ctx, "Replacing executable", "source", source, "path", exePath)

	if err = replaceExecutable(source, exePath); err != nil {
		return "", fmt.Errorf("%w: %w", ErrExtractionFailed, err)
	}

	return exePath, nil
}

// Relaunch replaces the current process with installedPath -n. It only returns on failure.
func (unixOps) Relaunch(ctx context.Context, installedPath string) error {
	logger.InfoKV(ctx, "Relaunching", "path", installedPath)

	if err := execve(installedPath, []string{installedPath, relaunchFlag}, os.Environ()); err != nil {
		return fmt.Errorf("exec %s: %w: %w", installedPath, ErrIO, err)
	}

	return nil
}
