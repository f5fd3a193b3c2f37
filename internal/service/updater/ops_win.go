package updater

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"

	"github.com/HectorLobatoSilva/lapce/internal/logger"
)

// windowsBundleBinary is the executable inside the unpacked portable archive.
const windowsBundleBinary = "lapce.exe"

// windowsOps installs the portable zip and relaunches through a detached cmd helper.
type windowsOps struct{}

// Name returns the platform family.
func (windowsOps) Name() string {
	return "windows"
}

// ExpectedAssetName returns the portable archive name.
func (windowsOps) ExpectedAssetName() (string, error) {
	return WindowsAsset, nil
}

// Extract unpacks the zip next to it and swaps the running binary for lapce.exe.
// The running binary is moved aside rather than overwritten.
func (windowsOps) Extract(ctx context.Context, artifactPath, exePath string) (string, error) {
	dir := filepath.Dir(artifactPath)

	logger.InfoKV(ctx, "Unpacking archive", "archive", artifactPath, "dir", dir)

	created, err := unpackZip(artifactPath, dir)
	if err != nil {
		_ = removeAll(created)
		return "", fmt.Errorf("%w: %w", ErrExtractionFailed, err)
	}

	defer func() {
		if err := removeAll(created); err != nil {
			logger.WarnKV(ctx, "Unable to remove unpacked files", "error", err)
		}
	}()

	source := filepath.Join(dir, windowsBundleBinary)

	logger.InfoKV(ctx, "Replacing executable", "source", source, "path", exePath)

	if err = replaceExecutable(source, exePath); err != nil {
		return "", fmt.Errorf("%w: %w", ErrExtractionFailed, err)
	}

	return exePath, nil
}

// Relaunch spawns a detached helper that terminates this process and starts installedPath -n.
// It returns as soon as the helper is running; the caller is expected to exit.
func (windowsOps) Relaunch(ctx context.Context, installedPath string) error {
	cmd := relaunchHelper(currentPID(), installedPath)

	logger.InfoKV(ctx, "Spawning relaunch helper", "command", cmd.Args)

	if err := startHelper(cmd); err != nil {
		return fmt.Errorf("start relaunch helper: %w: %w", ErrIO, err)
	}

	return nil
}

// relaunchHelper builds the cmd.exe invocation used to restart the application.
func relaunchHelper(pid int, installedPath string) *exec.Cmd {
	script := fmt.Sprintf(`taskkill /PID %d & start "" "%s" %s`, pid, installedPath, relaunchFlag)

	cmd := exec.Command("cmd", "/C", script) //nolint:gosec // Path comes from the running executable.
	detach(cmd, script)

	return cmd
}
