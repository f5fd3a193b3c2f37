//go:build windows

package updater

import (
	"errors"
	"os/exec"
	"syscall"

	"golang.org/x/sys/windows"
)

var errExecUnsupported = errors.New("process image replacement is not available on windows")

// replaceProcess is not available on Windows.
func replaceProcess(string, []string, []string) error {
	return errExecUnsupported
}

// detach runs cmd without a console, outside of this process group, with the script
// passed verbatim so cmd.exe sees the quoting unchanged.
func detach(cmd *exec.Cmd, script string) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CmdLine:       `cmd /C "` + script + `"`,
		CreationFlags: windows.DETACHED_PROCESS | windows.CREATE_NEW_PROCESS_GROUP,
		HideWindow:    true,
	}
}
