//go:build !(darwin || dragonfly || freebsd || linux || netbsd || openbsd || windows)

package updater

import (
	"errors"
	"os/exec"
)

var errExecUnsupported = errors.New("process image replacement is not available on this platform")

// replaceProcess is not available on this platform.
func replaceProcess(string, []string, []string) error {
	return errExecUnsupported
}

// detach is a no-op here.
func detach(*exec.Cmd, string) {}
