//go:build darwin || dragonfly || freebsd || linux || netbsd || openbsd

package updater

import (
	"os/exec"

	"golang.org/x/sys/unix"
)

// replaceProcess replaces the current process image; it only returns on failure.
func replaceProcess(path string, argv, env []string) error {
	return unix.Exec(path, argv, env)
}

// detach is a no-op here: the helper is only used on Windows.
func detach(*exec.Cmd, string) {}
