//go:build !(darwin || windows || linux || freebsd || openbsd)

package updater

import "runtime"

// HostPlatform returns the operations of the platform this binary was built for.
func HostPlatform() PlatformOps {
	return unsupportedOps{goos: runtime.GOOS}
}
