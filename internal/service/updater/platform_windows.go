package updater

// HostPlatform returns the operations of the platform this binary was built for.
func HostPlatform() PlatformOps {
	return windowsOps{}
}
