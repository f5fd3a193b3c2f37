// Package config defines the updater settings and provides helpers to load,
// validate and save them in YAML format.
//
// Config carries the release channel endpoints, the development-build sentinel,
// and the update-storage directory used to stage downloaded installers.
package config
