// Package version exposes build metadata for the updater.
//
// Variables Version, Commit, and BuildTime are injected at build time via
// Go ldflags. Version doubles as the identifier the update pipeline uses to
// pick a release channel.
package version
