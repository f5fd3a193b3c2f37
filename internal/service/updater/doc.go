// Package updater implements the self-update pipeline of the Lapce editor.
//
// The pipeline runs five stages strictly in order and stops at the first failure:
//   - Resolver maps the running version identifier to a release channel endpoint,
//   - Fetcher retrieves the release metadata and derives its normalized version,
//   - Downloader streams the installer asset for the host platform to the updates directory,
//   - PlatformOps.Extract installs the artifact over the running application,
//   - PlatformOps.Relaunch replaces the running process with the installed one.
//
// Exactly one PlatformOps implementation is chosen per build target (macOS,
// Linux/BSD, Windows). Every failure is reported as a *StageError wrapping one
// of the package sentinel errors so callers can use errors.Is.
package updater
