// Package logger provides a small wrapper around zap to offer:
//   - a global sugared logger with a console encoder writing to stderr,
//   - context helpers (ToContext/FromContext/WithName/WithKV),
//   - level configuration and parsing utilities,
//   - convenience functions (Infof, InfoKV, ErrorKV, etc.).
//
// The updater pipeline accepts a context and extracts the logger from it, so
// every stage logs with the component name and its own key-values.
package logger
