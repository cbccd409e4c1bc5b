// Package logging provides the logging interface used throughout renga and
// adapters around log/slog.
//
// The Logger interface defines the four leveled methods the session and
// invocation layers call. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping an existing *slog.Logger
//   - NoOpLogger for silent operation (tests, library defaults)
//   - RengaLogger, a configurable slog logger with contextual attributes and
//     helpers for foreign calls and session transitions
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "json", false)
//	app, err := renga.New(func(o *renga.Options) { o.Logger = logger })
package logging
