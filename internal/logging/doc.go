// Package logging provides structured logging for pipeboard.
//
// # Features
//
//   - JSON-formatted structured logging via slog
//   - Configurable log levels (DEBUG, INFO, WARN, ERROR)
//   - Persistent attributes (component, deal ID, arbitrary pairs)
//   - Size-based log rotation with numbered backups
//
// # Where logs go
//
// The board owns the terminal while it runs, so it always logs to a file in
// the configured log directory. Non-interactive commands (serve, kpi) log to
// stderr by passing an empty directory.
//
// # Basic Usage
//
//	logger, err := logging.NewLogger(dir, "info", logging.DefaultRotationConfig())
//	if err != nil {
//		return err
//	}
//	defer logger.Close()
//
//	drag := logger.WithComponent("drag")
//	drag.WithDeal(id).Info("move confirmed", "stage", stage)
//
// # Thread Safety
//
// All types in this package are safe for concurrent use. Child loggers share
// the parent's writer.
package logging
