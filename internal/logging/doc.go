// Package logging provides structured logging for fintrack.
//
// This package wraps Go's log/slog to write JSON-formatted logs to a file in
// the fintrack data directory. The terminal UI owns the screen, so nothing is
// ever logged to the terminal while it runs; failed background loads, ignored
// logout errors and every API request end up here instead.
//
// # Basic Usage
//
//	logger, err := logging.NewLogger(dataDir, "INFO", logging.DefaultRotationConfig())
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	logger.Info("login succeeded", "user_id", user.ID)
//
// # Context Propagation
//
// Child loggers carry persistent attributes:
//
//	pageLogger := logger.WithComponent("views").WithPage("transactions")
//	pageLogger.Error("load failed", "error", err)
//
// Output:
//
//	{"time":"...","level":"ERROR","msg":"load failed","component":"views","page":"transactions","error":"..."}
//
// # Log Rotation
//
// The log file is rotated by size. Rotated files are named fintrack.log.1,
// fintrack.log.2, etc., where .1 is the most recent backup.
//
// # Reading Logs
//
// [ReadLogs] and [FilterLogs] back the `fintrack logs` command.
//
// # Testing
//
// For testing, use [NopLogger] to discard all log output.
package logging
