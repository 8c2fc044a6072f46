// Package logging provides structured logging utilities for the collection
// pipeline components.
//
// # Overview
//
// This package wraps the standard library slog package with project defaults
// and conventions for consistent logging across all components. It supports
// environment-based log level configuration, module/version context injection,
// and automatic source location tracking for debug logs.
//
// # Features
//
//   - Structured JSON logging to stderr
//   - Colorized text output when stderr is an interactive terminal
//   - Environment-based log level configuration (LOG_LEVEL)
//   - Automatic module and version context
//   - Source location tracking for debug logs
//   - Flexible log level parsing
//   - Integration with standard library log package
//
// # Log Levels
//
// Supported log levels (case-insensitive):
//   - DEBUG: Detailed diagnostic information with source location
//   - INFO: General informational messages (default)
//   - WARN/WARNING: Warning messages for potentially problematic situations
//   - ERROR: Error messages for failures requiring attention
//
// # Usage
//
// Setting the default logger (recommended):
//
//	func main() {
//	    logging.SetDefaultStructuredLogger("skopos", "v1.0.0")
//
//	    // Use slog as normal
//	    slog.Info("collection cycle started", "systems", 4)
//	    slog.Debug("raw output", "lines", lineCount)
//	    slog.Error("collection failed", "error", err)
//	}
//
// Creating a custom logger:
//
//	logger := logging.NewStructuredLogger("daemon", "v2.0.0", "debug")
//	logger.Info("daemon starting", "schedule", "*/5 * * * *")
//
// Setting explicit log level:
//
//	logging.SetDefaultStructuredLoggerWithLevel("cli", "v1.0.0", "warn")
//
// Converting standard library logger:
//
//	stdLogger := logging.NewLogLogger(slog.LevelInfo, false)
//	stdLogger.Println("legacy log message")
//
// # Environment Configuration
//
// The LOG_LEVEL environment variable controls logging verbosity:
//
//	LOG_LEVEL=debug skopos collect
//	LOG_LEVEL=error skopos daemon
//
// If LOG_LEVEL is not set, defaults to INFO level.
//
// # Output Format
//
// Logs are written to stderr in JSON format:
//
//	{
//	    "time": "2025-08-19T10:30:00.123Z",
//	    "level": "WARN",
//	    "msg": "skipping malformed row",
//	    "module": "collector",
//	    "version": "v1.0.0",
//	    "row": "crhtc50  free  16"
//	}
//
// Debug logs include source location:
//
//	{
//	    "time": "2025-08-19T10:30:00.123Z",
//	    "level": "DEBUG",
//	    "source": {
//	        "function": "pbs.(*Collector).collectNodes",
//	        "file": "collect.go",
//	        "line": 45
//	    },
//	    "msg": "node table fetched",
//	    "module": "collector",
//	    "version": "v1.0.0"
//	}
//
// When stderr is a terminal, the same records render as colorized
// single-line text for interactive use.
//
// # Best Practices
//
// 1. Set default logger early in main():
//
//	func main() {
//	    logging.SetDefaultStructuredLogger("skopos", version)
//	    // ...
//	}
//
// 2. Include context in log messages:
//
//	slog.Info("cycle complete",
//	    "systems", len(snapshots),
//	    "duration_ms", 125,
//	)
//
// 3. Use appropriate log levels:
//
//	slog.Debug("classifier input", "users", n)  // Development/troubleshooting
//	slog.Info("daemon started")                 // Normal operations
//	slog.Warn("skipping malformed row")         // Row-level degradation
//	slog.Error("category collection failed")    // Category-level failures
//
// 4. Log errors with context:
//
//	slog.Error("failed to collect nodes",
//	    "error", err,
//	    "system", systemName,
//	    "command", cmdline,
//	)
//
// # Integration
//
// This package is used by:
//   - pkg/cli - CLI command logging
//   - pkg/collector - Driver and parser logging
//   - pkg/snapshotter - Cycle orchestration logging
//   - pkg/store - Persistence logging
//   - pkg/server - Operational endpoint logging
//
// All components share consistent logging format and configuration.
package logging
