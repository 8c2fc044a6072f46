package logging

import (
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// envLogLevel is the environment variable controlling default verbosity.
const envLogLevel = "LOG_LEVEL"

// ParseLevel parses a log level string (case-insensitive). Unknown or empty
// strings parse as INFO.
func ParseLevel(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewStructuredLogger returns a logger writing structured records to stderr
// with module and version attached to every record. Output is JSON, or
// colorized text when stderr is an interactive terminal. Source location is
// tracked at debug level.
func NewStructuredLogger(module, version, level string) *slog.Logger {
	return newLogger(os.Stderr, isatty.IsTerminal(os.Stderr.Fd()), module, version, ParseLevel(level))
}

// SetDefaultStructuredLogger installs the structured logger as the slog
// default, reading verbosity from the LOG_LEVEL environment variable.
func SetDefaultStructuredLogger(module, version string) {
	SetDefaultStructuredLoggerWithLevel(module, version, os.Getenv(envLogLevel))
}

// SetDefaultStructuredLoggerWithLevel installs the structured logger as the
// slog default at an explicit level, e.g. from a --log-level flag.
func SetDefaultStructuredLoggerWithLevel(module, version, level string) {
	slog.SetDefault(NewStructuredLogger(module, version, level))
}

// NewLogLogger returns a standard library logger that forwards to the
// structured handler, for dependencies that only accept *log.Logger.
func NewLogLogger(level slog.Level, addSource bool) *log.Logger {
	h := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: addSource,
	})
	return slog.NewLogLogger(h, level)
}

func newLogger(w io.Writer, terminal bool, module, version string, level slog.Level) *slog.Logger {
	var h slog.Handler
	if terminal {
		h = tint.NewHandler(w, &tint.Options{
			Level:      level,
			AddSource:  level <= slog.LevelDebug,
			TimeFormat: time.Kitchen,
		})
	} else {
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:     level,
			AddSource: level <= slog.LevelDebug,
		})
	}
	return slog.New(h).With("module", module, "version", version)
}
