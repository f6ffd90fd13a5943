// Package logger configures the slog loggers used by navmenu.
package logger

import (
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
)

const (
	// EnvVarLogLevel is the environment variable name for setting the log level.
	EnvVarLogLevel = "LOG_LEVEL"
)

// NewStructuredLogger returns a JSON logger on stderr tagged with module and
// version. Source locations are added at debug level only.
// Parameters:
//   - module: The name of the binary or library logging (e.g., "navmenu").
//   - version: The build version attached to every record (e.g., "v0.3.1").
//   - level: The minimum level as a string (e.g., "debug", "info", "warn", "error").
//
// Returns:
//   - *slog.Logger: The configured logger, ready to pass to menu.WithLogger or slog.SetDefault.
//
// Example:
//
//	log := logger.NewStructuredLogger("navmenu", version, "debug")
//	log.Info("menu rendered", "menu", "main")
func NewStructuredLogger(module, version, level string) *slog.Logger {
	return NewStructuredLoggerTo(os.Stderr, module, version, level)
}

// NewStructuredLoggerTo is NewStructuredLogger writing to w.
// Parameters:
//   - w: The destination of the JSON records, typically a buffer in tests.
//   - module, version, level: As for NewStructuredLogger.
//
// Returns:
//   - *slog.Logger: The configured logger.
func NewStructuredLoggerTo(w io.Writer, module, version, level string) *slog.Logger {
	lev := ParseLogLevel(level)

	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     lev,
		AddSource: lev <= slog.LevelDebug,
	})).With("module", module, "version", version)
}

// NewLogLogger returns a standard library logger backed by a slog text
// handler, for APIs such as http.Server.ErrorLog.
// Parameters:
//   - level: The slog level every line is written at.
//   - withSource: Whether records carry the caller's file and line.
//
// Returns:
//   - *log.Logger: A logger whose output goes through slog.
func NewLogLogger(level slog.Level, withSource bool) *log.Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: withSource,
	})

	return slog.NewLogLogger(handler, level)
}

// SetDefaultLogger installs the structured logger as the slog default, with
// the level taken from LOG_LEVEL.
// Parameters:
//   - module: The name of the binary or library logging.
//   - version: The build version attached to every record.
func SetDefaultLogger(module, version string) {
	SetDefaultLoggerWithLevel(module, version, os.Getenv(EnvVarLogLevel))
}

// SetDefaultLoggerWithLevel installs the structured logger at level as the
// slog default. The CLI calls it with the value of --log-level.
// Parameters:
//   - module: The name of the binary or library logging.
//   - version: The build version attached to every record.
//   - level: The minimum level as a string (e.g., "debug", "info", "warn", "error").
func SetDefaultLoggerWithLevel(module, version, level string) {
	slog.SetDefault(NewStructuredLogger(module, version, level))
}

// ParseLogLevel maps "debug", "warn"/"warning" and "error" to their slog
// levels, ignoring case and surrounding space.
// Parameters:
//   - level: The log level as a string.
//
// Returns:
//   - slog.Level for the input. Unrecognized strings give slog.LevelInfo.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
