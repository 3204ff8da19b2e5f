// Package logging sets up structured JSON logging on stderr for cdldump.
//
// Every record carries the module name and version. The level comes from the
// caller, falling back to the LOG_LEVEL environment variable and then to
// warn, so that diagnostics never mix into CDL written on stdout.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// EnvLogLevel names the environment variable consulted when no level is given.
const EnvLogLevel = "LOG_LEVEL"

// ParseLogLevel maps debug, info, warn/warning and error (any case) to slog
// levels. Anything else yields the default.
func ParseLogLevel(level string, def slog.Level) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return def
	}
}

// NewStructuredLogger returns a JSON logger writing to w. Debug level adds
// source locations.
func NewStructuredLogger(w io.Writer, module, version, level string) *slog.Logger {
	if level == "" {
		level = os.Getenv(EnvLogLevel)
	}
	lvl := ParseLogLevel(level, slog.LevelWarn)
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     lvl,
		AddSource: lvl <= slog.LevelDebug,
	})
	return slog.New(h).With("module", module, "version", version)
}

// SetDefaultStructuredLoggerWithLevel installs a logger writing to w as the
// slog default and returns it.
func SetDefaultStructuredLoggerWithLevel(w io.Writer, module, version, level string) *slog.Logger {
	l := NewStructuredLogger(w, module, version, level)
	slog.SetDefault(l)
	return l
}
