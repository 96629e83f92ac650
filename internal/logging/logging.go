// Package logging configures the process-wide slog logger.
//
// Output always goes to stderr: under "serve" stdout carries the MCP
// stdio transport and must stay clean.
package logging

import (
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/log"
)

// ParseLevel maps a config string to a charm log level. Unknown values
// fall back to info.
func ParseLevel(s string) log.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// Setup builds a charm-backed slog logger writing to w, installs it as the
// slog default and returns it.
func Setup(w io.Writer, level string) *slog.Logger {
	handler := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "pr-agent",
		Level:           ParseLevel(level),
	})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
