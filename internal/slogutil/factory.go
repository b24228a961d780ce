package slogutil

import (
	"io"
	"log/slog"

	"ccmodifier/internal/config"
)

// NewCLILogger creates the logger for a command invocation from the logging
// settings. Verbosity and quiet pick the level; format picks the handler.
func NewCLILogger(w io.Writer, cfg config.LoggingConfig) *slog.Logger {
	level := LevelFromVerbosity(cfg.Verbosity, cfg.Quiet)
	if cfg.Format == config.FormatJSON {
		return NewJSONLogger(w, level)
	}
	return NewLogger(w, level)
}
