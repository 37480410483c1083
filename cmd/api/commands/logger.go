package commands

import (
	"io"
	"log/slog"
	"strings"
)

// newLogger builds the process logger. level is one of debug, info, warn or
// error (unknown values fall back to info); format "text" selects the
// human-readable handler, anything else JSON.
func newLogger(w io.Writer, level, format string) *slog.Logger {
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(level)); err != nil {
		logLevel = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: logLevel}

	if strings.EqualFold(format, "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}
