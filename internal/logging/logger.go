package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// New creates a configured application logger.
// It writes to Stderr (to keep Stdout for frames and rendered answers).
// It standardizes common keys (e.g., "error" -> "err").
func New(level slog.Level, format string) *slog.Logger {
	return NewWithWriter(os.Stderr, level, format)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(w io.Writer, level slog.Level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == "error" {
				a.Key = "err"
			}
			return a
		},
	}

	if strings.EqualFold(format, FormatJSON) {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// NewNop returns a no-op logger.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel maps "debug", "info", "warn" and "error" to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}
