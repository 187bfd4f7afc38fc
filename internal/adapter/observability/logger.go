// Package observability provides structured logging for the action pipeline.
//
// Logs go to stderr so they never interleave with the GITHUB_OUTPUT protocol.
// When stderr is a terminal a colorized human format is used; in CI the
// output is machine-parseable JSON.
package observability

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
	"golang.org/x/term"
)

// Logger provides structured logging with contextual fields.
type Logger interface {
	LogInfo(ctx context.Context, message string, fields map[string]interface{})
	LogWarning(ctx context.Context, message string, fields map[string]interface{})
	LogError(ctx context.Context, message string, fields map[string]interface{})
}

// ParseLevel converts a textual log level into a slog.Level value.
func ParseLevel(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
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

// SlogLogger implements Logger on top of log/slog.
type SlogLogger struct {
	logger *slog.Logger
}

// NewLogger constructs a logger writing to w at the given level. A colorized
// tint handler is used when w is an interactive terminal, JSON otherwise.
func NewLogger(w io.Writer, level slog.Level) *SlogLogger {
	if w == nil {
		w = os.Stderr
	}

	var handler slog.Handler
	if isTerminal(w) {
		handler = tint.NewHandler(w, &tint.Options{Level: level})
	} else {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	}

	return &SlogLogger{logger: slog.New(handler)}
}

// NewLoggerWithHandler constructs a logger from an explicit slog handler.
// Used by tests to capture output.
func NewLoggerWithHandler(handler slog.Handler) *SlogLogger {
	return &SlogLogger{logger: slog.New(handler)}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// LogInfo logs an informational message with structured fields.
func (l *SlogLogger) LogInfo(ctx context.Context, message string, fields map[string]interface{}) {
	l.logger.LogAttrs(ctx, slog.LevelInfo, message, attrs(fields)...)
}

// LogWarning logs a warning message with structured fields.
func (l *SlogLogger) LogWarning(ctx context.Context, message string, fields map[string]interface{}) {
	l.logger.LogAttrs(ctx, slog.LevelWarn, message, attrs(fields)...)
}

// LogError logs an error message with structured fields.
func (l *SlogLogger) LogError(ctx context.Context, message string, fields map[string]interface{}) {
	l.logger.LogAttrs(ctx, slog.LevelError, message, attrs(fields)...)
}

func attrs(fields map[string]interface{}) []slog.Attr {
	out := make([]slog.Attr, 0, len(fields))
	for key, value := range fields {
		out = append(out, slog.Any(key, value))
	}
	return out
}
