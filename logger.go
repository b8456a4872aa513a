package dict

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with helpers for the resize and rehash lifecycle,
// keeping field names consistent across events.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger backed by the given handler. A nil handler
// falls back to a text handler on stderr at info level.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that writes JSON-formatted records to
// stderr at the given minimum level.
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that writes human-readable records to
// stderr at the given minimum level.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards everything. It is the default
// when no logger option is supplied.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// LogResize logs the start of a table resize in either direction; the sizes
// carry the direction.
func (l *Logger) LogResize(oldSize, newSize, used uint64) {
	l.Debug("table resize started",
		"old_size", oldSize,
		"new_size", newSize,
		"used", used,
	)
}

// LogExpandDenied logs a refused expansion.
func (l *Logger) LogExpandDenied(requested uint64, err error) {
	l.Warn("table expand denied",
		"requested", requested,
		"error", err,
	)
}

// LogRehashDone logs the completion of an incremental rehash.
func (l *Logger) LogRehashDone(size, used uint64) {
	l.Debug("rehash completed",
		"size", size,
		"used", used,
	)
}

// LogEmpty logs a full reset of the dict.
func (l *Logger) LogEmpty(released uint64) {
	l.Debug("dict emptied",
		"released", released,
	)
}
