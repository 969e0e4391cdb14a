package schemaidx

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with schemaidx-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
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

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithIndex adds the index name to every record.
func (l *Logger) WithIndex(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("index", name),
	}
}

// LogOpen logs opening an index.
func (l *Logger) LogOpen(ctx context.Context, segments int, entries uint64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "open failed",
			"segments", segments,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "index opened",
			"segments", segments,
			"entries", entries,
		)
	}
}

// LogFlush logs writing a memtable as a segment.
func (l *Logger) LogFlush(ctx context.Context, segment string, entries int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "flush failed",
			"segment", segment,
			"entries", entries,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "segment flushed",
			"segment", segment,
			"entries", entries,
		)
	}
}

// LogInsert logs an insert operation.
func (l *Logger) LogInsert(ctx context.Context, entityID int64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "insert failed",
			"entity", entityID,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "insert completed",
			"entity", entityID,
		)
	}
}

// LogRange logs a range or lookup query.
func (l *Logger) LogRange(ctx context.Context, results uint64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "range failed",
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "range completed",
			"results", results,
		)
	}
}

// LogOrphan logs a segment blob that no manifest references.
func (l *Logger) LogOrphan(ctx context.Context, blob string) {
	l.WarnContext(ctx, "orphaned segment",
		"blob", blob,
	)
}
