package segmerge

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with segmentation-specific helpers.
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
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithObjectID adds an object id field to the logger.
func (l *Logger) WithObjectID(id uint64) *Logger {
	return &Logger{
		Logger: l.Logger.With("object_id", id),
	}
}

// WithSubobjectID adds a subobject id field to the logger.
func (l *Logger) WithSubobjectID(id uint64) *Logger {
	return &Logger{
		Logger: l.Logger.With("subobject_id", id),
	}
}

// WithFile adds a file name field to the logger.
func (l *Logger) WithFile(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("file", name),
	}
}

// LogMerge logs a merge of the active objects.
func (l *Logger) LogMerge(ctx context.Context, merged, remaining int) {
	l.DebugContext(ctx, "merge completed",
		"merged", merged,
		"objects", remaining,
	)
}

// LogUnmerge logs an unmerge of the selected objects.
func (l *Logger) LogUnmerge(ctx context.Context, split, todos int) {
	l.DebugContext(ctx, "unmerge completed",
		"split", split,
		"todos_left", todos,
	)
}

// LogDelete logs a deletion of the active objects.
func (l *Logger) LogDelete(ctx context.Context, count int) {
	l.DebugContext(ctx, "delete completed",
		"count", count,
	)
}

// LogLoad logs a load of a mergelist, job ticket or archive.
func (l *Logger) LogLoad(ctx context.Context, kind string, objects int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "load failed",
			"kind", kind,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "load completed",
			"kind", kind,
			"objects", objects,
		)
	}
}

// LogSave logs a save of a mergelist, job ticket or archive.
func (l *Logger) LogSave(ctx context.Context, kind string, objects int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "save failed",
			"kind", kind,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "save completed",
			"kind", kind,
			"objects", objects,
		)
	}
}
