package vecshard

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with engine-specific context.
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
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// LogInitShard logs a shard (re)initialization.
func (l *Logger) LogInitShard(ctx context.Context, name, metric string, dimension int, replaced bool, err error) {
	if err != nil {
		l.WarnContext(ctx, "init shard failed",
			"shard", name,
			"metric", metric,
			"dimension", dimension,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "shard initialized",
		"shard", name,
		"metric", metric,
		"dimension", dimension,
		"replaced", replaced,
	)
}

// LogFit logs a bulk ingestion.
func (l *Logger) LogFit(ctx context.Context, name string, count int, generation uint64, err error) {
	if err != nil {
		l.WarnContext(ctx, "fit failed",
			"shard", name,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "fit completed",
		"shard", name,
		"count", count,
		"generation", generation,
	)
}

// LogQuery logs a k-nearest-neighbour query.
func (l *Logger) LogQuery(ctx context.Context, name string, k, resultsFound int, err error) {
	if err != nil {
		l.DebugContext(ctx, "query failed",
			"shard", name,
			"k", k,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "query completed",
		"shard", name,
		"k", k,
		"results", resultsFound,
	)
}

// LogDrop logs a shard being dropped.
func (l *Logger) LogDrop(ctx context.Context, name string, releasedBytes int64) {
	l.InfoContext(ctx, "shard dropped",
		"shard", name,
		"released_bytes", releasedBytes,
	)
}
