package logger

import (
	"log/slog"
	"time"
)

// LogRun logs one ranking computation for a (category, period) pair.
func LogRun(category, period string, count int, duration time.Duration, err error) {
	attrs := []any{
		slog.String("type", "job"),
		slog.String("category", category),
		slog.String("period", period),
		slog.Duration("took", duration),
	}

	if err != nil {
		slog.Error("Ranking run failed", append(attrs, slog.Any("error", err))...)
	} else {
		slog.Info("Ranking run completed", append(attrs, slog.Int("entries", count))...)
	}
}

// LogQuery logs database operations
func LogQuery(operation string, duration time.Duration, err error) {
	attrs := []any{
		slog.String("type", "db"),
		slog.String("operation", operation),
		slog.Duration("took", duration),
	}

	if err != nil {
		slog.Error("Query failed", append(attrs, slog.Any("error", err))...)
	} else {
		slog.Debug("Query executed", attrs...)
	}
}

// LogSystem logs system events
func LogSystem(msg string, attrs ...any) {
	baseAttrs := []any{slog.String("type", "sys")}
	slog.Info(msg, append(baseAttrs, attrs...)...)
}

// LogError logs error events
func LogError(msg string, err error, attrs ...any) {
	baseAttrs := []any{
		slog.String("type", "error"),
		slog.Any("error", err),
	}
	slog.Error(msg, append(baseAttrs, attrs...)...)
}
