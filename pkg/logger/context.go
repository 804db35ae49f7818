package logger

import (
	"context"

	"go.uber.org/zap"
)

type contextKey string

const (
	runIDKey contextKey = "run_id"
	dateKey  contextKey = "target_date"
)

// WithRunID adds the generation run ID to context
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// WithDate adds the target date (YYYY-MM-DD) to context
func WithDate(ctx context.Context, date string) context.Context {
	return context.WithValue(ctx, dateKey, date)
}

// FromContext extracts a logger carrying all accumulated context fields
func FromContext(ctx context.Context) *zap.Logger {
	if ctx == nil {
		return Logger
	}
	l := Logger
	var fields []zap.Field
	if runID, ok := ctx.Value(runIDKey).(string); ok && runID != "" {
		fields = append(fields, zap.String("run_id", runID))
	}
	if date, ok := ctx.Value(dateKey).(string); ok && date != "" {
		fields = append(fields, zap.String("target_date", date))
	}
	if len(fields) > 0 {
		l = l.With(fields...)
	}
	return l
}

// DurationField returns a zap field for duration in milliseconds
func DurationField(durationMs int64) zap.Field {
	return zap.Int64("duration_ms", durationMs)
}
