package log

import (
	"context"
	"log/slog"
)

type contextKey struct{}

// WithLogger stores logger in ctx.
func WithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext returns the logger stored by WithLogger, or one wrapping the
// slog default.
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(contextKey{}).(*Logger); ok {
		return logger
	}
	return &Logger{
		Logger:    slog.Default(),
		component: ComponentApp,
	}
}

// StructuredLogger logs the recurring shapes of budget events.
type StructuredLogger struct {
	logger *Logger
}

func NewStructuredLogger(logger *Logger) *StructuredLogger {
	return &StructuredLogger{logger: logger}
}

// LogMutation records a successful write.
func (sl *StructuredLogger) LogMutation(ctx context.Context, msg, op, entity string, id int64, fields LogFields) {
	if fields == nil {
		fields = NewFields()
	}
	sl.logger.InfoContext(ctx, msg, fields.WithOperation(op).WithEntity(entity, id).ToSlice()...)
}

// LogError logs a failed operation. Validation and not-found failures are
// caller mistakes and log at warn; everything else at error.
func (sl *StructuredLogger) LogError(ctx context.Context, msg string, err error, operation string, fields LogFields) {
	if fields == nil {
		fields = NewFields()
	}
	args := fields.WithError(err).WithOperation(operation).ToSlice()
	switch ErrorType(err) {
	case ErrorTypeValidation, ErrorTypeNotFound, ErrorTypeConstraint:
		sl.logger.WarnContext(ctx, msg, args...)
	default:
		sl.logger.ErrorContext(ctx, msg, args...)
	}
}
