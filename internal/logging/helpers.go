package logging

import (
	"context"
	"maps"

	"github.com/goliatone/go-folio/pkg/interfaces"
)

// WithFields returns logger with fields attached when it implements
// interfaces.FieldsLogger; other loggers are returned unchanged.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}
	if fl, ok := logger.(interfaces.FieldsLogger); ok {
		return fl.WithFields(maps.Clone(fields))
	}
	return logger
}

// ForRequest binds logger to ctx and tags it with the request id, if any.
func ForRequest(ctx context.Context, logger interfaces.Logger) interfaces.Logger {
	if logger == nil || ctx == nil {
		return logger
	}
	logger = logger.WithContext(ctx)
	if id := RequestID(ctx); id != "" {
		logger = WithFields(logger, map[string]any{FieldRequestID: id})
	}
	return logger
}
