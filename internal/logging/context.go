package logging

import (
	"context"
	"maps"
)

type contextKey struct{}

// FieldRequestID is the field carrying the HTTP request id.
const FieldRequestID = "request_id"

// ContextWithFields layers fields over any already stored on ctx. Console
// loggers bound with WithContext merge them into every entry.
func ContextWithFields(ctx context.Context, fields map[string]any) context.Context {
	if ctx == nil || len(fields) == 0 {
		return ctx
	}
	existing, _ := ctx.Value(contextKey{}).(map[string]any)
	merged := make(map[string]any, len(existing)+len(fields))
	maps.Copy(merged, existing)
	maps.Copy(merged, fields)
	return context.WithValue(ctx, contextKey{}, merged)
}

// ContextFields returns a copy of the fields stored on ctx, or nil.
func ContextFields(ctx context.Context) map[string]any {
	if ctx == nil {
		return nil
	}
	fields, _ := ctx.Value(contextKey{}).(map[string]any)
	if len(fields) == 0 {
		return nil
	}
	return maps.Clone(fields)
}

// ContextWithRequestID records the request id for loggers and handlers.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return ContextWithFields(ctx, map[string]any{FieldRequestID: id})
}

// RequestID returns the request id stored by ContextWithRequestID.
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	fields, _ := ctx.Value(contextKey{}).(map[string]any)
	id, _ := fields[FieldRequestID].(string)
	return id
}
