package interfaces

import "context"

// Logger is the leveled, key/value logger used across folio. Its method set
// matches github.com/goliatone/go-logger so that package plugs in directly.
type Logger interface {
	Trace(msg string, args ...any)
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Fatal(msg string, args ...any)
	WithContext(ctx context.Context) Logger
}

// LoggerProvider returns loggers by module name, e.g. "folio.content".
type LoggerProvider interface {
	GetLogger(name string) Logger
}

// FieldsLogger is implemented by loggers that can carry fields on every
// entry.
type FieldsLogger interface {
	WithFields(fields map[string]any) Logger
}
