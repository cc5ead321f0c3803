package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-folio/pkg/interfaces"
)

// Logger namespaces, one per subsystem.
const (
	rootModule     = "folio"
	contentModule  = "folio.content"
	markdownModule = "folio.markdown"
	httpModule     = "folio.http"
	contactModule  = "folio.contact"
	cacheModule    = "folio.cache"
)

const (
	fieldModule         = "module"
	fieldMarkdownPath   = "markdown_path"
	fieldMarkdownAction = "action"
)

// ModuleLogger asks provider for the named logger and tags it with a module
// field. A nil provider, or one returning nil, yields NoOp.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}
	var logger interfaces.Logger
	if provider != nil {
		logger = provider.GetLogger(module)
	}
	if logger == nil {
		return NoOp()
	}
	return WithFields(logger, map[string]any{fieldModule: module})
}

func ContentLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, contentModule)
}

func MarkdownLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, markdownModule)
}

func HTTPLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, httpModule)
}

func ContactLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, contactModule)
}

// CacheLogger covers both the document cache and the file watcher.
func CacheLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, cacheModule)
}

// WithMarkdownContext tags logger with the source path and pipeline action,
// skipping blank values.
func WithMarkdownContext(logger interfaces.Logger, path, action string) interfaces.Logger {
	fields := make(map[string]any, 2)
	if path = strings.TrimSpace(path); path != "" {
		fields[fieldMarkdownPath] = path
	}
	if action = strings.TrimSpace(action); action != "" {
		fields[fieldMarkdownAction] = action
	}
	return WithFields(logger, fields)
}

// NoOp discards every entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var (
	_ interfaces.Logger       = noopLogger{}
	_ interfaces.FieldsLogger = noopLogger{}
)

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger { return n }

func (n noopLogger) WithContext(context.Context) interfaces.Logger { return n }
