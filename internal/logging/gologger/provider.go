// Package gologger adapts github.com/goliatone/go-logger to the folio logger
// contract.
package gologger

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-folio/internal/logging"
	"github.com/goliatone/go-folio/pkg/interfaces"
)

// Config mirrors the logging section of the runtime configuration.
type Config struct {
	Level     string
	Format    string
	AddSource bool
	// Focus restricts output to the named module loggers.
	Focus []string
}

var levels = map[string]string{
	"trace":   glog.Trace,
	"debug":   glog.Debug,
	"info":    glog.Info,
	"warn":    glog.Warn,
	"warning": glog.Warn,
	"error":   glog.Error,
	"fatal":   glog.Fatal,
}

var formats = map[string]func() glog.Option{
	"":        glog.WithLoggerTypeJSON,
	"json":    glog.WithLoggerTypeJSON,
	"console": glog.WithLoggerTypeConsole,
	"pretty":  glog.WithLoggerTypePretty,
}

// Provider hands out children of one go-logger root, so a focus set on the
// root applies to every module.
type Provider struct {
	root *glog.BaseLogger
}

var _ interfaces.LoggerProvider = (*Provider)(nil)

// NewProvider builds the go-logger root from cfg.
func NewProvider(cfg Config) (*Provider, error) {
	format, ok := formats[strings.ToLower(strings.TrimSpace(cfg.Format))]
	if !ok {
		return nil, fmt.Errorf("logging: unsupported go-logger format %q", cfg.Format)
	}
	opts := []glog.Option{format()}
	if level, ok := levels[strings.ToLower(strings.TrimSpace(cfg.Level))]; ok {
		opts = append(opts, glog.WithLevel(level))
	}
	if cfg.AddSource {
		opts = append(opts, glog.WithAddSource(true))
	}

	root := glog.NewLogger(opts...)
	if focus := trimmed(cfg.Focus); len(focus) > 0 {
		root.Focus(focus...)
	}
	return &Provider{root: root}, nil
}

// GetLogger returns the root for an empty name and a named child otherwise.
func (p *Provider) GetLogger(name string) interfaces.Logger {
	if p == nil || p.root == nil {
		return logging.NoOp()
	}
	if name = strings.TrimSpace(name); name == "" {
		return wrap(p.root)
	}
	return wrap(p.root.GetLogger(name))
}

func wrap(inner glog.Logger) interfaces.Logger {
	if inner == nil {
		return logging.NoOp()
	}
	return adapter{inner: inner}
}

type adapter struct {
	inner glog.Logger
}

func (a adapter) Trace(msg string, args ...any) { a.inner.Trace(msg, args...) }
func (a adapter) Debug(msg string, args ...any) { a.inner.Debug(msg, args...) }
func (a adapter) Info(msg string, args ...any)  { a.inner.Info(msg, args...) }
func (a adapter) Warn(msg string, args ...any)  { a.inner.Warn(msg, args...) }
func (a adapter) Error(msg string, args ...any) { a.inner.Error(msg, args...) }
func (a adapter) Fatal(msg string, args ...any) { a.inner.Fatal(msg, args...) }

// WithFields prefers glog.FieldsLogger and falls back to With using pairs in
// key order.
func (a adapter) WithFields(fields map[string]any) interfaces.Logger {
	if len(fields) == 0 {
		return a
	}
	if fl, ok := a.inner.(glog.FieldsLogger); ok {
		return wrap(fl.WithFields(maps.Clone(fields)))
	}
	with, ok := a.inner.(interface{ With(...any) *glog.BaseLogger })
	if !ok {
		return a
	}
	pairs := make([]any, 0, len(fields)*2)
	for _, key := range slices.Sorted(maps.Keys(fields)) {
		pairs = append(pairs, key, fields[key])
	}
	return wrap(with.With(pairs...))
}

func (a adapter) WithContext(ctx context.Context) interfaces.Logger {
	if ctx == nil {
		return a
	}
	return wrap(a.inner.WithContext(ctx))
}

func trimmed(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, name)
		}
	}
	return out
}
