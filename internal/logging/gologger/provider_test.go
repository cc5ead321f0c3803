package gologger

import (
	"context"
	"maps"
	"testing"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-folio/internal/logging"
)

func TestNewProviderCreatesLogger(t *testing.T) {
	p, err := NewProvider(Config{
		Level:  "debug",
		Format: "console",
	})
	if err != nil {
		t.Fatalf("NewProvider returned error: %v", err)
	}

	logger := p.GetLogger("folio.test")
	if logger == nil {
		t.Fatal("expected logger, got nil")
	}

	child := logging.WithFields(logger, map[string]any{"module": "folio.test"})
	if child == nil {
		t.Fatal("expected WithFields to return logger")
	}

	child.Debug("adapter.initialised")
}

func TestAdapterDelegatesToUnderlyingLogger(t *testing.T) {
	stub := &stubLogger{}
	adapted := wrap(stub)

	adapted.Trace("trace", "key", "value")
	adapted.Debug("debug")
	adapted.Info("info")
	adapted.Warn("warn")
	adapted.Error("error")
	adapted.Fatal("fatal")

	fields := map[string]any{"slug": "hello"}
	child := logging.WithFields(adapted, fields)
	if child == nil {
		t.Fatal("expected WithFields to return logger")
	}

	fields["slug"] = "mutated"
	if len(stub.fields) != 1 {
		t.Fatalf("expected fields to be recorded once, got %d", len(stub.fields))
	}
	if stub.fields[0]["slug"] != "hello" {
		t.Fatalf("expected fields to be cloned, got %v", stub.fields[0]["slug"])
	}

	ctx := context.WithValue(context.Background(), struct{}{}, "value")
	adapted.WithContext(ctx)
	if len(stub.contexts) != 1 || stub.contexts[0] != ctx {
		t.Fatalf("expected context propagation, got %#v", stub.contexts)
	}

	wantCalls := []string{"trace", "debug", "info", "warn", "error", "fatal"}
	if len(stub.calls) != len(wantCalls) {
		t.Fatalf("expected %d calls, got %d", len(wantCalls), len(stub.calls))
	}
	for i, want := range wantCalls {
		if stub.calls[i] != want {
			t.Fatalf("call %d: expected %q, got %q", i, want, stub.calls[i])
		}
	}
}

func TestNewProviderFormats(t *testing.T) {
	for _, format := range []string{"", "json", " Console ", "pretty"} {
		if _, err := NewProvider(Config{Format: format, Level: "warn"}); err != nil {
			t.Fatalf("NewProvider(%q) returned error: %v", format, err)
		}
	}
	if _, err := NewProvider(Config{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewProviderAppliesFocus(t *testing.T) {
	p, err := NewProvider(Config{Level: "info", Focus: []string{" folio.content ", ""}})
	if err != nil {
		t.Fatalf("NewProvider returned error: %v", err)
	}
	p.GetLogger("folio.content").Info("content.focus.kept")
	p.GetLogger("folio.http").Info("http.focus.dropped")
	if root := p.GetLogger(" "); root == nil {
		t.Fatal("expected root logger for blank name")
	}
}

func TestTrimmedDropsBlankNames(t *testing.T) {
	got := trimmed([]string{" folio.cache ", "", "  "})
	if len(got) != 1 || got[0] != "folio.cache" {
		t.Fatalf("expected [folio.cache], got %v", got)
	}
}

func TestNilProviderReturnsNoOp(t *testing.T) {
	var p *Provider
	if logger := p.GetLogger("folio"); logger == nil {
		t.Fatal("expected no-op logger from nil provider")
	}
}

type stubLogger struct {
	calls    []string
	fields   []map[string]any
	contexts []context.Context
}

var _ glog.Logger = (*stubLogger)(nil)
var _ glog.FieldsLogger = (*stubLogger)(nil)

func (s *stubLogger) Trace(string, ...any) { s.calls = append(s.calls, "trace") }
func (s *stubLogger) Debug(string, ...any) { s.calls = append(s.calls, "debug") }
func (s *stubLogger) Info(string, ...any)  { s.calls = append(s.calls, "info") }
func (s *stubLogger) Warn(string, ...any)  { s.calls = append(s.calls, "warn") }
func (s *stubLogger) Error(string, ...any) { s.calls = append(s.calls, "error") }
func (s *stubLogger) Fatal(string, ...any) { s.calls = append(s.calls, "fatal") }

func (s *stubLogger) WithContext(ctx context.Context) glog.Logger {
	s.contexts = append(s.contexts, ctx)
	return s
}

func (s *stubLogger) WithFields(fields map[string]any) glog.Logger {
	s.fields = append(s.fields, maps.Clone(fields))
	return s
}
