package di_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-folio/internal/contact"
	"github.com/goliatone/go-folio/internal/di"
	"github.com/goliatone/go-folio/internal/logging/console"
	"github.com/goliatone/go-folio/internal/runtimeconfig"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"posts/hello.md": &fstest.MapFile{Data: []byte("---\ntitle: Hello\ndate: 2024-03-01\n---\nHello body.")},
		"about.md":       &fstest.MapFile{Data: []byte("# About")},
	}
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []contact.Message
}

func (m *recordingMailer) Send(_ context.Context, msg contact.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

func TestContainerLogsThroughProvidedProvider(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	sink := &logSink{}

	if _, err := di.NewContainer(cfg, di.WithLoggerProvider(sink.provider()), di.WithFilesystem(testFS()), di.WithConfigFilesystem(fstest.MapFS{})); err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}

	entry := sink.find("folio.configured")
	if entry == nil {
		t.Fatalf("expected folio.configured log entry, got %s", sink.buf.String())
	}
	if got := entry["module"]; got != "folio" {
		t.Fatalf("expected module field to be folio, got %v", got)
	}
	if got := entry["cache"]; got != true {
		t.Fatalf("expected cache field to be true, got %v", got)
	}
}

func TestContainerRejectsInvalidConfig(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Logging.Provider = "syslog"

	if _, err := di.NewContainer(cfg, di.WithFilesystem(testFS())); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestContainerRequiresExistingContentRoot(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Content.Root = t.TempDir() + "/missing"

	if _, err := di.NewContainer(cfg, di.WithLoggerProvider((&logSink{}).provider())); err == nil {
		t.Fatalf("expected missing content root error")
	}
}

func TestContainerServesAPIAndRecordsMetrics(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	registry := prometheus.NewRegistry()

	container, err := di.NewContainer(cfg,
		di.WithLoggerProvider((&logSink{}).provider()),
		di.WithFilesystem(testFS()),
		di.WithConfigFilesystem(fstest.MapFS{}),
		di.WithRegistry(registry),
	)
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		container.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/posts", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 got %d (%s)", rec.Code, rec.Body.String())
		}
	}

	m := container.Metrics()
	if got := testutil.ToFloat64(m.DocumentsLoaded.WithLabelValues("post")); got != 1 {
		t.Fatalf("expected one assembled post, got %v", got)
	}
	if got := testutil.ToFloat64(m.CacheLookups.WithLabelValues("hit")); got != 1 {
		t.Fatalf("expected one cache hit, got %v", got)
	}
	if got := testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET /api/posts", "200")); got != 2 {
		t.Fatalf("expected two observed requests, got %v", got)
	}

	rec := httptest.NewRecorder()
	container.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "folio_render_seconds") {
		t.Fatalf("expected metrics exposition, got %s", rec.Body.String())
	}
}

func TestContainerContactUsesProvidedMailer(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Contact.Enabled = true
	cfg.Contact.Recipient = "owner@example.com"
	cfg.Contact.MinFillTime = -1
	mailer := &recordingMailer{}

	container, err := di.NewContainer(cfg,
		di.WithLoggerProvider((&logSink{}).provider()),
		di.WithFilesystem(testFS()),
		di.WithMailer(mailer),
	)
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}

	body := `{"name":"Ada","email":"ada@example.com","message":"Hi"}`
	rec := httptest.NewRecorder()
	container.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body)))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d (%s)", rec.Code, rec.Body.String())
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["status"] != "success" || len(mailer.sent) != 1 {
		t.Fatalf("unexpected contact result %v %d", resp, len(mailer.sent))
	}
}

func TestContainerWatcherRequiresWatchFlag(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	container, err := di.NewContainer(cfg, di.WithLoggerProvider((&logSink{}).provider()), di.WithFilesystem(testFS()))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	if container.NewWatcher() != nil {
		t.Fatalf("expected no watcher when watch is disabled")
	}

	cfg.Cache.Watch = true
	container, err = di.NewContainer(cfg, di.WithLoggerProvider((&logSink{}).provider()), di.WithFilesystem(testFS()))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	if container.NewWatcher() == nil {
		t.Fatalf("expected watcher when watch is enabled")
	}
}

// logSink collects JSON lines written by a console provider.
type logSink struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *logSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *logSink) provider() *console.Provider {
	level := console.LevelDebug
	return console.NewProvider(console.Options{Writer: s, MinLevel: &level, Format: console.FormatJSON})
}

func (s *logSink) find(msg string) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, line := range strings.Split(s.buf.String(), "\n") {
		var entry map[string]any
		if json.Unmarshal([]byte(line), &entry) == nil && entry["msg"] == msg {
			return entry
		}
	}
	return nil
}
