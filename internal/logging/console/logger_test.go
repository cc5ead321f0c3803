package console_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-folio/internal/logging"
	"github.com/goliatone/go-folio/internal/logging/console"
)

var fixedNow = time.Date(2024, 3, 14, 15, 9, 26, 535897000, time.UTC)

func newTestProvider(buf *bytes.Buffer, format console.Format, min console.Level) *console.Provider {
	return console.NewProvider(console.Options{
		Writer:   buf,
		TimeFunc: func() time.Time { return fixedNow },
		MinLevel: &min,
		Format:   format,
	})
}

func TestTextEntryMergesFieldSources(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestProvider(&buf, console.FormatText, console.LevelDebug).GetLogger("folio.content")
	logger = logging.WithFields(logger, map[string]any{"module": "folio.content"})
	logger = logger.WithContext(logging.ContextWithRequestID(context.Background(), "req-1234"))

	logger.Info("content.post.loaded",
		"trace_id", uuid.MustParse("8a51a9b1-2d30-4b2c-8ecd-2c0b87dfa999"),
		"date", time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC),
		"slug", "hello world",
	)

	got := strings.TrimSpace(buf.String())
	want := `2024-03-14T15:09:26.535897Z INFO content.post.loaded date=2024-03-15T08:00:00Z logger=folio.content module=folio.content request_id=req-1234 slug="hello world" trace_id=8a51a9b1-2d30-4b2c-8ecd-2c0b87dfa999`
	if got != want {
		t.Fatalf("unexpected entry\nwant: %s\ngot:  %s", want, got)
	}
}

func TestArgumentsOverrideAndPositionalValues(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestProvider(&buf, console.FormatText, console.LevelDebug).GetLogger("folio.http")
	logger = logging.WithFields(logger, map[string]any{"status": 200})

	logger.Warn("http.request.slow", "status", 504, 42, "orphan", "dangling")

	got := buf.String()
	for _, want := range []string{"status=504", "field_1=orphan", "field_2=dangling", " WARN "} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in %q", want, got)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestProvider(&buf, console.FormatText, console.LevelInfo).GetLogger("folio.test")

	logger.Debug("ignored.debug")
	logger.Info("included.info")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 || !strings.Contains(lines[0], "included.info") {
		t.Fatalf("expected only the info entry, got %q", buf.String())
	}
}

func TestJSONEntry(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestProvider(&buf, console.FormatJSON, console.LevelDebug).GetLogger("folio.cache")

	logger.Error("cache.load.failed",
		"path", "posts/hello.md",
		"error", errors.New("boom"),
		"hits", 3,
		"ttl", 10*time.Minute,
	)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode entry: %v (%q)", err, buf.String())
	}
	want := map[string]any{
		"time":   "2024-03-14T15:09:26.535897Z",
		"level":  "error",
		"msg":    "cache.load.failed",
		"logger": "folio.cache",
		"path":   "posts/hello.md",
		"error":  "boom",
		"hits":   float64(3),
		"ttl":    "10m0s",
	}
	for key, value := range want {
		if entry[key] != value {
			t.Fatalf("expected %s=%v, got %v", key, value, entry[key])
		}
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]console.Level{
		"trace":   console.LevelTrace,
		"DEBUG":   console.LevelDebug,
		"":        console.LevelInfo,
		"warning": console.LevelWarn,
		" error ": console.LevelError,
	}
	for input, want := range cases {
		got, ok := console.ParseLevel(input)
		if !ok || got != want {
			t.Fatalf("ParseLevel(%q) = %v, %v; want %v", input, got, ok, want)
		}
	}
	if _, ok := console.ParseLevel("loud"); ok {
		t.Fatalf("expected unknown level to be rejected")
	}
}

func TestParseFormat(t *testing.T) {
	if got, ok := console.ParseFormat(""); !ok || got != console.FormatText {
		t.Fatalf("expected blank format to mean text, got %v %v", got, ok)
	}
	if got, ok := console.ParseFormat(" JSON "); !ok || got != console.FormatJSON {
		t.Fatalf("expected json format, got %v %v", got, ok)
	}
	if _, ok := console.ParseFormat("pretty"); ok {
		t.Fatalf("expected pretty to be rejected")
	}
}

func TestDefaultsWithoutColor(t *testing.T) {
	var buf bytes.Buffer
	console.NewProvider(console.Options{Writer: &buf}).GetLogger("folio.http").Warn("http.request.slow")

	if strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("expected no escape sequences, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), " WARN http.request.slow") {
		t.Fatalf("expected plain level label, got %q", buf.String())
	}
}
