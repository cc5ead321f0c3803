package markdown

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"
	"time"
)

func TestServiceLoadAndRender(t *testing.T) {
	fsys := fstest.MapFS{
		"posts/hello.md":   {Data: []byte("---\ntitle: Hello\n---\nSee [about](about.md) and ![me](../assets/me.png).\n\n--8<-- \"sig.md\"\n")},
		"snippets/sig.md":  {Data: []byte("*Signed*")},
		"posts/no-meta.md": {Data: []byte("# Plain")},
	}

	var renders int
	svc, err := NewService(Config{FS: fsys, SnippetsDir: "snippets"}, WithRenderObserver(func(time.Duration) { renders++ }))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	doc, err := svc.Load(context.Background(), "posts/hello.md")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if doc.Meta["title"] != "Hello" {
		t.Fatalf("expected title metadata, got %v", doc.Meta)
	}

	html, err := svc.Render(context.Background(), doc.Body)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{`href="/about/"`, `src="/static/assets/me.png"`, "<em>Signed</em>"} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected %q in %s", want, html)
		}
	}
	if renders != 1 {
		t.Fatalf("expected observer to fire once, got %d", renders)
	}

	plain, err := svc.Load(context.Background(), "posts/no-meta.md")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(plain.Meta) != 0 || plain.Body != "# Plain" {
		t.Fatalf("unexpected document %#v", plain)
	}

	paths, err := svc.List(context.Background(), "posts")
	if err != nil || len(paths) != 2 {
		t.Fatalf("expected two posts, got %v (%v)", paths, err)
	}
}

func TestNewServiceRequiresExistingBasePath(t *testing.T) {
	if _, err := NewService(Config{BasePath: t.TempDir() + "/missing"}); err == nil {
		t.Fatal("expected error for missing base path")
	}
	if _, err := NewService(Config{BasePath: t.TempDir()}); err != nil {
		t.Fatalf("expected directory base path to work, got %v", err)
	}
}
