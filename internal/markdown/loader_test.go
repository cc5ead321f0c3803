package markdown

import (
	"context"
	"testing"
	"testing/fstest"
	"time"
)

func TestLoaderListSortsByFilename(t *testing.T) {
	fsys := fstest.MapFS{
		"posts/b-post.md":   {Data: []byte("b")},
		"posts/a-post.md":   {Data: []byte("a")},
		"posts/notes.txt":   {Data: []byte("skip")},
		"posts/drafts/x.md": {Data: []byte("nested")},
		"about.md":          {Data: []byte("about")},
	}
	loader := NewLoader(fsys, "")

	paths, err := loader.List(context.Background(), "posts")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"posts/a-post.md", "posts/b-post.md"}
	if len(paths) != len(want) {
		t.Fatalf("expected %v, got %v", want, paths)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, paths)
		}
	}
}

func TestLoaderListMissingDirectory(t *testing.T) {
	loader := NewLoader(fstest.MapFS{}, DefaultPattern)
	paths, err := loader.List(context.Background(), "posts")
	if err != nil {
		t.Fatalf("expected no error for a missing directory, got %v", err)
	}
	if len(paths) != 0 {
		t.Fatalf("expected no paths, got %v", paths)
	}
}

func TestLoaderRead(t *testing.T) {
	modified := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	fsys := fstest.MapFS{
		"posts/hello.md": {Data: []byte("---\ntitle: Hi\n---\nBody"), ModTime: modified},
	}
	loader := NewLoader(fsys, DefaultPattern)

	src, err := loader.Read(context.Background(), "/posts/hello.md")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if src.Path != "posts/hello.md" {
		t.Fatalf("expected cleaned path, got %q", src.Path)
	}
	if !src.ModTime.Equal(modified) {
		t.Fatalf("expected mod time %v, got %v", modified, src.ModTime)
	}
	if src.Size != int64(len(src.Data)) || len(src.Checksum) != 32 {
		t.Fatalf("unexpected size/checksum %d/%d", src.Size, len(src.Checksum))
	}

	if _, err := loader.Read(context.Background(), "posts/missing.md"); !IsNotExist(err) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestLoaderHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	loader := NewLoader(fstest.MapFS{}, "")
	if _, err := loader.List(ctx, "."); err == nil {
		t.Fatal("expected context error")
	}
	if _, err := loader.Read(ctx, "a.md"); err == nil {
		t.Fatal("expected context error")
	}
}
