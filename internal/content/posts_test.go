package content

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"
	"time"
)

func TestAssembleHelloScenario(t *testing.T) {
	docs := newTestDocs(t, fstest.MapFS{
		"posts/hello-world.md": file("---\nslug: \"hello\"\ndate: \"2024-03-01\"\ntags: [\"a\", \"b\"]\n---\n# Hi\n\nSummary.\n<!-- more -->\nRest."),
	})
	post, err := NewAssembler(docs, "", 0, nil).Assemble(context.Background(), "posts/hello-world.md")
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}

	if post.Slug != "hello" || post.Title != "Hi" {
		t.Fatalf("unexpected slug/title %q/%q", post.Slug, post.Title)
	}
	if post.Date == nil || !post.Date.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected date %v", post.Date)
	}
	if len(post.Tags) != 2 || post.Tags[0] != "a" || post.Tags[1] != "b" {
		t.Fatalf("unexpected tags %v", post.Tags)
	}
	if !strings.Contains(post.SummaryHTML, "Summary.") || strings.Contains(post.SummaryHTML, "Rest.") {
		t.Fatalf("summary should hold only the teaser: %s", post.SummaryHTML)
	}
	if !strings.Contains(post.MainBodyHTML, "Rest.") || strings.Contains(post.MainBodyHTML, "Summary.") {
		t.Fatalf("main body should hold only the remainder: %s", post.MainBodyHTML)
	}
	if !strings.Contains(post.BodyHTML, "Summary.") || !strings.Contains(post.BodyHTML, "Rest.") {
		t.Fatalf("body should hold the whole post: %s", post.BodyHTML)
	}
	if strings.Contains(post.BodyHTML, "more") {
		t.Fatalf("marker should be removed from body: %s", post.BodyHTML)
	}
	if !post.HasMore || post.URL() != "/hello/" || post.DateString() != "2024-03-01" {
		t.Fatalf("unexpected derived fields %+v", post)
	}
	if post.ReadingTimeMinutes != 1 {
		t.Fatalf("expected reading time floor, got %d", post.ReadingTimeMinutes)
	}
}

func TestAssembleFallbacks(t *testing.T) {
	docs := newTestDocs(t, fstest.MapFS{
		"posts/plain-notes.md": file("No heading here.\n"),
		"posts/bad-meta.md":    file("---\ndate: someday\nid: seven\ndraft: \"YES\"\ncategories: [\" x \", \"\"]\n---\n# Heading\n"),
	})
	assembler := NewAssembler(docs, "", 0, nil)

	plain, err := assembler.Assemble(context.Background(), "posts/plain-notes.md")
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if plain.Slug != "plain-notes" || plain.Title != "Untitled" || plain.Date != nil || plain.Draft {
		t.Fatalf("unexpected fallbacks %+v", plain)
	}
	if plain.SummaryHTML != plain.MainBodyHTML {
		t.Fatalf("expected identical renders without marker\nsummary: %s\nmain:    %s", plain.SummaryHTML, plain.MainBodyHTML)
	}
	if plain.HasMore {
		t.Fatal("expected HasMore=false without marker")
	}

	bad, err := assembler.Assemble(context.Background(), "posts/bad-meta.md")
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if bad.Date != nil || bad.PostID != nil || !bad.Draft || bad.Title != "Heading" {
		t.Fatalf("unexpected coercions %+v", bad)
	}
	if len(bad.Tags) != 1 || bad.Tags[0] != "x" {
		t.Fatalf("expected categories fallback, got %v", bad.Tags)
	}
}

func TestAssemblePostIDFromString(t *testing.T) {
	docs := newTestDocs(t, fstest.MapFS{
		"posts/a.md": file("---\nid: \" 42 \"\nauthors: [jane, \"\"]\n---\nBody"),
	})
	post, err := NewAssembler(docs, "", 0, nil).Assemble(context.Background(), "posts/a.md")
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if post.PostID == nil || *post.PostID != 42 {
		t.Fatalf("expected post id 42, got %v", post.PostID)
	}
	if len(post.Authors) != 1 || post.Authors[0] != "jane" {
		t.Fatalf("unexpected authors %v", post.Authors)
	}
}

func TestAssembleCoverImageExclusivity(t *testing.T) {
	docs := newTestDocs(t, fstest.MapFS{
		"posts/cover.md": file("# Cover\n\n![hero](../assets/hero.png)\n\nIntro text.\n\n<!-- more -->\n\nMore text.\n\n![inline](assets/other.png)\n"),
	})
	post, err := NewAssembler(docs, "", 0, nil).Assemble(context.Background(), "posts/cover.md")
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if post.CoverImageURL != "/static/assets/hero.png" {
		t.Fatalf("unexpected cover %q", post.CoverImageURL)
	}
	for name, html := range map[string]string{"summary": post.SummaryHTML, "main": post.MainBodyHTML, "body": post.BodyHTML} {
		if strings.Contains(html, "hero.png") {
			t.Fatalf("%s still contains the cover image: %s", name, html)
		}
	}
	if !strings.Contains(post.MainBodyHTML, `src="/static/assets/other.png"`) {
		t.Fatalf("expected other images to stay and be normalised: %s", post.MainBodyHTML)
	}
}

func TestAssembleCoverFromFrontMatterLeavesBodyImages(t *testing.T) {
	docs := newTestDocs(t, fstest.MapFS{
		"posts/meta.md": file("---\nmeta:\n  - property: og:image\n    content: assets/og.png\n---\n![first](assets/first.png)\n"),
	})
	post, err := NewAssembler(docs, "", 0, nil).Assemble(context.Background(), "posts/meta.md")
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if post.CoverImageURL != "/static/assets/og.png" {
		t.Fatalf("unexpected cover %q", post.CoverImageURL)
	}
	if !strings.Contains(post.BodyHTML, "first.png") {
		t.Fatalf("expected body image to remain: %s", post.BodyHTML)
	}
}

func TestAssembleTOCFromMainBody(t *testing.T) {
	docs := newTestDocs(t, fstest.MapFS{
		"posts/toc.md": file("## Teaser\n\n<!-- more -->\n\n## First Part\n\ntext\n\n## Second Part\n"),
	})
	post, err := NewAssembler(docs, "", 0, nil).Assemble(context.Background(), "posts/toc.md")
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if len(post.TOCEntries) != 2 {
		t.Fatalf("expected toc from main body only, got %#v", post.TOCEntries)
	}
	if post.TOCEntries[0].Anchor != "first-part" || post.TOCEntries[1].Title != "Second Part" {
		t.Fatalf("unexpected toc %#v", post.TOCEntries)
	}
}

func TestAssembleSourceUsesPathForSlug(t *testing.T) {
	docs := newTestDocs(t, fstest.MapFS{})
	post, err := NewAssembler(docs, "", 0, nil).AssembleSource(context.Background(), "drafts/new-idea.md", []byte("# Idea"))
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if post.Slug != "new-idea" || post.Title != "Idea" {
		t.Fatalf("unexpected post %+v", post)
	}
}

func TestAssembleMissingFile(t *testing.T) {
	docs := newTestDocs(t, fstest.MapFS{})
	if _, err := NewAssembler(docs, "", 0, nil).Assemble(context.Background(), "posts/nope.md"); err == nil {
		t.Fatal("expected read error")
	}
}
