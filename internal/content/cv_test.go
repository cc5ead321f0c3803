package content

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"
)

func TestCVLoaderMissingFile(t *testing.T) {
	docs := newTestDocs(t, fstest.MapFS{})
	cv, err := NewCVLoader(docs, "cv.md", nil).Load(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cv.Title != "Curriculum Vitae" {
		t.Fatalf("unexpected title %q", cv.Title)
	}
	if cv.Experience == nil || len(cv.Experience) != 0 || len(cv.Education) != 0 || len(cv.Skills) != 0 {
		t.Fatalf("expected empty lists, got %+v", cv)
	}
}

func TestCVLoaderParsesEntries(t *testing.T) {
	source := `---
title: CV
entries:
  - period: 2022 - now
    role: Data Scientist
    organization: NHS
    highlights: [Pipelines, " ", Dashboards]
  - organisation: Nowhere
    context: missing period and role
  - role: Researcher
    organisation: University
education:
  - period: 2018
    role: MSc
skills: [Go, Python, ""]
---
Short *intro*.
`
	docs := newTestDocs(t, fstest.MapFS{"cv.md": file(source)})
	cv, err := NewCVLoader(docs, "", nil).Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cv.Title != "CV" {
		t.Fatalf("unexpected title %q", cv.Title)
	}
	if len(cv.Entries()) != 2 {
		t.Fatalf("expected entry without period and role to be dropped, got %+v", cv.Experience)
	}
	first := cv.Experience[0]
	if first.Organisation != "NHS" || first.Period != "2022 - now" || len(first.Highlights) != 2 {
		t.Fatalf("unexpected first entry %+v", first)
	}
	if len(cv.Education) != 1 || cv.Education[0].Period != "2018" {
		t.Fatalf("unexpected education %+v", cv.Education)
	}
	if len(cv.Skills) != 2 {
		t.Fatalf("unexpected skills %v", cv.Skills)
	}
	if !strings.Contains(cv.IntroHTML, "<em>intro</em>") {
		t.Fatalf("unexpected intro %q", cv.IntroHTML)
	}
}

func TestCVLoaderPrefersExperienceKey(t *testing.T) {
	source := "---\nexperience:\n  - role: A\nentries:\n  - role: B\n---\n"
	docs := newTestDocs(t, fstest.MapFS{"cv.md": file(source)})
	cv, err := NewCVLoader(docs, "", nil).Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cv.Experience) != 1 || cv.Experience[0].Role != "A" {
		t.Fatalf("expected experience key to win, got %+v", cv.Experience)
	}
	if cv.IntroHTML != "" {
		t.Fatalf("expected empty intro, got %q", cv.IntroHTML)
	}
}
