package content

import (
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-folio/internal/markdown"
)

func newTestDocs(t *testing.T, fsys fstest.MapFS) *markdown.Service {
	t.Helper()
	docs, err := markdown.NewService(markdown.Config{FS: fsys, SnippetsDir: "snippets"})
	if err != nil {
		t.Fatalf("markdown service: %v", err)
	}
	return docs
}

func file(body string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte(body)}
}
