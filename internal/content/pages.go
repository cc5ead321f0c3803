package content

import (
	"context"
	"sort"
	"strings"

	"github.com/goliatone/go-folio/internal/markdown"
)

// Page keys served by the site.
const (
	PageHome         = "home"
	PageAbout        = "about"
	PagePublications = "publications"
)

// DefaultPages maps page keys to their files inside the content directory.
func DefaultPages() map[string]string {
	return map[string]string{
		PageHome:         "index.md",
		PageAbout:        "about.md",
		PagePublications: "publications.md",
	}
}

// PageLoader renders the fixed set of singleton pages.
type PageLoader struct {
	docs  Documents
	files map[string]string
}

// NewPageLoader constructs a PageLoader. A nil map uses DefaultPages.
func NewPageLoader(docs Documents, files map[string]string) *PageLoader {
	if len(files) == 0 {
		files = DefaultPages()
	}
	copied := make(map[string]string, len(files))
	for key, file := range files {
		copied[strings.ToLower(strings.TrimSpace(key))] = file
	}
	return &PageLoader{docs: docs, files: copied}
}

// Keys lists the configured page keys in sorted order.
func (l *PageLoader) Keys() []string {
	keys := make([]string, 0, len(l.files))
	for key := range l.files {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Path returns the file backing key.
func (l *PageLoader) Path(key string) (string, bool) {
	file, ok := l.files[strings.ToLower(strings.TrimSpace(key))]
	return file, ok
}

// Load renders the page registered under key. Unknown keys and missing files
// return a not found error.
func (l *PageLoader) Load(ctx context.Context, key string) (*PageContent, error) {
	file, ok := l.Path(key)
	if !ok {
		return nil, pageNotFound(key)
	}
	doc, err := l.docs.Load(ctx, file)
	if err != nil {
		if markdown.IsNotExist(err) {
			return nil, pageNotFound(key)
		}
		return nil, wrapReadError(err, file)
	}
	html, err := l.docs.Render(ctx, doc.Body)
	if err != nil {
		return nil, wrapRenderError(err, file)
	}
	return &PageContent{
		Key:        strings.ToLower(strings.TrimSpace(key)),
		Title:      documentTitle(doc.Meta, doc.Body),
		HTML:       html,
		SourcePath: doc.Path,
	}, nil
}

// Excerpt returns the page as plain text cut to limit runes.
func (l *PageLoader) Excerpt(ctx context.Context, key string, limit int) (string, error) {
	page, err := l.Load(ctx, key)
	if err != nil {
		return "", err
	}
	return markdown.Excerpt(page.HTML, limit), nil
}
