package content

import (
	"context"
	"strings"

	"github.com/goliatone/go-folio/internal/logging"
	"github.com/goliatone/go-folio/internal/markdown"
	"github.com/goliatone/go-folio/pkg/interfaces"
)

const (
	// DefaultCVFile is the CV document inside the content directory.
	DefaultCVFile = "cv.md"
	// DefaultCVTitle is used when the CV has no title or no file.
	DefaultCVTitle = "Curriculum Vitae"
)

// DefaultCV returns the CV served when no file exists.
func DefaultCV() *CVContent {
	return &CVContent{
		Title:      DefaultCVTitle,
		Experience: []CVEntry{},
		Education:  []CVEntry{},
		Skills:     []string{},
	}
}

// CVLoader parses the CV document.
type CVLoader struct {
	docs   Documents
	file   string
	logger interfaces.Logger
}

// NewCVLoader constructs a CVLoader for file.
func NewCVLoader(docs Documents, file string, logger interfaces.Logger) *CVLoader {
	if strings.TrimSpace(file) == "" {
		file = DefaultCVFile
	}
	if logger == nil {
		logger = logging.NoOp()
	}
	return &CVLoader{docs: docs, file: file, logger: logger}
}

// Load parses the CV. A missing file yields DefaultCV and no error.
func (l *CVLoader) Load(ctx context.Context) (*CVContent, error) {
	doc, err := l.docs.Load(ctx, l.file)
	if err != nil {
		if markdown.IsNotExist(err) {
			l.logger.Debug("content.cv.missing", "path", l.file)
			return DefaultCV(), nil
		}
		return nil, wrapReadError(err, l.file)
	}

	cv := DefaultCV()
	if title := strings.TrimSpace(toString(doc.Meta["title"])); title != "" {
		cv.Title = title
	}
	cv.Experience = l.entries(firstPresent(doc.Meta, "experience", "entries"))
	cv.Education = l.entries(doc.Meta["education"])
	cv.Skills = toStringList(doc.Meta["skills"])

	if strings.TrimSpace(doc.Body) != "" {
		intro, err := l.docs.Render(ctx, doc.Body)
		if err != nil {
			return nil, wrapRenderError(err, l.file)
		}
		cv.IntroHTML = intro
	}
	return cv, nil
}

// entries keeps items that carry a period or a role.
func (l *CVLoader) entries(value any) []CVEntry {
	items := toMapList(value)
	out := make([]CVEntry, 0, len(items))
	for _, item := range items {
		entry := CVEntry{
			Period:       strings.TrimSpace(toString(item["period"])),
			Role:         strings.TrimSpace(toString(item["role"])),
			Organisation: strings.TrimSpace(toString(firstPresent(item, "organisation", "organization"))),
			Context:      strings.TrimSpace(toString(item["context"])),
			Highlights:   toStringList(item["highlights"]),
		}
		if entry.Period == "" && entry.Role == "" {
			l.logger.Debug("content.cv.entry_dropped", "path", l.file, "organisation", entry.Organisation)
			continue
		}
		out = append(out, entry)
	}
	return out
}
