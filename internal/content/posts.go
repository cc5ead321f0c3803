package content

import (
	"context"
	"path"
	"strings"

	"github.com/goliatone/go-folio/internal/logging"
	"github.com/goliatone/go-folio/internal/markdown"
	"github.com/goliatone/go-folio/pkg/interfaces"
)

const (
	// DefaultReadMoreMarker splits a post into summary and remainder.
	DefaultReadMoreMarker = "<!-- more -->"
	untitled              = "Untitled"
)

// Documents is the subset of the markdown service the content package needs.
type Documents interface {
	List(ctx context.Context, dir string) ([]string, error)
	Load(ctx context.Context, path string) (*markdown.Document, error)
	Parse(src *markdown.Source) *markdown.Document
	Render(ctx context.Context, body string) (string, error)
}

var _ Documents = (*markdown.Service)(nil)

// Assembler turns one Markdown source into a PostContent.
type Assembler struct {
	docs           Documents
	marker         string
	wordsPerMinute int
	logger         interfaces.Logger
}

// NewAssembler constructs an Assembler. Empty marker and non positive reading
// speed fall back to the defaults.
func NewAssembler(docs Documents, marker string, wordsPerMinute int, logger interfaces.Logger) *Assembler {
	if marker == "" {
		marker = DefaultReadMoreMarker
	}
	if wordsPerMinute <= 0 {
		wordsPerMinute = markdown.DefaultWordsPerMinute
	}
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Assembler{docs: docs, marker: marker, wordsPerMinute: wordsPerMinute, logger: logger}
}

// Assemble reads path and builds the post.
func (a *Assembler) Assemble(ctx context.Context, filePath string) (*PostContent, error) {
	doc, err := a.docs.Load(ctx, filePath)
	if err != nil {
		return nil, wrapReadError(err, filePath)
	}
	return a.build(ctx, doc)
}

// AssembleSource builds a post from bytes already in memory. filePath only
// supplies the fallback slug.
func (a *Assembler) AssembleSource(ctx context.Context, filePath string, raw []byte) (*PostContent, error) {
	doc := a.docs.Parse(&markdown.Source{Path: filePath, Data: raw, Size: int64(len(raw))})
	return a.build(ctx, doc)
}

func (a *Assembler) build(ctx context.Context, doc *markdown.Document) (*PostContent, error) {
	meta, body := doc.Meta, doc.Body
	logger := logging.WithMarkdownContext(a.logger, doc.Path, "assemble")

	post := &PostContent{
		PostID:     toInt(meta["id"]),
		Slug:       postSlug(meta, doc.Path),
		Title:      documentTitle(meta, body),
		Date:       toDate(meta["date"]),
		Draft:      toBool(meta["draft"], false),
		Authors:    toStringList(meta["authors"]),
		Tags:       toStringList(firstPresent(meta, "tags", "categories")),
		SourcePath: doc.Path,
	}
	if raw, ok := meta["date"]; ok && raw != nil && post.Date == nil {
		logger.Warn("content.post.date_invalid", "value", raw)
	}
	if raw, ok := meta["id"]; ok && raw != nil && post.PostID == nil {
		logger.Warn("content.post.id_invalid", "value", raw)
	}

	// Cover resolution runs on the raw body, before link normalisation.
	post.CoverImageURL = markdown.ResolveCoverImage(meta, body)

	summary, remainder := body, body
	if idx := strings.Index(body, a.marker); idx >= 0 {
		summary = body[:idx]
		remainder = body[idx+len(a.marker):]
		post.HasMore = true
	}

	var err error
	if post.SummaryHTML, err = a.render(ctx, summary, post.CoverImageURL); err != nil {
		return nil, wrapRenderError(err, doc.Path)
	}
	if post.MainBodyHTML, err = a.render(ctx, remainder, post.CoverImageURL); err != nil {
		return nil, wrapRenderError(err, doc.Path)
	}
	if post.BodyHTML, err = a.render(ctx, strings.ReplaceAll(body, a.marker, ""), post.CoverImageURL); err != nil {
		return nil, wrapRenderError(err, doc.Path)
	}

	post.TOCEntries = markdown.ExtractTOC(post.MainBodyHTML)
	post.ReadingTimeMinutes = markdown.ReadingTime(post.SummaryHTML+post.MainBodyHTML, a.wordsPerMinute)
	return post, nil
}

func (a *Assembler) render(ctx context.Context, segment, cover string) (string, error) {
	return a.docs.Render(ctx, markdown.StripCoverImage(segment, cover))
}

func postSlug(meta map[string]any, filePath string) string {
	if slug := strings.TrimSpace(toString(meta["slug"])); slug != "" {
		return slug
	}
	base := path.Base(filePath)
	return strings.TrimSuffix(base, path.Ext(base))
}

// documentTitle prefers the title field, then the first "# " heading.
func documentTitle(meta map[string]any, body string) string {
	if title := toString(meta["title"]); title != "" {
		return title
	}
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(trimmed, "# "))
		}
	}
	return untitled
}
