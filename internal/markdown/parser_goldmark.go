package markdown

import (
	"bytes"
	"fmt"
	"io/fs"
	"strings"

	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"

	"github.com/goliatone/go-folio/pkg/interfaces"
)

// Block level features handled outside goldmark. They share the extension
// namespace so configuration can toggle them the same way.
const (
	FeatureAdmonition = "admonition"
	FeatureTabbed     = "tabbed"
	FeatureCaption    = "caption"
	FeatureSnippets   = "snippets"
	FeatureAbbr       = "abbr"
	FeatureAttrList   = "attr_list"
)

// DefaultExtensions lists the extension set enabled when ParseOptions leaves
// Extensions empty.
var DefaultExtensions = []string{
	"gfm",
	"footnote",
	"emoji",
	FeatureAttrList,
	FeatureAdmonition,
	FeatureTabbed,
	FeatureCaption,
	FeatureSnippets,
	FeatureAbbr,
}

// GoldmarkRenderer implements interfaces.MarkdownRenderer using the goldmark
// engine plus a line preprocessor for block syntax goldmark does not cover.
// The renderer holds no per call state so a single instance can serve
// concurrent requests.
type GoldmarkRenderer struct {
	defaultOptions interfaces.ParseOptions
	snippets       fs.FS
}

var _ interfaces.MarkdownRenderer = (*GoldmarkRenderer)(nil)

// RendererOption customises a GoldmarkRenderer.
type RendererOption func(*GoldmarkRenderer)

// WithSnippetFS sets the filesystem that --8<-- includes resolve against.
// Without one, include lines are dropped.
func WithSnippetFS(fsys fs.FS) RendererOption {
	return func(r *GoldmarkRenderer) {
		r.snippets = fsys
	}
}

// NewGoldmarkRenderer constructs a renderer with the given default options.
func NewGoldmarkRenderer(defaults interfaces.ParseOptions, opts ...RendererOption) *GoldmarkRenderer {
	r := &GoldmarkRenderer{defaultOptions: defaults}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Render satisfies interfaces.MarkdownRenderer using the default options.
func (r *GoldmarkRenderer) Render(markdown []byte) ([]byte, error) {
	return r.RenderWithOptions(markdown, r.defaultOptions)
}

// RenderString is a convenience wrapper over Render for string sources.
func (r *GoldmarkRenderer) RenderString(markdown string) (string, error) {
	out, err := r.Render([]byte(markdown))
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// RenderWithOptions renders Markdown into HTML using the provided options.
// Every call builds its own heading id table, so identical input always
// yields identical output.
func (r *GoldmarkRenderer) RenderWithOptions(markdown []byte, opts interfaces.ParseOptions) ([]byte, error) {
	features := collectFeatures(opts.Extensions)
	ids := newHeadingIDs()
	pass := &renderPass{
		engine:   newGoldmarkEngine(opts, features, ids),
		features: features,
		ids:      ids,
		snippets: r.snippets,
	}
	out, err := pass.render(string(markdown))
	if err != nil {
		return nil, fmt.Errorf("markdown render: %w", err)
	}
	return []byte(out), nil
}

// newGoldmarkEngine builds a goldmark.Markdown configured from the parse
// options. Unsupported extension names are ignored. Heading anchors come from
// ids rather than goldmark's auto id option, which slugs the raw source line.
func newGoldmarkEngine(opts interfaces.ParseOptions, features featureSet, ids *headingIDs) goldmark.Markdown {
	parserOptions := []parser.Option{
		parser.WithASTTransformers(util.Prioritized(headingAnchorTransformer{ids: ids}, 100)),
	}
	if features.has(FeatureAttrList) {
		parserOptions = append(parserOptions,
			parser.WithAttribute(),
			parser.WithASTTransformers(util.Prioritized(inlineAttributeTransformer{}, 500)),
		)
	}

	rendererOptions := []renderer.Option{}
	if opts.HardWraps {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}
	if !opts.SafeMode {
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}

	engineOptions := []goldmark.Option{
		goldmark.WithParserOptions(parserOptions...),
	}
	if len(rendererOptions) > 0 {
		engineOptions = append(engineOptions, goldmark.WithRendererOptions(rendererOptions...))
	}
	if exts := features.extenders(); len(exts) > 0 {
		engineOptions = append(engineOptions, goldmark.WithExtensions(exts...))
	}

	return goldmark.New(engineOptions...)
}

var extensionRegistry = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"tables":        extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"autolink":      extension.Linkify,
	"tasklist":      extension.TaskList,
	"definition":    extension.DefinitionList,
	"footnote":      extension.Footnote,
	"footnotes":     extension.Footnote,
	"emoji":         emoji.Emoji,
}

var preprocessorFeatures = map[string]struct{}{
	FeatureAdmonition: {},
	FeatureTabbed:     {},
	FeatureCaption:    {},
	FeatureSnippets:   {},
	FeatureAbbr:       {},
	FeatureAttrList:   {},
}

// featureSet keeps enabled extension names in registration order.
type featureSet struct {
	names   []string
	enabled map[string]struct{}
}

func (f featureSet) has(name string) bool {
	_, ok := f.enabled[name]
	return ok
}

func (f featureSet) extenders() []goldmark.Extender {
	var out []goldmark.Extender
	for _, name := range f.names {
		if ext, ok := extensionRegistry[name]; ok {
			out = append(out, ext)
		}
	}
	return out
}

func collectFeatures(names []string) featureSet {
	if len(names) == 0 {
		names = DefaultExtensions
	}

	set := featureSet{enabled: map[string]struct{}{}}
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" || set.has(key) {
			continue
		}
		_, goldmarkExt := extensionRegistry[key]
		_, blockExt := preprocessorFeatures[key]
		if !goldmarkExt && !blockExt {
			continue
		}
		set.names = append(set.names, key)
		set.enabled[key] = struct{}{}
	}
	return set
}

// convert runs goldmark over already preprocessed Markdown.
func (p *renderPass) convert(source string) (string, error) {
	var buf bytes.Buffer
	if err := p.engine.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
