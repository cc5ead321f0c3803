package markdown

import (
	"html"
	"maps"
	"regexp"
	"strconv"
	"strings"

	"github.com/goliatone/go-slug"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

const (
	fallbackHeadingID = "heading"

	anchorOpen  = "\uE002"
	anchorClose = "\uE003"
)

var anchorPattern = regexp.MustCompile(anchorOpen + `(\d+)` + anchorClose)

// headingIDs collects heading text while fragments are converted and assigns
// the final anchors once the whole document is assembled. Nested bodies
// (admonitions, tabs, captions) are converted before the document around
// them, so anchors are numbered from the output order, not conversion order.
type headingIDs struct {
	texts    []string
	explicit map[string]struct{}
}

func newHeadingIDs() *headingIDs {
	return &headingIDs{explicit: map[string]struct{}{}}
}

func (h *headingIDs) placeholder(text string) []byte {
	token := anchorOpen + strconv.Itoa(len(h.texts)) + anchorClose
	h.texts = append(h.texts, text)
	return []byte(token)
}

func (h *headingIDs) reserve(id string) {
	h.explicit[id] = struct{}{}
}

// resolve swaps placeholders for go-slug anchors in document order. Ids set
// through attribute lists are never reused; repeats get -1, -2, ...
func (h *headingIDs) resolve(out string) string {
	if len(h.texts) == 0 {
		return out
	}
	used := maps.Clone(h.explicit)
	return anchorPattern.ReplaceAllStringFunc(out, func(token string) string {
		idx, err := strconv.Atoi(token[len(anchorOpen) : len(token)-len(anchorClose)])
		if err != nil || idx >= len(h.texts) {
			return fallbackHeadingID
		}
		base := slugifyHeading(h.texts[idx])
		if base == "" {
			base = fallbackHeadingID
		}
		candidate := base
		for i := 1; ; i++ {
			if _, taken := used[candidate]; !taken {
				break
			}
			candidate = base + "-" + strconv.Itoa(i)
		}
		used[candidate] = struct{}{}
		return candidate
	})
}

// headingAnchorTransformer marks every heading without an explicit id with a
// placeholder holding its plain text.
type headingAnchorTransformer struct {
	ids *headingIDs
}

var _ parser.ASTTransformer = headingAnchorTransformer{}

func (t headingAnchorTransformer) Transform(doc *ast.Document, reader text.Reader, _ parser.Context) {
	source := reader.Source()
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		heading, ok := n.(*ast.Heading)
		if !entering || !ok {
			return ast.WalkContinue, nil
		}
		if value, ok := heading.AttributeString("id"); ok {
			if id, ok := attributeBytes(value); ok {
				t.ids.reserve(string(id))
			}
			return ast.WalkSkipChildren, nil
		}
		heading.SetAttribute([]byte("id"), t.ids.placeholder(headingText(heading, source)))
		return ast.WalkSkipChildren, nil
	})
}

// headingText returns what a reader sees: link labels without destinations,
// no raw HTML tags, entities decoded.
func headingText(heading ast.Node, source []byte) string {
	var b strings.Builder
	_ = ast.Walk(heading, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		case *ast.AutoLink:
			b.Write(node.Label(source))
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			b.Write(node.Segment.Value(source))
			if node.SoftLineBreak() || node.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(node.Value)
		}
		return ast.WalkContinue, nil
	})
	return html.UnescapeString(b.String())
}

func slugifyHeading(title string) string {
	normalized, err := slug.Normalize(title)
	if err != nil {
		return ""
	}
	return normalized
}
