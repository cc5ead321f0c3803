package markdown

import (
	"math"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
)

// DefaultWordsPerMinute is the reading speed used for reading time estimates.
const DefaultWordsPerMinute = 225

// TOCEntry points at a second level heading within rendered content.
type TOCEntry struct {
	Title  string `json:"title"`
	Anchor string `json:"anchor"`
}

const imageTarget = `(?:<([^<>\n]+)>|([^)\s]+))`

var (
	// bodyImagePattern matches the first Markdown image anywhere in raw text.
	// The URL is group 1 for <...> destinations and group 2 otherwise; an
	// optional quoted title is not captured.
	bodyImagePattern = regexp.MustCompile(`!\[[^\]]*\]\(\s*` + imageTarget + `(?:\s+"[^"]*")?\s*\)`)
	// imageLinePattern matches a line that holds nothing but one image
	// reference, optionally followed by an attribute list.
	imageLinePattern = regexp.MustCompile(`^\s*!\[[^\]]*\]\(\s*` + imageTarget + `(?:\s+"[^"]*")?\s*\)\s*(?:\{[^}]*\})?\s*$`)
)

// ResolveCoverImage picks a post's cover image: the "image" metadata field,
// then an og:image entry in the "meta" list, then the first image in the raw
// body. The result is normalised; an empty string means no cover.
func ResolveCoverImage(meta map[string]any, rawBody string) string {
	if image, ok := meta["image"].(string); ok && strings.TrimSpace(image) != "" {
		return NormalizeURL(image)
	}
	if entries, ok := meta["meta"].([]any); ok {
		for _, entry := range entries {
			fields, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			property, _ := fields["property"].(string)
			content, _ := fields["content"].(string)
			if strings.TrimSpace(property) == "og:image" && strings.TrimSpace(content) != "" {
				return NormalizeURL(content)
			}
		}
	}
	if match := bodyImagePattern.FindStringSubmatch(rawBody); match != nil {
		return NormalizeURL(imageURL(match))
	}
	return ""
}

func imageURL(match []string) string {
	if match[1] != "" {
		return match[1]
	}
	return match[2]
}

// StripCoverImage removes the first line of body that consists solely of an
// image whose normalised URL equals coverURL. Blank lines around the removed
// line collapse into a single separator.
func StripCoverImage(body, coverURL string) string {
	if coverURL == "" {
		return body
	}
	lines := splitLines(body)
	for idx, line := range lines {
		match := imageLinePattern.FindStringSubmatch(line)
		if match == nil || NormalizeURL(imageURL(match)) != coverURL {
			continue
		}

		before := lines[:idx]
		for len(before) > 0 && strings.TrimSpace(before[len(before)-1]) == "" {
			before = before[:len(before)-1]
		}
		after := lines[idx+1:]
		for len(after) > 0 && strings.TrimSpace(after[0]) == "" {
			after = after[1:]
		}

		out := make([]string, 0, len(before)+len(after)+1)
		out = append(out, before...)
		if len(before) > 0 && len(after) > 0 {
			out = append(out, "")
		}
		out = append(out, after...)
		return strings.Join(out, "\n")
	}
	return body
}

// ExtractTOC lists every <h2> carrying an id, in document order. Titles are
// the heading text with tags dropped and entities decoded.
func ExtractTOC(html string) []TOCEntry {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	entries := []TOCEntry{}
	doc.Find("h2[id]").Each(func(_ int, heading *goquery.Selection) {
		anchor, _ := heading.Attr("id")
		title := collapseWhitespace(heading.Text())
		if strings.TrimSpace(anchor) == "" || title == "" {
			return
		}
		entries = append(entries, TOCEntry{Title: title, Anchor: anchor})
	})
	return entries
}

// ReadingTime estimates minutes needed to read html at wordsPerMinute,
// rounded up with a floor of one minute.
func ReadingTime(html string, wordsPerMinute int) int {
	if wordsPerMinute <= 0 {
		wordsPerMinute = DefaultWordsPerMinute
	}
	words := len(strings.Fields(PlainText(html)))
	minutes := int(math.Ceil(float64(words) / float64(wordsPerMinute)))
	if minutes < 1 {
		return 1
	}
	return minutes
}

// PlainText returns the text content of an HTML fragment with entities
// decoded. Script and style bodies are dropped.
func PlainText(html string) string {
	if strings.TrimSpace(html) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	doc.Find("script, style").Remove()
	return doc.Text()
}

// Excerpt reduces html to plain text of at most limit runes. Longer text is
// cut at the last whitespace before the limit and ends with an ellipsis.
func Excerpt(html string, limit int) string {
	text := collapseWhitespace(PlainText(html))
	runes := []rune(text)
	if limit <= 0 || len(runes) <= limit {
		return text
	}

	cut := runes[:limit]
	for i := len(cut) - 1; i > 0; i-- {
		if unicode.IsSpace(cut[i]) {
			cut = cut[:i]
			break
		}
	}
	return strings.TrimRightFunc(string(cut), unicode.IsSpace) + "…"
}

func collapseWhitespace(value string) string {
	return strings.Join(strings.Fields(value), " ")
}
