package markdown

import (
	"fmt"
	"html"
	"io/fs"
	"regexp"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
)

// Placeholder delimiters are private use runes. render strips them from the
// source, so authored text can never be mistaken for a token.
const (
	stashOpen  = "\uE000"
	stashClose = "\uE001"
)

var reservedRunes = strings.NewReplacer(stashOpen, "", stashClose, "", anchorOpen, "", anchorClose, "")

var (
	admonitionPattern  = regexp.MustCompile(`^!!!\s+([\w-]+(?:\s+[\w-]+)*)(?:\s+"([^"]*)")?\s*$`)
	tabPattern         = regexp.MustCompile(`^===(!)?\s+"([^"]*)"\s*$`)
	captionOpenPattern = regexp.MustCompile(`^///\s*caption\s*$`)
	blockClosePattern  = regexp.MustCompile(`^///\s*$`)
	headingAttrPattern = regexp.MustCompile(`^(#{1,6}\s.*?)\s*\{:\s*([^}]*)\}\s*$`)
	fenceOpenPattern   = regexp.MustCompile("^ {0,3}(`{3,}|~{3,})")
	stashParagraph     = regexp.MustCompile(`<p>` + stashOpen + `(\d+)` + stashClose + `</p>\n?`)
	stashInline        = regexp.MustCompile(stashOpen + `(\d+)` + stashClose)
)

// renderPass carries the state of one top level render: the goldmark engine,
// the shared heading ids and the HTML fragments stashed by block handlers.
type renderPass struct {
	engine   goldmark.Markdown
	features featureSet
	ids      *headingIDs
	snippets fs.FS
	stash    []string
	tabSets  int
}

func (p *renderPass) render(source string) (string, error) {
	if p.features.has(FeatureSnippets) {
		source = expandSnippets(source, p.snippets, 0)
	}
	source = reservedRunes.Replace(source)
	var abbrs []abbreviation
	if p.features.has(FeatureAbbr) {
		source, abbrs = extractAbbreviations(source)
	}

	out, err := p.renderBlocks(source)
	if err != nil {
		return "", err
	}
	out = p.ids.resolve(p.unstash(out))
	return applyAbbreviations(out, abbrs), nil
}

// renderBlocks rewrites block syntax into stash placeholders and hands the
// result to goldmark. Nested bodies recurse through here.
func (p *renderPass) renderBlocks(source string) (string, error) {
	lines, err := p.transformBlocks(splitLines(source))
	if err != nil {
		return "", err
	}
	return p.convert(strings.Join(lines, "\n"))
}

func (p *renderPass) transformBlocks(lines []string) ([]string, error) {
	out := make([]string, 0, len(lines))
	var fence codeFence

	for i := 0; i < len(lines); i++ {
		line := lines[i]

		if fence.open {
			out = append(out, line)
			if fence.closedBy(line) {
				fence = codeFence{}
			}
			continue
		}
		if opened, ok := openFence(line); ok {
			fence = opened
			out = append(out, line)
			continue
		}

		if p.features.has(FeatureAdmonition) {
			if match := admonitionPattern.FindStringSubmatch(line); match != nil {
				body, next := indentedBody(lines, i+1)
				fragment, err := p.admonition(match[1], match[2], strings.Contains(line, `"`), body)
				if err != nil {
					return nil, err
				}
				out = p.appendStash(out, fragment)
				i = next - 1
				continue
			}
		}

		if p.features.has(FeatureTabbed) && tabPattern.MatchString(line) {
			tabs, next := collectTabs(lines, i)
			fragment, err := p.tabbedSet(tabs)
			if err != nil {
				return nil, err
			}
			out = p.appendStash(out, fragment)
			i = next - 1
			continue
		}

		if p.features.has(FeatureCaption) && captionOpenPattern.MatchString(line) {
			if caption, next, ok := closedBlock(lines, i+1); ok {
				var previous []string
				out, previous = splitPreviousBlock(out)
				fragment, err := p.figure(previous, caption)
				if err != nil {
					return nil, err
				}
				out = p.appendStash(out, fragment)
				i = next - 1
				continue
			}
		}

		if p.features.has(FeatureAttrList) {
			line = headingAttrPattern.ReplaceAllString(line, "$1 {$2}")
		}
		out = append(out, line)
	}
	return out, nil
}

func (p *renderPass) appendStash(out []string, fragment string) []string {
	token := stashOpen + strconv.Itoa(len(p.stash)) + stashClose
	p.stash = append(p.stash, fragment)
	return append(out, "", token, "")
}

// unstash splices stashed fragments back in. Fragments may contain tokens of
// their own, so replacement repeats until nothing is left.
func (p *renderPass) unstash(out string) string {
	resolve := func(match string, pattern *regexp.Regexp) string {
		sub := pattern.FindStringSubmatch(match)
		idx, err := strconv.Atoi(sub[1])
		if err != nil || idx < 0 || idx >= len(p.stash) {
			return match
		}
		return p.stash[idx]
	}
	for range len(p.stash) + 1 {
		if !strings.Contains(out, stashOpen) {
			break
		}
		out = stashParagraph.ReplaceAllStringFunc(out, func(m string) string { return resolve(m, stashParagraph) })
		out = stashInline.ReplaceAllStringFunc(out, func(m string) string { return resolve(m, stashInline) })
	}
	return out
}

func (p *renderPass) admonition(classes, title string, hasTitle bool, body []string) (string, error) {
	fields := strings.Fields(classes)
	kind := strings.ToLower(fields[0])
	if !hasTitle {
		title = strings.ToUpper(kind[:1]) + kind[1:]
	}

	inner, err := p.renderBlocks(strings.Join(body, "\n"))
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<div class=\"admonition %s\">\n", html.EscapeString(strings.ToLower(strings.Join(fields, " "))))
	if title != "" {
		fmt.Fprintf(&b, "<p class=\"admonition-title\">%s</p>\n", html.EscapeString(title))
	}
	b.WriteString(inner)
	b.WriteString("</div>\n")
	return b.String(), nil
}

type tab struct {
	label string
	body  []string
}

func collectTabs(lines []string, start int) ([]tab, int) {
	var tabs []tab
	i := start
	for i < len(lines) {
		match := tabPattern.FindStringSubmatch(lines[i])
		if match == nil || (len(tabs) > 0 && match[1] == "!") {
			break
		}
		body, next := indentedBody(lines, i+1)
		tabs = append(tabs, tab{label: match[2], body: body})
		i = next

		peek := next
		for peek < len(lines) && strings.TrimSpace(lines[peek]) == "" {
			peek++
		}
		if peek >= len(lines) {
			break
		}
		if follow := tabPattern.FindStringSubmatch(lines[peek]); follow == nil || follow[1] == "!" {
			break
		}
		i = peek
	}
	return tabs, i
}

func (p *renderPass) tabbedSet(tabs []tab) (string, error) {
	p.tabSets++
	set := p.tabSets

	var b strings.Builder
	fmt.Fprintf(&b, "<div class=\"tabbed-set\" data-tabs=\"%d:%d\">\n", set, len(tabs))
	for i, t := range tabs {
		id := fmt.Sprintf("__tabbed_%d_%d", set, i+1)
		checked := ""
		if i == 0 {
			checked = ` checked="checked"`
		}
		inner, err := p.renderBlocks(strings.Join(t.body, "\n"))
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "<input%s id=\"%s\" name=\"__tabbed_%d\" type=\"radio\">\n", checked, id, set)
		fmt.Fprintf(&b, "<label for=\"%s\">%s</label>\n", id, html.EscapeString(t.label))
		b.WriteString("<div class=\"tabbed-content\">\n")
		b.WriteString(inner)
		b.WriteString("</div>\n")
	}
	b.WriteString("</div>\n")
	return b.String(), nil
}

func (p *renderPass) figure(content, caption []string) (string, error) {
	inner, err := p.renderBlocks(strings.Join(content, "\n"))
	if err != nil {
		return "", err
	}
	captionHTML, err := p.renderBlocks(strings.Join(caption, "\n"))
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("<figure>\n")
	b.WriteString(inner)
	b.WriteString("<figcaption>\n")
	b.WriteString(captionHTML)
	b.WriteString("</figcaption>\n</figure>\n")
	return b.String(), nil
}

// indentedBody collects the indented lines that follow a block header and
// returns them dedented along with the index of the first line after the
// body. Trailing blank lines are left for the caller.
func indentedBody(lines []string, start int) ([]string, int) {
	end := start
	for i := start; i < len(lines); i++ {
		line := lines[i]
		if strings.TrimSpace(line) == "" {
			continue
		}
		if !isIndented(line) {
			break
		}
		end = i + 1
	}
	body := make([]string, 0, end-start)
	for _, line := range lines[start:end] {
		body = append(body, dedent(line))
	}
	return body, end
}

// closedBlock returns the lines up to a closing "///" marker.
func closedBlock(lines []string, start int) ([]string, int, bool) {
	for i := start; i < len(lines); i++ {
		if blockClosePattern.MatchString(lines[i]) {
			return lines[start:i], i + 1, true
		}
	}
	return nil, start, false
}

// splitPreviousBlock detaches the last block (the lines after the final
// blank line) from out.
func splitPreviousBlock(out []string) ([]string, []string) {
	end := len(out)
	for end > 0 && strings.TrimSpace(out[end-1]) == "" {
		end--
	}
	start := end
	for start > 0 && strings.TrimSpace(out[start-1]) != "" {
		start--
	}
	previous := append([]string(nil), out[start:end]...)
	return out[:start], previous
}

func isIndented(line string) bool {
	return strings.HasPrefix(line, "    ") || strings.HasPrefix(line, "\t")
}

func dedent(line string) string {
	if strings.HasPrefix(line, "\t") {
		return line[1:]
	}
	for i := 0; i < 4; i++ {
		if !strings.HasPrefix(line, " ") {
			break
		}
		line = line[1:]
	}
	return line
}

func splitLines(source string) []string {
	source = strings.ReplaceAll(source, "\r\n", "\n")
	return strings.Split(source, "\n")
}

// codeFence tracks an open fenced code block so block syntax inside it is
// left alone.
type codeFence struct {
	open   bool
	marker byte
	length int
}

func openFence(line string) (codeFence, bool) {
	match := fenceOpenPattern.FindStringSubmatch(line)
	if match == nil {
		return codeFence{}, false
	}
	return codeFence{open: true, marker: match[1][0], length: len(match[1])}, true
}

func (f codeFence) closedBy(line string) bool {
	trimmed := strings.TrimLeft(line, " ")
	if len(line)-len(trimmed) > 3 {
		return false
	}
	run := 0
	for run < len(trimmed) && trimmed[run] == f.marker {
		run++
	}
	return run >= f.length && strings.TrimSpace(trimmed[run:]) == ""
}
