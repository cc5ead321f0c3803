package markdown

import (
	"html"
	"regexp"
	"sort"
	"strings"
)

var abbrDefinitionPattern = regexp.MustCompile(`^\*\[([^\]]+)\]:\s*(.*?)\s*$`)

type abbreviation struct {
	term  string
	title string
}

// extractAbbreviations removes *[TERM]: Expansion definition lines outside
// fenced code and returns them. A later definition of the same term wins.
func extractAbbreviations(source string) (string, []abbreviation) {
	if !strings.Contains(source, "*[") {
		return source, nil
	}

	lines := splitLines(source)
	out := make([]string, 0, len(lines))
	index := map[string]int{}
	var abbrs []abbreviation
	var fence codeFence

	for _, line := range lines {
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
		match := abbrDefinitionPattern.FindStringSubmatch(line)
		if match == nil {
			out = append(out, line)
			continue
		}
		term := strings.TrimSpace(match[1])
		if term == "" || match[2] == "" {
			continue
		}
		if pos, ok := index[term]; ok {
			abbrs[pos].title = match[2]
			continue
		}
		index[term] = len(abbrs)
		abbrs = append(abbrs, abbreviation{term: term, title: match[2]})
	}
	return strings.Join(out, "\n"), abbrs
}

// skipAbbrTags are elements whose text content is never annotated.
var skipAbbrTags = map[string]struct{}{
	"code":   {},
	"pre":    {},
	"abbr":   {},
	"script": {},
	"style":  {},
}

// applyAbbreviations wraps whole word occurrences of each term found in the
// text nodes of fragment in <abbr title="...">.
func applyAbbreviations(fragment string, abbrs []abbreviation) string {
	if len(abbrs) == 0 {
		return fragment
	}

	titles := make(map[string]string, len(abbrs))
	terms := make([]string, 0, len(abbrs))
	for _, abbr := range abbrs {
		titles[abbr.term] = abbr.title
		terms = append(terms, regexp.QuoteMeta(abbr.term))
	}
	sort.SliceStable(terms, func(i, j int) bool { return len(terms[i]) > len(terms[j]) })
	pattern, err := regexp.Compile(`\b(?:` + strings.Join(terms, "|") + `)\b`)
	if err != nil {
		return fragment
	}
	replace := func(text string) string {
		return pattern.ReplaceAllStringFunc(text, func(term string) string {
			return `<abbr title="` + html.EscapeString(titles[term]) + `">` + term + `</abbr>`
		})
	}

	var b strings.Builder
	b.Grow(len(fragment))
	skip := 0
	rest := fragment
	for rest != "" {
		lt := strings.IndexByte(rest, '<')
		if lt < 0 {
			b.WriteString(annotate(rest, skip, replace))
			break
		}
		b.WriteString(annotate(rest[:lt], skip, replace))
		gt := strings.IndexByte(rest[lt:], '>')
		if gt < 0 {
			b.WriteString(rest[lt:])
			break
		}
		tag := rest[lt : lt+gt+1]
		name, closing := tagName(tag)
		if _, ok := skipAbbrTags[name]; ok {
			if closing {
				if skip > 0 {
					skip--
				}
			} else if !strings.HasSuffix(tag, "/>") {
				skip++
			}
		}
		b.WriteString(tag)
		rest = rest[lt+gt+1:]
	}
	return b.String()
}

func annotate(text string, skip int, replace func(string) string) string {
	if skip > 0 || strings.TrimSpace(text) == "" {
		return text
	}
	return replace(text)
}

func tagName(tag string) (string, bool) {
	inner := strings.TrimPrefix(tag, "<")
	closing := strings.HasPrefix(inner, "/")
	inner = strings.TrimPrefix(inner, "/")
	end := strings.IndexFunc(inner, func(r rune) bool {
		return r == ' ' || r == '>' || r == '/' || r == '\n' || r == '\t'
	})
	if end < 0 {
		end = len(inner)
	}
	return strings.ToLower(inner[:end]), closing
}
