package markdown

import (
	"regexp"
	"strings"
)

// linkRule rewrites one family of relative link targets. Rules apply in
// order: asset prefixes first, then cross references between documents.
type linkRule struct {
	target      *regexp.Regexp
	url         *regexp.Regexp
	replacement string
	bare        string
}

func newLinkRule(fragment string, closed bool, replacement string) linkRule {
	targetPattern := `\]\(\s*(?P<open><?)` + fragment
	urlPattern := `^\s*` + fragment
	targetReplacement := "](${open}" + replacement
	if closed {
		targetPattern += `(?P<close>>?)\)`
		urlPattern += `\s*$`
		targetReplacement += "${close})"
	}
	return linkRule{
		target:      regexp.MustCompile(targetPattern),
		url:         regexp.MustCompile(urlPattern),
		replacement: targetReplacement,
		bare:        replacement,
	}
}

var linkRules = []linkRule{
	newLinkRule(`(?:\.\./)?assets/`, false, "/static/assets/"),
	newLinkRule(`/assets/`, false, "/static/assets/"),
	newLinkRule(`favicon\.png`, false, "/static/favicon.png"),
	newLinkRule(`index\.md`, true, "/"),
	newLinkRule(`about\.md`, true, "/about/"),
	newLinkRule(`publications\.md`, true, "/publications/"),
	newLinkRule(`posts/(?P<slug>[a-zA-Z0-9\-]+)\.md`, true, "/${slug}/"),
}

// NormalizeLinks rewrites the target of every Markdown link or image
// ("](target" or "](<target>") that points at a relative asset or a sibling
// document so it resolves against the site's public URL space. Absolute URLs
// are untouched and the transform is idempotent.
func NormalizeLinks(body string) string {
	if !strings.Contains(body, "](") {
		return body
	}
	for _, rule := range linkRules {
		body = rule.target.ReplaceAllString(body, rule.replacement)
	}
	return body
}

// NormalizeURL applies the link rules to a bare URL, such as a cover image
// taken from front matter.
func NormalizeURL(target string) string {
	trimmed := strings.TrimSpace(target)
	if trimmed == "" || isAbsoluteURL(trimmed) {
		return trimmed
	}
	for _, rule := range linkRules {
		if rule.url.MatchString(trimmed) {
			return rule.url.ReplaceAllString(trimmed, rule.bare)
		}
	}
	return trimmed
}

func isAbsoluteURL(target string) bool {
	lower := strings.ToLower(target)
	return strings.HasPrefix(lower, "http://") ||
		strings.HasPrefix(lower, "https://") ||
		strings.HasPrefix(lower, "mailto:")
}
