package markdown

import (
	"strings"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"
)

const frontMatterDelimiter = "---"

// ParseFrontMatter splits raw into its YAML metadata and the Markdown body
// that follows the closing delimiter. The function never fails: input without
// a leading block, with an unterminated block, or with a block that does not
// decode to a mapping yields empty metadata.
func ParseFrontMatter(raw string) (map[string]any, string) {
	if !strings.HasPrefix(raw, frontMatterDelimiter) {
		return map[string]any{}, raw
	}
	firstLine := raw
	if idx := strings.IndexByte(raw, '\n'); idx >= 0 {
		firstLine = raw[:idx]
	}
	if strings.TrimSpace(firstLine) != frontMatterDelimiter {
		return map[string]any{}, raw
	}

	var decoded any
	format := frontmatter.NewFormat(frontMatterDelimiter, frontMatterDelimiter, lenientYAML)
	body, err := frontmatter.Parse(strings.NewReader(raw), &decoded, format)
	if err != nil {
		return map[string]any{}, raw
	}

	return asMetadata(decoded), string(body)
}

// lenientYAML decodes YAML and swallows syntax errors so a malformed block
// still separates metadata from body.
func lenientYAML(data []byte, v any) error {
	if err := yaml.Unmarshal(data, v); err != nil {
		if target, ok := v.(*any); ok {
			*target = nil
		}
	}
	return nil
}

func asMetadata(value any) map[string]any {
	switch typed := value.(type) {
	case map[string]any:
		return typed
	case map[any]any:
		out := make(map[string]any, len(typed))
		for key, val := range typed {
			if name, ok := key.(string); ok {
				out[name] = val
			}
		}
		return out
	default:
		return map[string]any{}
	}
}
