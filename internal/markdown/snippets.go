package markdown

import (
	"io/fs"
	"path"
	"regexp"
	"strings"
)

const maxSnippetDepth = 4

var (
	snippetLinePattern  = regexp.MustCompile(`^(\s*)(;?)--8<--\s+"([^"]+)"\s*$`)
	snippetBlockPattern = regexp.MustCompile(`^(\s*)--8<--\s*$`)
)

// expandSnippets inlines --8<-- "file" includes, both the single line form
// and the block form listing one file per line. Missing files are dropped
// silently and a leading ";" escapes the marker. Includes are expanded
// everywhere, fenced code included, so code samples can live in files.
func expandSnippets(source string, fsys fs.FS, depth int) string {
	if !strings.Contains(source, "--8<--") {
		return source
	}

	lines := splitLines(source)
	out := make([]string, 0, len(lines))
	for i := 0; i < len(lines); i++ {
		line := lines[i]

		if match := snippetLinePattern.FindStringSubmatch(line); match != nil {
			indent, escaped, name := match[1], match[2], match[3]
			if escaped != "" {
				out = append(out, indent+`--8<-- "`+name+`"`)
				continue
			}
			out = append(out, includeSnippet(fsys, indent, name, depth)...)
			continue
		}

		if match := snippetBlockPattern.FindStringSubmatch(line); match != nil {
			end := i + 1
			for end < len(lines) && !snippetBlockPattern.MatchString(lines[end]) {
				end++
			}
			if end < len(lines) {
				for _, name := range lines[i+1 : end] {
					name = strings.TrimSpace(name)
					if name == "" {
						continue
					}
					out = append(out, includeSnippet(fsys, match[1], name, depth)...)
				}
				i = end
				continue
			}
		}

		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

func includeSnippet(fsys fs.FS, indent, name string, depth int) []string {
	if fsys == nil || depth >= maxSnippetDepth {
		return nil
	}
	clean := path.Clean(strings.TrimPrefix(strings.TrimSpace(name), "./"))
	if !fs.ValidPath(clean) {
		return nil
	}
	data, err := fs.ReadFile(fsys, clean)
	if err != nil {
		return nil
	}

	expanded := expandSnippets(strings.TrimRight(string(data), "\r\n"), fsys, depth+1)
	included := splitLines(expanded)
	if indent == "" {
		return included
	}
	for i, line := range included {
		if line != "" {
			included[i] = indent + line
		}
	}
	return included
}
