package markdown

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultPattern selects Markdown documents within a directory.
const DefaultPattern = "*.md"

// Source is one Markdown file read from the content filesystem.
type Source struct {
	Path     string
	Data     []byte
	ModTime  time.Time
	Size     int64
	Checksum []byte
}

// Loader discovers and reads Markdown files from an fs.FS rooted at the
// content directory.
type Loader struct {
	fs      fs.FS
	pattern string
}

// NewLoader constructs a Loader. An empty pattern defaults to "*.md".
func NewLoader(filesystem fs.FS, pattern string) *Loader {
	if strings.TrimSpace(pattern) == "" {
		pattern = DefaultPattern
	}
	return &Loader{fs: filesystem, pattern: pattern}
}

// FS exposes the underlying filesystem.
func (l *Loader) FS() fs.FS {
	return l.fs
}

// List returns the paths under dir matching the loader pattern, sorted by
// filename. A missing directory yields an empty list.
func (l *Loader) List(ctx context.Context, dir string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	root := cleanPath(dir)
	pattern := l.pattern
	if root != "." {
		pattern = path.Join(escapeGlob(root), l.pattern)
	}

	matches, err := doublestar.Glob(l.fs, pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("markdown loader glob %s: %w", pattern, err)
	}

	sort.Slice(matches, func(i, j int) bool {
		bi, bj := path.Base(matches[i]), path.Base(matches[j])
		if bi != bj {
			return bi < bj
		}
		return matches[i] < matches[j]
	})
	return matches, nil
}

// Read loads a single file. Missing files return an error wrapping
// fs.ErrNotExist so callers can tell absence from I/O failure.
func (l *Loader) Read(ctx context.Context, name string) (*Source, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rel := cleanPath(name)
	data, err := fs.ReadFile(l.fs, rel)
	if err != nil {
		return nil, fmt.Errorf("markdown loader read %s: %w", rel, err)
	}

	src := &Source{Path: rel, Data: data, Size: int64(len(data))}
	if info, statErr := fs.Stat(l.fs, rel); statErr == nil {
		src.ModTime = info.ModTime()
		src.Size = info.Size()
	}
	sum := sha256.Sum256(data)
	src.Checksum = sum[:]
	return src, nil
}

// Stat reports file metadata without reading its content.
func (l *Loader) Stat(name string) (fs.FileInfo, error) {
	return fs.Stat(l.fs, cleanPath(name))
}

// IsNotExist reports whether err stems from a missing file.
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

func cleanPath(name string) string {
	clean := path.Clean(strings.TrimPrefix(strings.ReplaceAll(name, "\\", "/"), "/"))
	if clean == "" {
		return "."
	}
	return clean
}

func escapeGlob(dir string) string {
	replacer := strings.NewReplacer("*", `\*`, "?", `\?`, "[", `\[`, "{", `\{`)
	return replacer.Replace(dir)
}
