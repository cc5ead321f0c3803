package markdown

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/goliatone/go-folio/internal/logging"
	"github.com/goliatone/go-folio/pkg/interfaces"
)

// Config controls how the Markdown service discovers, parses and renders files.
type Config struct {
	// BasePath is used to build an os.DirFS when FS is nil.
	BasePath string
	FS       fs.FS
	Pattern  string
	Parser   interfaces.ParseOptions
	// SnippetsDir is resolved relative to the content filesystem.
	SnippetsDir string
}

// Document is a Markdown file split into metadata and body.
type Document struct {
	Path     string
	Meta     map[string]any
	Body     string
	ModTime  time.Time
	Size     int64
	Checksum []byte
}

// RenderObserver receives the duration of every render call.
type RenderObserver func(time.Duration)

// Service reads Markdown documents from a filesystem and renders bodies
// through link normalisation and the configured renderer.
type Service struct {
	cfg      Config
	loader   *Loader
	renderer interfaces.MarkdownRenderer
	logger   interfaces.Logger
	observe  RenderObserver
}

// ServiceOption customises a Service.
type ServiceOption func(*Service)

// WithRenderer replaces the default goldmark renderer.
func WithRenderer(renderer interfaces.MarkdownRenderer) ServiceOption {
	return func(s *Service) {
		if renderer != nil {
			s.renderer = renderer
		}
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRenderObserver registers a callback timing each render.
func WithRenderObserver(observer RenderObserver) ServiceOption {
	return func(s *Service) {
		s.observe = observer
	}
}

// NewService constructs a Markdown service. When cfg.FS is nil the base path
// must exist on disk.
func NewService(cfg Config, opts ...ServiceOption) (*Service, error) {
	filesystem := cfg.FS
	if filesystem == nil {
		var err error
		if filesystem, err = prepareFilesystem(cfg.BasePath); err != nil {
			return nil, err
		}
	}

	svc := &Service{
		cfg:    cfg,
		loader: NewLoader(filesystem, cfg.Pattern),
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}

	if svc.renderer == nil {
		var rendererOpts []RendererOption
		if dir := strings.TrimSpace(cfg.SnippetsDir); dir != "" {
			if sub, err := fs.Sub(filesystem, cleanPath(dir)); err == nil {
				rendererOpts = append(rendererOpts, WithSnippetFS(sub))
			}
		}
		svc.renderer = NewGoldmarkRenderer(cfg.Parser, rendererOpts...)
	}
	return svc, nil
}

// Loader exposes the underlying file loader.
func (s *Service) Loader() *Loader {
	return s.loader
}

// List returns the Markdown files under dir sorted by filename.
func (s *Service) List(ctx context.Context, dir string) ([]string, error) {
	return s.loader.List(ctx, dir)
}

// Load reads a file and splits its front matter. Parse problems never fail
// the load; only I/O errors are returned.
func (s *Service) Load(ctx context.Context, path string) (*Document, error) {
	src, err := s.loader.Read(ctx, path)
	if err != nil {
		return nil, err
	}
	return s.Parse(src), nil
}

// Parse builds a Document from an already read source.
func (s *Service) Parse(src *Source) *Document {
	meta, body := ParseFrontMatter(string(src.Data))
	if len(meta) == 0 && strings.HasPrefix(string(src.Data), frontMatterDelimiter) && body != string(src.Data) {
		logging.WithMarkdownContext(s.logger, src.Path, "").Debug("markdown.frontmatter.empty")
	}
	return &Document{
		Path:     src.Path,
		Meta:     meta,
		Body:     body,
		ModTime:  src.ModTime,
		Size:     src.Size,
		Checksum: src.Checksum,
	}
}

// Render normalises asset links in markdown and renders it to HTML.
func (s *Service) Render(ctx context.Context, markdown string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	started := time.Now()
	html, err := s.renderer.Render([]byte(NormalizeLinks(markdown)))
	if s.observe != nil {
		s.observe(time.Since(started))
	}
	if err != nil {
		return "", err
	}
	return string(html), nil
}

func prepareFilesystem(basePath string) (fs.FS, error) {
	if strings.TrimSpace(basePath) == "" {
		basePath = "."
	}
	info, err := os.Stat(basePath)
	if err != nil {
		return nil, fmt.Errorf("markdown service: stat base path %s: %w", basePath, err)
	}
	if !info.IsDir() {
		return nil, errors.New("markdown service: base path " + basePath + " is not a directory")
	}
	return os.DirFS(basePath), nil
}
