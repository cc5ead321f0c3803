package content

import (
	"context"
	"io/fs"
	"strings"

	"github.com/goliatone/go-folio/internal/logging"
	"github.com/goliatone/go-folio/pkg/interfaces"
)

// Config wires file locations and pipeline settings.
type Config struct {
	PostsDir        string
	Pages           map[string]string
	CVFile          string
	AuthorsFile     string
	ReadMoreMarker  string
	WordsPerMinute  int
	DuplicateSlugs  DuplicatePolicy
	ShowDrafts      bool
	SiteConfigFile  string
	PostsConfigFile string
	Site            SiteSettings
}

// Service is the read side of the site: posts, pages, CV, authors and the
// composed views built from them.
type Service struct {
	cfg       Config
	docs      Documents
	assembler *Assembler
	index     *Index
	pages     *PageLoader
	cv        *CVLoader
	authors   *AuthorIndex
	site      *SiteConfigLoader
	logger    interfaces.Logger
}

type serviceOptions struct {
	logger   interfaces.Logger
	cache    PostCache
	stat     func(string) (fs.FileInfo, error)
	observe  func(kind string)
	configFS fs.FS
}

// ServiceOption customises a Service.
type ServiceOption func(*serviceOptions)

// WithLogger sets the content logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(o *serviceOptions) {
		o.logger = logger
	}
}

// WithCache memoises assembled posts. stat must describe files of the content
// filesystem.
func WithCache(cache PostCache, stat func(string) (fs.FileInfo, error)) ServiceOption {
	return func(o *serviceOptions) {
		o.cache = cache
		o.stat = stat
	}
}

// WithObserver receives the kind of every document assembled.
func WithObserver(observe func(kind string)) ServiceOption {
	return func(o *serviceOptions) {
		o.observe = observe
	}
}

// WithConfigFS reads site configuration documents from fsys.
func WithConfigFS(fsys fs.FS) ServiceOption {
	return func(o *serviceOptions) {
		o.configFS = fsys
	}
}

// NewService wires the loaders over docs. contentFS is the content root, used
// for the authors document.
func NewService(cfg Config, docs Documents, contentFS fs.FS, opts ...ServiceOption) *Service {
	options := serviceOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}
	logger := options.logger
	if logger == nil {
		logger = logging.NoOp()
	}
	if strings.TrimSpace(cfg.PostsDir) == "" {
		cfg.PostsDir = "posts"
	}
	if cfg.DuplicateSlugs == "" {
		cfg.DuplicateSlugs = DuplicateFirstMatch
	}

	assembler := NewAssembler(docs, cfg.ReadMoreMarker, cfg.WordsPerMinute, logger)
	index := NewIndex(cfg.PostsDir, docs, assembler,
		WithDuplicatePolicy(cfg.DuplicateSlugs),
		WithIndexLogger(logger),
		WithLoadObserver(options.observe),
		WithPostCache(options.cache, options.stat),
	)

	return &Service{
		cfg:       cfg,
		docs:      docs,
		assembler: assembler,
		index:     index,
		pages:     NewPageLoader(docs, cfg.Pages),
		cv:        NewCVLoader(docs, cfg.CVFile, logger),
		authors:   NewAuthorIndex(contentFS, cfg.AuthorsFile, logger),
		site:      NewSiteConfigLoader(cfg.SiteConfigFile, cfg.PostsConfigFile, logger).WithFS(options.configFS),
		logger:    logger,
	}
}

// Config returns the service configuration.
func (s *Service) Config() Config {
	return s.cfg
}

// Assembler exposes the post assembler for previews.
func (s *Service) Assembler() *Assembler {
	return s.assembler
}

// Index exposes the post index.
func (s *Service) Index() *Index {
	return s.index
}

// Posts lists published posts, plus drafts when ShowDrafts is set.
func (s *Service) Posts(ctx context.Context) ([]*PostContent, error) {
	return s.index.LoadAll(ctx, s.cfg.ShowDrafts)
}

// AllPosts lists every post, drafts included.
func (s *Service) AllPosts(ctx context.Context) ([]*PostContent, error) {
	return s.index.LoadAll(ctx, true)
}

// PostsByTag lists posts carrying tag.
func (s *Service) PostsByTag(ctx context.Context, tag string) ([]*PostContent, error) {
	posts, err := s.Posts(ctx)
	if err != nil {
		return nil, err
	}
	return FilterByTag(posts, tag), nil
}

// Post returns the post published under slug or a not found error.
func (s *Service) Post(ctx context.Context, slug string) (*PostContent, error) {
	post, err := s.index.Get(ctx, slug, s.cfg.ShowDrafts)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, postNotFound(slug)
	}
	return post, nil
}

// PostDetail resolves a post together with its authors, share links and SEO
// metadata.
func (s *Service) PostDetail(ctx context.Context, slug string) (*PostDetail, error) {
	post, err := s.Post(ctx, slug)
	if err != nil {
		return nil, err
	}
	authors, err := s.authors.Profiles(ctx, post.Authors)
	if err != nil {
		return nil, err
	}
	seo := s.SEO(post.URL())
	return &PostDetail{
		Post:    post,
		Authors: authors,
		Share:   BuildShareLinks(post.Title, seo.CanonicalURL),
		SEO:     seo,
	}, nil
}

// Page renders a singleton page by key.
func (s *Service) Page(ctx context.Context, key string) (*PageContent, error) {
	return s.pages.Load(ctx, key)
}

// PageKeys lists the configured page keys.
func (s *Service) PageKeys() []string {
	return s.pages.Keys()
}

// PageExcerpt returns a plain text excerpt of a page. A non positive limit
// uses a default length.
func (s *Service) PageExcerpt(ctx context.Context, key string, limit int) (string, error) {
	if limit <= 0 {
		limit = defaultExcerptLen
	}
	return s.pages.Excerpt(ctx, key, limit)
}

// CV returns the parsed CV, or the default CV when none exists.
func (s *Service) CV(ctx context.Context) (*CVContent, error) {
	return s.cv.Load(ctx)
}

// Authors returns the author index.
func (s *Service) Authors(ctx context.Context) (map[string]AuthorProfile, error) {
	return s.authors.Load(ctx)
}

// SiteConfig returns the general site configuration document.
func (s *Service) SiteConfig(ctx context.Context) (map[string]any, error) {
	return s.site.Site(ctx)
}

// PostsConfig returns the posts configuration document.
func (s *Service) PostsConfig(ctx context.Context) (map[string]any, error) {
	return s.site.Posts(ctx)
}

// SEO computes page head metadata for requestPath.
func (s *Service) SEO(requestPath string) SEO {
	return BuildSEO(s.cfg.Site, requestPath)
}

// Home composes the landing page view.
func (s *Service) Home(ctx context.Context) (*HomeView, error) {
	posts, err := s.Posts(ctx)
	if err != nil {
		return nil, err
	}
	cv, err := s.CV(ctx)
	if err != nil {
		return nil, err
	}
	siteConfig, err := s.SiteConfig(ctx)
	if err != nil {
		return nil, err
	}
	postsConfig, err := s.PostsConfig(ctx)
	if err != nil {
		return nil, err
	}

	featured := SelectFeatured(posts, FeaturedPostID(postsConfig))
	entries, suggest := previewEntries(cv.Entries(), HomeCVEntries)
	hero := siteConfig["hero"]
	if hero == nil {
		hero = map[string]any{}
	}
	return &HomeView{
		Hero:           hero,
		FeaturedPost:   featured,
		RecentPosts:    SelectRecent(posts, featured, RecentPostsLimit),
		CVEntries:      entries,
		CVSuggestPrior: suggest,
		AboutPreview:   strings.TrimSpace(toString(siteConfig["about_preview"])),
	}, nil
}

// About composes the about page view.
func (s *Service) About(ctx context.Context) (*AboutView, error) {
	siteConfig, err := s.SiteConfig(ctx)
	if err != nil {
		return nil, err
	}
	cv, err := s.CV(ctx)
	if err != nil {
		return nil, err
	}
	entries, suggest := previewEntries(cv.Entries(), AboutCVEntries)
	about := siteConfig["about"]
	if about == nil {
		about = map[string]any{}
	}
	return &AboutView{About: about, CVEntries: entries, CVSuggestPrior: suggest}, nil
}
