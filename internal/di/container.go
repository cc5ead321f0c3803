package di

import (
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"strings"

	"github.com/goliatone/go-folio/internal/cache"
	"github.com/goliatone/go-folio/internal/contact"
	"github.com/goliatone/go-folio/internal/content"
	foliohttp "github.com/goliatone/go-folio/internal/http"
	"github.com/goliatone/go-folio/internal/logging"
	"github.com/goliatone/go-folio/internal/logging/console"
	"github.com/goliatone/go-folio/internal/logging/gologger"
	"github.com/goliatone/go-folio/internal/markdown"
	"github.com/goliatone/go-folio/internal/metrics"
	"github.com/goliatone/go-folio/internal/runtimeconfig"
	"github.com/goliatone/go-folio/pkg/interfaces"
	"github.com/prometheus/client_golang/prometheus"
)

// Container wires the site services from a runtime configuration.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	logger         interfaces.Logger
	registry       *prometheus.Registry
	metrics        *metrics.Metrics
	contentFS      fs.FS
	configFS       fs.FS
	renderer       interfaces.MarkdownRenderer
	mailer         contact.Mailer

	documents *markdown.Service
	cache     *cache.DocumentCache
	content   *content.Service
	contact   *contact.Service
	api       *foliohttp.API
	handler   http.Handler
}

// Option mutates the container before services are built.
type Option func(*Container)

// WithLoggerProvider overrides the provider built from the logging config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		if provider != nil {
			c.loggerProvider = provider
		}
	}
}

// WithMailer overrides the mailer built from the contact config.
func WithMailer(mailer contact.Mailer) Option {
	return func(c *Container) {
		if mailer != nil {
			c.mailer = mailer
		}
	}
}

// WithRegistry registers metrics on registry instead of a private one.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(c *Container) {
		if registry != nil {
			c.registry = registry
		}
	}
}

// WithFilesystem reads content from fsys instead of the configured root.
func WithFilesystem(fsys fs.FS) Option {
	return func(c *Container) {
		if fsys != nil {
			c.contentFS = fsys
		}
	}
}

// WithConfigFilesystem reads the site configuration documents from fsys.
func WithConfigFilesystem(fsys fs.FS) Option {
	return func(c *Container) {
		if fsys != nil {
			c.configFS = fsys
		}
	}
}

// WithMarkdownRenderer replaces the goldmark renderer.
func WithMarkdownRenderer(renderer interfaces.MarkdownRenderer) Option {
	return func(c *Container) {
		if renderer != nil {
			c.renderer = renderer
		}
	}
}

// NewContainer validates cfg and builds every service.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Container{Config: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	c.configureMetrics()
	if err := c.configureDocuments(); err != nil {
		return nil, err
	}
	c.configureCache()
	c.configureContent()
	c.configureContact()
	if err := c.configureHTTP(); err != nil {
		return nil, err
	}

	c.logger.Info("folio.configured",
		"content_root", cfg.Content.Root,
		"cache", c.cache != nil,
		"contact", c.contact != nil,
		"logging_provider", cfg.Logging.Provider,
	)
	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider == nil {
		provider, err := newLoggerProvider(c.Config.Logging)
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	}
	c.logger = logging.ModuleLogger(c.loggerProvider, "")
	return nil
}

func newLoggerProvider(cfg runtimeconfig.LoggingConfig) (interfaces.LoggerProvider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Level,
			Format:    cfg.Format,
			AddSource: cfg.AddSource,
			Focus:     cfg.Focus,
		})
		if err != nil {
			return nil, fmt.Errorf("di: configure go-logger: %w", err)
		}
		return provider, nil
	default:
		level, _ := console.ParseLevel(cfg.Level)
		format, _ := console.ParseFormat(cfg.Format)
		return console.NewProvider(console.Options{
			Writer:   os.Stderr,
			MinLevel: &level,
			Format:   format,
			Color:    cfg.Color,
		}), nil
	}
}

func (c *Container) configureMetrics() {
	if c.registry != nil {
		c.metrics = metrics.New(metrics.WithRegistry(c.registry))
		return
	}
	c.metrics = metrics.New(metrics.WithProcessMetrics())
	c.registry = c.metrics.Registry()
}

func (c *Container) configureDocuments() error {
	cfg := c.Config
	if c.contentFS == nil {
		info, err := os.Stat(cfg.Content.Root)
		if err != nil {
			return fmt.Errorf("di: content root %s: %w", cfg.Content.Root, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("di: content root %s is not a directory", cfg.Content.Root)
		}
		c.contentFS = os.DirFS(cfg.Content.Root)
	}
	if c.configFS == nil {
		dir := strings.TrimSpace(cfg.Site.ConfigDir)
		if dir == "" {
			dir = "."
		}
		c.configFS = os.DirFS(dir)
	}

	opts := []markdown.ServiceOption{
		markdown.WithLogger(logging.MarkdownLogger(c.loggerProvider)),
		markdown.WithRenderObserver(c.metrics.ObserveRender),
	}
	if c.renderer != nil {
		opts = append(opts, markdown.WithRenderer(c.renderer))
	}
	documents, err := markdown.NewService(markdown.Config{
		FS:          c.contentFS,
		Pattern:     cfg.Content.Pattern,
		SnippetsDir: cfg.Content.SnippetsDir,
		Parser: interfaces.ParseOptions{
			Extensions: cfg.Markdown.Extensions,
			HardWraps:  cfg.Markdown.HardWraps,
			SafeMode:   cfg.Markdown.SafeMode,
		},
	}, opts...)
	if err != nil {
		return err
	}
	c.documents = documents
	return nil
}

func (c *Container) configureCache() {
	if !c.Config.Cache.Enabled {
		return
	}
	c.cache = cache.New(c.Config.Cache.TTL,
		cache.WithLogger(logging.CacheLogger(c.loggerProvider)),
		cache.WithObserver(c.metrics.CacheLookup),
	)
}

func (c *Container) configureContent() {
	cfg := c.Config
	policy, _ := content.ParseDuplicatePolicy(cfg.Content.DuplicateSlugs)

	opts := []content.ServiceOption{
		content.WithLogger(logging.ContentLogger(c.loggerProvider)),
		content.WithObserver(c.metrics.DocumentLoaded),
		content.WithConfigFS(c.configFS),
	}
	if c.cache != nil {
		opts = append(opts, content.WithCache(c.cache, c.documents.Loader().Stat))
	}

	c.content = content.NewService(content.Config{
		PostsDir:        cfg.Content.PostsDir,
		Pages:           cfg.Content.Pages,
		CVFile:          cfg.Content.CVFile,
		AuthorsFile:     cfg.Content.AuthorsFile,
		ReadMoreMarker:  cfg.Content.ReadMoreMarker,
		WordsPerMinute:  cfg.Content.WordsPerMinute,
		DuplicateSlugs:  policy,
		ShowDrafts:      cfg.Content.ShowDrafts,
		SiteConfigFile:  cfg.Site.SiteFile,
		PostsConfigFile: cfg.Site.PostsFile,
		Site: content.SiteSettings{
			URL:          cfg.Site.URL,
			Name:         cfg.Site.Name,
			Description:  cfg.Site.Description,
			DefaultImage: cfg.Site.DefaultImage,
		},
	}, c.documents, c.contentFS, opts...)
}

func (c *Container) configureContact() {
	cfg := c.Config.Contact
	if !cfg.Enabled {
		return
	}
	logger := logging.ContactLogger(c.loggerProvider)
	mailer := c.mailer
	if mailer == nil {
		if strings.TrimSpace(cfg.SMTPHost) != "" {
			mailer = contact.NewSMTPMailer(contact.SMTPConfig{
				Host:     cfg.SMTPHost,
				Port:     cfg.SMTPPort,
				Username: cfg.SMTPUsername,
				Password: cfg.SMTPPassword,
			})
		} else {
			logger.Warn("contact.mailer.log_only")
			mailer = contact.NewLogMailer(logger)
		}
	}
	c.mailer = mailer
	c.contact = contact.NewService(contact.Config{
		Recipient: cfg.Recipient,
		From:      cfg.From,
		Guard: contact.GuardConfig{
			MinFillTime:  cfg.MinFillTime,
			RateBurst:    cfg.RateBurst,
			RateInterval: cfg.RateInterval,
		},
	}, mailer,
		contact.WithLogger(logger),
		contact.WithObserver(c.metrics.ContactSubmission),
	)
}

func (c *Container) configureHTTP() error {
	httpLogger := logging.HTTPLogger(c.loggerProvider)
	apiOpts := []foliohttp.Option{
		foliohttp.WithContentService(c.content),
		foliohttp.WithLogger(httpLogger),
	}
	if c.contact != nil {
		apiOpts = append(apiOpts, foliohttp.WithContactService(c.contact))
	}
	c.api = foliohttp.NewAPI(apiOpts...)

	handlerOpts := []foliohttp.HandlerOption{
		foliohttp.WithHandlerLogger(httpLogger),
		foliohttp.WithRequestObserver(c.metrics.ObserveRequest),
	}
	if c.Config.Server.Metrics {
		handlerOpts = append(handlerOpts, foliohttp.WithMetricsHandler(c.metrics.Handler()))
	}
	handler, err := foliohttp.NewHandler(c.api, foliohttp.HandlerConfig{
		CanonicalHost: c.Config.Site.CanonicalHost,
		RedirectWWW:   c.Config.Site.RedirectWWW,
		CORSOrigins:   c.Config.Server.CORSOrigins,
		StaticDir:     c.Config.Server.StaticDir,
	}, handlerOpts...)
	if err != nil {
		return err
	}
	c.handler = handler
	return nil
}

// NewWatcher returns a watcher invalidating the document cache when files
// under the content root change. It is nil when watching is disabled.
func (c *Container) NewWatcher(opts ...cache.WatcherOption) *cache.Watcher {
	if c.cache == nil || !c.Config.Cache.Watch {
		return nil
	}
	base := []cache.WatcherOption{
		cache.WithDebounce(c.Config.Cache.Debounce),
		cache.WithWatcherLogger(logging.CacheLogger(c.loggerProvider)),
	}
	return cache.NewWatcher(c.Config.Content.Root, c.cache, append(base, opts...)...)
}

func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

func (c *Container) Logger() interfaces.Logger {
	return c.logger
}

func (c *Container) Metrics() *metrics.Metrics {
	return c.metrics
}

func (c *Container) Documents() *markdown.Service {
	return c.documents
}

// Cache is nil when caching is disabled.
func (c *Container) Cache() *cache.DocumentCache {
	return c.cache
}

func (c *Container) ContentService() *content.Service {
	return c.content
}

// ContactService is nil when the contact form is disabled.
func (c *Container) ContactService() *contact.Service {
	return c.contact
}

func (c *Container) API() *foliohttp.API {
	return c.api
}

func (c *Container) Handler() http.Handler {
	return c.handler
}
