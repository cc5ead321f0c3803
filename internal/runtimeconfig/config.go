package runtimeconfig

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
)

var ErrContentRootRequired = errors.New("folio config: content root directory is required")
var ErrPostsDirRequired = errors.New("folio config: posts directory is required")
var ErrWordsPerMinuteInvalid = errors.New("folio config: words per minute must be zero or positive")
var ErrDuplicatePolicyInvalid = errors.New("folio config: duplicate slug policy is invalid")
var ErrSiteURLInvalid = errors.New("folio config: site url must be absolute")

// ErrCanonicalHostRequired guards the www redirect against an empty target.
var ErrCanonicalHostRequired = errors.New("folio config: canonical host is required when the www redirect is enabled")
var ErrServerAddrRequired = errors.New("folio config: server address is required")

// ErrCacheTTLInvalid ensures an enabled cache expires entries.
var ErrCacheTTLInvalid = errors.New("folio config: cache ttl must be positive when cache is enabled")
var ErrWatchRequiresCache = errors.New("folio config: content watching requires the cache to be enabled")
var ErrContactRecipientRequired = errors.New("folio config: contact recipient is required when contact is enabled")
var ErrContactAddressInvalid = errors.New("folio config: contact address is invalid")
var ErrContactSMTPHostRequired = errors.New("folio config: smtp host is required when a smtp port or username is set")
var ErrLoggingProviderRequired = errors.New("folio config: logging provider is required")
var ErrLoggingProviderUnknown = errors.New("folio config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("folio config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("folio config: logging format is invalid")

// Config aggregates every setting of the site module. Field tags follow the
// keys used in configuration files.
type Config struct {
	Content  ContentConfig  `mapstructure:"content"`
	Site     SiteConfig     `mapstructure:"site"`
	Markdown MarkdownConfig `mapstructure:"markdown"`
	Server   ServerConfig   `mapstructure:"server"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Contact  ContactConfig  `mapstructure:"contact"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ContentConfig locates content files relative to Root.
type ContentConfig struct {
	Root           string            `mapstructure:"root"`
	PostsDir       string            `mapstructure:"posts_dir"`
	SnippetsDir    string            `mapstructure:"snippets_dir"`
	AuthorsFile    string            `mapstructure:"authors_file"`
	CVFile         string            `mapstructure:"cv_file"`
	Pages          map[string]string `mapstructure:"pages"`
	Pattern        string            `mapstructure:"pattern"`
	ReadMoreMarker string            `mapstructure:"read_more_marker"`
	WordsPerMinute int               `mapstructure:"words_per_minute"`
	// DuplicateSlugs is "first-match" or "reject".
	DuplicateSlugs string `mapstructure:"duplicate_slugs"`
	ShowDrafts     bool   `mapstructure:"show_drafts"`
}

// SiteConfig captures site identity and the configuration documents read
// relative to ConfigDir.
type SiteConfig struct {
	URL          string `mapstructure:"url"`
	Name         string `mapstructure:"name"`
	Description  string `mapstructure:"description"`
	DefaultImage string `mapstructure:"default_image"`
	ConfigDir    string `mapstructure:"config_dir"`
	SiteFile     string `mapstructure:"site_file"`
	PostsFile    string `mapstructure:"posts_file"`
	// CanonicalHost is the apex host www requests redirect to.
	CanonicalHost string `mapstructure:"canonical_host"`
	RedirectWWW   bool   `mapstructure:"redirect_www"`
}

// MarkdownConfig mirrors interfaces.ParseOptions for runtime configuration.
type MarkdownConfig struct {
	Extensions []string `mapstructure:"extensions"`
	HardWraps  bool     `mapstructure:"hard_wraps"`
	SafeMode   bool     `mapstructure:"safe_mode"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	StaticDir       string        `mapstructure:"static_dir"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	Metrics         bool          `mapstructure:"metrics"`
}

// CacheConfig captures cache behaviour toggles.
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl"`
	Watch   bool          `mapstructure:"watch"`
	// Debounce groups file events before invalidating.
	Debounce time.Duration `mapstructure:"debounce"`
}

// ContactConfig addresses contact mail. An empty SMTP host logs messages
// instead of sending them.
type ContactConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Recipient    string        `mapstructure:"recipient"`
	From         string        `mapstructure:"from"`
	SMTPHost     string        `mapstructure:"smtp_host"`
	SMTPPort     int           `mapstructure:"smtp_port"`
	SMTPUsername string        `mapstructure:"smtp_username"`
	SMTPPassword string        `mapstructure:"smtp_password"`
	MinFillTime  time.Duration `mapstructure:"min_fill_time"`
	RateBurst    int           `mapstructure:"rate_burst"`
	RateInterval time.Duration `mapstructure:"rate_interval"`
}

// LoggingConfig selects the logger provider. Format is text or json for the
// console provider and json, console or pretty for gologger.
type LoggingConfig struct {
	Provider  string `mapstructure:"provider"`
	Level     string `mapstructure:"level"`
	Format    string `mapstructure:"format"`
	AddSource bool   `mapstructure:"add_source"`
	Color     bool   `mapstructure:"color"`
	// Focus limits gologger output to the named module loggers.
	Focus []string `mapstructure:"focus"`
}

// DefaultConfig returns the defaults for a site rooted at ./content.
func DefaultConfig() Config {
	return Config{
		Content: ContentConfig{
			Root:        "content",
			PostsDir:    "posts",
			SnippetsDir: "snippets",
			AuthorsFile: "authors.yml",
			CVFile:      "cv.md",
			Pages: map[string]string{
				"home":         "index.md",
				"about":        "about.md",
				"publications": "publications.md",
			},
			Pattern:        "*.md",
			ReadMoreMarker: "<!-- more -->",
			WordsPerMinute: 225,
			DuplicateSlugs: "first-match",
		},
		Site: SiteConfig{
			URL:          "http://localhost:8000",
			DefaultImage: "/static/assets/me-circle.png",
			ConfigDir:    ".",
			SiteFile:     "config/site.yml",
			PostsFile:    "config/posts.yml",
		},
		Markdown: MarkdownConfig{},
		Server: ServerConfig{
			Addr:            ":8000",
			StaticDir:       "static",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Metrics:         true,
		},
		Cache: CacheConfig{
			Enabled:  true,
			TTL:      10 * time.Minute,
			Watch:    false,
			Debounce: 500 * time.Millisecond,
		},
		Contact: ContactConfig{
			Enabled:      false,
			From:         "webmaster@localhost",
			SMTPPort:     587,
			MinFillTime:  3 * time.Second,
			RateBurst:    3,
			RateInterval: 10 * time.Minute,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
			Format:   "",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.Content.Root) == "" {
		return ErrContentRootRequired
	}
	if strings.TrimSpace(cfg.Content.PostsDir) == "" {
		return ErrPostsDirRequired
	}
	if cfg.Content.WordsPerMinute < 0 {
		return ErrWordsPerMinuteInvalid
	}
	if policy := strings.TrimSpace(cfg.Content.DuplicateSlugs); policy != "" && !isSupportedDuplicatePolicy(policy) {
		return fmt.Errorf("%w: %s", ErrDuplicatePolicyInvalid, policy)
	}
	if url := strings.TrimSpace(cfg.Site.URL); url != "" && !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return fmt.Errorf("%w: %s", ErrSiteURLInvalid, url)
	}
	if cfg.Site.RedirectWWW && strings.TrimSpace(cfg.Site.CanonicalHost) == "" {
		return ErrCanonicalHostRequired
	}
	if strings.TrimSpace(cfg.Server.Addr) == "" {
		return ErrServerAddrRequired
	}
	if cfg.Cache.Enabled && cfg.Cache.TTL <= 0 {
		return ErrCacheTTLInvalid
	}
	if cfg.Cache.Watch && !cfg.Cache.Enabled {
		return ErrWatchRequiresCache
	}
	if err := cfg.Contact.validate(); err != nil {
		return err
	}
	return cfg.Logging.validate()
}

func (cfg ContactConfig) validate() error {
	if !cfg.Enabled {
		return nil
	}
	recipient := strings.TrimSpace(cfg.Recipient)
	if recipient == "" {
		return ErrContactRecipientRequired
	}
	if _, err := mail.ParseAddress(recipient); err != nil {
		return fmt.Errorf("%w: recipient %s", ErrContactAddressInvalid, recipient)
	}
	if from := strings.TrimSpace(cfg.From); from != "" {
		if _, err := mail.ParseAddress(from); err != nil {
			return fmt.Errorf("%w: from %s", ErrContactAddressInvalid, from)
		}
	}
	if strings.TrimSpace(cfg.SMTPHost) == "" && strings.TrimSpace(cfg.SMTPUsername) != "" {
		return ErrContactSMTPHostRequired
	}
	return nil
}

func (cfg LoggingConfig) validate() error {
	provider := normalizeProvider(cfg.Provider)
	if provider == "" {
		return ErrLoggingProviderRequired
	}
	if !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := strings.TrimSpace(cfg.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if format := strings.TrimSpace(cfg.Format); format != "" && !isSupportedFormat(provider, format) {
		return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
	}
	return nil
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedDuplicatePolicy(policy string) bool {
	switch strings.ToLower(policy) {
	case "first-match", "reject":
		return true
	default:
		return false
	}
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

// isSupportedFormat checks format against the encodings provider offers.
func isSupportedFormat(provider, format string) bool {
	format = strings.ToLower(format)
	if provider == "gologger" {
		return format == "json" || format == "console" || format == "pretty"
	}
	return format == "text" || format == "json"
}
