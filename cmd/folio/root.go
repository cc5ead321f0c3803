package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	folio "github.com/goliatone/go-folio"
)

// envPrefix namespaces environment overrides, e.g. FOLIO_CONTENT_ROOT.
const envPrefix = "FOLIO"

var moduleBuilder = folio.New

type cli struct {
	configPath  string
	contentRoot string
	logLevel    string

	cfg folio.Config
	out io.Writer
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	app := &cli{out: out}

	root := &cobra.Command{
		Use:           "folio",
		Short:         "Serve a personal site from a directory of Markdown files",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(app.configPath)
			if err != nil {
				return err
			}
			if app.contentRoot != "" {
				cfg.Content.Root = app.contentRoot
			}
			if app.logLevel != "" {
				cfg.Logging.Level = app.logLevel
			}
			app.cfg = cfg
			return nil
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	root.PersistentFlags().StringVarP(&app.configPath, "config", "c", "", "config file (default is ./config.yaml)")
	root.PersistentFlags().StringVar(&app.contentRoot, "content", "", "content root directory")
	root.PersistentFlags().StringVar(&app.logLevel, "log-level", "", "log level (trace|debug|info|warn|error)")

	root.AddCommand(newServeCmd(app), newPostsCmd(app), newPreviewCmd(app))
	return root
}

func (c *cli) module() (*folio.Module, error) {
	module, err := moduleBuilder(c.cfg)
	if err != nil {
		return nil, fmt.Errorf("bootstrap module: %w", err)
	}
	return module, nil
}

// loadConfig layers defaults, an optional YAML file and FOLIO_ environment
// variables. An explicit path must exist; the implicit ./config.yaml may not.
func loadConfig(path string) (folio.Config, error) {
	v := viper.New()
	setDefaults(v, folio.DefaultConfig())

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return folio.Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := folio.DefaultConfig()
	if err := v.Unmarshal(&cfg); err != nil {
		return folio.Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can resolve it.
func setDefaults(v *viper.Viper, cfg folio.Config) {
	v.SetDefault("content.root", cfg.Content.Root)
	v.SetDefault("content.posts_dir", cfg.Content.PostsDir)
	v.SetDefault("content.snippets_dir", cfg.Content.SnippetsDir)
	v.SetDefault("content.authors_file", cfg.Content.AuthorsFile)
	v.SetDefault("content.cv_file", cfg.Content.CVFile)
	v.SetDefault("content.pages", cfg.Content.Pages)
	v.SetDefault("content.pattern", cfg.Content.Pattern)
	v.SetDefault("content.read_more_marker", cfg.Content.ReadMoreMarker)
	v.SetDefault("content.words_per_minute", cfg.Content.WordsPerMinute)
	v.SetDefault("content.duplicate_slugs", cfg.Content.DuplicateSlugs)
	v.SetDefault("content.show_drafts", cfg.Content.ShowDrafts)

	v.SetDefault("site.url", cfg.Site.URL)
	v.SetDefault("site.name", cfg.Site.Name)
	v.SetDefault("site.description", cfg.Site.Description)
	v.SetDefault("site.default_image", cfg.Site.DefaultImage)
	v.SetDefault("site.config_dir", cfg.Site.ConfigDir)
	v.SetDefault("site.site_file", cfg.Site.SiteFile)
	v.SetDefault("site.posts_file", cfg.Site.PostsFile)
	v.SetDefault("site.canonical_host", cfg.Site.CanonicalHost)
	v.SetDefault("site.redirect_www", cfg.Site.RedirectWWW)

	v.SetDefault("markdown.extensions", cfg.Markdown.Extensions)
	v.SetDefault("markdown.hard_wraps", cfg.Markdown.HardWraps)
	v.SetDefault("markdown.safe_mode", cfg.Markdown.SafeMode)

	v.SetDefault("server.addr", cfg.Server.Addr)
	v.SetDefault("server.static_dir", cfg.Server.StaticDir)
	v.SetDefault("server.cors_origins", cfg.Server.CORSOrigins)
	v.SetDefault("server.read_timeout", cfg.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", cfg.Server.WriteTimeout)
	v.SetDefault("server.shutdown_timeout", cfg.Server.ShutdownTimeout)
	v.SetDefault("server.metrics", cfg.Server.Metrics)

	v.SetDefault("cache.enabled", cfg.Cache.Enabled)
	v.SetDefault("cache.ttl", cfg.Cache.TTL)
	v.SetDefault("cache.watch", cfg.Cache.Watch)
	v.SetDefault("cache.debounce", cfg.Cache.Debounce)

	v.SetDefault("contact.enabled", cfg.Contact.Enabled)
	v.SetDefault("contact.recipient", cfg.Contact.Recipient)
	v.SetDefault("contact.from", cfg.Contact.From)
	v.SetDefault("contact.smtp_host", cfg.Contact.SMTPHost)
	v.SetDefault("contact.smtp_port", cfg.Contact.SMTPPort)
	v.SetDefault("contact.smtp_username", cfg.Contact.SMTPUsername)
	v.SetDefault("contact.smtp_password", cfg.Contact.SMTPPassword)
	v.SetDefault("contact.min_fill_time", cfg.Contact.MinFillTime)
	v.SetDefault("contact.rate_burst", cfg.Contact.RateBurst)
	v.SetDefault("contact.rate_interval", cfg.Contact.RateInterval)

	v.SetDefault("logging.provider", cfg.Logging.Provider)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("logging.add_source", cfg.Logging.AddSource)
	v.SetDefault("logging.color", cfg.Logging.Color)
	v.SetDefault("logging.focus", cfg.Logging.Focus)
}
