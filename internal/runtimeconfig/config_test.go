package runtimeconfig_test

import (
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-folio/internal/runtimeconfig"
)

func TestConfigValidate_DefaultsAreValid(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
}

func TestConfigValidate_Errors(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*runtimeconfig.Config)
		want   error
	}{
		{
			name:   "content root",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Content.Root = " " },
			want:   runtimeconfig.ErrContentRootRequired,
		},
		{
			name:   "posts dir",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Content.PostsDir = "" },
			want:   runtimeconfig.ErrPostsDirRequired,
		},
		{
			name:   "words per minute",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Content.WordsPerMinute = -1 },
			want:   runtimeconfig.ErrWordsPerMinuteInvalid,
		},
		{
			name:   "duplicate policy",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Content.DuplicateSlugs = "last-wins" },
			want:   runtimeconfig.ErrDuplicatePolicyInvalid,
		},
		{
			name:   "site url",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Site.URL = "example.com" },
			want:   runtimeconfig.ErrSiteURLInvalid,
		},
		{
			name: "canonical host",
			mutate: func(cfg *runtimeconfig.Config) {
				cfg.Site.RedirectWWW = true
				cfg.Site.CanonicalHost = ""
			},
			want: runtimeconfig.ErrCanonicalHostRequired,
		},
		{
			name:   "server addr",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Server.Addr = "" },
			want:   runtimeconfig.ErrServerAddrRequired,
		},
		{
			name:   "cache ttl",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Cache.TTL = 0 },
			want:   runtimeconfig.ErrCacheTTLInvalid,
		},
		{
			name: "watch without cache",
			mutate: func(cfg *runtimeconfig.Config) {
				cfg.Cache.Enabled = false
				cfg.Cache.Watch = true
			},
			want: runtimeconfig.ErrWatchRequiresCache,
		},
		{
			name:   "contact recipient",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Contact.Enabled = true },
			want:   runtimeconfig.ErrContactRecipientRequired,
		},
		{
			name: "contact address",
			mutate: func(cfg *runtimeconfig.Config) {
				cfg.Contact.Enabled = true
				cfg.Contact.Recipient = "not-an-address"
			},
			want: runtimeconfig.ErrContactAddressInvalid,
		},
		{
			name: "smtp host",
			mutate: func(cfg *runtimeconfig.Config) {
				cfg.Contact.Enabled = true
				cfg.Contact.Recipient = "owner@example.com"
				cfg.Contact.SMTPUsername = "user"
			},
			want: runtimeconfig.ErrContactSMTPHostRequired,
		},
		{
			name:   "logging provider",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Logging.Provider = "" },
			want:   runtimeconfig.ErrLoggingProviderRequired,
		},
		{
			name:   "unknown provider",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Logging.Provider = "syslog" },
			want:   runtimeconfig.ErrLoggingProviderUnknown,
		},
		{
			name:   "logging level",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Logging.Level = "loud" },
			want:   runtimeconfig.ErrLoggingLevelInvalid,
		},
		{
			name: "logging format",
			mutate: func(cfg *runtimeconfig.Config) {
				cfg.Logging.Provider = "gologger"
				cfg.Logging.Format = "xml"
			},
			want: runtimeconfig.ErrLoggingFormatInvalid,
		},
		{
			name:   "console logging format",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Logging.Format = "pretty" },
			want:   runtimeconfig.ErrLoggingFormatInvalid,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := runtimeconfig.DefaultConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestConfigValidate_AllowsDisabledCacheWithoutTTL(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Cache.Enabled = false
	cfg.Cache.TTL = 0

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
}

func TestConfigValidate_AcceptsConfiguredContact(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Contact.Enabled = true
	cfg.Contact.Recipient = "Owner <owner@example.com>"
	cfg.Contact.SMTPHost = "smtp.example.com"
	cfg.Contact.SMTPUsername = "user"

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
}

func TestDefaultConfig_Values(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	if cfg.Content.ReadMoreMarker != "<!-- more -->" {
		t.Fatalf("unexpected marker %q", cfg.Content.ReadMoreMarker)
	}
	if cfg.Content.Pages["about"] != "about.md" {
		t.Fatalf("unexpected pages %v", cfg.Content.Pages)
	}
	if cfg.Cache.TTL != 10*time.Minute || cfg.Cache.Debounce != 500*time.Millisecond {
		t.Fatalf("unexpected cache defaults %+v", cfg.Cache)
	}
	if cfg.Contact.MinFillTime != 3*time.Second {
		t.Fatalf("unexpected contact defaults %+v", cfg.Contact)
	}
}
