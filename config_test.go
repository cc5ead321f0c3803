package folio_test

import (
	"errors"
	"testing"

	"github.com/goliatone/go-folio"
)

func TestConfigValidateWatchRequiresCache(t *testing.T) {
	cfg := folio.DefaultConfig()
	cfg.Cache.Enabled = false
	cfg.Cache.Watch = true
	if err := cfg.Validate(); !errors.Is(err, folio.ErrWatchRequiresCache) {
		t.Fatalf("expected ErrWatchRequiresCache, got %v", err)
	}
}

func TestConfigValidateRedirectRequiresCanonicalHost(t *testing.T) {
	cfg := folio.DefaultConfig()
	cfg.Site.RedirectWWW = true

	if err := cfg.Validate(); !errors.Is(err, folio.ErrCanonicalHostRequired) {
		t.Fatalf("expected ErrCanonicalHostRequired, got %v", err)
	}
}

func TestConfigValidateContactRequiresRecipient(t *testing.T) {
	cfg := folio.DefaultConfig()
	cfg.Contact.Enabled = true

	if err := cfg.Validate(); !errors.Is(err, folio.ErrContactRecipientRequired) {
		t.Fatalf("expected ErrContactRecipientRequired, got %v", err)
	}
}
