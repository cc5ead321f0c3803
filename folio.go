// Package folio serves a personal website's posts, pages and CV from a
// directory of Markdown files, with a contact form and a JSON API.
package folio

import (
	"net/http"

	"github.com/goliatone/go-folio/internal/cache"
	"github.com/goliatone/go-folio/internal/contact"
	"github.com/goliatone/go-folio/internal/content"
	"github.com/goliatone/go-folio/internal/di"
)

// ContentService exports the content service for consumers of the folio package.
type ContentService = *content.Service

// ContactService exports the contact form service.
type ContactService = *contact.Service

// DocumentCache exports the assembled document cache.
type DocumentCache = *cache.DocumentCache

// Mailer exports the contact mail contract.
type Mailer = contact.Mailer

// Option configures New.
type Option = di.Option

var (
	// WithLoggerProvider overrides the provider built from the logging config.
	WithLoggerProvider = di.WithLoggerProvider
	// WithMailer overrides the mailer built from the contact config.
	WithMailer = di.WithMailer
	// WithRegistry registers metrics on a caller supplied registry.
	WithRegistry = di.WithRegistry
	// WithFilesystem reads content from an fs.FS instead of the content root.
	WithFilesystem = di.WithFilesystem
	// WithConfigFilesystem reads site configuration documents from an fs.FS.
	WithConfigFilesystem = di.WithConfigFilesystem
	// WithMarkdownRenderer replaces the goldmark renderer.
	WithMarkdownRenderer = di.WithMarkdownRenderer
)

// Module represents the top level site runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a Module using the provided configuration and options.
func New(cfg Config, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Config returns the validated configuration.
func (m *Module) Config() Config {
	return m.container.Config
}

// Content returns the content service.
func (m *Module) Content() ContentService {
	return m.container.ContentService()
}

// Contact returns the contact service, or nil when the form is disabled.
func (m *Module) Contact() ContactService {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.ContactService()
}

// Cache returns the document cache, or nil when caching is disabled.
func (m *Module) Cache() DocumentCache {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Cache()
}

// Handler returns the HTTP handler serving the API.
func (m *Module) Handler() http.Handler {
	return m.container.Handler()
}

// Watcher returns a content watcher when cache watching is enabled.
func (m *Module) Watcher() *cache.Watcher {
	return m.container.NewWatcher()
}
