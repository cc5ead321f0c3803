package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/goliatone/go-folio/internal/contact"
	"github.com/goliatone/go-folio/internal/content"
	"github.com/goliatone/go-folio/internal/logging"
	"github.com/goliatone/go-folio/pkg/interfaces"
)

// ContentReader is the read side consumed by the API.
type ContentReader interface {
	Home(ctx context.Context) (*content.HomeView, error)
	About(ctx context.Context) (*content.AboutView, error)
	Page(ctx context.Context, key string) (*content.PageContent, error)
	CV(ctx context.Context) (*content.CVContent, error)
	Posts(ctx context.Context) ([]*content.PostContent, error)
	PostsByTag(ctx context.Context, tag string) ([]*content.PostContent, error)
	PostDetail(ctx context.Context, slug string) (*content.PostDetail, error)
	SEO(requestPath string) content.SEO
}

// ContactSubmitter accepts contact form submissions.
type ContactSubmitter interface {
	Submit(ctx context.Context, clientKey string, sub contact.Submission) (contact.Status, error)
}

var (
	_ ContentReader    = (*content.Service)(nil)
	_ ContactSubmitter = (*contact.Service)(nil)
)

// API registers the public site endpoints.
type API struct {
	basePath string
	content  ContentReader
	contact  ContactSubmitter
	logger   interfaces.Logger
}

// Option mutates the API configuration.
type Option func(*API)

// NewAPI constructs an API instance.
func NewAPI(opts ...Option) *API {
	api := &API{
		basePath: "/api",
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	return api
}

// WithBasePath overrides the base API path (defaults to "/api").
func WithBasePath(path string) Option {
	return func(api *API) {
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			api.basePath = trimmed
		}
	}
}

// WithContentService wires the content reader.
func WithContentService(service ContentReader) Option {
	return func(api *API) {
		api.content = service
	}
}

// WithContactService wires the contact form handler.
func WithContactService(service ContactSubmitter) Option {
	return func(api *API) {
		api.contact = service
	}
}

// WithLogger sets the logger used by handlers.
func WithLogger(logger interfaces.Logger) Option {
	return func(api *API) {
		if logger != nil {
			api.logger = logger
		}
	}
}

// Register attaches the API endpoints to the provided mux.
func (api *API) Register(mux *http.ServeMux) error {
	if mux == nil {
		return fmt.Errorf("http: mux is required")
	}
	if api.content == nil {
		return fmt.Errorf("http: content service is required")
	}

	mux.HandleFunc("GET "+joinPath(api.basePath, "home"), api.handleHome)
	mux.HandleFunc("GET "+joinPath(api.basePath, "about"), api.handleAbout)
	mux.HandleFunc("GET "+joinPath(api.basePath, "cv"), api.handleCV)
	mux.HandleFunc("GET "+joinPath(api.basePath, "pages/{key}"), api.handlePage)
	mux.HandleFunc("GET "+joinPath(api.basePath, "posts"), api.handlePostList)
	mux.HandleFunc("GET "+joinPath(api.basePath, "posts/{slug}"), api.handlePostGet)
	mux.HandleFunc("GET "+joinPath(api.basePath, "{slug}"), api.handlePostGet)
	mux.HandleFunc("POST "+joinPath(api.basePath, "contact"), api.handleContact)
	return nil
}
