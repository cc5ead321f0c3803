package http

import (
	"net/http"
	"os"
	"strings"

	"github.com/goliatone/go-folio/internal/logging"
	"github.com/goliatone/go-folio/pkg/interfaces"
)

// HandlerConfig controls the surface around the API routes.
type HandlerConfig struct {
	// CanonicalHost enables the www to apex redirect when RedirectWWW is set.
	CanonicalHost string
	RedirectWWW   bool
	CORSOrigins   []string
	// StaticDir is served under /static/ when it exists.
	StaticDir string
}

type handlerOptions struct {
	logger  interfaces.Logger
	metrics http.Handler
	observe RequestObserver
}

// HandlerOption customises NewHandler.
type HandlerOption func(*handlerOptions)

// WithHandlerLogger sets the logger used by the middleware.
func WithHandlerLogger(logger interfaces.Logger) HandlerOption {
	return func(o *handlerOptions) {
		o.logger = logger
	}
}

// WithMetricsHandler serves handler on GET /metrics.
func WithMetricsHandler(handler http.Handler) HandlerOption {
	return func(o *handlerOptions) {
		o.metrics = handler
	}
}

// WithRequestObserver reports every completed request.
func WithRequestObserver(observe RequestObserver) HandlerOption {
	return func(o *handlerOptions) {
		o.observe = observe
	}
}

// NewHandler registers api with the health, metrics and static routes and
// wraps the result in the standard middleware stack.
func NewHandler(api *API, cfg HandlerConfig, opts ...HandlerOption) (http.Handler, error) {
	options := handlerOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}
	logger := options.logger
	if logger == nil {
		logger = logging.NoOp()
	}

	mux := http.NewServeMux()
	if err := api.Register(mux); err != nil {
		return nil, err
	}
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if options.metrics != nil {
		mux.Handle("GET /metrics", options.metrics)
	}
	if dir := strings.TrimSpace(cfg.StaticDir); dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(dir))))
		} else {
			logger.Warn("http.static.unavailable", "dir", dir)
		}
	}

	var canonical Middleware
	if cfg.RedirectWWW {
		canonical = CanonicalHost(cfg.CanonicalHost)
	}
	return Chain(mux,
		Recover(logger),
		canonical,
		CORS(cfg.CORSOrigins),
		RequestID(),
		AccessLog(logger, options.observe),
	), nil
}
