// Package metrics exposes Prometheus instruments for the content pipeline,
// the document cache, the contact form and the HTTP API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "folio"

// Metrics holds every instrument. All of them are registered on a private
// registry so several modules can live in one process, such as in tests.
type Metrics struct {
	registry *prometheus.Registry

	DocumentsLoaded    *prometheus.CounterVec
	CacheLookups       *prometheus.CounterVec
	RenderSeconds      prometheus.Histogram
	ContactSubmissions *prometheus.CounterVec
	HTTPRequests       *prometheus.CounterVec
	HTTPDuration       *prometheus.HistogramVec
}

// Option customises New.
type Option func(*options)

type options struct {
	registry       *prometheus.Registry
	processMetrics bool
}

// WithRegistry registers the instruments on registry instead of a new one.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(o *options) {
		o.registry = registry
	}
}

// WithProcessMetrics adds the Go runtime and process collectors.
func WithProcessMetrics() Option {
	return func(o *options) {
		o.processMetrics = true
	}
}

// New creates and registers the instruments.
func New(opts ...Option) *Metrics {
	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	registry := cfg.registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.processMetrics {
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		DocumentsLoaded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "documents_loaded_total",
				Help:      "Documents read and assembled from the content directory",
			},
			[]string{"kind"},
		),
		CacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "document_cache_total",
				Help:      "Document cache lookups by result",
			},
			[]string{"result"},
		),
		RenderSeconds: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "render_seconds",
				Help:      "Duration of Markdown renders in seconds",
				Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
			},
		),
		ContactSubmissions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "contact_submissions_total",
				Help:      "Contact form submissions by outcome",
			},
			[]string{"outcome"},
		),
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by route and status code",
			},
			[]string{"route", "code"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route"},
		),
	}
}

// Registry returns the registry holding the instruments.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// DocumentLoaded counts one assembled document of kind.
func (m *Metrics) DocumentLoaded(kind string) {
	if m == nil {
		return
	}
	m.DocumentsLoaded.WithLabelValues(kind).Inc()
}

// CacheLookup counts a cache hit or miss.
func (m *Metrics) CacheLookup(result string) {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}

// ObserveRender records a Markdown render duration.
func (m *Metrics) ObserveRender(d time.Duration) {
	if m == nil {
		return
	}
	m.RenderSeconds.Observe(d.Seconds())
}

// ContactSubmission counts a contact submission outcome.
func (m *Metrics) ContactSubmission(outcome string) {
	if m == nil {
		return
	}
	m.ContactSubmissions.WithLabelValues(outcome).Inc()
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(route string, code int, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	m.HTTPDuration.WithLabelValues(route).Observe(d.Seconds())
}
