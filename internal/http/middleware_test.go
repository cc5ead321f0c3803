package http

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

type observedRequest struct {
	route string
	code  int
}

func newTestHandler(t *testing.T, cfg HandlerConfig, observed *[]observedRequest) http.Handler {
	t.Helper()
	api := NewAPI(WithContentService(newContentService(t)))
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("folio_up 1\n"))
	})
	handler, err := NewHandler(api, cfg,
		WithMetricsHandler(metrics),
		WithRequestObserver(func(route string, code int, _ time.Duration) {
			if observed != nil {
				*observed = append(*observed, observedRequest{route: route, code: code})
			}
		}),
	)
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	return handler
}

func TestHandlerHealthAndMetrics(t *testing.T) {
	handler := newTestHandler(t, HandlerConfig{}, nil)

	rec := doJSONRequest(t, handler, http.MethodGet, "/healthz", nil, http.StatusOK)
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Fatalf("unexpected health body %s", rec.Body.String())
	}
	rec = doJSONRequest(t, handler, http.MethodGet, "/metrics", nil, http.StatusOK)
	if !strings.Contains(rec.Body.String(), "folio_up") {
		t.Fatalf("unexpected metrics body %s", rec.Body.String())
	}
}

func TestHandlerAssignsAndPropagatesRequestID(t *testing.T) {
	handler := newTestHandler(t, HandlerConfig{}, nil)

	rec := doJSONRequest(t, handler, http.MethodGet, "/healthz", nil, http.StatusOK)
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Fatalf("expected generated request id")
	}

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIDHeader); got != "req-42" {
		t.Fatalf("expected propagated request id, got %q", got)
	}
}

func TestHandlerObservesRoutePatterns(t *testing.T) {
	var observed []observedRequest
	handler := newTestHandler(t, HandlerConfig{}, &observed)

	doJSONRequest(t, handler, http.MethodGet, "/api/posts/hello", nil, http.StatusOK)
	doJSONRequest(t, handler, http.MethodGet, "/nowhere", nil, http.StatusNotFound)

	if len(observed) != 2 {
		t.Fatalf("expected 2 observations, got %+v", observed)
	}
	if observed[0].route != "GET /api/posts/{slug}" || observed[0].code != http.StatusOK {
		t.Fatalf("unexpected first observation %+v", observed[0])
	}
	if observed[1].route != "unmatched" || observed[1].code != http.StatusNotFound {
		t.Fatalf("unexpected second observation %+v", observed[1])
	}
}

func TestCanonicalHostRedirect(t *testing.T) {
	handler := newTestHandler(t, HandlerConfig{CanonicalHost: "Example.com", RedirectWWW: true}, nil)

	cases := []struct {
		name     string
		method   string
		host     string
		target   string
		proto    string
		wantCode int
		wantLoc  string
	}{
		{name: "get", method: http.MethodGet, host: "www.example.com", target: "/api/posts?tag=go", wantCode: http.StatusMovedPermanently, wantLoc: "http://example.com/api/posts?tag=go"},
		{name: "head with port", method: http.MethodHead, host: "WWW.example.com:8000", target: "/healthz", wantCode: http.StatusMovedPermanently, wantLoc: "http://example.com/healthz"},
		{name: "forwarded https", method: http.MethodGet, host: "www.example.com", target: "/", proto: "https", wantCode: http.StatusMovedPermanently, wantLoc: "https://example.com/"},
		{name: "post passes", method: http.MethodPost, host: "www.example.com", target: "/api/contact", wantCode: http.StatusServiceUnavailable},
		{name: "apex passes", method: http.MethodGet, host: "example.com", target: "/healthz", wantCode: http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.target, strings.NewReader("{}"))
			req.Host = tc.host
			if tc.proto != "" {
				req.Header.Set("X-Forwarded-Proto", tc.proto)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tc.wantCode {
				t.Fatalf("expected %d got %d", tc.wantCode, rec.Code)
			}
			if tc.wantLoc != "" && rec.Header().Get("Location") != tc.wantLoc {
				t.Fatalf("expected location %q got %q", tc.wantLoc, rec.Header().Get("Location"))
			}
		})
	}
}

func TestCanonicalHostDisabledWithoutFlag(t *testing.T) {
	handler := newTestHandler(t, HandlerConfig{CanonicalHost: "example.com"}, nil)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Host = "www.example.com"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected no redirect, got %d", rec.Code)
	}
}

func TestCORSAllowsConfiguredOrigins(t *testing.T) {
	handler := newTestHandler(t, HandlerConfig{CORSOrigins: []string{"https://app.example.com"}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Fatalf("expected allowed origin, got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	req.Header.Set("Origin", "https://evil.example.net")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected no cors header, got %q", got)
	}
}

func TestStaticFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "assets"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "assets", "site.css"), []byte("body{}"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	handler := newTestHandler(t, HandlerConfig{StaticDir: dir}, nil)

	rec := doJSONRequest(t, handler, http.MethodGet, "/static/assets/site.css", nil, http.StatusOK)
	if rec.Body.String() != "body{}" {
		t.Fatalf("unexpected static body %q", rec.Body.String())
	}
}

func TestRecoverReturnsInternalError(t *testing.T) {
	handler := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}), Recover(nil))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", rec.Code)
	}
}

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	handler := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "handler")
	}), mark("first"), nil, mark("second"))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if strings.Join(order, ",") != "first,second,handler" {
		t.Fatalf("unexpected order %v", order)
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:5555"
	if got := clientIP(req); got != "192.0.2.1" {
		t.Fatalf("expected remote host, got %q", got)
	}
	req.Header.Set("X-Real-IP", "198.51.100.4")
	if got := clientIP(req); got != "198.51.100.4" {
		t.Fatalf("expected real ip, got %q", got)
	}
	req.Header.Set("X-Forwarded-For", " 203.0.113.5 , 10.0.0.1")
	if got := clientIP(req); got != "203.0.113.5" {
		t.Fatalf("expected first forwarded address, got %q", got)
	}
}
