package http

import (
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/goliatone/go-folio/internal/logging"
	"github.com/goliatone/go-folio/pkg/interfaces"
	"github.com/google/uuid"
	"github.com/rs/cors"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

// Middleware wraps a handler.
type Middleware func(http.Handler) http.Handler

// Chain applies middlewares so the first one listed runs first.
func Chain(handler http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		if middlewares[i] != nil {
			handler = middlewares[i](handler)
		}
	}
	return handler
}

// RequestObserver receives the matched route pattern, the status code and
// the duration of every request.
type RequestObserver func(route string, code int, duration time.Duration)

type statusRecorder struct {
	http.ResponseWriter
	status  int
	written bool
}

func (rw *statusRecorder) WriteHeader(code int) {
	if !rw.written {
		rw.status = code
		rw.written = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *statusRecorder) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

func (rw *statusRecorder) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// RequestID propagates or assigns a request id and stores it on the request
// context for loggers.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get(RequestIDHeader))
			if id == "" || len(id) > 128 {
				id = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, id)
			ctx := logging.ContextWithRequestID(r.Context(), id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AccessLog logs each request once it completes and reports it to observe.
// It must wrap the mux directly so the matched pattern is visible.
func AccessLog(logger interfaces.Logger, observe RequestObserver) Middleware {
	if logger == nil {
		logger = logging.NoOp()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			started := time.Now()
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(recorder, r)
			elapsed := time.Since(started)

			route := r.Pattern
			if route == "" {
				route = "unmatched"
			}
			if observe != nil {
				observe(route, recorder.status, elapsed)
			}

			log := logging.ForRequest(r.Context(), logger)
			args := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"route", route,
				"status", recorder.status,
				"duration_ms", elapsed.Milliseconds(),
				"remote_ip", clientIP(r),
			}
			if recorder.status >= http.StatusInternalServerError {
				log.Error("http.request.completed", args...)
				return
			}
			log.Info("http.request.completed", args...)
		})
	}
}

// CanonicalHost permanently redirects GET and HEAD requests addressed to
// www.<host> to <host>, keeping the scheme, path and query.
func CanonicalHost(host string) Middleware {
	canonical := strings.ToLower(strings.TrimSpace(host))
	return func(next http.Handler) http.Handler {
		if canonical == "" {
			return next
		}
		www := "www." + canonical
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestHost, _, _ := strings.Cut(r.Host, ":")
			requestHost = strings.ToLower(strings.TrimSpace(requestHost))
			if requestHost == www && (r.Method == http.MethodGet || r.Method == http.MethodHead) {
				http.Redirect(w, r, requestScheme(r)+"://"+canonical+r.URL.RequestURI(), http.StatusMovedPermanently)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func requestScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https") {
		return "https"
	}
	return "http"
}

// CORS allows the listed origins to call the API. No origins disables it.
func CORS(origins []string) Middleware {
	if len(origins) == 0 {
		return nil
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
		MaxAge:         300,
	})
	return c.Handler
}

// Recover turns panics into 500 responses.
func Recover(logger interfaces.Logger) Middleware {
	if logger == nil {
		logger = logging.NoOp()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.WithContext(r.Context()).Error("http.request.panic",
					"path", r.URL.Path,
					"panic", rec,
					"stack", string(debug.Stack()),
				)
				writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal_error"})
			}()
			next.ServeHTTP(w, r)
		})
	}
}
