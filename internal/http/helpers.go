package http

import (
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const maxBodyBytes = 64 << 10

type errorResponse struct {
	Error    string            `json:"error"`
	Code     string            `json:"code,omitempty"`
	Message  string            `json:"message,omitempty"`
	Fields   map[string]string `json:"fields,omitempty"`
	Metadata map[string]any    `json:"metadata,omitempty"`
}

// joinPath joins route segments under a single leading slash.
func joinPath(base, suffix string) string {
	parts := make([]string, 0, 2)
	for _, part := range []string{base, suffix} {
		if part = strings.Trim(strings.TrimSpace(part), "/"); part != "" {
			parts = append(parts, part)
		}
	}
	return "/" + strings.Join(parts, "/")
}

func decodeJSON(w http.ResponseWriter, r *http.Request, target any) error {
	if r == nil || r.Body == nil {
		return io.EOF
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := decoder.Decode(target); err != nil {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	status, payload := mapError(err)
	writeJSON(w, status, payload)
}

// mapError translates go-errors categories into HTTP statuses. Internal
// failures never leak their message.
func mapError(err error) (int, errorResponse) {
	if err == nil {
		return http.StatusInternalServerError, errorResponse{Error: "unknown_error"}
	}

	var typed *goerrors.Error
	if !goerrors.As(err, &typed) {
		return http.StatusInternalServerError, errorResponse{Error: "internal_error"}
	}

	payload := errorResponse{Code: typed.TextCode, Message: typed.Message}
	switch typed.Category {
	case goerrors.CategoryNotFound:
		payload.Error = "not_found"
		return http.StatusNotFound, payload
	case goerrors.CategoryValidation:
		payload.Error = "validation_failed"
		payload.Fields = typed.ValidationMap()
		return http.StatusUnprocessableEntity, payload
	case goerrors.CategoryBadInput:
		payload.Error = "bad_request"
		return http.StatusBadRequest, payload
	case goerrors.CategoryConflict:
		payload.Error = "conflict"
		payload.Metadata = typed.Metadata
		return http.StatusConflict, payload
	case goerrors.CategoryRateLimit:
		payload.Error = "rate_limited"
		return http.StatusTooManyRequests, payload
	case goerrors.CategoryExternal:
		payload.Error = "upstream_error"
		return http.StatusBadGateway, payload
	default:
		return http.StatusInternalServerError, errorResponse{Error: "internal_error", Code: typed.TextCode}
	}
}

// clientIP returns the first address of X-Forwarded-For, then X-Real-IP, then
// the connection's remote host.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
