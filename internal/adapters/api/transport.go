package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// RequestIDHeader carries the per-request id sent to the backend and logged locally.
const RequestIDHeader = "X-Request-ID"

// loggingTransport logs each request with method, path, status, duration and request id.
// It does not log request or response bodies, which may hold base64 images.
type loggingTransport struct {
	next   http.RoundTripper
	logger *slog.Logger
}

// NewLoggingTransport wraps next (http.DefaultTransport when nil).
func NewLoggingTransport(logger *slog.Logger, next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return &loggingTransport{next: next, logger: logger}
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	id := req.Header.Get(RequestIDHeader)
	if id == "" {
		id = uuid.NewString()
		req = req.Clone(req.Context())
		req.Header.Set(RequestIDHeader, id)
	}
	start := time.Now()
	resp, err := t.next.RoundTrip(req)
	duration := time.Since(start)
	if err != nil {
		t.logger.WarnContext(req.Context(), "request failed",
			"method", req.Method,
			"path", req.URL.Path,
			"request_id", id,
			"duration_ms", duration.Milliseconds(),
			"err", err,
		)
		return nil, err
	}
	t.logger.InfoContext(req.Context(), "request",
		"method", req.Method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"request_id", id,
		"duration_ms", duration.Milliseconds(),
	)
	return resp, nil
}
