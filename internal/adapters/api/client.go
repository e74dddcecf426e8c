// Package api is the HTTP service layer for the event-management backend.
// Every call returns a domain.Result; transport and status failures never
// escape as errors.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"eventtracks/internal/domain"
)

// DefaultBaseURL is the deployed backend.
const DefaultBaseURL = "https://horizzon-backend.onrender.com"

const (
	defaultTimeout  = 30 * time.Second
	maxResponseSize = 64 << 20
)

// Client calls the backend REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

var _ domain.EventsAPI = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client. Its transport is used as is.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithLogger sets the logger used for request logging.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient returns a Client for baseURL (DefaultBaseURL when empty). Unless an
// HTTP client is supplied, requests go through a logging transport with the
// given timeout (30s when zero).
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{
			Timeout:   timeout,
			Transport: NewLoggingTransport(c.logger, nil),
		}
	}
	return c
}

func (c *Client) ListEventTracks(ctx context.Context) domain.Result {
	return c.do(ctx, http.MethodGet, "/all-event-tracks", nil)
}

func (c *Client) ListEvents(ctx context.Context) domain.Result {
	return c.do(ctx, http.MethodGet, "/all-events", nil)
}

func (c *Client) ListFeedbacks(ctx context.Context) domain.Result {
	return c.do(ctx, http.MethodGet, "/all-feedbacks", nil)
}

func (c *Client) FullData(ctx context.Context) domain.Result {
	return c.do(ctx, http.MethodGet, "/full-data", nil)
}

func (c *Client) GetEventTrack(ctx context.Context, id int64) domain.Result {
	return c.do(ctx, http.MethodGet, "/event-track-byid/"+strconv.FormatInt(id, 10), nil)
}

func (c *Client) GetEvent(ctx context.Context, id int64) domain.Result {
	return c.do(ctx, http.MethodGet, "/event-byid/"+strconv.FormatInt(id, 10), nil)
}

func (c *Client) CreateEventTrack(ctx context.Context, req domain.CreateEventTrackRequest) domain.Result {
	return c.do(ctx, http.MethodPost, "/event-track", CreateEventTrackBody(req))
}

func (c *Client) CreateEvent(ctx context.Context, req domain.CreateEventRequest) domain.Result {
	return c.do(ctx, http.MethodPost, "/event", CreateEventBody(req))
}

func (c *Client) SendFeedback(ctx context.Context, req domain.FeedbackRequest) domain.Result {
	return c.do(ctx, http.MethodPost, "/feedback", req)
}

func (c *Client) EditEventTrack(ctx context.Context, patch domain.EventTrackPatch) domain.Result {
	return c.do(ctx, http.MethodPost, "/event-track-edit", EditEventTrackBody(patch))
}

func (c *Client) EditEvent(ctx context.Context, patch domain.EventPatch) domain.Result {
	return c.do(ctx, http.MethodPost, "/event-edit", EditEventBody(patch))
}

func (c *Client) DeleteFeedback(ctx context.Context, id int64) domain.Result {
	return c.do(ctx, http.MethodDelete, "/delete-feedback/"+strconv.FormatInt(id, 10), nil)
}

func (c *Client) DeleteEvent(ctx context.Context, id int64) domain.Result {
	return c.do(ctx, http.MethodDelete, "/delete-event/"+strconv.FormatInt(id, 10), nil)
}

func (c *Client) DeleteEventTrack(ctx context.Context, id int64) domain.Result {
	return c.do(ctx, http.MethodDelete, "/delete-event-track/"+strconv.FormatInt(id, 10), nil)
}

func (c *Client) do(ctx context.Context, method, path string, body any) domain.Result {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return domain.Fail(fmt.Errorf("encode request body: %w", err))
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return domain.Fail(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Fail(fmt.Errorf("%w: %w", domain.ErrNetwork, err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return domain.Fail(fmt.Errorf("%w: read response: %w", domain.ErrNetwork, err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.Fail(&domain.HTTPError{Status: resp.StatusCode, Message: errorMessage(resp.StatusCode, raw)})
	}
	return domain.Succeed(decodeBody(raw))
}

// decodeBody parses a 2xx body as JSON, keeping numbers exact. Bodies that are
// not JSON are returned as trimmed text; empty bodies as nil.
func decodeBody(raw []byte) any {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return string(trimmed)
	}
	return v
}

// errorMessage prefers a JSON message/error field, then the raw body text,
// then the status text.
func errorMessage(status int, raw []byte) string {
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err == nil {
		for _, key := range []string{"message", "error"} {
			if s, ok := payload[key].(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	if text := strings.TrimSpace(string(raw)); text != "" {
		return text
	}
	return http.StatusText(status)
}
