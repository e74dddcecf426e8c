package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"eventtracks/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	method string
	path   string
	body   map[string]any
}

// newTestServer replies with status and body and records the last request.
func newTestServer(t *testing.T, status int, body string) (*httptest.Server, *capturedRequest) {
	t.Helper()
	var captured capturedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.method = r.Method
		captured.path = r.URL.Path
		captured.body = nil
		if b, _ := io.ReadAll(r.Body); len(b) > 0 {
			require.NoError(t, json.Unmarshal(b, &captured.body))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &captured
}

func strPtr(s string) *string { return &s }

func TestClient_Endpoints(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name       string
		call       func(c *Client) domain.Result
		wantMethod string
		wantPath   string
	}{
		{"list tracks", func(c *Client) domain.Result { return c.ListEventTracks(ctx) }, http.MethodGet, "/all-event-tracks"},
		{"list events", func(c *Client) domain.Result { return c.ListEvents(ctx) }, http.MethodGet, "/all-events"},
		{"list feedbacks", func(c *Client) domain.Result { return c.ListFeedbacks(ctx) }, http.MethodGet, "/all-feedbacks"},
		{"full data", func(c *Client) domain.Result { return c.FullData(ctx) }, http.MethodGet, "/full-data"},
		{"track by id", func(c *Client) domain.Result { return c.GetEventTrack(ctx, 3) }, http.MethodGet, "/event-track-byid/3"},
		{"event by id", func(c *Client) domain.Result { return c.GetEvent(ctx, 4) }, http.MethodGet, "/event-byid/4"},
		{"delete feedback", func(c *Client) domain.Result { return c.DeleteFeedback(ctx, 5) }, http.MethodDelete, "/delete-feedback/5"},
		{"delete event", func(c *Client) domain.Result { return c.DeleteEvent(ctx, 6) }, http.MethodDelete, "/delete-event/6"},
		{"delete track", func(c *Client) domain.Result { return c.DeleteEventTrack(ctx, 7) }, http.MethodDelete, "/delete-event-track/7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, captured := newTestServer(t, http.StatusOK, `{"ok":true}`)
			c := NewClient(srv.URL+"/", time.Second)

			res := tt.call(c)
			require.True(t, res.Success, res.Error)
			assert.Equal(t, tt.wantMethod, captured.method)
			assert.Equal(t, tt.wantPath, captured.path)
			assert.Equal(t, map[string]any{"ok": true}, res.Data)
		})
	}
}

func TestClient_CreateEventTrack(t *testing.T) {
	srv, captured := newTestServer(t, http.StatusCreated, `{"success":true,"id":7}`)
	c := NewClient(srv.URL, time.Second)

	res := c.CreateEventTrack(context.Background(), domain.CreateEventTrackRequest{
		Name:             "Congreso 2023",
		Description:      "desc",
		CoverImageBase64: strPtr("data:image/png;base64,AAAA"),
	})
	require.True(t, res.Success)
	assert.Equal(t, "/event-track", captured.path)
	assert.Equal(t, map[string]any{
		"name":               "Congreso 2023",
		"description":        "desc",
		"coverImageBase64":   "data:image/png;base64,AAAA",
		"overlayImageBase64": nil,
	}, captured.body)

	data, ok := res.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, json.Number("7"), data["id"])
}

func TestClient_CreateEvent(t *testing.T) {
	srv, captured := newTestServer(t, http.StatusOK, `{"id":10}`)
	c := NewClient(srv.URL, time.Second)

	res := c.CreateEvent(context.Background(), domain.CreateEventRequest{
		TrackID:        3,
		TrackName:      "Cloud",
		Name:           "K8s",
		Speakers:       []string{"Ada"},
		Start:          time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		End:            time.Date(2025, 3, 1, 18, 30, 0, 0, time.UTC),
		Capacity:       50,
		AvailableSeats: 20,
	})
	require.True(t, res.Success)
	assert.Equal(t, "/event", captured.path)
	assert.Equal(t, float64(3), captured.body["eventTrackId"])
	assert.Equal(t, "Cloud", captured.body["eventTrackName"])
	assert.Equal(t, `[{"name":"Ada"}]`, captured.body["speakers"])
	assert.Equal(t, "2025-03-01", captured.body["initialDate"])
	assert.Equal(t, "2025-03-01T18:30:00Z", captured.body["finalDate"])
	assert.Equal(t, float64(20), captured.body["availableSeats"])
	assert.Nil(t, captured.body["coverImageBase64"])
}

func TestClient_EditEvent_SendsOnlyPresentFields(t *testing.T) {
	srv, captured := newTestServer(t, http.StatusOK, `{"success":true}`)
	c := NewClient(srv.URL, time.Second)

	seats := 5
	names := []string{"Grace"}
	res := c.EditEvent(context.Background(), domain.EventPatch{ID: 4, AvailableSeats: &seats, Speakers: &names})
	require.True(t, res.Success)
	assert.Equal(t, "/event-edit", captured.path)
	assert.Equal(t, map[string]any{
		"id":              float64(4),
		"available_seats": float64(5),
		"speakers":        `[{"name":"Grace"}]`,
	}, captured.body)
}

func TestClient_EditEventTrack(t *testing.T) {
	srv, captured := newTestServer(t, http.StatusOK, `{}`)
	c := NewClient(srv.URL, time.Second)

	name := "Nuevo"
	cover := domain.ImageRef("data:image/png;base64,BBBB")
	res := c.EditEventTrack(context.Background(), domain.EventTrackPatch{ID: 2, Name: &name, CoverImage: &cover})
	require.True(t, res.Success)
	assert.Equal(t, "/event-track-edit", captured.path)
	assert.Equal(t, map[string]any{
		"id":               float64(2),
		"name":             "Nuevo",
		"coverImageBase64": "data:image/png;base64,BBBB",
	}, captured.body)
}

func TestClient_SendFeedback(t *testing.T) {
	srv, captured := newTestServer(t, http.StatusOK, `OK`)
	c := NewClient(srv.URL, time.Second)

	res := c.SendFeedback(context.Background(), domain.FeedbackRequest{UserID: "u1", EventID: 9, Stars: 4.5, Comment: "bien"})
	require.True(t, res.Success)
	assert.Equal(t, "OK", res.Data)
	assert.Equal(t, map[string]any{"userId": "u1", "eventId": float64(9), "stars": 4.5, "comment": "bien"}, captured.body)
}

func TestClient_Errors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantError string
	}{
		{"json message", http.StatusNotFound, `{"message":"track not found"}`, "Error 404: track not found"},
		{"json error field", http.StatusBadRequest, `{"error":"bad id"}`, "Error 400: bad id"},
		{"plain body", http.StatusInternalServerError, `boom`, "Error 500: boom"},
		{"empty body", http.StatusServiceUnavailable, ``, "Error 503: Service Unavailable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newTestServer(t, tt.status, tt.body)
			c := NewClient(srv.URL, time.Second)

			res := c.ListEvents(context.Background())
			require.False(t, res.Success)
			assert.Equal(t, tt.wantError, res.Error)
			assert.Nil(t, res.Data)

			var httpErr *domain.HTTPError
			require.True(t, errors.As(res.Err, &httpErr))
			assert.Equal(t, tt.status, httpErr.Status)
			assert.ErrorIs(t, res.Err, domain.ErrHTTP)
		})
	}
}

func TestClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(url, time.Second)
	res := c.ListEventTracks(context.Background())
	require.False(t, res.Success)
	assert.ErrorIs(t, res.Err, domain.ErrNetwork)
	assert.NotEmpty(t, res.Error)
}

func TestClient_EmptySuccessBody(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusNoContent, ``)
	c := NewClient(srv.URL, time.Second)
	res := c.DeleteEvent(context.Background(), 1)
	require.True(t, res.Success)
	assert.Nil(t, res.Data)
}

func TestWireDate(t *testing.T) {
	assert.Equal(t, "2025-01-31", WireDate(time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2025-01-31T09:15:00Z", WireDate(time.Date(2025, 1, 31, 9, 15, 0, 0, time.UTC)))
}
