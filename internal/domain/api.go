package domain

import "context"

// EventsAPI is the remote backend. Every method converts failures into a
// failed Result instead of returning an error.
type EventsAPI interface {
	ListEventTracks(ctx context.Context) Result
	ListEvents(ctx context.Context) Result
	ListFeedbacks(ctx context.Context) Result
	FullData(ctx context.Context) Result
	GetEventTrack(ctx context.Context, id int64) Result
	GetEvent(ctx context.Context, id int64) Result

	CreateEventTrack(ctx context.Context, req CreateEventTrackRequest) Result
	CreateEvent(ctx context.Context, req CreateEventRequest) Result
	SendFeedback(ctx context.Context, req FeedbackRequest) Result

	EditEventTrack(ctx context.Context, patch EventTrackPatch) Result
	EditEvent(ctx context.Context, patch EventPatch) Result

	DeleteFeedback(ctx context.Context, id int64) Result
	DeleteEvent(ctx context.Context, id int64) Result
	DeleteEventTrack(ctx context.Context, id int64) Result
}

// TrackDetail is a track together with the events it groups.
type TrackDetail struct {
	Track  EventTrack `json:"eventTrack"`
	Events []Event    `json:"events"`
}

// EventDetail is an event together with its feedback.
type EventDetail struct {
	Event     Event      `json:"event"`
	Feedbacks []Feedback `json:"feedbacks"`
}

// FullData is the payload of GET /full-data.
type FullData struct {
	Tracks    []EventTrack `json:"eventTracks"`
	Events    []Event      `json:"events"`
	Feedbacks []Feedback   `json:"feedbacks"`
}
