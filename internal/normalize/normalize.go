// Package normalize converts heterogeneous backend payloads into the canonical
// domain types. Field names vary across backend versions; each canonical field
// is resolved through a fixed alias priority list and malformed optional values
// fall back to their defaults instead of failing the whole object.
package normalize

import (
	"fmt"
	"log/slog"
	"math"

	"eventtracks/internal/domain"
	"eventtracks/internal/speakers"
)

// UnnamedTrack is used when the backend sends a track without a name.
const UnnamedTrack = "Sin nombre"

// Normalizer resolves raw payloads. Its logger only receives warnings about
// data that was dropped during normalization.
type Normalizer struct {
	logger *slog.Logger
}

// New returns a Normalizer that reports degradations to logger. A nil logger discards them.
func New(logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Normalizer{logger: logger}
}

var std = New(nil)

// Event normalizes raw with a silent Normalizer.
func Event(raw any) (domain.Event, error) { return std.Event(raw) }

// Track normalizes raw with a silent Normalizer.
func Track(raw any) (domain.EventTrack, error) { return std.Track(raw) }

// Feedback normalizes raw with a silent Normalizer.
func Feedback(raw any) (domain.Feedback, error) { return std.Feedback(raw) }

// Track converts a raw event track object.
func (n *Normalizer) Track(raw any) (domain.EventTrack, error) {
	obj, ok := asObject(raw)
	if !ok {
		return domain.EventTrack{}, fmt.Errorf("event track: %w: got %T", domain.ErrInvalidResponseShape, raw)
	}
	t := trackTable
	track := domain.EventTrack{
		ID:           t.int64Field(obj, "id"),
		Name:         t.stringField(obj, "name", UnnamedTrack),
		Description:  t.stringField(obj, "description", ""),
		CoverImage:   t.imageField(obj, "coverImage"),
		OverlayImage: t.imageField(obj, "overlayImage"),
	}
	if v, ok := t.lookup(obj, "eventsCount"); ok {
		if c, ok := toInt64(v); ok && c >= 0 {
			count := int(c)
			track.EventsCount = &count
		}
	} else if events, ok := obj["events"].([]any); ok {
		count := len(events)
		track.EventsCount = &count
	}
	return track, nil
}

// Event converts a raw event object.
func (n *Normalizer) Event(raw any) (domain.Event, error) {
	obj, ok := asObject(raw)
	if !ok {
		return domain.Event{}, fmt.Errorf("event: %w: got %T", domain.ErrInvalidResponseShape, raw)
	}
	t := eventTable
	ev := domain.Event{
		ID:              t.int64Field(obj, "id"),
		TrackID:         t.int64Field(obj, "trackId"),
		TrackName:       t.stringField(obj, "trackName", domain.DefaultTrackName),
		Name:            t.stringField(obj, "name", ""),
		Description:     t.stringField(obj, "description", ""),
		LongDescription: t.stringField(obj, "longDescription", ""),
		Start:           t.timeField(obj, "start"),
		End:             t.timeField(obj, "end"),
		Location:        t.stringField(obj, "location", ""),
		Capacity:        t.intField(obj, "capacity"),
		AvailableSeats:  t.intField(obj, "availableSeats"),
		CoverImage:      t.imageField(obj, "coverImage"),
		CardImage:       t.imageField(obj, "cardImage"),
	}
	if ev.Capacity < 0 {
		ev.Capacity = 0
	}
	speakersRaw, _ := t.lookup(obj, "speakers")
	names, err := speakers.DecodeStrict(speakersRaw)
	if err != nil {
		n.logger.Warn("dropping malformed speakers", "event_id", ev.ID, "err", err)
	}
	ev.Speakers = names
	return ev, nil
}

// Feedback converts a raw feedback object. Stars are clamped into [0, MaxStars].
func (n *Normalizer) Feedback(raw any) (domain.Feedback, error) {
	obj, ok := asObject(raw)
	if !ok {
		return domain.Feedback{}, fmt.Errorf("feedback: %w: got %T", domain.ErrInvalidResponseShape, raw)
	}
	t := feedbackTable
	fb := domain.Feedback{
		ID:        t.int64Field(obj, "id"),
		EventID:   t.int64Field(obj, "eventId"),
		UserName:  t.stringField(obj, "userName", ""),
		Comment:   t.stringField(obj, "comment", ""),
		CreatedAt: t.timeField(obj, "createdAt"),
	}
	if v, ok := t.lookup(obj, "stars"); ok {
		if stars, ok := toFloat(v); ok {
			fb.Stars = math.Max(0, math.Min(domain.MaxStars, stars))
		}
	}
	return fb, nil
}
