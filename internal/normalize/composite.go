package normalize

import (
	"fmt"

	"eventtracks/internal/domain"
)

var (
	trackListKeys    = []string{"eventTracks", "event_tracks", "tracks", "data"}
	eventListKeys    = []string{"events", "data"}
	feedbackListKeys = []string{"feedbacks", "data"}
	trackObjectKeys  = []string{"eventTrack", "event_track", "track"}
	eventObjectKeys  = []string{"event"}
	createdEchoKeys  = []string{"data", "eventTrack", "event_track", "event", "feedback"}
	createdIDKeys    = []string{"id", "insertId", "insert_id"}
)

// listOf extracts an array from raw, which is either the array itself or an
// object holding it under one of keys.
func listOf(raw any, keys []string) ([]any, bool) {
	if list, ok := raw.([]any); ok {
		return list, true
	}
	obj, ok := asObject(raw)
	if !ok {
		return nil, false
	}
	for _, k := range keys {
		if list, ok := obj[k].([]any); ok {
			return list, true
		}
	}
	return nil, false
}

func firstObject(obj map[string]any, keys []string) (map[string]any, bool) {
	for _, k := range keys {
		if inner, ok := asObject(obj[k]); ok {
			return inner, true
		}
	}
	return nil, false
}

// Tracks normalizes a list of event tracks. Elements that are not objects are
// skipped and logged.
func (n *Normalizer) Tracks(raw any) ([]domain.EventTrack, error) {
	list, ok := listOf(raw, trackListKeys)
	if !ok {
		return nil, fmt.Errorf("event tracks: %w: got %T", domain.ErrInvalidResponseShape, raw)
	}
	out := make([]domain.EventTrack, 0, len(list))
	for i, item := range list {
		t, err := n.Track(item)
		if err != nil {
			n.logger.Warn("skipping event track", "index", i, "err", err)
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// Events normalizes a list of events.
func (n *Normalizer) Events(raw any) ([]domain.Event, error) {
	list, ok := listOf(raw, eventListKeys)
	if !ok {
		return nil, fmt.Errorf("events: %w: got %T", domain.ErrInvalidResponseShape, raw)
	}
	return n.eventList(list), nil
}

func (n *Normalizer) eventList(list []any) []domain.Event {
	out := make([]domain.Event, 0, len(list))
	for i, item := range list {
		ev, err := n.Event(item)
		if err != nil {
			n.logger.Warn("skipping event", "index", i, "err", err)
			continue
		}
		out = append(out, ev)
	}
	return out
}

// Feedbacks normalizes a list of feedback entries.
func (n *Normalizer) Feedbacks(raw any) ([]domain.Feedback, error) {
	list, ok := listOf(raw, feedbackListKeys)
	if !ok {
		return nil, fmt.Errorf("feedbacks: %w: got %T", domain.ErrInvalidResponseShape, raw)
	}
	return n.feedbackList(list), nil
}

func (n *Normalizer) feedbackList(list []any) []domain.Feedback {
	out := make([]domain.Feedback, 0, len(list))
	for i, item := range list {
		fb, err := n.Feedback(item)
		if err != nil {
			n.logger.Warn("skipping feedback", "index", i, "err", err)
			continue
		}
		out = append(out, fb)
	}
	return out
}

// TrackDetail normalizes the payload of GET /event-track-byid/{id}: either
// {eventTrack, events} or a flat track object with embedded events. Events
// missing their track id or name inherit them from the track.
func (n *Normalizer) TrackDetail(raw any) (domain.TrackDetail, error) {
	obj, ok := asObject(raw)
	if !ok {
		return domain.TrackDetail{}, fmt.Errorf("event track detail: %w: got %T", domain.ErrInvalidResponseShape, raw)
	}
	trackObj, ok := firstObject(obj, trackObjectKeys)
	if !ok {
		trackObj = obj
	}
	track, err := n.Track(trackObj)
	if err != nil {
		return domain.TrackDetail{}, err
	}
	events, ok := obj["events"].([]any)
	if !ok {
		events, _ = trackObj["events"].([]any)
	}
	detail := domain.TrackDetail{Track: track, Events: n.eventList(events)}
	for i := range detail.Events {
		ev := &detail.Events[i]
		if ev.TrackID == 0 {
			ev.TrackID = track.ID
		}
		if ev.TrackName == domain.DefaultTrackName && track.Name != UnnamedTrack {
			ev.TrackName = track.Name
		}
	}
	if detail.Track.EventsCount == nil {
		count := len(detail.Events)
		detail.Track.EventsCount = &count
	}
	return detail, nil
}

// EventDetail normalizes the payload of GET /event-byid/{id}: either
// {event, feedbacks} or a flat event object with embedded feedbacks.
func (n *Normalizer) EventDetail(raw any) (domain.EventDetail, error) {
	obj, ok := asObject(raw)
	if !ok {
		return domain.EventDetail{}, fmt.Errorf("event detail: %w: got %T", domain.ErrInvalidResponseShape, raw)
	}
	eventObj, ok := firstObject(obj, eventObjectKeys)
	if !ok {
		eventObj = obj
	}
	ev, err := n.Event(eventObj)
	if err != nil {
		return domain.EventDetail{}, err
	}
	list, ok := obj["feedbacks"].([]any)
	if !ok {
		list, _ = eventObj["feedbacks"].([]any)
	}
	detail := domain.EventDetail{Event: ev, Feedbacks: n.feedbackList(list)}
	for i := range detail.Feedbacks {
		if detail.Feedbacks[i].EventID == 0 {
			detail.Feedbacks[i].EventID = ev.ID
		}
	}
	return detail, nil
}

// FullData normalizes GET /full-data. Events and feedback may arrive at the top
// level or nested inside their parent track/event; nested entries are collected
// only when the top-level list is absent.
func (n *Normalizer) FullData(raw any) (domain.FullData, error) {
	obj, ok := asObject(raw)
	if !ok {
		return domain.FullData{}, fmt.Errorf("full data: %w: got %T", domain.ErrInvalidResponseShape, raw)
	}
	var out domain.FullData
	trackList, _ := listOf(obj, trackListKeys[:3])
	topEvents, hasEvents := obj["events"].([]any)
	topFeedbacks, hasFeedbacks := obj["feedbacks"].([]any)

	var nestedEvents, nestedFeedbacks []any
	for i, item := range trackList {
		tObj, ok := asObject(item)
		if !ok {
			n.logger.Warn("skipping event track", "index", i, "err", domain.ErrInvalidResponseShape)
			continue
		}
		track, _ := n.Track(tObj)
		out.Tracks = append(out.Tracks, track)
		if hasEvents {
			continue
		}
		inner, _ := tObj["events"].([]any)
		for _, e := range inner {
			eObj, ok := asObject(e)
			if !ok {
				continue
			}
			if _, ok := eventTable.lookup(eObj, "trackId"); !ok {
				eObj = withField(eObj, "trackId", track.ID)
			}
			nestedEvents = append(nestedEvents, eObj)
		}
	}
	if !hasEvents {
		topEvents = nestedEvents
	}
	out.Events = n.eventList(topEvents)

	if !hasFeedbacks {
		for _, e := range topEvents {
			eObj, ok := asObject(e)
			if !ok {
				continue
			}
			inner, _ := eObj["feedbacks"].([]any)
			id, _ := eventTable.lookup(eObj, "id")
			for _, f := range inner {
				fObj, ok := asObject(f)
				if !ok {
					continue
				}
				if _, ok := feedbackTable.lookup(fObj, "eventId"); !ok && id != nil {
					fObj = withField(fObj, "eventId", id)
				}
				nestedFeedbacks = append(nestedFeedbacks, fObj)
			}
		}
		topFeedbacks = nestedFeedbacks
	}
	out.Feedbacks = n.feedbackList(topFeedbacks)

	if out.Tracks == nil {
		out.Tracks = []domain.EventTrack{}
	}
	return out, nil
}

// withField returns a shallow copy of obj with key set; obj itself is not modified.
func withField(obj map[string]any, key string, value any) map[string]any {
	cp := make(map[string]any, len(obj)+1)
	for k, v := range obj {
		cp[k] = v
	}
	cp[key] = value
	return cp
}

// CreatedID extracts the id the backend assigned to a newly created entity.
func CreatedID(raw any) (int64, bool) {
	switch v := raw.(type) {
	case map[string]any:
		for _, k := range createdIDKeys {
			if val, ok := v[k]; ok && val != nil {
				if id, ok := toInt64(val); ok && id != 0 {
					return id, true
				}
			}
		}
		if inner, ok := firstObject(v, createdEchoKeys); ok {
			return CreatedID(inner)
		}
		return 0, false
	default:
		id, ok := toInt64(v)
		return id, ok && id != 0
	}
}

// Created builds the raw form of a newly created entity: the submitted wire
// fields overlaid with whatever object the backend echoed back, carrying the
// backend-assigned id. The backend must supply an id.
func Created(submitted map[string]any, response any) (map[string]any, error) {
	id, ok := CreatedID(response)
	if !ok {
		return nil, fmt.Errorf("create response without id: %w", domain.ErrInvalidResponseShape)
	}
	out := make(map[string]any, len(submitted)+1)
	for k, v := range submitted {
		out[k] = v
	}
	if obj, ok := asObject(response); ok {
		echo, ok := firstObject(obj, createdEchoKeys)
		if !ok {
			echo = obj
		}
		for k, v := range echo {
			if v == nil || k == "success" || k == "message" {
				continue
			}
			out[k] = v
		}
	}
	out["id"] = id
	return out, nil
}
