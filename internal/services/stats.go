package services

import (
	"context"
	"fmt"
	"sync"

	"eventtracks/internal/domain"
)

// EventRating is the average feedback of one event. Average is nil when the
// event has no feedback.
type EventRating struct {
	EventID   int64    `json:"eventId"`
	EventName string   `json:"name"`
	Average   *float64 `json:"avgStars"`
	Count     int      `json:"count"`
}

// EventSubscription is the share of an event's seats already taken.
type EventSubscription struct {
	EventID    int64   `json:"eventId"`
	EventName  string  `json:"name"`
	Capacity   int     `json:"capacity"`
	Subscribed int     `json:"subscribed"`
	Percentage float64 `json:"percentage"`
}

// TrackRatings groups event ratings under their track.
type TrackRatings struct {
	TrackID   int64         `json:"id"`
	TrackName string        `json:"name"`
	Events    []EventRating `json:"events"`
}

// TrackSubscriptions groups event subscriptions under their track.
type TrackSubscriptions struct {
	TrackID   int64               `json:"id"`
	TrackName string              `json:"name"`
	Events    []EventSubscription `json:"events"`
}

// Stats backs the statistics screen.
type Stats struct {
	screen
	mu   sync.RWMutex
	data domain.FullData
}

func NewStats(d Deps) *Stats {
	s := &Stats{}
	s.screen.init(d)
	return s
}

// Refresh loads /full-data.
func (s *Stats) Refresh(ctx context.Context) error {
	return s.exclusive(ctx, func(ctx context.Context) error {
		data, err := s.fetch(ctx, "full data", s.api.FullData)
		if err != nil {
			return err
		}
		full, err := s.normalizer.FullData(data)
		if err != nil {
			return fmt.Errorf("full data: %w", err)
		}
		s.mu.Lock()
		s.data = full
		s.mu.Unlock()
		return nil
	})
}

// Data returns the last loaded payload.
func (s *Stats) Data() domain.FullData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

// Ratings returns average stars per event, grouped by track.
func (s *Stats) Ratings() []TrackRatings {
	return Ratings(s.Data())
}

// Subscriptions returns subscription percentages per event, grouped by track.
func (s *Stats) Subscriptions() []TrackSubscriptions {
	return Subscriptions(s.Data())
}

// eventsByTrack groups events by track id, keeping backend order. Tracks
// without events are omitted.
func eventsByTrack(data domain.FullData, visit func(track domain.EventTrack, events []domain.Event)) {
	grouped := make(map[int64][]domain.Event)
	for _, ev := range data.Events {
		grouped[ev.TrackID] = append(grouped[ev.TrackID], ev)
	}
	for _, track := range data.Tracks {
		if events := grouped[track.ID]; len(events) > 0 {
			visit(track, events)
		}
	}
}

// Ratings computes average stars per event from data.
func Ratings(data domain.FullData) []TrackRatings {
	type acc struct {
		sum   float64
		count int
	}
	byEvent := make(map[int64]*acc)
	for _, fb := range data.Feedbacks {
		a := byEvent[fb.EventID]
		if a == nil {
			a = &acc{}
			byEvent[fb.EventID] = a
		}
		a.sum += fb.Stars
		a.count++
	}

	out := []TrackRatings{}
	eventsByTrack(data, func(track domain.EventTrack, events []domain.Event) {
		group := TrackRatings{TrackID: track.ID, TrackName: track.Name}
		for _, ev := range events {
			r := EventRating{EventID: ev.ID, EventName: ev.Name}
			if a := byEvent[ev.ID]; a != nil && a.count > 0 {
				avg := a.sum / float64(a.count)
				r.Average = &avg
				r.Count = a.count
			}
			group.Events = append(group.Events, r)
		}
		out = append(out, group)
	})
	return out
}

// Subscriptions computes (capacity - available) / capacity * 100 per event.
// Events without capacity count as 0%.
func Subscriptions(data domain.FullData) []TrackSubscriptions {
	out := []TrackSubscriptions{}
	eventsByTrack(data, func(track domain.EventTrack, events []domain.Event) {
		group := TrackSubscriptions{TrackID: track.ID, TrackName: track.Name}
		for _, ev := range events {
			sub := EventSubscription{EventID: ev.ID, EventName: ev.Name, Capacity: ev.Capacity}
			if ev.Capacity > 0 {
				sub.Subscribed = min(max(ev.Capacity-ev.AvailableSeats, 0), ev.Capacity)
				sub.Percentage = float64(sub.Subscribed) / float64(ev.Capacity) * 100
			}
			group.Events = append(group.Events, sub)
		}
		out = append(out, group)
	})
	return out
}
