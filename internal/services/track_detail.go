package services

import (
	"context"
	"fmt"
	"sync"

	"eventtracks/internal/domain"
	"eventtracks/internal/normalize"
	"eventtracks/internal/reconcile"
	"eventtracks/internal/speakers"
)

// TrackDetail backs the screen showing one track and its events.
type TrackDetail struct {
	screen
	mu     sync.RWMutex
	track  domain.EventTrack
	events []domain.Event
	loaded bool
}

func NewTrackDetail(d Deps) *TrackDetail {
	s := &TrackDetail{}
	s.screen.init(d)
	return s
}

// Track returns the loaded track.
func (s *TrackDetail) Track() domain.EventTrack {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.track
}

// Events returns a copy of the loaded track's events.
func (s *TrackDetail) Events() []domain.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Event(nil), s.events...)
}

// Load fetches the track with its events.
func (s *TrackDetail) Load(ctx context.Context, trackID int64) error {
	return s.exclusive(ctx, func(ctx context.Context) error {
		data, err := s.fetch(ctx, "get event track", func(ctx context.Context) domain.Result {
			return s.api.GetEventTrack(ctx, trackID)
		})
		if err != nil {
			return err
		}
		detail, err := s.normalizer.TrackDetail(data)
		if err != nil {
			return fmt.Errorf("get event track: %w", err)
		}
		if detail.Track.ID == 0 {
			detail.Track.ID = trackID
		}
		s.mu.Lock()
		s.track = detail.Track
		s.events = detail.Events
		s.loaded = true
		s.mu.Unlock()
		return nil
	})
}

// CreateEvent validates the form, uploads its images and appends the confirmed
// event. A form without a track is filed under the loaded track.
func (s *TrackDetail) CreateEvent(ctx context.Context, form EventForm) (domain.Event, error) {
	s.mu.RLock()
	if s.loaded && form.TrackID == 0 {
		form.TrackID = s.track.ID
		if blank(form.TrackName) {
			form.TrackName = s.track.Name
		}
	}
	s.mu.RUnlock()
	if err := form.Validate().Err(); err != nil {
		return domain.Event{}, err
	}

	var created domain.Event
	err := s.exclusive(ctx, func(ctx context.Context) error {
		if err := s.encodeImages(ctx, &form.CoverImage, &form.CardImage); err != nil {
			return fmt.Errorf("create event: %w", err)
		}
		req := form.request()
		data, err := s.create(ctx, "create event", func(ctx context.Context) domain.Result {
			return s.api.CreateEvent(ctx, req)
		})
		if err != nil {
			return err
		}
		raw, err := normalize.Created(eventFields(req), data)
		if err != nil {
			return fmt.Errorf("create event: %w", err)
		}
		created, err = s.normalizer.Event(raw)
		if err != nil {
			return fmt.Errorf("create event: %w", err)
		}
		s.mu.Lock()
		if created.TrackID == s.track.ID {
			s.events = reconcile.ApplyCreate(s.events, created)
			s.syncCount()
		}
		s.mu.Unlock()
		s.logger.Info("event created", "id", created.ID, "track_id", created.TrackID)
		return nil
	})
	return created, err
}

// EditEvent validates the patch against the loaded event, sends it and applies
// it locally. An event moved to another track leaves this screen.
func (s *TrackDetail) EditEvent(ctx context.Context, patch domain.EventPatch) (domain.Event, error) {
	s.mu.RLock()
	current, found := reconcile.Find(s.events, patch.ID)
	s.mu.RUnlock()
	var cur *domain.Event
	if found {
		cur = &current
	}
	if err := ValidateEventPatch(cur, patch).Err(); err != nil {
		return domain.Event{}, err
	}

	var edited domain.Event
	err := s.exclusive(ctx, func(ctx context.Context) error {
		patch = copyEventPatch(patch)
		if err := s.encodeImages(ctx, patch.CoverImage, patch.CardImage); err != nil {
			return fmt.Errorf("edit event: %w", err)
		}
		if _, err := s.mutate(ctx, "edit event", func(ctx context.Context) domain.Result {
			return s.api.EditEvent(ctx, patch)
		}); err != nil {
			return err
		}
		s.mu.Lock()
		s.events = reconcile.ApplyEdit(s.events, patch.ID, patch.Apply)
		edited, _ = reconcile.Find(s.events, patch.ID)
		if patch.TrackID != nil && *patch.TrackID != s.track.ID {
			s.events = reconcile.ApplyDelete(s.events, patch.ID)
			s.syncCount()
		}
		s.mu.Unlock()
		s.logger.Info("event edited", "id", patch.ID)
		return nil
	})
	return edited, err
}

// DeleteEvent removes the event remotely, then locally. Its feedback is
// deleted by the backend along with it.
func (s *TrackDetail) DeleteEvent(ctx context.Context, id int64) error {
	return s.exclusive(ctx, func(ctx context.Context) error {
		if _, err := s.mutate(ctx, "delete event", func(ctx context.Context) domain.Result {
			return s.api.DeleteEvent(ctx, id)
		}); err != nil {
			return err
		}
		s.mu.Lock()
		s.events = reconcile.ApplyDelete(s.events, id)
		s.syncCount()
		s.mu.Unlock()
		s.logger.Info("event deleted", "id", id)
		return nil
	})
}

// syncCount keeps the track's event count in line with the local list.
// Callers hold s.mu.
func (s *TrackDetail) syncCount() {
	n := len(s.events)
	s.track.EventsCount = &n
}

// eventFields is the canonical form of a submitted event, used as the base of
// the created element.
func eventFields(req domain.CreateEventRequest) map[string]any {
	fields := map[string]any{
		"trackId":         req.TrackID,
		"trackName":       req.TrackName,
		"name":            req.Name,
		"description":     req.Description,
		"longDescription": req.LongDescription,
		"speakers":        speakers.Encode(req.Speakers),
		"location":        req.Location,
		"capacity":        req.Capacity,
		"availableSeats":  req.AvailableSeats,
	}
	if !req.Start.IsZero() {
		fields["start"] = req.Start
	}
	if !req.End.IsZero() {
		fields["end"] = req.End
	}
	if req.CoverImage != nil {
		fields["coverImage"] = *req.CoverImage
	}
	if req.CardImage != nil {
		fields["cardImage"] = *req.CardImage
	}
	return fields
}

func copyEventPatch(p domain.EventPatch) domain.EventPatch {
	if p.CoverImage != nil {
		v := *p.CoverImage
		p.CoverImage = &v
	}
	if p.CardImage != nil {
		v := *p.CardImage
		p.CardImage = &v
	}
	return p
}
