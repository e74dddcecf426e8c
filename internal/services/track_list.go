package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"eventtracks/internal/domain"
	"eventtracks/internal/normalize"
	"eventtracks/internal/reconcile"
)

// TrackList backs the list of event tracks and the add/edit track forms.
type TrackList struct {
	screen
	mu     sync.RWMutex
	items  []domain.EventTrack
	loaded bool
}

func NewTrackList(d Deps) *TrackList {
	s := &TrackList{}
	s.screen.init(d)
	return s
}

// Items returns a copy of the current collection.
func (s *TrackList) Items() []domain.EventTrack {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.EventTrack(nil), s.items...)
}

// Loaded reports whether a refresh has succeeded at least once.
func (s *TrackList) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

func (s *TrackList) set(items []domain.EventTrack) {
	s.mu.Lock()
	s.items = items
	s.loaded = true
	s.mu.Unlock()
}

// Refresh replaces the collection with the backend's. On failure the previous
// collection stays in place.
func (s *TrackList) Refresh(ctx context.Context) error {
	return s.exclusive(ctx, func(ctx context.Context) error {
		data, err := s.fetch(ctx, "list event tracks", s.api.ListEventTracks)
		if err != nil {
			return err
		}
		tracks, err := s.normalizer.Tracks(data)
		if err != nil {
			return fmt.Errorf("list event tracks: %w", err)
		}
		s.set(tracks)
		return nil
	})
}

// Create validates the form, uploads its images and appends the confirmed track.
func (s *TrackList) Create(ctx context.Context, form TrackForm) (domain.EventTrack, error) {
	if err := form.Validate().Err(); err != nil {
		return domain.EventTrack{}, err
	}
	var created domain.EventTrack
	err := s.exclusive(ctx, func(ctx context.Context) error {
		cover, overlay := form.CoverImage, form.OverlayImage
		if err := s.encodeImages(ctx, &cover, &overlay); err != nil {
			return fmt.Errorf("create event track: %w", err)
		}
		req := domain.CreateEventTrackRequest{
			Name:               strings.TrimSpace(form.Name),
			Description:        strings.TrimSpace(form.Description),
			CoverImageBase64:   cover.WirePtr(),
			OverlayImageBase64: overlay.WirePtr(),
		}
		data, err := s.create(ctx, "create event track", func(ctx context.Context) domain.Result {
			return s.api.CreateEventTrack(ctx, req)
		})
		if err != nil {
			return err
		}
		raw, err := normalize.Created(map[string]any{
			"name":         req.Name,
			"description":  req.Description,
			"coverImage":   string(cover),
			"overlayImage": string(overlay),
			"eventsCount":  0,
		}, data)
		if err != nil {
			return fmt.Errorf("create event track: %w", err)
		}
		created, err = s.normalizer.Track(raw)
		if err != nil {
			return fmt.Errorf("create event track: %w", err)
		}
		s.mu.Lock()
		s.items = reconcile.ApplyCreate(s.items, created)
		s.mu.Unlock()
		s.logger.Info("event track created", "id", created.ID, "name", created.Name)
		return nil
	})
	return created, err
}

// Edit sends a partial update and applies it locally once confirmed. The
// returned track is the local copy after the edit, when present.
func (s *TrackList) Edit(ctx context.Context, patch domain.EventTrackPatch) (domain.EventTrack, error) {
	if err := ValidateTrackPatch(patch).Err(); err != nil {
		return domain.EventTrack{}, err
	}
	var edited domain.EventTrack
	err := s.exclusive(ctx, func(ctx context.Context) error {
		patch = copyTrackPatch(patch)
		if err := s.encodeImages(ctx, patch.CoverImage, patch.OverlayImage); err != nil {
			return fmt.Errorf("edit event track: %w", err)
		}
		if _, err := s.mutate(ctx, "edit event track", func(ctx context.Context) domain.Result {
			return s.api.EditEventTrack(ctx, patch)
		}); err != nil {
			return err
		}
		s.mu.Lock()
		s.items = reconcile.ApplyEdit(s.items, patch.ID, patch.Apply)
		edited, _ = reconcile.Find(s.items, patch.ID)
		s.mu.Unlock()
		s.logger.Info("event track edited", "id", patch.ID)
		return nil
	})
	return edited, err
}

// Delete removes the track remotely, then locally.
func (s *TrackList) Delete(ctx context.Context, id int64) error {
	return s.exclusive(ctx, func(ctx context.Context) error {
		if _, err := s.mutate(ctx, "delete event track", func(ctx context.Context) domain.Result {
			return s.api.DeleteEventTrack(ctx, id)
		}); err != nil {
			return err
		}
		s.mu.Lock()
		s.items = reconcile.ApplyDelete(s.items, id)
		s.mu.Unlock()
		s.logger.Info("event track deleted", "id", id)
		return nil
	})
}

// copyTrackPatch detaches the image pointers so encoding does not write
// through to the caller's values.
func copyTrackPatch(p domain.EventTrackPatch) domain.EventTrackPatch {
	if p.CoverImage != nil {
		v := *p.CoverImage
		p.CoverImage = &v
	}
	if p.OverlayImage != nil {
		v := *p.OverlayImage
		p.OverlayImage = &v
	}
	return p
}
