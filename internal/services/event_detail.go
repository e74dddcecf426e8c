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

// EventDetail backs the screen showing one event and its feedback.
type EventDetail struct {
	screen
	mu        sync.RWMutex
	event     domain.Event
	feedbacks []domain.Feedback
	loaded    bool
}

func NewEventDetail(d Deps) *EventDetail {
	s := &EventDetail{}
	s.screen.init(d)
	return s
}

// Event returns the loaded event.
func (s *EventDetail) Event() domain.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.event
}

// Feedbacks returns a copy of the loaded event's feedback.
func (s *EventDetail) Feedbacks() []domain.Feedback {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Feedback(nil), s.feedbacks...)
}

// Load fetches the event. When the payload carries no feedback, the full
// feedback list is fetched and filtered to the event.
func (s *EventDetail) Load(ctx context.Context, eventID int64) error {
	return s.exclusive(ctx, func(ctx context.Context) error {
		data, err := s.fetch(ctx, "get event", func(ctx context.Context) domain.Result {
			return s.api.GetEvent(ctx, eventID)
		})
		if err != nil {
			return err
		}
		detail, err := s.normalizer.EventDetail(data)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if detail.Event.ID == 0 {
			detail.Event.ID = eventID
		}
		if len(detail.Feedbacks) == 0 {
			feedbacks, err := s.eventFeedbacks(ctx, detail.Event.ID)
			if err != nil {
				return err
			}
			detail.Feedbacks = feedbacks
		}
		s.mu.Lock()
		s.event = detail.Event
		s.feedbacks = detail.Feedbacks
		s.loaded = true
		s.mu.Unlock()
		return nil
	})
}

func (s *EventDetail) eventFeedbacks(ctx context.Context, eventID int64) ([]domain.Feedback, error) {
	data, err := s.fetch(ctx, "list feedbacks", s.api.ListFeedbacks)
	if err != nil {
		return nil, err
	}
	all, err := s.normalizer.Feedbacks(data)
	if err != nil {
		return nil, fmt.Errorf("list feedbacks: %w", err)
	}
	return reconcile.RemoveWhere(all, func(f domain.Feedback) bool { return f.EventID != eventID }), nil
}

// SubmitFeedback sends a rating for the loaded event (or form.EventID). When
// the backend echoes an id the feedback is appended locally; otherwise the
// feedback list is re-fetched.
func (s *EventDetail) SubmitFeedback(ctx context.Context, form FeedbackForm) (domain.Feedback, error) {
	s.mu.RLock()
	if s.loaded && form.EventID == 0 {
		form.EventID = s.event.ID
	}
	s.mu.RUnlock()
	if err := form.Validate().Err(); err != nil {
		return domain.Feedback{}, err
	}

	var created domain.Feedback
	err := s.exclusive(ctx, func(ctx context.Context) error {
		req := domain.FeedbackRequest{
			UserID:  strings.TrimSpace(form.UserID),
			EventID: form.EventID,
			Stars:   form.Stars,
			Comment: strings.TrimSpace(form.Comment),
		}
		data, err := s.mutate(ctx, "send feedback", func(ctx context.Context) domain.Result {
			return s.api.SendFeedback(ctx, req)
		})
		if err != nil {
			return err
		}
		submitted := map[string]any{
			"eventId": req.EventID,
			"stars":   req.Stars,
			"comment": req.Comment,
		}
		if !blank(form.UserName) {
			submitted["userName"] = strings.TrimSpace(form.UserName)
		}
		raw, err := normalize.Created(submitted, data)
		if err != nil {
			// No id in the response: converge with the backend instead.
			feedbacks, ferr := s.eventFeedbacks(ctx, req.EventID)
			if ferr != nil {
				return ferr
			}
			s.mu.Lock()
			if s.event.ID == req.EventID {
				s.feedbacks = feedbacks
			}
			s.mu.Unlock()
			s.logger.Info("feedback sent", "event_id", req.EventID)
			return nil
		}
		created, err = s.normalizer.Feedback(raw)
		if err != nil {
			return fmt.Errorf("send feedback: %w", err)
		}
		s.mu.Lock()
		if s.event.ID == created.EventID {
			s.feedbacks = reconcile.ApplyCreate(s.feedbacks, created)
		}
		s.mu.Unlock()
		s.logger.Info("feedback sent", "id", created.ID, "event_id", created.EventID)
		return nil
	})
	return created, err
}

// DeleteFeedback removes one feedback remotely, then locally.
func (s *EventDetail) DeleteFeedback(ctx context.Context, id int64) error {
	return s.exclusive(ctx, func(ctx context.Context) error {
		if _, err := s.mutate(ctx, "delete feedback", func(ctx context.Context) domain.Result {
			return s.api.DeleteFeedback(ctx, id)
		}); err != nil {
			return err
		}
		s.mu.Lock()
		s.feedbacks = reconcile.ApplyDelete(s.feedbacks, id)
		s.mu.Unlock()
		s.logger.Info("feedback deleted", "id", id)
		return nil
	})
}
