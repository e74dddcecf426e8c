package domain

import "time"

// MaxStars is the top of the feedback rating scale.
const MaxStars = 5.0

// Feedback is a star rating plus comment attached to one event
type Feedback struct {
	ID        int64     `json:"id"`
	EventID   int64     `json:"eventId"`
	UserName  string    `json:"userName,omitempty"`
	Stars     float64   `json:"stars"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

// EntityID implements reconcile.Identifiable.
func (f Feedback) EntityID() int64 { return f.ID }

// FeedbackRequest is the wire body for POST /feedback.
type FeedbackRequest struct {
	UserID  string  `json:"userId"`
	EventID int64   `json:"eventId"`
	Stars   float64 `json:"stars"`
	Comment string  `json:"comment"`
}
