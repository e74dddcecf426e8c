package domain

import "time"

// DefaultTrackName is shown for events whose track name the backend did not send.
const DefaultTrackName = "Sin categoría"

// Event represents a scheduled activity inside an event track
type Event struct {
	ID              int64     `json:"id"`
	TrackID         int64     `json:"trackId"`
	TrackName       string    `json:"trackName"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	LongDescription string    `json:"longDescription,omitempty"`
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	Location        string    `json:"location,omitempty"`
	Capacity        int       `json:"capacity"`
	AvailableSeats  int       `json:"availableSeats"`
	Speakers        []string  `json:"speakers"`
	CoverImage      ImageRef  `json:"coverImage,omitempty"`
	CardImage       ImageRef  `json:"cardImage,omitempty"`
}

// EntityID implements reconcile.Identifiable.
func (e Event) EntityID() int64 { return e.ID }

// EventPatch carries the fields of a partial event edit. Nil fields are left untouched.
type EventPatch struct {
	ID              int64
	TrackID         *int64
	TrackName       *string
	Name            *string
	Description     *string
	LongDescription *string
	Speakers        *[]string
	Start           *time.Time
	End             *time.Time
	Location        *string
	Capacity        *int
	AvailableSeats  *int
	CoverImage      *ImageRef
	CardImage       *ImageRef
}

// Apply returns e with every non-nil patch field copied over.
func (p EventPatch) Apply(e Event) Event {
	if p.TrackID != nil {
		e.TrackID = *p.TrackID
	}
	if p.TrackName != nil {
		e.TrackName = *p.TrackName
	}
	if p.Name != nil {
		e.Name = *p.Name
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.LongDescription != nil {
		e.LongDescription = *p.LongDescription
	}
	if p.Speakers != nil {
		e.Speakers = append([]string(nil), (*p.Speakers)...)
	}
	if p.Start != nil {
		e.Start = *p.Start
	}
	if p.End != nil {
		e.End = *p.End
	}
	if p.Location != nil {
		e.Location = *p.Location
	}
	if p.Capacity != nil {
		e.Capacity = *p.Capacity
	}
	if p.AvailableSeats != nil {
		e.AvailableSeats = *p.AvailableSeats
	}
	if p.CoverImage != nil {
		e.CoverImage = *p.CoverImage
	}
	if p.CardImage != nil {
		e.CardImage = *p.CardImage
	}
	return e
}

// CreateEventRequest holds the fields submitted for POST /event.
// Speakers are encoded to their wire form by the API client.
type CreateEventRequest struct {
	TrackID         int64
	TrackName       string
	Name            string
	Description     string
	LongDescription string
	Speakers        []string
	Start           time.Time
	End             time.Time
	Location        string
	Capacity        int
	AvailableSeats  int
	CoverImage      *string
	CardImage       *string
}

// IsEmpty reports whether the patch changes nothing.
func (p EventPatch) IsEmpty() bool {
	return p.TrackID == nil && p.TrackName == nil && p.Name == nil && p.Description == nil &&
		p.LongDescription == nil && p.Speakers == nil && p.Start == nil && p.End == nil &&
		p.Location == nil && p.Capacity == nil && p.AvailableSeats == nil &&
		p.CoverImage == nil && p.CardImage == nil
}
