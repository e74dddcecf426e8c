package domain

// EventTrack represents a named line of related events
type EventTrack struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	CoverImage   ImageRef `json:"coverImage,omitempty"`
	OverlayImage ImageRef `json:"overlayImage,omitempty"`
	EventsCount  *int     `json:"eventsCount,omitempty"`
}

// EntityID implements reconcile.Identifiable.
func (t EventTrack) EntityID() int64 { return t.ID }

// EventTrackPatch carries the fields of a partial track edit. Nil fields are left untouched.
type EventTrackPatch struct {
	ID           int64
	Name         *string
	Description  *string
	CoverImage   *ImageRef
	OverlayImage *ImageRef
}

// Apply returns t with every non-nil patch field copied over.
func (p EventTrackPatch) Apply(t EventTrack) EventTrack {
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.CoverImage != nil {
		t.CoverImage = *p.CoverImage
	}
	if p.OverlayImage != nil {
		t.OverlayImage = *p.OverlayImage
	}
	return t
}

// IsEmpty reports whether the patch changes nothing.
func (p EventTrackPatch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.CoverImage == nil && p.OverlayImage == nil
}

// CreateEventTrackRequest is the wire body for POST /event-track.
// Image fields must already be data URIs; nil is sent as null.
type CreateEventTrackRequest struct {
	Name               string  `json:"name"`
	Description        string  `json:"description"`
	CoverImageBase64   *string `json:"coverImageBase64"`
	OverlayImageBase64 *string `json:"overlayImageBase64"`
}
