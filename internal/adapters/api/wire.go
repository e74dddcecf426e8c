package api

import (
	"time"

	"eventtracks/internal/domain"
	"eventtracks/internal/speakers"
)

// WireDate formats t the way the backend's forms send dates: YYYY-MM-DD when
// t carries no clock time, RFC3339 otherwise.
func WireDate(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format(time.DateOnly)
	}
	return t.Format(time.RFC3339)
}

func imageValue(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

// CreateEventTrackBody returns the JSON body for POST /event-track.
func CreateEventTrackBody(req domain.CreateEventTrackRequest) map[string]any {
	return map[string]any{
		"name":               req.Name,
		"description":        req.Description,
		"coverImageBase64":   imageValue(req.CoverImageBase64),
		"overlayImageBase64": imageValue(req.OverlayImageBase64),
	}
}

// CreateEventBody returns the JSON body for POST /event. Speakers travel in
// their encoded wire form.
func CreateEventBody(req domain.CreateEventRequest) map[string]any {
	return map[string]any{
		"eventTrackId":     req.TrackID,
		"eventTrackName":   req.TrackName,
		"name":             req.Name,
		"description":      req.Description,
		"longDescription":  req.LongDescription,
		"speakers":         speakers.Encode(req.Speakers),
		"initialDate":      WireDate(req.Start),
		"finalDate":        WireDate(req.End),
		"location":         req.Location,
		"capacity":         req.Capacity,
		"availableSeats":   req.AvailableSeats,
		"coverImageBase64": imageValue(req.CoverImage),
		"cardImageBase64":  imageValue(req.CardImage),
	}
}

// EditEventTrackBody returns the JSON body for POST /event-track-edit holding
// only the fields present in the patch.
func EditEventTrackBody(p domain.EventTrackPatch) map[string]any {
	body := map[string]any{"id": p.ID}
	if p.Name != nil {
		body["name"] = *p.Name
	}
	if p.Description != nil {
		body["description"] = *p.Description
	}
	if p.CoverImage != nil {
		body["coverImageBase64"] = imageValue(p.CoverImage.WirePtr())
	}
	if p.OverlayImage != nil {
		body["overlayImageBase64"] = imageValue(p.OverlayImage.WirePtr())
	}
	return body
}

// EditEventBody returns the JSON body for POST /event-edit holding only the
// fields present in the patch. This endpoint expects snake_case keys.
func EditEventBody(p domain.EventPatch) map[string]any {
	body := map[string]any{"id": p.ID}
	if p.TrackID != nil {
		body["event_track_id"] = *p.TrackID
	}
	if p.TrackName != nil {
		body["event_track_name"] = *p.TrackName
	}
	if p.Name != nil {
		body["name"] = *p.Name
	}
	if p.Description != nil {
		body["description"] = *p.Description
	}
	if p.LongDescription != nil {
		body["long_description"] = *p.LongDescription
	}
	if p.Speakers != nil {
		body["speakers"] = speakers.Encode(*p.Speakers)
	}
	if p.Start != nil {
		body["initial_date"] = WireDate(*p.Start)
	}
	if p.End != nil {
		body["final_date"] = WireDate(*p.End)
	}
	if p.Location != nil {
		body["location"] = *p.Location
	}
	if p.Capacity != nil {
		body["capacity"] = *p.Capacity
	}
	if p.AvailableSeats != nil {
		body["available_seats"] = *p.AvailableSeats
	}
	if p.CoverImage != nil {
		body["cover_image"] = imageValue(p.CoverImage.WirePtr())
	}
	if p.CardImage != nil {
		body["card_image"] = imageValue(p.CardImage.WirePtr())
	}
	return body
}
