package services

import (
	"math"
	"regexp"
	"strings"
	"time"

	"eventtracks/internal/domain"
	"eventtracks/internal/speakers"
)

// Validator is implemented by forms that check their input before any remote call.
type Validator interface {
	Validate() *domain.ValidationError
}

const (
	msgRequired     = "Este campo es requerido"
	msgDateFormat   = "Formato debe ser YYYY-MM-DD"
	msgEndBefore    = "Fecha fin no puede ser anterior a fecha inicio"
	msgCapacity     = "Capacidad debe ser número positivo"
	msgSeats        = "Asientos no puede ser negativo"
	msgSeatsOver    = "Asientos no puede superar la capacidad"
	msgCoverImage   = "Imagen de portada requerida"
	msgCardImage    = "Imagen de tarjeta requerida"
	msgStars        = "Calificación debe estar entre 0 y 5"
	msgNoChanges    = "No hay cambios para guardar"
	msgTrackName    = "El nombre es requerido"
	msgTrackMissing = "Línea de eventos requerida"
)

var dateOnly = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

func blank(s string) bool { return strings.TrimSpace(s) == "" }

// parseDate accepts YYYY-MM-DD only.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if !dateOnly.MatchString(s) {
		return time.Time{}, false
	}
	t, err := time.Parse(time.DateOnly, s)
	return t, err == nil
}

// TrackForm is the input of the add-track screen.
type TrackForm struct {
	Name         string
	Description  string
	CoverImage   domain.ImageRef
	OverlayImage domain.ImageRef
}

func (f TrackForm) Validate() *domain.ValidationError {
	v := &domain.ValidationError{}
	if blank(f.Name) {
		v.Add("name", msgTrackName)
	}
	if f.CoverImage.IsZero() {
		v.Add("coverImage", msgCoverImage)
	}
	return v
}

// EventForm is the input of the add-event screen. Dates are YYYY-MM-DD.
type EventForm struct {
	TrackID         int64
	TrackName       string
	Name            string
	Description     string
	LongDescription string
	Speakers        []string
	Start           string
	End             string
	Location        string
	Capacity        int
	AvailableSeats  int
	CoverImage      domain.ImageRef
	CardImage       domain.ImageRef
}

func (f EventForm) Validate() *domain.ValidationError {
	v := &domain.ValidationError{}
	if f.TrackID <= 0 {
		v.Add("trackId", msgTrackMissing)
	}
	for field, value := range map[string]string{
		"trackName":       f.TrackName,
		"name":            f.Name,
		"description":     f.Description,
		"longDescription": f.LongDescription,
		"location":        f.Location,
	} {
		if blank(value) {
			v.Add(field, msgRequired)
		}
	}

	start, okStart := parseDate(f.Start)
	if !okStart {
		v.Add("start", msgDateFormat)
	}
	end, okEnd := parseDate(f.End)
	if !okEnd {
		v.Add("end", msgDateFormat)
	}
	if okStart && okEnd && end.Before(start) {
		v.Add("end", msgEndBefore)
	}

	if f.Capacity <= 0 {
		v.Add("capacity", msgCapacity)
	}
	if f.AvailableSeats < 0 {
		v.Add("availableSeats", msgSeats)
	} else if f.Capacity > 0 && f.AvailableSeats > f.Capacity {
		v.Add("availableSeats", msgSeatsOver)
	}

	if f.CoverImage.IsZero() {
		v.Add("coverImage", msgCoverImage)
	}
	if f.CardImage.IsZero() {
		v.Add("cardImage", msgCardImage)
	}
	return v
}

// request builds the create body. Call only after Validate passed and images
// were encoded.
func (f EventForm) request() domain.CreateEventRequest {
	start, _ := parseDate(f.Start)
	end, _ := parseDate(f.End)
	return domain.CreateEventRequest{
		TrackID:         f.TrackID,
		TrackName:       strings.TrimSpace(f.TrackName),
		Name:            strings.TrimSpace(f.Name),
		Description:     strings.TrimSpace(f.Description),
		LongDescription: strings.TrimSpace(f.LongDescription),
		Speakers:        speakers.Decode(f.Speakers),
		Start:           start,
		End:             end,
		Location:        strings.TrimSpace(f.Location),
		Capacity:        f.Capacity,
		AvailableSeats:  f.AvailableSeats,
		CoverImage:      f.CoverImage.WirePtr(),
		CardImage:       f.CardImage.WirePtr(),
	}
}

// FeedbackForm is the input of the rating widget on the event screen.
type FeedbackForm struct {
	EventID  int64
	UserID   string
	UserName string
	Stars    float64
	Comment  string
}

func (f FeedbackForm) Validate() *domain.ValidationError {
	v := &domain.ValidationError{}
	if f.EventID <= 0 {
		v.Add("eventId", msgRequired)
	}
	if blank(f.UserID) {
		v.Add("userId", msgRequired)
	}
	if math.IsNaN(f.Stars) || f.Stars < 0 || f.Stars > domain.MaxStars {
		v.Add("stars", msgStars)
	}
	return v
}

// ValidateTrackPatch checks a partial track edit.
func ValidateTrackPatch(p domain.EventTrackPatch) *domain.ValidationError {
	v := &domain.ValidationError{}
	if p.IsEmpty() {
		v.Add("patch", msgNoChanges)
	}
	if p.Name != nil && blank(*p.Name) {
		v.Add("name", msgTrackName)
	}
	return v
}

// ValidateEventPatch checks a partial event edit. When current is known the
// patched result must keep seats within capacity and the end after the start;
// otherwise only the fields present in the patch are compared.
func ValidateEventPatch(current *domain.Event, p domain.EventPatch) *domain.ValidationError {
	v := &domain.ValidationError{}
	if p.IsEmpty() {
		v.Add("patch", msgNoChanges)
		return v
	}
	if p.Name != nil && blank(*p.Name) {
		v.Add("name", msgRequired)
	}
	if p.Capacity != nil && *p.Capacity <= 0 {
		v.Add("capacity", msgCapacity)
	}
	if p.AvailableSeats != nil && *p.AvailableSeats < 0 {
		v.Add("availableSeats", msgSeats)
	}

	known := current != nil
	var base domain.Event
	if known {
		base = *current
	}
	next := p.Apply(base)

	if (p.Capacity != nil || p.AvailableSeats != nil) &&
		(known || p.Capacity != nil) && (known || p.AvailableSeats != nil) &&
		next.Capacity > 0 && next.AvailableSeats > next.Capacity {
		v.Add("availableSeats", msgSeatsOver)
	}
	if (p.Start != nil || p.End != nil) &&
		(known || p.Start != nil) && (known || p.End != nil) &&
		!next.Start.IsZero() && !next.End.IsZero() && next.End.Before(next.Start) {
		v.Add("end", msgEndBefore)
	}
	return v
}
