package normalize

import (
	"encoding/base64"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"eventtracks/internal/domain"
)

// table maps a canonical field to the raw keys that may carry it, highest
// priority first. The canonical JSON key of the domain type is always listed so
// that already-normalized data resolves to itself.
type table map[string][]string

var trackTable = table{
	"id":           {"id"},
	"name":         {"name"},
	"description":  {"description"},
	"coverImage":   {"coverImageBase64", "cover_image", "coverImage"},
	"overlayImage": {"overlayImageBase64", "overlay_image", "overlayImage"},
	"eventsCount":  {"eventsCount", "events_count"},
}

var eventTable = table{
	"id":              {"id"},
	"trackId":         {"event_track_id", "eventTrackId", "trackId"},
	"trackName":       {"event_track_name", "eventTrackName", "trackName"},
	"name":            {"name"},
	"description":     {"description"},
	"longDescription": {"long_description", "longDescription"},
	"start":           {"initial_date", "initialDate", "start"},
	"end":             {"final_date", "finalDate", "end"},
	"location":        {"location"},
	"capacity":        {"capacity"},
	"availableSeats":  {"available_seats", "availableSeats"},
	"speakers":        {"speakers"},
	"coverImage":      {"coverImageBase64", "cover_image", "coverImage"},
	"cardImage":       {"cardImageBase64", "card_image", "cardImage"},
}

var feedbackTable = table{
	"id":        {"id"},
	"eventId":   {"event_id", "eventId"},
	"userName":  {"user_name", "userName", "username"},
	"stars":     {"stars", "rating"},
	"comment":   {"comment"},
	"createdAt": {"created_at", "createdAt"},
}

// lookup returns the first present value for field. nil values and blank
// strings count as absent.
func (t table) lookup(obj map[string]any, field string) (any, bool) {
	for _, key := range t[field] {
		v, ok := obj[key]
		if !ok || v == nil {
			continue
		}
		if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
			continue
		}
		return v, true
	}
	return nil, false
}

func (t table) stringField(obj map[string]any, field, def string) string {
	v, ok := t.lookup(obj, field)
	if !ok {
		return def
	}
	s, ok := toString(v)
	if !ok {
		return def
	}
	return s
}

func (t table) int64Field(obj map[string]any, field string) int64 {
	v, ok := t.lookup(obj, field)
	if !ok {
		return 0
	}
	n, _ := toInt64(v)
	return n
}

func (t table) intField(obj map[string]any, field string) int {
	return int(t.int64Field(obj, field))
}

func (t table) timeField(obj map[string]any, field string) time.Time {
	v, ok := t.lookup(obj, field)
	if !ok {
		return time.Time{}
	}
	ts, _ := toTime(v)
	return ts
}

func (t table) imageField(obj map[string]any, field string) domain.ImageRef {
	v, ok := t.lookup(obj, field)
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return toImage(s)
}

func asObject(raw any) (map[string]any, bool) {
	obj, ok := raw.(map[string]any)
	return obj, ok && obj != nil
}

func toString(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x), true
	case json.Number:
		return x.String(), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case int:
		return strconv.Itoa(x), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case bool:
		return strconv.FormatBool(x), true
	default:
		return "", false
	}
}

func toFloat(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func toInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case int:
		return int64(x), true
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return n, true
		}
	case string:
		if n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64); err == nil {
			return n, true
		}
	}
	f, ok := toFloat(v)
	if !ok || f > math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func toTime(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x.UTC(), true
	case string:
		s := strings.TrimSpace(x)
		for _, layout := range timeLayouts {
			if ts, err := time.Parse(layout, s); err == nil {
				return ts.UTC(), true
			}
		}
	}
	return time.Time{}, false
}

var passthroughImagePrefixes = []string{"data:", "http://", "https://", "file://", "content://"}

// toImage returns s as an ImageRef. Bare base64 from the backend is wrapped as a
// PNG data URI; anything else that does not decode as base64 (relative paths,
// bare hosts) is kept as sent.
func toImage(s string) domain.ImageRef {
	s = strings.TrimSpace(s)
	for _, p := range passthroughImagePrefixes {
		if strings.HasPrefix(s, p) {
			return domain.ImageRef(s)
		}
	}
	payload := strings.Join(strings.Fields(s), "")
	if !isBase64(payload) {
		return domain.ImageRef(s)
	}
	return domain.ImageRef("data:image/png;base64," + payload)
}

func isBase64(s string) bool {
	if _, err := base64.StdEncoding.DecodeString(s); err == nil {
		return true
	}
	_, err := base64.RawStdEncoding.DecodeString(s)
	return err == nil
}
