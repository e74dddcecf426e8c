// Package speakers converts between the backend's free-form speakers field and
// an ordered list of names.
package speakers

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformed reports speaker data that could not be decoded and was dropped.
var ErrMalformed = errors.New("malformed speakers")

type wireSpeaker struct {
	Name string `json:"name"`
}

// Decode returns the speaker names held in raw. It accepts nil, a JSON-encoded
// string, a slice of strings, or a slice of objects with a name field. Blank
// entries are dropped, order and duplicates are kept. Malformed input yields an
// empty list.
func Decode(raw any) []string {
	names, _ := DecodeStrict(raw)
	return names
}

// DecodeStrict is Decode that also reports when malformed input was discarded.
// The returned list is always non-nil.
func DecodeStrict(raw any) ([]string, error) {
	switch v := raw.(type) {
	case nil:
		return []string{}, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return []string{}, nil
		}
		var parsed any
		if err := json.Unmarshal([]byte(v), &parsed); err != nil {
			return []string{}, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		list, ok := parsed.([]any)
		if !ok {
			return []string{}, fmt.Errorf("%w: decoded %T, want array", ErrMalformed, parsed)
		}
		return fromList(list), nil
	case []any:
		return fromList(v), nil
	case []string:
		out := make([]string, 0, len(v))
		for _, s := range v {
			out = appendName(out, s)
		}
		return out, nil
	case []map[string]any:
		out := make([]string, 0, len(v))
		for _, m := range v {
			name, _ := m["name"].(string)
			out = appendName(out, name)
		}
		return out, nil
	default:
		return []string{}, fmt.Errorf("%w: unsupported type %T", ErrMalformed, raw)
	}
}

func fromList(list []any) []string {
	out := make([]string, 0, len(list))
	for _, item := range list {
		switch v := item.(type) {
		case string:
			out = appendName(out, v)
		case map[string]any:
			name, _ := v["name"].(string)
			out = appendName(out, name)
		}
	}
	return out
}

func appendName(out []string, name string) []string {
	name = strings.TrimSpace(name)
	if name == "" {
		return out
	}
	return append(out, name)
}

// Encode returns the wire form: a JSON string encoding [{"name": ...}, ...].
func Encode(names []string) string {
	wire := make([]wireSpeaker, 0, len(names))
	for _, n := range names {
		wire = append(wire, wireSpeaker{Name: n})
	}
	// Marshal of a slice of plain structs cannot fail.
	b, _ := json.Marshal(wire)
	return string(b)
}
