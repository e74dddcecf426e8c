package domain

import (
	"context"
	"strings"
)

// ImageRef is either a local device path/URI awaiting upload or a data: URI
// holding base64 bytes as stored by the backend.
type ImageRef string

// IsZero reports whether no image is set.
func (r ImageRef) IsZero() bool { return strings.TrimSpace(string(r)) == "" }

// IsDataURI reports whether r already carries encoded bytes.
func (r ImageRef) IsDataURI() bool { return strings.HasPrefix(string(r), "data:") }

// IsLocal reports whether r still points at a local file.
func (r ImageRef) IsLocal() bool { return !r.IsZero() && !r.IsDataURI() }

// WirePtr returns r as a *string for JSON bodies, nil when unset.
func (r ImageRef) WirePtr() *string {
	if r.IsZero() {
		return nil
	}
	s := string(r)
	return &s
}

// ImagePicker yields a local image selected by the user.
type ImagePicker interface {
	Pick(ctx context.Context) (ImageRef, error)
}

// FileReader reads a local URI and returns its contents as base64 text.
type FileReader interface {
	ReadBase64(ctx context.Context, uri string) (string, error)
}

// ImageEncoder turns a local ImageRef into a data: URI ready for upload.
type ImageEncoder interface {
	Encode(ctx context.Context, ref ImageRef) (ImageRef, error)
}
