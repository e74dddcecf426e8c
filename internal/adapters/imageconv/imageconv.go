// Package imageconv turns locally picked images into data: URIs for upload.
package imageconv

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"eventtracks/internal/domain"
)

// MaxFileSize bounds how much of a local image is read.
const MaxFileSize = 16 << 20

// LocalFileReader reads plain paths and file:// URIs from the local filesystem.
type LocalFileReader struct{}

var _ domain.FileReader = LocalFileReader{}

// ReadBase64 returns the standard base64 encoding of the file at uri.
func (LocalFileReader) ReadBase64(ctx context.Context, uri string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path, err := localPath(uri)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory", path)
	}
	if info.Size() > MaxFileSize {
		return "", fmt.Errorf("%s is larger than %d bytes", path, MaxFileSize)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

func localPath(uri string) (string, error) {
	if !strings.Contains(uri, "://") {
		return uri, nil
	}
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("parse %q: %w", uri, err)
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	return u.Path, nil
}

// Encoder converts local image refs using a FileReader.
type Encoder struct {
	reader domain.FileReader
}

var _ domain.ImageEncoder = (*Encoder)(nil)

// NewEncoder returns an Encoder reading through reader (LocalFileReader when nil).
func NewEncoder(reader domain.FileReader) *Encoder {
	if reader == nil {
		reader = LocalFileReader{}
	}
	return &Encoder{reader: reader}
}

// Encode returns ref unchanged when it is empty or already a data URI.
// Otherwise the file is read and wrapped as data:<mime>;base64,<bytes>.
// Failures wrap domain.ErrImageConversion.
func (e *Encoder) Encode(ctx context.Context, ref domain.ImageRef) (domain.ImageRef, error) {
	if ref.IsZero() || ref.IsDataURI() {
		return ref, nil
	}
	uri := strings.TrimSpace(string(ref))
	encoded, err := e.reader.ReadBase64(ctx, uri)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrImageConversion, err)
	}
	if encoded == "" {
		return "", fmt.Errorf("%w: %s is empty", domain.ErrImageConversion, uri)
	}
	return domain.ImageRef("data:" + MimeType(uri) + ";base64," + encoded), nil
}

// MimeType derives an image mime type from the extension of uri. Unknown or
// missing extensions fall back to image/jpeg, the camera default.
func MimeType(uri string) string {
	if u, err := url.Parse(uri); err == nil && u.Path != "" {
		uri = u.Path
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(uri), "."))
	switch ext {
	case "jpg", "jpeg", "":
		return "image/jpeg"
	case "svg":
		return "image/svg+xml"
	case "tif":
		return "image/tiff"
	default:
		return "image/" + ext
	}
}
