package imageconv

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"eventtracks/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReader struct {
	data  string
	err   error
	calls int
}

func (f *fakeReader) ReadBase64(_ context.Context, _ string) (string, error) {
	f.calls++
	return f.data, f.err
}

func TestEncoder_Encode(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name      string
		ref       domain.ImageRef
		reader    *fakeReader
		want      domain.ImageRef
		wantErr   bool
		wantCalls int
	}{
		{
			name:   "empty ref passes through",
			ref:    "",
			reader: &fakeReader{},
			want:   "",
		},
		{
			name:   "data uri passes through",
			ref:    "data:image/png;base64,AAAA",
			reader: &fakeReader{},
			want:   "data:image/png;base64,AAAA",
		},
		{
			name:      "png file",
			ref:       "file:///tmp/cover.png",
			reader:    &fakeReader{data: "QUJD"},
			want:      "data:image/png;base64,QUJD",
			wantCalls: 1,
		},
		{
			name:      "jpg normalized",
			ref:       "/sdcard/DCIM/photo.JPG",
			reader:    &fakeReader{data: "QUJD"},
			want:      "data:image/jpeg;base64,QUJD",
			wantCalls: 1,
		},
		{
			name:      "read failure",
			ref:       "/missing.png",
			reader:    &fakeReader{err: errors.New("no such file")},
			wantErr:   true,
			wantCalls: 1,
		},
		{
			name:      "empty file",
			ref:       "/empty.png",
			reader:    &fakeReader{},
			wantErr:   true,
			wantCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc := NewEncoder(tt.reader)
			got, err := enc.Encode(ctx, tt.ref)
			assert.Equal(t, tt.wantCalls, tt.reader.calls)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrImageConversion)
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLocalFileReader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cover.png")
	content := []byte{0x89, 'P', 'N', 'G'}
	require.NoError(t, os.WriteFile(path, content, 0o600))
	want := base64.StdEncoding.EncodeToString(content)

	ctx := context.Background()
	var r LocalFileReader

	got, err := r.ReadBase64(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	got, err = r.ReadBase64(ctx, "file://"+path)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = r.ReadBase64(ctx, filepath.Join(dir, "nope.png"))
	assert.Error(t, err)

	_, err = r.ReadBase64(ctx, "content://media/external/images/1")
	assert.Error(t, err)

	_, err = r.ReadBase64(ctx, dir)
	assert.Error(t, err)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = r.ReadBase64(cancelled, path)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEncoder_LocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "card.webp")
	require.NoError(t, os.WriteFile(path, []byte("abc"), 0o600))

	got, err := NewEncoder(nil).Encode(context.Background(), domain.ImageRef(path))
	require.NoError(t, err)
	assert.Equal(t, domain.ImageRef("data:image/webp;base64,YWJj"), got)
}

func TestMimeType(t *testing.T) {
	tests := map[string]string{
		"a.png":               "image/png",
		"a.jpeg":              "image/jpeg",
		"a.jpg":               "image/jpeg",
		"noext":               "image/jpeg",
		"file:///x/y.GIF":     "image/gif",
		"icon.svg":            "image/svg+xml",
		"scan.tif":            "image/tiff",
		"/storage/photo.heic": "image/heic",
	}
	for in, want := range tests {
		assert.Equal(t, want, MimeType(in), in)
	}
}
