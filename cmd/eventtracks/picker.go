package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"eventtracks/internal/domain"
)

// pathPicker selects the image named on the command line.
type pathPicker struct {
	path string
}

func (p pathPicker) Pick(ctx context.Context) (domain.ImageRef, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path := strings.TrimSpace(p.path)
	if path == "" {
		return "", nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("image %q: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("image %q: %w", path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("image %q is a directory", path)
	}
	return domain.ImageRef(abs), nil
}

// pickImage resolves an image flag through picker.
func pickImage(ctx context.Context, picker domain.ImagePicker) (domain.ImageRef, error) {
	return picker.Pick(ctx)
}

// pickChangedImage resolves an image flag only when the user set it. An empty
// value clears the image.
func pickChangedImage(ctx context.Context, changed bool, path string) (*domain.ImageRef, error) {
	if !changed {
		return nil, nil
	}
	ref, err := pickImage(ctx, pathPicker{path: path})
	if err != nil {
		return nil, err
	}
	return &ref, nil
}
