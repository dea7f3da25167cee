package http

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/turfbook/turf-booking-backend/internal/pkg/storage"
)

const (
	maxImages        = 5
	maxImageBytes    = 10 << 20 // 10MB per file
	imageBoundingBox = 1600
)

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// saveImages stores the uploaded turf photos, re-encoded as bounded JPEGs,
// and returns their storage paths. On any failure the files saved so far
// are removed.
func saveImages(ctx context.Context, store storage.Storage, processor *storage.ImageProcessor, files []*multipart.FileHeader) ([]string, error) {
	if len(files) > maxImages {
		return nil, fmt.Errorf("at most %d images are allowed", maxImages)
	}

	var saved []string
	cleanup := func() {
		for _, p := range saved {
			_ = store.Delete(ctx, p)
		}
	}

	for _, fh := range files {
		if fh.Size > maxImageBytes {
			cleanup()
			return nil, fmt.Errorf("image %s exceeds the size limit", fh.Filename)
		}
		ext := strings.ToLower(filepath.Ext(fh.Filename))
		if !allowedImageExts[ext] {
			cleanup()
			return nil, fmt.Errorf("image %s has an unsupported type", fh.Filename)
		}

		src, err := fh.Open()
		if err != nil {
			cleanup()
			return nil, fmt.Errorf("failed to open uploaded image: %w", err)
		}

		resized, err := processor.Normalize(src, imageBoundingBox, imageBoundingBox)
		src.Close()
		if err != nil {
			cleanup()
			return nil, fmt.Errorf("failed to process image %s: %w", fh.Filename, err)
		}

		path := filepath.Join("turfs", uuid.NewString()+".jpg")
		if err := store.Save(ctx, path, resized); err != nil {
			cleanup()
			return nil, fmt.Errorf("failed to store image: %w", err)
		}
		saved = append(saved, path)
	}

	return saved, nil
}
