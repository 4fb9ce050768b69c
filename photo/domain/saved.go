package domain

import (
	"context"
	"image"
	"time"
)

// SavedFile describes a single image file written by an ImageStore.
type SavedFile struct {
	Filename string
	Path     string
	Hash     string
}

// ImageStore writes images to durable storage and derives their filenames.
type ImageStore interface {
	Write(ctx context.Context, img image.Image) (*SavedFile, error)
}

// SavedImage is the record of a filtered image written to disk.
// The file itself lives under the pictures directory; the record keeps enough
// metadata to list and audit past saves.
type SavedImage struct {
	Filename  string
	Source    string
	Filter    string
	Hash      string
	Width     int
	Height    int
	CreatedAt time.Time
}

type SavedImageRepository interface {
	RecordSave(ctx context.Context, s *SavedImage) error
	GetSave(ctx context.Context, filename string) (*SavedImage, error)
	ListSaves(ctx context.Context, limit int, offset int) ([]*SavedImage, error)
}
