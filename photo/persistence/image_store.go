package persistence

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/akarlsen/filterlab/photo/domain"
)

var (
	// ErrCreateDir indicates the output directory could not be created.
	ErrCreateDir = errors.New("create output directory failed")
	// ErrEncode indicates the image could not be encoded or written out.
	ErrEncode = errors.New("image encode failed")
)

const (
	filtersSubdir  = "filters"
	defaultQuality = 95
)

// StoreConfig holds the disk layout settings for saved images.
type StoreConfig struct {
	PicturesDir string
	JPEGQuality int
}

// NewStoreConfig builds a StoreConfig from the environment.
// FILTERLAB_PICTURES_DIR overrides the platform pictures directory;
// FILTERLAB_JPEG_QUALITY overrides the encode quality (1-100).
func NewStoreConfig() *StoreConfig {
	dir := os.Getenv("FILTERLAB_PICTURES_DIR")
	if dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, "Pictures")
		} else {
			dir = "."
		}
	}

	quality := defaultQuality
	if q := os.Getenv("FILTERLAB_JPEG_QUALITY"); q != "" {
		if parsed, err := strconv.Atoi(q); err == nil && parsed >= 1 && parsed <= 100 {
			quality = parsed
		}
	}

	return &StoreConfig{
		PicturesDir: dir,
		JPEGQuality: quality,
	}
}

// DiskImageStore writes JPEG files into a "filters" subdirectory of the
// pictures directory, naming each file after the millisecond timestamp of
// the save.
type DiskImageStore struct {
	dir     string
	quality int
	now     func() time.Time
}

var _ domain.ImageStore = (*DiskImageStore)(nil)

func NewDiskImageStore(cfg *StoreConfig) *DiskImageStore {
	return &DiskImageStore{
		dir:     filepath.Join(cfg.PicturesDir, filtersSubdir),
		quality: cfg.JPEGQuality,
		now:     time.Now,
	}
}

// Write encodes img as JPEG under the store directory, creating the directory
// if it does not exist yet. The returned record carries the generated
// filename and the SHA-256 of the encoded bytes.
func (s *DiskImageStore) Write(ctx context.Context, img image.Image) (*domain.SavedFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCreateDir, s.dir, err)
	}

	filename := strconv.FormatInt(s.now().UnixMilli(), 10) + ".jpg"
	path := filepath.Join(s.dir, filename)

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("%w: create %s: %v", ErrEncode, path, err)
	}

	hasher := sha256.New()
	if err := jpeg.Encode(io.MultiWriter(f, hasher), img, &jpeg.Options{Quality: s.quality}); err != nil {
		f.Close()
		os.Remove(path)
		return nil, fmt.Errorf("%w: encode %s: %v", ErrEncode, path, err)
	}

	if err := f.Close(); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("%w: close %s: %v", ErrEncode, path, err)
	}

	return &domain.SavedFile{
		Filename: filename,
		Path:     path,
		Hash:     hex.EncodeToString(hasher.Sum(nil)),
	}, nil
}
