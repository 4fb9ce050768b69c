package imaging

import (
	"errors"
	"fmt"
	"image"
	"io"
	"os"

	"github.com/rwcarlsen/goexif/exif"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/akarlsen/filterlab/photo/domain"
)

// ErrDecode indicates that an image file could not be opened or decoded.
var ErrDecode = errors.New("image decode failed")

// Load reads the image at path, decodes it, and corrects its orientation
// according to the EXIF metadata embedded in the same file. A file without
// readable EXIF data is returned as decoded, with no correction applied.
func Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrDecode, path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrDecode, path, err)
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return img, nil
	}

	o := ReadOrientation(f)
	if !o.IsIdentity() {
		img = Orient(img, o)
	}

	return img, nil
}

// ReadOrientation extracts the EXIF orientation tag from r.
// Any failure (no EXIF block, missing tag, malformed value) falls back to
// TopLeft so callers never need an error path for metadata.
func ReadOrientation(r io.Reader) domain.Orientation {
	x, err := exif.Decode(r)
	if err != nil {
		return domain.TopLeft
	}

	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return domain.TopLeft
	}

	v, err := tag.Int(0)
	if err != nil {
		return domain.TopLeft
	}

	return domain.Orientation(v)
}
