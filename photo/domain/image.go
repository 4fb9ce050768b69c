package domain

import "image"

// Orientation is the EXIF orientation tag value read from image metadata.
// The zero value is treated the same as TopLeft (no correction needed).
type Orientation int

const (
	TopLeft     Orientation = 1 // identity
	TopRight    Orientation = 2 // flip horizontal
	BottomRight Orientation = 3 // flip horizontal + vertical
	BottomLeft  Orientation = 4 // flip vertical
	LeftTop     Orientation = 5 // rotate 90 CW, then flip horizontal
	RightTop    Orientation = 6 // rotate 90 CCW
	RightBottom Orientation = 7 // rotate 90 CCW, then flip horizontal
	LeftBottom  Orientation = 8 // rotate 90 CW
)

// IsIdentity reports whether the tag requires no pixel correction.
// Unknown or malformed tag values fall through to identity.
func (o Orientation) IsIdentity() bool {
	return o < TopRight || o > LeftBottom
}

// Size is the display size of an image in pixels.
type Size struct {
	Width  int
	Height int
}

// SizeOf returns the display size of img, or the zero Size for a nil image.
func SizeOf(img image.Image) Size {
	if img == nil {
		return Size{}
	}
	b := img.Bounds()
	return Size{Width: b.Dx(), Height: b.Dy()}
}
