package imaging

import (
	"image"

	"github.com/disintegration/imaging"

	"github.com/akarlsen/filterlab/photo/domain"
)

// Orient corrects img for the given EXIF orientation tag and returns the
// corrected copy. Tag 1 and any out-of-range value return img unchanged.
//
// Rotation notes: imaging.Rotate90 and imaging.Rotate270 rotate
// counter-clockwise, so a 90-degree clockwise correction is Rotate270.
func Orient(img image.Image, o domain.Orientation) image.Image {
	if img == nil || o.IsIdentity() {
		return img
	}

	switch o {
	case domain.TopRight:
		return imaging.FlipH(img)
	case domain.BottomRight:
		return imaging.Rotate180(img)
	case domain.BottomLeft:
		return imaging.FlipV(img)
	case domain.LeftTop:
		return imaging.FlipH(imaging.Rotate270(img))
	case domain.RightTop:
		return imaging.Rotate270(img)
	case domain.RightBottom:
		return imaging.FlipH(imaging.Rotate90(img))
	case domain.LeftBottom:
		return imaging.Rotate90(img)
	}

	return img
}
