// Package render implements the paint-cycle side of the filtered image
// component: a node that lazily rebuilds a texture resource whenever the
// displayed image changes. The actual texture upload is behind the
// TextureFactory interface so the package stays independent of any graphics
// API.
package render

import (
	"fmt"
	"image"

	xdraw "golang.org/x/image/draw"

	"github.com/akarlsen/filterlab/photo/domain"
)

// Texture is a GPU-backed resource built from a decoded image.
type Texture interface {
	Release()
}

// TextureFactory builds textures from RGBA pixel data.
type TextureFactory interface {
	CreateTexture(img *image.RGBA) (Texture, error)
}

// DirtyState marks which aspects of the node changed during the last sync.
type DirtyState uint8

const (
	DirtyMaterial DirtyState = 1 << iota
	DirtyGeometry
)

// Node caches the texture built from the component's current image and the
// rectangle it is drawn into. The texture is rebuilt only when the image
// changed since the last sync or no texture exists yet.
type Node struct {
	factory TextureFactory
	texture Texture
	rect    image.Rectangle
	dirty   DirtyState
}

func NewNode(factory TextureFactory) *Node {
	return &Node{
		factory: factory,
	}
}

// Sync brings the node in line with the image chosen for this paint cycle.
// A nil img releases the cached texture and renders nothing. When changed is
// set, or no texture exists, the texture is rebuilt and the node rectangle is
// resized to the display size.
func (n *Node) Sync(img image.Image, size domain.Size, changed bool) error {
	if img == nil {
		n.Release()
		return nil
	}

	if !changed && n.texture != nil {
		return nil
	}

	if n.texture != nil {
		n.texture.Release()
		n.texture = nil
	}

	tex, err := n.factory.CreateTexture(toRGBA(img))
	if err != nil {
		return fmt.Errorf("failed to create texture: %w", err)
	}

	n.texture = tex
	n.rect = image.Rect(0, 0, size.Width, size.Height)
	n.dirty |= DirtyMaterial | DirtyGeometry
	return nil
}

// Texture returns the cached texture, or nil when nothing is rendered.
func (n *Node) Texture() Texture {
	return n.texture
}

// Rect returns the rectangle the texture is drawn into.
func (n *Node) Rect() image.Rectangle {
	return n.rect
}

// TakeDirty returns the accumulated dirty state and clears it.
func (n *Node) TakeDirty() DirtyState {
	d := n.dirty
	n.dirty = 0
	return d
}

// Release drops the cached texture and resets the node geometry.
func (n *Node) Release() {
	if n.texture != nil {
		n.texture.Release()
		n.texture = nil
	}
	n.rect = image.Rectangle{}
}

// toRGBA normalizes any decoded image into zero-origin RGBA pixel data
// suitable for upload.
func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}

	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Copy(dst, image.Point{}, img, b, xdraw.Src, nil)
	return dst
}
