package imaging

import (
	"bytes"
	"errors"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/akarlsen/filterlab/photo/domain"
)

// tiffWithOrientation builds a minimal little-endian TIFF blob whose only
// IFD entry is the orientation tag.
func tiffWithOrientation(o uint16) []byte {
	blob := []byte("II*\x00")
	blob = append(blob, 8, 0, 0, 0) // offset of IFD0
	blob = append(blob, 1, 0)       // one entry
	blob = append(blob,
		0x12, 0x01, // tag 0x0112 (orientation)
		3, 0, // type SHORT
		1, 0, 0, 0, // count
		byte(o), byte(o>>8), 0, 0, // value
	)
	blob = append(blob, 0, 0, 0, 0) // no next IFD
	return blob
}

// writeJPEG encodes the standard test image into dir, optionally injecting an
// EXIF APP1 segment carrying the given orientation right after the SOI marker.
func writeJPEG(t *testing.T, dir string, orientation uint16) string {
	t.Helper()

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, testImage(t), &jpeg.Options{Quality: 95}); err != nil {
		t.Fatalf("Failed to encode test image: %v", err)
	}
	raw := buf.Bytes()

	if orientation != 0 {
		payload := append([]byte("Exif\x00\x00"), tiffWithOrientation(orientation)...)
		segLen := len(payload) + 2

		var out bytes.Buffer
		out.Write(raw[:2]) // SOI
		out.Write([]byte{0xFF, 0xE1, byte(segLen >> 8), byte(segLen)})
		out.Write(payload)
		out.Write(raw[2:])
		raw = out.Bytes()
	}

	path := filepath.Join(dir, "test.jpg")
	if err := os.WriteFile(path, raw, 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}
	return path
}

func TestLoad_NoMetadata(t *testing.T) {
	path := writeJPEG(t, t.TempDir(), 0)

	img, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	b := img.Bounds()
	if b.Dx() != srcW || b.Dy() != srcH {
		t.Errorf("Load() size = %dx%d, want %dx%d", b.Dx(), b.Dy(), srcW, srcH)
	}
}

func TestLoad_AppliesOrientation(t *testing.T) {
	// Tag 6 swaps the axes, so the corrected image must be 2x3.
	path := writeJPEG(t, t.TempDir(), 6)

	img, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	b := img.Bounds()
	if b.Dx() != srcH || b.Dy() != srcW {
		t.Errorf("Load() size = %dx%d, want %dx%d", b.Dx(), b.Dy(), srcH, srcW)
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	garbage := filepath.Join(dir, "garbage.jpg")
	if err := os.WriteFile(garbage, []byte("not an image"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	tests := []struct {
		name string
		path string
	}{
		{name: "missing file", path: filepath.Join(dir, "nope.jpg")},
		{name: "not an image", path: garbage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path)
			if err == nil {
				t.Fatal("Load() expected error, got nil")
			}
			if !errors.Is(err, ErrDecode) {
				t.Errorf("Load() error = %v, want ErrDecode", err)
			}
		})
	}
}

func TestReadOrientation(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want domain.Orientation
	}{
		{
			name: "tag present",
			data: tiffWithOrientation(6),
			want: domain.RightTop,
		},
		{
			name: "mirrored tag",
			data: tiffWithOrientation(2),
			want: domain.TopRight,
		},
		{
			name: "no exif falls back to identity",
			data: []byte("definitely not exif data, long enough to read"),
			want: domain.TopLeft,
		},
		{
			name: "empty input falls back to identity",
			data: nil,
			want: domain.TopLeft,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ReadOrientation(bytes.NewReader(tt.data))
			if got != tt.want {
				t.Errorf("ReadOrientation() = %d, want %d", got, tt.want)
			}
		})
	}
}
