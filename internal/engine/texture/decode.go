// Package texture decodes images and keeps one GPU texture per source path.
package texture

import (
	"bytes"
	"image"
	"image/draw"
	"path/filepath"
	"strings"

	// Decoders registered with image.Decode.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Decode decodes image bytes to RGBA. name selects the TGA decoder by
// extension since TGA has no magic number; every other format is sniffed.
func Decode(name string, data []byte) (*image.RGBA, error) {
	if strings.EqualFold(filepath.Ext(name), ".tga") {
		return DecodeTGA(data)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return ToRGBA(img), nil
}

// ToRGBA converts any image to *image.RGBA with its origin at (0, 0).
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}
