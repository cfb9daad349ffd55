package bitmap

import (
	"image"
)

// Encode16 converts src to 16-bit pixel data, two bytes per pixel, high byte first.
func Encode16(src image.Image) []byte {
	b := src.Bounds()
	d := NewRGB565(b)

	for x := b.Min.X; x < b.Max.X; x++ {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			d.Set(x, y, src.At(x, y))
		}
	}

	return d.pixels
}

// Encode8 converts src to 8-bit RRRGGGBB pixel data, one byte per pixel.
func Encode8(src image.Image) []byte {
	b := src.Bounds()
	pixels := make([]byte, 0, b.Dx()*b.Dy())

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := src.At(x, y).RGBA()
			pixels = append(pixels, toColor8(r, g, bl))
		}
	}

	return pixels
}
