package bitmap

import (
	"image"
	"image/color"
)

// https://github.com/gonutz/framebuffer/blob/master/fb.go

func NewRGB565(r image.Rectangle) *RGB565 {
	return &RGB565{
		pixels: make([]byte, 2*r.Dx()*r.Dy()),
		stride: 2 * r.Dx(),
		bounds: r,
	}
}

// RGB565 is a draw.Image whose pixel buffer is already in the display's
// 16-bit wire order: row major, two bytes per pixel, high byte first.
type RGB565 struct {
	pixels []byte
	stride int
	bounds image.Rectangle
}

// Bounds implements the image.Image (and draw.Image) interface.
func (d *RGB565) Bounds() image.Rectangle {
	return d.bounds
}

// ColorModel implements the image.Image (and draw.Image) interface.
func (d *RGB565) ColorModel() color.Model {
	return Model
}

// At implements the image.Image (and draw.Image) interface.
func (d *RGB565) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(d.bounds) {
		return Black
	}
	i := d.offset(x, y)
	return ColorFromBytes(d.pixels[i], d.pixels[i+1])
}

// Set implements the draw.Image interface.
func (d *RGB565) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}).In(d.bounds) {
		return
	}
	r, g, b, a := c.RGBA()
	if a == 0 {
		return
	}
	bs := toColor(r, g, b).Bytes()
	i := d.offset(x, y)
	d.pixels[i] = bs[0]
	d.pixels[i+1] = bs[1]
}

// Pix returns the wire-ordered pixel buffer.
func (d *RGB565) Pix() []byte {
	return d.pixels
}

func (d *RGB565) offset(x, y int) int {
	return (y-d.bounds.Min.Y)*d.stride + 2*(x-d.bounds.Min.X)
}
