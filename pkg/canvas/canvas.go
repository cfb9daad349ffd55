// Package canvas exposes a display as a periph display.Drawer, so code
// written against periph.io displays can render onto it.
package canvas

import (
	"context"
	"image"
	"image/color"
	"time"

	"github.com/disintegration/imaging"
	"periph.io/x/conn/v3/display"

	"uoled/pkg/bitmap"
	"uoled/pkg/proto"
)

type Opts struct {
	Width  int
	Height int
	// Timeout bounds each Draw and Halt. Zero means no limit.
	Timeout time.Duration
}

var DefaultOpts = Opts{
	Width:   128,
	Height:  128,
	Timeout: 5 * time.Second,
}

// New returns a Drawer rendering onto dev.
func New(dev proto.Control, opts *Opts) *Dev {
	if opts == nil {
		opts = &DefaultOpts
	}
	return &Dev{
		dev:     dev,
		rect:    image.Rect(0, 0, opts.Width, opts.Height),
		timeout: opts.Timeout,
	}
}

type Dev struct {
	dev     proto.Control
	rect    image.Rectangle
	timeout time.Duration
}

func (d *Dev) String() string {
	return "uOLED"
}

// Halt implements conn.Resource.
//
// It erases the screen.
func (d *Dev) Halt() error {
	ctx, cancel := d.context()
	defer cancel()
	return d.dev.EraseScreen(ctx)
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return bitmap.Model
}

// Bounds implements display.Drawer.
func (d *Dev) Bounds() image.Rectangle {
	return d.rect
}

// Draw implements display.Drawer.
//
// Only the part of r on screen is sent. Screen pixel p shows src pixel
// sp + (p - r.Min), as with draw.Draw.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	clipped := r.Intersect(d.rect)
	if clipped.Empty() {
		return nil
	}
	sp = sp.Add(clipped.Min.Sub(r.Min))

	srcR := image.Rectangle{Min: sp, Max: sp.Add(clipped.Size())}.Intersect(src.Bounds())
	if srcR.Empty() {
		return nil
	}
	at := clipped.Min.Add(srcR.Min.Sub(sp))

	ctx, cancel := d.context()
	defer cancel()
	return d.dev.DrawBitmap(ctx, uint8(at.X), uint8(at.Y), imaging.Crop(src, srcR))
}

func (d *Dev) context() (context.Context, context.CancelFunc) {
	if d.timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), d.timeout)
}

var _ display.Drawer = &Dev{}
