package mixer

import (
	"context"
	"image"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"uoled/pkg/proto"
)

func NewDrawer(dst proto.Control, logger *zap.Logger, opts ...Option) *Drawer {
	d := &Drawer{
		dev:    dst,
		logger: logger,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

type Drawer struct {
	dev    proto.Control
	logger *zap.Logger
	effs   []Effect
	origin image.Point
}

// Canvas draws img on the display, tile by tile through one of the
// configured effects picked at random, or in one go without effects.
func (d *Drawer) Canvas(ctx context.Context, img image.Image) error {
	eff := lo.Sample(d.effs)
	if eff == nil {
		return d.draw(ctx, image.Point{}, img)
	}

	src, ok := img.(Image)
	if !ok {
		src = imaging.Clone(img)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w, err := eff.Process(ctx, src)
	if err != nil {
		return errors.Wrap(err, eff.Name())
	}

	tiles := 0
	for w2 := range w {
		if err := d.draw(ctx, w2.At, w2.Img); err != nil {
			return err
		}
		tiles++
	}

	d.logger.With(zap.String("effect", eff.Name()), zap.Int("tiles", tiles)).Debug("canvas")
	return ctx.Err()
}

func (d *Drawer) draw(ctx context.Context, at image.Point, img image.Image) error {
	at = at.Add(d.origin)
	if at.X < 0 || at.Y < 0 || at.X > 0xFF || at.Y > 0xFF {
		return errors.Errorf("tile at %v is off screen", at)
	}
	return d.dev.DrawBitmap(ctx, uint8(at.X), uint8(at.Y), img)
}
