package mixer

import (
	"context"
	"image"

	"github.com/samber/lo"
)

// EffectRows sweeps the image onto the screen top down in strips of height
// pixels.
func EffectRows(height int) Effect {
	return &rows{height: lo.Max([]int{height, 1})}
}

type rows struct {
	height int
}

func (e *rows) Name() string {
	return "rows"
}

func (e *rows) Process(ctx context.Context, img Image) (<-chan Write, error) {
	r := img.Bounds()

	var ws []Write
	for y := r.Min.Y; y < r.Max.Y; y += e.height {
		strip := image.Rect(r.Min.X, y, r.Max.X, y+e.height).Intersect(r)
		ws = append(ws, Write{At: strip.Min.Sub(r.Min), Img: img.SubImage(strip)})
	}

	return emit(ctx, ws), nil
}
