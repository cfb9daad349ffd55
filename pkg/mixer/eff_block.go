package mixer

import (
	"context"
	"image"
	"math/rand"

	"github.com/samber/lo"
)

// EffectBlock reveals the image in square blocks of a random size, in random
// order.
func EffectBlock() Effect {
	return &block{
		size: 32,
		rand: true,
	}
}

// EffectFixedBlock reveals the image in size x size blocks, row by row.
func EffectFixedBlock(size int) Effect {
	return &block{
		size: lo.Max([]int{size, 1}),
	}
}

type block struct {
	size int
	rand bool
}

func (e *block) Name() string {
	return "block"
}

func (e *block) Process(ctx context.Context, img Image) (<-chan Write, error) {
	r := img.Bounds()

	size := e.size
	if e.rand {
		size = rand.Intn(32) + 8
	}

	var ws []Write
	for y := r.Min.Y; y < r.Max.Y; y += size {
		for x := r.Min.X; x < r.Max.X; x += size {
			tile := image.Rect(x, y, x+size, y+size).Intersect(r)
			ws = append(ws, Write{
				At:  tile.Min.Sub(r.Min),
				Img: img.SubImage(tile),
			})
		}
	}

	if e.rand {
		lo.Shuffle(ws)
	}

	return emit(ctx, ws), nil
}
