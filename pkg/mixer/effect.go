package mixer

import (
	"context"
	"image"
)

// Write is one tile of an effect, drawn at At on the screen.
type Write struct {
	At  image.Point
	Img image.Image
}

type Image interface {
	image.Image
	SubImage(image.Rectangle) image.Image
}

// Effect splits an image into tiles and emits them in the order they should
// appear. The channel is closed when all tiles were sent or ctx is done.
type Effect interface {
	Name() string
	Process(ctx context.Context, img Image) (<-chan Write, error)
}

// emit sends ws on a new channel until ctx is done.
func emit(ctx context.Context, ws []Write) <-chan Write {
	wc := make(chan Write)

	go func() {
		defer close(wc)
		for _, w := range ws {
			select {
			case wc <- w:
			case <-ctx.Done():
				return
			}
		}
	}()

	return wc
}
