package mixer

import "image"

type Option func(d *Drawer)

func WithEffect(e ...Effect) Option {
	return func(d *Drawer) {
		d.effs = e
	}
}

// WithOrigin moves where the top left of a canvas lands on the screen.
func WithOrigin(at image.Point) Option {
	return func(d *Drawer) {
		d.origin = at
	}
}
