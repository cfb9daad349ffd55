package source

type Option func(l *Loader)

// WithCache keeps downloads in dir on the loader's filesystem.
func WithCache(dir string) Option {
	return func(l *Loader) {
		l.cache = dir
	}
}

// WithProgress shows a progress bar on stdout while downloading.
func WithProgress(show bool) Option {
	return func(l *Loader) {
		l.progress = show
	}
}

func WithSize(width, height int) Option {
	return func(l *Loader) {
		if width > 0 && height > 0 {
			l.width = width
			l.height = height
		}
	}
}

// WithFit scales pictures to fit inside the screen instead of filling it.
func WithFit() Option {
	return func(l *Loader) {
		l.fill = false
	}
}
