package bot

import "time"

type Option func(b *Bot)

// WithOffline skips contacting Telegram, for dry runs.
func WithOffline() Option {
	return func(b *Bot) {
		b.pref.Offline = true
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(b *Bot) {
		if timeout > 0 {
			b.timeout = timeout
		}
	}
}
