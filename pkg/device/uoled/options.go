package uoled

import (
	"time"

	"uoled/pkg/proto"
)

// Config holds the driver configuration.
type Config struct {
	BaudRate int

	// WriteTimeout bounds every write to the transport.
	WriteTimeout time.Duration

	// PollInterval bounds a single transport read while waiting for a reply.
	PollInterval time.Duration

	// AckTimeout bounds the whole wait for a reply. Zero waits until the
	// context passed to the command is done.
	AckTimeout time.Duration

	// StrictAck requires the reply to a command to be ACK (0x06).
	StrictAck bool

	Width  int
	Height int

	// ColorMode is the pixel format DrawBitmap sends.
	ColorMode proto.ColorMode

	// ReplyHook, if set, sees every reply read from the device.
	ReplyHook func(reply []byte)
}

func defaultConfig() Config {
	return Config{
		BaudRate:     115200,
		WriteTimeout: 500 * time.Millisecond,
		PollInterval: 10 * time.Millisecond,
		AckTimeout:   2 * time.Second,
		Width:        128,
		Height:       128,
		ColorMode:    proto.Color16,
	}
}

type Option func(c *Config)

func WithBaudRate(baud int) Option {
	return func(c *Config) {
		c.BaudRate = baud
	}
}

func WithWriteTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.WriteTimeout = timeout
	}
}

func WithPollInterval(interval time.Duration) Option {
	return func(c *Config) {
		if interval > 0 {
			c.PollInterval = interval
		}
	}
}

// WithAckTimeout sets how long a command waits for the device to answer.
// A zero timeout leaves the wait to the caller's context.
func WithAckTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		if timeout >= 0 {
			c.AckTimeout = timeout
		}
	}
}

// WithStrictAck makes any reply other than ACK an error. The device answers
// ACK (0x06) or NAK (0x15); by default any reply counts as acknowledgement.
func WithStrictAck(strict bool) Option {
	return func(c *Config) {
		c.StrictAck = strict
	}
}

func WithResolution(width, height int) Option {
	return func(c *Config) {
		if width > 0 && height > 0 {
			c.Width = width
			c.Height = height
		}
	}
}

// WithColorMode picks the pixel format of DrawBitmap. Color8 halves the
// bytes on the line at the cost of RRRGGGBB color.
func WithColorMode(mode proto.ColorMode) Option {
	return func(c *Config) {
		if mode == proto.Color8 || mode == proto.Color16 {
			c.ColorMode = mode
		}
	}
}

func WithReplyHook(hook func(reply []byte)) Option {
	return func(c *Config) {
		c.ReplyHook = hook
	}
}
