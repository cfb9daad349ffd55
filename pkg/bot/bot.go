// Package bot controls a display through Telegram chat commands.
package bot

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"uoled/pkg/bitmap"
	"uoled/pkg/mixer"
	"uoled/pkg/proto"
	"uoled/pkg/source"
)

var ErrUsage = errors.New("bad arguments")

// command runs with the device locked and returns the reply text.
type command func(ctx context.Context, args []string) (string, error)

func NewBot(token string, dev proto.Control, drawer *mixer.Drawer, loader *source.Loader, logger *zap.Logger, opts ...Option) (*Bot, error) {
	b := &Bot{
		dev:     dev,
		drawer:  drawer,
		loader:  loader,
		logger:  logger,
		timeout: 30 * time.Second,
		pref: tele.Settings{
			Token: token,
			Poller: &tele.LongPoller{
				Timeout: 30 * time.Second,
			},
		},
	}

	for _, opt := range opts {
		opt(b)
	}

	tb, err := tele.NewBot(b.pref)
	if err != nil {
		return nil, err
	}
	b.b = tb

	b.commands = map[string]command{
		"/power":    b.power,
		"/display":  b.display,
		"/contrast": b.contrast,
		"/clear":    b.clear,
		"/bg":       b.background,
		"/text":     b.text,
		"/image":    b.image,
		"/pixel":    b.pixel,
		"/version":  b.version,
	}

	return b, nil
}

type Bot struct {
	mu       sync.Mutex
	b        *tele.Bot
	pref     tele.Settings
	dev      proto.Control
	drawer   *mixer.Drawer
	loader   *source.Loader
	logger   *zap.Logger
	timeout  time.Duration
	commands map[string]command

	// next row for /text
	row uint8
}

// Exec runs a chat command such as "/contrast 8" and returns the reply.
func (b *Bot) Exec(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "empty command"
	}

	name := strings.SplitN(fields[0], "@", 2)[0]
	cmd, ok := b.commands[name]
	if !ok {
		return fmt.Sprintf("unknown command %s, try %s", name, strings.Join(b.names(), " "))
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()

	reply, err := cmd(ctx, fields[1:])
	if err != nil {
		b.logger.With(zap.String("command", line), zap.Error(err)).Info("command failed")
		return fmt.Sprintf("%s failed: %s", name, err)
	}
	return reply
}

func (b *Bot) names() []string {
	names := lo.Keys(b.commands)
	sort.Strings(names)
	return names
}

func (b *Bot) power(ctx context.Context, args []string) (string, error) {
	on, err := parseSwitch(args)
	if err != nil {
		return "", err
	}
	return "OK", b.dev.DisplayControl(ctx, proto.ModePower, on)
}

func (b *Bot) display(ctx context.Context, args []string) (string, error) {
	on, err := parseSwitch(args)
	if err != nil {
		return "", err
	}
	return "OK", b.dev.DisplayControl(ctx, proto.ModeDisplay, on)
}

func (b *Bot) contrast(ctx context.Context, args []string) (string, error) {
	if len(args) != 1 {
		return "", errors.Wrap(ErrUsage, "/contrast 0-15")
	}
	v, err := strconv.ParseUint(args[0], 10, 8)
	if err != nil || v > uint64(proto.ContrastMax) {
		return "", errors.Wrap(ErrUsage, "/contrast 0-15")
	}
	return "OK", b.dev.DisplayControl(ctx, proto.ModeContrast, uint8(v))
}

func (b *Bot) clear(ctx context.Context, _ []string) (string, error) {
	b.row = 0
	return "OK", b.dev.EraseScreen(ctx)
}

func (b *Bot) background(ctx context.Context, args []string) (string, error) {
	if len(args) != 1 {
		return "", errors.Wrap(ErrUsage, "/bg RRGGBB")
	}
	c, err := ParseColor(args[0])
	if err != nil {
		return "", err
	}
	if err := b.dev.SetBackgroundColor(ctx, c); err != nil {
		return "", err
	}
	return b.clear(ctx, nil)
}

func (b *Bot) text(ctx context.Context, args []string) (string, error) {
	if len(args) == 0 {
		return "", errors.Wrap(ErrUsage, "/text message")
	}

	row := b.row
	if err := b.dev.PlaceFormattedASCII(ctx, 0, row, proto.FontSmall, bitmap.White, 1, 1, strings.Join(args, " ")); err != nil {
		return "", err
	}
	b.row = lo.Ternary(row >= 15, 0, row+1)
	return fmt.Sprintf("row %d", row), nil
}

func (b *Bot) image(ctx context.Context, args []string) (string, error) {
	if len(args) != 1 {
		return "", errors.Wrap(ErrUsage, "/image URL")
	}
	img, err := b.loader.Load(ctx, args[0])
	if err != nil {
		return "", err
	}
	return "OK", b.drawer.Canvas(ctx, img)
}

func (b *Bot) pixel(ctx context.Context, args []string) (string, error) {
	if len(args) != 2 {
		return "", errors.Wrap(ErrUsage, "/pixel X Y")
	}
	x, errX := strconv.ParseUint(args[0], 10, 8)
	y, errY := strconv.ParseUint(args[1], 10, 8)
	if errX != nil || errY != nil {
		return "", errors.Wrap(ErrUsage, "/pixel X Y")
	}

	c, err := b.dev.ReadPixel(ctx, uint8(x), uint8(y))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("0x%04X", uint16(c)), nil
}

func (b *Bot) version(ctx context.Context, _ []string) (string, error) {
	v, err := b.dev.VersionInfo(ctx, false)
	if err != nil {
		return "", err
	}
	return v.String(), nil
}

// photo draws a picture sent to the chat.
func (b *Bot) photo(c tele.Context) error {
	rc, err := b.b.File(&c.Message().Photo.File)
	if err != nil {
		return c.Reply(fmt.Sprintf("download failed: %s", err))
	}
	defer func() { _ = rc.Close() }()

	img, err := imaging.Decode(rc)
	if err != nil {
		return c.Reply(fmt.Sprintf("decode failed: %s", err))
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()

	if err := b.drawer.Canvas(ctx, b.loader.Scale(img)); err != nil {
		return c.Reply(fmt.Sprintf("draw canvas failed: %s", err))
	}
	return c.Reply("OK")
}

func (b *Bot) Start() {
	for name := range b.commands {
		name := name
		b.b.Handle(name, func(c tele.Context) error {
			return c.Reply(b.Exec(c.Text()))
		})
	}
	b.b.Handle(tele.OnPhoto, b.photo)

	b.logger.With(zap.Strings("commands", b.names())).Info("bot started")
	go b.b.Start()
}

func (b *Bot) Stop() {
	// telebot's Stop blocks until the running poll returns.
	go b.b.Stop()
}

// ParseColor reads a 24-bit RRGGBB color with an optional '#' prefix.
func ParseColor(s string) (bitmap.Color, error) {
	v, err := strconv.ParseUint(strings.TrimPrefix(s, "#"), 16, 32)
	if err != nil || v > 0xFFFFFF {
		return 0, errors.Wrapf(ErrUsage, "color %q", s)
	}
	return bitmap.RGB(uint8(v>>16), uint8(v>>8), uint8(v)), nil
}

func parseSwitch(args []string) (uint8, error) {
	if len(args) != 1 || !lo.Contains([]string{"on", "off"}, args[0]) {
		return 0, errors.Wrap(ErrUsage, "on|off")
	}
	return lo.Ternary(args[0] == "on", proto.On, proto.Off), nil
}
