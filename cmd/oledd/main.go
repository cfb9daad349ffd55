package main

import (
	"context"
	"net/http"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/afero"
	flag "github.com/spf13/pflag"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"uoled/pkg/bot"
	"uoled/pkg/device/remote"
	"uoled/pkg/device/uoled"
	"uoled/pkg/device/virtual"
	"uoled/pkg/glyph"
	"uoled/pkg/mixer"
	"uoled/pkg/proto"
	"uoled/pkg/source"
)

var serial = flag.String("serial", "ttyUSB0", "serial name")
var baud = flag.Int("baud", 115200, "baud rate")
var listen = flag.String("listen", ":9123", "listen addr")
var dryRun = flag.Bool("dry-run", false, "log commands instead of driving a display")
var strict = flag.Bool("strict-ack", false, "fail commands the display does not ACK")
var color8 = flag.Bool("8bit", false, "send images as 8-bit color")
var glyphs = flag.String("glyphs", "", "glyph file uploaded at startup")
var tgToken = flag.String("tg-token", "", "telegram bot token")
var cacheDir = flag.String("cache", "", "download cache dir")
var debug = flag.Bool("debug", false, "set debug")

func newLogger() (*zap.Logger, error) {
	if *debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func newDevice(logger *zap.Logger, lifecycle fx.Lifecycle) (proto.Control, error) {
	if *dryRun {
		return virtual.Mock(logger), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	dev, err := uoled.New(ctx, proto.NewSerial(*serial), logger,
		uoled.WithBaudRate(*baud),
		uoled.WithStrictAck(*strict),
		uoled.WithColorMode(lo.Ternary(*color8, proto.Color8, proto.Color16)),
	)
	if err != nil {
		_ = dev.Close()
		return nil, err
	}

	lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return dev.Shutdown(ctx)
		},
	})

	return dev, nil
}

func newLoader(logger *zap.Logger) *source.Loader {
	return source.New(afero.NewOsFs(), logger, source.WithCache(*cacheDir))
}

func newDrawer(dev proto.Control, logger *zap.Logger) *mixer.Drawer {
	return mixer.NewDrawer(dev, logger, mixer.WithEffect(mixer.EffectBlock(), mixer.EffectRows(8)))
}

func uploadGlyphs(dev proto.Control, lifecycle fx.Lifecycle) {
	if *glyphs == "" {
		return
	}

	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			set, err := glyph.Load(afero.NewOsFs(), *glyphs)
			if err != nil {
				return err
			}
			return glyph.Upload(ctx, dev, set)
		},
	})
}

func startBot(dev proto.Control, drawer *mixer.Drawer, loader *source.Loader, logger *zap.Logger, lifecycle fx.Lifecycle) error {
	if *tgToken == "" {
		return nil
	}

	b, err := bot.NewBot(*tgToken, dev, drawer, loader, logger)
	if err != nil {
		return err
	}

	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			b.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			b.Stop()
			return nil
		},
	})

	return nil
}

func main() {
	flag.Parse()

	fx.New(
		fx.Provide(
			newLogger,
			func() *http.Server {
				return &http.Server{Addr: *listen}
			},
			newDevice,
			newLoader,
			newDrawer,
		),
		fx.Invoke(
			uploadGlyphs,
			remote.Proxy,
			startBot,
		),
	).Run()
}
