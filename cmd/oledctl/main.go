package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"uoled/pkg/bot"
	"uoled/pkg/device/remote"
	"uoled/pkg/device/uoled"
	"uoled/pkg/glyph"
	"uoled/pkg/mixer"
	"uoled/pkg/proto"
	"uoled/pkg/source"
)

var serial = flag.String("serial", "ttyUSB0", "serial name or remote addr")
var baud = flag.Int("baud", 115200, "baud rate")
var timeout = flag.Duration("timeout", 30*time.Second, "command timeout")
var color = flag.String("color", "FFFFFF", "drawing color, RRGGBB")
var font = flag.Uint8("font", 0, "font size 0-2")
var effect = flag.String("effect", "", "image effect: block or rows")
var progress = flag.Bool("progress", true, "show download progress")
var skipInit = flag.Bool("no-init", false, "leave the display as it is on connect")
var debug = flag.Bool("debug", false, "set debug")

const usage = `usage: oledctl [flags] command [args]

commands:
  version                 print device type, revisions and resolution
  erase                   clear the screen
  contrast N              set contrast 0-15
  bg                      set the background to --color and clear
  text COL ROW TEXT...    place formatted text
  pixel X Y               print the color of a pixel
  put X Y                 set a pixel to --color
  circle X Y R            draw a circle in --color
  image PATH|URL          draw a picture scaled to the screen
  glyphs FILE             upload user characters
  shutdown                power the display down

flags:
`

func main() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	logger, _ := newLogger(*debug)
	defer func() { _ = logger.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	ctx, cancelT := context.WithTimeout(ctx, *timeout)
	defer cancelT()

	dev, closer, err := connect(ctx, logger)
	if err != nil {
		logger.With(zap.Error(err)).Fatal("connect failed")
	}
	defer func() { _ = closer() }()

	out, err := run(ctx, dev, logger, flag.Arg(0), flag.Args()[1:])
	if err != nil {
		logger.With(zap.String("command", flag.Arg(0)), zap.Error(err)).Fatal("command failed")
	}
	if out != "" {
		fmt.Println(out)
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	return cfg.Build()
}

func connect(ctx context.Context, logger *zap.Logger) (proto.Control, func() error, error) {
	if strings.Contains(*serial, ":") {
		cli, err := remote.New(*serial)
		if err != nil {
			return nil, nil, err
		}
		return cli, cli.Close, nil
	}

	if *skipInit {
		dev, err := uoled.Attach(proto.NewSerial(*serial), logger, uoled.WithBaudRate(*baud))
		if err != nil {
			return nil, nil, err
		}
		return dev, dev.Close, nil
	}

	dev, err := uoled.New(ctx, proto.NewSerial(*serial), logger, uoled.WithBaudRate(*baud))
	if err != nil {
		_ = dev.Close()
		return nil, nil, err
	}
	return dev, dev.Close, nil
}

func run(ctx context.Context, dev proto.Control, logger *zap.Logger, cmd string, args []string) (string, error) {
	c, err := bot.ParseColor(*color)
	if err != nil {
		return "", err
	}

	nums := func(n int) ([]uint8, error) {
		if len(args) < n {
			return nil, errors.Errorf("%s needs %d arguments", cmd, n)
		}
		vs := make([]uint8, n)
		for i := range vs {
			v, err := strconv.ParseUint(args[i], 0, 8)
			if err != nil {
				return nil, errors.Wrapf(err, "argument %d", i+1)
			}
			vs[i] = uint8(v)
		}
		return vs, nil
	}

	switch cmd {
	case "version":
		v, err := dev.VersionInfo(ctx, false)
		if err != nil {
			return "", err
		}
		return v.String(), nil

	case "erase":
		return "", dev.EraseScreen(ctx)

	case "contrast":
		vs, err := nums(1)
		if err != nil {
			return "", err
		}
		return "", dev.DisplayControl(ctx, proto.ModeContrast, vs[0])

	case "bg":
		if err := dev.SetBackgroundColor(ctx, c); err != nil {
			return "", err
		}
		return "", dev.EraseScreen(ctx)

	case "text":
		vs, err := nums(2)
		if err != nil {
			return "", err
		}
		return "", dev.PlaceFormattedASCII(ctx, vs[0], vs[1], proto.FontSize(*font), c, 1, 1, strings.Join(args[2:], " "))

	case "pixel":
		vs, err := nums(2)
		if err != nil {
			return "", err
		}
		px, err := dev.ReadPixel(ctx, vs[0], vs[1])
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("0x%04X", uint16(px)), nil

	case "put":
		vs, err := nums(2)
		if err != nil {
			return "", err
		}
		return "", dev.PutPixel(ctx, vs[0], vs[1], c)

	case "circle":
		vs, err := nums(3)
		if err != nil {
			return "", err
		}
		return "", dev.DrawCircle(ctx, vs[0], vs[1], vs[2], c)

	case "image":
		if len(args) != 1 {
			return "", errors.New("image needs a path or URL")
		}
		img, err := source.New(afero.NewOsFs(), logger, source.WithProgress(*progress)).Load(ctx, args[0])
		if err != nil {
			return "", err
		}
		var opts []mixer.Option
		switch *effect {
		case "block":
			opts = append(opts, mixer.WithEffect(mixer.EffectBlock()))
		case "rows":
			opts = append(opts, mixer.WithEffect(mixer.EffectRows(8)))
		}
		return "", mixer.NewDrawer(dev, logger, opts...).Canvas(ctx, img)

	case "glyphs":
		if len(args) != 1 {
			return "", errors.New("glyphs needs a file")
		}
		set, err := glyph.Load(afero.NewOsFs(), args[0])
		if err != nil {
			return "", err
		}
		if err := glyph.Upload(ctx, dev, set); err != nil {
			return "", err
		}
		return fmt.Sprintf("%d glyphs uploaded", len(set)), nil

	case "shutdown":
		return "", dev.Shutdown(ctx)
	}

	return "", errors.Errorf("unknown command %q", cmd)
}
