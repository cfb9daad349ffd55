package main

import (
	"context"
	"time"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"uoled/pkg/bitmap"
	"uoled/pkg/device/uoled"
	"uoled/pkg/proto"
)

var serial = flag.String("serial", "ttyUSB0", "serial name")
var baud = flag.Int("baud", 115200, "baud rate")

// A short tour of the display: shapes, a user character and text.
func main() {
	flag.Parse()

	logger, _ := zap.NewDevelopment()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	dev, err := uoled.New(ctx, proto.NewSerial(*serial), logger, uoled.WithBaudRate(*baud))
	if err != nil {
		_ = dev.Close()
		logger.With(zap.Error(err)).Fatal("init failed")
	}

	diamond := proto.Glyph{0x18, 0x24, 0x42, 0x81, 0x81, 0x42, 0x24, 0x18}

	steps := []func() error{
		func() error { return dev.DrawCircle(ctx, 63, 63, 34, bitmap.Blue) },
		func() error { return dev.AddUserBitmappedCharacter(ctx, 0x01, diamond) },
		func() error { return dev.DisplayUserBitmappedCharacter(ctx, 0x01, 0, 0, bitmap.Red) },
		func() error { return dev.DrawTriangle(ctx, 63, 40, 40, 86, 86, 86, bitmap.Green) },
		func() error { return dev.SetTextTransparency(ctx, proto.Transparent) },
		func() error {
			return dev.PlaceFormattedASCII(ctx, 0, 15, proto.FontSmall, bitmap.White, 1, 1, "hello uOLED")
		},
	}

	for _, step := range steps {
		if err := step(); err != nil {
			logger.With(zap.Error(err)).Error("demo failed")
			break
		}
	}

	time.Sleep(5 * time.Second)

	if err := dev.Shutdown(ctx); err != nil {
		logger.With(zap.Error(err)).Fatal("shutdown failed")
	}
}
