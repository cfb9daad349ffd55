// Package uoled drives uOLED-128-G1 class display modules over a serial link.
//
// Every command is one frame written to the transport followed by a wait for
// the device's reply. The protocol has no framing to tell interleaved
// commands apart, so a Device runs one command at a time.
package uoled

import (
	"context"
	"sync"

	"go.bug.st/serial"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"uoled/pkg/proto"
)

const (
	CmdAutoBaud        = 0x55 // 'U'
	CmdAddUserChar     = 0x41 // 'A'
	CmdBackground      = 0x42 // 'B'
	CmdCircle          = 0x43 // 'C'
	CmdDisplayUserChar = 0x44 // 'D'
	CmdErase           = 0x45 // 'E'
	CmdFontSize        = 0x46 // 'F'
	CmdTriangle        = 0x47 // 'G'
	CmdImage           = 0x49 // 'I'
	CmdLine            = 0x4C // 'L'
	CmdTransparency    = 0x4F // 'O'
	CmdPutPixel        = 0x50 // 'P'
	CmdReadPixel       = 0x52 // 'R'
	CmdUnformattedText = 0x53 // 'S'
	CmdFormattedChar   = 0x54 // 'T'
	CmdVersion         = 0x56 // 'V'
	CmdDisplayControl  = 0x59 // 'Y'
	CmdTextButton      = 0x62 // 'b'
	CmdCopyPaste       = 0x63 // 'c'
	CmdPolygon         = 0x67 // 'g'
	CmdPenSize         = 0x70 // 'p'
	CmdRectangle       = 0x72 // 'r'
	CmdFormattedText   = 0x73 // 's'
	CmdUnformattedChar = 0x74 // 't'

	ACK = 0x06
	NAK = 0x15
)

// Step names a stage of the power-up sequence run by New.
type Step string

const (
	StepConfigure Step = "configure"
	StepOpen      Step = "open"
	StepAutoBaud  Step = "autobaud"
	StepPowerOn   Step = "power-on"
	StepDisplayOn Step = "display-on"
	StepContrast  Step = "contrast"
	StepErase     Step = "erase"
)

var _ proto.Control = (*Device)(nil)

// New configures and opens serial, then runs the power-up sequence: baud
// auto-detect, power on, display on, full contrast and a screen erase.
//
// The device is returned even when a step fails. The error is then an
// *InitError naming the step, and Ready reports false.
func New(ctx context.Context, serial proto.Transport, logger *zap.Logger, opts ...Option) (*Device, error) {
	dev := newDevice(serial, logger, opts)
	return dev, dev.init(ctx)
}

// Attach configures and opens serial without the power-up sequence, for a
// display that is already running.
func Attach(serial proto.Transport, logger *zap.Logger, opts ...Option) (*Device, error) {
	dev := newDevice(serial, logger, opts)
	if err := dev.configure(); err != nil {
		return nil, err
	}
	if err := dev.Open(); err != nil {
		return nil, err
	}
	return dev, nil
}

func newDevice(serial proto.Transport, logger *zap.Logger, opts []Option) *Device {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Device{
		serial: serial,
		logger: logger,
		config: cfg,
	}
}

type Device struct {
	mu      sync.Mutex
	serial  proto.Transport
	logger  *zap.Logger
	config  Config
	options *proto.Options
	ready   bool
}

func (d *Device) init(ctx context.Context) error {
	steps := []struct {
		step Step
		run  func(ctx context.Context) error
	}{
		{StepConfigure, func(context.Context) error { return d.configure() }},
		{StepOpen, func(context.Context) error { return d.Open() }},
		{StepAutoBaud, d.autoBaud},
		{StepPowerOn, func(ctx context.Context) error { return d.DisplayControl(ctx, proto.ModePower, proto.On) }},
		{StepDisplayOn, func(ctx context.Context) error { return d.DisplayControl(ctx, proto.ModeDisplay, proto.On) }},
		{StepContrast, func(ctx context.Context) error { return d.DisplayControl(ctx, proto.ModeContrast, proto.ContrastMax) }},
		{StepErase, d.EraseScreen},
	}

	for _, s := range steps {
		if err := s.run(ctx); err != nil {
			d.logger.With(zap.String("step", string(s.step)), zap.Error(err)).Error("init failed")
			return &InitError{Step: s.step, Err: err}
		}
		d.logger.With(zap.String("step", string(s.step))).Debug("init")
	}

	d.ready = true
	d.logger.With(zap.Int("baud", d.config.BaudRate)).Info("display ready")
	return nil
}

func (d *Device) configure() error {
	if d.config.BaudRate <= 0 {
		return &ValidationError{Op: "configure", Field: "baud rate", Value: d.config.BaudRate, Limit: 1}
	}

	d.options = &proto.Options{
		BaudRate:     d.config.BaudRate,
		DataBits:     8,
		Parity:       serial.NoParity,
		StopBits:     serial.OneStopBit,
		ReadTimeout:  d.config.PollInterval,
		WriteTimeout: d.config.WriteTimeout,
	}
	return nil
}

// Open opens the transport with the configured line settings. It does not
// repeat the power-up sequence.
func (d *Device) Open() error {
	if d.options == nil {
		return ErrNotConfigured
	}
	if err := d.serial.Open(d.options); err != nil {
		return &TransportError{Op: "open", Err: err}
	}
	return nil
}

func (d *Device) Close() error {
	d.ready = false
	if err := d.serial.Close(); err != nil {
		return &TransportError{Op: "close", Err: err}
	}
	return nil
}

func (d *Device) IsOpen() bool {
	return d.serial.IsOpen()
}

// Ready reports whether the power-up sequence completed and the connection
// is still open.
func (d *Device) Ready() bool {
	return d.ready && d.serial.IsOpen()
}

// Shutdown erases the screen, drops contrast, turns the display and power
// off, then closes the connection. Commands stop at the first failure; the
// connection is closed regardless.
func (d *Device) Shutdown(ctx context.Context) error {
	steps := []func(ctx context.Context) error{
		d.EraseScreen,
		func(ctx context.Context) error { return d.DisplayControl(ctx, proto.ModeContrast, proto.Off) },
		func(ctx context.Context) error { return d.DisplayControl(ctx, proto.ModeDisplay, proto.Off) },
		func(ctx context.Context) error { return d.DisplayControl(ctx, proto.ModePower, proto.Off) },
	}

	var err error
	for _, step := range steps {
		if err = step(ctx); err != nil {
			break
		}
	}

	err = multierr.Append(err, d.Close())
	if err != nil {
		d.logger.With(zap.Error(err)).Info("shutdown failed")
	} else {
		d.logger.Info("display shut down")
	}
	return err
}

func (d *Device) autoBaud(ctx context.Context) error {
	return d.sendCMD(ctx, frameAutoBaud())
}
