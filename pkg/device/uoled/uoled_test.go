package uoled

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"uoled/pkg/bitmap"
	"uoled/pkg/proto"
)

func testCtx(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestNewPowerUpSequence(t *testing.T) {
	fake := &fakeSerial{}
	dev, err := New(testCtx(t), fake, zaptest.NewLogger(t), WithBaudRate(9600))
	require.NoError(t, err)

	assert.True(t, dev.Ready())
	assert.True(t, dev.IsOpen())
	assert.Equal(t, []string{
		"open",
		"w:55", "ack",
		"w:590301", "ack",
		"w:590101", "ack",
		"w:59020f", "ack",
		"w:45", "ack",
	}, fake.events)

	require.NotNil(t, fake.opts)
	assert.Equal(t, 9600, fake.opts.BaudRate)
	assert.Equal(t, 8, fake.opts.DataBits)
	assert.Equal(t, serial.NoParity, fake.opts.Parity)
	assert.Equal(t, serial.OneStopBit, fake.opts.StopBits)
	assert.Equal(t, 500*time.Millisecond, fake.opts.WriteTimeout)
	assert.False(t, fake.opts.DTR)
	assert.False(t, fake.opts.RTS)
}

func TestNewReportsFailedStep(t *testing.T) {
	openErr := errors.New("no such device")

	tests := []struct {
		name   string
		fake   *fakeSerial
		opts   []Option
		step   Step
		target error
	}{
		{
			name:   "invalid baud",
			fake:   &fakeSerial{},
			opts:   []Option{WithBaudRate(0)},
			step:   StepConfigure,
			target: nil,
		},
		{
			name:   "open fails",
			fake:   &fakeSerial{openErr: openErr},
			step:   StepOpen,
			target: openErr,
		},
		{
			name:   "no autobaud reply",
			fake:   &fakeSerial{silent: true},
			opts:   []Option{WithAckTimeout(20 * time.Millisecond)},
			step:   StepAutoBaud,
			target: ErrAckTimeout,
		},
		{
			name:   "write timeout",
			fake:   &fakeSerial{writeErr: proto.ErrWriteTimeout},
			step:   StepAutoBaud,
			target: proto.ErrWriteTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.InfoLevel)

			dev, err := New(testCtx(t), tt.fake, zap.New(core), tt.opts...)
			require.NotNil(t, dev)
			require.Error(t, err)

			var initErr *InitError
			require.True(t, errors.As(err, &initErr))
			assert.Equal(t, tt.step, initErr.Step)
			if tt.target != nil {
				assert.True(t, errors.Is(err, tt.target), "error %v does not wrap %v", err, tt.target)
			}

			assert.False(t, dev.Ready())
			assert.Equal(t, 1, logs.FilterMessage("init failed").Len())
		})
	}
}

func TestShutdownSequence(t *testing.T) {
	dev, fake := newTestDevice(t)

	require.NoError(t, dev.Shutdown(testCtx(t)))

	assert.Equal(t, []string{
		"w:45", "ack",
		"w:590200", "ack",
		"w:590100", "ack",
		"w:590300", "ack",
		"close",
	}, fake.events)
	assert.False(t, dev.IsOpen())
	assert.False(t, dev.Ready())
}

func TestShutdownClosesOnFailure(t *testing.T) {
	dev, fake := newTestDevice(t, WithAckTimeout(20*time.Millisecond))
	fake.silent = true

	err := dev.Shutdown(testCtx(t))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAckTimeout))

	assert.Equal(t, []string{"w:45", "close"}, fake.events)
	assert.False(t, dev.IsOpen())
}

func TestOpenCloseIsOpen(t *testing.T) {
	dev, fake := newTestDevice(t)

	require.NoError(t, dev.Close())
	assert.False(t, dev.IsOpen())

	err := dev.DrawLine(testCtx(t), 0, 0, 10, 10, bitmap.White)
	assert.Equal(t, ErrClosed, err)
	assert.Empty(t, fake.writes)

	require.NoError(t, dev.Open())
	assert.True(t, dev.IsOpen())
	assert.False(t, dev.Ready())
	assert.Equal(t, []string{"close", "open"}, fake.events)

	require.NoError(t, dev.EraseScreen(testCtx(t)))
}

func TestSetFontSizeBoundary(t *testing.T) {
	dev, fake := newTestDevice(t)

	require.NoError(t, dev.SetFontSize(testCtx(t), proto.FontLarge))
	assert.Equal(t, []byte{0x46, 0x02}, fake.wire())

	fake.reset()
	err := dev.SetFontSize(testCtx(t), proto.FontSize(3))
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.Empty(t, fake.writes)
}

func TestPlaceUnformattedASCIILength(t *testing.T) {
	dev, fake := newTestDevice(t)
	s := strings.Repeat("x", 256)

	require.NoError(t, dev.PlaceUnformattedASCII(testCtx(t), 1, 2, proto.FontSmall, bitmap.White, 1, 1, s))
	require.Len(t, fake.writes, 3)
	assert.Equal(t, []byte{0x53, 1, 2, 0x00, 0xFF, 0xFF, 1, 1}, fake.writes[0])
	assert.Equal(t, []byte(s), fake.writes[1])
	assert.Equal(t, []byte{0x00}, fake.writes[2])
	assert.Equal(t, "ack", fake.events[len(fake.events)-1])

	fake.reset()
	err := dev.PlaceUnformattedASCII(testCtx(t), 1, 2, proto.FontSmall, bitmap.White, 1, 1, s+"x")
	assert.True(t, IsValidationError(err))
	assert.Empty(t, fake.writes)
}

func TestPlaceFormattedASCIIBounds(t *testing.T) {
	tests := []struct {
		name    string
		column  uint8
		row     uint8
		font    proto.FontSize
		text    string
		wantErr string
	}{
		{name: "small column 20", column: 20, row: 0, font: proto.FontSmall},
		{name: "small column 21", column: 21, row: 0, font: proto.FontSmall, wantErr: "column"},
		{name: "medium column 15", column: 15, row: 0, font: proto.FontMedium},
		{name: "medium column 16", column: 16, row: 0, font: proto.FontMedium, wantErr: "column"},
		{name: "large row 9", column: 0, row: 9, font: proto.FontLarge},
		{name: "large row 10", column: 0, row: 10, font: proto.FontLarge, wantErr: "row"},
		{name: "small row 15", column: 0, row: 15, font: proto.FontSmall},
		{name: "small row 16", column: 0, row: 16, font: proto.FontSmall, wantErr: "row"},
		{name: "string 257", column: 0, row: 0, font: proto.FontSmall, text: strings.Repeat("a", 257), wantErr: "string length"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev, fake := newTestDevice(t)
			text := tt.text
			if text == "" {
				text = "hello"
			}

			err := dev.PlaceFormattedASCII(testCtx(t), tt.column, tt.row, tt.font, bitmap.Green, 1, 1, text)
			if tt.wantErr == "" {
				require.NoError(t, err)
				require.Len(t, fake.writes, 3)
				assert.Equal(t, []byte{0x73, tt.column, tt.row, byte(tt.font), 0x07, 0xE0, 1, 1}, fake.writes[0])
				assert.Equal(t, []byte{0x00}, fake.writes[2])
				return
			}

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.wantErr, verr.Field)
			assert.Empty(t, fake.writes)
		})
	}
}

func TestDrawImageTwoPhase(t *testing.T) {
	dev, fake := newTestDevice(t)
	pixels := []byte{0xF8, 0x00, 0x07, 0xE0, 0x00, 0x1F, 0xFF, 0xFF}

	require.NoError(t, dev.DrawImage(testCtx(t), 4, 5, 2, 2, proto.Color16, pixels))

	assert.Equal(t, []string{"w:490405020210", "w:f80007e0001fffff", "ack"}, fake.events)
}

func TestDrawBitmap(t *testing.T) {
	dev, fake := newTestDevice(t)

	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.RGBA{R: 0xFF, A: 0xFF})
	img.Set(1, 0, color.RGBA{B: 0xFF, A: 0xFF})

	require.NoError(t, dev.DrawBitmap(testCtx(t), 10, 20, img))
	require.Len(t, fake.writes, 2)
	assert.Equal(t, []byte{0x49, 10, 20, 2, 1, 0x10}, fake.writes[0])
	assert.Equal(t, []byte{0xF8, 0x00, 0x00, 0x1F}, fake.writes[1])

	fake.reset()
	err := dev.DrawBitmap(testCtx(t), 1, 0, image.NewRGBA(image.Rect(0, 0, 128, 1)))
	assert.True(t, IsValidationError(err))
	assert.Empty(t, fake.writes)
}

func TestDrawBitmap8Bit(t *testing.T) {
	dev, fake := newTestDevice(t, WithColorMode(proto.Color8))

	img := image.NewRGBA(image.Rect(0, 0, 3, 1))
	img.Set(0, 0, color.RGBA{R: 0xFF, A: 0xFF})
	img.Set(1, 0, color.RGBA{G: 0xFF, A: 0xFF})
	img.Set(2, 0, color.RGBA{B: 0xFF, A: 0xFF})

	require.NoError(t, dev.DrawBitmap(testCtx(t), 5, 6, img))
	require.Len(t, fake.writes, 2)
	assert.Equal(t, []byte{0x49, 5, 6, 3, 1, 0x08}, fake.writes[0])
	assert.Equal(t, []byte{0xE0, 0x1C, 0x03}, fake.writes[1])
}

func TestDrawPolygon(t *testing.T) {
	dev, fake := newTestDevice(t)
	tri := []proto.Vertex{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 5, Y: 8}}

	require.NoError(t, dev.DrawPolygon(testCtx(t), tri, bitmap.Red))
	assert.Equal(t, []byte{0x67, 3, 0, 0, 10, 0, 5, 8, 0xF8, 0x00}, fake.wire())

	fake.reset()
	err := dev.DrawPolygon(testCtx(t), tri[:2], bitmap.Red)
	assert.True(t, IsValidationError(err))
	assert.Empty(t, fake.writes)
}

func TestDrawPolygonVertexLimit(t *testing.T) {
	dev, fake := newTestDevice(t)

	vertices := make([]proto.Vertex, MaxPolygonVertices+1)
	for i := range vertices {
		vertices[i] = proto.Vertex{X: uint8(i * 10), Y: uint8(i)}
	}

	require.NoError(t, dev.DrawPolygon(testCtx(t), vertices[:MaxPolygonVertices], bitmap.Red))
	wire := fake.wire()
	assert.Equal(t, byte(MaxPolygonVertices), wire[1])
	assert.Len(t, wire, 2+2*MaxPolygonVertices+2)

	fake.reset()
	err := dev.DrawPolygon(testCtx(t), vertices, bitmap.Red)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, MaxPolygonVertices, verr.Limit)
	assert.Equal(t, MaxPolygonVertices+1, verr.Value)
	assert.Empty(t, fake.writes)
}

func TestReadPixel(t *testing.T) {
	dev, fake := newTestDevice(t)
	fake.reply([]byte{0xF8}, []byte{0x1F})

	c, err := dev.ReadPixel(testCtx(t), 3, 4)
	require.NoError(t, err)
	assert.Equal(t, bitmap.Magenta, c)
	assert.Equal(t, []string{"w:520304", "reply", "reply"}, fake.events)
}

func TestVersionInfo(t *testing.T) {
	dev, fake := newTestDevice(t)
	fake.reply([]byte{0x00, 0x11, 0x22, 0x28, 0x28})

	v, err := dev.VersionInfo(testCtx(t), true)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x56, 0x01}, fake.wire())
	assert.Equal(t, uint8(0x11), v.Hardware)
	assert.Equal(t, uint8(0x22), v.Firmware)

	w, h := v.Resolution()
	assert.Equal(t, 128, w)
	assert.Equal(t, 128, h)
}

func TestAckTimeout(t *testing.T) {
	dev, fake := newTestDevice(t, WithAckTimeout(30*time.Millisecond))
	fake.silent = true

	start := time.Now()
	err := dev.PutPixel(testCtx(t), 1, 1, bitmap.White)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAckTimeout))
	assert.Less(t, time.Since(start), time.Second)
}

func TestAckWaitCancel(t *testing.T) {
	dev, fake := newTestDevice(t, WithAckTimeout(0))
	fake.silent = true

	ctx, cancel := context.WithCancel(testCtx(t))
	time.AfterFunc(20*time.Millisecond, cancel)

	err := dev.EraseScreen(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.False(t, errors.Is(err, ErrAckTimeout))
}

func TestStrictAck(t *testing.T) {
	dev, fake := newTestDevice(t, WithStrictAck(true))

	require.NoError(t, dev.EraseScreen(testCtx(t)))

	fake.reply([]byte{NAK})
	assert.Equal(t, ErrNak, dev.EraseScreen(testCtx(t)))

	fake.reply([]byte{'?'})
	err := dev.EraseScreen(testCtx(t))
	assert.True(t, errors.Is(err, ErrUnexpectedAck))
}

func TestLenientAck(t *testing.T) {
	dev, fake := newTestDevice(t)

	fake.reply([]byte{NAK})
	assert.NoError(t, dev.EraseScreen(testCtx(t)))
}

func TestReplyHook(t *testing.T) {
	var seen [][]byte
	dev, _ := newTestDevice(t, WithReplyHook(func(reply []byte) {
		seen = append(seen, reply)
	}))
	seen = nil

	require.NoError(t, dev.SetPenSize(testCtx(t), proto.PenWire))
	assert.Equal(t, [][]byte{{ACK}}, seen)
}

func TestWriteErrorIsTransportError(t *testing.T) {
	dev, fake := newTestDevice(t)
	fake.writeErr = proto.ErrWriteTimeout

	err := dev.SetBackgroundColor(testCtx(t), bitmap.Black)

	var terr *TransportError
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, "write", terr.Op)
	assert.True(t, errors.Is(err, proto.ErrWriteTimeout))
}

func TestCommandsSendOneFrame(t *testing.T) {
	ctx := testCtx(t)
	glyph := proto.Glyph{0x18, 0x24, 0x42, 0x81, 0x81, 0x42, 0x24, 0x18}

	tests := []struct {
		name string
		run  func(d *Device) error
		want []byte
	}{
		{"add user char", func(d *Device) error { return d.AddUserBitmappedCharacter(ctx, 0x01, glyph) },
			[]byte{0x41, 0x01, 0x18, 0x24, 0x42, 0x81, 0x81, 0x42, 0x24, 0x18}},
		{"display user char", func(d *Device) error { return d.DisplayUserBitmappedCharacter(ctx, 0x01, 0, 0, bitmap.Red) },
			[]byte{0x44, 0x01, 0, 0, 0xF8, 0x00}},
		{"background", func(d *Device) error { return d.SetBackgroundColor(ctx, bitmap.White) },
			[]byte{0x42, 0xFF, 0xFF}},
		{"circle", func(d *Device) error { return d.DrawCircle(ctx, 63, 63, 34, 0x001F) },
			[]byte{0x43, 63, 63, 34, 0x00, 0x1F}},
		{"triangle", func(d *Device) error { return d.DrawTriangle(ctx, 1, 2, 3, 4, 5, 6, bitmap.Green) },
			[]byte{0x47, 1, 2, 3, 4, 5, 6, 0x07, 0xE0}},
		{"line", func(d *Device) error { return d.DrawLine(ctx, 0, 0, 127, 127, bitmap.Yellow) },
			[]byte{0x4C, 0, 0, 127, 127, 0xFF, 0xE0}},
		{"rectangle", func(d *Device) error { return d.DrawRectangle(ctx, 10, 10, 20, 20, bitmap.Cyan) },
			[]byte{0x72, 10, 10, 20, 20, 0x07, 0xFF}},
		{"transparency", func(d *Device) error { return d.SetTextTransparency(ctx, proto.Transparent) },
			[]byte{0x4F, 0x00}},
		{"pen size", func(d *Device) error { return d.SetPenSize(ctx, proto.PenSolid) },
			[]byte{0x70, 0x00}},
		{"formatted char", func(d *Device) error { return d.PlaceFormattedTextCharacter(ctx, 'Z', 2, 3, bitmap.White) },
			[]byte{0x54, 'Z', 2, 3, 0xFF, 0xFF}},
		{"unformatted char", func(d *Device) error { return d.PlaceUnformattedTextCharacter(ctx, 'Z', 2, 3, bitmap.White, 2, 2) },
			[]byte{0x74, 'Z', 2, 3, 0xFF, 0xFF, 2, 2}},
		{"copy paste", func(d *Device) error { return d.ScreenCopyPaste(ctx, 0, 0, 64, 64, 32, 32) },
			[]byte{0x63, 0, 0, 64, 64, 32, 32}},
		{"display control", func(d *Device) error { return d.DisplayControl(ctx, proto.ModeDisplay, proto.Off) },
			[]byte{0x59, 0x01, 0x00}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev, fake := newTestDevice(t)

			require.NoError(t, tt.run(dev))
			require.Len(t, fake.writes, 1)
			assert.Equal(t, tt.want, fake.writes[0])
			assert.Equal(t, []string{fmt.Sprintf("w:%x", tt.want), "ack"}, fake.events)
		})
	}
}

func TestPlaceTextButton(t *testing.T) {
	dev, fake := newTestDevice(t)

	b := proto.TextButton{
		State: proto.ButtonDown, X: 4, Y: 8,
		ButtonColor: bitmap.Blue, Font: proto.FontSmall, TextColor: bitmap.White,
		Width: 1, Height: 1, Text: "GO",
	}
	require.NoError(t, dev.PlaceTextButton(testCtx(t), b))
	require.Len(t, fake.writes, 3)
	assert.Equal(t, []byte("GO"), fake.writes[1])
	assert.Equal(t, []byte{0x00}, fake.writes[2])

	fake.reset()
	b.Text = strings.Repeat("b", 257)
	assert.True(t, IsValidationError(dev.PlaceTextButton(testCtx(t), b)))
	assert.Empty(t, fake.writes)
}

func TestAttachSkipsPowerUp(t *testing.T) {
	fake := &fakeSerial{}
	dev, err := Attach(fake, nil, WithBaudRate(9600))
	require.NoError(t, err)

	assert.True(t, dev.IsOpen())
	assert.False(t, dev.Ready())
	assert.Equal(t, []string{"open"}, fake.events)

	require.NoError(t, dev.EraseScreen(testCtx(t)))
	assert.Equal(t, []string{"open", "w:45", "ack"}, fake.events)

	_, err = Attach(&fakeSerial{}, nil, WithBaudRate(-1))
	assert.True(t, IsValidationError(err))
}
