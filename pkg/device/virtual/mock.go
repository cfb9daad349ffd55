package virtual

import (
	"context"
	"image"
	"image/draw"
	"sync"

	"go.uber.org/zap"

	"uoled/pkg/bitmap"
	"uoled/pkg/proto"
)

// Mock returns a display that logs every command and keeps a framebuffer
// for the pixel level commands, so ReadPixel answers what was drawn.
func Mock(logger *zap.Logger) *Mocker {
	return &Mocker{
		l:      logger,
		screen: bitmap.NewRGB565(image.Rect(0, 0, 128, 128)),
	}
}

var _ proto.Control = (*Mocker)(nil)

// Mocker is safe for concurrent use; the framebuffer is guarded by mu.
type Mocker struct {
	mu         sync.Mutex
	l          *zap.Logger
	screen     *bitmap.RGB565
	background bitmap.Color
}

// Screen exposes the framebuffer. Reading it while commands run is racy.
func (m *Mocker) Screen() *bitmap.RGB565 {
	return m.screen
}

func (m *Mocker) Shutdown(ctx context.Context) error {
	m.l.Info("shutdown")
	return nil
}

func (m *Mocker) DisplayControl(ctx context.Context, mode proto.DisplayMode, value uint8) error {
	m.l.With(zap.Stringer("mode", mode), zap.Uint8("value", value)).Info("display-control")
	return nil
}

func (m *Mocker) EraseScreen(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.l.Info("erase-screen")
	draw.Draw(m.screen, m.screen.Bounds(), image.NewUniform(m.background), image.Point{}, draw.Src)
	return nil
}

func (m *Mocker) SetBackgroundColor(ctx context.Context, c bitmap.Color) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.l.With(zap.Uint16("color", uint16(c))).Info("set-background")
	m.background = c
	return nil
}

func (m *Mocker) SetFontSize(ctx context.Context, size proto.FontSize) error {
	m.l.With(zap.Stringer("size", size)).Info("set-font-size")
	return nil
}

func (m *Mocker) SetTextTransparency(ctx context.Context, mode proto.TextTransparency) error {
	m.l.With(zap.Stringer("mode", mode)).Info("set-text-transparency")
	return nil
}

func (m *Mocker) SetPenSize(ctx context.Context, size proto.PenSize) error {
	m.l.With(zap.Stringer("size", size)).Info("set-pen-size")
	return nil
}

func (m *Mocker) VersionInfo(ctx context.Context, onScreen bool) (*proto.Version, error) {
	m.l.With(zap.Bool("on-screen", onScreen)).Info("version-info")
	return &proto.Version{HorizontalR: 0x28, VerticalR: 0x28}, nil
}

func (m *Mocker) AddUserBitmappedCharacter(ctx context.Context, charNum uint8, glyph proto.Glyph) error {
	m.l.With(zap.Uint8("char", charNum), zap.Binary("glyph", glyph[:])).Info("add-user-char")
	return nil
}

func (m *Mocker) DisplayUserBitmappedCharacter(ctx context.Context, charNum, x, y uint8, c bitmap.Color) error {
	m.l.With(zap.Uint8("char", charNum), zap.Uint8("x", x), zap.Uint8("y", y)).Info("display-user-char")
	return nil
}

func (m *Mocker) PutPixel(ctx context.Context, x, y uint8, c bitmap.Color) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.l.With(zap.Uint8("x", x), zap.Uint8("y", y), zap.Uint16("color", uint16(c))).Debug("put-pixel")
	m.screen.Set(int(x), int(y), c)
	return nil
}

func (m *Mocker) ReadPixel(ctx context.Context, x, y uint8) (bitmap.Color, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.screen.At(int(x), int(y)).(bitmap.Color), nil
}

func (m *Mocker) DrawLine(ctx context.Context, x1, y1, x2, y2 uint8, c bitmap.Color) error {
	m.l.With(zap.Uint8s("points", []uint8{x1, y1, x2, y2})).Info("draw-line")
	return nil
}

func (m *Mocker) DrawRectangle(ctx context.Context, x1, y1, x2, y2 uint8, c bitmap.Color) error {
	m.l.With(zap.Uint8s("points", []uint8{x1, y1, x2, y2})).Info("draw-rectangle")
	return nil
}

func (m *Mocker) DrawCircle(ctx context.Context, x, y, radius uint8, c bitmap.Color) error {
	m.l.With(zap.Uint8("x", x), zap.Uint8("y", y), zap.Uint8("radius", radius)).Info("draw-circle")
	return nil
}

func (m *Mocker) DrawTriangle(ctx context.Context, x1, y1, x2, y2, x3, y3 uint8, c bitmap.Color) error {
	m.l.With(zap.Uint8s("points", []uint8{x1, y1, x2, y2, x3, y3})).Info("draw-triangle")
	return nil
}

func (m *Mocker) DrawPolygon(ctx context.Context, vertices []proto.Vertex, c bitmap.Color) error {
	m.l.With(zap.Int("vertices", len(vertices))).Info("draw-polygon")
	return nil
}

func (m *Mocker) DrawImage(ctx context.Context, x, y, width, height uint8, mode proto.ColorMode, pixels []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.l.With(
		zap.Uint8("x", x),
		zap.Uint8("y", y),
		zap.Uint8("w", width),
		zap.Uint8("h", height),
		zap.Stringer("mode", mode),
	).Info("draw-image")

	if mode != proto.Color16 {
		return nil
	}
	for i := 0; i+1 < len(pixels) && i/2 < int(width)*int(height); i += 2 {
		px := int(x) + (i/2)%int(width)
		py := int(y) + (i/2)/int(width)
		m.screen.Set(px, py, bitmap.ColorFromBytes(pixels[i], pixels[i+1]))
	}
	return nil
}

func (m *Mocker) DrawBitmap(ctx context.Context, x, y uint8, img image.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.l.With(
		zap.Uint8("x", x),
		zap.Uint8("y", y),
		zap.Int("w", img.Bounds().Dx()),
		zap.Int("h", img.Bounds().Dy()),
	).Info("draw-bitmap")

	at := image.Pt(int(x), int(y))
	draw.Draw(m.screen, image.Rectangle{Min: at, Max: at.Add(img.Bounds().Size())}, img, img.Bounds().Min, draw.Src)
	return nil
}

func (m *Mocker) ScreenCopyPaste(ctx context.Context, xs, ys, xd, yd, width, height uint8) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.l.With(zap.Uint8s("args", []uint8{xs, ys, xd, yd, width, height})).Info("screen-copy-paste")

	src := image.Rect(int(xs), int(ys), int(xs)+int(width), int(ys)+int(height))
	block := bitmap.NewRGB565(src)
	draw.Draw(block, src, m.screen, src.Min, draw.Src)
	dst := image.Rect(int(xd), int(yd), int(xd)+int(width), int(yd)+int(height))
	draw.Draw(m.screen, dst, block, src.Min, draw.Src)
	return nil
}

func (m *Mocker) PlaceFormattedTextCharacter(ctx context.Context, char byte, column, row uint8, c bitmap.Color) error {
	m.l.With(zap.String("char", string(rune(char))), zap.Uint8("column", column), zap.Uint8("row", row)).Info("place-char")
	return nil
}

func (m *Mocker) PlaceUnformattedTextCharacter(ctx context.Context, char byte, x, y uint8, c bitmap.Color, width, height uint8) error {
	m.l.With(zap.String("char", string(rune(char))), zap.Uint8("x", x), zap.Uint8("y", y)).Info("place-char")
	return nil
}

func (m *Mocker) PlaceFormattedASCII(ctx context.Context, column, row uint8, font proto.FontSize, c bitmap.Color, width, height uint8, s string) error {
	m.l.With(zap.String("text", s), zap.Uint8("column", column), zap.Uint8("row", row), zap.Stringer("font", font)).Info("place-text")
	return nil
}

func (m *Mocker) PlaceUnformattedASCII(ctx context.Context, x, y uint8, font proto.FontSize, c bitmap.Color, width, height uint8, s string) error {
	m.l.With(zap.String("text", s), zap.Uint8("x", x), zap.Uint8("y", y), zap.Stringer("font", font)).Info("place-text")
	return nil
}

func (m *Mocker) PlaceTextButton(ctx context.Context, b proto.TextButton) error {
	m.l.With(zap.String("text", b.Text), zap.Uint8("x", b.X), zap.Uint8("y", b.Y)).Info("place-button")
	return nil
}
