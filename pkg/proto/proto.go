package proto

import (
	"context"
	"image"

	"uoled/pkg/bitmap"
)

// Control is the command surface of a uOLED display.
type Control interface {
	Shutdown(ctx context.Context) error

	DisplayControl(ctx context.Context, mode DisplayMode, value uint8) error
	EraseScreen(ctx context.Context) error
	SetBackgroundColor(ctx context.Context, c bitmap.Color) error
	SetFontSize(ctx context.Context, size FontSize) error
	SetTextTransparency(ctx context.Context, mode TextTransparency) error
	SetPenSize(ctx context.Context, size PenSize) error
	VersionInfo(ctx context.Context, onScreen bool) (*Version, error)

	AddUserBitmappedCharacter(ctx context.Context, charNum uint8, glyph Glyph) error
	DisplayUserBitmappedCharacter(ctx context.Context, charNum, x, y uint8, c bitmap.Color) error

	PutPixel(ctx context.Context, x, y uint8, c bitmap.Color) error
	ReadPixel(ctx context.Context, x, y uint8) (bitmap.Color, error)
	DrawLine(ctx context.Context, x1, y1, x2, y2 uint8, c bitmap.Color) error
	DrawRectangle(ctx context.Context, x1, y1, x2, y2 uint8, c bitmap.Color) error
	DrawCircle(ctx context.Context, x, y, radius uint8, c bitmap.Color) error
	DrawTriangle(ctx context.Context, x1, y1, x2, y2, x3, y3 uint8, c bitmap.Color) error
	DrawPolygon(ctx context.Context, vertices []Vertex, c bitmap.Color) error
	DrawImage(ctx context.Context, x, y, width, height uint8, mode ColorMode, pixels []byte) error
	DrawBitmap(ctx context.Context, x, y uint8, img image.Image) error
	ScreenCopyPaste(ctx context.Context, xs, ys, xd, yd, width, height uint8) error

	PlaceFormattedTextCharacter(ctx context.Context, char byte, column, row uint8, c bitmap.Color) error
	PlaceUnformattedTextCharacter(ctx context.Context, char byte, x, y uint8, c bitmap.Color, width, height uint8) error
	PlaceFormattedASCII(ctx context.Context, column, row uint8, font FontSize, c bitmap.Color, width, height uint8, s string) error
	PlaceUnformattedASCII(ctx context.Context, x, y uint8, font FontSize, c bitmap.Color, width, height uint8, s string) error
	PlaceTextButton(ctx context.Context, b TextButton) error
}
