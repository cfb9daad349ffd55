package uoled

import (
	"context"
	"image"

	"github.com/samber/lo"

	"uoled/pkg/bitmap"
	"uoled/pkg/proto"
)

func (d *Device) DisplayControl(ctx context.Context, mode proto.DisplayMode, value uint8) error {
	return d.sendCMD(ctx, frameDisplayControl(mode, value))
}

func (d *Device) EraseScreen(ctx context.Context) error {
	return d.sendCMD(ctx, frameErase())
}

func (d *Device) SetBackgroundColor(ctx context.Context, c bitmap.Color) error {
	return d.sendCMD(ctx, frameBackground(c))
}

// SetFontSize selects the font used by the formatted text commands.
func (d *Device) SetFontSize(ctx context.Context, size proto.FontSize) error {
	if err := validateFontSize("set font size", size); err != nil {
		return err
	}
	return d.sendCMD(ctx, frameFontSize(size))
}

func (d *Device) SetTextTransparency(ctx context.Context, mode proto.TextTransparency) error {
	return d.sendCMD(ctx, frameTransparency(mode))
}

func (d *Device) SetPenSize(ctx context.Context, size proto.PenSize) error {
	return d.sendCMD(ctx, framePenSize(size))
}

// VersionInfo asks the device to identify itself. With onScreen set the
// device also prints the information on the display.
func (d *Device) VersionInfo(ctx context.Context, onScreen bool) (*proto.Version, error) {
	reply, err := d.sendQuery(ctx, 5, frameVersion(onScreen))
	if err != nil {
		return nil, err
	}

	return &proto.Version{
		DeviceType:  reply[0],
		Hardware:    reply[1],
		Firmware:    reply[2],
		HorizontalR: reply[3],
		VerticalR:   reply[4],
	}, nil
}

// AddUserBitmappedCharacter uploads an 8x8 glyph into slot charNum.
func (d *Device) AddUserBitmappedCharacter(ctx context.Context, charNum uint8, glyph proto.Glyph) error {
	return d.sendCMD(ctx, frameAddUserChar(charNum, glyph))
}

func (d *Device) DisplayUserBitmappedCharacter(ctx context.Context, charNum, x, y uint8, c bitmap.Color) error {
	return d.sendCMD(ctx, frameDisplayUserChar(charNum, x, y, c))
}

func (d *Device) PutPixel(ctx context.Context, x, y uint8, c bitmap.Color) error {
	return d.sendCMD(ctx, framePutPixel(x, y, c))
}

// ReadPixel returns the color of the pixel at (x, y). The reply to this
// command is the color itself rather than an acknowledgement.
func (d *Device) ReadPixel(ctx context.Context, x, y uint8) (bitmap.Color, error) {
	reply, err := d.sendQuery(ctx, 2, frameReadPixel(x, y))
	if err != nil {
		return 0, err
	}
	return bitmap.ColorFromBytes(reply[0], reply[1]), nil
}

func (d *Device) DrawLine(ctx context.Context, x1, y1, x2, y2 uint8, c bitmap.Color) error {
	return d.sendCMD(ctx, frameLine(x1, y1, x2, y2, c))
}

func (d *Device) DrawRectangle(ctx context.Context, x1, y1, x2, y2 uint8, c bitmap.Color) error {
	return d.sendCMD(ctx, frameRectangle(x1, y1, x2, y2, c))
}

func (d *Device) DrawCircle(ctx context.Context, x, y, radius uint8, c bitmap.Color) error {
	return d.sendCMD(ctx, frameCircle(x, y, radius, c))
}

func (d *Device) DrawTriangle(ctx context.Context, x1, y1, x2, y2, x3, y3 uint8, c bitmap.Color) error {
	return d.sendCMD(ctx, frameTriangle(x1, y1, x2, y2, x3, y3, c))
}

// DrawPolygon draws a closed outline through 3 to 7 vertices, the most the
// display firmware takes in one command.
func (d *Device) DrawPolygon(ctx context.Context, vertices []proto.Vertex, c bitmap.Color) error {
	if err := validatePolygon("draw polygon", vertices); err != nil {
		return err
	}
	return d.sendCMD(ctx, framePolygon(vertices, c))
}

// DrawImage sends raw pixel data for a width x height block at (x, y). The
// header and the pixels go out as two writes ahead of one acknowledgement.
func (d *Device) DrawImage(ctx context.Context, x, y, width, height uint8, mode proto.ColorMode, pixels []byte) error {
	return d.sendCMD(ctx, frameImageHeader(x, y, width, height, mode), pixels)
}

// DrawBitmap draws img at (x, y) in the configured color mode.
func (d *Device) DrawBitmap(ctx context.Context, x, y uint8, img image.Image) error {
	size := img.Bounds().Size()
	if size.X == 0 || size.Y == 0 {
		return nil
	}

	if err := d.validatePlacement("draw bitmap", x, y, size); err != nil {
		return err
	}

	pixels := lo.Ternary(d.config.ColorMode == proto.Color8, bitmap.Encode8, bitmap.Encode16)(img)
	return d.DrawImage(ctx, x, y, uint8(size.X), uint8(size.Y), d.config.ColorMode, pixels)
}

// ScreenCopyPaste copies a width x height block from (xs, ys) to (xd, yd).
func (d *Device) ScreenCopyPaste(ctx context.Context, xs, ys, xd, yd, width, height uint8) error {
	return d.sendCMD(ctx, frameCopyPaste(xs, ys, xd, yd, width, height))
}

func (d *Device) PlaceFormattedTextCharacter(ctx context.Context, char byte, column, row uint8, c bitmap.Color) error {
	return d.sendCMD(ctx, frameFormattedChar(char, column, row, c))
}

func (d *Device) PlaceUnformattedTextCharacter(ctx context.Context, char byte, x, y uint8, c bitmap.Color, width, height uint8) error {
	return d.sendCMD(ctx, frameUnformattedChar(char, x, y, c, width, height))
}

// PlaceFormattedASCII places s at a character cell of the font grid.
func (d *Device) PlaceFormattedASCII(ctx context.Context, column, row uint8, font proto.FontSize, c bitmap.Color, width, height uint8, s string) error {
	const op = "place formatted ascii"
	if err := validateString(op, s); err != nil {
		return err
	}
	if err := validateTextCell(op, column, row, font); err != nil {
		return err
	}

	return d.sendCMD(ctx, frameTextHeader(CmdFormattedText, column, row, font, c, width, height), []byte(s), terminator)
}

// PlaceUnformattedASCII places s at pixel position (x, y).
func (d *Device) PlaceUnformattedASCII(ctx context.Context, x, y uint8, font proto.FontSize, c bitmap.Color, width, height uint8, s string) error {
	if err := validateString("place unformatted ascii", s); err != nil {
		return err
	}

	return d.sendCMD(ctx, frameTextHeader(CmdUnformattedText, x, y, font, c, width, height), []byte(s), terminator)
}

func (d *Device) PlaceTextButton(ctx context.Context, b proto.TextButton) error {
	if err := validateString("place text button", b.Text); err != nil {
		return err
	}

	return d.sendCMD(ctx, frameTextButtonHeader(b), []byte(b.Text), terminator)
}
