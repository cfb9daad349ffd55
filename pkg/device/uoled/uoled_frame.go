package uoled

import (
	"github.com/samber/lo"

	"uoled/pkg/bitmap"
	"uoled/pkg/proto"
)

// Frame builders. Colors are always sent high byte first, see bitmap.Color.

var terminator = []byte{0x00}

func frameAutoBaud() []byte {
	return []byte{CmdAutoBaud}
}

func frameAddUserChar(charNum uint8, glyph proto.Glyph) []byte {
	frame := make([]byte, 0, 2+len(glyph))
	frame = append(frame, CmdAddUserChar, charNum)
	return append(frame, glyph[:]...)
}

func frameBackground(c bitmap.Color) []byte {
	cb := c.Bytes()
	return []byte{CmdBackground, cb[0], cb[1]}
}

func frameCircle(x, y, radius uint8, c bitmap.Color) []byte {
	cb := c.Bytes()
	return []byte{CmdCircle, x, y, radius, cb[0], cb[1]}
}

func frameDisplayUserChar(charNum, x, y uint8, c bitmap.Color) []byte {
	cb := c.Bytes()
	return []byte{CmdDisplayUserChar, charNum, x, y, cb[0], cb[1]}
}

func frameErase() []byte {
	return []byte{CmdErase}
}

func frameFontSize(size proto.FontSize) []byte {
	return []byte{CmdFontSize, byte(size)}
}

func frameTriangle(x1, y1, x2, y2, x3, y3 uint8, c bitmap.Color) []byte {
	cb := c.Bytes()
	return []byte{CmdTriangle, x1, y1, x2, y2, x3, y3, cb[0], cb[1]}
}

// framePolygon encodes the vertex count followed by x1, y1 ... xn, yn.
func framePolygon(vertices []proto.Vertex, c bitmap.Color) []byte {
	cb := c.Bytes()
	frame := make([]byte, 0, 4+2*len(vertices))
	frame = append(frame, CmdPolygon, byte(len(vertices)))
	for _, v := range vertices {
		frame = append(frame, v.X, v.Y)
	}
	return append(frame, cb[0], cb[1])
}

// frameImageHeader is followed on the wire by the pixel data.
func frameImageHeader(x, y, width, height uint8, mode proto.ColorMode) []byte {
	return []byte{CmdImage, x, y, width, height, byte(mode)}
}

func frameLine(x1, y1, x2, y2 uint8, c bitmap.Color) []byte {
	cb := c.Bytes()
	return []byte{CmdLine, x1, y1, x2, y2, cb[0], cb[1]}
}

func frameTransparency(mode proto.TextTransparency) []byte {
	return []byte{CmdTransparency, byte(mode)}
}

func framePutPixel(x, y uint8, c bitmap.Color) []byte {
	cb := c.Bytes()
	return []byte{CmdPutPixel, x, y, cb[0], cb[1]}
}

func framePenSize(size proto.PenSize) []byte {
	return []byte{CmdPenSize, byte(size)}
}

func frameReadPixel(x, y uint8) []byte {
	return []byte{CmdReadPixel, x, y}
}

func frameRectangle(x1, y1, x2, y2 uint8, c bitmap.Color) []byte {
	cb := c.Bytes()
	return []byte{CmdRectangle, x1, y1, x2, y2, cb[0], cb[1]}
}

// frameTextHeader is shared by the formatted and unformatted string commands;
// the string bytes and a 0x00 terminator follow it on the wire.
func frameTextHeader(cmd byte, a, b uint8, font proto.FontSize, c bitmap.Color, width, height uint8) []byte {
	cb := c.Bytes()
	return []byte{cmd, a, b, byte(font), cb[0], cb[1], width, height}
}

func frameFormattedChar(char byte, column, row uint8, c bitmap.Color) []byte {
	cb := c.Bytes()
	return []byte{CmdFormattedChar, char, column, row, cb[0], cb[1]}
}

func frameUnformattedChar(char byte, x, y uint8, c bitmap.Color, width, height uint8) []byte {
	cb := c.Bytes()
	return []byte{CmdUnformattedChar, char, x, y, cb[0], cb[1], width, height}
}

func frameDisplayControl(mode proto.DisplayMode, value uint8) []byte {
	return []byte{CmdDisplayControl, byte(mode), value}
}

func frameCopyPaste(xs, ys, xd, yd, width, height uint8) []byte {
	return []byte{CmdCopyPaste, xs, ys, xd, yd, width, height}
}

func frameTextButtonHeader(b proto.TextButton) []byte {
	bc := b.ButtonColor.Bytes()
	tc := b.TextColor.Bytes()
	return []byte{
		CmdTextButton, byte(b.State), b.X, b.Y,
		bc[0], bc[1], byte(b.Font), tc[0], tc[1],
		b.Width, b.Height,
	}
}

func frameVersion(onScreen bool) []byte {
	return []byte{CmdVersion, lo.Ternary[byte](onScreen, 0x01, 0x00)}
}
