package bitmap

import (
	"image/color"
)

// Color is a 16-bit RGB 5-6-5 value, the native color of the display.
//
//	bit 76543210  76543210
//	    RRRRRGGG  GGGBBBBB
//	   high byte  low byte
type Color uint16

const (
	Black   Color = 0x0000
	White   Color = 0xFFFF
	Red     Color = 0xF800
	Green   Color = 0x07E0
	Blue    Color = 0x001F
	Yellow  Color = 0xFFE0
	Cyan    Color = 0x07FF
	Magenta Color = 0xF81F
)

// Model converts any color to a Color.
var Model = color.ModelFunc(func(c color.Color) color.Color {
	if v, ok := c.(Color); ok {
		return v
	}
	r, g, b, _ := c.RGBA()
	return toColor(r, g, b)
})

// RGB packs 8-bit channels, keeping the highest 5, 6 and 5 bits.
func RGB(r, g, b uint8) Color {
	return Color(uint16(r&0xF8)<<8 | uint16(g&0xFC)<<3 | uint16(b)>>3)
}

// ColorFromBytes rebuilds a Color from its wire bytes.
func ColorFromBytes(hi, lo byte) Color {
	return Color(hi)<<8 | Color(lo)
}

// Bytes returns the wire representation: high byte first, low byte second.
func (c Color) Bytes() [2]byte {
	return [2]byte{byte(c >> 8), byte(c & 0xFF)}
}

// RGBA implements the color.Color interface.
func (c Color) RGBA() (r, g, b, a uint32) {
	// To convert a color channel from 5 or 6 bits back to 16 bits, the short
	// bit pattern is duplicated to fill all 16 bits.
	// For example the green channel is the middle 6 bits:
	//     00000GGGGGG00000
	//
	// These are or-ed together starting at the highest bit:
	//     GGGGGG0000000000 shifted << 5
	//     000000GGGGGG0000 shifted >> 1
	//     000000000000GGGG shifted >> 7
	//
	// Alpha is always 100% opaque.
	rBits := uint32(c & 0xF800) // RRRRR00000000000
	gBits := uint32(c & 0x7E0)  // 00000GGGGGG00000
	bBits := uint32(c & 0x1F)   // 00000000000BBBBB
	r = rBits | rBits>>5 | rBits>>10 | rBits>>15
	g = gBits<<5 | gBits>>1 | gBits>>7
	b = bBits<<11 | bBits<<6 | bBits<<1 | bBits>>4
	a = 0xFFFF
	return
}

// toColor uses the highest 5 or 6 bits of each 16-bit channel.
func toColor(r, g, b uint32) Color {
	// RRRRRGGGGGGBBBBB
	return Color((r & 0xF800) +
		((g & 0xFC00) >> 5) +
		((b & 0xF800) >> 11))
}

// toColor8 packs a color into the display's 8-bit RRRGGGBB format.
func toColor8(r, g, b uint32) byte {
	return byte(r>>13)<<5 | byte(g>>13)<<2 | byte(b>>14)
}
