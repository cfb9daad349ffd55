package proto

import (
	"fmt"

	"uoled/pkg/bitmap"
)

type FontSize uint8

const (
	FontSmall  FontSize = 0x00 // 5x7
	FontMedium FontSize = 0x01 // 8x8
	FontLarge  FontSize = 0x02 // 8x12
)

func (f FontSize) String() string {
	switch f {
	case FontSmall:
		return "small"
	case FontMedium:
		return "medium"
	case FontLarge:
		return "large"
	}
	return fmt.Sprintf("font(0x%02X)", uint8(f))
}

type ColorMode uint8

const (
	Color8  ColorMode = 0x08
	Color16 ColorMode = 0x10
)

// BytesPerPixel returns how many pixel bytes the mode uses.
func (m ColorMode) BytesPerPixel() int {
	if m == Color16 {
		return 2
	}
	return 1
}

func (m ColorMode) String() string {
	switch m {
	case Color8:
		return "8bit"
	case Color16:
		return "16bit"
	}
	return fmt.Sprintf("colormode(0x%02X)", uint8(m))
}

type TextTransparency uint8

const (
	Transparent TextTransparency = 0x00
	Opaque      TextTransparency = 0x01
)

func (t TextTransparency) String() string {
	if t == Transparent {
		return "transparent"
	}
	return "opaque"
}

type PenSize uint8

const (
	PenSolid PenSize = 0x00
	PenWire  PenSize = 0x01
)

func (p PenSize) String() string {
	if p == PenSolid {
		return "solid"
	}
	return "wire"
}

type DisplayMode uint8

const (
	ModeDisplay  DisplayMode = 0x01
	ModeContrast DisplayMode = 0x02
	ModePower    DisplayMode = 0x03
)

func (m DisplayMode) String() string {
	switch m {
	case ModeDisplay:
		return "display"
	case ModeContrast:
		return "contrast"
	case ModePower:
		return "power"
	}
	return fmt.Sprintf("mode(0x%02X)", uint8(m))
}

const (
	Off uint8 = 0x00
	On  uint8 = 0x01

	ContrastMax uint8 = 0x0F
)

type ButtonState uint8

const (
	ButtonDown ButtonState = 0x00
	ButtonUp   ButtonState = 0x01
)

// Glyph is an 8x8 user character bitmap, one byte per row.
type Glyph [8]byte

type Vertex struct {
	X, Y uint8
}

type TextButton struct {
	State       ButtonState
	X, Y        uint8
	ButtonColor bitmap.Color
	Font        FontSize
	TextColor   bitmap.Color
	// Width and Height are the text magnification factors.
	Width, Height uint8
	Text          string
}

// Version is the device identification reply.
type Version struct {
	DeviceType  uint8
	Hardware    uint8
	Firmware    uint8
	HorizontalR uint8
	VerticalR   uint8
}

// Resolution decodes the resolution codes of the reply into pixels.
func (v *Version) Resolution() (w, h int) {
	return resolution(v.HorizontalR), resolution(v.VerticalR)
}

func (v *Version) String() string {
	w, h := v.Resolution()
	return fmt.Sprintf("type=0x%02X hw=0x%02X fw=0x%02X %dx%d", v.DeviceType, v.Hardware, v.Firmware, w, h)
}

func resolution(code uint8) int {
	switch code {
	case 0x22:
		return 220
	case 0x28:
		return 128
	case 0x32:
		return 320
	case 0x60:
		return 160
	case 0x64:
		return 64
	case 0x76:
		return 176
	case 0x96:
		return 96
	}
	return int(code)
}
