package remote

import (
	"uoled/pkg/bitmap"
	"uoled/pkg/proto"
)

type EmptyResponse struct {
}

type CommandRequest struct {
	Name string
}

type DisplayControlRequest struct {
	Mode  proto.DisplayMode
	Value uint8
}

type ColorRequest struct {
	Color bitmap.Color
}

type SettingRequest struct {
	Value uint8
}

type VersionRequest struct {
	OnScreen bool
}

type UserCharRequest struct {
	CharNum uint8
	Glyph   proto.Glyph
	X, Y    uint8
	Color   bitmap.Color
}

type PixelRequest struct {
	X, Y  uint8
	Color bitmap.Color
}

type PixelResponse struct {
	Color bitmap.Color
}

// ShapeRequest carries the points of a line, rectangle, circle or triangle.
// A circle uses Points[2] as the radius.
type ShapeRequest struct {
	Shape  string
	Points []uint8
	Color  bitmap.Color
}

type PolygonRequest struct {
	Vertices []proto.Vertex
	Color    bitmap.Color
}

type DrawImageRequest struct {
	X, Y          uint8
	Width, Height uint8
	Mode          proto.ColorMode
	Pixels        []byte
}

// DrawBitmapRequest carries a PNG encoded image.
type DrawBitmapRequest struct {
	X, Y  uint8
	Image []byte
}

type CopyPasteRequest struct {
	XS, YS, XD, YD uint8
	Width, Height  uint8
}

type CharRequest struct {
	Formatted     bool
	Char          byte
	X, Y          uint8
	Color         bitmap.Color
	Width, Height uint8
}

type TextRequest struct {
	Formatted     bool
	X, Y          uint8
	Font          proto.FontSize
	Color         bitmap.Color
	Width, Height uint8
	Text          string
}

type TextButtonRequest struct {
	Button proto.TextButton
}
