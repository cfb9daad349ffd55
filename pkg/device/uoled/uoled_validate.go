package uoled

import (
	"image"

	"github.com/samber/lo"

	"uoled/pkg/proto"
)

const (
	MaxStringLength = 256

	MaxColumnSmallFont = 20
	MaxColumn          = 15
	MaxRowLargeFont    = 9
	MaxRow             = 15

	MinPolygonVertices = 3
	MaxPolygonVertices = 7
)

func validateFontSize(op string, size proto.FontSize) error {
	if size > proto.FontLarge {
		return &ValidationError{Op: op, Field: "font size", Value: int(size), Limit: int(proto.FontLarge)}
	}
	return nil
}

func validateString(op string, s string) error {
	if len(s) > MaxStringLength {
		return &ValidationError{Op: op, Field: "string length", Value: len(s), Limit: MaxStringLength}
	}
	return nil
}

// validateTextCell checks a character cell against the grid of the font:
// small fonts allow 21 columns, the others 16; large fonts allow 10 rows,
// the others 16.
func validateTextCell(op string, column, row uint8, font proto.FontSize) error {
	maxColumn := lo.Ternary(font == proto.FontSmall, MaxColumnSmallFont, MaxColumn)
	if int(column) > maxColumn {
		return &ValidationError{Op: op, Field: "column", Value: int(column), Limit: maxColumn}
	}

	maxRow := lo.Ternary(font == proto.FontLarge, MaxRowLargeFont, MaxRow)
	if int(row) > maxRow {
		return &ValidationError{Op: op, Field: "row", Value: int(row), Limit: maxRow}
	}

	return nil
}

func validatePolygon(op string, vertices []proto.Vertex) error {
	if len(vertices) < MinPolygonVertices {
		return &ValidationError{Op: op, Field: "vertices", Value: len(vertices), Limit: MinPolygonVertices}
	}
	if len(vertices) > MaxPolygonVertices {
		return &ValidationError{Op: op, Field: "vertices", Value: len(vertices), Limit: MaxPolygonVertices}
	}
	return nil
}

// validatePlacement checks that an image of size placed at (x, y) stays on
// screen and that its dimensions fit the one-byte width and height fields.
func (d *Device) validatePlacement(op string, x, y uint8, size image.Point) error {
	maxW := lo.Min([]int{d.config.Width - int(x), 0xFF})
	if size.X > maxW {
		return &ValidationError{Op: op, Field: "width", Value: size.X, Limit: maxW}
	}

	maxH := lo.Min([]int{d.config.Height - int(y), 0xFF})
	if size.Y > maxH {
		return &ValidationError{Op: op, Field: "height", Value: size.Y, Limit: maxH}
	}

	return nil
}
