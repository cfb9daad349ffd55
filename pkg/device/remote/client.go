package remote

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"net/rpc"

	"uoled/pkg/bitmap"
	"uoled/pkg/proto"
)

// New dials a display served by Proxy.
func New(addr string) (*Client, error) {
	client, err := rpc.DialHTTP("tcp", addr)
	if err != nil {
		return nil, err
	}

	return &Client{rpc: client}, nil
}

var _ proto.Control = (*Client)(nil)

type Client struct {
	rpc *rpc.Client
}

func (c *Client) Close() error {
	return c.rpc.Close()
}

// call gives up waiting when ctx is done; the server still finishes the
// command.
func (c *Client) call(ctx context.Context, method string, args interface{}, reply interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if reply == nil {
		reply = &EmptyResponse{}
	}

	call := c.rpc.Go("Service."+method, args, reply, make(chan *rpc.Call, 1))
	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-call.Done:
		return res.Error
	}
}

func (c *Client) Shutdown(ctx context.Context) error {
	return c.call(ctx, "Command", CommandRequest{Name: "shutdown"}, nil)
}

func (c *Client) EraseScreen(ctx context.Context) error {
	return c.call(ctx, "Command", CommandRequest{Name: "erase"}, nil)
}

func (c *Client) DisplayControl(ctx context.Context, mode proto.DisplayMode, value uint8) error {
	return c.call(ctx, "DisplayControl", DisplayControlRequest{Mode: mode, Value: value}, nil)
}

func (c *Client) SetBackgroundColor(ctx context.Context, color bitmap.Color) error {
	return c.call(ctx, "SetBackgroundColor", ColorRequest{Color: color}, nil)
}

func (c *Client) SetFontSize(ctx context.Context, size proto.FontSize) error {
	return c.call(ctx, "SetFontSize", SettingRequest{Value: uint8(size)}, nil)
}

func (c *Client) SetTextTransparency(ctx context.Context, mode proto.TextTransparency) error {
	return c.call(ctx, "SetTextTransparency", SettingRequest{Value: uint8(mode)}, nil)
}

func (c *Client) SetPenSize(ctx context.Context, size proto.PenSize) error {
	return c.call(ctx, "SetPenSize", SettingRequest{Value: uint8(size)}, nil)
}

func (c *Client) VersionInfo(ctx context.Context, onScreen bool) (*proto.Version, error) {
	var v proto.Version
	if err := c.call(ctx, "VersionInfo", VersionRequest{OnScreen: onScreen}, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (c *Client) AddUserBitmappedCharacter(ctx context.Context, charNum uint8, glyph proto.Glyph) error {
	return c.call(ctx, "AddUserChar", UserCharRequest{CharNum: charNum, Glyph: glyph}, nil)
}

func (c *Client) DisplayUserBitmappedCharacter(ctx context.Context, charNum, x, y uint8, color bitmap.Color) error {
	return c.call(ctx, "DisplayUserChar", UserCharRequest{CharNum: charNum, X: x, Y: y, Color: color}, nil)
}

func (c *Client) PutPixel(ctx context.Context, x, y uint8, color bitmap.Color) error {
	return c.call(ctx, "PutPixel", PixelRequest{X: x, Y: y, Color: color}, nil)
}

func (c *Client) ReadPixel(ctx context.Context, x, y uint8) (bitmap.Color, error) {
	var resp PixelResponse
	if err := c.call(ctx, "ReadPixel", PixelRequest{X: x, Y: y}, &resp); err != nil {
		return 0, err
	}
	return resp.Color, nil
}

func (c *Client) DrawLine(ctx context.Context, x1, y1, x2, y2 uint8, color bitmap.Color) error {
	return c.call(ctx, "DrawShape", ShapeRequest{Shape: "line", Points: []uint8{x1, y1, x2, y2}, Color: color}, nil)
}

func (c *Client) DrawRectangle(ctx context.Context, x1, y1, x2, y2 uint8, color bitmap.Color) error {
	return c.call(ctx, "DrawShape", ShapeRequest{Shape: "rectangle", Points: []uint8{x1, y1, x2, y2}, Color: color}, nil)
}

func (c *Client) DrawCircle(ctx context.Context, x, y, radius uint8, color bitmap.Color) error {
	return c.call(ctx, "DrawShape", ShapeRequest{Shape: "circle", Points: []uint8{x, y, radius}, Color: color}, nil)
}

func (c *Client) DrawTriangle(ctx context.Context, x1, y1, x2, y2, x3, y3 uint8, color bitmap.Color) error {
	return c.call(ctx, "DrawShape", ShapeRequest{Shape: "triangle", Points: []uint8{x1, y1, x2, y2, x3, y3}, Color: color}, nil)
}

func (c *Client) DrawPolygon(ctx context.Context, vertices []proto.Vertex, color bitmap.Color) error {
	return c.call(ctx, "DrawPolygon", PolygonRequest{Vertices: vertices, Color: color}, nil)
}

func (c *Client) DrawImage(ctx context.Context, x, y, width, height uint8, mode proto.ColorMode, pixels []byte) error {
	return c.call(ctx, "DrawImage", &DrawImageRequest{
		X: x, Y: y, Width: width, Height: height, Mode: mode, Pixels: pixels,
	}, nil)
}

func (c *Client) DrawBitmap(ctx context.Context, x, y uint8, img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return err
	}

	return c.call(ctx, "DrawBitmap", &DrawBitmapRequest{
		X:     x,
		Y:     y,
		Image: buf.Bytes(),
	}, nil)
}

func (c *Client) ScreenCopyPaste(ctx context.Context, xs, ys, xd, yd, width, height uint8) error {
	return c.call(ctx, "ScreenCopyPaste", CopyPasteRequest{
		XS: xs, YS: ys, XD: xd, YD: yd, Width: width, Height: height,
	}, nil)
}

func (c *Client) PlaceFormattedTextCharacter(ctx context.Context, char byte, column, row uint8, color bitmap.Color) error {
	return c.call(ctx, "PlaceChar", CharRequest{Formatted: true, Char: char, X: column, Y: row, Color: color}, nil)
}

func (c *Client) PlaceUnformattedTextCharacter(ctx context.Context, char byte, x, y uint8, color bitmap.Color, width, height uint8) error {
	return c.call(ctx, "PlaceChar", CharRequest{
		Char: char, X: x, Y: y, Color: color, Width: width, Height: height,
	}, nil)
}

func (c *Client) PlaceFormattedASCII(ctx context.Context, column, row uint8, font proto.FontSize, color bitmap.Color, width, height uint8, s string) error {
	return c.call(ctx, "PlaceText", TextRequest{
		Formatted: true, X: column, Y: row, Font: font, Color: color, Width: width, Height: height, Text: s,
	}, nil)
}

func (c *Client) PlaceUnformattedASCII(ctx context.Context, x, y uint8, font proto.FontSize, color bitmap.Color, width, height uint8, s string) error {
	return c.call(ctx, "PlaceText", TextRequest{
		X: x, Y: y, Font: font, Color: color, Width: width, Height: height, Text: s,
	}, nil)
}

func (c *Client) PlaceTextButton(ctx context.Context, b proto.TextButton) error {
	return c.call(ctx, "PlaceTextButton", TextButtonRequest{Button: b}, nil)
}
