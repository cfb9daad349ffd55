package mixer

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"uoled/pkg/bitmap"
	"uoled/pkg/device/virtual"
)

func quadrants() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 128, 128))
	fill := func(r image.Rectangle, c color.Color) {
		draw.Draw(img, r, image.NewUniform(c), image.Point{}, draw.Src)
	}
	fill(image.Rect(0, 0, 64, 64), color.RGBA{R: 0xFF, A: 0xFF})
	fill(image.Rect(64, 0, 128, 64), color.RGBA{G: 0xFF, A: 0xFF})
	fill(image.Rect(0, 64, 64, 128), color.RGBA{B: 0xFF, A: 0xFF})
	fill(image.Rect(64, 64, 128, 128), color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF})
	return img
}

func assertQuadrants(t *testing.T, m *virtual.Mocker) {
	t.Helper()
	ctx := context.Background()

	for _, tc := range []struct {
		x, y uint8
		want bitmap.Color
	}{
		{10, 10, bitmap.Red},
		{100, 10, bitmap.Green},
		{10, 100, bitmap.Blue},
		{127, 127, bitmap.White},
	} {
		c, err := m.ReadPixel(ctx, tc.x, tc.y)
		require.NoError(t, err)
		assert.Equal(t, tc.want, c, "pixel (%d,%d)", tc.x, tc.y)
	}
}

func TestCanvasEffects(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
	}{
		{"plain", nil},
		{"fixed block", []Option{WithEffect(EffectFixedBlock(48))}},
		{"random block", []Option{WithEffect(EffectBlock())}},
		{"rows", []Option{WithEffect(EffectRows(10))}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := virtual.Mock(zap.NewNop())
			d := NewDrawer(m, zap.NewNop(), tt.opts...)

			require.NoError(t, d.Canvas(context.Background(), quadrants()))
			assertQuadrants(t, m)
		})
	}
}

func TestCanvasSubImageWithOrigin(t *testing.T) {
	m := virtual.Mock(zap.NewNop())
	d := NewDrawer(m, zap.NewNop(), WithEffect(EffectFixedBlock(8)), WithOrigin(image.Pt(4, 4)))

	sub := quadrants().SubImage(image.Rect(60, 60, 70, 70))
	require.NoError(t, d.Canvas(context.Background(), sub))

	c, _ := m.ReadPixel(context.Background(), 4, 4)
	assert.Equal(t, bitmap.Red, c)
	c, _ = m.ReadPixel(context.Background(), 13, 13)
	assert.Equal(t, bitmap.White, c)
}

func TestBlockTiles(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 50))

	wc, err := EffectFixedBlock(32).Process(context.Background(), img)
	require.NoError(t, err)

	var ws []Write
	for w := range wc {
		ws = append(ws, w)
	}

	require.Len(t, ws, 8)
	assert.Equal(t, image.Pt(0, 0), ws[0].At)
	assert.Equal(t, image.Pt(96, 32), ws[7].At)
	assert.Equal(t, image.Rect(96, 32, 100, 50), ws[7].Img.Bounds())
}

func TestProcessStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	wc, err := EffectRows(1).Process(ctx, image.NewRGBA(image.Rect(0, 0, 8, 128)))
	require.NoError(t, err)

	<-wc
	cancel()
	for range wc {
	}
}
