package source

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 0xFF, A: 0xFF})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestLoadLocalFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/pics/red.png", pngBytes(t, 64, 32), 0o644))

	l := New(fs, zaptest.NewLogger(t))
	img, err := l.Load(context.Background(), "/pics/red.png")
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 128, 128), img.Bounds())

	l = New(fs, zaptest.NewLogger(t), WithFit(), WithSize(100, 100))
	img, err = l.Load(context.Background(), "/pics/red.png")
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 100, 50), img.Bounds())

	_, err = l.Load(context.Background(), "/pics/none.png")
	assert.Error(t, err)
}

func TestLoadURLCached(t *testing.T) {
	data := pngBytes(t, 16, 16)
	var hits int32

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/img/red.png" {
			http.NotFound(w, r)
			return
		}
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write(data)
	}))
	defer ts.Close()

	fs := afero.NewMemMapFs()
	l := New(fs, zaptest.NewLogger(t), WithCache("/cache"))

	for i := 0; i < 2; i++ {
		img, err := l.Load(context.Background(), ts.URL+"/img/red.png")
		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 0, 128, 128), img.Bounds())
	}
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits))

	files, err := afero.Glob(fs, "/cache/*/red.png")
	require.NoError(t, err)
	assert.Len(t, files, 1)

	_, err = l.Load(context.Background(), ts.URL+"/img/missing.png")
	assert.True(t, errors.Is(err, ErrHTTPStatus))
}

func TestLoadNotAnImage(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/notes.txt", []byte("hello"), 0o644))

	_, err := New(fs, zaptest.NewLogger(t)).Load(context.Background(), "/notes.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode /notes.txt")
}
