// Package source loads pictures for the display from local files or URLs and
// scales them to the screen.
package source

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/go-resty/resty/v2"
	"github.com/inhies/go-bytesize"
	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

var ErrHTTPStatus = errors.New("unexpected http status")

// New returns a Loader reading local paths from fs.
func New(fs afero.Fs, logger *zap.Logger, opts ...Option) *Loader {
	l := &Loader{
		fs:     fs,
		cli:    resty.New().SetDoNotParseResponse(true),
		log:    logger,
		width:  128,
		height: 128,
		fill:   true,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

type Loader struct {
	fs       afero.Fs
	cli      *resty.Client
	log      *zap.Logger
	cache    string
	progress bool
	width    int
	height   int
	fill     bool
}

// Load fetches ref, a local path or an http(s) URL, decodes it and scales it
// to the screen.
func (l *Loader) Load(ctx context.Context, ref string) (image.Image, error) {
	bs, err := l.Get(ctx, ref)
	if err != nil {
		return nil, err
	}

	img, err := imaging.Decode(bytes.NewReader(bs), imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", ref)
	}

	l.log.With(
		zap.String("ref", ref),
		zap.String("size", bytesize.New(float64(len(bs))).String()),
		zap.Stringer("bounds", img.Bounds()),
	).Debug("image loaded")

	return l.Scale(img), nil
}

// Scale fills the screen with img, cropping around the center, or fits img
// inside the screen when filling is off.
func (l *Loader) Scale(img image.Image) image.Image {
	if l.fill {
		return imaging.Fill(img, l.width, l.height, imaging.Center, imaging.Lanczos)
	}
	return imaging.Fit(img, l.width, l.height, imaging.Lanczos)
}

// Get returns the raw bytes of ref. Downloads are kept under the cache
// directory of fs when one is configured.
func (l *Loader) Get(ctx context.Context, ref string) ([]byte, error) {
	if !isURL(ref) {
		return afero.ReadFile(l.fs, ref)
	}

	file := l.cached(ref)
	if file != "" {
		if exists, err := afero.Exists(l.fs, file); err != nil {
			return nil, err
		} else if exists {
			return afero.ReadFile(l.fs, file)
		}
	}

	bs, err := l.download(ctx, ref)
	if err != nil {
		return nil, err
	}

	if file != "" {
		if err := l.fs.MkdirAll(l.cache, 0755); err != nil {
			return nil, err
		}
		if err := afero.WriteFile(l.fs, file, bs, 0644); err != nil {
			return nil, err
		}
		l.log.With(zap.String("url", ref), zap.String("file", file)).Debug("download saved")
	}

	return bs, nil
}

func (l *Loader) download(ctx context.Context, ref string) ([]byte, error) {
	resp, err := l.cli.R().SetContext(ctx).Get(ref)
	if err != nil {
		return nil, err
	}

	defer func() {
		_ = resp.RawBody().Close()
	}()

	if resp.StatusCode() >= 400 {
		return nil, errors.Wrapf(ErrHTTPStatus, "%s: %s", ref, resp.Status())
	}

	var sink io.Writer = io.Discard
	if l.progress {
		sink = progressbar.DefaultBytes(resp.RawResponse.ContentLength, fmt.Sprintf("Downloading %s", ref))
	}

	var buf bytes.Buffer
	if _, err := io.Copy(io.MultiWriter(&buf, sink), resp.RawBody()); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (l *Loader) cached(ref string) string {
	if l.cache == "" {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil || path.Base(u.Path) == "/" || path.Base(u.Path) == "." {
		return ""
	}
	return path.Join(l.cache, u.Host, path.Base(u.Path))
}

func isURL(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}
