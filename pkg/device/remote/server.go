package remote

import (
	"bytes"
	"context"
	"image/png"
	"net/http"
	"net/rpc"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/xid"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"uoled/pkg/proto"
)

// Proxy serves dev over net/rpc on srv for the lifetime of the application.
func Proxy(dev proto.Control, srv *http.Server, logger *zap.Logger, lifecycle fx.Lifecycle) error {
	handler, err := Handler(NewService(dev, logger))
	if err != nil {
		return err
	}
	srv.Handler = handler

	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != http.ErrServerClosed {
					logger.With(zap.Error(err)).Fatal("rpc server failed")
				}
			}()
			logger.With(zap.String("addr", srv.Addr)).Info("rpc server started")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})

	return nil
}

// Handler returns an http.Handler serving svc at the default net/rpc path.
func Handler(svc *Service) (http.Handler, error) {
	server := rpc.NewServer()
	if err := server.Register(svc); err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle(rpc.DefaultRPCPath, server)
	return mux, nil
}

// NewService wraps dev for remote callers. Calls are serialized since the
// device handles one command at a time.
func NewService(dev proto.Control, logger *zap.Logger) *Service {
	return &Service{
		dev:     dev,
		logger:  logger,
		timeout: 10 * time.Second,
	}
}

type Service struct {
	mu      sync.Mutex
	dev     proto.Control
	logger  *zap.Logger
	timeout time.Duration
}

func (s *Service) do(method string, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	id := xid.New().String()
	start := time.Now()
	err := fn(ctx)

	logger := s.logger.With(
		zap.String("id", id),
		zap.String("method", method),
		zap.String("cost", time.Since(start).String()),
	)
	if err != nil {
		logger.With(zap.Error(err)).Warn("call failed")
	} else {
		logger.Debug("call")
	}
	return err
}

func (s *Service) Command(req CommandRequest, _ *EmptyResponse) error {
	return s.do("command", func(ctx context.Context) error {
		switch req.Name {
		case "shutdown":
			return s.dev.Shutdown(ctx)
		case "erase":
			return s.dev.EraseScreen(ctx)
		}
		return errors.Errorf("unknown command %q", req.Name)
	})
}

func (s *Service) DisplayControl(req DisplayControlRequest, _ *EmptyResponse) error {
	return s.do("display-control", func(ctx context.Context) error {
		return s.dev.DisplayControl(ctx, req.Mode, req.Value)
	})
}

func (s *Service) SetBackgroundColor(req ColorRequest, _ *EmptyResponse) error {
	return s.do("set-background", func(ctx context.Context) error {
		return s.dev.SetBackgroundColor(ctx, req.Color)
	})
}

func (s *Service) SetFontSize(req SettingRequest, _ *EmptyResponse) error {
	return s.do("set-font-size", func(ctx context.Context) error {
		return s.dev.SetFontSize(ctx, proto.FontSize(req.Value))
	})
}

func (s *Service) SetTextTransparency(req SettingRequest, _ *EmptyResponse) error {
	return s.do("set-text-transparency", func(ctx context.Context) error {
		return s.dev.SetTextTransparency(ctx, proto.TextTransparency(req.Value))
	})
}

func (s *Service) SetPenSize(req SettingRequest, _ *EmptyResponse) error {
	return s.do("set-pen-size", func(ctx context.Context) error {
		return s.dev.SetPenSize(ctx, proto.PenSize(req.Value))
	})
}

func (s *Service) VersionInfo(req VersionRequest, resp *proto.Version) error {
	return s.do("version-info", func(ctx context.Context) error {
		v, err := s.dev.VersionInfo(ctx, req.OnScreen)
		if err != nil {
			return err
		}
		*resp = *v
		return nil
	})
}

func (s *Service) AddUserChar(req UserCharRequest, _ *EmptyResponse) error {
	return s.do("add-user-char", func(ctx context.Context) error {
		return s.dev.AddUserBitmappedCharacter(ctx, req.CharNum, req.Glyph)
	})
}

func (s *Service) DisplayUserChar(req UserCharRequest, _ *EmptyResponse) error {
	return s.do("display-user-char", func(ctx context.Context) error {
		return s.dev.DisplayUserBitmappedCharacter(ctx, req.CharNum, req.X, req.Y, req.Color)
	})
}

func (s *Service) PutPixel(req PixelRequest, _ *EmptyResponse) error {
	return s.do("put-pixel", func(ctx context.Context) error {
		return s.dev.PutPixel(ctx, req.X, req.Y, req.Color)
	})
}

func (s *Service) ReadPixel(req PixelRequest, resp *PixelResponse) error {
	return s.do("read-pixel", func(ctx context.Context) error {
		c, err := s.dev.ReadPixel(ctx, req.X, req.Y)
		resp.Color = c
		return err
	})
}

func (s *Service) DrawShape(req ShapeRequest, _ *EmptyResponse) error {
	want := map[string]int{"line": 4, "rectangle": 4, "circle": 3, "triangle": 6}
	n, ok := want[req.Shape]
	if !ok {
		return errors.Errorf("unknown shape %q", req.Shape)
	}
	if len(req.Points) != n {
		return errors.Errorf("%s needs %d points, got %d", req.Shape, n, len(req.Points))
	}

	p := req.Points
	return s.do("draw-"+req.Shape, func(ctx context.Context) error {
		switch req.Shape {
		case "line":
			return s.dev.DrawLine(ctx, p[0], p[1], p[2], p[3], req.Color)
		case "rectangle":
			return s.dev.DrawRectangle(ctx, p[0], p[1], p[2], p[3], req.Color)
		case "circle":
			return s.dev.DrawCircle(ctx, p[0], p[1], p[2], req.Color)
		default:
			return s.dev.DrawTriangle(ctx, p[0], p[1], p[2], p[3], p[4], p[5], req.Color)
		}
	})
}

func (s *Service) DrawPolygon(req PolygonRequest, _ *EmptyResponse) error {
	return s.do("draw-polygon", func(ctx context.Context) error {
		return s.dev.DrawPolygon(ctx, req.Vertices, req.Color)
	})
}

func (s *Service) DrawImage(req *DrawImageRequest, _ *EmptyResponse) error {
	return s.do("draw-image", func(ctx context.Context) error {
		return s.dev.DrawImage(ctx, req.X, req.Y, req.Width, req.Height, req.Mode, req.Pixels)
	})
}

func (s *Service) DrawBitmap(req *DrawBitmapRequest, _ *EmptyResponse) error {
	img, err := png.Decode(bytes.NewBuffer(req.Image))
	if err != nil {
		return err
	}

	return s.do("draw-bitmap", func(ctx context.Context) error {
		return s.dev.DrawBitmap(ctx, req.X, req.Y, img)
	})
}

func (s *Service) ScreenCopyPaste(req CopyPasteRequest, _ *EmptyResponse) error {
	return s.do("screen-copy-paste", func(ctx context.Context) error {
		return s.dev.ScreenCopyPaste(ctx, req.XS, req.YS, req.XD, req.YD, req.Width, req.Height)
	})
}

func (s *Service) PlaceChar(req CharRequest, _ *EmptyResponse) error {
	return s.do("place-char", func(ctx context.Context) error {
		if req.Formatted {
			return s.dev.PlaceFormattedTextCharacter(ctx, req.Char, req.X, req.Y, req.Color)
		}
		return s.dev.PlaceUnformattedTextCharacter(ctx, req.Char, req.X, req.Y, req.Color, req.Width, req.Height)
	})
}

func (s *Service) PlaceText(req TextRequest, _ *EmptyResponse) error {
	return s.do("place-text", func(ctx context.Context) error {
		if req.Formatted {
			return s.dev.PlaceFormattedASCII(ctx, req.X, req.Y, req.Font, req.Color, req.Width, req.Height, req.Text)
		}
		return s.dev.PlaceUnformattedASCII(ctx, req.X, req.Y, req.Font, req.Color, req.Width, req.Height, req.Text)
	})
}

func (s *Service) PlaceTextButton(req TextButtonRequest, _ *EmptyResponse) error {
	return s.do("place-button", func(ctx context.Context) error {
		return s.dev.PlaceTextButton(ctx, req.Button)
	})
}
