package api

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"regionmap/config"
	"regionmap/internal/delivery"
	apimiddleware "regionmap/internal/delivery/api/middleware"
	"regionmap/internal/delivery/api/router"
	"regionmap/internal/delivery/api/validator"
	"regionmap/internal/delivery/middleware"
	"regionmap/internal/domain/lifecycle"
	"regionmap/internal/errors"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/fx"
	"golang.org/x/net/http2"
)

// widgetServer serves the host attributes, the scene and the event stream over h2c
type widgetServer struct {
	cfg    *config.Config
	logger *slog.Logger
	echo   *echo.Echo

	// ends every request context, so open event streams return on shutdown
	endStreams context.CancelFunc
}

// ServerParams holds dependencies for HTTP server, injected by Fx.
type ServerParams struct {
	fx.In

	Lc           fx.Lifecycle
	Cfg          *config.Config
	Logger       *slog.Logger
	RouterParams router.RouterParams
}

// NewServer builds the echo server for the widget API
func NewServer(params ServerParams) (delivery.Delivery, error) {
	srv := newWidgetServer(params.Cfg, params.Logger)
	router.NewRouter(params.RouterParams).RegisterRoutes(srv.echo)

	params.Lc.Append(fx.Hook{
		OnStop: srv.stop,
	})

	return srv, nil
}

func newWidgetServer(cfg *config.Config, logger *slog.Logger) *widgetServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	timeouts := cfg.HTTP.Timeouts
	e.Server.ReadTimeout = timeouts.ReadTimeout
	e.Server.ReadHeaderTimeout = timeouts.ReadHeaderTimeout
	e.Server.WriteTimeout = timeouts.WriteTimeout
	e.Server.IdleTimeout = timeouts.IdleTimeout

	baseCtx, cancel := context.WithCancel(context.Background())
	e.Server.BaseContext = func(net.Listener) context.Context { return baseCtx }

	// Recover first so panics in any later middleware are caught,
	// and the request id before the logger so every line carries it
	e.Use(echomiddleware.Recover())
	e.Use(middleware.NewRequestIDMiddleware(logger).Process)
	e.Use(middleware.NewLoggerMiddleware(logger, cfg).Handle)
	// Host pages embed the widget from other origins
	e.Use(echomiddleware.CORS())
	e.Use(echomiddleware.BodyLimit(cfg.HTTP.MaxRequestBodySize))

	e.HTTPErrorHandler = apimiddleware.NewErrorMiddleware(logger).HandleHTTPError
	e.Validator = validator.New()

	return &widgetServer{
		cfg:        cfg,
		logger:     logger,
		echo:       e,
		endStreams: cancel,
	}
}

func (s *widgetServer) Serve(ctx context.Context) error {
	hostPort := net.JoinHostPort("0.0.0.0", strconv.Itoa(s.cfg.HTTP.Port))
	s.logger.Info("Starting region map HTTP server",
		slog.String("host_port", hostPort),
		slog.String("tile_path", router.TilePath(s.cfg)),
		slog.String("max_body", s.cfg.HTTP.MaxRequestBodySize),
	)

	h2s := &http2.Server{
		IdleTimeout: s.cfg.HTTP.Timeouts.IdleTimeout,
	}
	if err := s.echo.StartH2CServer(hostPort, h2s); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.WithStack(err)
	}

	return nil
}

func (s *widgetServer) stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, lifecycle.DefaultTimeout)
	defer cancel()

	s.logger.Info("Shutting down region map HTTP server")
	// event streams never go idle, Shutdown would wait for them until the timeout
	s.endStreams()

	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("Forcing open connections closed", slog.Any("error", err))

		return errors.WithStack(s.echo.Close())
	}

	return nil
}
