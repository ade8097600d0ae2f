package main

import (
	"context"
	"log/slog"
	"os"

	"regionmap/config"
	"regionmap/internal/delivery"
	"regionmap/internal/delivery/api"
	"regionmap/internal/delivery/api/router/handler"
	"regionmap/internal/domain/service"
	"regionmap/internal/errors"
	"regionmap/internal/infra/basemap"
	"regionmap/internal/infra/cache"
	"regionmap/internal/infra/geoadmin"
	logs "regionmap/internal/infra/log"
	"regionmap/internal/infra/pubsub"
	"regionmap/internal/infra/surface"
	"regionmap/internal/usecase"
	"regionmap/internal/usecase/impl"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectHandler(),
		fx.Invoke(
			attachWidget,
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Options(
		fx.Provide(
			config.New,
			logs.New,
			context.Background,
		),
		pubsub.Module,
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			newGeometryFetcher,
			basemap.New,
			fx.Annotate(
				surface.NewScene,
				fx.As(new(service.Surface)),
				fx.As(new(handler.SceneSource)),
			),
			newEventSource,
		),
	)
}

// newGeometryFetcher builds the geodata client, behind a Redis cache when one is configured
func newGeometryFetcher(lc fx.Lifecycle, cfg *config.Config, logger *slog.Logger) (service.GeometryFetcher, error) {
	locator, err := geoadmin.NewLocator(
		cfg.Geodata.BaseURL,
		geoadmin.GeometryFormat(cfg.Geodata.GeometryFormat),
		geoadmin.SpatialReference(cfg.Geodata.SpatialReference),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create geometry locator")
	}

	client, err := geoadmin.NewClient(locator, cfg.Geodata.Timeout, logger)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create geodata client")
	}
	if cfg.Cache == nil || cfg.Cache.Redis == nil || cfg.Cache.Redis.Addr == "" {
		return client, nil
	}

	redisCfg := cfg.Cache.Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     redisCfg.Addr,
		Password: redisCfg.Password,
		DB:       redisCfg.DB,
	})
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return errors.WithStack(rdb.Close())
		},
	})

	logger.Info("Geometry cache enabled", slog.String("addr", redisCfg.Addr), slog.Duration("ttl", redisCfg.TTL))

	keyFor := func(subRegionID string) string {
		return redisCfg.KeyPrefix + locator.Locate(subRegionID).URL()
	}

	return cache.NewCachedGeometryFetcher(client, rdb, keyFor, redisCfg.TTL, logger), nil
}

func newEventSource(hub *pubsub.Hub) handler.EventSource {
	return hub
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewWidgetService,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewWidgetHandler,
			handler.NewMapHandler,
			handler.NewEventHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				api.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

// attachWidget loads the basemap and draws the widget on start.
// A basemap that cannot be loaded aborts startup.
func attachWidget(lc fx.Lifecycle, widget usecase.WidgetUsecase, logger *slog.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := widget.Attach(ctx); err != nil {
				return err
			}
			logger.Info("Region map attached")

			return nil
		},
	})
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
