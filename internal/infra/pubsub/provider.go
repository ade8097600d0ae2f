package pubsub

import (
	"context"
	"log/slog"

	"regionmap/config"
	"regionmap/internal/domain/constants"
	"regionmap/internal/domain/entity"
	"regionmap/internal/domain/service"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// noopPublisher is used when no transport is configured; subscribers of the hub still see events
type noopPublisher struct {
	logger *slog.Logger
}

func (p *noopPublisher) PublishRegionSelected(ctx context.Context, event *entity.RegionSelectedEvent) error {
	p.logger.Debug("[NoopPubSub] Transport disabled, skipping",
		slog.String("event_id", event.EventID),
		slog.String("region_id", event.RegionID),
	)

	return nil
}

func (p *noopPublisher) Close() error {
	return nil
}

// PublisherParams holds dependencies for EventPublisher, injected by Fx
type PublisherParams struct {
	fx.In

	Lc     fx.Lifecycle
	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
	Hub    *Hub
}

// NewEventPublisher creates the EventPublisher: the in-process hub plus the configured transport
func NewEventPublisher(params PublisherParams) (service.EventPublisher, error) {
	transport, err := newTransport(params.Ctx, params.Config.PubSub, params.Logger)
	if err != nil {
		return nil, err
	}

	publisher := newFanoutPublisher(params.Hub, transport, params.Logger)

	// Register lifecycle hook to close publisher on shutdown
	params.Lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			params.Logger.Info("Closing EventPublisher")

			return publisher.Close()
		},
	})

	return publisher, nil
}

func newTransport(ctx context.Context, cfg *config.PubSubConfig, logger *slog.Logger) (service.EventPublisher, error) {
	// If PubSub is not configured, return a no-op publisher
	if cfg == nil || cfg.Provider == "" {
		logger.Info("PubSub not configured, using no-op publisher")

		return &noopPublisher{logger: logger}, nil
	}

	switch cfg.Provider {
	case constants.PubSubProviderLocal:
		if cfg.LocalEndpoint == "" {
			return nil, errors.New("local endpoint is required for local provider")
		}
		logger.Info("Using local HTTP publisher for Pub/Sub",
			slog.String("endpoint", cfg.LocalEndpoint),
		)

		return NewLocalHTTPPublisher(cfg.LocalEndpoint, logger), nil

	case constants.PubSubProviderGoogle:
		if cfg.ProjectID == "" {
			return nil, errors.New("project ID is required for google provider")
		}
		if cfg.TopicID == "" {
			return nil, errors.New("topic ID is required for google provider")
		}
		logger.Info("Using Google Pub/Sub publisher",
			slog.String("project_id", cfg.ProjectID),
			slog.String("topic_id", cfg.TopicID),
		)

		return NewGooglePubSubPublisher(ctx, cfg.ProjectID, cfg.TopicID, logger)

	default:
		return nil, errors.Errorf("unknown pubsub provider: %s", cfg.Provider)
	}
}

// HubParams holds dependencies for the event hub
type HubParams struct {
	fx.In

	Config *config.Config
}

// NewEventHub creates the hub with the configured subscriber buffer
func NewEventHub(params HubParams) *Hub {
	bufferSize := 0
	if params.Config.Events != nil {
		bufferSize = params.Config.Events.BufferSize
	}

	return NewHub(bufferSize)
}

// Module provides the Pub/Sub FX module
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(NewEventHub),
	fx.Provide(NewEventPublisher),
)
