package pubsub

import (
	"context"
	"log/slog"

	"regionmap/internal/domain/entity"
	"regionmap/internal/domain/service"
)

// fanoutPublisher broadcasts on the hub first, then hands the event to the transport
type fanoutPublisher struct {
	hub       *Hub
	transport service.EventPublisher
	logger    *slog.Logger
}

func newFanoutPublisher(hub *Hub, transport service.EventPublisher, logger *slog.Logger) service.EventPublisher {
	return &fanoutPublisher{
		hub:       hub,
		transport: transport,
		logger:    logger,
	}
}

func (p *fanoutPublisher) PublishRegionSelected(ctx context.Context, event *entity.RegionSelectedEvent) error {
	if dropped := p.hub.Broadcast(event); dropped > 0 {
		p.logger.Warn("Slow event subscribers dropped an event",
			slog.String("event_id", event.EventID),
			slog.Int("dropped", dropped),
		)
	}

	return p.transport.PublishRegionSelected(ctx, event)
}

func (p *fanoutPublisher) Close() error {
	return p.transport.Close()
}
