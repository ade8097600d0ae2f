package service

import (
	"context"

	"regionmap/internal/domain/entity"
)

// EventPublisher defines the interface for publishing region selection events
type EventPublisher interface {
	// PublishRegionSelected publishes a user-initiated region selection
	PublishRegionSelected(ctx context.Context, event *entity.RegionSelectedEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
