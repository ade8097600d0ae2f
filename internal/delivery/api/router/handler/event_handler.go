package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"regionmap/config"
	deliverycontext "regionmap/internal/delivery/context"
	"regionmap/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

const regionSelectedEventName = "region-selected"

// EventSource hands out subscriptions to region selected events
type EventSource interface {
	Subscribe() (<-chan *entity.RegionSelectedEvent, func())
}

// EventHandlerParams holds dependencies for EventHandler, injected by Fx.
type EventHandlerParams struct {
	fx.In

	Events EventSource
	Config *config.Config
	Logger *slog.Logger
}

// EventHandler streams region selected events to the host page as server-sent events
type EventHandler struct {
	events    EventSource
	keepAlive time.Duration
	logger    *slog.Logger
}

// NewEventHandler is the constructor for EventHandler
func NewEventHandler(params EventHandlerParams) *EventHandler {
	return &EventHandler{
		events:    params.Events,
		keepAlive: params.Config.Events.KeepAlive,
		logger:    params.Logger,
	}
}

// Stream writes every region selected event until the client goes away
func (h *EventHandler) Stream(c echo.Context) error {
	ctx := c.Request().Context()
	logger := deliverycontext.Logger(ctx, h.logger)

	events, cancel := h.events.Subscribe()
	defer cancel()

	res := c.Response()
	// The server write timeout would otherwise end every stream
	_ = http.NewResponseController(res.Writer).SetWriteDeadline(time.Time{})

	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.WriteHeader(http.StatusOK)
	res.Flush()

	logger.Debug("Event stream opened")
	defer logger.Debug("Event stream closed")

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-events:
			if !ok {
				return nil
			}
			data, err := json.Marshal(event)
			if err != nil {
				logger.Error("Failed to encode region selected event", slog.Any("error", err))

				continue
			}
			if _, err := fmt.Fprintf(res, "id: %s\nevent: %s\ndata: %s\n\n", event.EventID, regionSelectedEventName, data); err != nil {
				return nil
			}
			res.Flush()
		case <-ticker.C:
			if _, err := fmt.Fprint(res, ": keepalive\n\n"); err != nil {
				return nil
			}
			res.Flush()
		}
	}
}
