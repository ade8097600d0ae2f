// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"strings"

	"regionmap/config"
	"regionmap/internal/delivery/api/router/handler"
	"regionmap/internal/infra/metrics"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

const defaultTilePath = "/tiles"

type RouterParams struct {
	fx.In

	WidgetHandler *handler.WidgetHandler
	MapHandler    *handler.MapHandler
	EventHandler  *handler.EventHandler
	Config        *config.Config
}

// router holds all the handlers that need to be registered.
type router struct {
	widgetHandler *handler.WidgetHandler
	mapHandler    *handler.MapHandler
	eventHandler  *handler.EventHandler
	config        *config.Config
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		widgetHandler: params.WidgetHandler,
		mapHandler:    params.MapHandler,
		eventHandler:  params.EventHandler,
		config:        params.Config,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	// Host page attributes and browser clicks
	widgetGroup := e.Group("/widget")
	{
		widgetGroup.PUT("/attributes/regions", r.widgetHandler.SetRegions)
		widgetGroup.PUT("/attributes/selected-region-id", r.widgetHandler.SetSelectedRegionID)
		widgetGroup.DELETE("/attributes/selected-region-id", r.widgetHandler.ClearSelectedRegionID)
		widgetGroup.POST("/clicks", r.widgetHandler.Click)
		widgetGroup.GET("/state", r.widgetHandler.GetState)
		widgetGroup.GET("/scene", r.mapHandler.GetScene)
		widgetGroup.GET("/basemap", r.mapHandler.GetBasemap)
		widgetGroup.GET("/events", r.eventHandler.Stream)
	}

	e.GET(TilePath(r.config)+"/:z/:x/:y", r.mapHandler.GetTile)
}

// TilePath is where local basemap tiles are published
func TilePath(cfg *config.Config) string {
	if cfg.Basemap != nil && cfg.Basemap.PMTiles != nil && cfg.Basemap.PMTiles.PublicPath != "" {
		return "/" + strings.Trim(cfg.Basemap.PMTiles.PublicPath, "/")
	}

	return defaultTilePath
}
