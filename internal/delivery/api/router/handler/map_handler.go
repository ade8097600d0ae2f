package handler

import (
	"net/http"
	"strconv"
	"strings"

	"regionmap/internal/delivery/api/response"
	"regionmap/internal/domain/service"
	"regionmap/internal/infra/surface"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// SceneSource exposes what the browser client draws
type SceneSource interface {
	Snapshot() *surface.Snapshot
}

// MapHandlerParams holds dependencies for MapHandler, injected by Fx.
type MapHandlerParams struct {
	fx.In

	Scene   SceneSource
	Basemap service.Basemap
}

// MapHandler serves the rendered scene, the basemap description and local basemap tiles
type MapHandler struct {
	scene   SceneSource
	basemap service.Basemap
}

// NewMapHandler is the constructor for MapHandler
func NewMapHandler(params MapHandlerParams) *MapHandler {
	return &MapHandler{
		scene:   params.Scene,
		basemap: params.Basemap,
	}
}

// BasemapResponse describes the basemap the client draws under the scene
type BasemapResponse struct {
	TileURL     string       `json:"tileUrl"`
	InitialView service.View `json:"initialView"`
	Ready       bool         `json:"ready"`
}

// GetScene returns the visible groups in draw order and the current view
func (h *MapHandler) GetScene(c echo.Context) error {
	return response.Success(c, http.StatusOK, h.scene.Snapshot())
}

// GetBasemap returns the tile URL template and initial view
func (h *MapHandler) GetBasemap(c echo.Context) error {
	ready := false
	select {
	case <-h.basemap.Ready():
		ready = true
	default:
	}

	return response.Success(c, http.StatusOK, BasemapResponse{
		TileURL:     h.basemap.TileURL(),
		InitialView: h.basemap.InitialView(),
		Ready:       ready,
	})
}

// GetTile serves one basemap tile from the local archive
func (h *MapHandler) GetTile(c echo.Context) error {
	z, errZ := strconv.Atoi(c.Param("z"))
	x, errX := strconv.Atoi(c.Param("x"))
	// The y segment carries the tile extension
	yParam, _, _ := strings.Cut(c.Param("y"), ".")
	y, errY := strconv.Atoi(yParam)
	if errZ != nil || errX != nil || errY != nil || z < 0 || x < 0 || y < 0 {
		return response.BadRequest(c, "INVALID_TILE", "Tile coordinates must be non-negative integers")
	}

	tile, err := h.basemap.Tile(c.Request().Context(), z, x, y)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	contentType := "application/octet-stream"
	for name, value := range tile.Headers {
		if strings.EqualFold(name, echo.HeaderContentType) {
			contentType = value

			continue
		}
		c.Response().Header().Set(name, value)
	}

	return c.Blob(http.StatusOK, contentType, tile.Data)
}
