package handler

import (
	"io"
	"log/slog"
	"net/http"

	"regionmap/internal/delivery/api/response"
	deliverycontext "regionmap/internal/delivery/context"
	"regionmap/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// WidgetHandlerParams holds dependencies for WidgetHandler, injected by Fx.
type WidgetHandlerParams struct {
	fx.In

	WidgetUC usecase.WidgetUsecase
	Logger   *slog.Logger
}

// WidgetHandler turns host attribute changes and browser clicks into widget operations
type WidgetHandler struct {
	widgetUC usecase.WidgetUsecase
	logger   *slog.Logger
}

// NewWidgetHandler is the constructor for WidgetHandler
func NewWidgetHandler(params WidgetHandlerParams) *WidgetHandler {
	return &WidgetHandler{
		widgetUC: params.WidgetUC,
		logger:   params.Logger,
	}
}

// SetSelectedRegionIDRequest is the body of a selected region id attribute change.
// An empty value clears the selection.
type SetSelectedRegionIDRequest struct {
	Value *string `json:"value" validate:"required"`
}

// ClickRequest is a click on a rendered feature
type ClickRequest struct {
	FeatureID string `json:"featureId" validate:"required"`
}

// SetRegions replaces the regions attribute with the raw JSON array in the body
func (h *WidgetHandler) SetRegions(c echo.Context) error {
	payload, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Regions payload could not be read")
	}

	update, err := h.widgetUC.SetRegions(c.Request().Context(), payload)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, update)
}

// SetSelectedRegionID changes the selected region id attribute
func (h *WidgetHandler) SetSelectedRegionID(c echo.Context) error {
	var req SetSelectedRegionIDRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid selected region id input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	result, err := h.widgetUC.SetSelectedRegionID(c.Request().Context(), *req.Value)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, result)
}

// ClearSelectedRegionID removes the selected region id attribute
func (h *WidgetHandler) ClearSelectedRegionID(c echo.Context) error {
	result, err := h.widgetUC.SetSelectedRegionID(c.Request().Context(), "")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, result)
}

// Click delivers a click on a rendered feature
func (h *WidgetHandler) Click(c echo.Context) error {
	var req ClickRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid click input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	ctx := c.Request().Context()
	result, err := h.widgetUC.Click(ctx, req.FeatureID)
	if err != nil {
		deliverycontext.Logger(ctx, h.logger).Debug("Click rejected",
			slog.String("feature_id", req.FeatureID),
			slog.Any("error", err),
		)

		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, result)
}

// GetState returns the current widget state
func (h *WidgetHandler) GetState(c echo.Context) error {
	return response.Success(c, http.StatusOK, h.widgetUC.State(c.Request().Context()))
}
