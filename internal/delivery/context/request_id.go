package context

import (
	"context"
	"log/slog"

	"github.com/labstack/echo/v4"
)

// HeaderXRequestID correlates a host call with its logs and the selection events it raises
const HeaderXRequestID = "X-Request-Id"

type requestKey struct{}

// request is what an HTTP call threads down to the widget: clicks stamp the id on
// the region selected event, and every layer below logs through the tagged logger.
type request struct {
	id     string
	logger *slog.Logger
}

// WithRequest tags ctx with the request id and a logger carrying it
func WithRequest(ctx context.Context, requestID string, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, requestKey{}, request{
		id:     requestID,
		logger: logger.With(slog.String("request_id", requestID)),
	})
}

func requestFrom(ctx context.Context) (request, bool) {
	req, ok := ctx.Value(requestKey{}).(request)

	return req, ok
}

// RequestID returns the id of the call ctx belongs to, or "" outside an HTTP request
func RequestID(ctx context.Context) string {
	req, _ := requestFrom(ctx)

	return req.id
}

// EchoRequestID reads the request id the middleware stored on the echo request
func EchoRequestID(c echo.Context) string {
	return RequestID(c.Request().Context())
}

// Logger returns the request logger, or fallback when ctx carries none
func Logger(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if req, ok := requestFrom(ctx); ok && req.logger != nil {
		return req.logger
	}

	return fallback
}
