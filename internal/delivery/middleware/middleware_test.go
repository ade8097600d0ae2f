package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"regionmap/config"
	deliverycontext "regionmap/internal/delivery/context"
	domainerrors "regionmap/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext(method, target string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()

	return e.NewContext(req, rec), rec
}

func TestRequestIDMiddleware_KeepsClientID(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/widget/state")
	c.Request().Header.Set(deliverycontext.HeaderXRequestID, "req-123")

	mw := NewRequestIDMiddleware(slog.New(slog.DiscardHandler))
	var seenCtxID string
	err := mw.Process(func(c echo.Context) error {
		seenCtxID = deliverycontext.RequestID(c.Request().Context())
		assert.NotNil(t, deliverycontext.Logger(c.Request().Context(), nil))

		return nil
	})(c)

	require.NoError(t, err)
	assert.Equal(t, "req-123", seenCtxID)
	assert.Equal(t, "req-123", deliverycontext.EchoRequestID(c))
	assert.Equal(t, "req-123", rec.Header().Get(deliverycontext.HeaderXRequestID))
}

func TestRequestIDMiddleware_ReplacesUnacceptableID(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{name: "missing", header: ""},
		{name: "too long", header: strings.Repeat("a", maxRequestIDLength+1)},
		{name: "control characters", header: "abc\tdef"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newContext(http.MethodGet, "/")
			if tt.header != "" {
				c.Request().Header.Set(deliverycontext.HeaderXRequestID, tt.header)
			}

			err := NewRequestIDMiddleware(slog.New(slog.DiscardHandler)).Process(func(echo.Context) error { return nil })(c)
			require.NoError(t, err)

			got := rec.Header().Get(deliverycontext.HeaderXRequestID)
			assert.NotEmpty(t, got)
			assert.NotEqual(t, tt.header, got)
		})
	}
}

func TestLoggerMiddleware_LevelsAndQuietPaths(t *testing.T) {
	cfg := &config.Config{}

	tests := []struct {
		name    string
		path    string
		handler echo.HandlerFunc
		want    string
	}{
		{
			name:    "success is info",
			path:    "/widget/state",
			handler: func(c echo.Context) error { return c.NoContent(http.StatusOK) },
			want:    "level=INFO",
		},
		{
			name:    "app error uses its status",
			path:    "/widget/clicks",
			handler: func(echo.Context) error { return domainerrors.ErrRegionNotFound },
			want:    "status=404",
		},
		{
			name:    "unknown error is a server error",
			path:    "/widget/clicks",
			handler: func(echo.Context) error { return assert.AnError },
			want:    "level=ERROR",
		},
		{
			name:    "health check is quiet",
			path:    "/health",
			handler: func(c echo.Context) error { return c.NoContent(http.StatusOK) },
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, nil))
			c, _ := newContext(http.MethodGet, tt.path)

			_ = NewLoggerMiddleware(logger, cfg).Handle(tt.handler)(c)

			if tt.want == "" {
				assert.Empty(t, buf.String())

				return
			}
			assert.Contains(t, buf.String(), tt.want)
		})
	}
}

func TestLoggerMiddleware_DebugLogsQuietPaths(t *testing.T) {
	cfg := &config.Config{}
	cfg.Env.Debug = true

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	c, _ := newContext(http.MethodGet, "/metrics?name=x")

	err := NewLoggerMiddleware(logger, cfg).Handle(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(c)

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "uri=/metrics")
	assert.Contains(t, buf.String(), "name=x")
}
