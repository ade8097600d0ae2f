package api

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"regionmap/config"
	deliverycontext "regionmap/internal/delivery/context"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer() *widgetServer {
	cfg := &config.Config{}
	cfg.HTTP.MaxRequestBodySize = "1KB"

	return newWidgetServer(cfg, slog.New(slog.DiscardHandler))
}

func TestWidgetServer_Middleware(t *testing.T) {
	srv := newTestServer()

	var requestID string
	srv.echo.PUT("/widget/attributes/regions", func(c echo.Context) error {
		requestID = deliverycontext.RequestID(c.Request().Context())
		if _, err := io.ReadAll(c.Request().Body); err != nil {
			return err
		}

		return c.NoContent(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodPut, "/widget/attributes/regions", strings.NewReader("[]"))
	req.Header.Set(deliverycontext.HeaderXRequestID, "host-1")
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "host-1", requestID)
	assert.Equal(t, "host-1", rec.Header().Get(deliverycontext.HeaderXRequestID))

	req = httptest.NewRequest(http.MethodPut, "/widget/attributes/regions", strings.NewReader(strings.Repeat("x", 4096)))
	rec = httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(deliverycontext.HeaderXRequestID))
}

func TestWidgetServer_StopEndsOpenStreams(t *testing.T) {
	srv := newTestServer()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	srv.echo.Listener = listener

	ended := make(chan struct{})
	srv.echo.GET("/widget/events", func(c echo.Context) error {
		defer close(ended)
		c.Response().WriteHeader(http.StatusOK)
		c.Response().Flush()
		<-c.Request().Context().Done()

		return nil
	})

	served := make(chan error, 1)
	go func() { served <- srv.Serve(context.Background()) }()

	resp, err := http.Get("http://" + listener.Addr().String() + "/widget/events")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, srv.stop(context.Background()))

	select {
	case <-ended:
	case <-time.After(time.Second):
		t.Fatal("event stream still open after stop")
	}
	require.NoError(t, <-served)
}
