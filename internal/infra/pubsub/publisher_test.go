package pubsub

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"regionmap/config"
	"regionmap/internal/domain/entity"
	mockservice "regionmap/internal/mocks/service"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleEvent() *entity.RegionSelectedEvent {
	return &entity.RegionSelectedEvent{
		EventID:    "evt-1",
		RequestID:  "req-1",
		RegionID:   "351",
		Title:      "Bern",
		SelectedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestLocalHTTPPublisher_PostsPushEnvelope(t *testing.T) {
	var received PubSubPushMessage
	var requestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID = r.Header.Get("X-Request-Id")
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	publisher := NewLocalHTTPPublisher(srv.URL, discardLogger())
	require.NoError(t, publisher.PublishRegionSelected(context.Background(), sampleEvent()))

	assert.Equal(t, "req-1", requestID)
	assert.Equal(t, localSubscription, received.Subscription)
	assert.Equal(t, "evt-1", received.Message.MessageID)
	assert.Equal(t, "351", received.Message.Attributes["region_id"])
	assert.Equal(t, "req-1", received.Message.Attributes["request_id"])

	data, err := base64.StdEncoding.DecodeString(received.Message.Data)
	require.NoError(t, err)

	var event entity.RegionSelectedEvent
	require.NoError(t, json.Unmarshal(data, &event))
	assert.Equal(t, *sampleEvent(), event)
}

func TestLocalHTTPPublisher_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	publisher := NewLocalHTTPPublisher(srv.URL, discardLogger())
	err := publisher.PublishRegionSelected(context.Background(), sampleEvent())

	assert.ErrorContains(t, err, "non-success status: 500")
}

func TestFanoutPublisher_BroadcastsThenForwards(t *testing.T) {
	ctx := context.Background()
	event := sampleEvent()

	hub := NewHub(1)
	ch, cancel := hub.Subscribe()
	defer cancel()

	transport := mockservice.NewMockEventPublisher(t)
	transport.EXPECT().PublishRegionSelected(ctx, event).Return(errors.New("unavailable")).Once()
	transport.EXPECT().Close().Return(nil).Once()

	publisher := newFanoutPublisher(hub, transport, discardLogger())

	err := publisher.PublishRegionSelected(ctx, event)
	assert.ErrorContains(t, err, "unavailable")
	assert.Same(t, event, <-ch, "hub subscribers see the event even when the transport fails")

	assert.NoError(t, publisher.Close())
}

func TestNewTransport(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		cfg     *config.PubSubConfig
		wantErr string
		want    any
	}{
		{name: "not configured", cfg: nil, want: &noopPublisher{}},
		{name: "empty provider", cfg: &config.PubSubConfig{}, want: &noopPublisher{}},
		{name: "local", cfg: &config.PubSubConfig{Provider: "local", LocalEndpoint: "http://localhost:8081/push"}, want: &localHTTPPublisher{}},
		{name: "local without endpoint", cfg: &config.PubSubConfig{Provider: "local"}, wantErr: "local endpoint is required"},
		{name: "google without project", cfg: &config.PubSubConfig{Provider: "google", TopicID: "t"}, wantErr: "project ID is required"},
		{name: "google without topic", cfg: &config.PubSubConfig{Provider: "google", ProjectID: "p"}, wantErr: "topic ID is required"},
		{name: "unknown", cfg: &config.PubSubConfig{Provider: "kafka"}, wantErr: "unknown pubsub provider: kafka"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			publisher, err := newTransport(ctx, tt.cfg, discardLogger())
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.IsType(t, tt.want, publisher)
		})
	}
}
