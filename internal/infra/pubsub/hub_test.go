package pubsub

import (
	"testing"

	"regionmap/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_BroadcastReachesSubscribers(t *testing.T) {
	hub := NewHub(2)

	first, cancelFirst := hub.Subscribe()
	defer cancelFirst()
	second, cancelSecond := hub.Subscribe()
	defer cancelSecond()

	event := &entity.RegionSelectedEvent{EventID: "e1", RegionID: "351"}
	assert.Equal(t, 0, hub.Broadcast(event))

	assert.Same(t, event, <-first)
	assert.Same(t, event, <-second)
}

func TestHub_SlowSubscriberDrops(t *testing.T) {
	hub := NewHub(1)

	ch, cancel := hub.Subscribe()
	defer cancel()

	assert.Equal(t, 0, hub.Broadcast(&entity.RegionSelectedEvent{EventID: "e1"}))
	assert.Equal(t, 1, hub.Broadcast(&entity.RegionSelectedEvent{EventID: "e2"}))

	got := <-ch
	assert.Equal(t, "e1", got.EventID)
}

func TestHub_CancelClosesAndUnregisters(t *testing.T) {
	hub := NewHub(0)

	ch, cancel := hub.Subscribe()
	require.Equal(t, 1, hub.Subscribers())

	cancel()
	cancel()

	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, hub.Subscribers())
	assert.Equal(t, 0, hub.Broadcast(&entity.RegionSelectedEvent{EventID: "e1"}))
}
