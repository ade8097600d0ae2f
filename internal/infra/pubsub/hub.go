package pubsub

import (
	"sync"

	"regionmap/internal/domain/entity"
)

const defaultSubscriberBuffer = 16

// Hub fans region selected events out to in-process subscribers such as
// server-sent event streams. A subscriber that does not keep up loses events;
// publishing never blocks.
type Hub struct {
	mu         sync.RWMutex
	bufferSize int
	nextID     uint64
	subs       map[uint64]chan *entity.RegionSelectedEvent
}

// NewHub creates a hub whose subscriber channels hold bufferSize events
func NewHub(bufferSize int) *Hub {
	if bufferSize <= 0 {
		bufferSize = defaultSubscriberBuffer
	}

	return &Hub{
		bufferSize: bufferSize,
		subs:       make(map[uint64]chan *entity.RegionSelectedEvent),
	}
}

// Subscribe registers a subscriber. The returned cancel function closes the channel
// and may be called more than once.
func (h *Hub) Subscribe() (<-chan *entity.RegionSelectedEvent, func()) {
	ch := make(chan *entity.RegionSelectedEvent, h.bufferSize)

	h.mu.Lock()
	h.nextID++
	id := h.nextID
	h.subs[id] = ch
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
			close(ch)
		})
	}

	return ch, cancel
}

// Broadcast delivers the event to every subscriber with room in its buffer.
// It returns the number of subscribers that dropped the event.
func (h *Hub) Broadcast(event *entity.RegionSelectedEvent) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	dropped := 0
	for _, ch := range h.subs {
		select {
		case ch <- event:
		default:
			dropped++
		}
	}

	return dropped
}

// Subscribers returns the number of active subscribers
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.subs)
}
