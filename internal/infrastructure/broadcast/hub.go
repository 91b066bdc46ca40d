// Package broadcast implements the fan-out channel that pushes task mutation
// events to every connected client session.
package broadcast

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/brainydx/task-tracker/internal/api/metrics"
	"github.com/brainydx/task-tracker/internal/core/ports"
)

const defaultBuffer = 16

// Bridge carries published events across server instances. When a bridge is
// attached, local fan-out happens on receipt from the bridge (the publisher's
// own subscribers are reached through the loopback delivery).
type Bridge interface {
	Publish(evt ports.Event) error
}

// Hub is the shared connection registry. Subscribe, Unsubscribe and Publish
// are safe to call concurrently; the registry is guarded by a RWMutex.
type Hub struct {
	mu     sync.RWMutex
	subs   map[string]chan ports.Event
	buffer int
	bridge Bridge
	log    zerolog.Logger
}

// NewHub creates a Hub whose subscriber channels buffer up to buffer events.
// Delivery is at most once per connected session, best effort: a subscriber
// whose buffer is full misses the event instead of blocking the publisher.
func NewHub(buffer int, log zerolog.Logger) *Hub {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &Hub{
		subs:   make(map[string]chan ports.Event),
		buffer: buffer,
		log:    log,
	}
}

// AttachBridge routes subsequent publishes through the given bridge.
func (h *Hub) AttachBridge(b Bridge) {
	h.mu.Lock()
	h.bridge = b
	h.mu.Unlock()
}

// Subscribe registers a new session and returns its id and receive channel.
// The channel is closed by Unsubscribe.
func (h *Hub) Subscribe() (string, <-chan ports.Event) {
	id := uuid.NewString()
	ch := make(chan ports.Event, h.buffer)

	h.mu.Lock()
	h.subs[id] = ch
	h.mu.Unlock()

	metrics.BroadcastSubscribers.Inc()
	h.log.Debug().Str("session_id", id).Msg("client subscribed")
	return id, ch
}

// Unsubscribe removes a session and closes its channel. Safe to call for an
// already-removed id.
func (h *Hub) Unsubscribe(id string) {
	h.mu.Lock()
	ch, ok := h.subs[id]
	if ok {
		delete(h.subs, id)
	}
	h.mu.Unlock()

	if ok {
		close(ch)
		metrics.BroadcastSubscribers.Dec()
		h.log.Debug().Str("session_id", id).Msg("client unsubscribed")
	}
}

// Publish delivers evt to all currently connected sessions, including the one
// whose action triggered it. With a bridge attached the event goes through the
// shared backbone first; if the bridge fails, delivery degrades to local-only
// so the triggering request is never failed.
func (h *Hub) Publish(evt ports.Event) {
	metrics.BroadcastEventsTotal.WithLabelValues(evt.Name).Inc()

	h.mu.RLock()
	bridge := h.bridge
	h.mu.RUnlock()

	if bridge != nil {
		err := bridge.Publish(evt)
		if err == nil {
			return
		}
		h.log.Warn().Err(err).Str("event", evt.Name).Msg("bridge publish failed, delivering locally")
	}
	h.fanout(evt)
}

// fanout performs the local delivery pass. Holding the read lock while sending
// is safe because sends are non-blocking and Unsubscribe takes the write lock.
func (h *Hub) fanout(evt ports.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, ch := range h.subs {
		select {
		case ch <- evt:
		default:
			metrics.BroadcastDroppedTotal.Inc()
			h.log.Warn().Str("session_id", id).Str("event", evt.Name).Msg("subscriber buffer full, event dropped")
		}
	}
}

// Subscribers reports the number of currently connected sessions.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
