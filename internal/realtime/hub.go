package realtime

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

const clientBuffer = 16

// Hub fans events out to the open streams of this instance, keyed by user id.
// With a broker configured it is fed by Bus.Subscribe; without one it is used
// as the publisher directly.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[chan Event]struct{}
	logger  *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[string]map[chan Event]struct{}),
		logger:  logger.With(zap.String("component", "realtime_hub")),
	}
}

// Subscribe registers a stream for userID. The returned cancel func removes
// it and closes the channel; it is safe to call more than once.
func (h *Hub) Subscribe(userID string) (<-chan Event, func()) {
	ch := make(chan Event, clientBuffer)

	h.mu.Lock()
	userClients, ok := h.clients[userID]
	if !ok {
		userClients = make(map[chan Event]struct{})
		h.clients[userID] = userClients
	}
	userClients[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()

			if _, ok := h.clients[userID][ch]; !ok {
				return // already closed by Close
			}
			delete(h.clients[userID], ch)
			if len(h.clients[userID]) == 0 {
				delete(h.clients, userID)
			}
			close(ch)
		})
	}
	return ch, cancel
}

// Dispatch delivers ev to every stream of ev.UserID. Slow streams drop events
// instead of blocking the caller.
func (h *Hub) Dispatch(ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.clients[ev.UserID] {
		select {
		case ch <- ev:
		default:
			h.logger.Warn("dropping event, stream buffer full",
				zap.String("user_id", ev.UserID),
				zap.String("type", string(ev.Type)),
			)
		}
	}
}

// Publish dispatches ev in process.
func (h *Hub) Publish(_ context.Context, ev Event) error {
	h.Dispatch(ev)
	return nil
}

// Close ends every open stream. Later subscriptions still work.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for userID, userClients := range h.clients {
		for ch := range userClients {
			close(ch)
		}
		delete(h.clients, userID)
	}
}

// Subscribers reports how many streams userID has open.
func (h *Hub) Subscribers(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}
