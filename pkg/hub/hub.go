// Package hub provides the thread-safe observer registry using the idiomatic
// Go channel-based fan-out pattern. State updates are broadcast best-effort:
// a disconnecting or slow observer is dropped without affecting delivery to
// the rest.
package hub

import (
	"encoding/json"
	"sync"

	"github.com/smartsession/go-smartsession/internal/log"
)

// Hub maintains the set of subscribed observers and broadcasts state updates
// to them. The run loop owns the observer set; connect/disconnect events and
// broadcasts all funnel through its channels.
type Hub struct {
	// Name for logging
	name string

	// Subscribed observers
	observers map[*Observer]bool

	// Inbound updates to broadcast
	broadcast chan []byte

	// Register requests from observers
	register chan *Observer

	// Unregister requests from observers
	unregister chan *Observer

	// Mutex for observer count (read-only access from outside)
	mu sync.RWMutex
}

// New creates a new Hub.
func New(name string) *Hub {
	return &Hub{
		name:       name,
		observers:  make(map[*Observer]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Observer),
		unregister: make(chan *Observer),
	}
}

// Run starts the hub's main loop.
// This should be called in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case observer := <-h.register:
			h.mu.Lock()
			h.observers[observer] = true
			count := len(h.observers)
			h.mu.Unlock()
			log.Info("observer connected", "hub", h.name, "total", count)

		case observer := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.observers[observer]; ok {
				delete(h.observers, observer)
				close(observer.send)
			}
			count := len(h.observers)
			h.mu.Unlock()
			log.Info("observer disconnected", "hub", h.name, "remaining", count)

		case update := <-h.broadcast:
			h.mu.Lock()
			for observer := range h.observers {
				select {
				case observer.send <- update:
					// Update queued successfully
				default:
					// Observer's buffer is full - they're too slow.
					// Close and remove them; the rest are unaffected.
					close(observer.send)
					delete(h.observers, observer)
					log.Warn("dropped slow observer", "hub", h.name)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast queues pre-encoded bytes for delivery to all observers.
func (h *Hub) Broadcast(data []byte) {
	select {
	case h.broadcast <- data:
	default:
		// Broadcast channel full - drop the update. Intermediate states
		// are droppable by contract.
		log.Warn("broadcast channel full, dropping update", "hub", h.name)
	}
}

// BroadcastJSON encodes and broadcasts a state update.
func (h *Hub) BroadcastJSON(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	h.Broadcast(data)
	return nil
}

// ObserverCount returns the number of subscribed observers.
func (h *Hub) ObserverCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.observers)
}
