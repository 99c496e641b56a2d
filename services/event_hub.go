package services

import (
	"context"
	"sync"
	"time"

	"github.com/apex/log"
)

const EventIncidentResolved = "incident.resolved"

type Event struct {
	Type       string    `json:"type"`
	IncidentID string    `json:"incidentId,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

type Subscriber struct {
	send chan Event
}

func (s *Subscriber) Events() <-chan Event {
	return s.send
}

// EventHub fans out change notifications to connected dashboards.
type EventHub struct {
	clients    map[*Subscriber]bool
	broadcast  chan Event
	register   chan *Subscriber
	unregister chan *Subscriber
	done       chan struct{}
	mu         sync.RWMutex
	connected  int
}

func NewEventHub() *EventHub {
	return &EventHub{
		clients:    make(map[*Subscriber]bool),
		broadcast:  make(chan Event, 256),
		register:   make(chan *Subscriber),
		unregister: make(chan *Subscriber),
		done:       make(chan struct{}),
	}
}

// Run owns the client set until ctx is cancelled, then closes every subscriber.
func (h *EventHub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.connected = 0
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.connected = len(h.clients)
			h.mu.Unlock()
			log.WithField("clients", h.Connected()).Debug("event subscriber connected")

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.connected = len(h.clients)
			h.mu.Unlock()
			log.WithField("clients", h.Connected()).Debug("event subscriber disconnected")

		case event := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- event:
				default:
					// slow consumer
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.connected = len(h.clients)
			h.mu.Unlock()
		}
	}
}

// Subscribe registers a new subscriber. Its channel is closed on Unsubscribe or hub shutdown.
func (h *EventHub) Subscribe() *Subscriber {
	s := &Subscriber{send: make(chan Event, 16)}
	select {
	case h.register <- s:
	case <-h.done:
		close(s.send)
	}
	return s
}

func (h *EventHub) Unsubscribe(s *Subscriber) {
	select {
	case h.unregister <- s:
	case <-h.done:
	}
}

func (h *EventHub) Publish(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	select {
	case h.broadcast <- event:
	case <-h.done:
	default:
		log.WithField("type", event.Type).Warn("event hub backlog full, dropping event")
	}
}

func (h *EventHub) Connected() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.connected
}
