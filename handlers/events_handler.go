package handlers

import (
	"net/http"
	"time"

	"incident-dashboard/be/metrics"
	"incident-dashboard/be/services"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

type EventsHandler struct {
	hub      *services.EventHub
	upgrader websocket.Upgrader
}

// NewEventsHandler accepts websocket upgrades from allowedOrigins, or from any origin when
// the list is empty. Requests without an Origin header are always accepted.
func NewEventsHandler(hub *services.EventHub, allowedOrigins []string) *EventsHandler {
	origins := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = true
	}

	return &EventsHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" || len(origins) == 0 {
					return true
				}
				return origins[origin]
			},
		},
	}
}

// Stream upgrades the connection and forwards hub events as JSON until either side closes.
func (h *EventsHandler) Stream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.WithError(err).Warn("failed to upgrade events connection")
		return
	}

	sub := h.hub.Subscribe()
	metrics.EventSubscribers.Inc()
	log.WithField("client", c.ClientIP()).Info("events stream opened")

	closed := make(chan struct{})
	go readPump(conn, closed)

	writePump(conn, sub, closed)

	h.hub.Unsubscribe(sub)
	metrics.EventSubscribers.Dec()
	conn.Close()
	log.WithField("client", c.ClientIP()).Info("events stream closed")
}

// readPump discards client messages and signals when the peer goes away.
func readPump(conn *websocket.Conn, closed chan<- struct{}) {
	defer close(closed)

	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func writePump(conn *websocket.Conn, sub *services.Subscriber, closed <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-sub.Events():
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-closed:
			return
		}
	}
}
