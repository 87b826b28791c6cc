package socket

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/market-front/domain"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
	sendBuffer     = 64
)

var connectedClients = prometheus.NewGauge(prometheus.GaugeOpts{
	Name: "market_front_ws_clients",
	Help: "Number of connected websocket clients",
})

func init() {
	prometheus.MustRegister(connectedClients)
}

// Hub pushes store events to the websocket connections of the session that
// produced them. A session may have several connections (browser tabs).
type Hub struct {
	mu       sync.RWMutex
	clients  map[string]map[*client]struct{}
	upgrader websocket.Upgrader
}

var _ domain.Publisher = (*Hub)(nil)

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Serve upgrades the request and attaches the connection to sessionID.
// It returns once the pumps are started.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, sessionID string) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &client{
		hub:       h,
		conn:      conn,
		sessionID: sessionID,
		send:      make(chan []byte, sendBuffer),
	}
	h.register(c)

	go c.writePump()
	go c.readPump()
	return nil
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.sessionID]
	if !ok {
		set = make(map[*client]struct{})
		h.clients[c.sessionID] = set
	}
	set[c] = struct{}{}
	connectedClients.Inc()
}

// unregister closes c.send at most once; sends happen under the read lock so
// they never race with the close.
func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.sessionID]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	close(c.send)
	connectedClients.Dec()
	if len(set) == 0 {
		delete(h.clients, c.sessionID)
	}
}

// Publish sends each event to the connections of its session. A connection
// whose buffer is full is dropped.
func (h *Hub) Publish(events []domain.StoreEvent) {
	var slow []*client

	h.mu.RLock()
	for _, e := range events {
		set, ok := h.clients[e.SessionID]
		if !ok {
			continue
		}
		msg, err := json.Marshal(e)
		if err != nil {
			logrus.Errorf("marshal store event: %v", err)
			continue
		}
		for c := range set {
			select {
			case c.send <- msg:
			default:
				slow = append(slow, c)
			}
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		logrus.Warnf("websocket client of session %s is too slow, dropping it", c.sessionID)
		h.unregister(c)
	}
}

// CloseSession disconnects every connection of sessionID.
func (h *Hub) CloseSession(sessionID string) {
	h.mu.RLock()
	victims := make([]*client, 0, len(h.clients[sessionID]))
	for c := range h.clients[sessionID] {
		victims = append(victims, c)
	}
	h.mu.RUnlock()

	for _, c := range victims {
		h.unregister(c)
	}
}

// Close disconnects every connection.
func (h *Hub) Close() {
	h.mu.RLock()
	sessions := make([]string, 0, len(h.clients))
	for id := range h.clients {
		sessions = append(sessions, id)
	}
	h.mu.RUnlock()

	for _, id := range sessions {
		h.CloseSession(id)
	}
}

func (h *Hub) ClientCount(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[sessionID])
}
