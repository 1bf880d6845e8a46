// Package notify pushes trip events to connected WebSocket clients grouped
// into per-driver rooms.
package notify

import (
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Publisher is the fire-and-forget boundary the trip ledger emits on.
// Delivery is best-effort: failures are logged, never surfaced.
type Publisher interface {
	Publish(channel, event string, payload interface{})
}

// DriverChannel returns the room name a driver's clients subscribe to.
func DriverChannel(email string) string {
	return "user_" + email
}

// Event is the frame subscribers receive on their channel.
type Event struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
}

type message struct {
	channel string
	event   Event
}

// Hub manages active WebSocket connections per channel and fans events out
// through a buffered broadcast channel drained by a single goroutine, so
// writes to any one connection never race.
type Hub struct {
	mu        sync.Mutex
	channels  map[string]map[*websocket.Conn]bool
	broadcast chan message
}

// NewHub creates a Hub and starts its broadcasting goroutine.
func NewHub() *Hub {
	hub := &Hub{
		channels:  make(map[string]map[*websocket.Conn]bool),
		broadcast: make(chan message, 100),
	}
	go hub.run()
	return hub
}

func (h *Hub) run() {
	for msg := range h.broadcast {
		h.mu.Lock()
		clients := h.channels[msg.channel]
		var dead []*websocket.Conn
		for conn := range clients {
			if err := conn.WriteJSON(msg.event); err != nil {
				if websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
					logrus.WithFields(logrus.Fields{
						"channel":  msg.channel,
						"conn_ptr": fmt.Sprintf("%p", conn),
					}).Info("Client connection closed during broadcast, unregistering.")
				} else {
					logrus.WithError(err).WithField("channel", msg.channel).Warn("Failed to send event to client.")
				}
				dead = append(dead, conn)
			}
		}
		for _, conn := range dead {
			h.removeLocked(msg.channel, conn)
		}
		h.mu.Unlock()
	}
}

// Register adds a client connection to a channel.
func (h *Hub) Register(channel string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.channels[channel]; !ok {
		h.channels[channel] = make(map[*websocket.Conn]bool)
	}
	h.channels[channel][conn] = true
	logrus.WithFields(logrus.Fields{
		"channel":  channel,
		"conn_ptr": fmt.Sprintf("%p", conn),
	}).Info("Client registered with notification hub.")
}

// Unregister removes a client connection from a channel.
func (h *Hub) Unregister(channel string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(channel, conn)
	logrus.WithFields(logrus.Fields{
		"channel":  channel,
		"conn_ptr": fmt.Sprintf("%p", conn),
	}).Info("Client unregistered from notification hub.")
}

func (h *Hub) removeLocked(channel string, conn *websocket.Conn) {
	if clients, ok := h.channels[channel]; ok {
		delete(clients, conn)
		if len(clients) == 0 {
			delete(h.channels, channel)
		}
	}
}

// Publish queues an event for every client on the channel. Best-effort: a
// full broadcast buffer drops the event with a warning.
func (h *Hub) Publish(channel, event string, payload interface{}) {
	select {
	case h.broadcast <- message{channel: channel, event: Event{Event: event, Payload: payload}}:
	default:
		logrus.WithFields(logrus.Fields{
			"channel": channel,
			"event":   event,
		}).Warn("Broadcast channel full, dropping event.")
	}
}

func (h *Hub) subscribers(channel string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.channels[channel])
}
