package hub

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/utils"
)

// Event types pushed to admin dashboards.
const (
	EventBookingCreated    = "booking_created"
	EventBookingUpdated    = "booking_updated"
	EventBookingDeleted    = "booking_deleted"
	EventContactCreated    = "contact_created"
	EventAssignmentUpdated = "assignment_updated"
	EventInvoiceUpdated    = "invoice_updated"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

const (
	defaultWriteWait = 10 * time.Second
	sendBuffer       = 32
)

type client struct {
	conn  *websocket.Conn
	admin string
	send  chan []byte
}

// Hub holds every connected dashboard socket. Each client has its own
// writer goroutine, so a dashboard that stops reading only loses its own
// events.
type Hub struct {
	clients   map[*websocket.Conn]*client
	mutex     sync.Mutex
	writeWait time.Duration
}

func New() *Hub {
	return &Hub{
		clients:   make(map[*websocket.Conn]*client),
		writeWait: defaultWriteWait,
	}
}

func (h *Hub) Register(conn *websocket.Conn, admin string) {
	c := &client{conn: conn, admin: admin, send: make(chan []byte, sendBuffer)}
	h.mutex.Lock()
	h.clients[conn] = c
	h.mutex.Unlock()

	go h.writePump(c)
}

func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.drop(conn)
}

// drop must be called with the mutex held.
func (h *Hub) drop(conn *websocket.Conn) {
	c, ok := h.clients[conn]
	if !ok {
		return
	}
	delete(h.clients, conn)
	close(c.send)
	conn.Close()
}

func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

// Broadcast queues the event for every client without blocking. Clients
// whose queue is full are dropped.
func (h *Hub) Broadcast(event string, data interface{}) {
	if h == nil {
		return
	}

	payload, err := json.Marshal(Message{Event: event, Data: data})
	if err != nil {
		utils.ErrorLogger.WithError(err).WithField("event", event).Error("marshal hub message")
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	for conn, c := range h.clients {
		select {
		case c.send <- payload:
		default:
			utils.ErrorLogger.WithFields(logrus.Fields{
				"event": event,
				"admin": c.admin,
			}).Warn("dropping slow dashboard client")
			h.drop(conn)
		}
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"event":   event,
		"clients": len(h.clients),
	}).Debug("hub broadcast")
}

func (h *Hub) writePump(c *client) {
	for payload := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(h.writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			utils.ErrorLogger.WithField("admin", c.admin).WithError(err).Warn("dropping dashboard client")
			h.Unregister(c.conn)
			return
		}
	}
}
