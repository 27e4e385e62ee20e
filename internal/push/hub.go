package push

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 64 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true }, // Allow all origins (configure in prod)
}

// connection represents a single WebSocket client
type connection struct {
	userID   int64
	conn     *websocket.Conn
	send     chan []byte
	families map[int64]bool // subscribed family IDs
}

// Hub delivers expiry events to clients connected to this process. Clients
// subscribe to the families they belong to; membership is checked by the
// HTTP layer before the socket is handed over.
type Hub struct {
	mu          sync.RWMutex
	connections map[int64]*connection // userID -> connection
}

func NewHub() *Hub {
	return &Hub{
		connections: make(map[int64]*connection),
	}
}

func (h *Hub) register(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.connections[c.userID] = c
}

func (h *Hub) unregister(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if existing, ok := h.connections[c.userID]; ok && existing == c {
		delete(h.connections, c.userID)
		close(c.send)
	}
}

// Dispatch broadcasts a family's expiry batch to every connected member
// subscribed to that family. Implements Dispatcher.
func (h *Hub) Dispatch(_ context.Context, familyID int64, eventType string, items []ExpiringItemNotification) error {
	event := Event{
		Type:     eventType,
		FamilyID: familyID,
		Items:    items,
		SentAt:   time.Now().UTC(),
	}
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.connections {
		if c.families[familyID] {
			select {
			case c.send <- data:
			default:
				// Client too slow — skip
			}
		}
	}
	return nil
}

// ServeWS registers a new connection and starts read/write loops. It
// blocks until the client disconnects.
func (h *Hub) ServeWS(conn *websocket.Conn, userID int64, familyIDs []int64) {
	c := &connection{
		userID:   userID,
		conn:     conn,
		send:     make(chan []byte, 256),
		families: make(map[int64]bool),
	}
	for _, id := range familyIDs {
		c.families[id] = true
	}

	h.register(c)

	go h.writePump(c)
	h.readPump(c)
}

// Upgrade turns an HTTP request into a WebSocket connection.
func Upgrade(w http.ResponseWriter, r *http.Request) (*websocket.Conn, error) {
	return upgrader.Upgrade(w, r, nil)
}

func (h *Hub) readPump(c *connection) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMsgSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			break
		}

		var event struct {
			Type     string `json:"type"`
			FamilyID string `json:"family_id"`
		}
		if err := json.Unmarshal(msg, &event); err != nil {
			continue
		}
		familyID, err := strconv.ParseInt(event.FamilyID, 10, 64)
		if err != nil {
			continue
		}

		switch event.Type {
		case "subscribe":
			h.mu.Lock()
			c.families[familyID] = true
			h.mu.Unlock()
		case "unsubscribe":
			h.mu.Lock()
			delete(c.families, familyID)
			h.mu.Unlock()
		}
	}
}

func (h *Hub) writePump(c *connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
