package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

// MessageType represents the type of WebSocket message
type MessageType string

const (
	MessageTypeSlotUpdated MessageType = "slot_updated"
)

// SlotUpdate represents a slot availability change
type SlotUpdate struct {
	SlotID    string `json:"slotId"`
	Available bool   `json:"available"`
	Booked    int    `json:"booked"`
}

// Message represents a WebSocket message
type Message struct {
	Type      MessageType  `json:"type"`
	FlightKey string       `json:"flightKey"`
	Date      string       `json:"date,omitempty"`
	Slots     []SlotUpdate `json:"slots,omitempty"`
	Timestamp int64        `json:"timestamp"`
}

// Client represents a WebSocket client connection watching one flight's slots
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	flightKey string
}

// Hub manages WebSocket connections per flight
type Hub struct {
	clients    map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan *Message
	mu         sync.RWMutex
}

var globalHub *Hub
var hubOnce sync.Once

// GetHub returns the global hub instance
func GetHub() *Hub {
	hubOnce.Do(func() {
		globalHub = NewHub()
		go globalHub.Run()
	})
	return globalHub
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Message, 256),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.flightKey] == nil {
				h.clients[client.flightKey] = make(map[*Client]bool)
			}
			h.clients[client.flightKey][client] = true
			log.Printf("WebSocket: Client registered for flight %s (total: %d)", client.flightKey, len(h.clients[client.flightKey]))
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.flightKey]; ok {
				if _, ok := clients[client]; ok {
					delete(clients, client)
					close(client.send)
					log.Printf("WebSocket: Client unregistered from flight %s (remaining: %d)", client.flightKey, len(clients))
					if len(clients) == 0 {
						delete(h.clients, client.flightKey)
					}
				}
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			data, err := json.Marshal(message)
			if err != nil {
				log.Printf("WebSocket: Failed to marshal message: %v", err)
				continue
			}

			h.mu.RLock()
			clients := h.clients[message.FlightKey]
			h.mu.RUnlock()

			for client := range clients {
				select {
				case client.send <- data:
				default:
					h.mu.Lock()
					delete(h.clients[message.FlightKey], client)
					close(client.send)
					h.mu.Unlock()
				}
			}
		}
	}
}

// BroadcastSlotUpdate broadcasts slot availability changes to all clients watching a flight
func (h *Hub) BroadcastSlotUpdate(flightKey, date string, updates []SlotUpdate) {
	h.broadcast <- &Message{
		Type:      MessageTypeSlotUpdated,
		FlightKey: flightKey,
		Date:      date,
		Slots:     updates,
		Timestamp: time.Now().UnixMilli(),
	}
}

// GetClientCount returns the number of clients watching a flight
func (h *Hub) GetClientCount(flightKey string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[flightKey])
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// HandleWebSocket upgrades the connection and subscribes it to a flight's slot updates.
// The flight is identified by the {airline} and {number} route variables.
func HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	flightKey := vars["airline"] + "/" + vars["number"]

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket: Upgrade failed: %v", err)
		return
	}

	client := &Client{
		hub:       GetHub(),
		conn:      conn,
		send:      make(chan []byte, 64),
		flightKey: flightKey,
	}
	client.hub.register <- client

	go client.writePump()
	go client.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		// Clients only listen; any read error ends the session.
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
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
