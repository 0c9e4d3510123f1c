// ============================================================================
// CoachLCD - Panel Script Interpreter
// ============================================================================
//
// Package:     broadcast
// Description: Websocket hub pushing surface frames to connected clients
// Author:      Mike Stoffels
// Created:     2025-12-14
// License:     MIT
// ============================================================================

// Package broadcast serves rendered surfaces to websocket clients. Every
// published frame goes to all connected clients; a client that connects
// later first receives the most recent frame.
package broadcast

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Coach97/SpaceEngineers-CoachLCD/pkg/core/logging"
)

// sendBuffer is the number of queued messages per client
const sendBuffer = 16

// WebSocket upgrader with permissive settings for local development
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// Options configures a Hub
type Options struct {
	WriteTimeout time.Duration
	PingInterval time.Duration
	Health       http.Handler // Served at /health when set
	Logger       *logging.Logger
}

// Hub tracks websocket clients and fans frames out to them
type Hub struct {
	opts   Options
	logger *logging.Logger

	mu      sync.RWMutex
	clients map[string]*client
	last    []byte
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() { close(c.done) })
}

// NewHub creates a hub
func NewHub(opts Options) *Hub {
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 10 * time.Second
	}
	if opts.PingInterval <= 0 {
		opts.PingInterval = 30 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = logging.New("broadcast")
	}

	return &Hub{
		opts:    opts,
		logger:  opts.Logger,
		clients: make(map[string]*client),
	}
}

// Handler returns the HTTP routes of the hub: /ws, /healthz and, when
// configured, /health
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/ws", h)
	if h.opts.Health != nil {
		mux.Handle("/health", h.opts.Health)
	}
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	return mux
}

// Publish sends frame to every client and keeps it for clients that
// connect later. Clients whose queue is full are dropped.
func (h *Hub) Publish(frame Frame) error {
	data, err := json.Marshal(frame)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.last = data
	for id, c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.logger.Warn("Dropping slow client", "client", id)
			delete(h.clients, id)
			c.close()
		}
	}
	return nil
}

// Clients returns the number of connected clients
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects all clients
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, c := range h.clients {
		delete(h.clients, id)
		c.close()
	}
}

// ServeHTTP handles WebSocket upgrade and connections
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("WebSocket upgrade failed", "error", err)
		return
	}

	c := &client{
		id:   uuid.New().String(),
		conn: conn,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}
	h.register(c)

	go h.writeLoop(c)
	h.readLoop(c)
}

// register adds c and queues the most recent frame for it
func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[c.id] = c
	if h.last != nil {
		c.send <- h.last
	}
	h.logger.Info("WebSocket connection established", "client", c.id, "remote", c.conn.RemoteAddr().String())
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	delete(h.clients, c.id)
	h.mu.Unlock()
	c.close()
}

// readLoop answers client requests until the connection closes
func (h *Hub) readLoop(c *client) {
	defer h.unregister(c)

	readTimeout := 4 * h.opts.PingInterval
	c.conn.SetReadDeadline(time.Now().Add(readTimeout))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("WebSocket read error", "client", c.id, "error", err)
			} else {
				h.logger.Info("WebSocket connection closed", "client", c.id)
			}
			return
		}

		switch msg.Type {
		case TypePing:
			h.reply(c, Response{Type: TypePong})
		default:
			h.reply(c, Response{Type: TypeError, Payload: &ErrorDetail{
				Code:    "unknown_type",
				Message: "Unknown message type: " + msg.Type,
			}})
		}
	}
}

func (h *Hub) reply(c *client, resp Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		h.logger.Error("Failed to encode response", "error", err)
		return
	}
	select {
	case c.send <- data:
	case <-c.done:
	}
}

// writeLoop is the only writer of c.conn
func (h *Hub) writeLoop(c *client) {
	ticker := time.NewTicker(h.opts.PingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(h.opts.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				h.logger.Warn("WebSocket write failed", "client", c.id, "error", err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(h.opts.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(h.opts.WriteTimeout))
			c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
