package server

import (
	"context"
	"net/http"
	"sync"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"go.uber.org/zap"
)

// sendBuffer is how many events a client may lag behind before events
// for it are dropped.
const sendBuffer = 64

// Message is one event pushed to a preview client.
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type client struct {
	send chan Message
}

// Hub fans events out to every connected preview websocket. It implements
// service.EventEmitter.
type Hub struct {
	log *zap.Logger

	// snapshot, when set, produces the messages a client receives right
	// after connecting.
	snapshot func() []Message

	mu      sync.Mutex
	clients map[*client]struct{}
	done    chan struct{}
	closed  bool
}

// NewHub creates an empty hub.
func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		log:     log.Named("hub"),
		clients: map[*client]struct{}{},
		done:    make(chan struct{}),
	}
}

// Emit queues the event for every client. A client whose buffer is full
// misses the event rather than stalling the emitter.
func (h *Hub) Emit(_ context.Context, event string, data any) {
	msg := Message{Type: event, Data: data}
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			h.log.Warn("client lagging, event dropped", zap.String("event", event))
		}
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	close(h.done)
}

func (h *Hub) register() (*client, bool) {
	c := &client{send: make(chan Message, sendBuffer)}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, false
	}
	h.clients[c] = struct{}{}
	return c, true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
}

// ServeHTTP upgrades to a websocket and pushes events until the client
// goes away or the hub is closed. Incoming messages are discarded.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		h.log.Warn("websocket accept", zap.Error(err))
		return
	}
	defer conn.CloseNow()

	c, ok := h.register()
	if !ok {
		conn.Close(websocket.StatusGoingAway, "server shutting down")
		return
	}
	defer h.unregister(c)
	h.log.Debug("client connected", zap.String("remote", r.RemoteAddr))

	ctx := conn.CloseRead(r.Context())
	if h.snapshot != nil {
		for _, msg := range h.snapshot() {
			if err := wsjson.Write(ctx, conn, msg); err != nil {
				return
			}
		}
	}

	for {
		select {
		case <-ctx.Done():
			h.log.Debug("client disconnected", zap.String("remote", r.RemoteAddr))
			return
		case <-h.done:
			conn.Close(websocket.StatusGoingAway, "server shutting down")
			return
		case msg := <-c.send:
			if err := wsjson.Write(ctx, conn, msg); err != nil {
				h.log.Debug("websocket write", zap.Error(err))
				return
			}
		}
	}
}
