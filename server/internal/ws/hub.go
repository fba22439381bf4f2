package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/passmeter/passmeter/pkg/i18n"
	"github.com/passmeter/passmeter/pkg/types"
	"github.com/passmeter/passmeter/server/internal/metrics"
	"github.com/passmeter/passmeter/server/internal/service"
	"github.com/passmeter/passmeter/server/internal/session"
)

const (
	// writeTimeout is the deadline for a single write to a client.
	writeTimeout = 10 * time.Second

	// pongWait is how long to wait for a pong response before treating the
	// connection as dead.
	pongWait = 60 * time.Second

	// pingPeriod controls how often the server sends WebSocket ping frames.
	// Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// sendBufSize is the per-client outgoing message buffer depth.
	sendBufSize = 16

	// maxMessageSize bounds one client message.
	maxMessageSize = 8 << 10
)

// Server event names.
const (
	EventEvaluation = "evaluation"
	EventCelebrate  = "celebrate"
	EventGenerated  = "generated"
	EventVisibility = "visibility"
	EventError      = "error"
)

// Client message types.
const (
	TypeInput            = "input"
	TypeToggleVisibility = "toggle_visibility"
	TypeGenerate         = "generate"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Allow all origins; callers should apply CORS at the reverse-proxy level.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Message is the JSON envelope sent to clients.
type Message struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// ClientMessage is one message received from a client. A null or missing
// value is treated as an empty field.
type ClientMessage struct {
	Type   string  `json:"type"`
	Value  *string `json:"value,omitempty"`
	Length int     `json:"length,omitempty"`
}

// Celebration is the payload of a celebrate event.
type Celebration struct {
	Score int `json:"score"`
}

// Visibility is the payload of a visibility event.
type Visibility struct {
	Visible bool `json:"visible"`
}

// ErrorData is the payload of an error event.
type ErrorData struct {
	Error string `json:"error"`
}

// Hub manages WebSocket password fields.
type Hub struct {
	svc     *service.Service
	metrics *metrics.Metrics
	tick    time.Duration
	now     func() time.Time // injectable for deterministic tests

	mu      sync.RWMutex
	opts    session.Options
	clients map[*client]struct{}
}

// client represents one connected password field.
type client struct {
	conn *websocket.Conn
	send chan []byte
	ctrl *session.Controller
	tr   *i18n.Translator
}

// New creates a Hub. Fields start with opts; tick is how often expired
// reveals are checked.
func New(svc *service.Service, m *metrics.Metrics, opts session.Options, tick time.Duration) *Hub {
	return &Hub{
		svc:     svc,
		metrics: m,
		tick:    tick,
		now:     time.Now,
		opts:    opts,
		clients: make(map[*client]struct{}),
	}
}

// Run starts the reveal ticker loop. Run blocks until ctx is cancelled, then
// closes all active connections.
func (h *Hub) Run(ctx context.Context) {
	t := time.NewTicker(h.tick)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case <-t.C:
			h.maskExpired()
		}
	}
}

// ServeHTTP upgrades the HTTP connection to WebSocket and serves the field.
// Blocks until the connection closes.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// upgrader has already written the error response.
		return
	}

	h.mu.RLock()
	opts := h.opts
	h.mu.RUnlock()

	c := &client{
		conn: conn,
		send: make(chan []byte, sendBufSize),
		ctrl: session.NewController(opts),
		tr:   h.svc.Translator(r.URL.Query().Get("locale"), r.Header.Get("Accept-Language")),
	}
	h.register(c)
	defer h.unregister(c)

	// Empty field: show the generic tips right away.
	h.emit(c, EventEvaluation, h.svc.Render("", c.ctrl.Last(), c.tr))

	go c.writePump()
	h.readPump(c) // blocks until connection closes
}

// Count returns the number of currently connected fields.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// SetOptions changes the timings for connected and future fields.
func (h *Hub) SetOptions(opts session.Options) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.opts = opts
	for c := range h.clients {
		c.ctrl.SetOptions(opts)
	}
}

// --- internal ---------------------------------------------------------------

// handle processes one client message.
func (h *Hub) handle(c *client, msg ClientMessage) {
	now := h.now()
	switch msg.Type {
	case TypeInput:
		pw := ""
		if msg.Value != nil {
			pw = *msg.Value
		}
		res, celebrate := c.ctrl.Evaluate(pw, now)
		h.emit(c, EventEvaluation, h.svc.Render(pw, res, c.tr))
		if celebrate {
			h.svc.Celebrated()
			h.emit(c, EventCelebrate, Celebration{Score: res.Score})
		}

	case TypeToggleVisibility:
		c.ctrl.ToggleVisibility()
		h.emit(c, EventVisibility, Visibility{Visible: c.ctrl.Visible(now)})

	case TypeGenerate:
		pw, err := h.svc.Generate(msg.Length)
		if err != nil {
			h.emit(c, EventError, ErrorData{Error: err.Error()})
			return
		}
		res, celebrate := c.ctrl.Evaluate(pw, now)
		until := c.ctrl.Reveal(now).UTC()
		h.emit(c, EventGenerated, types.Generated{
			Password:    pw,
			Length:      len(pw),
			Evaluation:  h.svc.Render(pw, res, c.tr),
			RevealUntil: &until,
		})
		if celebrate {
			h.svc.Celebrated()
			h.emit(c, EventCelebrate, Celebration{Score: res.Score})
		}
		h.emit(c, EventVisibility, Visibility{Visible: c.ctrl.Visible(now)})

	default:
		h.emit(c, EventError, ErrorData{Error: "unknown message type " + msg.Type})
	}
}

// maskExpired tells every field whose reveal lapsed to mask itself again.
func (h *Hub) maskExpired() {
	now := h.now()
	h.mu.RLock()
	expired := make([]*client, 0)
	for c := range h.clients {
		if c.ctrl.RevealExpired(now) {
			expired = append(expired, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range expired {
		h.emit(c, EventVisibility, Visibility{Visible: false})
	}
}

// emit queues an event for c. A client whose buffer is full is dropped.
func (h *Hub) emit(c *client, event string, data any) {
	b, err := json.Marshal(Message{Event: event, Data: data})
	if err != nil {
		slog.Error("ws: encode event", "event", event, "err", err)
		return
	}

	full := false
	h.mu.RLock()
	if _, ok := h.clients[c]; ok {
		select {
		case c.send <- b:
		default:
			full = true
		}
	}
	h.mu.RUnlock()

	if full {
		slog.Warn("ws: client too slow, disconnecting")
		h.unregister(c)
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	h.metrics.WSConnections.Inc()
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
	if ok {
		h.metrics.WSConnections.Dec()
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	n := len(h.clients)
	for c := range h.clients {
		close(c.send)
		delete(h.clients, c)
	}
	h.mu.Unlock()
	h.metrics.WSConnections.Sub(float64(n))
}

// writePump drains the client's send channel and forwards messages to the
// WebSocket connection. It also sends periodic ping frames. Runs in its own
// goroutine per client.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				// Channel was closed (hub is shutting down or client removed).
				c.conn.WriteMessage(websocket.CloseMessage, []byte{}) //nolint:errcheck
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump reads client messages and dispatches them. Blocks until the
// connection closes.
func (h *Hub) readPump(c *client) {
	defer c.conn.Close()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			break
		}
		c.conn.SetReadDeadline(time.Now().Add(pongWait))

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			h.emit(c, EventError, ErrorData{Error: "invalid JSON message"})
			continue
		}
		h.handle(c, msg)
	}
}
