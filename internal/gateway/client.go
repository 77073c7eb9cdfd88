package gateway

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/soyeahso/moodai/internal/domain"
	"github.com/soyeahso/moodai/internal/logging"
)

const (
	// writeWait bounds a single frame write to a peer.
	writeWait = 10 * time.Second

	// outboxSize is how many events may wait for a slow connection before
	// it is dropped.
	outboxSize = 64
)

// errSlowConsumer is returned when a connection's event queue is full.
var errSlowConsumer = errors.New("client is not reading events")

// Client represents an authenticated WebSocket connection. Events are queued
// and written by the client's own writer goroutine.
type Client struct {
	ConnID      string
	Info        ClientInfo
	Identity    domain.Identity
	Socket      *websocket.Conn
	AuthResult  AuthResult
	ConnectedAt time.Time
	RemoteAddr  string

	mu     sync.Mutex // guards closed, seq and enqueueing
	wmu    sync.Mutex // serializes socket writes
	closed bool
	seq    int64
	outbox chan Frame
	done   chan struct{}
	log    *logging.Logger
}

// NewClient creates a Client for a newly authenticated WebSocket connection.
func NewClient(conn *websocket.Conn, params ConnectParams, authResult AuthResult, log *logging.Logger) *Client {
	c := &Client{
		ConnID:      uuid.New().String(),
		Info:        params.Client,
		Identity:    domain.ParseIdentity(params.User),
		Socket:      conn,
		AuthResult:  authResult,
		ConnectedAt: time.Now(),
		RemoteAddr:  conn.RemoteAddr().String(),
		outbox:      make(chan Frame, outboxSize),
		done:        make(chan struct{}),
		log:         log,
	}
	go c.writeLoop()
	return c
}

// rateKey identifies the connection to the chat rate limiter.
func (c *Client) rateKey() string {
	if c.Identity.IsAnonymous() {
		return "ip:" + hostOf(c.RemoteAddr)
	}
	return "id:" + string(c.Identity)
}

// Send writes a frame to the client and waits for the write to finish.
// A failed or timed out write closes the connection. Thread-safe.
func (c *Client) Send(frame Frame) error {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return ErrClientClosed
	}

	if err := c.write(frame); err != nil {
		c.Close()
		return err
	}
	return nil
}

// SendEvent queues a named event with payload and returns without waiting
// for the peer. Events on one connection carry increasing sequence numbers
// starting at 1. When the queue is full the connection is closed and
// errSlowConsumer is returned.
func (c *Client) SendEvent(event string, payload any) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClientClosed
	}

	f, err := NewEvent(event, payload, c.seq+1)
	if err != nil {
		c.mu.Unlock()
		return err
	}

	select {
	case c.outbox <- f:
		c.seq++
		c.mu.Unlock()
		return nil
	default:
		c.mu.Unlock()
	}

	c.log.Warn().Str("connId", c.ConnID).Str("event", event).Msg("event queue full, dropping connection")
	c.Close()
	return errSlowConsumer
}

// writeLoop drains the event queue until the client is closed.
func (c *Client) writeLoop() {
	for {
		select {
		case f := <-c.outbox:
			if err := c.write(f); err != nil {
				c.log.Debug().Err(err).Str("connId", c.ConnID).Msg("event write failed")
				c.Close()
				return
			}
		case <-c.done:
			return
		}
	}
}

func (c *Client) write(f Frame) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	if err := c.Socket.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.Socket.WriteJSON(f)
}

// Respond sends a success response for the given request ID.
func (c *Client) Respond(reqID string, payload any) error {
	f, err := NewResponse(reqID, payload)
	if err != nil {
		return err
	}
	return c.Send(f)
}

// RespondError sends an error response for the given request ID.
func (c *Client) RespondError(reqID string, errShape ErrorShape) error {
	return c.Send(NewErrorResponse(reqID, errShape))
}

// ReadFrame reads the next frame from the WebSocket.
func (c *Client) ReadFrame() (Frame, error) {
	_, msg, err := c.Socket.ReadMessage()
	if err != nil {
		return Frame{}, err
	}
	var f Frame
	if err := json.Unmarshal(msg, &f); err != nil {
		return Frame{}, err
	}
	return f, nil
}

// Close closes the WebSocket connection and stops the writer. The blocked
// read in the server's loop then fails and the client is deregistered.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	if c.done != nil {
		close(c.done)
	}
	c.mu.Unlock()
	return c.Socket.Close()
}

// ClientRegistry manages connected clients.
type ClientRegistry struct {
	mu      sync.RWMutex
	clients map[string]*Client // connID → Client
	log     *logging.Logger
	onCount func(int)
}

// NewClientRegistry creates an empty client registry.
func NewClientRegistry(log *logging.Logger) *ClientRegistry {
	return &ClientRegistry{
		clients: make(map[string]*Client),
		log:     log,
	}
}

// Add registers a connected client.
func (r *ClientRegistry) Add(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[c.ConnID] = c
	r.notify()
	r.log.Info().Str("connId", c.ConnID).Str("client", c.Info.ID).Str("identity", c.Identity.String()).Msg("client connected")
}

// Remove unregisters a client by connection ID. Removing an unknown ID is a
// no-op.
func (r *ClientRegistry) Remove(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.clients[connID]; !ok {
		return
	}
	delete(r.clients, connID)
	r.notify()
	r.log.Info().Str("connId", connID).Msg("client disconnected")
}

// Get returns a client by connection ID.
func (r *ClientRegistry) Get(connID string) (*Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.clients[connID]
	return c, ok
}

// Count returns the number of connected clients.
func (r *ClientRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

// NotifyIdentity sends an event to every connection chatting as id except
// the one with connID except. Anonymous connections are never notified.
// Returns the number of connections the event was queued for. A connection
// whose queue is full is closed and removed.
func (r *ClientRegistry) NotifyIdentity(id domain.Identity, except, event string, payload any) int {
	if id.IsAnonymous() {
		return 0
	}

	r.mu.RLock()
	var targets []*Client
	for _, c := range r.clients {
		if c.Identity == id && c.ConnID != except {
			targets = append(targets, c)
		}
	}
	r.mu.RUnlock()

	sent := 0
	for _, c := range targets {
		if err := c.SendEvent(event, payload); err != nil {
			if errors.Is(err, errSlowConsumer) {
				r.Remove(c.ConnID)
				continue
			}
			r.log.Debug().Err(err).Str("connId", c.ConnID).Str("event", event).Msg("event not delivered")
			continue
		}
		sent++
	}
	return sent
}

// CloseAll closes all connected clients.
func (r *ClientRegistry) CloseAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, c := range r.clients {
		c.Close()
		delete(r.clients, id)
	}
	r.notify()
}

// notify reports the client count. Callers hold r.mu.
func (r *ClientRegistry) notify() {
	if r.onCount != nil {
		r.onCount(len(r.clients))
	}
}
