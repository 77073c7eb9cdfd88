// Package hooks dispatches conversation and gateway lifecycle events to
// registered handlers.
package hooks

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/soyeahso/moodai/internal/logging"
)

// Event names for the hook system.
const (
	EventMessageReceived = "message_received"
	EventReplyGenerated  = "reply_generated"
	EventFallbackUsed    = "fallback_used"
	EventHistoryCleared  = "history_cleared"
	EventGatewayStart    = "gateway_start"
	EventGatewayStop     = "gateway_stop"
)

// AllEvents lists all known hook event names.
var AllEvents = []string{
	EventMessageReceived,
	EventReplyGenerated,
	EventFallbackUsed,
	EventHistoryCleared,
	EventGatewayStart,
	EventGatewayStop,
}

// Payload carries event data to hook handlers.
type Payload struct {
	Event string         `json:"event"`
	Time  time.Time      `json:"time"`
	Data  map[string]any `json:"data,omitempty"`
}

// Handler handles one event. A returned error is logged and does not stop
// other handlers.
type Handler func(ctx context.Context, p Payload) error

type namedHandler struct {
	name    string
	handler Handler
}

// Manager holds handler registrations per event. Conversation events are
// delivered with Dispatch so a slow handler never delays a reply; lifecycle
// events use Emit.
type Manager struct {
	mu       sync.RWMutex
	handlers map[string][]namedHandler
	inflight sync.WaitGroup
	now      func() time.Time
	log      *logging.Logger
}

// NewManager creates a hook manager.
func NewManager(log *logging.Logger) *Manager {
	return &Manager{
		handlers: make(map[string][]namedHandler),
		now:      time.Now,
		log:      log.Sub("hooks"),
	}
}

// On registers a handler for event under name. Registering for an event
// nothing emits is allowed but logged.
func (m *Manager) On(event, name string, handler Handler) {
	if !slices.Contains(AllEvents, event) {
		m.log.Warn().Str("event", event).Str("handler", name).Msg("hook registered for unknown event")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[event] = append(m.handlers[event], namedHandler{name: name, handler: handler})
	m.log.Debug().Str("event", event).Str("handler", name).Msg("hook registered")
}

func (m *Manager) snapshot(event string) []namedHandler {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.handlers[event])
}

func (m *Manager) run(ctx context.Context, h namedHandler, p Payload) {
	if err := h.handler(ctx, p); err != nil {
		m.log.Warn().
			Err(err).
			Str("event", p.Event).
			Str("handler", h.name).
			Msg("hook handler error")
	}
}

// Emit calls every handler for event in registration order and returns when
// they have all finished.
func (m *Manager) Emit(ctx context.Context, event string, data map[string]any) {
	handlers := m.snapshot(event)
	if len(handlers) == 0 {
		return
	}

	p := Payload{Event: event, Time: m.now(), Data: data}
	for _, h := range handlers {
		m.run(ctx, h, p)
	}
}

// Dispatch runs the handlers for event in the background, in registration
// order. Handlers keep ctx's values but not its cancellation, so a finished
// request does not abort them. Wait blocks until they are done.
func (m *Manager) Dispatch(ctx context.Context, event string, data map[string]any) {
	handlers := m.snapshot(event)
	if len(handlers) == 0 {
		return
	}

	p := Payload{Event: event, Time: m.now(), Data: data}
	ctx = context.WithoutCancel(ctx)

	m.inflight.Add(1)
	go func() {
		defer m.inflight.Done()
		for _, h := range handlers {
			m.run(ctx, h, p)
		}
	}()
}

// Wait blocks until every dispatched event has been handled or ctx ends.
func (m *Manager) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		m.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Count returns the number of handlers registered for an event.
func (m *Manager) Count(event string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.handlers[event])
}

// Events returns the sorted events that have at least one handler registered.
func (m *Manager) Events() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	events := make([]string, 0, len(m.handlers))
	for event, handlers := range m.handlers {
		if len(handlers) > 0 {
			events = append(events, event)
		}
	}
	slices.Sort(events)
	return events
}
