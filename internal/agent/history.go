package agent

import (
	"context"
	"sync"

	"github.com/soyeahso/moodai/internal/domain"
)

// DefaultMaxHistory is the default window cap, in messages.
const DefaultMaxHistory = 10

// History is a bounded per-identity conversation window. Every method is a
// no-op (or returns an empty result) for the anonymous identity.
type History interface {
	// Append stores one exchange atomically, evicting the oldest pairs once
	// the window exceeds its cap.
	Append(ctx context.Context, id domain.Identity, user, assistant domain.Message) error

	// Recent returns up to n of the newest messages, oldest first.
	Recent(ctx context.Context, id domain.Identity, n int) ([]domain.Message, error)

	// Clear drops the identity's window. Clearing an unknown identity is not an error.
	Clear(ctx context.Context, id domain.Identity) error

	// Len returns the number of messages held for the identity.
	Len(ctx context.Context, id domain.Identity) (int, error)
}

// NormalizeMaxHistory returns a usable window cap: the default for
// non-positive values, otherwise n rounded down to an even number, at least 2.
func NormalizeMaxHistory(n int) int {
	if n <= 0 {
		return DefaultMaxHistory
	}
	n &^= 1
	if n < 2 {
		n = 2
	}
	return n
}

// MemoryHistory keeps windows in process memory. Operations on different
// identities only share the map lock for lookups.
type MemoryHistory struct {
	mu      sync.RWMutex
	windows map[domain.Identity]*window
	max     int
}

type window struct {
	mu      sync.Mutex
	msgs    []domain.Message
	removed bool
}

// NewMemoryHistory creates an in-memory History capped at limit messages.
func NewMemoryHistory(limit int) *MemoryHistory {
	return &MemoryHistory{
		windows: make(map[domain.Identity]*window),
		max:     NormalizeMaxHistory(limit),
	}
}

// Max returns the window cap.
func (h *MemoryHistory) Max() int { return h.max }

func (h *MemoryHistory) lookup(id domain.Identity) *window {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.windows[id]
}

func (h *MemoryHistory) lookupOrCreate(id domain.Identity) *window {
	if w := h.lookup(id); w != nil {
		return w
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	w, ok := h.windows[id]
	if !ok {
		w = &window{}
		h.windows[id] = w
	}
	return w
}

func (h *MemoryHistory) Append(_ context.Context, id domain.Identity, user, assistant domain.Message) error {
	if id.IsAnonymous() {
		return nil
	}
	for {
		w := h.lookupOrCreate(id)
		w.mu.Lock()
		if w.removed {
			// Cleared between lookup and lock; retry against a fresh window.
			w.mu.Unlock()
			continue
		}
		w.msgs = append(w.msgs, user, assistant)
		if over := len(w.msgs) - h.max; over > 0 {
			over += over % 2
			w.msgs = append([]domain.Message(nil), w.msgs[over:]...)
		}
		w.mu.Unlock()
		return nil
	}
}

func (h *MemoryHistory) Recent(_ context.Context, id domain.Identity, n int) ([]domain.Message, error) {
	if id.IsAnonymous() || n <= 0 {
		return []domain.Message{}, nil
	}
	w := h.lookup(id)
	if w == nil {
		return []domain.Message{}, nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	start := max(0, len(w.msgs)-n)
	out := make([]domain.Message, len(w.msgs)-start)
	copy(out, w.msgs[start:])
	return out, nil
}

func (h *MemoryHistory) Clear(_ context.Context, id domain.Identity) error {
	if id.IsAnonymous() {
		return nil
	}
	h.mu.Lock()
	w, ok := h.windows[id]
	delete(h.windows, id)
	h.mu.Unlock()
	if ok {
		w.mu.Lock()
		w.removed = true
		w.msgs = nil
		w.mu.Unlock()
	}
	return nil
}

func (h *MemoryHistory) Len(_ context.Context, id domain.Identity) (int, error) {
	w := h.lookup(id)
	if w == nil {
		return 0, nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.msgs), nil
}

// Identities returns the number of identities holding a window.
func (h *MemoryHistory) Identities() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.windows)
}
