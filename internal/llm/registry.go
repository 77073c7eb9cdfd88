package llm

import (
	"fmt"
	"slices"
	"sync"

	"github.com/soyeahso/moodai/internal/config"
	"github.com/soyeahso/moodai/internal/logging"
)

// Registry manages generation clients by name.
type Registry struct {
	mu       sync.RWMutex
	clients  map[string]Client
	fallback string
	log      *logging.Logger
}

// NewRegistry creates an empty provider registry.
func NewRegistry(log *logging.Logger) *Registry {
	return &Registry{
		clients: make(map[string]Client),
		log:     log.Sub("llm.registry"),
	}
}

// Register adds a client under the given name.
func (r *Registry) Register(name string, client Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[name] = client
	r.log.Info().Str("provider", name).Msg("registered LLM provider")
}

// SetFallback sets the provider used when a name does not resolve.
func (r *Registry) SetFallback(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = name
}

// Resolve returns the Client registered under name, or the fallback.
func (r *Registry) Resolve(name string) (Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if c, ok := r.clients[name]; ok {
		return c, nil
	}
	if r.fallback != "" {
		if c, ok := r.clients[r.fallback]; ok {
			return c, nil
		}
	}
	return nil, fmt.Errorf("no LLM provider %q", name)
}

// List returns all registered provider names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.clients))
	for n := range r.clients {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// NewProvider builds a single client. It returns nil when the provider is
// "none" or lacks a required API key.
func NewProvider(provider, apiKey, model, endpoint string) Client {
	switch provider {
	case "openai":
		if apiKey == "" {
			return nil
		}
		return NewOpenAIClient(apiKey, model, endpoint)
	case "claude":
		if apiKey == "" {
			return nil
		}
		return NewClaudeAPIClient(apiKey, model, endpoint)
	case "gemini":
		if apiKey == "" {
			return nil
		}
		return NewGeminiAPIClient(apiKey, model, endpoint)
	case "ollama":
		return NewOllamaAPIClient(endpoint, model)
	default:
		return nil
	}
}

// NewClientFromConfig builds the generation client described by cfg. With
// fallbacks configured the result is a FailoverClient over every usable
// provider. A nil Client means generation is not configured and every reply
// will come from the local fallback.
func NewClientFromConfig(cfg config.LLMConfig, log *logging.Logger) Client {
	log = log.Sub("llm")
	reg := NewRegistry(log)

	var order []string
	add := func(entry config.ProviderEntry) {
		c := NewProvider(entry.Provider, entry.APIKey, entry.Model, entry.Endpoint)
		if c == nil {
			if entry.Provider != "none" {
				log.Warn().Str("provider", entry.Provider).Msg("provider not configured, missing API key")
			}
			return
		}
		name := entry.Provider
		if slices.Contains(order, name) {
			name = fmt.Sprintf("%s#%d", entry.Provider, len(order))
		}
		reg.Register(name, c)
		order = append(order, name)
	}

	add(config.ProviderEntry{Provider: cfg.Provider, APIKey: cfg.APIKey, Model: cfg.Model, Endpoint: cfg.Endpoint})
	for _, fb := range cfg.Fallbacks {
		add(fb)
	}

	switch len(order) {
	case 0:
		log.Warn().Msg("no generation provider configured; replies will use local fallbacks")
		return nil
	case 1:
		c, _ := reg.Resolve(order[0])
		return c
	default:
		return NewFailoverClient(reg, order[0], order[1:], log)
	}
}
