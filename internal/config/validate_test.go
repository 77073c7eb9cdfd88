package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func issuePaths(issues []ValidationIssue) []string {
	out := make([]string, 0, len(issues))
	for _, i := range issues {
		out = append(out, i.Path)
	}
	return out
}

func TestValidateDefaults(t *testing.T) {
	cfg := Defaults()
	assert.Empty(t, Validate(&cfg))
}

func TestValidateRejects(t *testing.T) {
	neg := -3.0
	tests := []struct {
		name   string
		mutate func(*Config)
		path   string
	}{
		{"port too low", func(c *Config) { c.Gateway.Port = -1 }, "gateway.port"},
		{"port too high", func(c *Config) { c.Gateway.Port = 70000 }, "gateway.port"},
		{"unknown bind", func(c *Config) { c.Gateway.Bind = "tailnet" }, "gateway.bind"},
		{"custom bind without host", func(c *Config) { c.Gateway.Bind = "custom" }, "gateway.customBindHost"},
		{"unknown auth mode", func(c *Config) { c.Gateway.Auth.Mode = "oauth" }, "gateway.auth.mode"},
		{"tls without cert", func(c *Config) { c.Gateway.TLS.Enabled = true }, "gateway.tls"},
		{"unknown provider", func(c *Config) { c.LLM.Provider = "copilot" }, "llm.provider"},
		{"negative max tokens", func(c *Config) { c.LLM.MaxTokens = -1 }, "llm.maxTokens"},
		{"temperature out of range", func(c *Config) { c.LLM.Temperature = &neg }, "llm.temperature"},
		{"penalty out of range", func(c *Config) { c.LLM.FrequencyPenalty = &neg }, "llm.frequencyPenalty"},
		{"empty fallback", func(c *Config) { c.LLM.Fallbacks = []ProviderEntry{{}} }, "llm.fallbacks[0].provider"},
		{"odd history cap", func(c *Config) { c.Conversation.MaxHistory = 9 }, "conversation.maxHistory"},
		{"negative context", func(c *Config) { c.Conversation.ContextMessages = -1 }, "conversation.contextMessages"},
		{"unknown history store", func(c *Config) { c.Conversation.HistoryStore = "disk" }, "conversation.historyStore"},
		{"redis without url", func(c *Config) { c.Conversation.HistoryStore = "redis" }, "conversation.redisUrl"},
		{"unknown store driver", func(c *Config) { c.Store.Driver = "postgres" }, "store.driver"},
		{"negative burst", func(c *Config) { c.RateLimit.Burst = -1 }, "rateLimit.burst"},
		{"unknown log level", func(c *Config) { c.Logging.Level = "verbose" }, "logging.level"},
		{"unknown console style", func(c *Config) { c.Logging.ConsoleStyle = "fancy" }, "logging.consoleStyle"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			assert.Contains(t, issuePaths(Validate(&cfg)), tt.path)
		})
	}
}

func TestValidateAccepts(t *testing.T) {
	for _, p := range []string{"openai", "claude", "gemini", "ollama", "none", ""} {
		cfg := Defaults()
		cfg.LLM.Provider = p
		assert.Empty(t, Validate(&cfg), "provider %q", p)
	}

	cfg := Defaults()
	cfg.Gateway.Bind = "custom"
	cfg.Gateway.CustomBindHost = "10.0.0.5"
	cfg.Conversation.HistoryStore = "redis"
	cfg.Conversation.RedisURL = "redis://localhost:6379"
	cfg.Store.Driver = "none"
	assert.Empty(t, Validate(&cfg))
}

func TestValidationIssueString(t *testing.T) {
	issue := ValidationIssue{Path: "llm.provider", Message: "bad"}
	assert.Equal(t, "llm.provider: bad", issue.String())
}
