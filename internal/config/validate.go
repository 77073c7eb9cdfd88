package config

import (
	"fmt"
	"slices"
)

// ValidationIssue describes a problem with a config value.
type ValidationIssue struct {
	Path    string
	Message string
}

func (v ValidationIssue) String() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

var (
	validBinds         = []string{"loopback", "lan", "custom"}
	validAuthModes     = []string{"token", "password", "none"}
	validProviders     = []string{"openai", "claude", "gemini", "ollama", "none"}
	validHistoryStores = []string{"memory", "redis"}
	validStoreDrivers  = []string{"sqlite", "none"}
	validLogLevels     = []string{"silent", "fatal", "error", "warn", "info", "debug", "trace"}
	validConsoleStyles = []string{"pretty", "compact", "json"}
)

// Validate checks a Config for issues. Returns nil if valid.
func Validate(cfg *Config) []ValidationIssue {
	var issues []ValidationIssue
	add := func(path, format string, args ...any) {
		issues = append(issues, ValidationIssue{Path: path, Message: fmt.Sprintf(format, args...)})
	}
	oneOf := func(path, value string, valid []string) {
		if value != "" && !slices.Contains(valid, value) {
			add(path, "must be one of %v, got %q", valid, value)
		}
	}

	// Gateway
	if cfg.Gateway.Port < 0 || cfg.Gateway.Port > 65535 {
		add("gateway.port", "port must be 0-65535, got %d", cfg.Gateway.Port)
	}
	oneOf("gateway.bind", cfg.Gateway.Bind, validBinds)
	if cfg.Gateway.Bind == "custom" && cfg.Gateway.CustomBindHost == "" {
		add("gateway.customBindHost", "required when bind is custom")
	}
	oneOf("gateway.auth.mode", cfg.Gateway.Auth.Mode, validAuthModes)
	if cfg.Gateway.TLS.Enabled && (cfg.Gateway.TLS.CertPath == "" || cfg.Gateway.TLS.KeyPath == "") {
		add("gateway.tls", "certPath and keyPath are required when TLS is enabled")
	}

	// LLM
	oneOf("llm.provider", cfg.LLM.Provider, validProviders)
	if cfg.LLM.MaxTokens < 0 {
		add("llm.maxTokens", "must not be negative, got %d", cfg.LLM.MaxTokens)
	}
	if t := cfg.LLM.Temperature; t != nil && (*t < 0 || *t > 2) {
		add("llm.temperature", "must be 0-2, got %v", *t)
	}
	for _, p := range []struct {
		path string
		v    *float64
	}{
		{"llm.presencePenalty", cfg.LLM.PresencePenalty},
		{"llm.frequencyPenalty", cfg.LLM.FrequencyPenalty},
	} {
		if p.v != nil && (*p.v < -2 || *p.v > 2) {
			add(p.path, "must be -2 to 2, got %v", *p.v)
		}
	}
	for i, fb := range cfg.LLM.Fallbacks {
		path := fmt.Sprintf("llm.fallbacks[%d].provider", i)
		if fb.Provider == "" || fb.Provider == "none" {
			add(path, "a fallback provider is required")
			continue
		}
		oneOf(path, fb.Provider, validProviders)
	}

	// Conversation
	if cfg.Conversation.MaxHistory < 0 {
		add("conversation.maxHistory", "must not be negative, got %d", cfg.Conversation.MaxHistory)
	} else if cfg.Conversation.MaxHistory%2 != 0 {
		add("conversation.maxHistory", "must be even so exchanges are kept in pairs, got %d", cfg.Conversation.MaxHistory)
	}
	if cfg.Conversation.ContextMessages < 0 {
		add("conversation.contextMessages", "must not be negative, got %d", cfg.Conversation.ContextMessages)
	}
	if cfg.Conversation.GenerationTimeoutSeconds < 0 {
		add("conversation.generationTimeoutSeconds", "must not be negative, got %d", cfg.Conversation.GenerationTimeoutSeconds)
	}
	oneOf("conversation.historyStore", cfg.Conversation.HistoryStore, validHistoryStores)
	if cfg.Conversation.HistoryStore == "redis" && cfg.Conversation.RedisURL == "" {
		add("conversation.redisUrl", "required when historyStore is redis")
	}

	// Store
	oneOf("store.driver", cfg.Store.Driver, validStoreDrivers)

	// Rate limit
	if cfg.RateLimit.RequestsPerMinute < 0 {
		add("rateLimit.requestsPerMinute", "must not be negative, got %d", cfg.RateLimit.RequestsPerMinute)
	}
	if cfg.RateLimit.Burst < 0 {
		add("rateLimit.burst", "must not be negative, got %d", cfg.RateLimit.Burst)
	}

	// Logging
	oneOf("logging.level", cfg.Logging.Level, validLogLevels)
	oneOf("logging.consoleLevel", cfg.Logging.ConsoleLevel, validLogLevels)
	oneOf("logging.consoleStyle", cfg.Logging.ConsoleStyle, validConsoleStyles)

	return issues
}
