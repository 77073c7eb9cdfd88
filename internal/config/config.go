package config

import (
	"fmt"
	"time"
)

// ConfigError represents a configuration error.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s", e.Message)
}

const (
	DefaultPort              = 18790
	DefaultIdentityHeader    = "X-Moodai-User"
	DefaultMaxTokens         = 400
	DefaultTemperature       = 0.9
	DefaultPresencePenalty   = 0.6
	DefaultFrequencyPenalty  = 0.3
	DefaultMaxHistory        = 10
	DefaultContextMessages   = 4
	DefaultGenerationTimeout = 30 * time.Second
	DefaultRequestsPerMinute = 30
	DefaultBurst             = 5
	DefaultMetricsPath       = "/metrics"
)

// Defaults returns a Config with sensible defaults applied.
func Defaults() Config {
	cfg := Config{
		Gateway: GatewayConfig{
			Port:           DefaultPort,
			Bind:           "loopback",
			IdentityHeader: DefaultIdentityHeader,
			Auth: GatewayAuth{
				Mode: "token",
			},
		},
		LLM: LLMConfig{
			Provider:  "openai",
			MaxTokens: DefaultMaxTokens,
		},
		Conversation: ConversationConfig{
			MaxHistory:               DefaultMaxHistory,
			ContextMessages:          DefaultContextMessages,
			GenerationTimeoutSeconds: int(DefaultGenerationTimeout / time.Second),
			HistoryStore:             "memory",
		},
		Store: StoreConfig{
			Driver: "sqlite",
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: DefaultRequestsPerMinute,
			Burst:             DefaultBurst,
		},
		Metrics: MetricsConfig{
			Path: DefaultMetricsPath,
		},
		Logging: LoggingConfig{
			Level:        "info",
			ConsoleLevel: "info",
			ConsoleStyle: "pretty",
		},
	}
	applyDefaults(&cfg)
	return cfg
}

// GenerationTimeout returns the bound on a single generation call.
func (c ConversationConfig) GenerationTimeout() time.Duration {
	if c.GenerationTimeoutSeconds <= 0 {
		return DefaultGenerationTimeout
	}
	return time.Duration(c.GenerationTimeoutSeconds) * time.Second
}

func float64Ptr(v float64) *float64 { return &v }
