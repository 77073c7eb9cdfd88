package config

// Config is the root configuration for moodai.
type Config struct {
	Gateway      GatewayConfig      `yaml:"gateway,omitempty"`
	LLM          LLMConfig          `yaml:"llm,omitempty"`
	Conversation ConversationConfig `yaml:"conversation,omitempty"`
	Store        StoreConfig        `yaml:"store,omitempty"`
	RateLimit    RateLimitConfig    `yaml:"rateLimit,omitempty"`
	Metrics      MetricsConfig      `yaml:"metrics,omitempty"`
	Logging      LoggingConfig      `yaml:"logging,omitempty"`
	Hooks        HooksConfig        `yaml:"hooks,omitempty"`
}

// GatewayConfig controls the HTTP/WebSocket API server.
type GatewayConfig struct {
	Port           int         `yaml:"port,omitempty"`
	Bind           string      `yaml:"bind,omitempty"` // "loopback" | "lan" | "custom"
	CustomBindHost string      `yaml:"customBindHost,omitempty"`
	Auth           GatewayAuth `yaml:"auth,omitempty"`
	TLS            GatewayTLS  `yaml:"tls,omitempty"`
	AllowedOrigins []string    `yaml:"allowedOrigins,omitempty"`
	// IdentityHeader carries the authenticated user's identity, set by the
	// upstream auth proxy. Requests without it are treated as anonymous.
	IdentityHeader string `yaml:"identityHeader,omitempty"`
}

// GatewayAuth configures gateway authentication.
type GatewayAuth struct {
	Mode     string `yaml:"mode,omitempty"` // "token" | "password" | "none"
	Token    string `yaml:"token,omitempty"`
	Password string `yaml:"password,omitempty"`
}

// GatewayTLS configures TLS for the gateway.
type GatewayTLS struct {
	Enabled  bool   `yaml:"enabled,omitempty"`
	CertPath string `yaml:"certPath,omitempty"`
	KeyPath  string `yaml:"keyPath,omitempty"`
}

// LLMConfig selects and tunes the reply generation provider.
type LLMConfig struct {
	Provider          string          `yaml:"provider,omitempty"` // "openai" | "claude" | "gemini" | "ollama" | "none"
	APIKey            string          `yaml:"apiKey,omitempty"`
	Model             string          `yaml:"model,omitempty"`
	Endpoint          string          `yaml:"endpoint,omitempty"`
	Fallbacks         []ProviderEntry `yaml:"fallbacks,omitempty"`
	MaxTokens         int             `yaml:"maxTokens,omitempty"`
	Temperature       *float64        `yaml:"temperature,omitempty"`
	PresencePenalty   *float64        `yaml:"presencePenalty,omitempty"`
	FrequencyPenalty  *float64        `yaml:"frequencyPenalty,omitempty"`
	StructuredReplies *bool           `yaml:"structuredReplies,omitempty"`
}

// ProviderEntry describes a fallback generation provider.
type ProviderEntry struct {
	Provider string `yaml:"provider"`
	APIKey   string `yaml:"apiKey,omitempty"`
	Model    string `yaml:"model,omitempty"`
	Endpoint string `yaml:"endpoint,omitempty"`
}

// ConversationConfig bounds the per-identity conversation window.
type ConversationConfig struct {
	MaxHistory               int    `yaml:"maxHistory,omitempty"`
	ContextMessages          int    `yaml:"contextMessages,omitempty"`
	GenerationTimeoutSeconds int    `yaml:"generationTimeoutSeconds,omitempty"`
	HistoryStore             string `yaml:"historyStore,omitempty"` // "memory" | "redis"
	RedisURL                 string `yaml:"redisUrl,omitempty"`
}

// StoreConfig selects chat record persistence.
type StoreConfig struct {
	Driver string `yaml:"driver,omitempty"` // "sqlite" | "none"
	Path   string `yaml:"path,omitempty"`   // defaults to <data>/moodai.db
}

// RateLimitConfig limits chat requests per identity.
type RateLimitConfig struct {
	Enabled           *bool `yaml:"enabled,omitempty"`
	RequestsPerMinute int   `yaml:"requestsPerMinute,omitempty"`
	Burst             int   `yaml:"burst,omitempty"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled *bool  `yaml:"enabled,omitempty"`
	Path    string `yaml:"path,omitempty"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level        string `yaml:"level,omitempty"` // "silent" | "fatal" | "error" | "warn" | "info" | "debug" | "trace"
	File         string `yaml:"file,omitempty"`
	ConsoleLevel string `yaml:"consoleLevel,omitempty"`
	ConsoleStyle string `yaml:"consoleStyle,omitempty"` // "pretty" | "compact" | "json"
}

// HooksConfig defines shell commands run on lifecycle events.
type HooksConfig struct {
	MessageReceived []HookEntry `yaml:"messageReceived,omitempty"`
	ReplyGenerated  []HookEntry `yaml:"replyGenerated,omitempty"`
	FallbackUsed    []HookEntry `yaml:"fallbackUsed,omitempty"`
	HistoryCleared  []HookEntry `yaml:"historyCleared,omitempty"`
	GatewayStart    []HookEntry `yaml:"gatewayStart,omitempty"`
	GatewayStop     []HookEntry `yaml:"gatewayStop,omitempty"`
}

// HookEntry defines a single hook action.
type HookEntry struct {
	Command string `yaml:"command"`
	Timeout int    `yaml:"timeout,omitempty"` // milliseconds
}

// IsEnabled reports whether rate limiting is on. Unset means on.
func (r RateLimitConfig) IsEnabled() bool {
	return r.Enabled == nil || *r.Enabled
}

// IsEnabled reports whether the metrics endpoint is on. Unset means on.
func (m MetricsConfig) IsEnabled() bool {
	return m.Enabled == nil || *m.Enabled
}

// UseStructuredReplies reports whether the model is asked for JSON output.
// Unset means yes.
func (l LLMConfig) UseStructuredReplies() bool {
	return l.StructuredReplies == nil || *l.StructuredReplies
}
