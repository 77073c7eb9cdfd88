package gateway

import (
	"context"
	"fmt"
	"testing"

	"github.com/soyeahso/moodai/internal/agent"
	"github.com/soyeahso/moodai/internal/domain"
	"github.com/soyeahso/moodai/internal/mood"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsAllowedConfigPath(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{"gateway.port", true},
		{"gateway.bind", true},
		{"llm.provider", true},
		{"llm.model", true},
		{"conversation.maxHistory", true},
		{"rateLimit", true},
		{"rateLimit.burst", true},
		{"logging.level", true},
		{"gateway.auth", false},
		{"gateway.auth.token", false},
		{"gateway.tls.keyPath", false},
		{"llm.apiKey", false},
		{"llm.fallbacks", false},
		{"conversation.redisUrl", false},
		{"hooks", false},
		{"llm.providerX", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, isAllowedConfigPath(tt.path))
		})
	}
}

func TestServerMethods(t *testing.T) {
	env := newTestEnv(t)
	assert.Equal(t, []string{
		"chat.clear", "chat.delete", "chat.get", "chat.history",
		"chat.search", "chat.send", "chat.stats", "config.get", "health",
	}, env.srv.Methods())
}

func TestRPCConfigGet(t *testing.T) {
	env := newTestEnv(t)
	conn, _ := env.connect(t, "")

	t.Run("allowed", func(t *testing.T) {
		resp := call(t, conn, "g-1", "config.get", configGetParams{Key: "gateway.port"})
		require.True(t, *resp.OK)
		assert.JSONEq(t, `{"key":"gateway.port","value":18790}`, string(resp.Payload))
	})

	t.Run("secret", func(t *testing.T) {
		resp := call(t, conn, "g-2", "config.get", configGetParams{Key: "llm.apiKey"})
		require.NotNil(t, resp.Error)
		assert.Equal(t, "forbidden", resp.Error.Code)
	})

	t.Run("missing", func(t *testing.T) {
		resp := call(t, conn, "g-3", "config.get", configGetParams{Key: "logging.level"})
		require.NotNil(t, resp.Error)
		assert.Equal(t, "not_found", resp.Error.Code)
	})

	t.Run("empty key", func(t *testing.T) {
		resp := call(t, conn, "g-4", "config.get", configGetParams{})
		require.NotNil(t, resp.Error)
		assert.Equal(t, "invalid_params", resp.Error.Code)
	})
}

func TestMetricsObserveReply(t *testing.T) {
	m := NewMetrics()
	m.ObserveReply("http", agent.Result{Mood: mood.Positive, Outcome: domain.OutcomeSuccess})
	m.ObserveReply("ws", agent.Result{Mood: mood.Negative, Outcome: domain.OutcomeFallback})
	m.ObserveClear()
	m.ObserveRateLimited("ws")
	m.SetClients(3)

	body := scrape(t, m)
	assert.Contains(t, body, `moodai_replies_total{outcome="success",transport="http"} 1`)
	assert.Contains(t, body, `moodai_replies_total{outcome="fallback",transport="ws"} 1`)
	assert.Contains(t, body, `moodai_moods_total{mood="NEGATIVE"} 1`)
	assert.Contains(t, body, `moodai_history_clears_total 1`)
	assert.Contains(t, body, `moodai_rate_limit_hits_total{transport="ws"} 1`)
	assert.Contains(t, body, `moodai_websocket_clients 3`)
}

func TestMetricsNilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveReply("http", agent.Result{})
		m.ObserveHTTP("GET", "/", 200, 0)
		m.ObserveClear()
		m.ObserveRateLimited("http")
		m.SetClients(1)
	})
}

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{errBlankMessage, 400, "invalid_params"},
		{errMessageTooLong, 400, "invalid_params"},
		{errRateLimited, 429, "rate_limited"},
		{errIdentityRequired, 401, "unauthorized"},
		{errChatUnavailable, 503, "unavailable"},
		{errChatLogUnavailable, 503, "unavailable"},
		{context.DeadlineExceeded, 500, "internal_error"},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			status, code := errorStatus(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, code)
		})
	}
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "message cannot be empty", errBlankMessage.Error())
	assert.Equal(t, "Message cannot be empty", userMessage(errBlankMessage))
	assert.Equal(t, "Message cannot be empty", userMessage(fmt.Errorf("send: %w", errBlankMessage)))
	assert.Equal(t, "message is too long", userMessage(errMessageTooLong))
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, defaultHistoryLimit, clampLimit(0))
	assert.Equal(t, defaultHistoryLimit, clampLimit(-3))
	assert.Equal(t, 7, clampLimit(7))
	assert.Equal(t, maxHistoryLimit, clampLimit(10_000))
}
