package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/soyeahso/moodai/internal/config"
	"github.com/soyeahso/moodai/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func silentLog() *logging.Logger {
	return logging.New(nil, "silent")
}

// --- Registry tests ---

func TestRegistryRegisterAndResolve(t *testing.T) {
	reg := NewRegistry(silentLog())
	mock := &MockClient{ProviderName: "openai"}
	reg.Register("openai", mock)

	c, err := reg.Resolve("openai")
	require.NoError(t, err)
	assert.Equal(t, "openai", c.Name())
}

func TestRegistryFallback(t *testing.T) {
	reg := NewRegistry(silentLog())
	reg.Register("ollama", &MockClient{ProviderName: "ollama"})

	_, err := reg.Resolve("unknown")
	assert.Error(t, err)

	reg.SetFallback("ollama")
	c, err := reg.Resolve("unknown")
	require.NoError(t, err)
	assert.Equal(t, "ollama", c.Name())
}

func TestRegistryList(t *testing.T) {
	reg := NewRegistry(silentLog())
	reg.Register("openai", &MockClient{})
	reg.Register("claude", &MockClient{})
	assert.Equal(t, []string{"claude", "openai"}, reg.List())
}

// --- Config wiring ---

func TestNewProvider(t *testing.T) {
	assert.IsType(t, &OpenAIClient{}, NewProvider("openai", "sk", "", ""))
	assert.IsType(t, &ClaudeAPIClient{}, NewProvider("claude", "sk", "", ""))
	assert.IsType(t, &GeminiAPIClient{}, NewProvider("gemini", "sk", "", ""))
	assert.IsType(t, &OllamaAPIClient{}, NewProvider("ollama", "", "", ""))

	assert.Nil(t, NewProvider("openai", "", "", ""), "missing key")
	assert.Nil(t, NewProvider("claude", "", "", ""))
	assert.Nil(t, NewProvider("gemini", "", "", ""))
	assert.Nil(t, NewProvider("none", "sk", "", ""))
}

func TestNewClientFromConfig(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		assert.Nil(t, NewClientFromConfig(config.LLMConfig{Provider: "none"}, silentLog()))
		assert.Nil(t, NewClientFromConfig(config.LLMConfig{Provider: "openai"}, silentLog()))
	})

	t.Run("single provider", func(t *testing.T) {
		c := NewClientFromConfig(config.LLMConfig{Provider: "openai", APIKey: "sk"}, silentLog())
		require.NotNil(t, c)
		assert.Equal(t, "openai", c.Name())
	})

	t.Run("with fallbacks", func(t *testing.T) {
		c := NewClientFromConfig(config.LLMConfig{
			Provider: "openai",
			APIKey:   "sk",
			Fallbacks: []config.ProviderEntry{
				{Provider: "claude", APIKey: "sk-ant"},
				{Provider: "gemini"}, // no key, skipped
				{Provider: "ollama"},
			},
		}, silentLog())
		require.IsType(t, &FailoverClient{}, c)
		assert.Equal(t, "openai>claude>ollama", c.Name())
	})

	t.Run("missing primary promotes fallback", func(t *testing.T) {
		c := NewClientFromConfig(config.LLMConfig{
			Provider:  "openai",
			Fallbacks: []config.ProviderEntry{{Provider: "ollama"}},
		}, silentLog())
		require.NotNil(t, c)
		assert.Equal(t, "ollama", c.Name())
	})
}

// --- Mock ---

func TestMockClientRecordsRequests(t *testing.T) {
	mock := &MockClient{ProviderName: "test"}
	resp, err := mock.Complete(context.Background(), CompletionRequest{System: "sys"})
	require.NoError(t, err)
	assert.Contains(t, resp.Content, "mock response")

	reqs := mock.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "sys", reqs[0].System)
}

func TestMockClientCompleteError(t *testing.T) {
	mock := &MockClient{
		CompleteFunc: func(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
			return nil, &ProviderError{Provider: "test", Message: "rate limited", Code: 429}
		},
	}
	_, err := mock.Complete(context.Background(), CompletionRequest{})
	var pe *ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 429, pe.Code)
}

// --- Errors ---

func TestProviderErrorFormat(t *testing.T) {
	assert.Equal(t, "openai: 429 slow down", (&ProviderError{Provider: "openai", Code: 429, Message: "slow down"}).Error())
	assert.Equal(t, "openai: boom", (&ProviderError{Provider: "openai", Message: "boom"}).Error())
}

func TestStatusErrorTruncatesBody(t *testing.T) {
	body := make([]byte, maxErrorBody*2)
	for i := range body {
		body[i] = 'x'
	}
	err := statusError("claude", 500, body)
	assert.Equal(t, 500, err.Code)
	assert.Len(t, err.Message, maxErrorBody+3)
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{&ProviderError{Code: 401}, true},
		{&ProviderError{Code: 403}, true},
		{&ProviderError{Code: 429}, true},
		{&ProviderError{Code: 503}, true},
		{&ProviderError{Code: 400}, false},
		{fmt.Errorf("wrapped: %w", &ProviderError{Code: 502}), true},
		{context.DeadlineExceeded, true},
		{errors.New("server overloaded"), true},
		{errors.New("Rate limit reached"), true},
		{errors.New("invalid request"), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsRetryable(tt.err), "%v", tt.err)
	}
}

// --- Failover ---

func failing(name string, code int) *MockClient {
	return &MockClient{
		ProviderName: name,
		CompleteFunc: func(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
			return nil, &ProviderError{Provider: name, Code: code, Message: "fail"}
		},
	}
}

func answering(name, content string) *MockClient {
	return &MockClient{
		ProviderName: name,
		CompleteFunc: func(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
			return &CompletionResponse{Content: content, Model: name}, nil
		},
	}
}

func TestFailoverMovesOnRetryable(t *testing.T) {
	reg := NewRegistry(silentLog())
	primary := failing("openai", 503)
	backup := answering("claude", "ok")
	reg.Register("openai", primary)
	reg.Register("claude", backup)

	f := NewFailoverClient(reg, "openai", []string{"claude"}, silentLog())
	resp, err := f.Complete(context.Background(), CompletionRequest{})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Content)
	assert.Len(t, primary.Requests(), 1)
	assert.Len(t, backup.Requests(), 1)
}

func TestFailoverStopsOnNonRetryable(t *testing.T) {
	reg := NewRegistry(silentLog())
	backup := answering("claude", "ok")
	reg.Register("openai", failing("openai", 400))
	reg.Register("claude", backup)

	f := NewFailoverClient(reg, "openai", []string{"claude"}, silentLog())
	_, err := f.Complete(context.Background(), CompletionRequest{})
	var pe *ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 400, pe.Code)
	assert.Empty(t, backup.Requests())
}

func TestFailoverAllFail(t *testing.T) {
	reg := NewRegistry(silentLog())
	reg.Register("openai", failing("openai", 500))
	reg.Register("claude", failing("claude", 429))

	f := NewFailoverClient(reg, "openai", []string{"claude", "missing"}, silentLog())
	_, err := f.Complete(context.Background(), CompletionRequest{})
	assert.Error(t, err)
}

func TestFailoverHonorsCancelledContext(t *testing.T) {
	reg := NewRegistry(silentLog())
	primary := answering("openai", "ok")
	reg.Register("openai", primary)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := NewFailoverClient(reg, "openai", nil, silentLog())
	_, err := f.Complete(ctx, CompletionRequest{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, primary.Requests())
}
