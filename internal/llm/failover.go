package llm

import (
	"context"
	"strings"

	"github.com/soyeahso/moodai/internal/logging"
)

// FailoverClient tries registered providers in order, moving on when a
// provider fails with a retryable error.
type FailoverClient struct {
	registry  *Registry
	primary   string
	fallbacks []string
	log       *logging.Logger
}

// NewFailoverClient creates a client that tries the primary provider first,
// then falls back through the list on retryable errors (401, 403, 429, 5xx,
// timeouts).
func NewFailoverClient(registry *Registry, primary string, fallbacks []string, log *logging.Logger) *FailoverClient {
	return &FailoverClient{
		registry:  registry,
		primary:   primary,
		fallbacks: fallbacks,
		log:       log.Sub("failover"),
	}
}

// Name lists the provider chain, e.g. "openai>claude".
func (f *FailoverClient) Name() string {
	return strings.Join(append([]string{f.primary}, f.fallbacks...), ">")
}

// Complete tries the primary provider, falling back on retryable errors.
func (f *FailoverClient) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	names := append([]string{f.primary}, f.fallbacks...)

	var lastErr error
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		client, err := f.registry.Resolve(name)
		if err != nil {
			f.log.Debug().Str("provider", name).Err(err).Msg("no provider, skipping")
			lastErr = err
			continue
		}

		resp, err := client.Complete(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if IsRetryable(err) {
			f.log.Warn().Str("provider", name).Err(err).Msg("retryable error, trying next provider")
			continue
		}
		return nil, err
	}

	return nil, lastErr
}
