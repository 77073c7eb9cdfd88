package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/soyeahso/moodai/internal/config"
	"github.com/soyeahso/moodai/internal/domain"
	"github.com/soyeahso/moodai/internal/hooks"
	"github.com/soyeahso/moodai/internal/llm"
	"github.com/soyeahso/moodai/internal/logging"
	"github.com/soyeahso/moodai/internal/mood"
)

// DefaultGenerationTimeout bounds a single generation call.
const DefaultGenerationTimeout = 30 * time.Second

// RunnerConfig configures the conversation runner.
type RunnerConfig struct {
	MaxTokens         int
	Temperature       *float64
	PresencePenalty   *float64
	FrequencyPenalty  *float64
	ContextMessages   int
	GenerationTimeout time.Duration
	StructuredReplies bool
}

// NewRunnerConfig derives a RunnerConfig from the loaded configuration.
func NewRunnerConfig(cfg config.Config) RunnerConfig {
	return RunnerConfig{
		MaxTokens:         cfg.LLM.MaxTokens,
		Temperature:       cfg.LLM.Temperature,
		PresencePenalty:   cfg.LLM.PresencePenalty,
		FrequencyPenalty:  cfg.LLM.FrequencyPenalty,
		ContextMessages:   cfg.Conversation.ContextMessages,
		GenerationTimeout: cfg.Conversation.GenerationTimeout(),
		StructuredReplies: cfg.LLM.UseStructuredReplies(),
	}
}

// Result is the reply to one message. Respond always produces one.
type Result struct {
	Reply     string         `json:"reply"`
	Mood      mood.Label     `json:"mood"`
	Score     float64        `json:"moodScore"`
	Outcome   domain.Outcome `json:"outcome"`
	ModelMood string         `json:"modelMood,omitempty"`
	Model     string         `json:"model,omitempty"`
	ChatID    string         `json:"chatId,omitempty"`
	Duration  time.Duration  `json:"duration"`
}

// ChatRecorder persists exchanges for authenticated identities.
type ChatRecorder interface {
	SaveChat(ctx context.Context, rec domain.ChatRecord) error
}

// Runner classifies a message, asks the generation provider for a reply with
// recent history as context, and falls back to a canned reply when
// generation is unavailable.
type Runner struct {
	cfg      RunnerConfig
	gen      llm.Client
	history  History
	scorer   *mood.Scorer
	hooks    *hooks.Manager
	recorder ChatRecorder
	now      func() time.Time
	newID    func() string
	log      *logging.Logger
}

// RunnerOption customizes a Runner.
type RunnerOption func(*Runner)

// WithScorer sets the mood scorer, e.g. one with a deterministic source.
func WithScorer(s *mood.Scorer) RunnerOption {
	return func(r *Runner) { r.scorer = s }
}

// WithHooks emits lifecycle events to m.
func WithHooks(m *hooks.Manager) RunnerOption {
	return func(r *Runner) { r.hooks = m }
}

// WithRecorder persists each authenticated exchange through rec.
func WithRecorder(rec ChatRecorder) RunnerOption {
	return func(r *Runner) { r.recorder = rec }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) RunnerOption {
	return func(r *Runner) { r.now = now }
}

// NewRunner creates a conversation runner. gen may be nil, in which case
// every reply is a fallback.
func NewRunner(cfg RunnerConfig, gen llm.Client, history History, log *logging.Logger, opts ...RunnerOption) *Runner {
	if cfg.GenerationTimeout <= 0 {
		cfg.GenerationTimeout = DefaultGenerationTimeout
	}
	if cfg.ContextMessages <= 0 || cfg.ContextMessages > MaxContextMessages {
		cfg.ContextMessages = MaxContextMessages
	}
	if history == nil {
		history = NewMemoryHistory(DefaultMaxHistory)
	}

	r := &Runner{
		cfg:     cfg,
		gen:     gen,
		history: history,
		now:     time.Now,
		newID:   func() string { return uuid.New().String() },
		log:     log.Sub("agent"),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.scorer == nil {
		r.scorer = mood.NewScorer(nil)
	}
	return r
}

// Respond produces a reply for text on behalf of id. It never fails: any
// generation problem results in the fallback reply for the message's label,
// and the conversation window is only extended when the provider replied.
func (r *Runner) Respond(ctx context.Context, id domain.Identity, text string) Result {
	start := r.now()

	label := mood.Classify(text)
	score := r.scorer.Score(label)

	r.emit(ctx, hooks.EventMessageReceived, map[string]any{
		"identity": id.String(),
		"mood":     label.String(),
	})

	history, err := r.history.Recent(ctx, id, r.cfg.ContextMessages)
	if err != nil {
		r.log.Warn().Err(err).Str("identity", id.String()).Msg("history unavailable, continuing without context")
		history = nil
	}

	userMsg := domain.UserMessage(text, start)
	prompt := BuildPrompt(label, history).WithUser(userMsg)
	if r.cfg.StructuredReplies {
		prompt = prompt.WithStructuredOutput()
	}

	res := Result{Mood: label, Score: score}

	resp, err := r.generate(ctx, prompt)
	var decoded decodedReply
	if err == nil {
		decoded, err = decodeReply(resp.Content)
	}

	if err != nil {
		r.log.Warn().Err(err).Str("identity", id.String()).Str("mood", label.String()).Msg("generation failed, using fallback reply")
		res.Reply = Fallback(label)
		res.Outcome = domain.OutcomeFallback
	} else {
		res.Reply = decoded.Reply
		res.Outcome = decoded.Outcome
		res.ModelMood = decoded.ModelMood
		res.Model = resp.Model

		assistantMsg := domain.AssistantMessage(res.Reply, r.now())
		if err := r.history.Append(ctx, id, userMsg, assistantMsg); err != nil {
			r.log.Warn().Err(err).Str("identity", id.String()).Msg("failed to record exchange in history")
		}
	}

	if r.recorder != nil && !id.IsAnonymous() {
		rec := domain.ChatRecord{
			ID:          r.newID(),
			Identity:    id,
			UserMessage: text,
			Reply:       res.Reply,
			Mood:        label,
			Score:       score,
			Outcome:     res.Outcome,
			CreatedAt:   start,
		}
		if err := r.recorder.SaveChat(ctx, rec); err != nil {
			r.log.Warn().Err(err).Str("identity", id.String()).Msg("failed to save chat record")
		} else {
			res.ChatID = rec.ID
		}
	}

	res.Duration = r.now().Sub(start)

	event := hooks.EventReplyGenerated
	if res.Outcome == domain.OutcomeFallback {
		event = hooks.EventFallbackUsed
	}
	r.emit(ctx, event, map[string]any{
		"identity":  id.String(),
		"mood":      label.String(),
		"moodScore": score,
		"outcome":   string(res.Outcome),
		"modelMood": res.ModelMood,
	})

	r.log.Info().
		Str("identity", id.String()).
		Str("mood", label.String()).
		Str("outcome", string(res.Outcome)).
		Str("model", res.Model).
		Dur("duration", res.Duration).
		Msg("reply produced")
	r.log.Debug().Str("message", text).Str("reply", res.Reply).Msg("exchange content")

	return res
}

// ClearHistory drops the conversation window for id.
func (r *Runner) ClearHistory(ctx context.Context, id domain.Identity) error {
	if err := r.history.Clear(ctx, id); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	r.emit(ctx, hooks.EventHistoryCleared, map[string]any{"identity": id.String()})
	r.log.Info().Str("identity", id.String()).Msg("history cleared")
	return nil
}

// History returns the runner's conversation store.
func (r *Runner) History() History { return r.history }

// Provider names the generation provider, or "none".
func (r *Runner) Provider() string {
	if r.gen == nil {
		return "none"
	}
	return r.gen.Name()
}

type generation struct {
	resp *llm.CompletionResponse
	err  error
}

// generate calls the provider on its own goroutine under the generation
// timeout and returns at the deadline whether or not the provider does.
// A provider panic is reported as a failed generation.
func (r *Runner) generate(ctx context.Context, prompt PromptContext) (*llm.CompletionResponse, error) {
	if r.gen == nil {
		return nil, fmt.Errorf("%w: no provider configured", ErrGenerationUnavailable)
	}

	ctx, cancel := context.WithTimeout(ctx, r.cfg.GenerationTimeout)
	defer cancel()

	req := llm.CompletionRequest{
		System:           prompt.System,
		Messages:         prompt.Messages(),
		MaxTokens:        r.cfg.MaxTokens,
		Temperature:      r.cfg.Temperature,
		PresencePenalty:  r.cfg.PresencePenalty,
		FrequencyPenalty: r.cfg.FrequencyPenalty,
		Structured:       r.cfg.StructuredReplies,
	}

	done := make(chan generation, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				done <- generation{err: fmt.Errorf("provider panic: %v", p)}
			}
		}()
		resp, err := r.gen.Complete(ctx, req)
		done <- generation{resp: resp, err: err}
	}()

	select {
	case g := <-done:
		if g.err != nil {
			return nil, fmt.Errorf("%w: %w", ErrGenerationUnavailable, g.err)
		}
		if g.resp == nil {
			return nil, fmt.Errorf("%w: empty response", ErrGenerationUnavailable)
		}
		return g.resp, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", ErrGenerationUnavailable, ctx.Err())
	}
}

func (r *Runner) emit(ctx context.Context, event string, data map[string]any) {
	if r.hooks == nil {
		return
	}
	r.hooks.Dispatch(ctx, event, data)
}
