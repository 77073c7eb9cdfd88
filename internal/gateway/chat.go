package gateway

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/soyeahso/moodai/internal/agent"
	"github.com/soyeahso/moodai/internal/domain"
	"github.com/soyeahso/moodai/internal/store"
)

// MaxMessageLength bounds a chat message, in runes.
const MaxMessageLength = 4000

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

var (
	errBlankMessage       = errors.New("message cannot be empty")
	errMessageTooLong     = errors.New("message is too long")
	errRateLimited        = errors.New("too many messages, slow down")
	errChatUnavailable    = errors.New("chat is not available")
	errChatLogUnavailable = errors.New("chat history is not stored on this server")
	errIdentityRequired   = errors.New("an authenticated identity is required")
)

// ChatLog is the persisted chat history the gateway serves.
type ChatLog interface {
	List(ctx context.Context, id domain.Identity, limit int) ([]domain.ChatRecord, error)
	Get(ctx context.Context, id domain.Identity, chatID string) (domain.ChatRecord, error)
	Delete(ctx context.Context, id domain.Identity, chatID string) error
	Stats(ctx context.Context, id domain.Identity) (domain.MoodStats, error)
	Search(ctx context.Context, id domain.Identity, query string, limit int) ([]domain.ChatRecord, error)
}

// sendChat validates and rate-limits one message, then has the runner reply.
// rateKey identifies the caller to the rate limiter; origin is the sending
// connection's ID, empty for REST calls. The identity's other WebSocket
// connections receive the exchange as an event.
func (s *Server) sendChat(ctx context.Context, id domain.Identity, rateKey, origin, text, transport string) (agent.Result, error) {
	if s.runner == nil {
		return agent.Result{}, errChatUnavailable
	}
	if strings.TrimSpace(text) == "" {
		return agent.Result{}, errBlankMessage
	}
	if utf8.RuneCountInString(text) > MaxMessageLength {
		return agent.Result{}, errMessageTooLong
	}
	if !s.limiter.allow(rateKey) {
		s.metrics.ObserveRateLimited(transport)
		s.log.Warn().Str("identity", id.String()).Str("transport", transport).Msg("chat rate limited")
		return agent.Result{}, errRateLimited
	}

	res := s.runner.Respond(ctx, id, text)
	s.metrics.ObserveReply(transport, res)
	s.clients.NotifyIdentity(id, origin, EventChatMessage, ChatMessageEvent{
		Message:   text,
		Transport: transport,
		Reply:     res,
	})
	return res, nil
}

func (s *Server) clearContext(ctx context.Context, id domain.Identity, origin string) error {
	if s.runner == nil {
		return errChatUnavailable
	}
	if id.IsAnonymous() {
		return errIdentityRequired
	}
	if err := s.runner.ClearHistory(ctx, id); err != nil {
		return err
	}
	s.metrics.ObserveClear()
	s.clients.NotifyIdentity(id, origin, EventChatCleared, map[string]string{"identity": id.String()})
	return nil
}

func (s *Server) chatLog(id domain.Identity) (ChatLog, error) {
	if id.IsAnonymous() {
		return nil, errIdentityRequired
	}
	if s.chats == nil {
		return nil, errChatLogUnavailable
	}
	return s.chats, nil
}

// clampLimit maps a requested page size onto [1, maxHistoryLimit].
func clampLimit(n int) int {
	switch {
	case n <= 0:
		return defaultHistoryLimit
	case n > maxHistoryLimit:
		return maxHistoryLimit
	}
	return n
}

// orEmpty keeps empty lists encoding as [] rather than null.
func orEmpty(chats []domain.ChatRecord) []domain.ChatRecord {
	if chats == nil {
		return []domain.ChatRecord{}
	}
	return chats
}

// userMessage is the text callers see for err.
func userMessage(err error) string {
	if errors.Is(err, errBlankMessage) {
		return "Message cannot be empty"
	}
	return err.Error()
}

// errorStatus maps a gateway error onto an HTTP status and an RPC error code.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, errBlankMessage), errors.Is(err, errMessageTooLong):
		return http.StatusBadRequest, "invalid_params"
	case errors.Is(err, errRateLimited):
		return http.StatusTooManyRequests, "rate_limited"
	case errors.Is(err, errIdentityRequired):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, errChatUnavailable), errors.Is(err, errChatLogUnavailable):
		return http.StatusServiceUnavailable, "unavailable"
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, "not_found"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
