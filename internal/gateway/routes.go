package gateway

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/soyeahso/moodai/internal/config"
)

// safeConfigPrefixes lists config path prefixes that can be read via RPC.
// All other paths are denied by default (allowlist).
var safeConfigPrefixes = []string{
	"gateway.port",
	"gateway.bind",
	"gateway.customBindHost",
	"gateway.identityHeader",
	"llm.provider",
	"llm.model",
	"llm.maxTokens",
	"llm.temperature",
	"llm.presencePenalty",
	"llm.frequencyPenalty",
	"llm.structuredReplies",
	"conversation.maxHistory",
	"conversation.contextMessages",
	"conversation.generationTimeoutSeconds",
	"conversation.historyStore",
	"rateLimit",
	"metrics",
	"logging",
}

func isAllowedConfigPath(key string) bool {
	for _, prefix := range safeConfigPrefixes {
		if key == prefix || strings.HasPrefix(key, prefix+".") {
			return true
		}
	}
	return false
}

// registerHTTPRoutes sets up all HTTP routes on the server mux.
func (s *Server) registerHTTPRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ws", s.handleWebSocket)
	if s.metrics != nil {
		mux.Handle("GET "+s.metricsPath, s.metrics.Handler())
	}

	mux.HandleFunc("POST /api/chat/send", s.handleChatSend)
	mux.HandleFunc("POST /api/chat/anonymous", s.handleChatAnonymous)
	mux.HandleFunc("GET /api/chat/history", s.handleChatHistory)
	mux.HandleFunc("GET /api/chat/search", s.handleChatSearch)
	mux.HandleFunc("GET /api/chat/stats", s.handleChatStats)
	mux.HandleFunc("DELETE /api/chat/context", s.handleClearContext)
	mux.HandleFunc("GET /api/chat/{id}", s.handleChatGet)
	mux.HandleFunc("DELETE /api/chat/{id}", s.handleChatDelete)

	// Catch-all for unknown routes
	mux.HandleFunc("/", handleNotFound)
}

// registerRPCHandlers sets up all JSON-RPC method handlers.
func (s *Server) registerRPCHandlers() {
	s.Handle("health", s.rpcHealth)
	s.Handle("config.get", s.rpcConfigGet)
	s.Handle("chat.send", s.rpcChatSend)
	s.Handle("chat.clear", s.rpcChatClear)
	s.Handle("chat.history", s.rpcChatHistory)
	s.Handle("chat.search", s.rpcChatSearch)
	s.Handle("chat.stats", s.rpcChatStats)
	s.Handle("chat.get", s.rpcChatGet)
	s.Handle("chat.delete", s.rpcChatDelete)
}

// rpcContext bounds a handler's work. It outlives the generation timeout so
// that the runner's own deadline fires first.
func (s *Server) rpcContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.requestTimeout)
}

// fail reports err on the RPC connection using the shared error mapping.
func (rc *RequestContext) fail(err error) {
	_, code := errorStatus(err)
	switch code {
	case "internal_error":
		rc.Server.log.Error().Err(err).Str("method", rc.Frame.Method).Msg("rpc failed")
		rc.RespondError(code, "internal error")
	case "rate_limited":
		rc.RespondRetry(code, userMessage(err), time.Minute)
	default:
		rc.RespondError(code, userMessage(err))
	}
}

// Built-in RPC handlers

func (s *Server) rpcHealth(rc *RequestContext) {
	rc.Respond(HealthResponse{
		Status:   "ok",
		Version:  s.version,
		Provider: s.provider(),
		Clients:  s.clients.Count(),
		UptimeMs: s.uptime().Milliseconds(),
	})
}

type configGetParams struct {
	Key string `json:"key"`
}

func (s *Server) rpcConfigGet(rc *RequestContext) {
	var p configGetParams
	if err := rc.Params(&p); err != nil {
		rc.RespondError("invalid_params", err.Error())
		return
	}
	if p.Key == "" {
		rc.RespondError("invalid_params", "key is required")
		return
	}
	if !isAllowedConfigPath(p.Key) {
		rc.RespondError("forbidden", "access denied for config path: "+p.Key)
		return
	}

	path, err := config.ParseConfigPath(p.Key)
	if err != nil {
		rc.RespondError("invalid_params", err.Error())
		return
	}

	val, ok := config.GetValueAtPath(s.configRaw, path)
	if !ok {
		rc.RespondError("not_found", "key not found: "+p.Key)
		return
	}
	rc.Respond(map[string]any{"key": p.Key, "value": val})
}

type chatSendParams struct {
	Message string `json:"message"`
}

func (s *Server) rpcChatSend(rc *RequestContext) {
	var p chatSendParams
	if err := rc.Params(&p); err != nil {
		rc.RespondError("invalid_params", err.Error())
		return
	}

	ctx, cancel := s.rpcContext()
	defer cancel()

	res, err := s.sendChat(ctx, rc.Client.Identity, rc.Client.rateKey(), rc.Client.ConnID, p.Message, "ws")
	if err != nil {
		rc.fail(err)
		return
	}
	rc.Respond(res)
}

func (s *Server) rpcChatClear(rc *RequestContext) {
	ctx, cancel := s.rpcContext()
	defer cancel()

	if err := s.clearContext(ctx, rc.Client.Identity, rc.Client.ConnID); err != nil {
		rc.fail(err)
		return
	}
	rc.Respond(map[string]any{"cleared": true})
}

type chatListParams struct {
	Limit int    `json:"limit,omitempty"`
	Query string `json:"query,omitempty"`
	ID    string `json:"id,omitempty"`
}

func (s *Server) rpcChatHistory(rc *RequestContext) {
	var p chatListParams
	if err := rc.Params(&p); err != nil {
		rc.RespondError("invalid_params", err.Error())
		return
	}
	cl, err := s.chatLog(rc.Client.Identity)
	if err != nil {
		rc.fail(err)
		return
	}

	ctx, cancel := s.rpcContext()
	defer cancel()

	chats, err := cl.List(ctx, rc.Client.Identity, clampLimit(p.Limit))
	if err != nil {
		rc.fail(err)
		return
	}
	rc.Respond(map[string]any{"chats": orEmpty(chats)})
}

func (s *Server) rpcChatSearch(rc *RequestContext) {
	var p chatListParams
	if err := rc.Params(&p); err != nil {
		rc.RespondError("invalid_params", err.Error())
		return
	}
	if strings.TrimSpace(p.Query) == "" {
		rc.RespondError("invalid_params", "query is required")
		return
	}
	cl, err := s.chatLog(rc.Client.Identity)
	if err != nil {
		rc.fail(err)
		return
	}

	ctx, cancel := s.rpcContext()
	defer cancel()

	chats, err := cl.Search(ctx, rc.Client.Identity, p.Query, clampLimit(p.Limit))
	if err != nil {
		rc.fail(err)
		return
	}
	rc.Respond(map[string]any{"chats": orEmpty(chats)})
}

func (s *Server) rpcChatStats(rc *RequestContext) {
	cl, err := s.chatLog(rc.Client.Identity)
	if err != nil {
		rc.fail(err)
		return
	}

	ctx, cancel := s.rpcContext()
	defer cancel()

	stats, err := cl.Stats(ctx, rc.Client.Identity)
	if err != nil {
		rc.fail(err)
		return
	}
	rc.Respond(stats)
}

func (s *Server) rpcChatGet(rc *RequestContext) {
	var p chatListParams
	if err := rc.Params(&p); err != nil {
		rc.RespondError("invalid_params", err.Error())
		return
	}
	if p.ID == "" {
		rc.RespondError("invalid_params", "id is required")
		return
	}
	cl, err := s.chatLog(rc.Client.Identity)
	if err != nil {
		rc.fail(err)
		return
	}

	ctx, cancel := s.rpcContext()
	defer cancel()

	chat, err := cl.Get(ctx, rc.Client.Identity, p.ID)
	if err != nil {
		rc.fail(err)
		return
	}
	rc.Respond(chat)
}

func (s *Server) rpcChatDelete(rc *RequestContext) {
	var p chatListParams
	if err := rc.Params(&p); err != nil {
		rc.RespondError("invalid_params", err.Error())
		return
	}
	if p.ID == "" {
		rc.RespondError("invalid_params", "id is required")
		return
	}
	cl, err := s.chatLog(rc.Client.Identity)
	if err != nil {
		rc.fail(err)
		return
	}

	ctx, cancel := s.rpcContext()
	defer cancel()

	if err := cl.Delete(ctx, rc.Client.Identity, p.ID); err != nil {
		rc.fail(err)
		return
	}
	rc.Respond(map[string]any{"deleted": p.ID})
}
