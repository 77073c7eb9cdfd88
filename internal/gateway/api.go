package gateway

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/soyeahso/moodai/internal/domain"
)

const maxRequestBody = 64 << 10

type sendRequest struct {
	Message string `json:"message"`
}

// authenticate checks the request credentials and resolves the caller's
// identity from the configured identity header. It writes the error response
// itself and reports false when the request must stop.
func (s *Server) authenticate(w http.ResponseWriter, r *http.Request) (domain.Identity, bool) {
	if !s.authLimiter.allow(r.RemoteAddr) {
		s.log.Warn().Str("remote", r.RemoteAddr).Msg("rate limited, too many failed auth attempts")
		writeError(w, http.StatusTooManyRequests, "too many failed authentication attempts")
		return domain.Anonymous, false
	}

	result := AuthorizeRequest(s.auth, r)
	if !result.OK {
		s.authLimiter.recordFailure(r.RemoteAddr)
		s.log.Debug().Str("remote", r.RemoteAddr).Str("reason", result.Reason).Msg("http auth failed")
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return domain.Anonymous, false
	}

	id := domain.ParseIdentity(r.Header.Get(s.identityHeader))
	if id.IsAnonymous() {
		writeError(w, http.StatusUnauthorized, "missing "+s.identityHeader+" header")
		return domain.Anonymous, false
	}
	return id, true
}

// writeFailure reports err in the REST envelope. Unexpected errors are
// logged and hidden from the caller.
func (s *Server) writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	status, _ := errorStatus(err)
	if status == http.StatusInternalServerError {
		s.log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeError(w, status, "internal error")
		return
	}
	if status == http.StatusTooManyRequests {
		w.Header().Set("Retry-After", "60")
	}
	writeError(w, status, userMessage(err))
}

func decodeSendRequest(w http.ResponseWriter, r *http.Request) (sendRequest, bool) {
	var req sendRequest
	body := http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		case errors.Is(err, io.EOF):
			writeError(w, http.StatusBadRequest, userMessage(errBlankMessage))
		default:
			writeError(w, http.StatusBadRequest, "invalid JSON body")
		}
		return req, false
	}
	return req, true
}

// handleChatSend answers a message from an authenticated identity.
func (s *Server) handleChatSend(w http.ResponseWriter, r *http.Request) {
	id, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	req, ok := decodeSendRequest(w, r)
	if !ok {
		return
	}

	res, err := s.sendChat(r.Context(), id, "id:"+string(id), "", req.Message, "http")
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	writeData(w, res)
}

// handleChatAnonymous answers a message without authentication. Anonymous
// exchanges have no history and are never stored.
func (s *Server) handleChatAnonymous(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeSendRequest(w, r)
	if !ok {
		return
	}

	res, err := s.sendChat(r.Context(), domain.Anonymous, "ip:"+hostOf(r.RemoteAddr), "", req.Message, "http")
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	writeData(w, res)
}

func (s *Server) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	limit, ok := queryLimit(w, r)
	if !ok {
		return
	}

	cl, err := s.chatLog(id)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	chats, err := cl.List(r.Context(), id, limit)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	writeData(w, orEmpty(chats))
}

func (s *Server) handleChatSearch(w http.ResponseWriter, r *http.Request) {
	id, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}
	limit, ok := queryLimit(w, r)
	if !ok {
		return
	}

	cl, err := s.chatLog(id)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	chats, err := cl.Search(r.Context(), id, q, limit)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	writeData(w, orEmpty(chats))
}

func (s *Server) handleChatStats(w http.ResponseWriter, r *http.Request) {
	id, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	cl, err := s.chatLog(id)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	stats, err := cl.Stats(r.Context(), id)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	writeData(w, stats)
}

func (s *Server) handleChatGet(w http.ResponseWriter, r *http.Request) {
	id, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	cl, err := s.chatLog(id)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	chat, err := cl.Get(r.Context(), id, r.PathValue("id"))
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	writeData(w, chat)
}

func (s *Server) handleChatDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	cl, err := s.chatLog(id)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	if err := cl.Delete(r.Context(), id, r.PathValue("id")); err != nil {
		s.writeFailure(w, r, err)
		return
	}
	writeData(w, nil)
}

// handleClearContext drops the caller's conversation window. The stored
// chat log is left alone.
func (s *Server) handleClearContext(w http.ResponseWriter, r *http.Request) {
	id, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	if err := s.clearContext(r.Context(), id, ""); err != nil {
		s.writeFailure(w, r, err)
		return
	}
	writeData(w, nil)
}

func queryLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return defaultHistoryLimit, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
		return 0, false
	}
	return clampLimit(n), true
}
