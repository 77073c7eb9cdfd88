package agent

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/soyeahso/moodai/internal/domain"
	"github.com/soyeahso/moodai/internal/llm"
)

// ErrGenerationUnavailable marks every way generation can fail: provider
// errors, timeouts, panics, missing configuration and empty output.
var ErrGenerationUnavailable = errors.New("generation unavailable")

// decodedReply is the result of interpreting provider output.
type decodedReply struct {
	Reply     string
	ModelMood string
	Outcome   domain.Outcome
}

// decodeReply tries a structured {reply, mood} object first, tolerating a
// surrounding markdown code fence. Non-JSON text becomes a degraded reply.
// Blank content, or a JSON object with a blank reply, is a failure.
func decodeReply(content string) (decodedReply, error) {
	text := strings.TrimSpace(content)
	if text == "" {
		return decodedReply{}, ErrGenerationUnavailable
	}

	body := stripCodeFence(text)
	if strings.HasPrefix(body, "{") {
		var sr llm.StructuredReply
		if err := json.Unmarshal([]byte(body), &sr); err == nil {
			reply := strings.TrimSpace(sr.Reply)
			if reply == "" {
				return decodedReply{}, ErrGenerationUnavailable
			}
			return decodedReply{
				Reply:     reply,
				ModelMood: strings.ToLower(strings.TrimSpace(sr.Mood)),
				Outcome:   domain.OutcomeSuccess,
			}, nil
		}
	}

	return decodedReply{Reply: text, Outcome: domain.OutcomeDegraded}, nil
}

// stripCodeFence removes a ``` or ```json fence wrapping the whole text.
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") || len(s) < 6 {
		return s
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(s, "```"), "```")
	if nl := strings.IndexByte(inner, '\n'); nl >= 0 && !strings.Contains(inner[:nl], "{") {
		inner = inner[nl+1:]
	}
	return strings.TrimSpace(inner)
}
