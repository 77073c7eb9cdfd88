package agent

import (
	"testing"

	"github.com/soyeahso/moodai/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeReply(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		reply     string
		modelMood string
		outcome   domain.Outcome
	}{
		{"structured", `{"reply":"Glad to hear!","mood":"happy"}`, "Glad to hear!", "happy", domain.OutcomeSuccess},
		{"structured with whitespace", "  \n{\"reply\":\" hi \",\"mood\":\" Sad \"}\n", "hi", "sad", domain.OutcomeSuccess},
		{"json fence", "```json\n{\"reply\":\"ok\",\"mood\":\"neutral\"}\n```", "ok", "neutral", domain.OutcomeSuccess},
		{"bare fence", "```\n{\"reply\":\"ok\",\"mood\":\"angry\"}\n```", "ok", "angry", domain.OutcomeSuccess},
		{"missing mood", `{"reply":"just words"}`, "just words", "", domain.OutcomeSuccess},
		{"plain text", "Take a deep breath with me.", "Take a deep breath with me.", "", domain.OutcomeDegraded},
		{"broken json", `{"reply": "unterminated`, `{"reply": "unterminated`, "", domain.OutcomeDegraded},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeReply(tt.content)
			require.NoError(t, err)
			assert.Equal(t, tt.reply, got.Reply)
			assert.Equal(t, tt.modelMood, got.ModelMood)
			assert.Equal(t, tt.outcome, got.Outcome)
		})
	}
}

func TestDecodeReplyFailures(t *testing.T) {
	for _, content := range []string{"", "   \n\t", `{"reply":"","mood":"happy"}`, "```json\n{\"reply\":\"  \"}\n```"} {
		_, err := decodeReply(content)
		assert.ErrorIs(t, err, ErrGenerationUnavailable, "%q", content)
	}
}

func TestStripCodeFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripCodeFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence("```{\"a\":1}```"))
	assert.Equal(t, "no fence", stripCodeFence("no fence"))
	assert.Equal(t, "```", stripCodeFence("```"))
}
