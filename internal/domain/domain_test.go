package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/soyeahso/moodai/internal/mood"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIdentity(t *testing.T) {
	tests := []struct {
		in        string
		want      Identity
		anonymous bool
	}{
		{"alice@example.com", "alice@example.com", false},
		{"  u1 ", "u1", false},
		{"", Anonymous, true},
		{"   ", Anonymous, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			id := ParseIdentity(tt.in)
			assert.Equal(t, tt.want, id)
			assert.Equal(t, tt.anonymous, id.IsAnonymous())
		})
	}
}

func TestIdentityString(t *testing.T) {
	assert.Equal(t, "anonymous", Anonymous.String())
	assert.Equal(t, "u1", Identity("u1").String())
}

func TestMessageConstructors(t *testing.T) {
	now := time.Now()
	u := UserMessage("hi", now)
	a := AssistantMessage("hello", now)
	assert.Equal(t, RoleUser, u.Role)
	assert.Equal(t, RoleAssistant, a.Role)
	assert.Equal(t, "hi", u.Content)
	assert.Equal(t, now, a.Timestamp)
}

func TestOutcomeGenerated(t *testing.T) {
	assert.True(t, OutcomeSuccess.Generated())
	assert.True(t, OutcomeDegraded.Generated())
	assert.False(t, OutcomeFallback.Generated())
}

func TestChatRecordJSON(t *testing.T) {
	rec := ChatRecord{
		ID:          "c-1",
		Identity:    "u1",
		UserMessage: "I'm anxious",
		Reply:       "Let's breathe.",
		Mood:        mood.Negative,
		Score:       0.2,
		Outcome:     OutcomeFallback,
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
	}

	data, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"mood":"NEGATIVE"`)
	assert.Contains(t, string(data), `"moodScore":0.2`)

	var decoded ChatRecord
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, rec, decoded)
}
