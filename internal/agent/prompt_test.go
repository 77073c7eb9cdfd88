package agent

import (
	"strings"
	"testing"
	"time"

	"github.com/soyeahso/moodai/internal/domain"
	"github.com/soyeahso/moodai/internal/mood"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exchange(n int) []domain.Message {
	var msgs []domain.Message
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range n {
		msgs = append(msgs,
			domain.UserMessage("question "+string(rune('a'+i)), at),
			domain.AssistantMessage("answer "+string(rune('a'+i)), at))
	}
	return msgs
}

func TestBuildPromptSectionOrder(t *testing.T) {
	for _, label := range mood.Labels {
		p := BuildPrompt(label, nil)

		idx := []int{
			strings.Index(p.System, "You are Mood AI"),
			strings.Index(p.System, headingCapabilities),
			strings.Index(p.System, headingContext),
			strings.Index(p.System, headingStyle),
			strings.Index(p.System, headingAvoid),
		}
		for i, v := range idx {
			require.GreaterOrEqual(t, v, 0, "%v: section %d missing", label, i)
			if i > 0 {
				assert.Greater(t, v, idx[i-1], "%v: section %d out of order", label, i)
			}
		}
		assert.NotContains(t, p.System, headingOutput)
	}
}

func TestBuildPromptBranchSelection(t *testing.T) {
	tests := []struct {
		label   mood.Label
		want    []string
		notWant []string
	}{
		{mood.Positive, []string{"POSITIVE emotions", "Celebrate"}, []string{"4-7-8", "NEUTRAL mood"}},
		{mood.Negative, []string{"NEGATIVE emotions", "4-7-8", "5-4-3-2-1", "professional help"}, []string{"Celebrate"}},
		{mood.Neutral, []string{"NEUTRAL mood", "explore"}, []string{"4-7-8", "Celebrate"}},
	}
	for _, tt := range tests {
		t.Run(tt.label.String(), func(t *testing.T) {
			system := BuildPrompt(tt.label, nil).System
			ctx := system[strings.Index(system, headingContext):strings.Index(system, headingStyle)]
			for _, w := range tt.want {
				assert.Contains(t, ctx, w)
			}
			for _, w := range tt.notWant {
				assert.NotContains(t, ctx, w)
			}
		})
	}
}

func TestBuildPromptStaticRules(t *testing.T) {
	system := BuildPrompt(mood.Neutral, nil).System
	for _, want := range []string{"emotional support", "coping strategies", "breathing exercises", "follow-up questions", "Toxic positivity", "preachy"} {
		assert.Contains(t, system, want)
	}
}

func TestBuildPromptContext(t *testing.T) {
	p := BuildPrompt(mood.Neutral, nil)
	assert.Empty(t, p.Context)

	history := exchange(3)
	p = BuildPrompt(mood.Neutral, history)
	require.Len(t, p.Context, MaxContextMessages)
	assert.Equal(t, history[2:], p.Context, "keeps the newest messages")

	p.Context[0].Content = "mutated"
	assert.NotEqual(t, "mutated", history[2].Content, "context is a copy")
}

func TestPromptMessages(t *testing.T) {
	user := domain.UserMessage("I feel great", time.Now())
	p := BuildPrompt(mood.Positive, exchange(1)).WithUser(user)

	msgs := p.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, "user", msgs[0].Role)
	assert.Equal(t, "assistant", msgs[1].Role)
	assert.Equal(t, "I feel great", msgs[2].Content)
}

func TestWithStructuredOutput(t *testing.T) {
	p := BuildPrompt(mood.Negative, nil).WithStructuredOutput()
	tail := p.System[strings.Index(p.System, headingAvoid):]
	assert.Contains(t, tail, headingOutput)
	assert.Contains(t, tail, `"reply"`)
	assert.Contains(t, tail, "happy, sad, angry, neutral")
}

func TestBuildPromptPanicsOnUnknownLabel(t *testing.T) {
	assert.Panics(t, func() { BuildPrompt(mood.Label(9), nil) })
}
