package domain

import (
	"time"

	"github.com/soyeahso/moodai/internal/mood"
)

// Outcome describes how a reply was produced.
type Outcome string

const (
	// OutcomeSuccess means the generation provider returned a structured reply.
	OutcomeSuccess Outcome = "success"
	// OutcomeDegraded means the provider answered with unstructured text,
	// which was used verbatim as the reply.
	OutcomeDegraded Outcome = "degraded"
	// OutcomeFallback means generation failed and a canned reply was used.
	OutcomeFallback Outcome = "fallback"
)

// Generated reports whether the reply came from the provider.
func (o Outcome) Generated() bool {
	return o == OutcomeSuccess || o == OutcomeDegraded
}

// ChatRecord is a persisted exchange for an authenticated identity.
type ChatRecord struct {
	ID          string     `json:"id"`
	Identity    Identity   `json:"identity"`
	UserMessage string     `json:"userMessage"`
	Reply       string     `json:"reply"`
	Mood        mood.Label `json:"mood"`
	Score       float64    `json:"moodScore"`
	Outcome     Outcome    `json:"outcome"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// MoodStats summarises an identity's chat log.
type MoodStats struct {
	TotalChats    int     `json:"totalChats"`
	AvgMoodScore  float64 `json:"avgMoodScore"`
	PositiveCount int     `json:"positiveCount"`
	NegativeCount int     `json:"negativeCount"`
	NeutralCount  int     `json:"neutralCount"`
}
