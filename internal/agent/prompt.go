package agent

import (
	"fmt"
	"strings"

	"github.com/soyeahso/moodai/internal/domain"
	"github.com/soyeahso/moodai/internal/llm"
	"github.com/soyeahso/moodai/internal/mood"
)

// MaxContextMessages caps the history attached to a prompt.
const MaxContextMessages = 4

// Section headings, in emission order.
const (
	headingCapabilities = "**Your Capabilities:**"
	headingContext      = "**Current Context:**"
	headingStyle        = "**Response Style:**"
	headingAvoid        = "**Important - Avoid:**"
	headingOutput       = "**Output Format:**"
)

// PromptContext is the per-request input to the generation call.
type PromptContext struct {
	System  string
	Context []domain.Message
	User    domain.Message
}

// BuildPrompt assembles the system instruction for label and attaches at most
// MaxContextMessages of history, keeping the most recent.
func BuildPrompt(label mood.Label, history []domain.Message) PromptContext {
	var b strings.Builder

	b.WriteString("You are Mood AI, an empathetic mental wellness companion. ")
	b.WriteString("You give thoughtful, personalized and context-aware replies.\n\n")

	b.WriteString(headingCapabilities + "\n")
	for _, c := range capabilities {
		b.WriteString("- " + c + "\n")
	}

	b.WriteString("\n" + headingContext + "\n")
	b.WriteString(contextGuidance(label))
	b.WriteString("\n")

	b.WriteString("\n" + headingStyle + "\n")
	for _, s := range styleRules {
		b.WriteString("- " + s + "\n")
	}

	b.WriteString("\n" + headingAvoid + "\n")
	for _, a := range antiPatterns {
		b.WriteString("- " + a + "\n")
	}

	if len(history) > MaxContextMessages {
		history = history[len(history)-MaxContextMessages:]
	}
	ctx := make([]domain.Message, len(history))
	copy(ctx, history)

	return PromptContext{System: b.String(), Context: ctx}
}

// WithUser attaches the user's message.
func (p PromptContext) WithUser(m domain.Message) PromptContext {
	p.User = m
	return p
}

// WithStructuredOutput appends an instruction to answer with a JSON object
// holding the reply and the detected mood.
func (p PromptContext) WithStructuredOutput() PromptContext {
	p.System += fmt.Sprintf("\n%s\nReturn a strict JSON object with keys \"reply\" and \"mood\" where mood is one of: %s. "+
		"Do not include any text outside the JSON object.\n",
		headingOutput, strings.Join(modelMoods, ", "))
	return p
}

// Messages flattens the context and user turn into provider messages.
func (p PromptContext) Messages() []llm.Message {
	out := make([]llm.Message, 0, len(p.Context)+1)
	for _, m := range p.Context {
		out = append(out, llm.Message{Role: string(m.Role), Content: m.Content})
	}
	if p.User.Content != "" {
		out = append(out, llm.Message{Role: string(p.User.Role), Content: p.User.Content})
	}
	return out
}

var modelMoods = []string{"happy", "sad", "angry", "neutral"}

var capabilities = []string{
	"Provide emotional support and validation",
	"Suggest practical coping strategies and solutions",
	"Recommend music, activities, books and movies based on mood",
	"Share breathing exercises and mindfulness techniques",
	"Tell jokes or share uplifting content when appropriate",
	"Offer motivational quotes and wisdom",
	"Ask thoughtful follow-up questions to understand deeper",
	"Provide actionable, specific advice",
}

var styleRules = []string{
	"Be conversational and natural, like a caring friend",
	"Use emojis moderately (2-3 per response)",
	"Keep responses concise but meaningful (3-5 short paragraphs)",
	"Use bullet points or numbered lists for actionable advice",
	"Be specific: name actual songs, books, techniques and activities",
	"Ask one thoughtful follow-up question to continue the conversation",
	"Adapt your tone to match their emotional state",
	"Never use generic phrases like 'I'm here for you' without adding substance",
}

var antiPatterns = []string{
	"Being preachy or giving unsolicited advice",
	"Toxic positivity (don't dismiss negative feelings)",
	"Repetitive or template-like responses",
	"Being overly formal or clinical",
	"Lengthy paragraphs without structure",
}

func contextGuidance(label mood.Label) string {
	switch label {
	case mood.Positive:
		return "The user is experiencing POSITIVE emotions. " +
			"Celebrate with them genuinely! Share their joy and suggest ways to maintain and amplify this positive energy. " +
			"Recommend uplifting music, fun activities, or ways to spread this positivity to others. " +
			"Be enthusiastic and energetic in your tone. " +
			"Maybe suggest journaling this moment, sharing happiness with loved ones, or a creative activity."
	case mood.Negative:
		return "The user is experiencing NEGATIVE emotions or distress. " +
			"Be extra compassionate, patient and validating. This is a vulnerable moment. " +
			"First, acknowledge their feelings without judgment. " +
			"Then provide practical, actionable coping strategies such as:\n" +
			"- Specific breathing exercises (4-7-8 technique, box breathing)\n" +
			"- Grounding techniques (5-4-3-2-1 method)\n" +
			"- Calming music recommendations (specific songs or artists)\n" +
			"- Physical activities (walk, stretch, yoga poses)\n" +
			"- Gentle humor if appropriate (never dismissive)\n" +
			"- Reminders that feelings are temporary\n" +
			"Offer to listen more if they want to talk about it. " +
			"If they seem severely distressed, gently suggest professional help."
	case mood.Neutral:
		return "The user has a NEUTRAL mood. " +
			"Engage naturally and help them explore their current state. " +
			"Ask thoughtful questions to understand them better. " +
			"Suggest activities, music or reflections that might add positivity to their day. " +
			"Be warm, conversational and genuinely interested in their wellbeing."
	}
	panic(fmt.Sprintf("agent: unhandled mood label %v", label))
}
