package agent

import (
	"fmt"

	"github.com/soyeahso/moodai/internal/mood"
)

// Fallback returns the canned reply for label. It is used whenever
// generation is unavailable and depends on nothing but the label.
func Fallback(label mood.Label) string {
	switch label {
	case mood.Positive:
		return fallbackPositive
	case mood.Negative:
		return fallbackNegative
	case mood.Neutral:
		return fallbackNeutral
	}
	panic(fmt.Sprintf("agent: unhandled mood label %v", label))
}

const fallbackPositive = "I can feel the positive energy in your message! 🌟 That's wonderful!\n\n" +
	"To keep this momentum going, here are some specific ideas:\n\n" +
	"🎵 **Music to match your vibe:**\n" +
	"• \"Happy\" by Pharrell Williams\n" +
	"• \"Don't Stop Me Now\" by Queen\n" +
	"• \"Good Vibrations\" by The Beach Boys\n\n" +
	"✨ **Amplify this feeling:**\n" +
	"• Share your joy with someone you care about via call or text\n" +
	"• Write down what's making you happy (great to revisit later!)\n" +
	"• Try a spontaneous dance session in your room\n" +
	"• Channel this energy into a creative project\n\n" +
	"What specifically is bringing you this happiness today? I'd love to hear more about it! 😊"

const fallbackNegative = "I hear you, and I want you to know that what you're feeling is completely valid. 💙\n\n" +
	"Let's try something right now that might help:\n\n" +
	"🌊 **Immediate Calm - 4-7-8 Breathing:**\n" +
	"1. Breathe in through your nose for 4 seconds\n" +
	"2. Hold your breath for 7 seconds\n" +
	"3. Exhale slowly through your mouth for 8 seconds\n" +
	"4. Repeat 3 times\n\n" +
	"🎵 **Calming soundscape:**\n" +
	"• \"Weightless\" by Marconi Union (shown to reduce anxiety)\n" +
	"• \"Clair de Lune\" by Debussy\n" +
	"• Try rain sounds or nature ambience\n\n" +
	"💚 **What might help right now:**\n" +
	"• Take a 10-minute walk (even around your room counts!)\n" +
	"• Splash cold water on your face (it helps reset your nervous system)\n" +
	"• Text a friend just to say hi\n" +
	"• Watch a comfort show or funny video (laughter is medicine)\n\n" +
	"Would you like to tell me more about what's going on? Sometimes talking it through helps. I'm here to listen. 🤗"

const fallbackNeutral = "Thanks for sharing with me! 😊\n\n" +
	"I'm curious - what's your energy level right now? That can tell us a lot about what might help.\n\n" +
	"🎯 **Quick mood shifters (pick what sounds good):**\n\n" +
	"**If you need energy:**\n" +
	"• 5-minute dance party to \"Shut Up and Dance\" by Walk the Moon\n" +
	"• Do 10 jumping jacks (gets blood flowing!)\n" +
	"• Make yourself a colorful snack or smoothie\n\n" +
	"**If you need calm:**\n" +
	"• Try the \"5-4-3-2-1\" grounding exercise (name 5 things you see, 4 you can touch, 3 you hear, 2 you smell, 1 you taste)\n" +
	"• Listen to \"River Flows In You\" by Yiruma\n" +
	"• Sit by a window and just observe for 5 minutes\n\n" +
	"**If you want connection:**\n" +
	"• Send a random appreciation text to someone\n" +
	"• Join an online community about something you like\n" +
	"• Share something you're grateful for (even small things count!)\n\n" +
	"What resonates with you right now? What would feel good? 💭"
