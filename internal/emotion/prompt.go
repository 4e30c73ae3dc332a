package emotion

import (
	"fmt"
	"strings"
)

// SystemPrompt pins the model into the empathetic-coach role.
const SystemPrompt = "You are an empathetic fitness coach creating a personalized workout session."

// BuildPrompt asks for a short plain-text session intro. Unlike the other
// experiments the reply is free text, not JSON.
func BuildPrompt(rec *Recommendation) string {
	var sb strings.Builder

	sb.WriteString("User's Emotional State:\n")
	sb.WriteString(fmt.Sprintf("- Mood: %s\n", rec.Mood))
	sb.WriteString(fmt.Sprintf("- Energy Level: %d/10\n", rec.Energy))
	sb.WriteString(fmt.Sprintf("- Stress Level: %d/10\n", rec.Stress))

	sb.WriteString("\nRecommended Parameters:\n")
	sb.WriteString(fmt.Sprintf("- Intensity: %s\n", rec.Intensity))
	sb.WriteString(fmt.Sprintf("- Coaching Tone: %s\n", rec.CoachingStyle))
	if len(rec.DurationRange) >= 2 {
		sb.WriteString(fmt.Sprintf("- Duration: %d-%d minutes\n", rec.DurationRange[0], rec.DurationRange[1]))
	}
	sb.WriteString(fmt.Sprintf("- Workout Types: %s\n", strings.Join(rec.WorkoutTypes, ", ")))

	sb.WriteString(fmt.Sprintf(`
Generate a warm, personalized 2-3 sentence session introduction that:
1. Acknowledges their emotional state
2. Explains why this session will help
3. Uses the %s coaching tone
4. Feels authentic and supportive

Keep it concise and conversational. No generic fitness clichés.`, rec.CoachingStyle))

	return sb.String()
}

// FallbackMessage is the deterministic template used when the model is
// unavailable. It never changes the recommendation itself, which always comes
// from the knowledge base.
func FallbackMessage(rec *Recommendation) string {
	return fmt.Sprintf("Given how you're feeling %s today, this %s intensity session is designed to meet you where you are. %s",
		rec.Mood, rec.Intensity, rec.Reason)
}
