package persona

import (
	"encoding/json"
	"fmt"
	"strings"

	"fitlab/internal/knowledge"
)

// SystemPrompt pins the model into the persona-designer role.
const SystemPrompt = "You are an expert fitness persona designer. Create a unique, inspiring fitness identity for a user."

// BuildPrompt renders the archetype catalog, the user's input and the literal
// JSON example the extractor expects.
func BuildPrompt(archetypes []knowledge.Archetype, in Input) string {
	catalog, _ := json.MarshalIndent(archetypes, "", "  ")

	workoutStyle := in.WorkoutStyle
	if workoutStyle == "" {
		workoutStyle = "Not specified"
	}
	sessionLength := "Not specified"
	if in.SessionLengthPreference > 0 {
		sessionLength = fmt.Sprintf("%d", in.SessionLengthPreference)
	}

	var sb strings.Builder
	sb.WriteString("EXISTING ARCHETYPES (for reference and inspiration):\n")
	sb.Write(catalog)
	sb.WriteString("\n")

	sb.WriteString("\nUSER INPUT:\n")
	sb.WriteString(fmt.Sprintf("- Traits: %s\n", strings.Join(in.Traits, ", ")))
	sb.WriteString(fmt.Sprintf("- Goals: %s\n", strings.Join(in.Goals, ", ")))
	sb.WriteString(fmt.Sprintf("- Music Preference: %s\n", in.MusicPreference))
	sb.WriteString(fmt.Sprintf("- Workout Style: %s\n", workoutStyle))
	sb.WriteString(fmt.Sprintf("- Session Length Preference: %s\n", sessionLength))

	sb.WriteString(`
TASK:
1. Analyze the user's traits and goals
2. Find the best matching archetype OR create a unique hybrid persona
3. Generate a creative, empowering persona name (format: "The [Adjective] [Noun]")
4. Create a memorable 3-word tagline (format: "Verb. Verb. Verb.")
5. Choose a color palette (2 hex codes that match the persona's energy)
6. Define workout approach and recovery priority
7. Write a 2-3 sentence inspiring description
8. Create a motivational quote that embodies this persona

GUIDELINES:
- Persona names should be inspiring and memorable
- Taglines must be action-oriented and rhythmic
- Color palettes should reflect the persona's energy (bold for intense, calm for gentle)
- Keep descriptions concise but powerful
- Ensure the persona feels authentic and aspirational

Return ONLY valid JSON with this exact structure:
`)
	sb.WriteString(fmt.Sprintf(`{
  "persona_name": "The [Adjective] [Noun]",
  "archetype_match": "name of closest archetype or null if unique",
  "style": "description of training style",
  "tagline": "Verb. Verb. Verb.",
  "traits": ["trait1", "trait2", "trait3"],
  "goals": ["goal1", "goal2"],
  "color_palette": ["#HEX1", "#HEX2"],
  "music_preference": "%s",
  "workout_approach": "approach_description",
  "ideal_session_length": 45,
  "recovery_priority": "low/medium/high",
  "description": "2-3 sentence inspiring description of this persona",
  "motivation_quote": "A powerful quote that embodies this persona's spirit"
}`, in.MusicPreference))

	return sb.String()
}
