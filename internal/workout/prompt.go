package workout

import (
	"fmt"
	"strings"
)

// SystemPrompt pins the model into the coach role for this experiment.
const SystemPrompt = "You are an expert fitness coach creating a personalized workout."

// BuildPrompt renders the user profile, adaptation instructions, safety rules
// and the literal JSON example the extractor expects.
func BuildPrompt(in Input) string {
	var sb strings.Builder

	sb.WriteString("USER PROFILE:\n")
	sb.WriteString(fmt.Sprintf("- Fitness Level: %s\n", in.FitnessLevel))
	sb.WriteString(fmt.Sprintf("- Goals: %s\n", strings.Join(in.Goals, ", ")))
	sb.WriteString(fmt.Sprintf("- Time Available: %d minutes\n", in.TimeAvailable))
	sb.WriteString(fmt.Sprintf("- Equipment: %s\n", strings.Join(in.Equipment, ", ")))
	sb.WriteString(fmt.Sprintf("- Current Fatigue: %d/10\n", in.Fatigue))
	sb.WriteString(fmt.Sprintf("- Current Stress: %d/10\n", in.Stress))
	sb.WriteString(fmt.Sprintf("- Sleep Last Night: %g hours\n", in.SleepHours))

	sb.WriteString("\nINSTRUCTIONS:\n")
	sb.WriteString("1. Design a workout that adapts to their current state (fatigue, stress, sleep)\n")
	sb.WriteString("2. Include 4-6 exercises appropriate for their fitness level\n")
	sb.WriteString("3. Provide sets and reps for each exercise\n")
	sb.WriteString("4. Include a brief rationale explaining why this workout suits their current condition\n")
	sb.WriteString(fmt.Sprintf("5. Keep the total duration within %d minutes\n", in.TimeAvailable))

	sb.WriteString("\nSAFETY RULES:\n")
	sb.WriteString("- If fatigue > 7, reduce volume and intensity\n")
	sb.WriteString("- If sleep < 5 hours, focus on mobility/light activity\n")
	sb.WriteString("- If stress > 8, include calming elements\n")
	sb.WriteString("- Never prescribe maximal loads or advanced techniques for beginners\n")

	sb.WriteString("\nReturn your response in this JSON format:\n")
	sb.WriteString(fmt.Sprintf(`{
  "workout": [
    {"exercise": "Exercise Name", "sets": 3, "reps": "8-12", "rest": "60s", "notes": "Form cues"}
  ],
  "total_duration": %d,
  "intensity_level": "moderate",
  "rationale": "Explanation of why this workout suits their current state"
}`, in.TimeAvailable))

	return sb.String()
}

// FallbackPlan is the deterministic substitute when the model call fails or
// its reply cannot be parsed. It never re-calls the model.
func FallbackPlan(in Input, cause error) *Plan {
	return &Plan{
		Workout: []PlanExercise{
			{Exercise: "Bodyweight Squat", Sets: 3, Reps: "10-12", Rest: "60s", Notes: "Keep chest up"},
			{Exercise: "Push-ups", Sets: 3, Reps: "8-10", Rest: "60s", Notes: "Modify on knees if needed"},
		},
		TotalDuration:  in.TimeAvailable,
		IntensityLevel: "moderate",
		Rationale:      fmt.Sprintf("Adaptive workout generated (fallback: %s)", cause.Error()),
	}
}
