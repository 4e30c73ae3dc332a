package progression

import (
	"fmt"
	"strings"
)

// SystemPrompt pins the model into the strength-coach role.
const SystemPrompt = "You are an expert strength coach analyzing workout progression data."

// BuildPrompt renders the history summary, computed stats, goal policy, safety
// rules and the literal JSON example the extractor expects.
func BuildPrompt(in Input) string {
	lines := make([]string, 0, len(in.History))
	for _, entry := range in.History {
		lines = append(lines, fmt.Sprintf("- %s: %dx%d @ %gkg, RPE %d",
			entry.Date, entry.Sets, entry.Reps, entry.Weight, entry.RPE))
	}

	latest := in.History[len(in.History)-1]
	earliest := in.History[0]
	weightIncrease := latest.Weight - earliest.Weight

	var rpeSum int
	for _, entry := range in.History {
		rpeSum += entry.RPE
	}
	avgRPE := float64(rpeSum) / float64(len(in.History))

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("EXERCISE: %s\n", in.Exercise))
	sb.WriteString(fmt.Sprintf("TRAINING GOAL: %s\n", in.Goal))

	sb.WriteString("\nWORKOUT HISTORY:\n")
	sb.WriteString(strings.Join(lines, "\n"))
	sb.WriteString("\n")

	sb.WriteString("\nCURRENT STATS:\n")
	sb.WriteString(fmt.Sprintf("- Latest workout: %dx%d @ %gkg, RPE %d\n",
		latest.Sets, latest.Reps, latest.Weight, latest.RPE))
	sb.WriteString(fmt.Sprintf("- Total weight increase: %gkg over %d sessions\n",
		weightIncrease, len(in.History)))
	sb.WriteString(fmt.Sprintf("- Average RPE: %.1f/10\n", avgRPE))

	sb.WriteString(`
INSTRUCTIONS:
1. Analyze the progression pattern (is the athlete improving consistently?)
2. Evaluate RPE trends (are they managing fatigue well?)
3. Recommend the next workout prescription based on their goal:
   - Strength: Focus on progressive overload (weight or reps)
   - Hypertrophy: Focus on volume and time under tension
   - Endurance: Focus on reps and work capacity
4. Determine if a deload is needed (if RPE consistently high or performance stalling)
5. Provide 2-3 specific coaching tips

SAFETY RULES:
- Never recommend more than 5% weight increase per session
- If last RPE was 9-10, recommend same weight or deload
- If performance declined, recommend maintaining or reducing load
- Always prioritize sustainable progression over aggressive gains

Return your response in this JSON format:
`)
	sb.WriteString(fmt.Sprintf(`{
  "exercise": "%s",
  "current_performance": {
    "weight": %g,
    "sets": %d,
    "reps": %d,
    "rpe": %d,
    "volume": (calculate sets * reps * weight)
  },
  "recommended_next": {
    "weight": (recommended weight in kg),
    "sets": (recommended sets),
    "reps": (recommended reps),
    "target_rpe": (target RPE 1-10)
  },
  "progression_rate": "conservative/moderate/aggressive",
  "rationale": "Brief explanation of why this progression is appropriate",
  "deload_suggested": true/false,
  "tips": [
    "Specific coaching tip 1",
    "Specific coaching tip 2",
    "Specific coaching tip 3"
  ]
}`, in.Exercise, latest.Weight, latest.Sets, latest.Reps, latest.RPE))

	return sb.String()
}

// FallbackRecommendation is the deterministic substitute when the model call
// fails or its reply cannot be parsed: +2.5kg when the latest RPE allows it,
// otherwise hold the weight. The increment never exceeds 2.5kg.
func FallbackRecommendation(in Input, cause error) *Recommendation {
	latest := in.History[len(in.History)-1]

	nextWeight := latest.Weight
	if latest.RPE < 8 {
		nextWeight = latest.Weight + 2.5
	}

	return &Recommendation{
		Exercise: in.Exercise,
		CurrentPerformance: Performance{
			Weight: latest.Weight,
			Sets:   latest.Sets,
			Reps:   latest.Reps,
			RPE:    latest.RPE,
			Volume: latest.Volume(),
		},
		RecommendedNext: Prescription{
			Weight:    nextWeight,
			Sets:      latest.Sets,
			Reps:      latest.Reps,
			TargetRPE: 7,
		},
		ProgressionRate: "moderate",
		Rationale:       fmt.Sprintf("Conservative progression based on recent performance (fallback: %s)", cause.Error()),
		DeloadSuggested: false,
		Tips: []string{
			"Focus on maintaining good form",
			"Monitor RPE carefully",
			"Progressive overload should be gradual",
		},
	}
}
