package bias

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"fitlab/internal/knowledge"
)

// SystemPrompt pins the model into the CBT-coach role.
const SystemPrompt = "You are an expert fitness psychology coach specializing in cognitive behavioral therapy (CBT) for athletes and fitness enthusiasts."

// modelBias mirrors the per-bias shape the prompt asks the model to emit.
type modelBias struct {
	Type                string              `json:"type"`
	Description         string              `json:"description"`
	Confidence          float64             `json:"confidence"`
	DetectedPatterns    []string            `json:"detected_patterns"`
	Reframe             string              `json:"reframe"`
	Intervention        string              `json:"intervention"`
	InterventionDetails InterventionDetails `json:"intervention_details"`
	CoachingTone        string              `json:"coaching_tone"`
	ActionableNextStep  string              `json:"actionable_next_step"`
	Affirmation         string              `json:"affirmation"`
}

// modelAnalysis mirrors the top-level reply shape.
type modelAnalysis struct {
	PrimaryBias       modelBias   `json:"primary_bias"`
	SecondaryBiases   []modelBias `json:"secondary_biases"`
	OverallAssessment string      `json:"overall_assessment"`
	RecommendedAction string      `json:"recommended_action"`
}

// BuildPrompt renders the thought, its context, the full bias catalog and the
// literal JSON schema the extractor expects.
func BuildPrompt(records []knowledge.BiasRecord, in Input) string {
	catalog, _ := json.MarshalIndent(map[string]interface{}{"biases": records}, "", "  ")

	userContext := "No history provided"
	if in.UserHistory != nil {
		if raw, err := json.MarshalIndent(in.UserHistory, "", "  "); err == nil {
			userContext = string(raw)
		}
	}

	thoughtContext := in.Context
	if thoughtContext == "" {
		thoughtContext = "No additional context"
	}

	var sb strings.Builder
	sb.WriteString("TASK: Analyze the following thought for cognitive biases/distortions that harm fitness progress.\n\n")
	sb.WriteString(fmt.Sprintf("USER'S THOUGHT: %q\n", in.Thought))
	sb.WriteString(fmt.Sprintf("CONTEXT: %s\n", thoughtContext))
	sb.WriteString(fmt.Sprintf("USER HISTORY: %s\n", userContext))

	sb.WriteString("\nAVAILABLE COGNITIVE BIASES DATABASE:\n")
	sb.Write(catalog)
	sb.WriteString("\n")

	sb.WriteString(`
INSTRUCTIONS:
1. Identify the PRIMARY cognitive bias present in this thought (the most dominant one)
2. Identify any SECONDARY biases (up to 2 additional ones if present)
3. For each bias detected:
   - Explain why this pattern matches the bias
   - Provide a compassionate, evidence-based reframe
   - Suggest a specific intervention from the database
   - Recommend an actionable next step
   - Create a short affirmation statement

4. Provide an overall assessment and recommended action

IMPORTANT:
- Be specific and personalized to the user's actual thought
- Use a warm, non-judgmental tone
- Focus on actionable solutions
- Reference fitness science and psychology where relevant
- If the thought doesn't contain a bias, say so and provide supportive coaching instead

FORMAT YOUR RESPONSE AS JSON:
{
  "primary_bias": {
    "type": "bias_type_from_database",
    "description": "brief explanation of the bias",
    "confidence": 0.0-1.0,
    "detected_patterns": ["specific phrases that match"],
    "reframe": "compassionate reframe specific to this thought",
    "intervention": "intervention_type_from_database",
    "intervention_details": {
      "action": "specific action to take",
      "why": "why this will help"
    },
    "coaching_tone": "tone_from_database",
    "actionable_next_step": "one specific thing to do right now",
    "affirmation": "short positive affirmation"
  },
  "secondary_biases": [],
  "overall_assessment": "2-3 sentence summary of the thought pattern",
  "recommended_action": "primary recommendation for moving forward"
}`)

	return sb.String()
}

// toDetection stamps the original thought onto a model-emitted bias block.
func (m modelBias) toDetection(thought string) Detection {
	return Detection{
		BiasType:            m.Type,
		BiasDescription:     m.Description,
		Confidence:          m.Confidence,
		OriginalThought:     thought,
		DetectedPatterns:    m.DetectedPatterns,
		Reframe:             m.Reframe,
		Intervention:        m.Intervention,
		InterventionDetails: m.InterventionDetails,
		CoachingTone:        m.CoachingTone,
		ActionableNextStep:  m.ActionableNextStep,
		Affirmation:         m.Affirmation,
	}
}

// FallbackAnalysis builds a rule-based analysis from the strongest keyword
// match. It requires at least one match; zero matches leave nothing to say
// and the caller surfaces the model failure instead.
func FallbackAnalysis(in Input, match Match) *Analysis {
	bias := match.Bias
	return &Analysis{
		OriginalThought: in.Thought,
		Context:         in.Context,
		PrimaryBias: Detection{
			BiasType:         bias.Type,
			BiasDescription:  bias.Description,
			Confidence:       match.Confidence,
			OriginalThought:  in.Thought,
			DetectedPatterns: match.MatchedPatterns,
			Reframe:          bias.Reframes[0],
			Intervention:     bias.Interventions[0],
			InterventionDetails: InterventionDetails{
				Action: fmt.Sprintf("Try a %s", bias.Interventions[0]),
				Why:    "This will help reframe your thinking",
			},
			CoachingTone:       bias.CoachingTone,
			ActionableNextStep: "Take one small action toward your goal right now",
			Affirmation:        "You are capable of growth and progress",
		},
		SecondaryBiases:   []Detection{},
		OverallAssessment: fmt.Sprintf("This thought shows signs of %s thinking. Remember: progress isn't perfect.", bias.Type),
		RecommendedAction: "Focus on one small action you can take right now",
		Timestamp:         time.Now().Format(time.RFC3339),
	}
}
