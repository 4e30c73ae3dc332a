/*
Package emotion implements the Emotion-Aligned Training experiment: it maps
emotional state to workout intensity and coaching tone from the local mood
knowledge base, then asks the model for a short personalized session intro.
*/
package emotion

import (
	"strings"

	"fitlab/internal/faults"
	"fitlab/internal/knowledge"
)

/* =================================================================================
							DTOs (Data Transfer Objects)
=================================================================================*/

// Input is the payload expected from the client.
type Input struct {
	Mood   string `json:"mood"`
	Energy int    `json:"energy"` // 1-10
	Stress int    `json:"stress"` // 1-10
}

// Recommendation is assembled locally from the mood knowledge base; only the
// AIMessage field involves the model.
type Recommendation struct {
	Mood               string                       `json:"mood"`
	Energy             int                          `json:"energy"`
	Stress             int                          `json:"stress"`
	RecommendedSession string                       `json:"recommended_session"`
	CoachingStyle      string                       `json:"coaching_style"`
	Reason             string                       `json:"reason"`
	WorkoutTypes       []string                     `json:"workout_types"`
	DurationRange      []int                        `json:"duration_range"`
	Intensity          string                       `json:"intensity"`
	IntensityDetails   knowledge.IntensityGuideline `json:"intensity_details"`
	CoachingDetails    knowledge.CoachingTone       `json:"coaching_details"`
	ExamplePhrases     []string                     `json:"example_phrases"`
	AllExampleSessions []string                     `json:"all_example_sessions"`
	AIMessage          string                       `json:"ai_message,omitempty"`
}

var validMoods = []string{
	"anxious", "energetic", "tired", "motivated", "frustrated",
	"sad", "overwhelmed", "confident", "restless", "content",
	"excited", "neutral",
}

// Normalize validates the input against the mood enum and the numeric bounds.
func (in *Input) Normalize() error {
	in.Mood = strings.ToLower(strings.TrimSpace(in.Mood))
	valid := false
	for _, m := range validMoods {
		if in.Mood == m {
			valid = true
			break
		}
	}
	if !valid {
		return faults.NewValidation("mood", "must be one of: %s", strings.Join(validMoods, ", "))
	}

	if in.Energy < 1 || in.Energy > 10 {
		return faults.NewValidation("energy", "must be between 1 and 10")
	}
	if in.Stress < 1 || in.Stress > 10 {
		return faults.NewValidation("stress", "must be between 1 and 10")
	}

	return nil
}

// BuildRecommendation assembles the local recommendation from the knowledge
// base. The mood must exist in the mapping data; an unknown mood is a client
// fault and no model call is made.
func BuildRecommendation(kb *knowledge.Base, in Input) (*Recommendation, error) {
	mapping, err := kb.MoodMapping(in.Mood)
	if err != nil {
		return nil, err
	}

	coachingDetails := kb.CoachingTone(mapping.CoachingTone)
	intensityDetails := kb.IntensityGuideline(mapping.RecommendedIntensity)

	recommendedSession := "Custom session"
	if len(mapping.ExampleSessions) > 0 {
		recommendedSession = mapping.ExampleSessions[0]
	}

	return &Recommendation{
		Mood:               in.Mood,
		Energy:             in.Energy,
		Stress:             in.Stress,
		RecommendedSession: recommendedSession,
		CoachingStyle:      mapping.CoachingTone,
		Reason:             mapping.WhyThisWorks,
		WorkoutTypes:       mapping.WorkoutTypes,
		DurationRange:      mapping.Duration,
		Intensity:          mapping.RecommendedIntensity,
		IntensityDetails:   intensityDetails,
		CoachingDetails:    coachingDetails,
		ExamplePhrases:     coachingDetails.ExamplePhrases,
		AllExampleSessions: mapping.ExampleSessions,
	}, nil
}
