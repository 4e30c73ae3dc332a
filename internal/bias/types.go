/*
Package bias implements the Cognitive Bias Antidote experiment: it detects
cognitive distortions in fitness self-talk and answers with evidence-based
reframes, backed by a keyword matcher over the local bias knowledge base.
*/
package bias

import (
	"sort"
	"strings"

	"fitlab/internal/faults"
	"fitlab/internal/knowledge"
)

/* =================================================================================
							DTOs (Data Transfer Objects)
=================================================================================*/

// Input is the payload expected from the client. UserHistory is opaque and
// passed through into the prompt unmodified.
type Input struct {
	Thought     string                 `json:"thought"`
	Context     string                 `json:"context,omitempty"`
	UserHistory map[string]interface{} `json:"user_history,omitempty"`
}

// InterventionDetails explains the suggested intervention.
type InterventionDetails struct {
	Action string `json:"action"`
	Why    string `json:"why"`
}

// Detection is one detected cognitive bias with its reframe.
type Detection struct {
	BiasType            string              `json:"bias_type"`
	BiasDescription     string              `json:"bias_description"`
	Confidence          float64             `json:"confidence"`
	OriginalThought     string              `json:"original_thought"`
	DetectedPatterns    []string            `json:"detected_patterns"`
	Reframe             string              `json:"reframe"`
	Intervention        string              `json:"intervention"`
	InterventionDetails InterventionDetails `json:"intervention_details"`
	CoachingTone        string              `json:"coaching_tone"`
	ActionableNextStep  string              `json:"actionable_next_step"`
	Affirmation         string              `json:"affirmation"`
}

// Analysis is the complete response for one analyzed thought.
type Analysis struct {
	OriginalThought   string      `json:"original_thought"`
	Context           string      `json:"context,omitempty"`
	PrimaryBias       Detection   `json:"primary_bias"`
	SecondaryBiases   []Detection `json:"secondary_biases"`
	OverallAssessment string      `json:"overall_assessment"`
	RecommendedAction string      `json:"recommended_action"`
	Timestamp         string      `json:"timestamp"`
}

// Normalize validates the input.
func (in *Input) Normalize() error {
	in.Thought = strings.TrimSpace(in.Thought)
	if len(in.Thought) < 5 {
		return faults.NewValidation("thought", "must be at least 5 characters")
	}
	return nil
}

/* =================================================================================
								KEYWORD MATCHER
=================================================================================*/

// Match pairs a bias record with the patterns a thought triggered.
type Match struct {
	Bias            knowledge.BiasRecord
	MatchedPatterns []string
	Confidence      float64
}

// FindMatchingBiases scores every bias record against the thought. A pattern
// counts as matched when any of its first three lowercased words occurs in
// the lowercased thought. Confidence is the fraction of the record's patterns
// that matched. Results are sorted by confidence descending; ties keep the
// knowledge-base order.
func FindMatchingBiases(records []knowledge.BiasRecord, thought string) []Match {
	thoughtLower := strings.ToLower(thought)

	var matches []Match
	for _, record := range records {
		var matched []string
		for _, pattern := range record.Patterns {
			words := strings.Fields(strings.ToLower(pattern))
			if len(words) > 3 {
				words = words[:3]
			}
			for _, word := range words {
				if strings.Contains(thoughtLower, word) {
					matched = append(matched, pattern)
					break
				}
			}
		}
		if len(matched) > 0 {
			matches = append(matches, Match{
				Bias:            record,
				MatchedPatterns: matched,
				Confidence:      float64(len(matched)) / float64(len(record.Patterns)),
			})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Confidence > matches[j].Confidence
	})

	return matches
}
