package bias

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitlab/internal/faults"
	"fitlab/internal/knowledge"
)

func testRecords() []knowledge.BiasRecord {
	return []knowledge.BiasRecord{
		{
			Type:        "all_or_nothing",
			Description: "Seeing things in absolute terms",
			Patterns: []string{
				"always fail at this",
				"never going to work",
				"completely ruined everything",
				"totally useless effort",
			},
			Reframes:      []string{"One missed session is a data point, not a verdict"},
			Interventions: []string{"thought record"},
			CoachingTone:  "supportive",
		},
		{
			Type:        "catastrophizing",
			Description: "Assuming the worst outcome",
			Patterns: []string{
				"disaster waiting to happen",
				"ruined my whole plan",
			},
			Reframes:      []string{"Ask what the most likely outcome actually is"},
			Interventions: []string{"decatastrophizing exercise"},
			CoachingTone:  "calming",
		},
	}
}

func TestNormalizeTrimsAndRejectsShortThought(t *testing.T) {
	in := Input{Thought: "   ugh  "}
	err := in.Normalize()
	require.Error(t, err)

	var ve *faults.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "thought", ve.Field)

	in = Input{Thought: "  I always mess this up  "}
	require.NoError(t, in.Normalize())
	assert.Equal(t, "I always mess this up", in.Thought)
}

func TestFindMatchingBiasesScoresByPatternFraction(t *testing.T) {
	// "always" and "never" hit 2 of the 4 all_or_nothing patterns;
	// nothing matches catastrophizing.
	matches := FindMatchingBiases(testRecords(), "I always skip leg day and never recover")

	require.Len(t, matches, 1)
	assert.Equal(t, "all_or_nothing", matches[0].Bias.Type)
	assert.InDelta(t, 0.5, matches[0].Confidence, 1e-9)
	assert.ElementsMatch(t, []string{"always fail at this", "never going to work"}, matches[0].MatchedPatterns)
}

func TestFindMatchingBiasesSortsByConfidence(t *testing.T) {
	// "disaster", "ruined" and "my" hit both catastrophizing patterns but
	// only 1 of 4 all_or_nothing patterns, so catastrophizing sorts first.
	matches := FindMatchingBiases(testRecords(), "this is a disaster, it ruined my week")

	require.Len(t, matches, 2)
	assert.Equal(t, "catastrophizing", matches[0].Bias.Type)
	assert.Equal(t, "all_or_nothing", matches[1].Bias.Type)
	assert.InDelta(t, 1.0, matches[0].Confidence, 1e-9)
	assert.InDelta(t, 0.25, matches[1].Confidence, 1e-9)
}

func TestFindMatchingBiasesPreservesOrderOnTies(t *testing.T) {
	records := []knowledge.BiasRecord{
		{Type: "first", Patterns: []string{"always behind"}},
		{Type: "second", Patterns: []string{"always late"}},
	}
	matches := FindMatchingBiases(records, "I am always tired")

	require.Len(t, matches, 2)
	assert.Equal(t, "first", matches[0].Bias.Type)
	assert.Equal(t, "second", matches[1].Bias.Type)
}

func TestFindMatchingBiasesNoMatches(t *testing.T) {
	matches := FindMatchingBiases(testRecords(), "solid session, good mood")
	assert.Empty(t, matches)
}

func TestFindMatchingBiasesOnlyFirstThreePatternWords(t *testing.T) {
	records := []knowledge.BiasRecord{
		{Type: "long_pattern", Patterns: []string{"one two three hidden"}},
	}
	assert.Empty(t, FindMatchingBiases(records, "the hidden word stays quiet"),
		"words past the third in a pattern are ignored")
	assert.Len(t, FindMatchingBiases(records, "two of them"), 1)
}

func TestFallbackAnalysis(t *testing.T) {
	in := Input{Thought: "I always fail", Context: "after a missed session"}
	matches := FindMatchingBiases(testRecords(), in.Thought)
	require.NotEmpty(t, matches)

	analysis := FallbackAnalysis(in, matches[0])

	assert.Equal(t, in.Thought, analysis.OriginalThought)
	assert.Equal(t, "all_or_nothing", analysis.PrimaryBias.BiasType)
	assert.Equal(t, "One missed session is a data point, not a verdict", analysis.PrimaryBias.Reframe)
	assert.Equal(t, "thought record", analysis.PrimaryBias.Intervention)
	assert.Equal(t, "Try a thought record", analysis.PrimaryBias.InterventionDetails.Action)
	assert.Equal(t, "supportive", analysis.PrimaryBias.CoachingTone)
	assert.Contains(t, analysis.OverallAssessment, "all_or_nothing")
	assert.NotEmpty(t, analysis.Timestamp)
	assert.NotNil(t, analysis.SecondaryBiases)
}

func TestBuildPromptContents(t *testing.T) {
	in := Input{Thought: "I always fail"}
	prompt := BuildPrompt(testRecords(), in)

	assert.Contains(t, prompt, `USER'S THOUGHT: "I always fail"`)
	assert.Contains(t, prompt, "CONTEXT: No additional context")
	assert.Contains(t, prompt, "USER HISTORY: No history provided")
	assert.Contains(t, prompt, `"all_or_nothing"`)
	assert.Contains(t, prompt, "FORMAT YOUR RESPONSE AS JSON")

	in.Context = "post-injury comeback"
	in.UserHistory = map[string]interface{}{"weeks_active": 6}
	prompt = BuildPrompt(testRecords(), in)
	assert.Contains(t, prompt, "CONTEXT: post-injury comeback")
	assert.Contains(t, prompt, `"weeks_active": 6`)
}
