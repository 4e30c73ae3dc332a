package emotion

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitlab/internal/faults"
	"fitlab/internal/knowledge"
)

func loadBase(t *testing.T) *knowledge.Base {
	t.Helper()
	kb, err := knowledge.Load("../../datasets")
	require.NoError(t, err)
	return kb
}

func TestNormalize(t *testing.T) {
	in := Input{Mood: "  Anxious ", Energy: 4, Stress: 7}
	require.NoError(t, in.Normalize())
	assert.Equal(t, "anxious", in.Mood)
}

func TestNormalizeRejections(t *testing.T) {
	tests := []struct {
		name  string
		in    Input
		field string
	}{
		{"unknown mood", Input{Mood: "hangry", Energy: 5, Stress: 5}, "mood"},
		{"energy low", Input{Mood: "tired", Energy: 0, Stress: 5}, "energy"},
		{"energy high", Input{Mood: "tired", Energy: 11, Stress: 5}, "energy"},
		{"stress out of range", Input{Mood: "tired", Energy: 5, Stress: 11}, "stress"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Normalize()
			require.Error(t, err)

			var ve *faults.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestBuildRecommendationFromKnowledgeBase(t *testing.T) {
	kb := loadBase(t)

	rec, err := BuildRecommendation(kb, Input{Mood: "anxious", Energy: 4, Stress: 8})
	require.NoError(t, err)

	assert.Equal(t, "anxious", rec.Mood)
	assert.Equal(t, "calming", rec.CoachingStyle)
	assert.Equal(t, "low-moderate", rec.Intensity)
	assert.Equal(t, []int{20, 40}, rec.DurationRange)
	assert.Contains(t, rec.WorkoutTypes, "yoga")
	assert.NotEmpty(t, rec.Reason)
	require.NotEmpty(t, rec.AllExampleSessions)
	assert.Equal(t, rec.AllExampleSessions[0], rec.RecommendedSession)
	assert.NotEmpty(t, rec.ExamplePhrases)
	assert.NotEmpty(t, rec.IntensityDetails.Description)
	assert.Empty(t, rec.AIMessage, "the knowledge-base pass never sets the model message")
}

func TestBuildRecommendationUnknownMood(t *testing.T) {
	kb := loadBase(t)

	_, err := BuildRecommendation(kb, Input{Mood: "ecstatic", Energy: 5, Stress: 5})
	require.Error(t, err)

	var nf *faults.NotFoundError
	assert.True(t, errors.As(err, &nf))
}

func TestFallbackMessage(t *testing.T) {
	rec := &Recommendation{
		Mood:      "tired",
		Intensity: "low",
		Reason:    "Gentle movement restores energy without adding load.",
	}
	msg := FallbackMessage(rec)

	assert.Contains(t, msg, "feeling tired today")
	assert.Contains(t, msg, "this low intensity session")
	assert.Contains(t, msg, rec.Reason)
}

func TestBuildPromptContents(t *testing.T) {
	rec := &Recommendation{
		Mood:          "anxious",
		Energy:        4,
		Stress:        8,
		Intensity:     "low-moderate",
		CoachingStyle: "calming",
		DurationRange: []int{20, 40},
		WorkoutTypes:  []string{"yoga", "walking"},
	}
	prompt := BuildPrompt(rec)

	assert.Contains(t, prompt, "- Mood: anxious")
	assert.Contains(t, prompt, "- Energy Level: 4/10")
	assert.Contains(t, prompt, "- Duration: 20-40 minutes")
	assert.Contains(t, prompt, "- Workout Types: yoga, walking")
	assert.Contains(t, prompt, "Uses the calming coaching tone")
}
