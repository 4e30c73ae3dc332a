package knowledge

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitlab/internal/faults"
)

func TestLoadDatasets(t *testing.T) {
	kb, err := Load("../../datasets")
	require.NoError(t, err)

	assert.Len(t, kb.Biases(), 6)
	assert.Len(t, kb.Moods(), 12)
	assert.Len(t, kb.Archetypes(), 5)
	assert.Len(t, kb.SampleWorkouts(), 3)
	assert.Len(t, kb.SampleTimeBlocks(), 3)
}

func TestLoadMissingDir(t *testing.T) {
	_, err := Load(t.TempDir())
	require.Error(t, err)
}

func TestMoodMapping(t *testing.T) {
	kb, err := Load("../../datasets")
	require.NoError(t, err)

	mapping, err := kb.MoodMapping("anxious")
	require.NoError(t, err)
	assert.Equal(t, "low-moderate", mapping.RecommendedIntensity)
	assert.Equal(t, "calming", mapping.CoachingTone)
	assert.Equal(t, []int{20, 40}, mapping.Duration)
	require.Len(t, mapping.ExampleSessions, 3)

	_, err = kb.MoodMapping("euphoric")
	require.Error(t, err)
	var nf *faults.NotFoundError
	assert.True(t, errors.As(err, &nf))
}

func TestToneAndIntensityLookups(t *testing.T) {
	kb, err := Load("../../datasets")
	require.NoError(t, err)

	tone := kb.CoachingTone("calming")
	assert.NotEmpty(t, tone.Description)
	assert.NotEmpty(t, tone.ExamplePhrases)

	guideline := kb.IntensityGuideline("low-moderate")
	assert.NotEmpty(t, guideline.HeartRateZone)

	// unknown labels fall through to the zero value
	assert.Empty(t, kb.CoachingTone("sarcastic").Description)
}

func TestBiasCatalog(t *testing.T) {
	kb, err := Load("../../datasets")
	require.NoError(t, err)

	types := kb.BiasTypes()
	assert.Contains(t, types, "all_or_nothing")
	assert.Contains(t, types, "catastrophizing")

	for _, rec := range kb.Biases() {
		assert.NotEmpty(t, rec.Patterns, rec.Type)
		assert.NotEmpty(t, rec.Reframes, rec.Type)
		assert.NotEmpty(t, rec.Interventions, rec.Type)
	}
}

func TestSampleWorkoutIndex(t *testing.T) {
	kb, err := Load("../../datasets")
	require.NoError(t, err)

	w, err := kb.SampleWorkout(0)
	require.NoError(t, err)
	assert.NotEmpty(t, w.Name)
	assert.NotEmpty(t, w.Exercises)

	_, err = kb.SampleWorkout(99)
	require.Error(t, err)
	_, err = kb.SampleWorkout(-1)
	require.Error(t, err)
}
