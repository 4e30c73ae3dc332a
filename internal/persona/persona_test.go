package persona

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitlab/internal/faults"
	"fitlab/internal/knowledge"
)

func validInput() Input {
	return Input{
		Traits:          []string{"disciplined", "creative"},
		Goals:           []string{"strength"},
		MusicPreference: "instrumental",
	}
}

func TestNormalize(t *testing.T) {
	in := validInput()
	require.NoError(t, in.Normalize())

	in.SessionLengthPreference = 45
	require.NoError(t, in.Normalize())

	in.SessionLengthPreference = 0 // unset is allowed
	require.NoError(t, in.Normalize())
}

func TestNormalizeRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Input)
		field  string
	}{
		{"no traits", func(in *Input) { in.Traits = nil }, "traits"},
		{"too many traits", func(in *Input) {
			in.Traits = []string{"a", "b", "c", "d", "e", "f"}
		}, "traits"},
		{"no goals", func(in *Input) { in.Goals = nil }, "goals"},
		{"too many goals", func(in *Input) { in.Goals = []string{"a", "b", "c", "d"} }, "goals"},
		{"blank music", func(in *Input) { in.MusicPreference = "   " }, "music_preference"},
		{"session too short", func(in *Input) { in.SessionLengthPreference = 5 }, "session_length_preference"},
		{"session too long", func(in *Input) { in.SessionLengthPreference = 121 }, "session_length_preference"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			err := in.Normalize()
			require.Error(t, err)

			var ve *faults.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestOutputValid(t *testing.T) {
	out := Output{PersonaName: "The Quiet Architect", Tagline: "Plan. Build. Repeat.", Description: "x"}
	assert.True(t, out.valid())

	out.Tagline = ""
	assert.False(t, out.valid())
}

func TestBuildPromptContents(t *testing.T) {
	archetypes := []knowledge.Archetype{
		{Name: "The Quiet Architect", Tagline: "Plan. Build. Repeat.", ColorPalette: []string{"#1f2937", "#9ca3af"}},
	}
	in := validInput()
	in.WorkoutStyle = "controlled intensity"
	in.SessionLengthPreference = 45

	prompt := BuildPrompt(archetypes, in)

	assert.Contains(t, prompt, `"The Quiet Architect"`)
	assert.Contains(t, prompt, "- Traits: disciplined, creative")
	assert.Contains(t, prompt, "- Music Preference: instrumental")
	assert.Contains(t, prompt, "- Workout Style: controlled intensity")
	assert.Contains(t, prompt, "- Session Length Preference: 45")
	assert.Contains(t, prompt, `"music_preference": "instrumental"`)
}

func TestBuildPromptDefaults(t *testing.T) {
	prompt := BuildPrompt(nil, validInput())

	assert.Contains(t, prompt, "- Workout Style: Not specified")
	assert.Contains(t, prompt, "- Session Length Preference: Not specified")
}
