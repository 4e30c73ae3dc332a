/*
Package persona implements the Fitness Persona Generator experiment: it turns
traits, goals and preferences into a unique fitness identity card.
*/
package persona

import (
	"strings"

	"fitlab/internal/faults"
)

/* =================================================================================
							DTOs (Data Transfer Objects)
=================================================================================*/

// Input is the payload for persona generation.
type Input struct {
	Traits                  []string `json:"traits"`
	Goals                   []string `json:"goals"`
	MusicPreference         string   `json:"music_preference"`
	WorkoutStyle            string   `json:"workout_style,omitempty"`
	SessionLengthPreference int      `json:"session_length_preference,omitempty"`
}

// Output is the generated identity card.
type Output struct {
	PersonaName        string   `json:"persona_name"`
	ArchetypeMatch     string   `json:"archetype_match,omitempty"`
	Style              string   `json:"style"`
	Tagline            string   `json:"tagline"`
	Traits             []string `json:"traits"`
	Goals              []string `json:"goals"`
	ColorPalette       []string `json:"color_palette"`
	MusicPreference    string   `json:"music_preference"`
	WorkoutApproach    string   `json:"workout_approach"`
	IdealSessionLength int      `json:"ideal_session_length"`
	RecoveryPriority   string   `json:"recovery_priority"`
	Description        string   `json:"description"`
	MotivationQuote    string   `json:"motivation_quote"`
}

// Normalize validates the input against its declared constraints.
func (in *Input) Normalize() error {
	if len(in.Traits) < 1 || len(in.Traits) > 5 {
		return faults.NewValidation("traits", "must contain between 1 and 5 items")
	}
	if len(in.Goals) < 1 || len(in.Goals) > 3 {
		return faults.NewValidation("goals", "must contain between 1 and 3 items")
	}
	if strings.TrimSpace(in.MusicPreference) == "" {
		return faults.NewValidation("music_preference", "music preference is required")
	}
	if in.SessionLengthPreference != 0 &&
		(in.SessionLengthPreference < 10 || in.SessionLengthPreference > 120) {
		return faults.NewValidation("session_length_preference", "must be between 10 and 120 minutes")
	}
	return nil
}

// valid reports whether a decoded reply carries the shape the card needs.
func (o *Output) valid() bool {
	return o.PersonaName != "" && o.Tagline != "" && o.Description != ""
}
