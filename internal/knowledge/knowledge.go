/*
Package knowledge holds the static reference documents the experiments consult:
the cognitive-bias catalog, the mood-to-session mapping, the persona archetypes,
and the sample workouts. Everything is loaded once at startup and is read-only
for the lifetime of the process.
*/
package knowledge

import "fitlab/internal/faults"

// BiasRecord is one entry of the cognitive-bias catalog.
type BiasRecord struct {
	Type          string   `json:"type"`
	Description   string   `json:"description"`
	Patterns      []string `json:"patterns"`
	Reframes      []string `json:"reframes"`
	Interventions []string `json:"interventions"`
	CoachingTone  string   `json:"coaching_tone"`
}

type biasDocument struct {
	Biases []BiasRecord `json:"biases"`
}

// MoodMapping links one mood to its recommended session parameters.
type MoodMapping struct {
	Mood                 string   `json:"mood"`
	WorkoutTypes         []string `json:"workout_types"`
	Duration             []int    `json:"duration"` // [min, max] minutes
	RecommendedIntensity string   `json:"recommended_intensity"`
	CoachingTone         string   `json:"coaching_tone"`
	WhyThisWorks         string   `json:"why_this_works"`
	ExampleSessions      []string `json:"example_sessions"`
}

// CoachingTone describes how the coach should talk for a given tone label.
type CoachingTone struct {
	Description    string   `json:"description"`
	ExamplePhrases []string `json:"example_phrases"`
}

// IntensityGuideline describes what a named intensity level means in practice.
type IntensityGuideline struct {
	Description     string `json:"description"`
	HeartRateZone   string `json:"heart_rate_zone"`
	PerceivedEffort string `json:"perceived_effort"`
}

type emotionDocument struct {
	Mappings            []MoodMapping                 `json:"mappings"`
	CoachingTones       map[string]CoachingTone       `json:"coaching_tones"`
	IntensityGuidelines map[string]IntensityGuideline `json:"intensity_guidelines"`
}

// Archetype is a reference persona the generator can match against.
type Archetype struct {
	Name             string   `json:"name"`
	Style            string   `json:"style"`
	Tagline          string   `json:"tagline"`
	Traits           []string `json:"traits"`
	Goals            []string `json:"goals"`
	ColorPalette     []string `json:"color_palette"`
	WorkoutApproach  string   `json:"workout_approach"`
	RecoveryPriority string   `json:"recovery_priority"`
	Description      string   `json:"description"`
}

type personaDocument struct {
	Archetypes []Archetype `json:"archetypes"`
}

// Exercise is one movement inside a workout. Sets, reps and rest stay as
// strings because sample data mixes numbers with values like "AMRAP" or
// "as needed".
type Exercise struct {
	Name     string `json:"name"`
	Duration int    `json:"duration"` // minutes
	Category string `json:"category"` // mobility, strength, cardio, core
	Priority string `json:"priority,omitempty"`
	Sets     string `json:"sets,omitempty"`
	Reps     string `json:"reps,omitempty"`
	Rest     string `json:"rest,omitempty"`
	Color    string `json:"color,omitempty"` // filled in for visualization only
}

// Workout is a named, ordered exercise list with a total duration.
type Workout struct {
	Name          string     `json:"name"`
	TotalDuration int        `json:"total_duration"`
	Exercises     []Exercise `json:"exercises"`
}

// TimeBlockScenario pairs a schedule description with its free time blocks.
type TimeBlockScenario struct {
	Scenario        string `json:"scenario"`
	AvailableBlocks []int  `json:"available_blocks"`
}

type workoutDocument struct {
	SampleWorkouts   []Workout           `json:"sample_workouts"`
	SampleTimeBlocks []TimeBlockScenario `json:"sample_time_blocks"`
}

// Base bundles every loaded knowledge document.
type Base struct {
	biases   biasDocument
	emotions emotionDocument
	personas personaDocument
	workouts workoutDocument
}

// Biases returns the full bias catalog in document order.
func (b *Base) Biases() []BiasRecord {
	return b.biases.Biases
}

// BiasTypes returns just the type labels, for form pages.
func (b *Base) BiasTypes() []string {
	types := make([]string, 0, len(b.biases.Biases))
	for _, rec := range b.biases.Biases {
		types = append(types, rec.Type)
	}
	return types
}

// MoodMapping returns the mapping for mood, or a NotFoundError when the mood
// has no entry. Callers surface that as a client error before any model call.
func (b *Base) MoodMapping(mood string) (*MoodMapping, error) {
	for i := range b.emotions.Mappings {
		if b.emotions.Mappings[i].Mood == mood {
			return &b.emotions.Mappings[i], nil
		}
	}
	return nil, &faults.NotFoundError{Kind: "mood", Key: mood}
}

// Moods lists every mood that has a mapping, in document order.
func (b *Base) Moods() []string {
	moods := make([]string, 0, len(b.emotions.Mappings))
	for _, m := range b.emotions.Mappings {
		moods = append(moods, m.Mood)
	}
	return moods
}

// CoachingTone returns the tone details for a tone label; the zero value is
// returned for unknown labels, matching the original's permissive lookup.
func (b *Base) CoachingTone(name string) CoachingTone {
	return b.emotions.CoachingTones[name]
}

// IntensityGuideline returns the guideline for an intensity label.
func (b *Base) IntensityGuideline(name string) IntensityGuideline {
	return b.emotions.IntensityGuidelines[name]
}

// Archetypes returns the persona archetype catalog.
func (b *Base) Archetypes() []Archetype {
	return b.personas.Archetypes
}

// SampleWorkouts returns the splitter's sample workout catalog.
func (b *Base) SampleWorkouts() []Workout {
	return b.workouts.SampleWorkouts
}

// SampleWorkout returns the sample workout at index i.
func (b *Base) SampleWorkout(i int) (*Workout, error) {
	if i < 0 || i >= len(b.workouts.SampleWorkouts) {
		return nil, &faults.NotFoundError{Kind: "workout", Key: "index out of range"}
	}
	return &b.workouts.SampleWorkouts[i], nil
}

// SampleTimeBlocks returns the splitter's sample schedule scenarios.
func (b *Base) SampleTimeBlocks() []TimeBlockScenario {
	return b.workouts.SampleTimeBlocks
}
