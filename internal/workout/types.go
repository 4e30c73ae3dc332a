/*
Package workout implements the Dynamic Workout Writer experiment:
AI-generated adaptive workouts based on daily conditions.
*/
package workout

import (
	"strings"

	"fitlab/internal/faults"
)

/* =================================================================================
							DTOs (Data Transfer Objects)
=================================================================================*/

// Input is the payload expected from the client.
type Input struct {
	FitnessLevel  string   `json:"fitness_level"`
	Goals         []string `json:"goals"`
	TimeAvailable int      `json:"time_available"` // minutes
	Equipment     []string `json:"equipment"`
	Fatigue       int      `json:"fatigue"` // 1-10
	Stress        int      `json:"stress"`  // 1-10
	SleepHours    float64  `json:"sleep_hours"`
}

// PlanExercise is one prescribed movement in the generated plan.
type PlanExercise struct {
	Exercise string `json:"exercise"`
	Sets     int    `json:"sets"`
	Reps     string `json:"reps"`
	Rest     string `json:"rest"`
	Notes    string `json:"notes"`
}

// Plan is the generated workout, model-derived or fallback.
type Plan struct {
	Workout        []PlanExercise `json:"workout"`
	TotalDuration  int            `json:"total_duration"`
	IntensityLevel string         `json:"intensity_level"`
	Rationale      string         `json:"rationale"`
}

var (
	allowedLevels = []string{"beginner", "intermediate", "advanced"}
	allowedGoals  = []string{"strength", "cardio", "flexibility", "mobility", "endurance", "power"}
)

// Normalize validates the input against its declared constraints, lower-casing
// enumerated fields and filling defaults. The first violation is returned as a
// ValidationError naming the field.
func (in *Input) Normalize() error {
	in.FitnessLevel = strings.ToLower(strings.TrimSpace(in.FitnessLevel))
	if !contains(allowedLevels, in.FitnessLevel) {
		return faults.NewValidation("fitness_level", "must be one of: %s", strings.Join(allowedLevels, ", "))
	}

	if len(in.Goals) == 0 {
		return faults.NewValidation("goals", "at least one goal must be specified")
	}
	for i, goal := range in.Goals {
		g := strings.ToLower(strings.TrimSpace(goal))
		if !contains(allowedGoals, g) {
			return faults.NewValidation("goals", "invalid goal: %s. Allowed: %s", goal, strings.Join(allowedGoals, ", "))
		}
		in.Goals[i] = g
	}

	if in.TimeAvailable < 5 || in.TimeAvailable > 120 {
		return faults.NewValidation("time_available", "must be between 5 and 120 minutes")
	}
	if in.Fatigue < 1 || in.Fatigue > 10 {
		return faults.NewValidation("fatigue", "must be between 1 and 10")
	}
	if in.Stress < 1 || in.Stress > 10 {
		return faults.NewValidation("stress", "must be between 1 and 10")
	}
	if in.SleepHours < 0 || in.SleepHours > 24 {
		return faults.NewValidation("sleep_hours", "must be between 0 and 24")
	}

	if len(in.Equipment) == 0 {
		in.Equipment = []string{"bodyweight"}
	}

	return nil
}

// valid reports whether a decoded reply carries the shape the card needs.
// A structurally empty plan is treated exactly like a parse failure.
func (p *Plan) valid() bool {
	return len(p.Workout) > 0 && p.Rationale != ""
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
