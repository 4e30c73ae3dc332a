/*
Package splitter implements the Micro-Workout Splitter experiment: it breaks
long workouts into smaller blocks that fit fragmented schedules. The packing
itself is delegated to the model; this package owns validation, the prompt
and the result shaping.
*/
package splitter

import (
	"strings"

	"fitlab/internal/faults"
	"fitlab/internal/knowledge"
)

/* =================================================================================
							DTOs (Data Transfer Objects)
=================================================================================*/

// SplitRequest is the payload expected from the client.
type SplitRequest struct {
	Workout         knowledge.Workout `json:"workout"`
	AvailableBlocks []int             `json:"available_blocks"` // minutes
	Scenario        string            `json:"scenario,omitempty"`
}

// Segment is one time block of the split plan.
type Segment struct {
	BlockNumber    int                  `json:"block_number"`
	Duration       int                  `json:"duration"`
	Focus          string               `json:"focus"`
	Exercises      []knowledge.Exercise `json:"exercises"`
	CompletionTime string               `json:"completion_time"` // e.g. "Morning - 7am", "Lunch break"
	Rationale      string               `json:"rationale"`
}

// SplitResult is the complete split plan.
type SplitResult struct {
	OriginalWorkout    string    `json:"original_workout"`
	TotalTime          int       `json:"total_time"`
	Segments           []Segment `json:"segments"`
	CoveragePercentage float64   `json:"coverage_percentage"`
	AIInsights         string    `json:"ai_insights"`
	Timestamp          string    `json:"timestamp,omitempty"`
}

// modelSplit mirrors the reply shape the prompt asks the model to emit; the
// workout name and total time are filled in locally.
type modelSplit struct {
	Segments           []Segment `json:"segments"`
	CoveragePercentage float64   `json:"coverage_percentage"`
	AIInsights         string    `json:"ai_insights"`
}

// Normalize validates the request.
func (r *SplitRequest) Normalize() error {
	if strings.TrimSpace(r.Workout.Name) == "" {
		return faults.NewValidation("workout", "workout name is required")
	}
	if len(r.Workout.Exercises) == 0 {
		return faults.NewValidation("workout", "workout must contain at least one exercise")
	}
	if len(r.AvailableBlocks) == 0 {
		return faults.NewValidation("available_blocks", "must provide at least one time block")
	}
	for i, block := range r.AvailableBlocks {
		if block <= 0 {
			return faults.NewValidation("available_blocks", "block %d: must be a positive number of minutes", i)
		}
	}
	return nil
}

// CategoryColor maps an exercise category to its visualization color.
func CategoryColor(category string) string {
	switch strings.ToLower(category) {
	case "mobility":
		return "#a8edea"
	case "strength":
		return "#667eea"
	case "cardio":
		return "#fa709a"
	case "core":
		return "#43e97b"
	default:
		return "#cccccc"
	}
}

// Colorize stamps the category colors onto every exercise of the plan.
func (r *SplitResult) Colorize() {
	for i := range r.Segments {
		for j := range r.Segments[i].Exercises {
			ex := &r.Segments[i].Exercises[j]
			ex.Color = CategoryColor(ex.Category)
		}
	}
}
