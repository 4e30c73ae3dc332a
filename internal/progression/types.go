/*
Package progression implements the Auto-Progression Engine experiment:
AI-powered workout progression tracking and recommendations.
*/
package progression

import (
	"strings"
	"time"

	"fitlab/internal/faults"
)

/* =================================================================================
							DTOs (Data Transfer Objects)
=================================================================================*/

// Entry is a single logged workout session.
type Entry struct {
	Exercise string  `json:"exercise"`
	Weight   float64 `json:"weight"` // kg
	Sets     int     `json:"sets"`
	Reps     int     `json:"reps"`
	RPE      int     `json:"rpe"` // Rate of Perceived Exertion, 1-10
	Date     string  `json:"date,omitempty"`
	Notes    string  `json:"notes,omitempty"`
}

// Volume is the session tonnage: sets * reps * weight.
func (e Entry) Volume() float64 {
	return float64(e.Sets*e.Reps) * e.Weight
}

// Input is the payload expected from the client.
type Input struct {
	Exercise string  `json:"exercise"`
	History  []Entry `json:"history"`
	Goal     string  `json:"goal"`
}

// Performance captures the latest session's numbers.
type Performance struct {
	Weight float64 `json:"weight"`
	Sets   int     `json:"sets"`
	Reps   int     `json:"reps"`
	RPE    int     `json:"rpe"`
	Volume float64 `json:"volume"`
}

// Prescription is the recommended next session.
type Prescription struct {
	Weight    float64 `json:"weight"`
	Sets      int     `json:"sets"`
	Reps      int     `json:"reps"`
	TargetRPE int     `json:"target_rpe"`
}

// Recommendation is the analysis result, model-derived or fallback.
type Recommendation struct {
	Exercise           string       `json:"exercise"`
	CurrentPerformance Performance  `json:"current_performance"`
	RecommendedNext    Prescription `json:"recommended_next"`
	ProgressionRate    string       `json:"progression_rate"`
	Rationale          string       `json:"rationale"`
	DeloadSuggested    bool         `json:"deload_suggested"`
	Tips               []string     `json:"tips"`
}

// ChartData feeds the dashboard's progression charts.
type ChartData struct {
	Dates   []string  `json:"dates"`
	Weights []float64 `json:"weights"`
	RPEs    []int     `json:"rpes"`
	Volumes []float64 `json:"volumes"`
}

var allowedGoals = []string{"strength", "hypertrophy", "endurance"}

// Normalize validates the input, defaulting missing dates to today and the
// goal to "strength".
func (in *Input) Normalize() error {
	if strings.TrimSpace(in.Exercise) == "" {
		return faults.NewValidation("exercise", "exercise name is required")
	}
	if len(in.History) < 2 {
		return faults.NewValidation("history", "at least 2 workout entries are required")
	}

	today := time.Now().Format("2006-01-02")
	for i := range in.History {
		entry := &in.History[i]
		if entry.Weight < 0 {
			return faults.NewValidation("history", "entry %d: weight must not be negative", i)
		}
		if entry.Sets < 1 || entry.Sets > 10 {
			return faults.NewValidation("history", "entry %d: sets must be between 1 and 10", i)
		}
		if entry.Reps < 1 || entry.Reps > 50 {
			return faults.NewValidation("history", "entry %d: reps must be between 1 and 50", i)
		}
		if entry.RPE < 1 || entry.RPE > 10 {
			return faults.NewValidation("history", "entry %d: rpe must be between 1 and 10", i)
		}
		if entry.Date == "" {
			entry.Date = today
		}
	}

	in.Goal = strings.ToLower(strings.TrimSpace(in.Goal))
	if in.Goal == "" {
		in.Goal = "strength"
	}
	valid := false
	for _, g := range allowedGoals {
		if in.Goal == g {
			valid = true
			break
		}
	}
	if !valid {
		return faults.NewValidation("goal", "must be one of: %s", strings.Join(allowedGoals, ", "))
	}

	return nil
}

// PrepareChartData flattens the history into the arrays the dashboard plots.
func PrepareChartData(history []Entry) ChartData {
	data := ChartData{
		Dates:   make([]string, 0, len(history)),
		Weights: make([]float64, 0, len(history)),
		RPEs:    make([]int, 0, len(history)),
		Volumes: make([]float64, 0, len(history)),
	}
	for _, entry := range history {
		data.Dates = append(data.Dates, entry.Date)
		data.Weights = append(data.Weights, entry.Weight)
		data.RPEs = append(data.RPEs, entry.RPE)
		data.Volumes = append(data.Volumes, entry.Volume())
	}
	return data
}

// valid reports whether a decoded reply carries the shape the dashboard needs.
func (r *Recommendation) valid() bool {
	return r.Exercise != "" && r.RecommendedNext.Weight > 0 && r.Rationale != ""
}
