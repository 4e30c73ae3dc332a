package progression

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitlab/internal/faults"
)

func validInput() Input {
	return Input{
		Exercise: "Barbell Squat",
		History: []Entry{
			{Weight: 60, Sets: 3, Reps: 10, RPE: 7, Date: "2024-12-01"},
			{Weight: 62.5, Sets: 3, Reps: 10, RPE: 7, Date: "2024-12-04"},
		},
		Goal: "strength",
	}
}

func TestNormalizeValidInput(t *testing.T) {
	in := validInput()
	require.NoError(t, in.Normalize())
	assert.Equal(t, "strength", in.Goal)
}

func TestNormalizeRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Input)
		field  string
	}{
		{"missing exercise", func(in *Input) { in.Exercise = " " }, "exercise"},
		{"short history", func(in *Input) { in.History = in.History[:1] }, "history"},
		{"negative weight", func(in *Input) { in.History[0].Weight = -1 }, "history"},
		{"sets too high", func(in *Input) { in.History[1].Sets = 11 }, "history"},
		{"reps too high", func(in *Input) { in.History[0].Reps = 51 }, "history"},
		{"rpe out of range", func(in *Input) { in.History[0].RPE = 0 }, "history"},
		{"unknown goal", func(in *Input) { in.Goal = "powerbuilding" }, "goal"},
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

func TestNormalizeDefaults(t *testing.T) {
	in := validInput()
	in.Goal = ""
	in.History[0].Date = ""

	require.NoError(t, in.Normalize())
	assert.Equal(t, "strength", in.Goal)
	assert.NotEmpty(t, in.History[0].Date, "missing dates default to today")

	in2 := validInput()
	in2.Goal = "HYPERTROPHY"
	require.NoError(t, in2.Normalize())
	assert.Equal(t, "hypertrophy", in2.Goal)
}

func TestFallbackIncrementsWhenRPEAllows(t *testing.T) {
	in := validInput()
	in.History[len(in.History)-1] = Entry{Weight: 65, Sets: 3, Reps: 10, RPE: 7, Date: "2024-12-07"}

	rec := FallbackRecommendation(in, errors.New("boom"))

	assert.Equal(t, 67.5, rec.RecommendedNext.Weight)
	assert.Equal(t, 3, rec.RecommendedNext.Sets)
	assert.Equal(t, 10, rec.RecommendedNext.Reps)
	assert.Equal(t, 7, rec.RecommendedNext.TargetRPE)
	assert.False(t, rec.DeloadSuggested)
	assert.InDelta(t, 2.5, rec.RecommendedNext.Weight-65, 0.001, "increment never exceeds 2.5")
	assert.Contains(t, rec.Rationale, "boom")
	assert.Len(t, rec.Tips, 3)
}

func TestFallbackHoldsWeightAtHighRPE(t *testing.T) {
	in := validInput()
	in.History[len(in.History)-1] = Entry{Weight: 65, Sets: 3, Reps: 10, RPE: 8, Date: "2024-12-07"}

	rec := FallbackRecommendation(in, errors.New("parse"))

	assert.Equal(t, 65.0, rec.RecommendedNext.Weight, "latest RPE >= 8 holds the weight")
	assert.Equal(t, 65.0, rec.CurrentPerformance.Weight)
	assert.Equal(t, float64(3*10)*65, rec.CurrentPerformance.Volume)
	assert.Equal(t, "moderate", rec.ProgressionRate)
}

func TestPrepareChartData(t *testing.T) {
	in := DemoInput()
	data := PrepareChartData(in.History)

	require.Len(t, data.Dates, 5)
	assert.Equal(t, "2024-12-01", data.Dates[0])
	assert.Equal(t, []float64{60, 62.5, 65, 65, 67.5}, data.Weights)
	assert.Equal(t, []int{7, 7, 8, 7, 8}, data.RPEs)
	assert.Equal(t, float64(3*10)*60, data.Volumes[0])
}

func TestBuildPromptContents(t *testing.T) {
	in := DemoInput()
	require.NoError(t, in.Normalize())

	prompt := BuildPrompt(in)

	assert.Contains(t, prompt, "EXERCISE: Barbell Squat")
	assert.Contains(t, prompt, "- 2024-12-01: 3x10 @ 60kg, RPE 7")
	assert.Contains(t, prompt, "Total weight increase: 7.5kg over 5 sessions")
	assert.Contains(t, prompt, "Average RPE: 7.4/10")
	assert.Contains(t, prompt, "Never recommend more than 5% weight increase per session")

	// The embedded JSON example must itself be decodable once the model fills
	// in the placeholder fields; at minimum the braces must balance.
	assert.Equal(t, strings.Count(prompt, "{"), strings.Count(prompt, "}"))
}

// stubGenerator returns a canned reply or error without touching the network.
type stubGenerator struct {
	reply string
	err   error
}

func (s *stubGenerator) Generate(_ context.Context, _, _, _ string) (string, error) {
	return s.reply, s.err
}

func TestAnalyzeJSONHandlerFallsBackOnServiceFailure(t *testing.T) {
	h := &Handler{Gen: &stubGenerator{err: &faults.GenerationError{Err: errors.New("service unreachable")}}}

	in := Input{
		Exercise: "Barbell Squat",
		History: []Entry{
			{Weight: 60, Sets: 3, Reps: 10, RPE: 7, Date: "2024-12-01"},
			{Weight: 62.5, Sets: 3, Reps: 10, RPE: 7, Date: "2024-12-04"},
			{Weight: 65, Sets: 3, Reps: 10, RPE: 8, Date: "2024-12-07"},
		},
		Goal: "strength",
	}
	body, _ := json.Marshal(in)
	req := httptest.NewRequest(http.MethodPost, "/progression/analyze-json", strings.NewReader(string(body)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	require.NoError(t, h.AnalyzeJSONHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code, "a failed external call still answers with the fallback recommendation")

	var envelope struct {
		Recommendation Recommendation `json:"recommendation"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, 65.0, envelope.Recommendation.RecommendedNext.Weight, "latest RPE 8 holds the weight")
	assert.Equal(t, 7, envelope.Recommendation.RecommendedNext.TargetRPE)
	assert.Contains(t, envelope.Recommendation.Rationale, "service unreachable")
}

func TestAnalyzeJSONHandlerFallsBackOnGarbage(t *testing.T) {
	h := &Handler{Gen: &stubGenerator{reply: "sorry, I cannot answer that"}}

	body, _ := json.Marshal(validInput())
	req := httptest.NewRequest(http.MethodPost, "/progression/analyze-json", strings.NewReader(string(body)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	require.NoError(t, h.AnalyzeJSONHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Recommendation Recommendation `json:"recommendation"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, 65.0, envelope.Recommendation.RecommendedNext.Weight, "62.5 + 2.5 at RPE 7")
}

func TestRecommendationJSONRoundTrip(t *testing.T) {
	reply := `{
	  "exercise": "Barbell Squat",
	  "current_performance": {"weight": 67.5, "sets": 3, "reps": 10, "rpe": 8, "volume": 2025},
	  "recommended_next": {"weight": 70, "sets": 3, "reps": 10, "target_rpe": 8},
	  "progression_rate": "moderate",
	  "rationale": "Steady gains with managed fatigue",
	  "deload_suggested": false,
	  "tips": ["Brace harder", "Film your sets"]
	}`

	var rec Recommendation
	require.NoError(t, json.Unmarshal([]byte(reply), &rec))
	assert.Equal(t, 70.0, rec.RecommendedNext.Weight)
	assert.Equal(t, 8, rec.RecommendedNext.TargetRPE)
	assert.True(t, rec.valid())
}
