package progression

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"fitlab/internal/faults"
	"fitlab/internal/geminiservice"
	"fitlab/internal/storage"
	"fitlab/internal/utility"
)

const experimentName = "progression"

// Handler carries the experiment's dependencies.
type Handler struct {
	Gen   geminiservice.Generator
	Store storage.Service
}

// DemoInput is the canned 5-session Barbell Squat history served by
// GET /progression/demo. Exported so tests can reuse it.
func DemoInput() Input {
	return Input{
		Exercise: "Barbell Squat",
		History: []Entry{
			{Exercise: "Barbell Squat", Weight: 60, Sets: 3, Reps: 10, RPE: 7, Date: "2024-12-01", Notes: "Felt strong"},
			{Exercise: "Barbell Squat", Weight: 62.5, Sets: 3, Reps: 10, RPE: 7, Date: "2024-12-04", Notes: "Good form"},
			{Exercise: "Barbell Squat", Weight: 65, Sets: 3, Reps: 9, RPE: 8, Date: "2024-12-07", Notes: "Slight struggle on last set"},
			{Exercise: "Barbell Squat", Weight: 65, Sets: 3, Reps: 10, RPE: 7, Date: "2024-12-11", Notes: "Better than last time"},
			{Exercise: "Barbell Squat", Weight: 67.5, Sets: 3, Reps: 10, RPE: 8, Date: "2024-12-14", Notes: "Ready for more"},
		},
		Goal: "strength",
	}
}

/*=================================================================================
									HANDLERS
=================================================================================*/

// HomeHandler renders the workout logging form.
func (h *Handler) HomeHandler(c echo.Context) error {
	return c.Render(http.StatusOK, "progression_home.html", map[string]interface{}{
		"Title": "Auto-Progression Engine",
	})
}

// DemoHandler analyzes the canned squat history.
func (h *Handler) DemoHandler(c echo.Context) error {
	in := DemoInput()
	if err := in.Normalize(); err != nil {
		return c.JSON(faults.HTTPStatus(err), map[string]string{"error": err.Error()})
	}
	return h.renderDashboard(c, in)
}

// AnalyzeHandler analyzes a posted history and returns the HTML dashboard.
func (h *Handler) AnalyzeHandler(c echo.Context) error {
	var in Input
	if err := c.Bind(&in); err != nil {
		log.Error().Err(err).Msg("Failed to bind progression request body")
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	if err := in.Normalize(); err != nil {
		return c.JSON(faults.HTTPStatus(err), map[string]string{"error": err.Error()})
	}
	return h.renderDashboard(c, in)
}

// AnalyzeJSONHandler is the API variant used by integrations and tests.
func (h *Handler) AnalyzeJSONHandler(c echo.Context) error {
	var in Input
	if err := c.Bind(&in); err != nil {
		log.Error().Err(err).Msg("Failed to bind progression request body")
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	if err := in.Normalize(); err != nil {
		return c.JSON(faults.HTTPStatus(err), map[string]string{"error": err.Error()})
	}

	rec, source, err := h.analyze(c.Request().Context(), in)
	if err != nil {
		return c.JSON(faults.HTTPStatus(err), map[string]string{"error": err.Error()})
	}
	sessionID := storage.Record(c.Request().Context(), h.Store, experimentName, source, in, rec)
	utility.BroadcastGeneration(experimentName, sessionID, source)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":         "success",
		"input":          in,
		"recommendation": rec,
	})
}

func (h *Handler) renderDashboard(c echo.Context, in Input) error {
	rec, source, err := h.analyze(c.Request().Context(), in)
	if err != nil {
		return c.JSON(faults.HTTPStatus(err), map[string]string{"error": err.Error()})
	}
	sessionID := storage.Record(c.Request().Context(), h.Store, experimentName, source, in, rec)
	utility.BroadcastGeneration(experimentName, sessionID, source)

	// The chart data is embedded as literal JSON for the dashboard script.
	chartJSON, _ := json.Marshal(PrepareChartData(in.History))

	return c.Render(http.StatusOK, "progression_dashboard.html", map[string]interface{}{
		"Exercise":       in.Exercise,
		"Goal":           in.Goal,
		"History":        in.History,
		"Recommendation": rec,
		"ChartData":      template.JS(chartJSON),
	})
}

var errEmptyRecommendation = errors.New("reply contained no usable recommendation")

// analyze runs the model pipeline. A failed call or an unparseable reply
// routes to the deterministic fallback.
func (h *Handler) analyze(ctx context.Context, in Input) (*Recommendation, string, error) {
	userPrompt := BuildPrompt(in)

	var rec Recommendation
	err := geminiservice.GenerateAndParse(ctx, h.Gen, "ProgressionEngine", SystemPrompt, userPrompt, &rec)
	if err == nil && !rec.valid() {
		err = &faults.ParseError{Err: errEmptyRecommendation}
	}
	if err != nil {
		if faults.IsFallbackTrigger(err) {
			log.Warn().Err(err).Msg("Progression analysis failed, serving fallback recommendation")
			return FallbackRecommendation(in, err), "fallback", nil
		}
		return nil, "", err
	}

	return &rec, "model", nil
}
