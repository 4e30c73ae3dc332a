package workout

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"fitlab/internal/faults"
	"fitlab/internal/geminiservice"
	"fitlab/internal/storage"
	"fitlab/internal/utility"
)

const experimentName = "workout"

// Handler carries the experiment's dependencies.
type Handler struct {
	Gen   geminiservice.Generator
	Store storage.Service
}

// demoInput is the canned example served by GET /workout/demo.
var demoInput = Input{
	FitnessLevel:  "intermediate",
	Goals:         []string{"strength"},
	TimeAvailable: 30,
	Equipment:     []string{"dumbbells"},
	Fatigue:       3,
	Stress:        2,
	SleepHours:    6,
}

/*=================================================================================
									HANDLERS
=================================================================================*/

// HomeHandler renders the workout generation form.
func (h *Handler) HomeHandler(c echo.Context) error {
	return c.Render(http.StatusOK, "workout_home.html", map[string]interface{}{
		"Title": "Dynamic Workout Writer",
	})
}

// DemoHandler generates a workout for a pre-filled example profile.
func (h *Handler) DemoHandler(c echo.Context) error {
	in := demoInput
	if err := in.Normalize(); err != nil {
		return c.JSON(faults.HTTPStatus(err), map[string]string{"error": err.Error()})
	}

	plan, source, err := h.generate(c.Request().Context(), in)
	if err != nil {
		return c.JSON(faults.HTTPStatus(err), map[string]string{"error": err.Error()})
	}
	sessionID := storage.Record(c.Request().Context(), h.Store, experimentName, source, in, plan)
	utility.BroadcastGeneration(experimentName, sessionID, source)

	return c.Render(http.StatusOK, "workout_card.html", map[string]interface{}{
		"Workout":   plan,
		"UserInput": in,
	})
}

// GenerateHandler builds an adaptive workout and returns the HTML card view.
func (h *Handler) GenerateHandler(c echo.Context) error {
	var in Input
	if err := c.Bind(&in); err != nil {
		log.Error().Err(err).Msg("Failed to bind workout request body")
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	if err := in.Normalize(); err != nil {
		return c.JSON(faults.HTTPStatus(err), map[string]string{"error": err.Error()})
	}

	plan, source, err := h.generate(c.Request().Context(), in)
	if err != nil {
		return c.JSON(faults.HTTPStatus(err), map[string]string{"error": err.Error()})
	}
	sessionID := storage.Record(c.Request().Context(), h.Store, experimentName, source, in, plan)
	utility.BroadcastGeneration(experimentName, sessionID, source)

	return c.Render(http.StatusOK, "workout_card.html", map[string]interface{}{
		"Workout":   plan,
		"UserInput": in,
	})
}

// GenerateJSONHandler is the API variant used by integrations and tests.
func (h *Handler) GenerateJSONHandler(c echo.Context) error {
	var in Input
	if err := c.Bind(&in); err != nil {
		log.Error().Err(err).Msg("Failed to bind workout request body")
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	if err := in.Normalize(); err != nil {
		return c.JSON(faults.HTTPStatus(err), map[string]string{"error": err.Error()})
	}

	plan, source, err := h.generate(c.Request().Context(), in)
	if err != nil {
		return c.JSON(faults.HTTPStatus(err), map[string]string{"error": err.Error()})
	}
	sessionID := storage.Record(c.Request().Context(), h.Store, experimentName, source, in, plan)
	utility.BroadcastGeneration(experimentName, sessionID, source)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status": "success",
		"input":  in,
		"output": plan,
	})
}

var errEmptyPlan = errors.New("reply contained no exercises")

// generate runs the model pipeline. A failed call or an unparseable reply
// routes to the deterministic fallback plan. The second return value names
// the source ("model" or "fallback") for the session log and the lab feed.
func (h *Handler) generate(ctx context.Context, in Input) (*Plan, string, error) {
	userPrompt := BuildPrompt(in)

	var plan Plan
	err := geminiservice.GenerateAndParse(ctx, h.Gen, "WorkoutWriter", SystemPrompt, userPrompt, &plan)
	if err == nil && !plan.valid() {
		err = &faults.ParseError{Err: errEmptyPlan}
	}
	if err != nil {
		if faults.IsFallbackTrigger(err) {
			log.Warn().Err(err).Msg("Workout generation failed, serving fallback plan")
			return FallbackPlan(in, err), "fallback", nil
		}
		return nil, "", err
	}

	return &plan, "model", nil
}
