package splitter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"fitlab/internal/faults"
	"fitlab/internal/geminiservice"
	"fitlab/internal/knowledge"
	"fitlab/internal/storage"
	"fitlab/internal/utility"
)

const experimentName = "split"

// Handler carries the experiment's dependencies.
type Handler struct {
	Gen   geminiservice.Generator
	KB    *knowledge.Base
	Store storage.Service
}

/*=================================================================================
									HANDLERS
=================================================================================*/

// HomeHandler renders the input form with the sample workouts and schedule
// scenarios from the knowledge base.
func (h *Handler) HomeHandler(c echo.Context) error {
	return c.Render(http.StatusOK, "split_home.html", map[string]interface{}{
		"Title":         "Micro-Workout Splitter",
		"TestWorkouts":  h.KB.SampleWorkouts(),
		"TestScenarios": h.KB.SampleTimeBlocks(),
	})
}

// SplitFormHandler takes the form submission (a sample workout index, an
// optional scenario and up to four block fields) and renders the split plan.
func (h *Handler) SplitFormHandler(c echo.Context) error {
	index, err := strconv.Atoi(strings.TrimSpace(c.FormValue("workout")))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid workout selection"})
	}
	workout, err := h.KB.SampleWorkout(index)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid workout selection"})
	}

	var blocks []int
	for _, field := range []string{"block1", "block2", "block3", "block4"} {
		raw := strings.TrimSpace(c.FormValue(field))
		if raw == "" {
			continue
		}
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			blocks = append(blocks, n)
		}
	}

	req := SplitRequest{
		Workout:         *workout,
		AvailableBlocks: blocks,
		Scenario:        strings.TrimSpace(c.FormValue("scenario")),
	}
	if err := req.Normalize(); err != nil {
		return c.JSON(faults.HTTPStatus(err), map[string]string{"error": err.Error()})
	}

	result, err := h.split(c.Request().Context(), req, true)
	if err != nil {
		return c.JSON(faults.HTTPStatus(err), map[string]string{"error": err.Error()})
	}
	sessionID := storage.Record(c.Request().Context(), h.Store, experimentName, "model", req, result)
	utility.BroadcastGeneration(experimentName, sessionID, "model")

	scenario := req.Scenario
	if scenario == "" {
		scenario = "Custom schedule"
	}
	return c.Render(http.StatusOK, "split_result.html", map[string]interface{}{
		"Result":   result,
		"Scenario": scenario,
	})
}

// SplitAPIHandler is the JSON variant taking a full SplitRequest body.
func (h *Handler) SplitAPIHandler(c echo.Context) error {
	var req SplitRequest
	if err := c.Bind(&req); err != nil {
		log.Error().Err(err).Msg("Failed to bind split request body")
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	if err := req.Normalize(); err != nil {
		return c.JSON(faults.HTTPStatus(err), map[string]string{"error": err.Error()})
	}

	result, err := h.split(c.Request().Context(), req, false)
	if err != nil {
		return c.JSON(faults.HTTPStatus(err), map[string]string{"error": err.Error()})
	}
	sessionID := storage.Record(c.Request().Context(), h.Store, experimentName, "model", req, result)
	utility.BroadcastGeneration(experimentName, sessionID, "model")

	return c.JSON(http.StatusOK, result)
}

// DemoHandler splits the first sample workout across the first sample
// scenario's blocks.
func (h *Handler) DemoHandler(c echo.Context) error {
	workout, err := h.KB.SampleWorkout(0)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "No sample workouts loaded"})
	}
	scenarios := h.KB.SampleTimeBlocks()
	if len(scenarios) == 0 {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "No sample scenarios loaded"})
	}

	req := SplitRequest{
		Workout:         *workout,
		AvailableBlocks: scenarios[0].AvailableBlocks,
		Scenario:        scenarios[0].Scenario,
	}
	if err := req.Normalize(); err != nil {
		return c.JSON(faults.HTTPStatus(err), map[string]string{"error": err.Error()})
	}

	result, err := h.split(c.Request().Context(), req, true)
	if err != nil {
		return c.JSON(faults.HTTPStatus(err), map[string]string{"error": err.Error()})
	}
	sessionID := storage.Record(c.Request().Context(), h.Store, experimentName, "model", req, result)
	utility.BroadcastGeneration(experimentName, sessionID, "model")

	return c.Render(http.StatusOK, "split_result.html", map[string]interface{}{
		"Result":   result,
		"Scenario": req.Scenario,
	})
}

// split runs the model pipeline. Splitting has no deterministic fallback:
// a failed generation or an unparseable reply is surfaced. Visual callers get
// color-coded exercises and a timestamped artifact under outputs/.
func (h *Handler) split(ctx context.Context, req SplitRequest, visual bool) (*SplitResult, error) {
	userPrompt := BuildPrompt(req.Workout, req.AvailableBlocks, req.Scenario)

	var reply modelSplit
	if err := geminiservice.GenerateAndParse(ctx, h.Gen, "WorkoutSplitter", SystemPrompt, userPrompt, &reply); err != nil {
		return nil, fmt.Errorf("AI processing error: %w", err)
	}
	if len(reply.Segments) == 0 {
		return nil, &faults.ParseError{Err: errors.New("reply contained no segments")}
	}

	totalTime := 0
	for _, seg := range reply.Segments {
		totalTime += seg.Duration
	}

	result := &SplitResult{
		OriginalWorkout:    req.Workout.Name,
		TotalTime:          totalTime,
		Segments:           reply.Segments,
		CoveragePercentage: reply.CoveragePercentage,
		AIInsights:         reply.AIInsights,
	}

	if visual {
		result.Colorize()

		result.Timestamp = time.Now().Format(time.RFC3339)
		name := fmt.Sprintf("split_%s.json", time.Now().Format("20060102_150405"))
		if path, err := utility.WriteArtifact(name, result); err != nil {
			log.Warn().Err(err).Msg("Failed to write split artifact")
		} else {
			log.Info().Str("path", path).Msg("Split artifact written")
		}
	}

	return result, nil
}
