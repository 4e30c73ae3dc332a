package bias

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"fitlab/internal/faults"
	"fitlab/internal/geminiservice"
	"fitlab/internal/knowledge"
	"fitlab/internal/storage"
	"fitlab/internal/utility"
)

const experimentName = "bias"

// Handler carries the experiment's dependencies.
type Handler struct {
	Gen   geminiservice.Generator
	KB    *knowledge.Base
	Store storage.Service
}

/*=================================================================================
									HANDLERS
=================================================================================*/

// HomeHandler renders the thought input form with the catalog's bias types.
func (h *Handler) HomeHandler(c echo.Context) error {
	return c.Render(http.StatusOK, "bias_home.html", map[string]interface{}{
		"Title":     "Cognitive Bias Antidote",
		"BiasTypes": h.KB.BiasTypes(),
	})
}

// AnalyzeHandler analyzes a posted thought and returns the full analysis JSON.
func (h *Handler) AnalyzeHandler(c echo.Context) error {
	var in Input
	if err := c.Bind(&in); err != nil {
		log.Error().Err(err).Msg("Failed to bind bias request body")
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	if err := in.Normalize(); err != nil {
		return c.JSON(faults.HTTPStatus(err), map[string]string{"error": err.Error()})
	}

	analysis, source, err := h.analyze(c.Request().Context(), in)
	if err != nil {
		return c.JSON(faults.HTTPStatus(err), map[string]string{"error": err.Error()})
	}
	sessionID := storage.Record(c.Request().Context(), h.Store, experimentName, source, in, analysis)
	utility.BroadcastGeneration(experimentName, sessionID, source)

	return c.JSON(http.StatusOK, analysis)
}

// AnalyzeVisualHandler takes form fields and renders the HTML card.
func (h *Handler) AnalyzeVisualHandler(c echo.Context) error {
	in := Input{
		Thought: c.FormValue("thought"),
		Context: c.FormValue("context"),
	}
	if err := in.Normalize(); err != nil {
		return c.JSON(faults.HTTPStatus(err), map[string]string{"error": err.Error()})
	}

	analysis, source, err := h.analyze(c.Request().Context(), in)
	if err != nil {
		return c.JSON(faults.HTTPStatus(err), map[string]string{"error": err.Error()})
	}
	sessionID := storage.Record(c.Request().Context(), h.Store, experimentName, source, in, analysis)
	utility.BroadcastGeneration(experimentName, sessionID, source)

	return c.Render(http.StatusOK, "bias_card.html", map[string]interface{}{
		"Analysis": analysis,
	})
}

// analyze runs the model pipeline. Any model or parse failure routes to the
// rule-based fallback built from the strongest keyword match; with no match
// at all the failure is surfaced.
func (h *Handler) analyze(ctx context.Context, in Input) (*Analysis, string, error) {
	matches := FindMatchingBiases(h.KB.Biases(), in.Thought)
	userPrompt := BuildPrompt(h.KB.Biases(), in)

	var reply modelAnalysis
	err := geminiservice.GenerateAndParse(ctx, h.Gen, "BiasAntidote", SystemPrompt, userPrompt, &reply)
	if err == nil && reply.PrimaryBias.Type == "" {
		err = &faults.ParseError{Err: fmt.Errorf("reply contained no primary bias")}
	}
	if err != nil {
		if faults.IsFallbackTrigger(err) && len(matches) > 0 {
			log.Warn().Err(err).Msg("Bias analysis failed, serving rule-based fallback")
			return FallbackAnalysis(in, matches[0]), "fallback", nil
		}
		return nil, "", fmt.Errorf("Analysis failed: %w", err)
	}

	analysis := &Analysis{
		OriginalThought:   in.Thought,
		Context:           in.Context,
		PrimaryBias:       reply.PrimaryBias.toDetection(in.Thought),
		SecondaryBiases:   make([]Detection, 0, len(reply.SecondaryBiases)),
		OverallAssessment: reply.OverallAssessment,
		RecommendedAction: reply.RecommendedAction,
		Timestamp:         time.Now().Format(time.RFC3339),
	}
	for _, sec := range reply.SecondaryBiases {
		analysis.SecondaryBiases = append(analysis.SecondaryBiases, sec.toDetection(in.Thought))
	}

	return analysis, "model", nil
}
