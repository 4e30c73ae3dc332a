package emotion

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"fitlab/internal/faults"
	"fitlab/internal/geminiservice"
	"fitlab/internal/knowledge"
	"fitlab/internal/storage"
	"fitlab/internal/utility"
)

const experimentName = "emotion"

// Handler carries the experiment's dependencies.
type Handler struct {
	Gen   geminiservice.Generator
	KB    *knowledge.Base
	Store storage.Service
}

/*=================================================================================
									HANDLERS
=================================================================================*/

// HomeHandler renders the emotion input form with the moods the knowledge
// base actually maps.
func (h *Handler) HomeHandler(c echo.Context) error {
	return c.Render(http.StatusOK, "emotion_home.html", map[string]interface{}{
		"Title":      "Emotion-Aligned Training",
		"ValidMoods": h.KB.Moods(),
	})
}

// GenerateHandler builds the recommendation and renders the HTML card.
func (h *Handler) GenerateHandler(c echo.Context) error {
	var in Input
	if err := c.Bind(&in); err != nil {
		log.Error().Err(err).Msg("Failed to bind emotion request body")
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}

	rec, source, err := h.recommend(c.Request().Context(), in)
	if err != nil {
		return c.JSON(faults.HTTPStatus(err), map[string]string{"error": err.Error()})
	}
	sessionID := storage.Record(c.Request().Context(), h.Store, experimentName, source, in, rec)
	utility.BroadcastGeneration(experimentName, sessionID, source)

	return c.Render(http.StatusOK, "emotion_card.html", map[string]interface{}{
		"Data": rec,
	})
}

// DemoHandler serves the canned anxious example (energy 3, stress 7).
func (h *Handler) DemoHandler(c echo.Context) error {
	in := Input{Mood: "anxious", Energy: 3, Stress: 7}

	rec, source, err := h.recommend(c.Request().Context(), in)
	if err != nil {
		return c.JSON(faults.HTTPStatus(err), map[string]string{"error": err.Error()})
	}
	sessionID := storage.Record(c.Request().Context(), h.Store, experimentName, source, in, rec)
	utility.BroadcastGeneration(experimentName, sessionID, source)

	return c.Render(http.StatusOK, "emotion_card.html", map[string]interface{}{
		"Data": rec,
	})
}

// APIRecommendationHandler answers GET /emotion/api/recommendation with the
// full recommendation as JSON. Inputs arrive as query parameters.
func (h *Handler) APIRecommendationHandler(c echo.Context) error {
	energy, err := strconv.Atoi(strings.TrimSpace(c.QueryParam("energy")))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "energy: must be an integer"})
	}
	stress, err := strconv.Atoi(strings.TrimSpace(c.QueryParam("stress")))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "stress: must be an integer"})
	}
	in := Input{Mood: c.QueryParam("mood"), Energy: energy, Stress: stress}

	rec, source, rerr := h.recommend(c.Request().Context(), in)
	if rerr != nil {
		return c.JSON(faults.HTTPStatus(rerr), map[string]string{"error": rerr.Error()})
	}
	sessionID := storage.Record(c.Request().Context(), h.Store, experimentName, source, in, rec)
	utility.BroadcastGeneration(experimentName, sessionID, source)

	return c.JSON(http.StatusOK, rec)
}

// recommend validates the input, builds the local recommendation and attaches
// the AI session intro. The intro degrades to a deterministic template on any
// model failure; everything else in the recommendation is knowledge-base data
// and never depends on the model outcome.
func (h *Handler) recommend(ctx context.Context, in Input) (*Recommendation, string, error) {
	if err := in.Normalize(); err != nil {
		return nil, "", err
	}

	rec, err := BuildRecommendation(h.KB, in)
	if err != nil {
		return nil, "", err
	}

	source := "model"
	message, err := h.Gen.Generate(ctx, "EmotionAlignedTraining", SystemPrompt, BuildPrompt(rec))
	if err != nil {
		log.Warn().Err(err).Msg("Session intro generation failed, using template message")
		message = FallbackMessage(rec)
		source = "fallback"
	}
	rec.AIMessage = strings.TrimSpace(message)

	return rec, source, nil
}
