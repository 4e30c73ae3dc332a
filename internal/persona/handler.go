package persona

import (
	"context"
	"encoding/json"
	"errors"
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

const experimentName = "persona"

// Handler carries the experiment's dependencies.
type Handler struct {
	Gen   geminiservice.Generator
	KB    *knowledge.Base
	Store storage.Service
}

/*=================================================================================
									HANDLERS
=================================================================================*/

// HomeHandler renders the input form alongside the archetype catalog.
func (h *Handler) HomeHandler(c echo.Context) error {
	return c.Render(http.StatusOK, "persona_home.html", map[string]interface{}{
		"Title":      "Fitness Persona Generator",
		"Archetypes": h.KB.Archetypes(),
	})
}

// GenerateHandler takes form fields (traits and goals arrive as JSON-array
// strings), generates the persona and renders the identity card.
func (h *Handler) GenerateHandler(c echo.Context) error {
	var traits, goals []string
	if err := json.Unmarshal([]byte(c.FormValue("traits")), &traits); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid traits or goals format"})
	}
	if err := json.Unmarshal([]byte(c.FormValue("goals")), &goals); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid traits or goals format"})
	}

	sessionLength := 0
	if raw := strings.TrimSpace(c.FormValue("session_length_preference")); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			sessionLength = n
		}
	}

	in := Input{
		Traits:                  traits,
		Goals:                   goals,
		MusicPreference:         c.FormValue("music_preference"),
		WorkoutStyle:            strings.TrimSpace(c.FormValue("workout_style")),
		SessionLengthPreference: sessionLength,
	}
	if err := in.Normalize(); err != nil {
		return c.JSON(faults.HTTPStatus(err), map[string]string{"error": err.Error()})
	}

	out, err := h.generate(c.Request().Context(), in)
	if err != nil {
		return c.JSON(faults.HTTPStatus(err), map[string]string{"error": err.Error()})
	}
	sessionID := storage.Record(c.Request().Context(), h.Store, experimentName, "model", in, out)
	utility.BroadcastGeneration(experimentName, sessionID, "model")

	return c.Render(http.StatusOK, "persona_card.html", map[string]interface{}{
		"Persona": out,
	})
}

// DemoHandler generates a persona for a pre-filled example profile.
func (h *Handler) DemoHandler(c echo.Context) error {
	in := Input{
		Traits:                  []string{"disciplined", "creative", "consistent"},
		Goals:                   []string{"strength", "lean"},
		MusicPreference:         "instrumental",
		WorkoutStyle:            "controlled intensity",
		SessionLengthPreference: 45,
	}

	out, err := h.generate(c.Request().Context(), in)
	if err != nil {
		return c.JSON(faults.HTTPStatus(err), map[string]string{"error": err.Error()})
	}
	sessionID := storage.Record(c.Request().Context(), h.Store, experimentName, "model", in, out)
	utility.BroadcastGeneration(experimentName, sessionID, "model")

	return c.Render(http.StatusOK, "persona_card.html", map[string]interface{}{
		"Persona": out,
	})
}

// ArchetypesHandler returns the full archetype catalog as JSON.
func (h *Handler) ArchetypesHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"archetypes": h.KB.Archetypes(),
	})
}

// generate runs the model pipeline. Identity cards have no deterministic
// fallback: a failed generation or an unparseable reply is surfaced to the
// caller. Successful cards are also written to outputs/latest_persona.json.
func (h *Handler) generate(ctx context.Context, in Input) (*Output, error) {
	userPrompt := BuildPrompt(h.KB.Archetypes(), in)

	var out Output
	if err := geminiservice.GenerateAndParse(ctx, h.Gen, "PersonaGenerator", SystemPrompt, userPrompt, &out); err != nil {
		return nil, err
	}
	if !out.valid() {
		return nil, &faults.ParseError{Err: errors.New("reply contained no usable persona")}
	}

	if path, err := utility.WriteArtifact("latest_persona.json", out); err != nil {
		log.Warn().Err(err).Msg("Failed to write persona artifact")
	} else {
		log.Info().Str("path", path).Msg("Persona artifact written")
	}

	return &out, nil
}
