package server

import (
	"html/template"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"

	"fitlab/internal/bias"
	"fitlab/internal/emotion"
	"fitlab/internal/persona"
	"fitlab/internal/progression"
	"fitlab/internal/splitter"
	"fitlab/internal/utility"
	"fitlab/internal/workout"
)

// TemplateRenderer is a custom html/template renderer for Echo framework
type TemplateRenderer struct {
	templates *template.Template
}

// Render renders a template document
func (t *TemplateRenderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	// Use ExecuteTemplate to select the correct template by name
	return t.templates.ExecuteTemplate(w, name, data)
}

func (s *Server) RegisterRoutes() http.Handler {
	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"https://*", "http://*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "X-Platform"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	e.Static("/static", "web/public")

	renderer := &TemplateRenderer{
		templates: template.Must(template.ParseGlob("web/templates/*.html")),
	}
	e.Renderer = renderer

	e.Use(LoggerMiddleware)

	// Experiment handlers share the server's dependencies.
	workoutH := &workout.Handler{Gen: s.gen, Store: s.store}
	progressionH := &progression.Handler{Gen: s.gen, Store: s.store}
	emotionH := &emotion.Handler{Gen: s.gen, KB: s.kb, Store: s.store}
	biasH := &bias.Handler{Gen: s.gen, KB: s.kb, Store: s.store}
	personaH := &persona.Handler{Gen: s.gen, KB: s.kb, Store: s.store}
	splitterH := &splitter.Handler{Gen: s.gen, KB: s.kb, Store: s.store}

	e.GET("/", s.homeHandler)
	e.GET("/health", s.healthHandler)
	e.GET("/health/server", s.serverHealthHandler)
	e.GET("/sessions", s.sessionsHandler)
	e.GET("/ws", s.labFeedHandler)

	// Dynamic Workout Writer
	wg := e.Group("/workout")
	wg.GET("", workoutH.HomeHandler)
	wg.GET("/demo", workoutH.DemoHandler)
	wg.POST("/generate", workoutH.GenerateHandler, RateLimitMiddleware)
	wg.POST("/generate-json", workoutH.GenerateJSONHandler, RateLimitMiddleware)

	// Auto-Progression Engine
	pg := e.Group("/progression")
	pg.GET("", progressionH.HomeHandler)
	pg.GET("/demo", progressionH.DemoHandler)
	pg.POST("/analyze", progressionH.AnalyzeHandler, RateLimitMiddleware)
	pg.POST("/analyze-json", progressionH.AnalyzeJSONHandler, RateLimitMiddleware)

	// Emotion-Aligned Training
	eg := e.Group("/emotion")
	eg.GET("", emotionH.HomeHandler)
	eg.GET("/demo", emotionH.DemoHandler)
	eg.POST("/generate", emotionH.GenerateHandler, RateLimitMiddleware)
	eg.GET("/api/recommendation", emotionH.APIRecommendationHandler)

	// Cognitive Bias Antidote
	bg := e.Group("/bias")
	bg.GET("", biasH.HomeHandler)
	bg.POST("/analyze", biasH.AnalyzeHandler, RateLimitMiddleware)
	bg.POST("/analyze/visual", biasH.AnalyzeVisualHandler, RateLimitMiddleware)

	// Fitness Persona Generator
	prg := e.Group("/persona")
	prg.GET("", personaH.HomeHandler)
	prg.GET("/demo", personaH.DemoHandler)
	prg.GET("/api/archetypes", personaH.ArchetypesHandler)
	prg.POST("/generate", personaH.GenerateHandler, RateLimitMiddleware)

	// Micro-Workout Splitter
	sg := e.Group("/split")
	sg.GET("", splitterH.HomeHandler)
	sg.GET("/demo", splitterH.DemoHandler)
	sg.POST("", splitterH.SplitFormHandler, RateLimitMiddleware)
	sg.POST("/api", splitterH.SplitAPIHandler, RateLimitMiddleware)

	return e
}

func (s *Server) homeHandler(c echo.Context) error {
	return c.Render(http.StatusOK, "home.html", map[string]interface{}{
		"Title": "FitLab",
	})
}

func (s *Server) healthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, s.store.Health())
}

// sessionsHandler lists recently completed generations from the session log.
func (s *Server) sessionsHandler(c echo.Context) error {
	limit := 0
	echo.QueryParamsBinder(c).Int("limit", &limit)

	sessions, err := s.store.RecentGenerations(c.Request().Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load recent sessions")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load sessions"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"sessions": sessions,
		"count":    len(sessions),
	})
}

// labFeedHandler upgrades the connection and keeps it registered until the
// client disconnects. Events are pushed by the experiments on completion.
func (s *Server) labFeedHandler(c echo.Context) error {
	conn, err := utility.Upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade lab feed connection")
		return err
	}

	clientID := uuid.New().String()
	utility.RegisterFeedClient(clientID, conn)

	defer func() {
		utility.UnregisterFeedClient(clientID)
		conn.Close()
	}()

	// Drain reads so we notice the close frame.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	return nil
}

func LoggerMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := c.Request().Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Response().Header().Set("X-Request-ID", requestID)

		logger := log.With().Str("request_id", requestID).Logger()

		c.Set("logger", &logger)

		return next(c)
	}
}

// RateLimitMiddleware guards the generation endpoints; page loads, demos and
// health checks are never limited.
func RateLimitMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ip := utility.GetRealIP(c)
		if err := utility.CheckIPRateLimit(ip); err != nil {
			log.Warn().Str("ip", ip).Msg("Generation rate limit hit")
			return c.JSON(http.StatusTooManyRequests, map[string]string{"error": err.Error()})
		}
		return next(c)
	}
}
