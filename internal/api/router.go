package api

import (
	"net/http"

	"github.com/Rrens/support-chat/internal/analytics"
	"github.com/Rrens/support-chat/internal/api/handler"
	customMiddleware "github.com/Rrens/support-chat/internal/api/middleware"
	"github.com/Rrens/support-chat/internal/config"
	"github.com/Rrens/support-chat/internal/feedback"
	"github.com/Rrens/support-chat/internal/llm"
	"github.com/Rrens/support-chat/internal/repository"
	"github.com/Rrens/support-chat/internal/service"
	"github.com/Rrens/support-chat/internal/sessionstate"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
)

// Dependencies are the long-lived components the router wires into handlers
type Dependencies struct {
	Repos  *repository.Repositories
	Engine *feedback.Engine
	States sessionstate.Store
	// LLM is nil when topic extraction is disabled
	LLM *llm.Router
	// Limiter is nil when Redis is not configured
	Limiter customMiddleware.Limiter
}

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, deps Dependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)
	if cfg.Server.MiddlewareTimeout > 0 {
		r.Use(middleware.Timeout(cfg.Server.MiddlewareTimeout))
	}

	// CORS
	origins := cfg.Server.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		MaxAge:         300,
	}))

	repos := deps.Repos
	withMicro := cfg.Feedback.MicroInteractions

	// Initialize services
	chatService := service.NewChatService(repos.Sessions, repos.Messages, repos.Interactions, deps.Engine, withMicro)
	sessionService := service.NewSessionService(
		repos.Sessions,
		repos.Interactions,
		repos.Admin,
		deps.Engine,
		deps.States,
		withMicro,
		cfg.Analytics.SessionExpiry,
	)
	feedbackService := service.NewFeedbackService(repos.Sessions, repos.Feedback, repos.Votes, repos.Interactions, withMicro)
	location := cfg.Analytics.Location()
	analyticsService := service.NewAnalyticsService(repos.Stats, analytics.Options{
		AbandonAfter: cfg.Analytics.AbandonAfter,
		Location:     location,
	}, cfg.Analytics.RequestTimeout)

	// Initialize handlers
	chatHandler := handler.NewChatHandler(chatService)
	sessionHandler := handler.NewSessionHandler(sessionService)
	feedbackHandler := handler.NewFeedbackHandler(feedbackService)
	dashboardHandler := handler.NewDashboardHandler(analyticsService, sessionService, location)

	limit := func(next http.Handler) http.Handler { return next }
	if deps.Limiter != nil {
		limit = customMiddleware.NewRateLimitMiddleware(deps.Limiter).Limit
	} else {
		log.Info().Msg("Rate limiting disabled (no Redis)")
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Health check
		r.Get("/health", handler.HealthCheck)
		r.Get("/ready", handler.ReadyCheck(repos.Ping))
		r.Get("/llm-providers", handler.ListLLMProviders(deps.LLM))

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", sessionHandler.Create)
			r.Post("/end", sessionHandler.End)
			r.Post("/abandon", sessionHandler.Abandon)
			r.Post("/resolve", sessionHandler.Resolve)
			r.Post("/not-resolved", sessionHandler.NotResolved)
			r.Get("/check", sessionHandler.Check)
			r.Post("/topic", sessionHandler.UpdateTopic)
		})

		r.Route("/chat", func(r chi.Router) {
			r.With(limit).Post("/messages", chatHandler.UserMessage)
			r.Post("/assistant-messages", chatHandler.AssistantMessage)
		})

		r.Post("/interactions", feedbackHandler.TrackInteraction)
		r.Post("/feedback", feedbackHandler.Submit)

		r.Route("/votes", func(r chi.Router) {
			r.Get("/", feedbackHandler.ListVotes)
			r.Patch("/", feedbackHandler.Vote)
		})

		r.Get("/dashboard/stats", dashboardHandler.Stats)
		r.Delete("/admin/data", dashboardHandler.ClearData)
	})

	return r
}
