package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Rrens/support-chat/internal/api"
	apiMiddleware "github.com/Rrens/support-chat/internal/api/middleware"
	"github.com/Rrens/support-chat/internal/config"
	"github.com/Rrens/support-chat/internal/feedback"
	"github.com/Rrens/support-chat/internal/llm"
	"github.com/Rrens/support-chat/internal/llm/anthropic"
	"github.com/Rrens/support-chat/internal/llm/deepseek"
	"github.com/Rrens/support-chat/internal/llm/gemini"
	"github.com/Rrens/support-chat/internal/llm/ollama"
	"github.com/Rrens/support-chat/internal/llm/openai"
	"github.com/Rrens/support-chat/internal/logger"
	"github.com/Rrens/support-chat/internal/repository"
	"github.com/Rrens/support-chat/internal/repository/postgres"
	"github.com/Rrens/support-chat/internal/repository/redis"
	"github.com/Rrens/support-chat/internal/sessionstate"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load .env file - try multiple locations
	for _, p := range []string{".env", "../.env", "../../.env"} {
		if err := godotenv.Load(p); err == nil {
			fmt.Printf("Loaded .env from: %s\n", p)
			break
		}
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	closer, err := logger.Setup(cfg.Logging, os.Getenv("ENV") == "production")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	log.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Str("database", cfg.Database.Driver).
		Msg("Starting support chat API server")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Apply migrations before opening the pool
	if cfg.Database.Driver == "postgres" && cfg.Database.Migrations != "" {
		if err := postgres.RunMigrations(cfg.Database.DSN(), cfg.Database.Migrations); err != nil {
			log.Fatal().Err(err).Msg("Failed to run migrations")
		}
	}

	repos, err := repository.Open(ctx, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer repos.Close()

	// Session state lives in Redis when enabled so several instances can share it
	var states sessionstate.Store
	var limiter apiMiddleware.Limiter
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer redisClient.Close()

		states = redis.NewSessionStateStore(redisClient, cfg.Feedback.SessionTTL)
		limiter = redis.NewRateLimiter(
			redisClient,
			cfg.Security.RateLimit.RequestsPerMinute,
			cfg.Security.RateLimit.Burst,
		)
		log.Info().Str("addr", cfg.Redis.Addr()).Msg("Using Redis session state store")
	} else {
		states = sessionstate.NewMemoryStore(cfg.Feedback.SessionTTL)
		log.Warn().Msg("Using in-memory session state store; only correct for a single instance")
	}
	sessionstate.StartSweeper(ctx, states, cfg.Feedback.SweepInterval)

	rules, err := feedback.TriggerTableFromConfig(cfg.Feedback)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid feedback trigger configuration")
	}

	var llmRouter *llm.Router
	engineCfg := feedback.EngineConfig{
		Cooldown:     cfg.Feedback.Cooldown,
		TopicTimeout: cfg.Feedback.TopicTimeout,
	}
	if cfg.Feedback.TopicExtraction {
		llmRouter = buildLLMRouter(cfg.LLM)
		if len(llmRouter.ListProviders()) > 0 {
			engineCfg.Extractor = llm.NewTopicExtractor(llmRouter, "", "")
		} else {
			log.Warn().Msg("No LLM provider configured, topics fall back to the default label")
		}
	}
	engine := feedback.NewEngine(states, rules, engineCfg)

	router := api.NewRouter(cfg, api.Dependencies{
		Repos:   repos,
		Engine:  engine,
		States:  states,
		LLM:     llmRouter,
		Limiter: limiter,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info().Msgf("Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}

// buildLLMRouter registers every provider that has credentials
func buildLLMRouter(cfg config.LLMConfig) *llm.Router {
	router := llm.NewRouter(cfg.DefaultProvider)

	if cfg.Ollama.Host != "" {
		log.Info().Str("host", cfg.Ollama.Host).Msg("Registering Ollama provider")
		router.RegisterProvider(ollama.NewProvider(cfg.Ollama.Host, cfg.Ollama.DefaultModel))
	}
	if cfg.OpenAI.APIKey != "" {
		router.RegisterProvider(openai.NewProvider(cfg.OpenAI.APIKey, cfg.OpenAI.Model))
	}
	if cfg.Anthropic.APIKey != "" {
		router.RegisterProvider(anthropic.NewProvider(cfg.Anthropic.APIKey, cfg.Anthropic.Model))
	}
	if cfg.DeepSeek.APIKey != "" {
		router.RegisterProvider(deepseek.NewProvider(cfg.DeepSeek.APIKey, cfg.DeepSeek.Model))
	}
	if cfg.Gemini.APIKey != "" {
		router.RegisterProvider(gemini.NewProvider(cfg.Gemini))
	}

	log.Info().Strs("providers", router.ListProviders()).Str("default", router.DefaultProvider()).Msg("LLM providers registered")
	return router
}
