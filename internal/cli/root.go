// Package cli provides the supportctl administration commands.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/Rrens/support-chat/internal/analytics"
	"github.com/Rrens/support-chat/internal/config"
	"github.com/Rrens/support-chat/internal/feedback"
	"github.com/Rrens/support-chat/internal/logger"
	"github.com/Rrens/support-chat/internal/repository"
	"github.com/Rrens/support-chat/internal/repository/redis"
	"github.com/Rrens/support-chat/internal/service"
	"github.com/Rrens/support-chat/internal/sessionstate"
	"github.com/spf13/cobra"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	verbose bool

	cfg         *config.Config
	repos       *repository.Repositories
	states      sessionstate.Store
	redisClient *redis.Client
)

var rootCmd = &cobra.Command{
	Use:   "supportctl",
	Short: "Administer the support chat backend",
	Long: `supportctl inspects and maintains the support chat database.

It reads the same configuration as the API server (CONFIG_PATH and the
usual environment overrides) and talks to the database directly.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		logCfg := cfg.Logging
		logCfg.File = ""
		if !verbose {
			logCfg.Level = "warn"
		}
		if _, err := logger.Setup(logCfg, false); err != nil {
			return fmt.Errorf("set up logging: %w", err)
		}

		ctx := cmd.Context()
		repos, err = repository.Open(ctx, cfg.Database)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}

		if cfg.Redis.Enabled {
			redisClient, err = redis.NewClient(ctx, cfg.Redis)
			if err != nil {
				return fmt.Errorf("connect to redis: %w", err)
			}
			states = redis.NewSessionStateStore(redisClient, cfg.Feedback.SessionTTL)
		} else {
			states = sessionstate.NewMemoryStore(cfg.Feedback.SessionTTL)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if redisClient != nil {
			if err := redisClient.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close redis: %v\n", err)
			}
			redisClient = nil
		}
		if repos != nil {
			repos.Close()
			repos = nil
		}
	},
}

// sessionService wires the session service the same way the API server does
func sessionService() (*service.SessionService, error) {
	rules, err := feedback.TriggerTableFromConfig(cfg.Feedback)
	if err != nil {
		return nil, fmt.Errorf("load trigger table: %w", err)
	}
	engine := feedback.NewEngine(states, rules, feedback.EngineConfig{Cooldown: cfg.Feedback.Cooldown})

	return service.NewSessionService(
		repos.Sessions,
		repos.Interactions,
		repos.Admin,
		engine,
		states,
		cfg.Feedback.MicroInteractions,
		cfg.Analytics.SessionExpiry,
	), nil
}

func analyticsService() *service.AnalyticsService {
	return service.NewAnalyticsService(repos.Stats, analytics.Options{
		AbandonAfter: cfg.Analytics.AbandonAfter,
		Location:     cfg.Analytics.Location(),
	}, cfg.Analytics.RequestTimeout)
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with ctx.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(checkSessionCmd)
	rootCmd.AddCommand(clearDataCmd)
}
