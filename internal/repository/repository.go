// Package repository opens the configured persistence backend and exposes
// its repositories as one bundle.
package repository

import (
	"context"
	"fmt"

	"github.com/Rrens/support-chat/internal/config"
	"github.com/Rrens/support-chat/internal/domain"
	"github.com/Rrens/support-chat/internal/repository/postgres"
	"github.com/Rrens/support-chat/internal/repository/sqlite"
	"github.com/rs/zerolog/log"
)

// Repositories groups the repositories of a single backend
type Repositories struct {
	Driver       string
	Sessions     domain.SessionRepository
	Messages     domain.MessageRepository
	Interactions domain.InteractionRepository
	Feedback     domain.FeedbackRepository
	Votes        domain.VoteRepository
	Stats        domain.StatsSource
	Admin        domain.AdminRepository

	ping  func(ctx context.Context) error
	close func()
}

// Open connects to the backend named by cfg.Driver
func Open(ctx context.Context, cfg config.DatabaseConfig) (*Repositories, error) {
	switch cfg.Driver {
	case "postgres", "":
		db, err := postgres.NewDB(ctx, cfg)
		if err != nil {
			return nil, err
		}
		log.Info().Str("host", cfg.Host).Str("database", cfg.Database).Msg("Connected to PostgreSQL")
		return &Repositories{
			Driver:       "postgres",
			Sessions:     postgres.NewSessionRepository(db.Pool),
			Messages:     postgres.NewMessageRepository(db.Pool),
			Interactions: postgres.NewInteractionRepository(db.Pool),
			Feedback:     postgres.NewFeedbackRepository(db.Pool),
			Votes:        postgres.NewVoteRepository(db.Pool),
			Stats:        postgres.NewStatsRepository(db.Pool),
			Admin:        postgres.NewAdminRepository(db.Pool),
			ping:         db.Ping,
			close:        db.Close,
		}, nil
	case "sqlite":
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		log.Info().Str("path", cfg.SQLitePath).Msg("Opened SQLite database")
		return NewSQLite(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", cfg.Driver)
	}
}

// NewSQLite bundles the repositories of an already opened SQLite database
func NewSQLite(db *sqlite.DB) *Repositories {
	return &Repositories{
		Driver:       "sqlite",
		Sessions:     sqlite.NewSessionRepository(db.SQL),
		Messages:     sqlite.NewMessageRepository(db.SQL),
		Interactions: sqlite.NewInteractionRepository(db.SQL),
		Feedback:     sqlite.NewFeedbackRepository(db.SQL),
		Votes:        sqlite.NewVoteRepository(db.SQL),
		Stats:        sqlite.NewStatsRepository(db.SQL),
		Admin:        sqlite.NewAdminRepository(db.SQL),
		ping:         db.Ping,
		close:        db.Close,
	}
}

// Ping verifies backend connectivity
func (r *Repositories) Ping(ctx context.Context) error {
	if r.ping == nil {
		return nil
	}
	return r.ping(ctx)
}

// Close releases the backend
func (r *Repositories) Close() {
	if r.close != nil {
		r.close()
	}
}
