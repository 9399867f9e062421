package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// AdminRepository implements domain.AdminRepository
type AdminRepository struct {
	pool *pgxpool.Pool
}

func NewAdminRepository(pool *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{pool: pool}
}

// clearOrder lists tables children first
var clearOrder = []string{"user_interactions", "chat_feedback", "chat_votes", "chat_messages", "chat_sessions"}

func (r *AdminRepository) ClearAll(ctx context.Context) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, table := range clearOrder {
		tag, err := tx.Exec(ctx, "DELETE FROM "+table)
		if err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
		log.Info().Str("table", table).Int64("rows", tag.RowsAffected()).Msg("Cleared table")
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit clear: %w", err)
	}
	return nil
}
