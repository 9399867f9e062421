package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"
)

// AdminRepository implements domain.AdminRepository
type AdminRepository struct {
	db *sql.DB
}

func NewAdminRepository(db *sql.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// clearOrder lists tables children first
var clearOrder = []string{"user_interactions", "chat_feedback", "chat_votes", "chat_messages", "chat_sessions"}

func (r *AdminRepository) ClearAll(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range clearOrder {
		res, err := tx.ExecContext(ctx, "DELETE FROM "+table)
		if err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
		n, _ := res.RowsAffected()
		log.Info().Str("table", table).Int64("rows", n).Msg("Cleared table")
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit clear: %w", err)
	}
	return nil
}
