package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Rrens/support-chat/internal/domain"
)

// InteractionRepository implements domain.InteractionRepository
type InteractionRepository struct {
	db *sql.DB
}

func NewInteractionRepository(db *sql.DB) *InteractionRepository {
	return &InteractionRepository{db: db}
}

func (r *InteractionRepository) Create(ctx context.Context, interaction *domain.Interaction) error {
	var metadata sql.NullString
	if len(interaction.Metadata) > 0 {
		raw, err := json.Marshal(interaction.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal interaction metadata: %w", err)
		}
		metadata = sql.NullString{String: string(raw), Valid: true}
	}

	query := `
		INSERT INTO user_interactions (id, session_id, interaction_type, content, topic, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		interaction.ID.String(),
		interaction.SessionID,
		interaction.Type,
		nullString(interaction.Content),
		nullString(interaction.Topic),
		metadata,
		toMillis(interaction.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create interaction: %w", err)
	}
	return nil
}
