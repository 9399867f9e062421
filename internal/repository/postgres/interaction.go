package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Rrens/support-chat/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// InteractionRepository implements domain.InteractionRepository
type InteractionRepository struct {
	pool *pgxpool.Pool
}

func NewInteractionRepository(pool *pgxpool.Pool) *InteractionRepository {
	return &InteractionRepository{pool: pool}
}

func (r *InteractionRepository) Create(ctx context.Context, interaction *domain.Interaction) error {
	var metadata []byte
	if len(interaction.Metadata) > 0 {
		var err error
		metadata, err = json.Marshal(interaction.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal interaction metadata: %w", err)
		}
	}

	query := `
		INSERT INTO user_interactions (id, session_id, interaction_type, content, topic, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, query,
		interaction.ID,
		interaction.SessionID,
		interaction.Type,
		interaction.Content,
		interaction.Topic,
		metadata,
		interaction.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create interaction: %w", err)
	}
	return nil
}
